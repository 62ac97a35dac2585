// Copyright Docbrief Authors
// SPDX-License-Identifier: Apache-2.0

// Package extractor turns uploaded office documents into plain text.
//
// Strategies are chosen by file extension. Failures are returned as typed
// errors whose messages keep the "ERRO" prefix shown to end users.
package extractor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format names used in Document.Format and Error.Format.
const (
	FormatDOCX = "DOCX"
	FormatPDF  = "PDF"
	FormatXLSX = "XLSX"
	FormatXLS  = "XLS"
)

// WarnEmptyWorkbook is set on Document.Warning when a workbook has no
// non-blank cell in any sheet. It is a warning, not an error.
const WarnEmptyWorkbook = "AVISO: O arquivo Excel foi lido, mas está vazio."

// ErrPasswordProtected is returned for encrypted PDFs. No page is read.
var ErrPasswordProtected = errors.New("ERRO: O arquivo PDF está protegido por senha.")

// Document is the result of a successful extraction.
type Document struct {
	Format  string
	Text    string
	Warning string
	Pages   int      // PDF only
	Sheets  []string // Excel only
}

// Blank reports whether the document carries no usable text.
func (d *Document) Blank() bool {
	return d == nil || strings.TrimSpace(d.Text) == ""
}

// Error is a format-specific extraction failure.
type Error struct {
	Format string
	Err    error
}

func (e *Error) Error() string {
	if e.Format == FormatXLSX || e.Format == FormatXLS {
		return fmt.Sprintf("ERRO ao ler Excel: %v. O arquivo pode estar corrompido ou protegido.", e.Err)
	}
	return fmt.Sprintf("ERRO ao ler %s: %v", e.Format, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// UnsupportedFormatError is returned for extensions with no strategy.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("Formato de arquivo '%s' não é suportado.", e.Ext)
}

type strategy func(content []byte) (*Document, error)

var strategies = map[string]struct {
	format string
	fn     strategy
}{
	".docx": {FormatDOCX, extractDOCX},
	".pdf":  {FormatPDF, extractPDF},
	".xlsx": {FormatXLSX, extractXLSX},
	".xls":  {FormatXLS, extractXLS},
}

// NormalizeExt lowercases ext and makes sure it starts with a dot.
func NormalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// Supported reports whether ext has an extraction strategy.
func Supported(ext string) bool {
	_, ok := strategies[NormalizeExt(ext)]
	return ok
}

// FormatOf returns the format name for ext, or "" when unsupported.
func FormatOf(ext string) string {
	return strategies[NormalizeExt(ext)].format
}

// Extract converts content into text using the strategy selected by ext.
// It never panics: a panic inside a parser is reported as an *Error.
func Extract(content []byte, ext string) (doc *Document, err error) {
	ext = NormalizeExt(ext)
	s, ok := strategies[ext]
	if !ok {
		return nil, &UnsupportedFormatError{Ext: ext}
	}

	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = &Error{Format: s.format, Err: fmt.Errorf("parser panic: %v", r)}
		}
	}()

	doc, err = s.fn(content)
	if err != nil {
		var pe *Error
		if errors.As(err, &pe) || errors.Is(err, ErrPasswordProtected) {
			return nil, err
		}
		return nil, &Error{Format: s.format, Err: err}
	}
	doc.Format = s.format
	return doc, nil
}

// ExtractFile reads path and extracts it by its extension.
func ExtractFile(path string) (*Document, error) {
	ext := NormalizeExt(filepath.Ext(path))
	if !Supported(ext) {
		return nil, &UnsupportedFormatError{Ext: ext}
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Format: FormatOf(ext), Err: err}
	}
	return Extract(content, ext)
}

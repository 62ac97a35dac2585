// Copyright Docbrief Authors
// SPDX-License-Identifier: Apache-2.0

package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	encryptKey   = []byte("/Encrypt")
	trailerKey   = []byte("trailer")
	startxrefKey = []byte("startxref")
	streamKey    = []byte("stream")
)

// extractPDF concatenates the plain text of every readable page, each
// followed by a newline. Encrypted documents are rejected before any page is
// read, even when the empty user password would open them.
func extractPDF(content []byte) (*Document, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		if errors.Is(err, pdf.ErrInvalidPassword) || trailerDeclaresEncryption(content) {
			return nil, ErrPasswordProtected
		}
		return nil, fmt.Errorf("open PDF: %w", err)
	}
	if !reader.Trailer().Key("Encrypt").IsNull() {
		return nil, ErrPasswordProtected
	}

	var sb strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	return &Document{Text: sb.String(), Pages: numPages}, nil
}

// trailerDeclaresEncryption reports whether the trailer dictionary names an
// /Encrypt entry. It covers files the reader refuses to open, such as an
// encryption dictionary without a document ID. Only the classic trailer and
// the dictionary of a cross-reference stream are inspected.
func trailerDeclaresEncryption(content []byte) bool {
	if i := bytes.LastIndex(content, trailerKey); i >= 0 {
		dict := content[i:]
		if j := bytes.Index(dict, startxrefKey); j >= 0 {
			dict = dict[:j]
		}
		return bytes.Contains(dict, encryptKey)
	}

	i := bytes.LastIndex(content, startxrefKey)
	if i < 0 {
		return false
	}
	fields := bytes.Fields(content[i+len(startxrefKey):])
	if len(fields) == 0 {
		return false
	}
	off, err := strconv.Atoi(string(fields[0]))
	if err != nil || off <= 0 || off >= len(content) {
		return false
	}
	dict := content[off:]
	if j := bytes.Index(dict, streamKey); j >= 0 {
		dict = dict[:j]
	}
	return bytes.Contains(dict, encryptKey)
}

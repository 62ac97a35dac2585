// Copyright Docbrief Authors
// SPDX-License-Identifier: Apache-2.0

package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

const emptySheet = "(Aba vazia)"

// BIFF8 worksheets have at most 256 columns.
const xlsMaxCols = 256

// sheet is one worksheet as a grid of cell strings; the first row is the
// header.
type sheet struct {
	name string
	rows [][]string
}

func extractXLSX(content []byte) (*Document, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var sheets []sheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", name, err)
		}
		sheets = append(sheets, sheet{name: name, rows: rows})
	}
	return renderWorkbook(sheets), nil
}

func extractXLS(content []byte) (*Document, error) {
	wb, err := xls.OpenReader(bytes.NewReader(content), "utf-8")
	if err != nil {
		return nil, err
	}

	var sheets []sheet
	for i := 0; i < wb.NumSheets(); i++ {
		ws := wb.GetSheet(i)
		if ws == nil {
			continue
		}
		s := sheet{name: ws.Name}
		for r := 0; r <= int(ws.MaxRow); r++ {
			row := xlsRow(ws, r)
			if row == nil {
				continue
			}
			width := row.LastCol()
			if width == 0 {
				// Cells written without a ROW record leave the bounds unset.
				width = xlsMaxCols
			}
			cells := make([]string, 0, width)
			for c := 0; c < width; c++ {
				cells = append(cells, row.Col(c))
			}
			s.rows = append(s.rows, cells)
		}
		sheets = append(sheets, s)
	}
	return renderWorkbook(sheets), nil
}

// xlsRow returns nil for rows absent from the sheet. WorkSheet.Row
// dereferences the missing entry and panics in that case.
func xlsRow(ws *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return ws.Row(i)
}

// renderWorkbook labels each sheet and lays its rows out tab-separated.
// A workbook whose sheets are all blank yields empty text plus
// WarnEmptyWorkbook.
func renderWorkbook(sheets []sheet) *Document {
	doc := &Document{}
	blocks := make([]string, 0, len(sheets))
	anyContent := false

	for _, s := range sheets {
		doc.Sheets = append(doc.Sheets, s.name)

		var lines []string
		for _, row := range s.rows {
			if blankRow(row) {
				continue
			}
			lines = append(lines, strings.TrimRight(strings.Join(row, "\t"), "\t"))
		}

		block := fmt.Sprintf("--- Conteúdo da Aba: '%s' ---\n", s.name)
		if len(lines) == 0 {
			block += emptySheet
		} else {
			anyContent = true
			block += strings.Join(lines, "\n")
		}
		blocks = append(blocks, block)
	}

	if !anyContent {
		doc.Warning = WarnEmptyWorkbook
		return doc
	}
	doc.Text = strings.Join(blocks, "\n\n")
	return doc
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

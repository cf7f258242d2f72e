// Package workbook decodes uploaded spreadsheets into raw rows.
package workbook

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/incident-ingest-service/internal/domain"
)

// Kind is the container format of an upload.
type Kind string

const (
	KindUnknown Kind = ""
	KindXLSX    Kind = "xlsx"
	KindCSV     Kind = "csv"
	KindXLS     Kind = "xls"
)

var (
	zipMagic = []byte("PK\x03\x04")
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

	// ErrNoSheets is wrapped by FormatError when the workbook has no sheets.
	ErrNoSheets = errors.New("workbook has no sheets")
	// ErrUnsupported is wrapped by FormatError for formats that cannot be read.
	ErrUnsupported = errors.New("unsupported spreadsheet format")
)

// FormatError reports an upload that could not be decoded at all.
type FormatError struct {
	Kind Kind
	Err  error
}

func (e *FormatError) Error() string {
	if e.Kind == KindUnknown {
		return "decode workbook: " + e.Err.Error()
	}
	return fmt.Sprintf("decode %s workbook: %v", e.Kind, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Detect infers the format from magic bytes, then the file name, then the
// declared content type.
func Detect(data []byte, filename, contentType string) Kind {
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return KindXLSX
	case bytes.HasPrefix(data, oleMagic):
		return KindXLS
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return KindCSV
	case ".xlsx", ".xlsm":
		return KindXLSX
	case ".xls":
		return KindXLS
	}

	if strings.HasPrefix(strings.ToLower(contentType), "text/csv") {
		return KindCSV
	}
	return KindUnknown
}

// Decode reads the first sheet of data as a header row followed by data rows.
// A header without data rows yields an empty, non-nil slice.
func Decode(data []byte, kind Kind) ([]domain.RawRow, error) {
	switch kind {
	case KindXLSX:
		return decodeXLSX(data)
	case KindCSV:
		return decodeCSV(data)
	case KindXLS:
		return nil, &FormatError{Kind: kind, Err: fmt.Errorf("%w: legacy binary .xls, save as .xlsx", ErrUnsupported)}
	default:
		return nil, &FormatError{Kind: kind, Err: ErrUnsupported}
	}
}

func decodeXLSX(data []byte) ([]domain.RawRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &FormatError{Kind: KindXLSX, Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &FormatError{Kind: KindXLSX, Err: ErrNoSheets}
	}
	sheet := sheets[0]

	grid, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &FormatError{Kind: KindXLSX, Err: fmt.Errorf("read sheet %q: %w", sheet, err)}
	}
	// The table starts at the first non-blank row, not necessarily row 1.
	top := 0
	for top < len(grid) && blankRow(grid[top]) {
		top++
	}
	if top == len(grid) {
		return []domain.RawRow{}, nil
	}

	headers := buildHeaders(grid[top])
	rows := make([]domain.RawRow, 0, len(grid)-top-1)
	for r := top + 1; r < len(grid); r++ {
		row := make(domain.RawRow, len(headers))
		for c, raw := range grid[r] {
			if c >= len(headers) || raw == "" {
				continue
			}
			cell, err := xlsxCell(f, sheet, c+1, r+1, raw)
			if err != nil {
				return nil, &FormatError{Kind: KindXLSX, Err: err}
			}
			row[headers[c]] = cell
		}
		if len(row) == 0 {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// xlsxCell types a raw cell value using the cell's stored type. Cells with no
// explicit type are numeric in SpreadsheetML.
func xlsxCell(f *excelize.File, sheet string, col, row int, raw string) (domain.Cell, error) {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return domain.Cell{}, err
	}
	typ, err := f.GetCellType(sheet, name)
	if err != nil {
		return domain.Cell{}, fmt.Errorf("cell %s type: %w", name, err)
	}

	switch typ {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return domain.Number(v), nil
		}
		return domain.Text(raw), nil
	case excelize.CellTypeBool:
		return domain.Bool(raw == "1"), nil
	default:
		return domain.Text(raw), nil
	}
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}

// buildHeaders makes every column key unique while keeping header text
// literal, so "LATITUDE " is not "LATITUDE". Empty header cells become
// "__EMPTY", "__EMPTY_1", ...; repeated names gain "_1", "_2", ... in column
// order.
func buildHeaders(header []string) []string {
	out := make([]string, len(header))
	taken := make(map[string]bool, len(header))
	for i, h := range header {
		base := h
		if base == "" {
			base = "__EMPTY"
		}
		name := base
		for n := 1; taken[name]; n++ {
			name = base + "_" + strconv.Itoa(n)
		}
		taken[name] = true
		out[i] = name
	}
	return out
}

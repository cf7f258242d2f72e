package workbook

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/couchcryptid/incident-ingest-service/internal/domain"
)

var (
	utf8BOM = []byte("\xEF\xBB\xBF")

	// csvNumberRe accepts plain decimal numbers only; strconv alone would also
	// take "NaN", "Inf" and hex floats.
	csvNumberRe = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?$`)
)

// decodeCSV treats the file as a single sheet. CSV has no cell types, so a
// field that is a plain decimal number becomes a number cell and everything
// else stays text.
func decodeCSV(data []byte) ([]domain.RawRow, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return []domain.RawRow{}, nil
	}
	if err != nil {
		return nil, &FormatError{Kind: KindCSV, Err: fmt.Errorf("read header: %w", err)}
	}
	headers := buildHeaders(header)

	rows := []domain.RawRow{}
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &FormatError{Kind: KindCSV, Err: err}
		}

		row := make(domain.RawRow, len(headers))
		for c, field := range record {
			if c >= len(headers) || field == "" {
				continue
			}
			row[headers[c]] = csvCell(field)
		}
		if len(row) == 0 {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func csvCell(field string) domain.Cell {
	if trimmed := strings.TrimSpace(field); csvNumberRe.MatchString(trimmed) {
		if v, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return domain.Number(v)
		}
	}
	return domain.Text(field)
}

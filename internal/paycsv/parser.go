// Package paycsv parses uploaded CSV files of payments so they can be
// attached to an invoice in bulk. Files may be semicolon- or
// comma-delimited and in any common spreadsheet encoding.
package paycsv

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/billable/internal/invoice"
)

const (
	colDate   = "date"
	colAmount = "amount"
	colMethod = "method"
)

var dateLayouts = []string{"2006-01-02", "02-01-2006"}

// Parse reads payment rows from a CSV export. The file must contain a
// header row with date, amount and method columns (case-insensitive, in
// any order); rows before the header are ignored so files with preamble
// lines still parse. A malformed data row rejects the whole file.
func Parse(r io.Reader) ([]invoice.PaymentParams, error) {
	utf8r, err := utf8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	cols, headerIdx := findHeader(rows)
	if cols == nil {
		return nil, fmt.Errorf("no header row found: expected date, amount and method columns")
	}

	return parseRows(cols, rows[headerIdx+1:], headerIdx+1)
}

// detectDelimiter picks the separator that appears most often on the
// first line.
func detectDelimiter(data []byte) rune {
	line := data
	if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
		line = data[:idx]
	}

	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}

	return ','
}

// colIndex maps normalized column names to their index in the row.
type colIndex map[string]int

func findHeader(rows [][]string) (colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if name != "" {
				cols[name] = i
			}
		}

		_, hasDate := cols[colDate]
		_, hasAmount := cols[colAmount]
		_, hasMethod := cols[colMethod]

		if hasDate && hasAmount && hasMethod {
			return cols, rowIdx
		}
	}

	return nil, 0
}

func parseRows(cols colIndex, rows [][]string, headerRowNum int) ([]invoice.PaymentParams, error) {
	var params []invoice.PaymentParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 1 // 1-based file line, header included

		if isBlank(row) {
			continue
		}

		date, err := parseDate(cellValue(row, cols[colDate]))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		amount, err := parseAmount(cellValue(row, cols[colAmount]))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		params = append(params, invoice.PaymentParams{
			Amount:      amount,
			PaymentDate: date,
			Method:      cellValue(row, cols[colMethod]),
		})
	}

	return params, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("missing date")
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// parseAmount accepts plain decimals ("1234.56") and European formatting
// ("1.234,56").
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, fmt.Errorf("missing amount")
	}

	clean := s
	if strings.Contains(s, ",") {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unparseable amount %q", s)
	}

	return d, nil
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}

package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/narensv/vyapari/internal/encoding"
)

// Expected header names in the backend's ledger export. Matching is
// case-insensitive; extra columns are ignored.
var requiredCols = []string{"date", "customer", "invoice no", "total amount"}

var moneyCols = map[string]bool{
	"subtotal": true, "cgst": true, "sgst": true, "igst": true,
	"total gst": true, "total amount": true,
}

// Parse reads a ledger CSV export into entries. The input encoding is
// detected and normalized first, since exports round-trip through Excel.
func Parse(r io.Reader) ([]Entry, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	cols, headerIdx, err := findHeader(rows)
	if err != nil {
		return nil, err
	}

	var entries []Entry

	for i, row := range rows[headerIdx+1:] {
		rowNum := headerIdx + i + 2 // 1-based, for error messages

		entry, err := parseRow(cols, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

type colIndex map[string]int

func findHeader(rows [][]string) (colIndex, int, error) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if name != "" {
				cols[name] = i
			}
		}

		matched := true

		for _, name := range requiredCols {
			if _, ok := cols[name]; !ok {
				matched = false
				break
			}
		}

		if matched {
			return cols, rowIdx, nil
		}
	}

	return nil, 0, fmt.Errorf("no ledger header row found: expected columns %v", requiredCols)
}

func parseRow(cols colIndex, row []string) (Entry, error) {
	entry := Entry{
		Customer:      cell(cols, row, "customer"),
		InvoiceNumber: cell(cols, row, "invoice no"),
	}

	date, err := parseDate(cell(cols, row, "date"))
	if err != nil {
		return Entry{}, err
	}

	entry.Date = date

	if s := cell(cols, row, "products"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return Entry{}, fmt.Errorf("column %q: %w", "products", err)
		}

		entry.Products = n
	}

	for name := range moneyCols {
		if _, ok := cols[name]; !ok {
			continue
		}

		amount, err := parseMoney(cell(cols, row, name))
		if err != nil {
			return Entry{}, fmt.Errorf("column %q: %w", name, err)
		}

		switch name {
		case "subtotal":
			entry.Subtotal = amount
		case "cgst":
			entry.CGST = amount
		case "sgst":
			entry.SGST = amount
		case "igst":
			entry.IGST = amount
		case "total gst":
			entry.TotalGST = amount
		case "total amount":
			entry.TotalAmount = amount
		}
	}

	return entry, nil
}

func cell(cols colIndex, row []string, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

var dateLayouts = []string{time.DateOnly, "02-01-2006", "02/01/2006", time.RFC3339}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// parseMoney reads an amount that may carry Indian digit grouping
// ("1,23,456.78") or a rupee sign.
func parseMoney(s string) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(s, ",", "")
	clean = strings.TrimSpace(strings.TrimPrefix(clean, "₹"))

	if clean == "" {
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}

	return d, nil
}

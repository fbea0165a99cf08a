// Package statement reads bank statement exports and records the amounts
// they show against bank-transfer payments awaiting verification.
package statement

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/levy/internal/encoding"
)

var ErrUnknownFormat = errors.New("no known bank statement layout found")

// Line is one credit on a statement. Debits are dropped while parsing.
type Line struct {
	Row           int       `json:"row"`
	Date          time.Time `json:"date"`
	Narration     string    `json:"narration"`
	Amount        int64     `json:"amount"`
	BankReference string    `json:"bank_reference"`
}

var dateLayouts = []string{
	"02-Jan-2006",
	"02-Jan-06",
	"02 Jan 2006",
	"02/01/2006",
	"02-01-2006",
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02/01/2006 15:04:05",
}

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse detects the file's encoding, delimiter and bank layout and returns
// its credit lines in file order. Rows that do not carry a date are treated
// as preamble or footer and skipped.
func (p *Parser) Parse(r io.Reader) (string, []Line, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return "", nil, fmt.Errorf("detect encoding: %w", err)
	}

	comma, body, err := enc.DetectDelimiter(utf8r)
	if err != nil {
		return "", nil, fmt.Errorf("detect delimiter: %w", err)
	}

	reader := csv.NewReader(body)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return "", nil, fmt.Errorf("read csv: %w", err)
	}

	profile, cols, headerIdx := detectProfile(rows)
	if profile == nil {
		return "", nil, ErrUnknownFormat
	}

	lines, err := parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
	if err != nil {
		return "", nil, err
	}

	return profile.Bank, lines, nil
}

type colIndex map[string]int

func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			if name := strings.ToLower(strings.TrimSpace(cell)); name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matches(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matches(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]Line, error) {
	refIdx := -1
	if idx, ok := cols[p.RefCol]; ok && p.RefCol != "" {
		refIdx = idx
	}

	var lines []Line

	for i, row := range rows {
		rowNum := headerRowNum + i + 1

		date, ok := parseDate(cell(row, cols[p.DateCol]))
		if !ok {
			continue
		}

		amount, ok, err := credit(p, cols, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		if !ok {
			continue
		}

		narration := cell(row, cols[p.DescCol])
		if narration == "" {
			return nil, fmt.Errorf("row %d: missing narration", rowNum)
		}

		ref := cell(row, refIdx)
		if ref == "" {
			ref = fmt.Sprintf("%s-%s-%d", p.Bank, date.Format("20060102"), rowNum)
		}

		lines = append(lines, Line{
			Row:           rowNum,
			Date:          date,
			Narration:     narration,
			Amount:        amount,
			BankReference: ref,
		})
	}

	return lines, nil
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// credit returns the credited amount of a row; ok is false for debits and
// empty rows.
func credit(p *Profile, cols colIndex, row []string) (int64, bool, error) {
	if p.AmountMode == amountSigned {
		amount, err := parseAmount(cell(row, cols[p.AmountCol]))
		if err != nil {
			return 0, false, err
		}

		return amount, amount > 0, nil
	}

	amount, err := parseAmount(cell(row, cols[p.CreditCol]))
	if err != nil {
		return 0, false, err
	}

	return amount, amount > 0, nil
}

// parseAmount reads "1,234,567.50" style naira amounts, rounding kobo half-up
// to whole naira. Blank cells and dashes are zero.
func parseAmount(s string) (int64, error) {
	clean := strings.NewReplacer(",", "", "NGN", "", "₦", "", " ", "").Replace(s)
	if clean == "" || clean == "-" {
		return 0, nil
	}

	negative := strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")")
	clean = strings.Trim(clean, "()")

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}

	if negative {
		d = d.Neg()
	}

	return d.Round(0).IntPart(), nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

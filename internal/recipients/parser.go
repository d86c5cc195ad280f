// Package recipients parses SMS recipient lists exported from legacy POS
// systems as CSV. Files arrive in assorted encodings and with Persian or
// English headers; phone numbers come in every shape the operators print
// them in.
package recipients

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/smoradi/zargar/internal/api"
	enc "github.com/smoradi/zargar/internal/encoding"
)

// Header spellings accepted for each column.
var (
	nameHeaders  = []string{"name", "نام"}
	phoneHeaders = []string{"phone", "mobile", "تلفن", "موبایل"}
)

// Parser reads recipient CSV exports and produces deduplicated API
// recipients. The delimiter may be ';' or ','; the header row is located by
// matching known column names.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]api.Recipient, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	rows, err := readRows(utf8r)
	if err != nil {
		return nil, err
	}

	nameIdx, phoneIdx, headerIdx, ok := detectHeader(rows)
	if !ok {
		return nil, fmt.Errorf("no recipient header found: expected name and phone columns")
	}

	var out []api.Recipient

	seen := make(map[string]bool)

	for i, row := range rows[headerIdx+1:] {
		rowNum := headerIdx + i + 2 // 1-based, for error messages

		name := cellValue(row, nameIdx)
		rawPhone := cellValue(row, phoneIdx)

		if name == "" && rawPhone == "" {
			continue
		}

		phone, err := NormalizePhone(rawPhone)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		if seen[phone] {
			continue
		}

		seen[phone] = true

		out = append(out, api.Recipient{Name: name, Phone: phone})
	}

	return out, nil
}

func readRows(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	// Single-column rows usually mean the file is comma separated.
	if allSingleColumn(rows) {
		return nil, fmt.Errorf("read csv: no ';' delimited columns found")
	}

	return rows, nil
}

func allSingleColumn(rows [][]string) bool {
	for _, row := range rows {
		if len(row) > 1 {
			return false
		}
	}

	return len(rows) > 0
}

func detectHeader(rows [][]string) (nameIdx, phoneIdx, headerIdx int, ok bool) {
	for rowIdx, row := range rows {
		nameIdx, phoneIdx = -1, -1

		for i, cell := range row {
			h := strings.ToLower(strings.TrimSpace(cell))

			if contains(nameHeaders, h) {
				nameIdx = i
			}

			if contains(phoneHeaders, h) {
				phoneIdx = i
			}
		}

		if nameIdx >= 0 && phoneIdx >= 0 {
			return nameIdx, phoneIdx, rowIdx, true
		}
	}

	return 0, 0, 0, false
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}

	return false
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

// NormalizePhone converts a raw phone cell to the canonical 09xxxxxxxxx
// mobile form: Persian and Arabic-Indic digits are mapped to ASCII,
// separators are stripped, and +98/0098/98 country prefixes are folded into
// the leading zero.
func NormalizePhone(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("missing phone number")
	}

	var b strings.Builder

	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= '۰' && r <= '۹': // Persian digits
			b.WriteRune('0' + (r - '۰'))
		case r >= '٠' && r <= '٩': // Arabic-Indic digits
			b.WriteRune('0' + (r - '٠'))
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '+' || r == '.':
			// separators, dropped
		default:
			return "", fmt.Errorf("invalid phone number %q", raw)
		}
	}

	digits := b.String()

	switch {
	case strings.HasPrefix(digits, "0098"):
		digits = "0" + digits[4:]
	case strings.HasPrefix(digits, "98") && len(digits) == 12:
		digits = "0" + digits[2:]
	}

	if len(digits) != 11 || !strings.HasPrefix(digits, "09") {
		return "", fmt.Errorf("invalid phone number %q", raw)
	}

	return digits, nil
}

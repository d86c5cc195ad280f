package view

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatMoney renders a rial amount with thousands separators.
func FormatMoney(d decimal.Decimal) string {
	s := d.Round(0).String()

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder

	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}

		b.WriteRune(r)
	}

	if neg {
		return "-" + b.String()
	}

	return b.String()
}

// FormatWeight renders a gram weight with up to three decimals.
func FormatWeight(d decimal.Decimal) string {
	return d.Round(3).String() + "g"
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

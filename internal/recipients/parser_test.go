package recipients_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smoradi/zargar/internal/recipients"
)

func TestParser_Parse(t *testing.T) {
	input := strings.Join([]string{
		"نام;تلفن",
		"مریم رضایی;09121234567",
		"Sara;+98 912 111 1111",
		"Reza;۰۹۱۲۲۲۲۲۲۲۲",
		"", // blank line
		"Duplicate;0912 123 4567",
	}, "\n")

	p := recipients.NewParser()

	got, err := p.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, got, 3, "duplicate phone must be dropped")

	assert.Equal(t, "مریم رضایی", got[0].Name)
	assert.Equal(t, "09121234567", got[0].Phone)
	assert.Equal(t, "09121111111", got[1].Phone)
	assert.Equal(t, "09122222222", got[2].Phone)
}

func TestParser_Parse_EnglishHeaders(t *testing.T) {
	input := "name;mobile\nAli;09351234567\n"

	p := recipients.NewParser()

	got, err := p.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Ali", got[0].Name)
	assert.Equal(t, "09351234567", got[0].Phone)
}

func TestParser_Parse_PreambleBeforeHeader(t *testing.T) {
	// Legacy exports often carry a report title above the header row.
	input := strings.Join([]string{
		"گزارش مشتریان;",
		"name;phone",
		"Ali;09351234567",
	}, "\n")

	p := recipients.NewParser()

	got, err := p.Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestParser_Parse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "NoHeader",
			input:   "a;b\nc;d\n",
			wantErr: "no recipient header found",
		},
		{
			name:    "MissingPhone",
			input:   "name;phone\nAli;\n",
			wantErr: "row 2: missing phone number",
		},
		{
			name:    "MalformedPhone",
			input:   "name;phone\nAli;not-a-number\n",
			wantErr: "row 2: invalid phone number",
		},
		{
			name:    "TooShortPhone",
			input:   "name;phone\nAli;0912\n",
			wantErr: "row 2: invalid phone number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := recipients.NewParser()

			_, err := p.Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "Canonical", raw: "09121234567", want: "09121234567"},
		{name: "CountryCodePlus", raw: "+989121234567", want: "09121234567"},
		{name: "CountryCodeZeros", raw: "00989121234567", want: "09121234567"},
		{name: "Spaced", raw: "0912 123 45 67", want: "09121234567"},
		{name: "PersianDigits", raw: "۰۹۱۲۱۲۳۴۵۶۷", want: "09121234567"},
		{name: "Landline", raw: "02112345678", wantErr: true},
		{name: "Empty", raw: "  ", wantErr: true},
		{name: "Garbage", raw: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := recipients.NormalizePhone(tt.raw)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

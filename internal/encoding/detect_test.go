package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smoradi/zargar/internal/encoding"
)

func TestNewUTF8Reader_UTF8Passthrough(t *testing.T) {
	// Valid UTF-8 with Persian characters should pass through unchanged.
	input := "نام;تلفن\nمریم;09121234567\n"
	r, err := encoding.NewUTF8Reader(bytes.NewReader([]byte(input)))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}

func TestNewUTF8Reader_Windows1256(t *testing.T) {
	// Windows-1256 encoded "اساس;123\n".
	// In Windows-1256: ا = 0xC7, س = 0xD3
	cp1256Bytes := []byte{
		0xC7, 0xD3, 0xC7, 0xD3, ';',
		'1', '2', '3', '\n',
	}

	r, err := encoding.NewUTF8Reader(bytes.NewReader(cp1256Bytes))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "اساس;123\n", string(got))
}

func TestNewUTF8Reader_UTF8BOM(t *testing.T) {
	// UTF-8 BOM (0xEF 0xBB 0xBF) should be stripped.
	bom := []byte{0xEF, 0xBB, 0xBF}
	content := []byte("نام;تلفن\n")
	input := append(bom, content...)

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "نام;تلفن\n", string(got))
}

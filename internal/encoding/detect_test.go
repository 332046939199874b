package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/narensv/vyapari/internal/encoding"
)

func TestNewUTF8Reader_UTF8Passthrough(t *testing.T) {
	// Valid UTF-8, including Devanagari, passes through unchanged.
	input := "Date,Customer,Total Amount\n2025-04-01,श्री Traders,5900.00\n"

	r, err := encoding.NewUTF8Reader(bytes.NewReader([]byte(input)))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}

func TestNewUTF8Reader_UTF8BOMStripped(t *testing.T) {
	content := "Date,Customer,Total Amount\n"
	input := append([]byte{0xEF, 0xBB, 0xBF}, content...)

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, content, string(got))
}

func TestNewUTF8Reader_UTF16LE(t *testing.T) {
	// Excel "Unicode Text" saves UTF-16 LE with a BOM.
	content := "Date,Customer\n"
	input := []byte{0xFF, 0xFE}

	for _, r := range content {
		input = append(input, byte(r), 0x00)
	}

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, content, string(got))
}

func TestNewUTF8Reader_Windows1252(t *testing.T) {
	// "Café Né" in Windows-1252: é = 0xE9.
	input := []byte{
		'C', 'a', 'f', 0xE9, ' ', 'N', 0xE9, ';',
		'1', '2', ',', '5', '0', '\n',
	}

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Café Né;12,50\n", string(got))
}

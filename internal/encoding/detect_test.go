package encoding_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/levy/internal/encoding"
)

func readAll(t *testing.T, r io.Reader) string {
	t.Helper()

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got)
}

func TestNewUTF8Reader(t *testing.T) {
	const text = "Narration,Credit\nTRF FRM ADAÉZE OBI,150000.00\n"

	utf16le, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(text)
	require.NoError(t, err)

	win1252, err := charmap.Windows1252.NewEncoder().String(text)
	require.NoError(t, err)

	tests := []struct {
		name  string
		input []byte
	}{
		{name: "UTF8", input: []byte(text)},
		{name: "UTF8BOM", input: append([]byte{0xEF, 0xBB, 0xBF}, text...)},
		{name: "UTF16LE", input: []byte(utf16le)},
		{name: "Windows1252", input: []byte(win1252)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := encoding.NewUTF8Reader(bytes.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, text, readAll(t, r))
		})
	}
}

func TestNewUTF8Reader_LargeInput(t *testing.T) {
	text := strings.Repeat("01-Jan-2026,NIP TRF,5000.00\n", 400)

	r, err := encoding.NewUTF8Reader(strings.NewReader(text))
	require.NoError(t, err)
	assert.Equal(t, text, readAll(t, r))
}

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  rune
	}{
		{name: "Comma", input: "Date,Narration,Credit\n01-Jan-2026,\"TRF, ADA\",\"1,000.00\"\n", want: ','},
		{name: "Semicolon", input: "Account;Ada Obi, Ltd\nDate;Narration;Debit;Credit\n", want: ';'},
		{name: "Tab", input: "Date\tNarration\tCredit\n", want: '\t'},
		{name: "Empty", input: "", want: ','},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, r, err := encoding.DetectDelimiter(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, readAll(t, r))
		})
	}
}

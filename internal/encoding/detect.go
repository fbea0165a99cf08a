// Package encoding normalises uploaded text files. Bank exports arrive in
// whatever code page the bank's software uses and with whatever delimiter its
// locale prefers.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sampleSize = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// NewUTF8Reader returns r decoded to UTF-8. A byte order mark wins; valid
// UTF-8 passes through; otherwise chardet guesses, falling back to
// Windows-1252, which is what most core-banking exports use.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, sampleSize)

	buf, err := br.Peek(sampleSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek: %w", err)
	}

	if bytes.HasPrefix(buf, bomUTF8) {
		_, _ = br.Discard(len(bomUTF8))
		return br, nil
	}

	if dec := utf16Decoder(buf); dec != nil {
		return transform.NewReader(br, dec.NewDecoder()), nil
	}

	if utf8.Valid(buf) {
		return br, nil
	}

	return transform.NewReader(br, guess(buf).NewDecoder()), nil
}

func utf16Decoder(buf []byte) encoding.Encoding {
	switch {
	case bytes.HasPrefix(buf, bomUTF16LE):
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case bytes.HasPrefix(buf, bomUTF16BE):
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	}

	return nil
}

func guess(buf []byte) encoding.Encoding {
	result, err := chardet.NewTextDetector().DetectBest(buf)
	if err != nil {
		return charmap.Windows1252
	}

	switch result.Charset {
	case "UTF-8":
		return encoding.Nop
	case "ISO-8859-9":
		return charmap.ISO8859_9
	case "ISO-8859-15":
		return charmap.ISO8859_15
	default:
		return charmap.Windows1252
	}
}

var delimiters = []rune{',', ';', '\t', '|'}

// DetectDelimiter picks the CSV delimiter from the line that splits into the
// most fields. The returned reader replays the sampled bytes.
func DetectDelimiter(r io.Reader) (rune, io.Reader, error) {
	br := bufio.NewReaderSize(r, sampleSize)

	buf, err := br.Peek(sampleSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return 0, nil, fmt.Errorf("peek: %w", err)
	}

	best, bestCount := ',', 0

	for line := range bytes.Lines(buf) {
		for _, d := range delimiters {
			if n := countOutsideQuotes(line, d); n > bestCount {
				best, bestCount = d, n
			}
		}
	}

	return best, br, nil
}

func countOutsideQuotes(line []byte, d rune) int {
	var (
		n      int
		quoted bool
	)

	for _, r := range string(line) {
		switch {
		case r == '"':
			quoted = !quoted
		case r == d && !quoted:
			n++
		}
	}

	return n
}

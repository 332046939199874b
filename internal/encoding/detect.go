// Package encoding normalizes ledger export files to UTF-8. Exports pass
// through Excel and assorted accounting tools on the way in, so they arrive
// as UTF-8 with or without a BOM, UTF-16, or a Latin code page.
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

const sniffLen = 4096

var boms = []struct {
	prefix  []byte
	decoder func() *encoding.Decoder
}{
	// A UTF-8 BOM needs stripping only; a nil decoder marks that case.
	{prefix: []byte{0xEF, 0xBB, 0xBF}, decoder: nil},
	{prefix: []byte{0xFF, 0xFE}, decoder: unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder},
	{prefix: []byte{0xFE, 0xFF}, decoder: unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder},
}

// NewUTF8Reader wraps r in a reader that yields UTF-8 regardless of the
// source encoding. Detection order: BOM, valid UTF-8 as-is, chardet
// heuristics, Windows-1252 fallback.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)

	head, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("sniffing input: %w", err)
	}

	for _, bom := range boms {
		if !bytes.HasPrefix(head, bom.prefix) {
			continue
		}

		if bom.decoder == nil {
			_, _ = br.Discard(len(bom.prefix))
			return br, nil
		}

		return transform.NewReader(br, bom.decoder()), nil
	}

	if utf8.Valid(head) {
		return br, nil
	}

	return transform.NewReader(br, detectCharmap(head).NewDecoder()), nil
}

// detectCharmap guesses the code page of non-UTF-8 input. Windows-1252 is
// a superset of ISO-8859-1 and the overwhelmingly common case, so it is
// both a mapped result and the fallback.
func detectCharmap(head []byte) *charmap.Charmap {
	result, err := chardet.NewTextDetector().DetectBest(head)
	if err != nil {
		return charmap.Windows1252
	}

	switch result.Charset {
	case "ISO-8859-1", "windows-1252":
		return charmap.Windows1252
	case "ISO-8859-15":
		return charmap.ISO8859_15
	default:
		return charmap.Windows1252
	}
}

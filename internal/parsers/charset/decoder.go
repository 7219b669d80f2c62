// Package charset converts uploaded text files to UTF-8. Catalog
// spreadsheets exported from older tooling frequently arrive as
// Windows-1252 or ISO-8859-1 with Spanish accented characters.
package charset

import (
	"bytes"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Encoding represents a detected text encoding
type Encoding string

const (
	EncodingUTF8        Encoding = "utf-8"
	EncodingWindows1252 Encoding = "windows-1252"
	EncodingISO88591    Encoding = "iso-8859-1"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DetectEncoding inspects a byte buffer. Valid UTF-8 (with or without
// BOM) wins; anything else is treated as Windows-1252, which is a
// superset of ISO-8859-1 for the printable range.
func DetectEncoding(data []byte) Encoding {
	if bytes.HasPrefix(data, utf8BOM) {
		return EncodingUTF8
	}
	if utf8.Valid(data) {
		return EncodingUTF8
	}
	return EncodingWindows1252
}

// Decode converts a byte buffer from the given encoding to a UTF-8
// string, stripping a leading BOM if present.
func Decode(data []byte, enc Encoding) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	// Never re-decode content that is already valid UTF-8, even when
	// the caller guessed a legacy encoding.
	if utf8.Valid(data) {
		return string(data), nil
	}

	var cm *charmap.Charmap
	switch enc {
	case EncodingISO88591:
		cm = charmap.ISO8859_1
	default:
		cm = charmap.Windows1252
	}

	reader := transform.NewReader(bytes.NewReader(data), cm.NewDecoder())
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

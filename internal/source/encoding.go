package source

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
)

// DefaultEncodings is the decode chain used when none is configured.
var DefaultEncodings = []string{"utf-8", "latin-1", "cp1252", "iso-8859-1"}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Common spellings that are not IANA aliases.
var encodingAliases = map[string]encoding.Encoding{
	"latin-1":      charmap.ISO8859_1,
	"latin1":       charmap.ISO8859_1,
	"iso-8859-1":   charmap.ISO8859_1,
	"iso8859-1":    charmap.ISO8859_1,
	"cp1252":       charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
	"iso-8859-15":  charmap.ISO8859_15,
}

func isUTF8(name string) bool {
	switch strings.ToLower(name) {
	case "utf-8", "utf8":
		return true
	}
	return false
}

// lookupEncoding resolves a chain entry. UTF-8 returns a nil encoding and is
// validated directly.
func lookupEncoding(name string) (encoding.Encoding, error) {
	if isUTF8(name) {
		return nil, nil
	}
	if enc, ok := encodingAliases[strings.ToLower(name)]; ok {
		return enc, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return enc, nil
}

// ValidateEncodings checks that every entry in chain is a known encoding.
func ValidateEncodings(chain []string) error {
	for _, name := range chain {
		if _, err := lookupEncoding(name); err != nil {
			return err
		}
	}
	return nil
}

// decode tries each encoding in order and returns the text and the name of
// the first one that decodes cleanly. A leading UTF-8 BOM is dropped first.
// A single-byte decoder fails if it produces U+FFFD.
func decode(raw []byte, chain []string) (string, string, bool) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	for _, name := range chain {
		enc, err := lookupEncoding(name)
		if err != nil {
			continue
		}
		if enc == nil {
			if utf8.Valid(raw) {
				return string(raw), name, true
			}
			continue
		}
		out, err := enc.NewDecoder().Bytes(raw)
		if err != nil || bytes.ContainsRune(out, utf8.RuneError) {
			continue
		}
		return string(out), name, true
	}
	return "", "", false
}

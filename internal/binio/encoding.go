package binio

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// Encoding selects how length-prefixed strings are stored.
type Encoding uint8

const (
	UTF16LE Encoding = 0
	UTF8    Encoding = 1
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

func (e Encoding) Valid() bool {
	return e == UTF16LE || e == UTF8
}

func (e Encoding) String() string {
	switch e {
	case UTF16LE:
		return "UTF-16LE"
	case UTF8:
		return "UTF-8"
	default:
		return fmt.Sprintf("Encoding(%d)", uint8(e))
	}
}

// Decode converts raw string bytes in this encoding to a Go string.
func (e Encoding) Decode(raw []byte) (string, error) {
	switch e {
	case UTF16LE:
		out, err := utf16le.NewDecoder().Bytes(raw)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrUnsupportedEncoding, err)
		}
		return string(out), nil
	case UTF8:
		return string(raw), nil
	default:
		return "", fmt.Errorf("%w: selector %d", ErrUnsupportedEncoding, uint8(e))
	}
}

// Encode converts s to this encoding. Strings that are not valid UTF-8 carry
// no code points that could be represented and are rejected.
func (e Encoding) Encode(s string) ([]byte, error) {
	if !e.Valid() {
		return nil, fmt.Errorf("%w: selector %d", ErrUnsupportedEncoding, uint8(e))
	}
	if !utf8.ValidString(s) {
		return nil, fmt.Errorf("%w: %q is not valid UTF-8", ErrUnsupportedEncoding, s)
	}
	if e == UTF8 {
		return []byte(s), nil
	}
	out, err := utf16le.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedEncoding, err)
	}
	return out, nil
}

package template

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

const upperhex = "0123456789ABCDEF"

// Encoding selects how expanded values are percent-encoded
type Encoding int

const (
	// EncodeNone leaves values untouched (headers and bodies)
	EncodeNone Encoding = iota
	// EncodePath encodes values for a URI path
	EncodePath
	// EncodeQuery encodes values for a query string
	EncodeQuery
)

// DefaultCharset is UTF-8
var DefaultCharset encoding.Encoding = unicode.UTF8

func charsetBytes(s string, cs encoding.Encoding) []byte {
	if cs == nil || cs == unicode.UTF8 {
		return []byte(s)
	}
	out, err := cs.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return []byte(s)
	}
	return out
}

func isUnreserved(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '-', c == '.', c == '_', c == '~':
		return true
	}
	return false
}

func isReserved(c byte) bool {
	switch c {
	case ':', '/', '?', '#', '[', ']', '@', '!', '$', '&', '\'', '(', ')', '*', '+', ',', ';', '=':
		return true
	}
	return false
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// pctEncode encodes every byte not accepted by keep. Existing %XX triplets pass through,
// which makes encoding idempotent.
func pctEncode(s string, cs encoding.Encoding, keep func(byte) bool) string {
	data := charsetBytes(s, cs)

	var b strings.Builder
	b.Grow(len(data))
	for i := 0; i < len(data); i++ {
		c := data[i]
		if c == '%' && i+2 < len(data) && isHex(data[i+1]) && isHex(data[i+2]) {
			b.WriteByte(c)
			continue
		}
		if keep(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

// EncodeValue percent-encodes an expanded variable value.
// When encodeSlash is false, '/' is left literal.
func EncodeValue(s string, cs encoding.Encoding, encodeSlash bool) string {
	return pctEncode(s, cs, func(c byte) bool {
		return isUnreserved(c) || (c == '/' && !encodeSlash)
	})
}

// EncodeLiteral percent-encodes literal template text, keeping reserved characters
func EncodeLiteral(s string, cs encoding.Encoding) string {
	return pctEncode(s, cs, func(c byte) bool {
		return isUnreserved(c) || isReserved(c)
	})
}

// IsEncoded reports whether s contains no byte that would be encoded as a literal
func IsEncoded(s string) bool {
	return EncodeLiteral(s, nil) == s
}

package template

import "golang.org/x/text/encoding"

// NewURITemplate parses a URI path template. Slash handling is fixed at construction.
func NewURITemplate(raw string, encodeSlash bool, cs encoding.Encoding) *Template {
	return Parse(raw, Options{
		Charset:     cs,
		Encoding:    EncodePath,
		EncodeSlash: encodeSlash,
	})
}

// AppendURI returns a new URI template with raw appended to t
func AppendURI(t *Template, raw string) *Template {
	return Parse(t.raw+raw, t.opts)
}

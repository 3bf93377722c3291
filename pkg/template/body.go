package template

import (
	"strings"

	"golang.org/x/text/encoding"
)

const (
	encodedOpenBrace  = "%7B"
	encodedCloseBrace = "%7D"
)

// BodyTemplate is a request body template. Undefined expressions are left in place.
//
// A body written as %7B ... %7D is treated as an escaped JSON document: the outer
// braces are restored after expansion.
type BodyTemplate struct {
	tmpl *Template
	json bool
}

// NewBodyTemplate parses a body template
func NewBodyTemplate(raw string, cs encoding.Encoding) *BodyTemplate {
	return &BodyTemplate{
		tmpl: Parse(raw, Options{
			Charset:        cs,
			Encoding:       EncodeNone,
			KeepUnresolved: true,
		}),
		json: strings.HasPrefix(raw, encodedOpenBrace),
	}
}

// String returns the unexpanded body
func (b *BodyTemplate) String() string {
	return b.tmpl.raw
}

// Charset returns the body charset
func (b *BodyTemplate) Charset() encoding.Encoding {
	return b.tmpl.opts.Charset
}

// Variables returns the variables used by the body
func (b *BodyTemplate) Variables() []string {
	return b.tmpl.Variables()
}

// Expand renders the body against vars
func (b *BodyTemplate) Expand(vars map[string]any) string {
	out := b.tmpl.Expand(vars)
	if !b.json {
		return out
	}

	out = "{" + strings.TrimPrefix(out, encodedOpenBrace)
	if strings.HasSuffix(out, encodedCloseBrace) {
		out = strings.TrimSuffix(out, encodedCloseBrace) + "}"
	}
	return out
}

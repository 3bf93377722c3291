// Package template implements the expression templates used for request URIs, query
// values, header values and bodies. A template is parsed once into literal and {name}
// expression chunks and expanded many times against a variable map.
package template

import (
	"strings"

	"golang.org/x/text/encoding"
)

// Options control how a template encodes its output
type Options struct {
	// Charset is applied to text before percent-encoding. nil means UTF-8.
	Charset encoding.Encoding

	// Encoding selects the percent-encoding rules for expanded values
	Encoding Encoding

	// EncodeSlash percent-encodes '/' inside expanded values
	EncodeSlash bool

	// KeepUnresolved writes undefined expressions back as {name} instead of removing them
	KeepUnresolved bool
}

// Template is an immutable parsed template
type Template struct {
	raw    string
	chunks []Chunk
	opts   Options
}

// Parse parses raw into a template
func Parse(raw string, opts Options) *Template {
	return &Template{
		raw:    raw,
		chunks: parseChunks(raw),
		opts:   opts,
	}
}

// FromChunks builds a template from pre-parsed chunks
func FromChunks(chunks []Chunk, opts Options) *Template {
	c := make([]Chunk, len(chunks))
	copy(c, chunks)
	return &Template{
		raw:    joinChunks(c),
		chunks: c,
		opts:   opts,
	}
}

// String returns the unexpanded template text
func (t *Template) String() string {
	return t.raw
}

// Options returns the options the template was built with
func (t *Template) Options() Options {
	return t.opts
}

// Chunks returns a copy of the parsed chunks
func (t *Template) Chunks() []Chunk {
	c := make([]Chunk, len(t.chunks))
	copy(c, t.chunks)
	return c
}

// IsLiteral reports whether the template contains no expressions
func (t *Template) IsLiteral() bool {
	for _, c := range t.chunks {
		if c.Kind == KindExpression {
			return false
		}
	}
	return true
}

// Variables returns the distinct variable names in first-seen order
func (t *Template) Variables() []string {
	seen := make(map[string]struct{})
	vars := make([]string, 0)
	for _, c := range t.chunks {
		if c.Kind != KindExpression {
			continue
		}
		if _, ok := seen[c.Value]; ok {
			continue
		}
		seen[c.Value] = struct{}{}
		vars = append(vars, c.Value)
	}
	return vars
}

// Expand resolves every expression against vars. Multi-valued variables are joined
// with commas; undefined expressions are removed unless KeepUnresolved is set.
func (t *Template) Expand(vars map[string]any) string {
	var b strings.Builder
	for _, c := range t.chunks {
		switch c.Kind {
		case KindLiteral:
			b.WriteString(t.encodeLiteral(c.Value))
		case KindExpression:
			values, ok := lookup(vars, c.Value)
			if !ok {
				if t.opts.KeepUnresolved {
					b.WriteString(c.String())
				}
				continue
			}
			b.WriteString(strings.Join(t.encodeValues(values), ","))
		}
	}
	return b.String()
}

// ExpandValues expands the template into one or more values. A template made of a single
// expression bound to a slice yields one value per element (none for an empty slice).
// defined is false when any expression is undefined.
func (t *Template) ExpandValues(vars map[string]any) (values []string, defined bool) {
	if len(t.chunks) == 1 && t.chunks[0].Kind == KindExpression {
		v, ok := lookup(vars, t.chunks[0].Value)
		if !ok {
			return nil, false
		}
		return t.encodeValues(v), true
	}

	for _, c := range t.chunks {
		if c.Kind != KindExpression {
			continue
		}
		if _, ok := lookup(vars, c.Value); !ok {
			return nil, false
		}
	}
	return []string{t.Expand(vars)}, true
}

func (t *Template) encodeValues(values []string) []string {
	if t.opts.Encoding == EncodeNone {
		return values
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = EncodeValue(v, t.opts.Charset, t.opts.EncodeSlash)
	}
	return out
}

func (t *Template) encodeLiteral(s string) string {
	if t.opts.Encoding == EncodeNone {
		return s
	}
	return EncodeLiteral(s, t.opts.Charset)
}

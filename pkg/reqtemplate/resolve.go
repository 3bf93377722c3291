package reqtemplate

import (
	"strings"

	"github.com/WhileEndless/go-reqtemplate/pkg/query"
	"github.com/WhileEndless/go-reqtemplate/pkg/target"
	"github.com/WhileEndless/go-reqtemplate/pkg/template"
)

// Resolve expands t against vars and returns a new resolved template. t is not
// modified and may be resolved again.
//
// Variables that are nil or missing drop the query parameters and headers that use
// them and are removed from the URI; body templates keep them as {name}.
func (t *Template) Resolve(vars map[string]any) *Template {
	t.mu.RLock()
	resolved := t.copyLocked()
	t.mu.RUnlock()

	uri := resolved.uri
	if uri == nil {
		uri = template.NewURITemplate("", !resolved.decodeSlash, resolved.charset)
	}

	var buf strings.Builder
	buf.WriteString(uri.Expand(vars))
	resolved.queries.Clone().Resolve(vars, resolved.queries, &buf)

	// the expanded query is parsed back into literal parameters, one pair per value
	resolved.installURI(relative(buf.String()), query.Replace, template.Exploded)

	resolved.headers.Clone().Resolve(vars, resolved.headers)

	if resolved.bodyTemplate != nil {
		b := resolved.bodyTemplate
		resolved.setBodyLocked(encodeBody(b.Expand(vars), b.Charset()), b.Charset())
	}

	resolved.resolved = true
	return resolved
}

// relative prefixes an expanded URI with '/' when it does not start with a path,
// expression, query or matrix character
func relative(uri string) string {
	if target.IsAbsolute(uri) {
		return uri
	}
	out, err := target.ValidateRelative(uri)
	if err != nil {
		return uri
	}
	return out
}

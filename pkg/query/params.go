// Package query holds the ordered query parameter templates of a request template and
// the rules for extracting, rendering and resolving them.
package query

import (
	"strings"

	"github.com/WhileEndless/go-reqtemplate/pkg/errors"
	"github.com/WhileEndless/go-reqtemplate/pkg/target"
	"github.com/WhileEndless/go-reqtemplate/pkg/template"
)

// Mode selects how extracted parameters combine with existing ones
type Mode int

const (
	// Replace clears existing parameters before adding the extracted ones
	Replace Mode = iota
	// Append merges extracted parameters into the existing ones
	Append
)

// Param is a read-only view of one query parameter
type Param struct {
	Name   string
	Values []string
}

// Params is an ordered map of parameter name to query template, in first-seen order.
// It is not safe for concurrent mutation.
type Params struct {
	order   []string
	entries map[string]*template.QueryTemplate
}

// New creates an empty parameter set
func New() *Params {
	return &Params{
		order:   make([]string, 0),
		entries: make(map[string]*template.QueryTemplate),
	}
}

// SetOrAppend adds values to the named parameter, creating it if needed.
// No values removes the parameter.
func (p *Params) SetOrAppend(name string, values []string, format template.CollectionFormat, opts template.Options) error {
	if name == "" {
		return errors.InvalidArgument("name is required", "query")
	}

	if len(values) == 0 {
		p.Remove(name)
		return nil
	}

	if existing, ok := p.entries[name]; ok {
		p.entries[name] = existing.Append(values, format)
		return nil
	}
	p.put(name, template.NewQueryTemplate(name, values, format, opts))
	return nil
}

// appendBare adds a valueless entry for name
func (p *Params) appendBare(name string, format template.CollectionFormat, opts template.Options) {
	if existing, ok := p.entries[name]; ok {
		p.entries[name] = existing.AppendBare()
		return
	}
	p.put(name, template.NewBareQueryTemplate(name, format, opts))
}

// Extract parses a raw query string ("a=1&a=2&b") and adds its parameters.
// Pairs without '=' become bare parameters; pairs with an empty name are skipped.
func (p *Params) Extract(raw string, mode Mode, format template.CollectionFormat, opts template.Options) {
	pairs := split(raw)

	if mode == Replace {
		p.Clear()
	}
	for _, pair := range pairs {
		if pair.bare {
			p.appendBare(pair.name, format, opts)
			continue
		}
		// names are never empty here
		_ = p.SetOrAppend(pair.name, []string{pair.value}, format, opts)
	}
}

type pair struct {
	name  string
	value string
	bare  bool
}

// split breaks a raw query string into name/value pairs in encounter order
func split(raw string) []pair {
	pairs := make([]pair, 0)
	for _, part := range strings.Split(raw, "&") {
		name, value, found := strings.Cut(part, "=")
		if name == "" {
			continue
		}
		pairs = append(pairs, pair{name: name, value: value, bare: !found})
	}
	return pairs
}

// Remove deletes the named parameter
func (p *Params) Remove(name string) {
	if _, exists := p.entries[name]; !exists {
		return
	}
	delete(p.entries, name)
	for i, k := range p.order {
		if k == name {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// Clear removes every parameter
func (p *Params) Clear() {
	p.order = p.order[:0]
	p.entries = make(map[string]*template.QueryTemplate)
}

func (p *Params) put(name string, q *template.QueryTemplate) {
	if _, exists := p.entries[name]; !exists {
		p.order = append(p.order, name)
	}
	p.entries[name] = q
}

// Get returns the template for name
func (p *Params) Get(name string) (*template.QueryTemplate, bool) {
	q, ok := p.entries[name]
	return q, ok
}

// Len returns the number of parameters
func (p *Params) Len() int {
	return len(p.order)
}

// Names returns the parameter names in order
func (p *Params) Names() []string {
	names := make([]string, len(p.order))
	copy(names, p.order)
	return names
}

// All returns the unexpanded parameters in order
func (p *Params) All() []Param {
	params := make([]Param, 0, len(p.order))
	for _, name := range p.order {
		params = append(params, Param{Name: name, Values: p.entries[name].Values()})
	}
	return params
}

// Variables returns the variables used by every parameter, in parameter order
func (p *Params) Variables() []string {
	vars := make([]string, 0)
	for _, name := range p.order {
		vars = append(vars, p.entries[name].Variables()...)
	}
	return vars
}

// Clone returns an independent copy. Query templates are immutable and shared.
func (p *Params) Clone() *Params {
	clone := &Params{
		order:   make([]string, len(p.order)),
		entries: make(map[string]*template.QueryTemplate, len(p.entries)),
	}
	copy(clone.order, p.order)
	for k, v := range p.entries {
		clone.entries[k] = v
	}
	return clone
}

// Rebuild re-creates every template with opts, keeping values and collection formats.
// Used when the slash policy or charset of the owning request changes. A parameter added
// with an explicit format keeps it; the request's default format is not reapplied.
func (p *Params) Rebuild(opts template.Options) {
	for name, q := range p.entries {
		p.entries[name] = q.WithOptions(opts)
	}
}

// Line renders the unexpanded query string, prefixed with '?'. ok is false when there
// are no parameters.
func (p *Params) Line() (line string, ok bool) {
	if len(p.order) == 0 {
		return "", false
	}

	parts := make([]string, 0, len(p.order))
	for _, name := range p.order {
		parts = append(parts, p.entries[name].String())
	}
	result := strings.Join(parts, "&")

	// remove any trailing ampersand
	result = strings.TrimSuffix(result, "&")
	return "?" + result, true
}

// Resolve expands every parameter against vars and appends the non-blank results to uri,
// joined with '&'. The joiner before the first result is '&' if uri already has a query
// and '?' otherwise. dst is cleared: resolved parameters live on the URI.
func (p *Params) Resolve(vars map[string]any, dst *Params, uri *strings.Builder) {
	if len(p.order) == 0 {
		return
	}

	dst.Clear()

	parts := make([]string, 0, len(p.order))
	for _, name := range p.order {
		expanded := p.entries[name].Expand(vars)
		if strings.TrimSpace(expanded) == "" {
			continue
		}
		parts = append(parts, expanded)
	}
	if len(parts) == 0 {
		return
	}

	operator := "?"
	if target.HasUnescapedQuestionMark(uri.String()) {
		operator = "&"
	}
	uri.WriteString(operator)
	uri.WriteString(strings.Join(parts, "&"))
}

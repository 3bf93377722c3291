package template

import "strings"

var headerOptions = Options{Encoding: EncodeNone}

// HeaderTemplate is an immutable header: a name and ordered value templates.
//
// Templates built from values render as "<Name> v1, v2" when expanded; templates built
// from chunks render the values alone.
type HeaderTemplate struct {
	name     string
	values   []*Template
	prefixed bool
}

// NewHeaderTemplate creates a header template from raw values
func NewHeaderTemplate(name string, values []string) *HeaderTemplate {
	h := &HeaderTemplate{
		name:     name,
		values:   make([]*Template, 0, len(values)),
		prefixed: true,
	}
	for _, v := range values {
		h.values = append(h.values, Parse(v, headerOptions))
	}
	return h
}

// HeaderFromChunks creates a header template holding one value made of chunks
func HeaderFromChunks(name string, chunks []Chunk) *HeaderTemplate {
	return &HeaderTemplate{
		name:   name,
		values: []*Template{FromChunks(chunks, headerOptions)},
	}
}

// Append returns a copy of h with values added
func (h *HeaderTemplate) Append(values []string) *HeaderTemplate {
	out := h.clone(len(values))
	for _, v := range values {
		out.values = append(out.values, Parse(v, headerOptions))
	}
	return out
}

// AppendChunks returns a copy of h with one chunk-built value added
func (h *HeaderTemplate) AppendChunks(chunks []Chunk) *HeaderTemplate {
	out := h.clone(1)
	out.values = append(out.values, FromChunks(chunks, headerOptions))
	return out
}

func (h *HeaderTemplate) clone(extra int) *HeaderTemplate {
	values := make([]*Template, len(h.values), len(h.values)+extra)
	copy(values, h.values)
	return &HeaderTemplate{
		name:     h.name,
		values:   values,
		prefixed: h.prefixed,
	}
}

// Name returns the header name as first supplied
func (h *HeaderTemplate) Name() string {
	return h.name
}

// Values returns the unexpanded values
func (h *HeaderTemplate) Values() []string {
	out := make([]string, 0, len(h.values))
	for _, v := range h.values {
		out = append(out, v.raw)
	}
	return out
}

// Variables returns the variables used by the values
func (h *HeaderTemplate) Variables() []string {
	seen := make(map[string]struct{})
	vars := make([]string, 0)
	for _, v := range h.values {
		for _, name := range v.Variables() {
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				vars = append(vars, name)
			}
		}
	}
	return vars
}

// String returns the unexpanded header line
func (h *HeaderTemplate) String() string {
	return h.name + ": " + strings.Join(h.Values(), ", ")
}

// Expand renders the header against vars. Values with undefined expressions or an
// empty expansion are dropped; the survivors are joined with ", ".
func (h *HeaderTemplate) Expand(vars map[string]any) string {
	expanded := make([]string, 0, len(h.values))
	for _, v := range h.values {
		values, ok := v.ExpandValues(vars)
		if !ok {
			continue
		}
		s := strings.Join(values, ",")
		if s == "" {
			continue
		}
		expanded = append(expanded, s)
	}

	joined := strings.Join(expanded, ", ")
	if h.prefixed {
		return h.name + " " + joined
	}
	return joined
}

package headers

import (
	"strings"

	"golang.org/x/net/http/httpguts"

	"github.com/WhileEndless/go-reqtemplate/pkg/errors"
	"github.com/WhileEndless/go-reqtemplate/pkg/template"
)

const contentType = "content-type"

// Templates holds header value templates keyed case-insensitively, in first-seen order.
// It is not safe for concurrent mutation.
type Templates struct {
	order   []string // lowercase keys
	entries map[string]*template.HeaderTemplate
}

// NewTemplates creates an empty header template set
func NewTemplates() *Templates {
	return &Templates{
		order:   make([]string, 0),
		entries: make(map[string]*template.HeaderTemplate),
	}
}

func validateName(name string) error {
	if name == "" {
		return errors.InvalidArgument("name is required", "header")
	}
	if !httpguts.ValidHeaderFieldName(name) {
		return errors.InvalidArgument("invalid header name", name)
	}
	return nil
}

// SetOrAppend adds values to the named header. No values removes the header.
// Content-Type only ever holds one value: the first supplied one replaces the entry.
func (t *Templates) SetOrAppend(name string, values []string) error {
	if err := validateName(name); err != nil {
		return err
	}

	key := strings.ToLower(name)
	if len(values) == 0 {
		t.remove(key)
		return nil
	}

	if key == contentType {
		t.remove(key)
		t.put(key, template.NewHeaderTemplate(name, values[:1]))
		return nil
	}

	if existing, ok := t.entries[key]; ok {
		t.entries[key] = existing.Append(values)
		return nil
	}
	t.put(key, template.NewHeaderTemplate(name, values))
	return nil
}

// Replace swaps the values of the named header, keeping its position. No values
// removes the header.
func (t *Templates) Replace(name string, values []string) error {
	if err := validateName(name); err != nil {
		return err
	}

	key := strings.ToLower(name)
	if len(values) == 0 {
		t.remove(key)
		return nil
	}
	if existing, ok := t.entries[key]; ok {
		name = existing.Name()
	}
	t.put(key, template.NewHeaderTemplate(name, values))
	return nil
}

// AppendChunks adds one value made of chunks to the named header. A nil slice is an
// error; an empty one removes the header. Content-Type is replaced, never appended.
func (t *Templates) AppendChunks(name string, chunks []template.Chunk) error {
	if chunks == nil {
		return errors.InvalidArgument("chunks are required", name)
	}
	if err := validateName(name); err != nil {
		return err
	}

	t.appendChunks(name, chunks)
	return nil
}

func (t *Templates) appendChunks(name string, chunks []template.Chunk) {
	key := strings.ToLower(name)
	if len(chunks) == 0 {
		t.remove(key)
		return
	}
	if key == contentType {
		t.remove(key)
		t.put(key, template.HeaderFromChunks(name, chunks))
		return
	}
	if existing, ok := t.entries[key]; ok {
		t.entries[key] = existing.AppendChunks(chunks)
		return
	}
	t.put(key, template.HeaderFromChunks(name, chunks))
}

// Remove deletes the named header
func (t *Templates) Remove(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	t.remove(strings.ToLower(name))
	return nil
}

// SetAll appends every header of m. A nil or empty map clears all headers.
func (t *Templates) SetAll(m *Map) error {
	if m == nil || m.Len() == 0 {
		t.Clear()
		return nil
	}

	all := m.All()
	for _, h := range all {
		if err := validateName(h.Name); err != nil {
			return err
		}
	}
	for _, h := range all {
		// names are validated above
		_ = t.SetOrAppend(h.Name, h.Values)
	}
	return nil
}

// Clear removes every header
func (t *Templates) Clear() {
	t.order = t.order[:0]
	t.entries = make(map[string]*template.HeaderTemplate)
}

func (t *Templates) put(key string, h *template.HeaderTemplate) {
	if _, exists := t.entries[key]; !exists {
		t.order = append(t.order, key)
	}
	t.entries[key] = h
}

func (t *Templates) remove(key string) {
	if _, exists := t.entries[key]; !exists {
		return
	}
	delete(t.entries, key)
	for i, k := range t.order {
		if k == key {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// Get returns the template for name (case-insensitive)
func (t *Templates) Get(name string) (*template.HeaderTemplate, bool) {
	h, ok := t.entries[strings.ToLower(name)]
	return h, ok
}

// Len returns the number of headers
func (t *Templates) Len() int {
	return len(t.order)
}

// Names returns the header names in order
func (t *Templates) Names() []string {
	names := make([]string, 0, len(t.order))
	for _, key := range t.order {
		names = append(names, t.entries[key].Name())
	}
	return names
}

// Clone returns an independent copy. Header templates are immutable and shared.
func (t *Templates) Clone() *Templates {
	clone := &Templates{
		order:   make([]string, len(t.order)),
		entries: make(map[string]*template.HeaderTemplate, len(t.entries)),
	}
	copy(clone.order, t.order)
	for k, v := range t.entries {
		clone.entries[k] = v
	}
	return clone
}

// Values returns the unexpanded header values. Headers without values are omitted.
func (t *Templates) Values() *Map {
	m := NewMap()
	for _, key := range t.order {
		h := t.entries[key]
		if values := h.Values(); len(values) > 0 {
			m.Set(h.Name(), values...)
		}
	}
	return m
}

// Variables returns the variables used by all headers, in header order
func (t *Templates) Variables() []string {
	vars := make([]string, 0)
	for _, key := range t.order {
		vars = append(vars, t.entries[key].Variables()...)
	}
	return vars
}

// Resolve expands every header against vars and installs the results into dst as
// literal values, replacing whatever dst held.
//
// A value-built header expands to "<Name> <values>", so everything up to and including
// the first space is dropped before the remainder is used. Empty remainders produce no
// header.
func (t *Templates) Resolve(vars map[string]any, dst *Templates) {
	if t.Len() == 0 {
		return
	}

	dst.Clear()
	for _, key := range t.order {
		h := t.entries[key]
		expanded := h.Expand(vars)
		if expanded == "" {
			continue
		}
		value := expanded[strings.Index(expanded, " ")+1:]
		if value == "" {
			continue
		}
		dst.appendChunks(h.Name(), []template.Chunk{template.Literal(value)})
	}
}

package reqtemplate

import (
	"github.com/WhileEndless/go-reqtemplate/pkg/headers"
	"github.com/WhileEndless/go-reqtemplate/pkg/template"
)

// Header appends values to the named header; names are case-insensitive.
// Calling it without values removes the header. Content-Type keeps only the first
// value supplied.
func (t *Template) Header(name string, values ...string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.mutable(); err != nil {
		return err
	}
	return t.headers.SetOrAppend(name, values)
}

// HeaderChunks appends one value built from pre-parsed chunks
func (t *Template) HeaderChunks(name string, chunks []template.Chunk) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.mutable(); err != nil {
		return err
	}
	return t.headers.AppendChunks(name, chunks)
}

// RemoveHeader removes the named header
func (t *Template) RemoveHeader(name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.mutable(); err != nil {
		return err
	}
	return t.headers.Remove(name)
}

// SetHeaders appends every header of h. A nil or empty map removes all headers.
func (t *Template) SetHeaders(h *headers.Map) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.mutable(); err != nil {
		return err
	}
	return t.headers.SetAll(h)
}

// Headers returns the unexpanded header values. Headers without values are omitted.
func (t *Template) Headers() *headers.Map {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.headers.Values()
}

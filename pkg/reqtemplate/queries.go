package reqtemplate

import (
	"github.com/WhileEndless/go-reqtemplate/pkg/errors"
	"github.com/WhileEndless/go-reqtemplate/pkg/query"
	"github.com/WhileEndless/go-reqtemplate/pkg/template"
)

// Query appends values to the named query parameter using the default collection
// format. Calling it without values removes the parameter.
func (t *Template) Query(name string, values ...string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.mutable(); err != nil {
		return err
	}
	return t.queries.SetOrAppend(name, values, t.collectionFormat, t.queryOptions())
}

// QueryWithFormat is Query with an explicit collection format
func (t *Template) QueryWithFormat(name string, format template.CollectionFormat, values ...string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.mutable(); err != nil {
		return err
	}
	return t.queries.SetOrAppend(name, values, format, t.queryOptions())
}

// SetQueries appends every parameter in order. An empty list removes all parameters.
// Nothing is applied if any parameter is invalid.
func (t *Template) SetQueries(params []query.Param) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.mutable(); err != nil {
		return err
	}

	if len(params) == 0 {
		t.queries.Clear()
		return nil
	}

	next := t.queries.Clone()
	for _, p := range params {
		if p.Name == "" {
			return errors.InvalidArgument("name is required", "query")
		}
		if err := next.SetOrAppend(p.Name, p.Values, t.collectionFormat, t.queryOptions()); err != nil {
			return err
		}
	}
	t.queries = next
	return nil
}

// Queries returns the unexpanded query parameters in order. Parameters given without
// a value have no Values.
func (t *Template) Queries() []query.Param {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.queries.All()
}

// QueryLine renders the unexpanded query string with its leading '?'. ok is false
// when there are no parameters.
func (t *Template) QueryLine() (line string, ok bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.queries.Line()
}

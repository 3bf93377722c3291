package reqtemplate

import (
	"strings"

	"github.com/WhileEndless/go-reqtemplate/pkg/query"
	"github.com/WhileEndless/go-reqtemplate/pkg/target"
	"github.com/WhileEndless/go-reqtemplate/pkg/template"
)

// SetURI replaces the URI template. uri must be relative; an embedded query string
// replaces the current query parameters and a '#' fragment is split off.
func (t *Template) SetURI(uri string) error {
	return t.setURI(uri, false)
}

// AppendURI appends to the URI template. An embedded query string is merged into the
// current query parameters.
func (t *Template) AppendURI(uri string) error {
	return t.setURI(uri, true)
}

func (t *Template) setURI(uri string, appendURI bool) error {
	uri, err := target.ValidateRelative(uri)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.mutable(); err != nil {
		return err
	}

	mode := query.Replace
	if appendURI {
		mode = query.Append
	}
	t.installURI(uri, mode, t.collectionFormat)
	return nil
}

// installURI splits the fragment and query off an already validated uri and stores
// the remaining path. In Append mode the path is appended to the existing template.
func (t *Template) installURI(uri string, mode query.Mode, format template.CollectionFormat) {
	if idx := strings.IndexByte(uri, '#'); idx >= 0 {
		t.fragment = uri[idx:]
		uri = uri[:idx]
	}

	if idx := target.IndexUnescapedQuestionMark(uri); idx >= 0 {
		t.queries.Extract(uri[idx+1:], mode, format, t.queryOptions())
		uri = uri[:idx]
	}

	if mode == query.Append && t.uri != nil {
		t.uri = template.AppendURI(t.uri, uri)
		return
	}
	t.uri = template.NewURITemplate(uri, !t.decodeSlash, t.charset)
}

// SetTarget sets the absolute scheme://authority[/path] prefix of the request.
// A query on the target replaces the current query parameters and a fragment is kept
// separately. A blank value removes the target.
func (t *Template) SetTarget(value string) error {
	u, err := target.GenerateAbsoluteTarget(value)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.mutable(); err != nil {
		return err
	}

	if u == nil {
		t.target = ""
		return nil
	}
	if u.RawQuery != "" {
		t.queries.Extract(u.RawQuery, query.Replace, t.collectionFormat, t.queryOptions())
	}
	if u.Fragment != "" || strings.Contains(value, "#") {
		t.fragment = "#" + u.EscapedFragment()
	}
	t.target = strings.TrimSuffix(target.Base(u), "/")
	return nil
}

// Target returns the absolute target, "" when unset
func (t *Template) Target() string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.target
}

// Fragment returns the fragment including its leading '#', "" when unset
func (t *Template) Fragment() string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.fragment
}

// Path returns the target followed by the unexpanded URI, or "/" when both are empty
func (t *Template) Path() string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.pathLocked()
}

func (t *Template) pathLocked() string {
	var b strings.Builder
	b.WriteString(t.target)
	if t.uri != nil {
		b.WriteString(t.uri.String())
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

// URL returns the path, the query line and the fragment
func (t *Template) URL() string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.urlLocked()
}

func (t *Template) urlLocked() string {
	url := t.pathLocked()
	if line, ok := t.queries.Line(); ok {
		url += line
	}
	return url + t.fragment
}

// Package reqtemplate builds HTTP requests from reusable prototypes.
//
// A Template is mutable while it is being built. Resolve expands every URI, query,
// header and body template against a variable map and returns a new, resolved Template
// that can no longer be changed; the prototype itself is left untouched and can be
// resolved again. Only resolved templates convert into a *request.Request.
//
//	t := reqtemplate.New()
//	_ = t.SetMethod(request.MethodGet)
//	_ = t.SetURI("/users/{id}")
//	_ = t.Query("active", "true")
//	req, err := t.Resolve(map[string]any{"id": 42}).Request()
package reqtemplate

import (
	"bytes"
	"sync"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"

	"github.com/WhileEndless/go-reqtemplate/pkg/errors"
	"github.com/WhileEndless/go-reqtemplate/pkg/headers"
	"github.com/WhileEndless/go-reqtemplate/pkg/query"
	"github.com/WhileEndless/go-reqtemplate/pkg/request"
	"github.com/WhileEndless/go-reqtemplate/pkg/template"
)

// Template is a request prototype.
//
// A template under construction must not be mutated concurrently. Resolve and From may
// run concurrently with each other; they only hold a read lock while copying.
type Template struct {
	mu sync.RWMutex

	method   request.Method
	target   string // scheme://authority[/path], never a query or fragment
	fragment string // leading '#' kept
	uri      *template.Template
	queries  *query.Params
	headers  *headers.Templates

	body         []byte
	bodyCharset  encoding.Encoding
	bodyTemplate *template.BodyTemplate

	charset          encoding.Encoding
	decodeSlash      bool
	collectionFormat template.CollectionFormat
	resolved         bool
}

// New creates an empty template
func New() *Template {
	return &Template{
		queries:          query.New(),
		headers:          headers.NewTemplates(),
		charset:          unicode.UTF8,
		decodeSlash:      true,
		collectionFormat: template.Exploded,
	}
}

// From returns an independent, unresolved copy of src
func From(src *Template) *Template {
	src.mu.RLock()
	defer src.mu.RUnlock()

	return src.copyLocked()
}

func (t *Template) copyLocked() *Template {
	c := &Template{
		method:           t.method,
		target:           t.target,
		fragment:         t.fragment,
		uri:              t.uri,
		queries:          t.queries.Clone(),
		headers:          t.headers.Clone(),
		bodyCharset:      t.bodyCharset,
		bodyTemplate:     t.bodyTemplate,
		charset:          t.charset,
		decodeSlash:      t.decodeSlash,
		collectionFormat: t.collectionFormat,
	}
	if len(t.body) > 0 {
		c.body = bytes.Clone(t.body)
	}
	return c
}

// mutable reports an error when t has been resolved. Callers hold the write lock.
func (t *Template) mutable() error {
	if t.resolved {
		return errors.InvalidState("resolved templates cannot be modified", "")
	}
	return nil
}

func (t *Template) queryOptions() template.Options {
	return template.Options{
		Charset:     t.charset,
		EncodeSlash: !t.decodeSlash,
	}
}

// Resolved reports whether t was produced by Resolve
func (t *Template) Resolved() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.resolved
}

// SetMethod sets the HTTP method
func (t *Template) SetMethod(m request.Method) error {
	if !m.Valid() {
		return errors.InvalidArgument("unknown http method", string(m))
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.mutable(); err != nil {
		return err
	}
	t.method = m
	return nil
}

// SetMethodName parses and sets the HTTP method. Matching is case-sensitive.
func (t *Template) SetMethodName(name string) error {
	m, err := request.ParseMethod(name)
	if err != nil {
		return err
	}
	return t.SetMethod(m)
}

// Method returns the HTTP method, "" when unset
func (t *Template) Method() request.Method {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.method
}

// SetDecodeSlash controls whether '/' in expanded values is left literal (true) or
// percent-encoded (false). Existing URI and query templates are rebuilt.
func (t *Template) SetDecodeSlash(decodeSlash bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.mutable(); err != nil {
		return err
	}

	t.decodeSlash = decodeSlash
	if t.uri != nil {
		t.uri = template.NewURITemplate(t.uri.String(), !decodeSlash, t.charset)
	}
	t.queries.Rebuild(t.queryOptions())
	return nil
}

// SetCharset sets the charset applied to values before percent-encoding. Existing URI
// and query templates are rebuilt. nil means UTF-8.
func (t *Template) SetCharset(charset encoding.Encoding) error {
	if charset == nil {
		charset = unicode.UTF8
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.mutable(); err != nil {
		return err
	}

	t.charset = charset
	if t.uri != nil {
		t.uri = template.NewURITemplate(t.uri.String(), !t.decodeSlash, charset)
	}
	t.queries.Rebuild(t.queryOptions())
	return nil
}

// Charset returns the charset applied to values before percent-encoding
func (t *Template) Charset() encoding.Encoding {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.charset
}

// DecodeSlash reports the slash policy
func (t *Template) DecodeSlash() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.decodeSlash
}

// SetCollectionFormat sets the format used by queries added without an explicit one
func (t *Template) SetCollectionFormat(f template.CollectionFormat) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.mutable(); err != nil {
		return err
	}
	t.collectionFormat = f
	return nil
}

// CollectionFormat returns the default collection format
func (t *Template) CollectionFormat() template.CollectionFormat {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.collectionFormat
}

// Variables returns every variable referenced by the URI, queries, headers and body
func (t *Template) Variables() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	vars := t.requestVariablesLocked()
	if t.bodyTemplate != nil {
		vars = appendUnique(vars, t.bodyTemplate.Variables())
	}
	return vars
}

// RequestVariables returns the variables referenced by the URI, queries and headers
func (t *Template) RequestVariables() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.requestVariablesLocked()
}

// HasRequestVariable reports whether name is referenced by the URI, queries or headers
func (t *Template) HasRequestVariable(name string) bool {
	for _, v := range t.RequestVariables() {
		if v == name {
			return true
		}
	}
	return false
}

func (t *Template) requestVariablesLocked() []string {
	vars := make([]string, 0)
	if t.uri != nil {
		vars = appendUnique(vars, t.uri.Variables())
	}
	vars = appendUnique(vars, t.queries.Variables())
	vars = appendUnique(vars, t.headers.Variables())
	return vars
}

func appendUnique(dst, src []string) []string {
	for _, s := range src {
		found := false
		for _, d := range dst {
			if d == s {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, s)
		}
	}
	return dst
}

// Request converts a resolved template into its wire form
func (t *Template) Request() (*request.Request, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.requestLocked()
}

func (t *Template) requestLocked() (*request.Request, error) {
	if !t.resolved {
		return nil, errors.InvalidState("template has not been resolved", "")
	}
	if t.method == "" {
		return nil, errors.InvalidState("http method is not set", "")
	}
	return request.New(t.method, t.urlLocked(), t.headers.Values(), t.body, t.bodyCharset), nil
}

// String renders the wire form of a resolved template, or the unexpanded prototype
func (t *Template) String() string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if req, err := t.requestLocked(); err == nil {
		return req.String()
	}

	var buf bytes.Buffer
	buf.WriteString(string(t.method))
	buf.WriteString(" ")
	buf.WriteString(t.urlLocked())
	buf.WriteString(" HTTP/1.1\r\n")
	buf.Write(t.headers.Values().Build())
	buf.WriteString("\r\n")
	if t.bodyTemplate != nil {
		buf.WriteString(t.bodyTemplate.String())
	} else {
		buf.Write(t.body)
	}
	return buf.String()
}

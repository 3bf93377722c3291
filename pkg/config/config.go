// Package config loads request prototype definitions from YAML or JSON files and turns
// them into request templates.
package config

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	tmplerrors "github.com/WhileEndless/go-reqtemplate/pkg/errors"
	"github.com/WhileEndless/go-reqtemplate/pkg/headers"
	"github.com/WhileEndless/go-reqtemplate/pkg/reqtemplate"
	"github.com/WhileEndless/go-reqtemplate/pkg/request"
	"github.com/WhileEndless/go-reqtemplate/pkg/target"
	"github.com/WhileEndless/go-reqtemplate/pkg/template"
)

// Definition is a set of named request prototypes sharing defaults
type Definition struct {
	// Target is the absolute URL prefix shared by every request
	Target string `yaml:"target,omitempty" json:"target,omitempty"`

	// Charset is an IANA charset name (default UTF-8)
	Charset string `yaml:"charset,omitempty" json:"charset,omitempty"`

	// CollectionFormat is one of exploded, csv, ssv, tsv, pipes
	CollectionFormat string `yaml:"collectionFormat,omitempty" json:"collectionFormat,omitempty"`

	// DecodeSlash leaves '/' in expanded values literal (default true)
	DecodeSlash *bool `yaml:"decodeSlash,omitempty" json:"decodeSlash,omitempty"`

	// Headers are "Name: value" lines applied to every request
	Headers []string `yaml:"headers,omitempty" json:"headers,omitempty"`

	Requests map[string]*RequestDefinition `yaml:"requests" json:"requests"`
}

// RequestDefinition is one request prototype. Fields left empty fall back to the
// Definition defaults.
type RequestDefinition struct {
	// RequestLine is "METHOD uri", e.g. "GET /users/{id}?active={active}"
	RequestLine string `yaml:"requestLine" json:"requestLine"`

	Target           string              `yaml:"target,omitempty" json:"target,omitempty"`
	Headers          []string            `yaml:"headers,omitempty" json:"headers,omitempty"`
	Queries          map[string][]string `yaml:"queries,omitempty" json:"queries,omitempty"`
	CollectionFormat string              `yaml:"collectionFormat,omitempty" json:"collectionFormat,omitempty"`
	DecodeSlash      *bool               `yaml:"decodeSlash,omitempty" json:"decodeSlash,omitempty"`

	// Cookies are name to value templates sent in the Cookie header, in name order
	Cookies map[string]string `yaml:"cookies,omitempty" json:"cookies,omitempty"`

	// Body is a body template; undefined variables are left in place
	Body string `yaml:"body,omitempty" json:"body,omitempty"`
}

func configError(message, context string, cause error) error {
	return tmplerrors.NewError(tmplerrors.ErrorTypeConfig, message, context, cause)
}

// ParseRequestLine splits "METHOD uri [HTTP/x]" into its method and uri
func ParseRequestLine(line string) (request.Method, string, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 || len(fields) > 3 {
		return "", "", configError("request line must be \"METHOD uri\"", line, nil)
	}
	if len(fields) == 3 && !strings.HasPrefix(fields[2], "HTTP/") {
		return "", "", configError("unexpected request line suffix", line, nil)
	}

	m, err := request.ParseMethod(fields[0])
	if err != nil {
		return "", "", configError("invalid request line", line, err)
	}
	return m, fields[1], nil
}

// LookupCharset resolves an IANA charset name. An empty name is UTF-8.
func LookupCharset(name string) (encoding.Encoding, error) {
	if name == "" {
		name = "UTF-8"
	}
	cs, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, configError("unknown charset", name, err)
	}
	if cs == nil {
		return nil, configError("unsupported charset", name, nil)
	}
	return cs, nil
}

// Names returns the request names in sorted order
func (d *Definition) Names() []string {
	names := make([]string, 0, len(d.Requests))
	for name := range d.Requests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks every request by building its template
func (d *Definition) Validate() error {
	if len(d.Requests) == 0 {
		return configError("no requests defined", "", nil)
	}
	for _, name := range d.Names() {
		if _, err := d.Template(name); err != nil {
			return err
		}
	}
	return nil
}

// Template builds a fresh, unresolved template for the named request
func (d *Definition) Template(name string) (*reqtemplate.Template, error) {
	def, ok := d.Requests[name]
	if !ok || def == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRequest, name)
	}

	t, err := d.build(def)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", name, err)
	}
	return t, nil
}

func (d *Definition) build(def *RequestDefinition) (*reqtemplate.Template, error) {
	t := reqtemplate.New()

	cs, err := LookupCharset(d.Charset)
	if err != nil {
		return nil, err
	}
	if err := t.SetCharset(cs); err != nil {
		return nil, err
	}

	decodeSlash := true
	for _, v := range []*bool{d.DecodeSlash, def.DecodeSlash} {
		if v != nil {
			decodeSlash = *v
		}
	}
	if err := t.SetDecodeSlash(decodeSlash); err != nil {
		return nil, err
	}

	formatName := d.CollectionFormat
	if def.CollectionFormat != "" {
		formatName = def.CollectionFormat
	}
	format, err := template.ParseCollectionFormat(formatName)
	if err != nil {
		return nil, err
	}
	if err := t.SetCollectionFormat(format); err != nil {
		return nil, err
	}

	targetURL := d.Target
	if def.Target != "" {
		targetURL = def.Target
	}
	if err := t.SetTarget(targetURL); err != nil {
		return nil, err
	}

	method, uri, err := ParseRequestLine(def.RequestLine)
	if err != nil {
		return nil, err
	}
	if target.IsAbsolute(uri) {
		return nil, configError("request line uri must be relative; use target", uri, nil)
	}
	if err := t.SetMethod(method); err != nil {
		return nil, err
	}
	// append mode keeps the query parameters the target already contributed
	if err := t.AppendURI(uri); err != nil {
		return nil, err
	}

	for _, line := range append(append([]string{}, d.Headers...), def.Headers...) {
		hname, value, err := headers.ParseHeaderLine(line)
		if err != nil {
			return nil, err
		}
		if err := t.Header(hname, value); err != nil {
			return nil, err
		}
	}

	for _, cname := range sortedKeys(def.Cookies) {
		if err := t.Cookie(cname, def.Cookies[cname]); err != nil {
			return nil, err
		}
	}

	for _, qname := range sortedKeys(def.Queries) {
		if err := t.Query(qname, def.Queries[qname]...); err != nil {
			return nil, err
		}
	}

	if def.Body != "" {
		if err := t.SetBodyTemplateCharset(def.Body, cs); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Package cookies reads and writes the pairs of a request Cookie header.
package cookies

import (
	"strings"

	"golang.org/x/net/http/httpguts"

	"github.com/WhileEndless/go-reqtemplate/pkg/errors"
)

// Cookie is one name=value pair of a Cookie header
type Cookie struct {
	Name  string
	Value string
}

// Parse splits a Cookie header value into its pairs.
// Never fails: empty segments are skipped and a segment without '=' is a name with an
// empty value. Values are kept verbatim, quotes included.
func Parse(header string) []Cookie {
	cookies := make([]Cookie, 0)
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, _ := strings.Cut(part, "=")
		cookies = append(cookies, Cookie{
			Name:  strings.TrimSpace(name),
			Value: strings.TrimSpace(value),
		})
	}
	return cookies
}

// Build joins cookies into a Cookie header value ("a=1; b=2").
// Cookies without a name are skipped.
func Build(cookies []Cookie) string {
	parts := make([]string, 0, len(cookies))
	for _, c := range cookies {
		if c.Name == "" {
			continue
		}
		parts = append(parts, c.Name+"="+c.Value)
	}
	return strings.Join(parts, "; ")
}

// Set replaces the value of the first cookie called name, dropping later duplicates,
// or appends it. Names are case-sensitive.
func Set(cookies []Cookie, name, value string) []Cookie {
	out := make([]Cookie, 0, len(cookies)+1)
	found := false
	for _, c := range cookies {
		if c.Name != name {
			out = append(out, c)
			continue
		}
		if !found {
			out = append(out, Cookie{Name: name, Value: value})
			found = true
		}
	}
	if !found {
		out = append(out, Cookie{Name: name, Value: value})
	}
	return out
}

// Remove drops every cookie called name
func Remove(cookies []Cookie, name string) []Cookie {
	out := make([]Cookie, 0, len(cookies))
	for _, c := range cookies {
		if c.Name != name {
			out = append(out, c)
		}
	}
	return out
}

// Get returns the value of the first cookie called name
func Get(cookies []Cookie, name string) (string, bool) {
	for _, c := range cookies {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

// Validate checks that name is a token and value cannot break out of its pair
func Validate(name, value string) error {
	if name == "" {
		return errors.InvalidArgument("name is required", "cookie")
	}
	if !httpguts.ValidHeaderFieldName(name) {
		return errors.InvalidArgument("invalid cookie name", name)
	}
	if strings.ContainsAny(value, ";\r\n") || !httpguts.ValidHeaderFieldValue(value) {
		return errors.InvalidArgument("invalid cookie value", name)
	}
	return nil
}

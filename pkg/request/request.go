// Package request holds the immutable wire artifact produced from a resolved request
// template, along with its text and net/http renditions.
package request

import (
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"

	"github.com/WhileEndless/go-reqtemplate/pkg/cookies"
	"github.com/WhileEndless/go-reqtemplate/pkg/errors"
	"github.com/WhileEndless/go-reqtemplate/pkg/headers"
)

// Method is an HTTP method token
type Method string

const (
	MethodGet     Method = "GET"
	MethodHead    Method = "HEAD"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
	MethodConnect Method = "CONNECT"
	MethodOptions Method = "OPTIONS"
	MethodTrace   Method = "TRACE"
	MethodPatch   Method = "PATCH"
)

var methods = []Method{
	MethodGet, MethodHead, MethodPost, MethodPut, MethodDelete,
	MethodConnect, MethodOptions, MethodTrace, MethodPatch,
}

// Methods returns every supported method
func Methods() []Method {
	out := make([]Method, len(methods))
	copy(out, methods)
	return out
}

// ParseMethod parses a method token. Matching is case-sensitive.
func ParseMethod(name string) (Method, error) {
	for _, m := range methods {
		if string(m) == name {
			return m, nil
		}
	}
	return "", errors.InvalidArgument("unknown http method", name)
}

// Valid reports whether m is a supported method
func (m Method) Valid() bool {
	_, err := ParseMethod(string(m))
	return err == nil
}

// Request is a fully resolved HTTP request
type Request struct {
	Method  Method
	URL     string       // absolute or origin-relative, may carry a query and fragment
	Headers *headers.Map // ordered, case-insensitive
	Body    []byte
	Charset encoding.Encoding // body charset, nil means UTF-8
}

// New creates a request. Headers and body are copied.
func New(method Method, url string, h *headers.Map, body []byte, charset encoding.Encoding) *Request {
	r := &Request{
		Method:  method,
		URL:     url,
		Charset: charset,
	}
	if h != nil {
		r.Headers = h.Clone()
	} else {
		r.Headers = headers.NewMap()
	}
	if len(body) > 0 {
		r.Body = make([]byte, len(body))
		copy(r.Body, body)
	}
	return r
}

// Clone creates a deep copy of the request
func (r *Request) Clone() *Request {
	return New(r.Method, r.URL, r.Headers, r.Body, r.Charset)
}

// ContentLength returns the Content-Length header value, or -1 when absent or invalid
func (r *Request) ContentLength() int {
	v := r.Headers.Get("Content-Length")
	if v == "" {
		return -1
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return -1
	}
	return n
}

// ContentType returns the Content-Type header value
func (r *Request) ContentType() string {
	return r.Headers.Get("Content-Type")
}

// Cookies returns the pairs of every Cookie header
func (r *Request) Cookies() []cookies.Cookie {
	return cookies.Parse(strings.Join(r.Headers.Values("Cookie"), "; "))
}

// BodyString decodes the body with the request charset
func (r *Request) BodyString() (string, error) {
	if len(r.Body) == 0 {
		return "", nil
	}
	cs := r.Charset
	if cs == nil {
		cs = unicode.UTF8
	}
	out, err := cs.NewDecoder().Bytes(r.Body)
	if err != nil {
		return "", errors.NewError(errors.ErrorTypeMalformedInput, "body does not match charset", "", err)
	}
	return string(out), nil
}

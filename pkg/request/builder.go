package request

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/WhileEndless/go-reqtemplate/pkg/target"
)

const httpVersion = "HTTP/1.1"

// Build renders the request as HTTP/1.1 text. Absolute URLs are written in origin form
// with a Host header added when none is set.
func (r *Request) Build() []byte {
	out, _ := r.BuildWithOptions(DefaultBuildOptions())
	return out
}

// String returns the HTTP/1.1 text form
func (r *Request) String() string {
	return string(r.Build())
}

// location splits the request URL into scheme, authority and request-target.
// The fragment is never part of the request-target.
func (r *Request) location() (scheme, authority, requestTarget string) {
	raw, _, _ := strings.Cut(r.URL, "#")
	if target.IsAbsolute(raw) {
		if u, err := url.Parse(raw); err == nil {
			return u.Scheme, u.Host, u.RequestURI()
		}
	}
	if raw == "" {
		raw = "/"
	}
	return "", "", raw
}

func (r *Request) writeHTTP1(buf *bytes.Buffer, h []line, body []byte, sep string) {
	_, _, requestTarget := r.location()

	buf.WriteString(string(r.Method))
	buf.WriteString(" ")
	buf.WriteString(requestTarget)
	buf.WriteString(" ")
	buf.WriteString(httpVersion)
	buf.WriteString(sep)

	for _, l := range h {
		buf.WriteString(l.name)
		buf.WriteString(": ")
		buf.WriteString(l.value)
		buf.WriteString(sep)
	}
	buf.WriteString(sep)
	buf.Write(body)
}

// hop-by-hop headers have no HTTP/2 representation
var http2Excluded = map[string]bool{
	"host":              true,
	"connection":        true,
	"keep-alive":        true,
	"proxy-connection":  true,
	"transfer-encoding": true,
	"upgrade":           true,
}

func (r *Request) writeHTTP2(buf *bytes.Buffer, h []line, body []byte, sep string) {
	scheme, authority, requestTarget := r.location()
	if scheme == "" {
		scheme = "https"
	}
	if authority == "" {
		authority = strings.TrimSpace(r.Headers.Get("Host"))
	}

	pseudo := []line{
		{":method", string(r.Method)},
		{":scheme", scheme},
	}
	if authority != "" {
		pseudo = append(pseudo, line{":authority", authority})
	}
	pseudo = append(pseudo, line{":path", requestTarget})

	for _, l := range pseudo {
		buf.WriteString(l.name)
		buf.WriteString(": ")
		buf.WriteString(l.value)
		buf.WriteString(sep)
	}
	for _, l := range h {
		if http2Excluded[strings.ToLower(l.name)] {
			continue
		}
		buf.WriteString(strings.ToLower(l.name))
		buf.WriteString(": ")
		buf.WriteString(l.value)
		buf.WriteString(sep)
	}
	buf.WriteString(sep)
	buf.Write(body)
}

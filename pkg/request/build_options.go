package request

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/WhileEndless/go-reqtemplate/pkg/chunked"
	"github.com/WhileEndless/go-reqtemplate/pkg/compression"
)

// HTTPVersion selects the output format of BuildWithOptions
type HTTPVersion int

const (
	// HTTP11 renders a request line followed by header lines
	HTTP11 HTTPVersion = iota
	// HTTP2 renders pseudo-headers followed by lower-cased header lines
	HTTP2
)

// BuildOptions configures how the request is rendered
type BuildOptions struct {
	// Compression applies a content coding to the body. None leaves it unchanged.
	Compression compression.Coding

	// Chunked frames the body with the chunked transfer coding (HTTP/1.1 only)
	Chunked bool

	// ChunkSize for chunked framing (0 = chunked.DefaultSize)
	ChunkSize int

	// HTTPVersion controls the output format
	HTTPVersion HTTPVersion

	// UpdateContentLength rewrites Content-Length to match the final body
	UpdateContentLength bool

	// UpdateContentEncoding sets Content-Encoding when a compression is applied
	UpdateContentEncoding bool

	// UpdateTransferEncoding adds "chunked" to Transfer-Encoding when framing is applied
	UpdateTransferEncoding bool

	// LineSeparator overrides the line separator (default CRLF)
	LineSeparator string
}

// DefaultBuildOptions returns options that render the body as-is and keep the framing
// headers consistent with it
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		Compression:            compression.None,
		HTTPVersion:            HTTP11,
		UpdateContentLength:    true,
		UpdateContentEncoding:  true,
		UpdateTransferEncoding: true,
	}
}

// HTTP2Options returns default options in HTTP/2 format
func HTTP2Options() BuildOptions {
	opts := DefaultBuildOptions()
	opts.HTTPVersion = HTTP2
	return opts
}

// line is one rendered header line
type line struct {
	name  string
	value string
}

// BuildWithOptions renders the request with opts. The request itself is not modified.
func (r *Request) BuildWithOptions(opts BuildOptions) ([]byte, error) {
	sep := opts.LineSeparator
	if sep == "" {
		sep = "\r\n"
	}
	if opts.HTTPVersion == HTTP2 {
		opts.Chunked = false
	}

	body, err := r.prepareBody(opts)
	if err != nil {
		return nil, err
	}
	h := r.prepareHeaders(opts, body)

	var buf bytes.Buffer
	switch opts.HTTPVersion {
	case HTTP2:
		r.writeHTTP2(&buf, h, body, sep)
	default:
		r.writeHTTP1(&buf, h, body, sep)
	}
	return buf.Bytes(), nil
}

func (r *Request) prepareBody(opts BuildOptions) ([]byte, error) {
	body := r.Body
	if opts.Compression != compression.None {
		compressed, err := compression.Compress(body, opts.Compression)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		body = compressed
	}
	if opts.Chunked {
		body = chunked.Encode(body, opts.ChunkSize, nil)
	}
	return body, nil
}

func (r *Request) prepareHeaders(opts BuildOptions, body []byte) []line {
	compressed := opts.Compression != compression.None && len(r.Body) > 0
	out := make([]line, 0, r.Headers.Len()+3)

	var hasHost, hasCE, hasTE, hasCL bool
	for _, h := range r.Headers.All() {
		switch strings.ToLower(h.Name) {
		case "host":
			hasHost = true
		case "content-encoding":
			hasCE = true
			if opts.UpdateContentEncoding && compressed {
				out = append(out, line{h.Name, appendToken(strings.Join(h.Values, ", "), opts.Compression.String())})
				continue
			}
		case "transfer-encoding":
			hasTE = true
			if opts.UpdateTransferEncoding && opts.Chunked {
				out = append(out, line{h.Name, appendToken(strings.Join(h.Values, ", "), "chunked")})
				continue
			}
		case "content-length":
			hasCL = true
			if opts.UpdateContentLength {
				if opts.Chunked {
					continue
				}
				out = append(out, line{h.Name, strconv.Itoa(len(body))})
				continue
			}
		}
		for _, v := range h.Values {
			out = append(out, line{h.Name, v})
		}
	}

	if opts.UpdateContentEncoding && compressed && !hasCE {
		out = append(out, line{"Content-Encoding", opts.Compression.String()})
	}
	if opts.UpdateTransferEncoding && opts.Chunked && !hasTE {
		out = append(out, line{"Transfer-Encoding", "chunked"})
	}
	if opts.UpdateContentLength && !opts.Chunked && !hasCL && len(body) > 0 {
		out = append(out, line{"Content-Length", strconv.Itoa(len(body))})
	}

	if !hasHost && opts.HTTPVersion == HTTP11 {
		if _, authority, _ := r.location(); authority != "" {
			out = append([]line{{"Host", authority}}, out...)
		}
	}
	return out
}

// appendToken adds token to a comma separated list unless already present
func appendToken(list, token string) string {
	list = strings.TrimSpace(list)
	if list == "" {
		return token
	}
	for _, t := range strings.Split(list, ",") {
		if strings.EqualFold(strings.TrimSpace(t), token) {
			return list
		}
	}
	return list + ", " + token
}

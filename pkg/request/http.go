package request

import (
	"bytes"
	"context"
	"net/http"

	"github.com/WhileEndless/go-reqtemplate/pkg/errors"
	"github.com/WhileEndless/go-reqtemplate/pkg/target"
)

// ToHTTP converts the request into a *http.Request bound to ctx.
// The URL must be absolute; a Host header overrides the URL authority.
func (r *Request) ToHTTP(ctx context.Context) (*http.Request, error) {
	if !target.IsAbsolute(r.URL) {
		return nil, errors.InvalidArgument("url must be absolute to send", r.URL)
	}

	req, err := http.NewRequestWithContext(ctx, string(r.Method), r.URL, bytes.NewReader(r.Body))
	if err != nil {
		return nil, errors.NewError(errors.ErrorTypeInvalidArgument, "cannot build http request", r.URL, err)
	}
	req.Header = r.Headers.HTTPHeader()
	if host := req.Header.Get("Host"); host != "" {
		req.Host = host
		req.Header.Del("Host")
	}
	req.ContentLength = int64(len(r.Body))
	return req, nil
}

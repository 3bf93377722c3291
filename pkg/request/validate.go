package request

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/http/httpguts"

	"github.com/WhileEndless/go-reqtemplate/pkg/target"
)

// ValidationResult contains validation results
type ValidationResult struct {
	Valid    bool
	Warnings []string
	Errors   []string
}

func (v *ValidationResult) fail(format string, args ...any) {
	v.Valid = false
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

func (v *ValidationResult) warn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}

// Validate checks the request for problems a server would reject or trip over.
// Errors make the request unsendable; warnings are merely unusual.
func (r *Request) Validate() *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Warnings: make([]string, 0),
		Errors:   make([]string, 0),
	}

	switch {
	case r.Method == "":
		result.fail("http method is empty")
	case !r.Method.Valid():
		result.warn("non-standard http method: %s", r.Method)
	}

	switch {
	case r.URL == "":
		result.fail("url is empty")
	case target.IsAbsolute(r.URL):
		if _, err := url.Parse(r.URL); err != nil {
			result.fail("invalid url: %v", err)
		}
	case !strings.HasPrefix(r.URL, "/"):
		result.warn("url is not origin-relative: %s", r.URL)
	}

	for _, h := range r.Headers.All() {
		if !httpguts.ValidHeaderFieldName(h.Name) {
			result.fail("invalid header name: %q", h.Name)
		}
		if len(h.Values) > 1 && strings.EqualFold(h.Name, "Content-Type") {
			result.warn("multiple Content-Type values")
		}
		for _, v := range h.Values {
			if !httpguts.ValidHeaderFieldValue(v) {
				result.fail("invalid value for header %s", h.Name)
			}
			if strings.TrimSpace(v) == "" {
				result.warn("header with blank value: %s", h.Name)
			}
		}
	}

	if cl := r.Headers.Get("Content-Length"); cl != "" {
		if n, err := strconv.Atoi(cl); err != nil {
			result.fail("invalid Content-Length: %s", cl)
		} else if n != len(r.Body) {
			result.warn("Content-Length mismatch: header says %d, body is %d bytes", n, len(r.Body))
		}
	}

	if (r.Method == MethodGet || r.Method == MethodHead) && len(r.Body) > 0 {
		result.warn("%s request with body", r.Method)
	}

	return result
}

// Package target classifies and normalizes request URIs: relative path templates on one
// side and absolute targets (scheme://authority[/path]) on the other.
package target

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/WhileEndless/go-reqtemplate/pkg/errors"
)

// relativePrefixes are the characters a relative URI may start with as-is
var relativePrefixes = []string{"/", "{", "?", ";"}

var (
	// absolutePattern matches a URI that starts with a scheme followed by "://"
	absolutePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*://`)

	// unescapedQuestionMark matches a '?' that is not the start of a "{?" expression
	unescapedQuestionMark = regexp.MustCompile(`(?:^|[^{])\?`)
)

// IsAbsolute reports whether uri carries a scheme and authority
func IsAbsolute(uri string) bool {
	return absolutePattern.MatchString(uri)
}

// ValidateRelative ensures uri is relative and starts with a recognized prefix,
// prepending "/" when it does not.
func ValidateRelative(uri string) (string, error) {
	if IsAbsolute(uri) {
		return "", errors.InvalidArgument("url values must not be absolute", uri)
	}
	for _, prefix := range relativePrefixes {
		if strings.HasPrefix(uri, prefix) {
			return uri, nil
		}
	}
	return "/" + uri, nil
}

// GenerateAbsoluteTarget parses an absolute target. A blank value yields a nil URL and
// no error.
func GenerateAbsoluteTarget(value string) (*url.URL, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	if !IsAbsolute(value) {
		return nil, errors.InvalidArgument("target values must be absolute", value)
	}

	u, err := url.Parse(strings.TrimSuffix(value, "/"))
	if err != nil {
		return nil, errors.NewError(errors.ErrorTypeInvalidArgument, "target is not a valid URI", value, err)
	}
	return u, nil
}

// Base returns scheme://authority/path of u, without query or fragment
func Base(u *url.URL) string {
	var b strings.Builder
	b.WriteString(u.Scheme)
	b.WriteString("://")
	if u.User != nil {
		b.WriteString(u.User.String())
		b.WriteByte('@')
	}
	b.WriteString(u.Host)
	b.WriteString(u.EscapedPath())
	return b.String()
}

// IndexUnescapedQuestionMark returns the index of the first '?' not immediately
// preceded by '{', or -1
func IndexUnescapedQuestionMark(s string) int {
	loc := unescapedQuestionMark.FindStringIndex(s)
	if loc == nil {
		return -1
	}
	return loc[1] - 1
}

// HasUnescapedQuestionMark reports whether s contains a '?' outside a "{?" expression
func HasUnescapedQuestionMark(s string) bool {
	return unescapedQuestionMark.MatchString(s)
}

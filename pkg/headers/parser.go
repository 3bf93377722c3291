package headers

import (
	"bytes"
	"strings"

	"github.com/WhileEndless/go-reqtemplate/pkg/errors"
)

// ParseHeaderLine splits a "Name: value" line. The value may contain template
// expressions and is returned trimmed.
func ParseHeaderLine(line string) (name, value string, err error) {
	// Find colon separator
	colonPos := strings.Index(line, ":")
	if colonPos == -1 {
		return "", "", errors.NewError(errors.ErrorTypeMalformedInput, "header line has no colon", line, nil)
	}

	// Parse name and value (trimmed for programmatic access)
	name = strings.TrimSpace(line[:colonPos])
	value = strings.TrimSpace(line[colonPos+1:])
	if name == "" {
		return "", "", errors.NewError(errors.ErrorTypeMalformedInput, "header line has no name", line, nil)
	}
	return name, value, nil
}

// Build renders the headers in wire format, one "Name: value" line per value
func (h *Map) Build() []byte {
	return h.BuildWithSeparator("\r\n")
}

// BuildWithSeparator renders the headers using sep as the line terminator
func (h *Map) BuildWithSeparator(sep string) []byte {
	var buf bytes.Buffer

	for _, header := range h.All() {
		for _, value := range header.Values {
			buf.WriteString(header.Name)
			buf.WriteString(": ")
			buf.WriteString(value)
			buf.WriteString(sep)
		}
	}

	return buf.Bytes()
}

package template

import (
	"strings"

	"github.com/WhileEndless/go-reqtemplate/pkg/errors"
)

// CollectionFormat controls how a multi-valued query parameter is serialized
type CollectionFormat int

const (
	// Exploded repeats name=value for every element (default)
	Exploded CollectionFormat = iota
	// CSV joins elements with commas
	CSV
	// SSV joins elements with spaces
	SSV
	// TSV joins elements with tabs
	TSV
	// Pipes joins elements with pipes
	Pipes
)

// String returns the lower-case name of the format
func (f CollectionFormat) String() string {
	switch f {
	case CSV:
		return "csv"
	case SSV:
		return "ssv"
	case TSV:
		return "tsv"
	case Pipes:
		return "pipes"
	default:
		return "exploded"
	}
}

// ParseCollectionFormat converts a format name (case-insensitive) to a CollectionFormat.
// An empty name selects Exploded.
func ParseCollectionFormat(name string) (CollectionFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "exploded", "multi":
		return Exploded, nil
	case "csv":
		return CSV, nil
	case "ssv":
		return SSV, nil
	case "tsv":
		return TSV, nil
	case "pipes":
		return Pipes, nil
	}
	return Exploded, errors.InvalidArgument("unknown collection format: "+name, "ParseCollectionFormat")
}

// separator returns the encoded element separator; empty for Exploded
func (f CollectionFormat) separator() string {
	switch f {
	case CSV:
		return ","
	case SSV:
		return "%20"
	case TSV:
		return "%09"
	case Pipes:
		return "|"
	default:
		return ""
	}
}

// Join renders name and values as a query fragment. Values are expected to be encoded already.
func (f CollectionFormat) Join(name string, values []string) string {
	if len(values) == 0 {
		return name
	}

	var b strings.Builder
	sep := f.separator()
	if sep == "" {
		for i, v := range values {
			if i > 0 {
				b.WriteByte('&')
			}
			b.WriteString(name)
			b.WriteByte('=')
			b.WriteString(v)
		}
		return b.String()
	}

	b.WriteString(name)
	b.WriteByte('=')
	b.WriteString(strings.Join(values, sep))
	return b.String()
}

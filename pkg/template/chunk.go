package template

import "strings"

// ChunkKind discriminates the two chunk variants
type ChunkKind int

const (
	// KindLiteral is text copied to the output unchanged (apart from encoding)
	KindLiteral ChunkKind = iota
	// KindExpression is a {name} placeholder replaced by a variable value
	KindExpression
)

// Chunk is one piece of a parsed template: either literal text or an expression.
// For expressions, Value holds the variable name without braces.
type Chunk struct {
	Kind  ChunkKind
	Value string
}

// Literal creates a literal chunk
func Literal(text string) Chunk {
	return Chunk{Kind: KindLiteral, Value: text}
}

// Expression creates an expression chunk for the named variable
func Expression(name string) Chunk {
	return Chunk{Kind: KindExpression, Value: name}
}

// String returns the chunk in template form
func (c Chunk) String() string {
	switch c.Kind {
	case KindExpression:
		return "{" + c.Value + "}"
	default:
		return c.Value
	}
}

// IsExpression reports whether the chunk is a placeholder
func (c Chunk) IsExpression() bool {
	return c.Kind == KindExpression
}

// parseChunks splits raw into literal and expression chunks.
// A brace pair only forms an expression when its content is a valid variable name,
// so JSON documents and other brace-heavy text stay literal.
func parseChunks(raw string) []Chunk {
	chunks := make([]Chunk, 0, 4)
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			chunks = append(chunks, Literal(lit.String()))
			lit.Reset()
		}
	}

	i := 0
	for i < len(raw) {
		if raw[i] != '{' {
			lit.WriteByte(raw[i])
			i++
			continue
		}

		end := strings.IndexByte(raw[i+1:], '}')
		if end < 0 {
			lit.WriteString(raw[i:])
			break
		}

		name := raw[i+1 : i+1+end]
		if !validVariableName(name) {
			lit.WriteByte('{')
			i++
			continue
		}

		flush()
		chunks = append(chunks, Expression(name))
		i += end + 2
	}
	flush()

	return chunks
}

func validVariableName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '_', c == '-', c == '.', c == '[', c == ']':
		default:
			return false
		}
	}
	return true
}

func joinChunks(chunks []Chunk) string {
	var b strings.Builder
	for _, c := range chunks {
		b.WriteString(c.String())
	}
	return b.String()
}

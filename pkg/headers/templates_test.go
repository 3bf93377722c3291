package headers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WhileEndless/go-reqtemplate/pkg/errors"
	"github.com/WhileEndless/go-reqtemplate/pkg/template"
)

func TestTemplatesSetOrAppend(t *testing.T) {
	t.Parallel()

	h := NewTemplates()
	require.NoError(t, h.SetOrAppend("Accept", []string{"application/json"}))
	require.NoError(t, h.SetOrAppend("accept", []string{"text/plain"}))

	assert.Equal(t, 1, h.Len())
	assert.Equal(t, []string{"application/json", "text/plain"}, h.Values().Values("ACCEPT"))
	assert.Equal(t, []string{"Accept"}, h.Names())
}

func TestTemplatesEmptyValuesRemove(t *testing.T) {
	t.Parallel()

	h := NewTemplates()
	require.NoError(t, h.SetOrAppend("A", []string{"1"}))
	require.NoError(t, h.SetOrAppend("B", []string{"2"}))
	require.NoError(t, h.SetOrAppend("a", nil))
	assert.Equal(t, []string{"B"}, h.Names())

	// removing something absent is fine
	require.NoError(t, h.SetOrAppend("missing", []string{}))

	require.NoError(t, h.SetOrAppend("A", []string{"3"}))
	assert.Equal(t, []string{"B", "A"}, h.Names())
}

func TestTemplatesContentTypeSingleValued(t *testing.T) {
	t.Parallel()

	h := NewTemplates()
	require.NoError(t, h.SetOrAppend("Content-Type", []string{"text/plain"}))
	require.NoError(t, h.SetOrAppend("X-Other", []string{"x"}))
	require.NoError(t, h.SetOrAppend("content-type", []string{"application/json", "application/xml"}))

	assert.Equal(t, []string{"application/json"}, h.Values().Values("Content-Type"))
	assert.Equal(t, []string{"X-Other", "content-type"}, h.Names())

	require.NoError(t, h.SetOrAppend("Content-Type", nil))
	assert.False(t, h.Values().Has("Content-Type"))
}

func TestTemplatesContentTypeChunksReplace(t *testing.T) {
	t.Parallel()

	h := NewTemplates()
	require.NoError(t, h.AppendChunks("Content-Type", []template.Chunk{template.Literal("a/b")}))
	require.NoError(t, h.SetOrAppend("X-Other", []string{"x"}))
	require.NoError(t, h.AppendChunks("content-type", []template.Chunk{template.Literal("c/d")}))

	assert.Equal(t, []string{"c/d"}, h.Values().Values("Content-Type"))
	assert.Equal(t, []string{"X-Other", "content-type"}, h.Names())

	require.NoError(t, h.SetOrAppend("Content-Type", []string{"text/plain"}))
	require.NoError(t, h.AppendChunks("Content-Type", []template.Chunk{template.Literal("e/f")}))
	assert.Equal(t, []string{"e/f"}, h.Values().Values("Content-Type"))
}

func TestTemplatesValidation(t *testing.T) {
	t.Parallel()

	h := NewTemplates()
	require.NoError(t, h.SetOrAppend("A", []string{"1"}))

	tests := []struct {
		name string
		call func() error
	}{
		{"empty name", func() error { return h.SetOrAppend("", []string{"x"}) }},
		{"space in name", func() error { return h.SetOrAppend("Bad Name", []string{"x"}) }},
		{"remove empty name", func() error { return h.Remove("") }},
		{"nil chunks", func() error { return h.AppendChunks("X", nil) }},
		{"chunks empty name", func() error { return h.AppendChunks("", []template.Chunk{template.Literal("x")}) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.True(t, errors.IsInvalidArgument(err))
		})
	}

	assert.Equal(t, []string{"A"}, h.Names())
}

func TestTemplatesChunks(t *testing.T) {
	t.Parallel()

	h := NewTemplates()
	require.NoError(t, h.AppendChunks("Authorization", []template.Chunk{template.Literal("Bearer "), template.Expression("token")}))
	assert.Equal(t, []string{"Bearer {token}"}, h.Values().Values("authorization"))
	assert.Equal(t, []string{"token"}, h.Variables())

	require.NoError(t, h.AppendChunks("Authorization", []template.Chunk{}))
	assert.Equal(t, 0, h.Len())
}

func TestTemplatesSetAll(t *testing.T) {
	t.Parallel()

	h := NewTemplates()
	require.NoError(t, h.SetOrAppend("A", []string{"1"}))

	m := NewMap()
	m.Set("A", "2")
	m.Set("B", "3")
	require.NoError(t, h.SetAll(m))
	assert.Equal(t, []string{"1", "2"}, h.Values().Values("A"))
	assert.Equal(t, []string{"3"}, h.Values().Values("B"))

	bad := NewMap()
	bad.Set("C", "4")
	bad.Set("Bad Name", "5")
	require.Error(t, h.SetAll(bad))
	assert.False(t, h.Values().Has("C"), "failed SetAll must not partially apply")

	require.NoError(t, h.SetAll(nil))
	assert.Equal(t, 0, h.Len())
}

func TestTemplatesClone(t *testing.T) {
	t.Parallel()

	h := NewTemplates()
	require.NoError(t, h.SetOrAppend("A", []string{"1"}))

	clone := h.Clone()
	require.NoError(t, clone.SetOrAppend("A", []string{"2"}))
	require.NoError(t, clone.SetOrAppend("B", []string{"3"}))
	require.NoError(t, clone.Remove("A"))

	assert.Equal(t, []string{"A"}, h.Names())
	assert.Equal(t, []string{"1"}, h.Values().Values("A"))
	assert.Equal(t, []string{"B"}, clone.Names())
}

func TestTemplatesResolve(t *testing.T) {
	t.Parallel()

	src := NewTemplates()
	require.NoError(t, src.SetOrAppend("Accept", []string{"application/json"}))
	require.NoError(t, src.SetOrAppend("Authorization", []string{"Bearer {token}"}))
	require.NoError(t, src.SetOrAppend("X-Tags", []string{"{first}", "{second}"}))
	require.NoError(t, src.SetOrAppend("X-Missing", []string{"{missing}"}))

	dst := src.Clone()
	src.Resolve(map[string]any{"token": "abc", "first": "a", "second": []string{"b", "c"}}, dst)

	values := dst.Values()
	assert.Equal(t, []string{"Accept", "Authorization", "X-Tags"}, values.Names())
	assert.Equal(t, []string{"application/json"}, values.Values("Accept"))
	assert.Equal(t, []string{"Bearer abc"}, values.Values("Authorization"))
	assert.Equal(t, []string{"a, b,c"}, values.Values("X-Tags"))
	assert.False(t, values.Has("X-Missing"))

	// resolved values are literals and are never expanded again
	assert.Empty(t, dst.Variables())

	// the source is untouched
	assert.Equal(t, []string{"Bearer {token}"}, src.Values().Values("Authorization"))
}

func TestTemplatesResolveEmptySourceKeepsDestination(t *testing.T) {
	t.Parallel()

	src := NewTemplates()
	dst := NewTemplates()
	require.NoError(t, dst.SetOrAppend("Keep", []string{"me"}))

	src.Resolve(nil, dst)
	assert.Equal(t, []string{"Keep"}, dst.Names())
}

// Re-resolving a header built from literal chunks drops everything up to the first
// space of its value; single-token values survive intact.
func TestTemplatesResolveChunkValuesLoseFirstToken(t *testing.T) {
	t.Parallel()

	src := NewTemplates()
	require.NoError(t, src.AppendChunks("X-Note", []template.Chunk{template.Literal("hello world")}))
	require.NoError(t, src.AppendChunks("Accept", []template.Chunk{template.Literal("application/json")}))

	dst := NewTemplates()
	src.Resolve(nil, dst)

	assert.Equal(t, []string{"world"}, dst.Values().Values("X-Note"))
	assert.Equal(t, []string{"application/json"}, dst.Values().Values("Accept"))
}

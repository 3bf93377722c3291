package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestParseChunks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want []Chunk
	}{
		{"literal only", "/users", []Chunk{Literal("/users")}},
		{"single expression", "{id}", []Chunk{Expression("id")}},
		{"mixed", "/users/{id}/posts", []Chunk{Literal("/users/"), Expression("id"), Literal("/posts")}},
		{"adjacent expressions", "{a}{b}", []Chunk{Expression("a"), Expression("b")}},
		{"json braces stay literal", `{"name":"{name}"}`, []Chunk{Literal(`{"name":"`), Expression("name"), Literal(`"}`)}},
		{"unterminated brace", "/a/{id", []Chunk{Literal("/a/{id")}},
		{"empty braces", "/a/{}", []Chunk{Literal("/a/{}")}},
		{"dotted name", "{user.id}", []Chunk{Expression("user.id")}},
		{"empty", "", []Chunk{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tmpl := Parse(tt.raw, Options{})
			assert.Equal(t, tt.want, tmpl.Chunks())
			assert.Equal(t, tt.raw, tmpl.String())
		})
	}
}

func TestFromChunks(t *testing.T) {
	t.Parallel()

	tmpl := FromChunks([]Chunk{Literal("Bearer "), Expression("token")}, Options{})
	assert.Equal(t, "Bearer {token}", tmpl.String())
	assert.Equal(t, []string{"token"}, tmpl.Variables())
	assert.Equal(t, "Bearer abc", tmpl.Expand(map[string]any{"token": "abc"}))
}

func TestTemplateVariables(t *testing.T) {
	t.Parallel()

	tmpl := Parse("/{a}/{b}/{a}", Options{})
	assert.Equal(t, []string{"a", "b"}, tmpl.Variables())
	assert.False(t, tmpl.IsLiteral())
	assert.True(t, Parse("/plain", Options{}).IsLiteral())
}

func TestTemplateExpand(t *testing.T) {
	t.Parallel()

	path := Options{Encoding: EncodePath}

	tests := []struct {
		name string
		raw  string
		opts Options
		vars map[string]any
		want string
	}{
		{"simple", "/users/{id}", path, map[string]any{"id": "42"}, "/users/42"},
		{"integer", "/users/{id}", path, map[string]any{"id": 42}, "/users/42"},
		{"undefined removed", "/users/{id}", path, map[string]any{}, "/users/"},
		{"nil removed", "/users/{id}", path, map[string]any{"id": nil}, "/users/"},
		{"space encoded", "/q/{term}", path, map[string]any{"term": "a b"}, "/q/a%20b"},
		{"slash literal", "/files/{path}", path, map[string]any{"path": "a/b"}, "/files/a/b"},
		{"slash encoded", "/files/{path}", Options{Encoding: EncodePath, EncodeSlash: true}, map[string]any{"path": "a/b"}, "/files/a%2Fb"},
		{"already encoded kept", "/q/{term}", path, map[string]any{"term": "a%20b"}, "/q/a%20b"},
		{"slice joined", "/ids/{ids}", path, map[string]any{"ids": []int{1, 2, 3}}, "/ids/1,2,3"},
		{"literal space encoded", "/a b/{x}", path, map[string]any{"x": "y"}, "/a%20b/y"},
		{"no encoding", "{v}", Options{}, map[string]any{"v": "a b/c"}, "a b/c"},
		{"keep unresolved", "hello {who}", Options{KeepUnresolved: true}, map[string]any{}, "hello {who}"},
		{"reserved value encoded", "/{v}", path, map[string]any{"v": "a&b=c"}, "/a%26b%3Dc"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Parse(tt.raw, tt.opts).Expand(tt.vars))
		})
	}
}

func TestTemplateExpandCharset(t *testing.T) {
	t.Parallel()

	utf8 := Parse("/{v}", Options{Encoding: EncodePath})
	latin1 := Parse("/{v}", Options{Encoding: EncodePath, Charset: charmap.ISO8859_1})

	vars := map[string]any{"v": "é"}
	assert.Equal(t, "/%C3%A9", utf8.Expand(vars))
	assert.Equal(t, "/%E9", latin1.Expand(vars))
}

func TestTemplateExpandValues(t *testing.T) {
	t.Parallel()

	q := Options{Encoding: EncodeQuery}

	values, ok := Parse("{tags}", q).ExpandValues(map[string]any{"tags": []string{"a", "b c"}})
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b%20c"}, values)

	values, ok = Parse("{tags}", q).ExpandValues(map[string]any{"tags": []string{}})
	require.True(t, ok)
	assert.Empty(t, values)

	_, ok = Parse("{tags}", q).ExpandValues(map[string]any{})
	assert.False(t, ok)

	_, ok = Parse("x-{a}-{b}", q).ExpandValues(map[string]any{"a": "1"})
	assert.False(t, ok)

	values, ok = Parse("literal", q).ExpandValues(nil)
	require.True(t, ok)
	assert.Equal(t, []string{"literal"}, values)
}

func TestEncodeValueIdempotent(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"a b", "x/y?z", "100%", "ü", "a%2Fb"} {
		once := EncodeValue(s, nil, true)
		assert.Equal(t, once, EncodeValue(once, nil, true), s)
	}
	assert.Equal(t, "100%25", EncodeValue("100%", nil, true))
	assert.True(t, IsEncoded("/a%20b?c=d"))
	assert.False(t, IsEncoded("/a b"))
}

func TestURITemplate(t *testing.T) {
	t.Parallel()

	tmpl := NewURITemplate("/repos/{owner}", false, nil)
	tmpl = AppendURI(tmpl, "/{repo}")
	assert.Equal(t, "/repos/{owner}/{repo}", tmpl.String())
	assert.Equal(t, "/repos/me/a/b", tmpl.Expand(map[string]any{"owner": "me", "repo": "a/b"}))

	encoding := NewURITemplate("/repos/{repo}", true, nil)
	assert.Equal(t, "/repos/a%2Fb", encoding.Expand(map[string]any{"repo": "a/b"}))
}

func TestCollectionFormatJoin(t *testing.T) {
	t.Parallel()

	values := []string{"a", "b"}
	tests := []struct {
		format CollectionFormat
		want   string
	}{
		{Exploded, "tag=a&tag=b"},
		{CSV, "tag=a,b"},
		{SSV, "tag=a%20b"},
		{TSV, "tag=a%09b"},
		{Pipes, "tag=a|b"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.format.String(), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.format.Join("tag", values))
		})
	}

	assert.Equal(t, "tag", CSV.Join("tag", nil))
}

func TestParseCollectionFormat(t *testing.T) {
	t.Parallel()

	for _, f := range []CollectionFormat{Exploded, CSV, SSV, TSV, Pipes} {
		parsed, err := ParseCollectionFormat(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, parsed)
	}

	parsed, err := ParseCollectionFormat("")
	require.NoError(t, err)
	assert.Equal(t, Exploded, parsed)

	_, err = ParseCollectionFormat("semicolons")
	assert.Error(t, err)
}

func TestQueryTemplate(t *testing.T) {
	t.Parallel()

	t.Run("exploded string form", func(t *testing.T) {
		q := NewQueryTemplate("tag", []string{"a", "b"}, Exploded, Options{})
		assert.Equal(t, "tag=a&tag=b", q.String())
		assert.Equal(t, []string{"a", "b"}, q.Values())
	})

	t.Run("csv string form", func(t *testing.T) {
		q := NewQueryTemplate("tag", []string{"a", "b"}, CSV, Options{})
		assert.Equal(t, "tag=a,b", q.String())
	})

	t.Run("append keeps prior values", func(t *testing.T) {
		q := NewQueryTemplate("tag", []string{"a"}, Exploded, Options{})
		q2 := q.Append([]string{"b"}, Exploded)
		assert.Equal(t, []string{"a"}, q.Values())
		assert.Equal(t, []string{"a", "b"}, q2.Values())
	})

	t.Run("bare parameter", func(t *testing.T) {
		q := NewBareQueryTemplate("flag", Exploded, Options{})
		assert.Equal(t, "flag", q.String())
		assert.Empty(t, q.Values())
		assert.Equal(t, "flag", q.Expand(nil))
	})

	t.Run("expand exploded slice", func(t *testing.T) {
		q := NewQueryTemplate("tag", []string{"{tags}"}, Exploded, Options{})
		assert.Equal(t, "tag=a&tag=b", q.Expand(map[string]any{"tags": []string{"a", "b"}}))
	})

	t.Run("expand csv slice", func(t *testing.T) {
		q := NewQueryTemplate("tag", []string{"{tags}"}, CSV, Options{})
		assert.Equal(t, "tag=a,b", q.Expand(map[string]any{"tags": []string{"a", "b"}}))
	})

	t.Run("undefined removes parameter", func(t *testing.T) {
		q := NewQueryTemplate("id", []string{"{id}"}, Exploded, Options{})
		assert.Equal(t, "", q.Expand(map[string]any{}))
	})

	t.Run("empty string keeps name", func(t *testing.T) {
		q := NewQueryTemplate("id", []string{"{id}"}, Exploded, Options{})
		assert.Equal(t, "id=", q.Expand(map[string]any{"id": ""}))
	})

	t.Run("empty collection renders name", func(t *testing.T) {
		q := NewQueryTemplate("id", []string{"{id}"}, Exploded, Options{})
		assert.Equal(t, "id", q.Expand(map[string]any{"id": []string{}}))
	})

	t.Run("values encoded", func(t *testing.T) {
		q := NewQueryTemplate("q", []string{"{q}"}, Exploded, Options{})
		assert.Equal(t, "q=a%26b", q.Expand(map[string]any{"q": "a&b"}))
	})

	t.Run("slash policy baked in", func(t *testing.T) {
		q := NewQueryTemplate("p", []string{"{p}"}, Exploded, Options{EncodeSlash: true})
		assert.Equal(t, "p=a%2Fb", q.Expand(map[string]any{"p": "a/b"}))
		assert.Equal(t, "p=a/b", q.WithOptions(Options{}).Expand(map[string]any{"p": "a/b"}))
	})

	t.Run("name expression", func(t *testing.T) {
		q := NewQueryTemplate("{key}", []string{"v"}, Exploded, Options{})
		assert.Equal(t, []string{"key"}, q.Variables())
		assert.Equal(t, "k=v", q.Expand(map[string]any{"key": "k"}))
	})
}

func TestHeaderTemplate(t *testing.T) {
	t.Parallel()

	t.Run("prefixed expansion", func(t *testing.T) {
		h := NewHeaderTemplate("Accept", []string{"application/json", "{alt}"})
		assert.Equal(t, "Accept application/json, text/plain", h.Expand(map[string]any{"alt": "text/plain"}))
		assert.Equal(t, "Accept application/json", h.Expand(nil))
		assert.Equal(t, []string{"alt"}, h.Variables())
		assert.Equal(t, "Accept: application/json, {alt}", h.String())
	})

	t.Run("all undefined leaves prefix only", func(t *testing.T) {
		h := NewHeaderTemplate("X-Token", []string{"{token}"})
		assert.Equal(t, "X-Token ", h.Expand(nil))
	})

	t.Run("values are not encoded", func(t *testing.T) {
		h := NewHeaderTemplate("Authorization", []string{"Bearer {token}"})
		assert.Equal(t, "Authorization Bearer a/b c", h.Expand(map[string]any{"token": "a/b c"}))
	})

	t.Run("chunks render without prefix", func(t *testing.T) {
		h := HeaderFromChunks("X-Note", []Chunk{Literal("hello world")})
		assert.Equal(t, "hello world", h.Expand(nil))
		assert.Equal(t, []string{"hello world"}, h.Values())
	})

	t.Run("append is copy on write", func(t *testing.T) {
		h := NewHeaderTemplate("Accept", []string{"a"})
		h2 := h.Append([]string{"b"})
		assert.Equal(t, []string{"a"}, h.Values())
		assert.Equal(t, []string{"a", "b"}, h2.Values())

		h3 := h2.AppendChunks([]Chunk{Literal("c")})
		assert.Equal(t, []string{"a", "b", "c"}, h3.Values())
	})
}

func TestBodyTemplate(t *testing.T) {
	t.Parallel()

	t.Run("json literal braces", func(t *testing.T) {
		b := NewBodyTemplate(`{"name":"{name}"}`, nil)
		assert.Equal(t, `{"name":"joe"}`, b.Expand(map[string]any{"name": "joe"}))
	})

	t.Run("escaped json", func(t *testing.T) {
		b := NewBodyTemplate(`%7B"name":"{name}"%7D`, nil)
		assert.Equal(t, `{"name":"joe"}`, b.Expand(map[string]any{"name": "joe"}))
	})

	t.Run("unresolved kept", func(t *testing.T) {
		b := NewBodyTemplate("user={user}&pass={pass}", nil)
		assert.Equal(t, "user=joe&pass={pass}", b.Expand(map[string]any{"user": "joe"}))
		assert.Equal(t, []string{"user", "pass"}, b.Variables())
	})
}

type stringerID int

func (s stringerID) String() string { return "id-" + string(rune('0'+int(s))) }

func TestLookupValueKinds(t *testing.T) {
	t.Parallel()

	n := 7
	var nilPtr *int

	tests := []struct {
		name  string
		value any
		want  []string
		ok    bool
	}{
		{"string", "x", []string{"x"}, true},
		{"int", 5, []string{"5"}, true},
		{"bool", true, []string{"true"}, true},
		{"pointer", &n, []string{"7"}, true},
		{"nil pointer", nilPtr, nil, false},
		{"stringer", stringerID(3), []string{"id-3"}, true},
		{"any slice", []any{"a", 1, nil}, []string{"a", "1"}, true},
		{"array", [2]string{"a", "b"}, []string{"a", "b"}, true},
		{"bytes", []byte("raw"), []string{"raw"}, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := lookup(map[string]any{"v": tt.value}, "v")
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

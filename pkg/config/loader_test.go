package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	tmplerrors "github.com/WhileEndless/go-reqtemplate/pkg/errors"
	"github.com/WhileEndless/go-reqtemplate/pkg/logging"
	"github.com/WhileEndless/go-reqtemplate/pkg/request"
	"github.com/WhileEndless/go-reqtemplate/pkg/template"
)

const usersYAML = `
target: https://api.example.com/
collectionFormat: exploded
headers:
  - "Accept: application/json"
requests:
  getUser:
    requestLine: "GET /users/{id}?active={active}"
    headers: ["X-Trace: {trace}"]
  search:
    requestLine: GET /search
    collectionFormat: csv
    queries:
      tag: ["{tags}"]
      limit: ["10"]
  createUser:
    requestLine: POST /users HTTP/1.1
    headers: ["Content-Type: application/json"]
    cookies:
      sid: "{session}"
      lang: en
    body: '%7B"name": "{name}"%7D'
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFromFileYAML(t *testing.T) {
	path := writeFile(t, "api.yaml", usersYAML)

	var logs bytes.Buffer
	loader := NewLoader(logging.New(logging.Config{Level: logging.LevelDebug, Output: &logs}))
	def, err := loader.LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"createUser", "getUser", "search"}, def.Names())
	assert.Contains(t, logs.String(), "definition loaded")

	tmpl, err := def.Template("getUser")
	require.NoError(t, err)
	assert.Equal(t, request.MethodGet, tmpl.Method())
	assert.Equal(t, []string{"id", "active", "trace"}, tmpl.RequestVariables())

	req, err := tmpl.Resolve(map[string]any{"id": 42, "active": true, "trace": "t-1"}).Request()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/users/42?active=true", req.URL)
	assert.Equal(t, "application/json", req.Headers.Get("Accept"))
	assert.Equal(t, "t-1", req.Headers.Get("X-Trace"))
}

func TestDefinitionRequestDefaults(t *testing.T) {
	def, err := NewLoader(nil).ParseYAML([]byte(usersYAML))
	require.NoError(t, err)

	search, err := def.Template("search")
	require.NoError(t, err)
	assert.Equal(t, template.CSV, search.CollectionFormat())
	req, err := search.Resolve(map[string]any{"tags": []string{"a", "b"}}).Request()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/search?limit=10&tag=a,b", req.URL)

	create, err := def.Template("createUser")
	require.NoError(t, err)
	req, err = create.Resolve(map[string]any{"name": "Ada", "session": "s1"}).Request()
	require.NoError(t, err)
	assert.Equal(t, request.MethodPost, req.Method)
	assert.Equal(t, "lang=en; sid=s1", req.Headers.Get("Cookie"))
	assert.Equal(t, `{"name": "Ada"}`, string(req.Body))
	assert.Equal(t, "15", req.Headers.Get("Content-Length"))
}

func TestTargetQueryMergesWithRequestLineQuery(t *testing.T) {
	def, err := NewLoader(nil).ParseYAML([]byte(`
target: https://api.example.com/?apikey=k1
requests:
  paged:
    requestLine: GET /items?page={page}
  plain:
    requestLine: GET /items
  override:
    target: https://other.example.com/v2?apikey=k2&trace
    requestLine: GET /items?apikey={key}
`))
	require.NoError(t, err)

	tests := []struct {
		name string
		vars map[string]any
		want string
	}{
		{"paged", map[string]any{"page": 1}, "https://api.example.com/items?apikey=k1&page=1"},
		{"plain", nil, "https://api.example.com/items?apikey=k1"},
		{"override", map[string]any{"key": "k3"}, "https://other.example.com/v2/items?apikey=k2&apikey=k3&trace"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := def.Template(tt.name)
			require.NoError(t, err)

			req, err := tmpl.Resolve(tt.vars).Request()
			require.NoError(t, err)
			assert.Equal(t, tt.want, req.URL)
		})
	}
}

func TestTemplatesAreFresh(t *testing.T) {
	def, err := NewLoader(nil).ParseYAML([]byte(usersYAML))
	require.NoError(t, err)

	first, err := def.Template("getUser")
	require.NoError(t, err)
	require.NoError(t, first.Query("extra", "1"))

	second, err := def.Template("getUser")
	require.NoError(t, err)
	assert.NotContains(t, second.URL(), "extra")
}

func TestUnknownRequest(t *testing.T) {
	def, err := NewLoader(nil).ParseYAML([]byte(usersYAML))
	require.NoError(t, err)

	_, err = def.Template("missing")
	assert.ErrorIs(t, err, ErrUnknownRequest)
}

func TestLoadFromFileJSON(t *testing.T) {
	path := writeFile(t, "api.json", `{
		"charset": "ISO-8859-1",
		"decodeSlash": false,
		"requests": {
			"file": {"requestLine": "PUT /files/{path}", "body": "{content}"}
		}
	}`)

	def, err := LoadFromFile(path)
	require.NoError(t, err)

	tmpl, err := def.Template("file")
	require.NoError(t, err)
	assert.False(t, tmpl.DecodeSlash())
	assert.Equal(t, charmap.ISO8859_1, tmpl.Charset())

	req, err := tmpl.Resolve(map[string]any{"path": "a/b", "content": "é"}).Request()
	require.NoError(t, err)
	assert.Equal(t, "/files/a%2Fb", req.URL)
	assert.Equal(t, []byte{0xe9}, req.Body)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    error
	}{
		{"invalid json", "bad.json", `{ invalid json }`, ErrInvalidJSON},
		{"invalid yaml", "bad.yaml", "requests: [unclosed", ErrInvalidYAML},
		{"empty", "empty.yml", "  \n", ErrEmptyFile},
		{"no requests", "none.yaml", "target: https://x.example\n", tmplerrors.ErrConfig},
		{"bad request line", "line.yaml", "requests:\n  a:\n    requestLine: /only-uri\n", tmplerrors.ErrConfig},
		{"bad method", "method.yaml", "requests:\n  a:\n    requestLine: get /x\n", tmplerrors.ErrConfig},
		{"relative target", "target.yaml", "target: /x\nrequests:\n  a:\n    requestLine: GET /x\n", tmplerrors.ErrInvalidArgument},
		{"bad format", "format.yaml", "collectionFormat: commas\nrequests:\n  a:\n    requestLine: GET /x\n", tmplerrors.ErrInvalidArgument},
		{"bad charset", "charset.yaml", "charset: klingon\nrequests:\n  a:\n    requestLine: GET /x\n", tmplerrors.ErrConfig},
		{"bad header", "header.yaml", "requests:\n  a:\n    requestLine: GET /x\n    headers: [\"no colon\"]\n", tmplerrors.ErrMalformedInput},
		{"bad cookie", "cookie.yaml", "requests:\n  a:\n    requestLine: GET /x\n    cookies: {\"a b\": x}\n", tmplerrors.ErrInvalidArgument},
		{"absolute uri", "abs.yaml", "requests:\n  a:\n    requestLine: GET https://x.example/y\n", tmplerrors.ErrConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := LoadFromFile(writeFile(t, tt.file, tt.content))
			require.Error(t, err)
			assert.Nil(t, def)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadFileNotFound(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestParseRequestLine(t *testing.T) {
	m, uri, err := ParseRequestLine("  DELETE   /users/{id}  HTTP/1.1 ")
	require.NoError(t, err)
	assert.Equal(t, request.MethodDelete, m)
	assert.Equal(t, "/users/{id}", uri)

	for _, bad := range []string{"", "GET", "GET /a b", "FETCH /a"} {
		_, _, err := ParseRequestLine(bad)
		assert.ErrorIs(t, err, tmplerrors.ErrConfig, bad)
	}
}

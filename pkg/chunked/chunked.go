// Package chunked implements the HTTP/1.1 chunked transfer coding for request bodies.
package chunked

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/WhileEndless/go-reqtemplate/pkg/errors"
	"github.com/WhileEndless/go-reqtemplate/pkg/headers"
)

// DefaultSize is the chunk size used when none is given
const DefaultSize = 8192

// Encode frames body as chunks of at most size bytes, followed by the last chunk
// and any trailers.
func Encode(body []byte, size int, trailers *headers.Map) []byte {
	if size <= 0 {
		size = DefaultSize
	}

	var buf bytes.Buffer
	for pos := 0; pos < len(body); pos += size {
		end := pos + size
		if end > len(body) {
			end = len(body)
		}
		buf.WriteString(strconv.FormatInt(int64(end-pos), 16))
		buf.WriteString("\r\n")
		buf.Write(body[pos:end])
		buf.WriteString("\r\n")
	}

	buf.WriteString("0\r\n")
	if trailers != nil {
		buf.Write(trailers.Build())
	}
	buf.WriteString("\r\n")
	return buf.Bytes()
}

// Decode reverses Encode. Chunk extensions are ignored; both CRLF and LF line endings
// are accepted.
func Decode(data []byte) (body []byte, trailers *headers.Map, err error) {
	trailers = headers.NewMap()
	var out bytes.Buffer

	pos := 0
	for {
		line, next, ok := readLine(data, pos)
		if !ok {
			return nil, nil, errors.NewError(errors.ErrorTypeMalformedInput, "missing last chunk", "chunked", nil)
		}
		pos = next

		sizeField, _, _ := strings.Cut(line, ";")
		size, perr := strconv.ParseInt(strings.TrimSpace(sizeField), 16, 64)
		if perr != nil || size < 0 {
			return nil, nil, errors.NewError(errors.ErrorTypeMalformedInput, "invalid chunk size", line, perr)
		}
		if size == 0 {
			break
		}

		if int64(len(data)-pos) < size {
			return nil, nil, errors.NewError(errors.ErrorTypeMalformedInput, "truncated chunk", line, nil)
		}
		out.Write(data[pos : pos+int(size)])
		pos += int(size)

		switch {
		case bytes.HasPrefix(data[pos:], []byte("\r\n")):
			pos += 2
		case bytes.HasPrefix(data[pos:], []byte("\n")):
			pos++
		default:
			return nil, nil, errors.NewError(errors.ErrorTypeMalformedInput, "chunk not terminated", line, nil)
		}
	}

	for {
		line, next, ok := readLine(data, pos)
		if !ok || line == "" {
			break
		}
		pos = next
		name, value, herr := headers.ParseHeaderLine(line)
		if herr != nil {
			return nil, nil, herr
		}
		trailers.Add(name, value)
	}

	return out.Bytes(), trailers, nil
}

func readLine(data []byte, pos int) (line string, next int, ok bool) {
	if pos > len(data) {
		return "", pos, false
	}
	idx := bytes.IndexByte(data[pos:], '\n')
	if idx < 0 {
		return "", pos, false
	}
	line = strings.TrimSuffix(string(data[pos:pos+idx]), "\r")
	return line, pos + idx + 1, true
}

// Package compression applies HTTP content codings to request bodies.
package compression

import (
	"bytes"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/WhileEndless/go-reqtemplate/pkg/errors"
)

// Coding is a supported Content-Encoding
type Coding int

const (
	None Coding = iota
	Gzip
	Deflate
	Brotli
	Zstd
)

// Parse maps a Content-Encoding value to a coding.
// Unknown values and "identity" map to None; ok reports whether the value was recognised.
func Parse(contentEncoding string) (c Coding, ok bool) {
	switch strings.ToLower(strings.TrimSpace(contentEncoding)) {
	case "gzip", "x-gzip":
		return Gzip, true
	case "deflate", "x-deflate":
		return Deflate, true
	case "br", "brotli":
		return Brotli, true
	case "zstd", "zstandard":
		return Zstd, true
	case "identity", "", "none":
		return None, true
	default:
		return None, false
	}
}

// String returns the Content-Encoding token ("" for None)
func (c Coding) String() string {
	switch c {
	case Gzip:
		return "gzip"
	case Deflate:
		return "deflate"
	case Brotli:
		return "br"
	case Zstd:
		return "zstd"
	default:
		return ""
	}
}

// Supported returns the Content-Encoding tokens accepted by Parse
func Supported() []string {
	return []string{"gzip", "deflate", "br", "zstd", "identity"}
}

// Detect guesses the coding of data from its magic bytes
func Detect(data []byte) Coding {
	switch {
	case len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b:
		return Gzip
	case len(data) >= 4 && bytes.Equal(data[:4], []byte{0x28, 0xb5, 0x2f, 0xfd}):
		return Zstd
	case len(data) >= 2 && data[0] == 0x78 && (data[1] == 0x01 || data[1] == 0x5e || data[1] == 0x9c || data[1] == 0xda):
		return Deflate
	default:
		return None
	}
}

// Compress encodes data with c. Empty input is returned unchanged.
func Compress(data []byte, c Coding) ([]byte, error) {
	if len(data) == 0 || c == None {
		return data, nil
	}

	var buf bytes.Buffer
	w, err := newWriter(&buf, c)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, errors.NewError(errors.ErrorTypeCompressionError, "compress failed", c.String(), err)
	}
	if err := w.Close(); err != nil {
		return nil, errors.NewError(errors.ErrorTypeCompressionError, "compress failed", c.String(), err)
	}
	return buf.Bytes(), nil
}

func newWriter(w io.Writer, c Coding) (io.WriteCloser, error) {
	switch c {
	case Gzip:
		return gzip.NewWriter(w), nil
	case Deflate:
		fw, err := flate.NewWriter(w, flate.DefaultCompression)
		if err != nil {
			return nil, errors.NewError(errors.ErrorTypeCompressionError, "deflate writer", "", err)
		}
		return fw, nil
	case Brotli:
		return brotli.NewWriter(w), nil
	case Zstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, errors.NewError(errors.ErrorTypeCompressionError, "zstd writer", "", err)
		}
		return zw, nil
	default:
		return nil, errors.NewError(errors.ErrorTypeCompressionError, "unsupported coding", "", nil)
	}
}

// Decompress decodes data previously encoded with c
func Decompress(data []byte, c Coding) ([]byte, error) {
	if len(data) == 0 || c == None {
		return data, nil
	}

	var r io.Reader
	switch c {
	case Gzip:
		gr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, errors.NewError(errors.ErrorTypeCompressionError, "invalid gzip data", "", err)
		}
		defer gr.Close()
		r = gr
	case Deflate:
		fr := flate.NewReader(bytes.NewReader(data))
		defer fr.Close()
		r = fr
	case Brotli:
		r = brotli.NewReader(bytes.NewReader(data))
	case Zstd:
		zr, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, errors.NewError(errors.ErrorTypeCompressionError, "invalid zstd data", "", err)
		}
		defer zr.Close()
		r = zr
	default:
		return nil, errors.NewError(errors.ErrorTypeCompressionError, "unsupported coding", "", nil)
	}

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.NewError(errors.ErrorTypeCompressionError, "decompress failed", c.String(), err)
	}
	return out, nil
}

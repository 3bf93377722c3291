package reqtemplate

import (
	"bytes"
	"strconv"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"

	"github.com/WhileEndless/go-reqtemplate/pkg/template"
)

const contentLength = "Content-Length"

// SetBody sets a literal body encoded in charset (nil when unknown). Content-Length is
// kept in step and any body template is dropped.
func (t *Template) SetBody(data []byte, charset encoding.Encoding) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.mutable(); err != nil {
		return err
	}
	t.setBodyLocked(data, charset)
	return nil
}

// SetBodyString sets a UTF-8 literal body
func (t *Template) SetBodyString(body string) error {
	return t.SetBody([]byte(body), unicode.UTF8)
}

func (t *Template) setBodyLocked(data []byte, charset encoding.Encoding) {
	t.body = nil
	if len(data) > 0 {
		t.body = bytes.Clone(data)
	}
	t.bodyCharset = charset
	t.bodyTemplate = nil

	// the name is valid, so neither call can fail
	_ = t.headers.SetOrAppend(contentLength, nil)
	if len(data) > 0 {
		_ = t.headers.SetOrAppend(contentLength, []string{strconv.Itoa(len(data))})
	}
}

// Body returns a copy of the literal body
func (t *Template) Body() []byte {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return bytes.Clone(t.body)
}

// RequestCharset returns the charset of the literal body, nil when unknown
func (t *Template) RequestCharset() encoding.Encoding {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.bodyCharset
}

// SetBodyTemplate sets a body template expanded on Resolve. Undefined variables are
// left in place. A body written as %7B...%7D has its outer braces restored.
func (t *Template) SetBodyTemplate(raw string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.mutable(); err != nil {
		return err
	}
	t.bodyTemplate = template.NewBodyTemplate(raw, t.charset)
	return nil
}

// SetBodyTemplateCharset is SetBodyTemplate with an explicit charset, which also
// becomes the template charset.
func (t *Template) SetBodyTemplateCharset(raw string, charset encoding.Encoding) error {
	if charset == nil {
		charset = unicode.UTF8
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.mutable(); err != nil {
		return err
	}
	t.charset = charset
	t.bodyTemplate = template.NewBodyTemplate(raw, charset)
	return nil
}

// BodyTemplate returns the unexpanded body template, "" when unset
func (t *Template) BodyTemplate() string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.bodyTemplate == nil {
		return ""
	}
	return t.bodyTemplate.String()
}

// encodeBody converts expanded text to bytes in cs. Characters cs cannot represent are
// replaced.
func encodeBody(s string, cs encoding.Encoding) []byte {
	if cs == nil || cs == unicode.UTF8 {
		return []byte(s)
	}
	out, err := encoding.ReplaceUnsupported(cs.NewEncoder()).Bytes([]byte(s))
	if err != nil {
		return []byte(s)
	}
	return out
}

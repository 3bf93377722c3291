package reqtemplate

import (
	"strings"

	"github.com/WhileEndless/go-reqtemplate/pkg/cookies"
)

const cookieHeader = "Cookie"

func (t *Template) cookiesLocked() []cookies.Cookie {
	h, ok := t.headers.Get(cookieHeader)
	if !ok {
		return []cookies.Cookie{}
	}
	return cookies.Parse(strings.Join(h.Values(), "; "))
}

// Cookie sets one pair of the Cookie header. The value may hold template expressions;
// an existing cookie of the same name is replaced in place.
func (t *Template) Cookie(name, value string) error {
	if err := cookies.Validate(name, value); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.mutable(); err != nil {
		return err
	}
	jar := cookies.Set(t.cookiesLocked(), name, value)
	return t.headers.Replace(cookieHeader, []string{cookies.Build(jar)})
}

// RemoveCookie drops the named cookie. The Cookie header goes away with its last pair.
func (t *Template) RemoveCookie(name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.mutable(); err != nil {
		return err
	}
	jar := cookies.Remove(t.cookiesLocked(), name)
	if len(jar) == 0 {
		return t.headers.Replace(cookieHeader, nil)
	}
	return t.headers.Replace(cookieHeader, []string{cookies.Build(jar)})
}

// Cookies returns the cookie pairs of the Cookie header, unexpanded until resolved
func (t *Template) Cookies() []cookies.Cookie {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.cookiesLocked()
}

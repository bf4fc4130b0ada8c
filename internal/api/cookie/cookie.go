// Package cookie carries the session token in an HTTP cookie.
package cookie

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Options is the fixed attribute policy applied to every session cookie.
type Options struct {
	Secure   bool
	SameSite http.SameSite
	Path     string
	Domain   string
	MaxAge   time.Duration
}

// Manager sets, reads and clears the session cookie.
type Manager struct {
	opts Options
}

func NewManager(opts Options) *Manager {
	if opts.Path == "" {
		opts.Path = "/"
	}
	if opts.SameSite == 0 {
		opts.SameSite = http.SameSiteStrictMode
	}
	return &Manager{opts: opts}
}

// Set attaches token as an HttpOnly cookie whose max-age follows the token TTL.
func (m *Manager) Set(c echo.Context, name, token string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    token,
		Path:     m.opts.Path,
		Domain:   m.opts.Domain,
		MaxAge:   int(m.opts.MaxAge / time.Second),
		Expires:  time.Now().Add(m.opts.MaxAge),
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: m.opts.SameSite,
	})
}

// Get returns the raw cookie value. A missing or empty cookie is a valid
// "no session" state, not an error.
func (m *Manager) Get(c echo.Context, name string) (string, bool) {
	ck, err := c.Cookie(name)
	if err != nil || ck.Value == "" {
		return "", false
	}
	return ck.Value, true
}

// Clear overwrites the cookie with an empty, already expired value. Safe to
// call when no cookie was sent.
func (m *Manager) Clear(c echo.Context, name string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     m.opts.Path,
		Domain:   m.opts.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: m.opts.SameSite,
	})
}

package cookie

import (
	"encoding/json"
	"errors"
	"net/http"
)

const (
	// MinSecretLen is the shortest secret WithSecret accepts.
	MinSecretLen = 32

	defaultFlashMaxAge = 300
	flashPrefix        = "flash_"
)

// Manager applies one set of attributes to every cookie it writes.
type Manager struct {
	keys        *keyring
	secure      bool
	sameSite    http.SameSite
	flashMaxAge int
}

// Option configures a Manager.
type Option func(*Manager)

// New returns a Manager writing HttpOnly, SameSite=Lax cookies on path "/".
func New(opts ...Option) *Manager {
	m := &Manager{sameSite: http.SameSiteLaxMode, flashMaxAge: defaultFlashMaxAge}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WithSecret enables signed cookies and flashes. Secrets shorter than
// MinSecretLen are ignored.
func WithSecret(secret string) Option {
	return func(m *Manager) {
		if len(secret) >= MinSecretLen {
			m.keys = newKeyring([]byte(secret))
		}
	}
}

// WithSecure marks cookies Secure.
func WithSecure(secure bool) Option {
	return func(m *Manager) { m.secure = secure }
}

// WithSameSite overrides the SameSite attribute.
func WithSameSite(ss http.SameSite) Option {
	return func(m *Manager) { m.sameSite = ss }
}

// WithFlashMaxAge sets the flash lifetime in seconds. Zero makes flashes
// session cookies.
func WithFlashMaxAge(seconds int) Option {
	return func(m *Manager) {
		if seconds >= 0 {
			m.flashMaxAge = seconds
		}
	}
}

// CanSign reports whether a usable secret is configured.
func (m *Manager) CanSign() bool { return m.keys != nil }

// Get returns the raw value of the named cookie.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if errors.Is(err, http.ErrNoCookie) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return c.Value, nil
}

// Set writes a cookie. maxAge follows http.Cookie: 0 is a session cookie.
func (m *Manager) Set(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   m.secure,
		HttpOnly: true,
		SameSite: m.sameSite,
	})
}

// Delete expires the named cookie.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	m.Set(w, name, "", -1)
}

// GetSigned returns the value of a cookie written by SetSigned.
func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	if m.keys == nil {
		return "", ErrNoSecret
	}
	raw, err := m.Get(r, name)
	if err != nil {
		return "", err
	}
	return m.keys.verify(raw)
}

// SetSigned writes value with an HMAC-SHA256 signature.
func (m *Manager) SetSigned(w http.ResponseWriter, name, value string, maxAge int) error {
	if m.keys == nil {
		return ErrNoSecret
	}
	m.Set(w, name, m.keys.sign(value), maxAge)
	return nil
}

// SetFlash stores value as JSON in a sealed cookie for the next request.
func (m *Manager) SetFlash(w http.ResponseWriter, key string, value any) error {
	if m.keys == nil {
		return ErrNoSecret
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	sealed, err := m.keys.seal(data)
	if err != nil {
		return err
	}
	m.Set(w, flashPrefix+key, sealed, m.flashMaxAge)
	return nil
}

// Flash decodes the flash stored under key into dest and clears it. The
// cookie is cleared even when it cannot be opened.
func (m *Manager) Flash(w http.ResponseWriter, r *http.Request, key string, dest any) error {
	if m.keys == nil {
		return ErrNoSecret
	}
	name := flashPrefix + key
	raw, err := m.Get(r, name)
	if err != nil {
		return err
	}
	m.Delete(w, name)

	data, err := m.keys.open(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return errors.Join(ErrDecrypt, err)
	}
	return nil
}

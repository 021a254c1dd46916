package session

import (
	"fmt"

	"github.com/gin-contrib/sessions"
)

// CookieStorage keeps the session inside the signed gin session cookie.
// Every write saves the cookie on the current response once.
type CookieStorage struct {
	session sessions.Session
}

// NewCookieStorage wraps a gin-contrib session.
func NewCookieStorage(session sessions.Session) *CookieStorage {
	return &CookieStorage{session: session}
}

func (c *CookieStorage) Get(key string) (string, bool, error) {
	val := c.session.Get(key)
	if val == nil {
		return "", false, nil
	}
	str, ok := val.(string)
	if !ok {
		return "", false, fmt.Errorf("session value %q has unexpected type %T", key, val)
	}
	return str, true, nil
}

func (c *CookieStorage) SetAll(values map[string]string) error {
	for key, value := range values {
		c.session.Set(key, value)
	}
	return c.session.Save()
}

func (c *CookieStorage) Delete(keys ...string) error {
	for _, key := range keys {
		c.session.Delete(key)
	}
	return c.session.Save()
}

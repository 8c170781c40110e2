package portal

import (
	"encoding/json"
	"os"
	"time"

	"golang.org/x/oauth2"
)

// SessionCache persists a portal login's session token to disk between
// runs, so a freshly started pipeline does not need to re-submit
// credentials through the login form when a still-valid session exists.
// golang.org/x/oauth2.Token is reused here purely as a stable
// (value, expiry) envelope, not for an actual OAuth2 flow.
type SessionCache struct {
	path string
}

// NewSessionCache returns a cache backed by the file at path.
func NewSessionCache(path string) *SessionCache {
	return &SessionCache{path: path}
}

// Load returns the cached token, or nil if none exists or it has
// expired.
func (c *SessionCache) Load() (*oauth2.Token, error) {
	raw, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(raw, &tok); err != nil {
		return nil, err
	}
	if !tok.Valid() {
		return nil, nil
	}
	return &tok, nil
}

// Save persists a token with the given time-to-live.
func (c *SessionCache) Save(value string, ttl time.Duration) error {
	tok := &oauth2.Token{AccessToken: value, Expiry: time.Now().Add(ttl)}
	raw, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, raw, 0o600)
}

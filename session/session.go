package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"
)

// DefaultCookieName is the cookie carrying the admin session.
const DefaultCookieName = "admin-session"

var (
	// ErrMissingUser is returned when a credential has no user marker.
	ErrMissingUser = errors.New("session user is required")

	// ErrMissingExpiry is returned when a credential has no expiry.
	ErrMissingExpiry = errors.New("session expiry is required")

	// ErrSessionExpired is returned when a credential's expiry has passed.
	ErrSessionExpired = errors.New("session expired")
)

// Credential is the admin session carried in the cookie.
// User is opaque; any JSON value other than null, false, 0 or "" counts as present.
type Credential struct {
	User    json.RawMessage `json:"user"`
	Expires time.Time       `json:"expires"`
}

// Issue creates a credential for user that expires after duration.
func Issue(user string, duration time.Duration, now time.Time) (*Credential, error) {
	raw, err := json.Marshal(user)
	if err != nil {
		return nil, err
	}
	return &Credential{
		User:    raw,
		Expires: now.Add(duration).UTC(),
	}, nil
}

// UserString returns the user marker as a string. Non-string markers are
// returned in their JSON form.
func (c *Credential) UserString() string {
	var s string
	if err := json.Unmarshal(c.User, &s); err == nil {
		return s
	}
	return string(c.User)
}

// Validate checks the credential at the given instant. A credential whose
// expiry equals now is still valid.
func (c *Credential) Validate(now time.Time) error {
	if !hasUser(c.User) {
		return ErrMissingUser
	}
	if c.Expires.IsZero() {
		return ErrMissingExpiry
	}
	if now.After(c.Expires) {
		return ErrSessionExpired
	}
	return nil
}

func hasUser(raw json.RawMessage) bool {
	v := bytes.TrimSpace(raw)
	if len(v) == 0 {
		return false
	}
	switch string(v) {
	case "null", "false", `""`, "0":
		return false
	}
	var f float64
	if err := json.Unmarshal(v, &f); err == nil {
		return f != 0
	}
	return true
}

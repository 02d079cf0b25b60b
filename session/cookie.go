package session

import (
	"net/http"
	"strings"
	"time"
)

// ParseCookieHeader extracts and validates the named session from a raw
// Cookie header. It fails closed: any decoding problem, missing field or
// past expiry yields (nil, false).
func ParseCookieHeader(header, name string, codec Codec, now time.Time) (*Credential, bool) {
	value, ok := cookieValue(header, name)
	if !ok {
		return nil, false
	}
	cred, err := codec.Decode(value)
	if err != nil {
		return nil, false
	}
	if err := cred.Validate(now); err != nil {
		return nil, false
	}
	return cred, true
}

// FromRequest is ParseCookieHeader applied to every Cookie header of r.
func FromRequest(r *http.Request, name string, codec Codec, now time.Time) (*Credential, bool) {
	for _, header := range r.Header.Values("Cookie") {
		if cred, ok := ParseCookieHeader(header, name, codec, now); ok {
			return cred, true
		}
	}
	return nil, false
}

func cookieValue(header, name string) (string, bool) {
	if header == "" {
		return "", false
	}
	prefix := name + "="
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, prefix) {
			return strings.Trim(part[len(prefix):], `"`), true
		}
	}
	return "", false
}

// CookieOptions controls the attributes of issued session cookies.
type CookieOptions struct {
	Name   string
	Secure bool
}

// NewCookie builds the cookie carrying an encoded credential.
func NewCookie(opts CookieOptions, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     opts.Name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie builds a cookie that removes the session.
func ClearCookie(opts CookieOptions) *http.Cookie {
	return &http.Cookie{
		Name:     opts.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

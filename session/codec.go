package session

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
)

// ErrMalformedCookie is returned when a cookie value cannot be decoded.
var ErrMalformedCookie = errors.New("malformed session cookie")

// Codec converts credentials to and from cookie values.
type Codec interface {
	Encode(cred *Credential) (string, error)
	Decode(value string) (*Credential, error)
}

// wireCredential keeps expires as text so both ISO timestamps with and
// without fractional seconds are accepted.
type wireCredential struct {
	User    json.RawMessage `json:"user"`
	Expires string          `json:"expires"`
}

func toWire(cred *Credential) wireCredential {
	return wireCredential{
		User:    cred.User,
		Expires: cred.Expires.UTC().Format(time.RFC3339Nano),
	}
}

// expiresLayouts are tried in order. Date-only values mean midnight UTC.
var expiresLayouts = []string{
	time.RFC3339Nano,
	time.DateOnly,
}

func fromWire(w wireCredential) (*Credential, error) {
	cred := &Credential{User: w.User}
	if w.Expires == "" {
		return cred, nil
	}
	var err error
	for _, layout := range expiresLayouts {
		var expires time.Time
		if expires, err = time.Parse(layout, w.Expires); err == nil {
			cred.Expires = expires
			return cred, nil
		}
	}
	return nil, fmt.Errorf("%w: invalid expires: %v", ErrMalformedCookie, err)
}

// PlainCodec stores the credential as base64-encoded JSON. It carries no
// integrity protection.
type PlainCodec struct{}

// Encode returns the base64 JSON form of cred.
func (PlainCodec) Encode(cred *Credential) (string, error) {
	data, err := json.Marshal(toWire(cred))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Decode accepts URL-escaped values and tolerates missing base64 padding.
func (PlainCodec) Decode(value string) (*Credential, error) {
	unescaped, err := url.PathUnescape(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCookie, err)
	}
	raw := strings.TrimRight(strings.TrimSpace(unescaped), "=")

	data, err := base64.RawStdEncoding.DecodeString(raw)
	if err != nil {
		data, err = base64.RawURLEncoding.DecodeString(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedCookie, err)
		}
	}

	var w wireCredential
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCookie, err)
	}
	return fromWire(w)
}

// SignedCodec authenticates the credential with an HMAC through securecookie.
type SignedCodec struct {
	name string
	sc   *securecookie.SecureCookie
}

// NewSignedCodec creates a codec for the named cookie. hashKey should be at
// least 32 bytes.
func NewSignedCodec(name string, hashKey []byte) *SignedCodec {
	sc := securecookie.New(hashKey, nil)
	sc.SetSerializer(securecookie.JSONEncoder{})
	return &SignedCodec{name: name, sc: sc}
}

// Encode signs and encodes cred.
func (c *SignedCodec) Encode(cred *Credential) (string, error) {
	return c.sc.Encode(c.name, toWire(cred))
}

// Decode verifies and decodes value.
func (c *SignedCodec) Decode(value string) (*Credential, error) {
	var w wireCredential
	if err := c.sc.Decode(c.name, value, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCookie, err)
	}
	return fromWire(w)
}

// NewCodec returns a SignedCodec when secret is set and a PlainCodec otherwise.
func NewCodec(cookieName, secret string) Codec {
	if secret == "" {
		return PlainCodec{}
	}
	return NewSignedCodec(cookieName, []byte(secret))
}

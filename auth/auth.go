// Package auth provides authentication handlers for the asset service.
package auth

import (
	"errors"
	"net/http"
)

// Authenticator defines the interface for authentication handlers.
type Authenticator interface {
	// Transport wraps an http.RoundTripper with authentication.
	Transport(base http.RoundTripper) http.RoundTripper

	// Name returns the authentication scheme name.
	Name() string
}

// Credentials holds authentication credentials.
type Credentials struct {
	// Username is the user name for authentication.
	Username string

	// Password is the password for authentication.
	Password string

	// Domain is the optional NTLM login domain.
	Domain string
}

// Anonymous reports whether no credentials were given at all.
func (c *Credentials) Anonymous() bool {
	return c.Username == "" && c.Password == ""
}

// Validate checks that required credential fields are populated.
func (c *Credentials) Validate() error {
	if c.Username == "" {
		return errors.New("username is required")
	}
	if c.Password == "" {
		return errors.New("password is required")
	}
	return nil
}

// New returns NTLM for complete credentials and Anonymous when both username
// and password are empty.
func New(creds Credentials) (Authenticator, error) {
	if creds.Anonymous() {
		return AnonymousAuth{}, nil
	}
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	return NewNTLMAuth(creds), nil
}

// AnonymousAuth sends requests without credentials (sandbox instances).
type AnonymousAuth struct{}

// Name returns the authentication scheme name.
func (AnonymousAuth) Name() string {
	return "Anonymous"
}

// Transport returns base unchanged.
func (AnonymousAuth) Transport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		return http.DefaultTransport
	}
	return base
}

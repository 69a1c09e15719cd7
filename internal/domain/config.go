package domain

import "time"

// AuthConfig is the credential verification configuration injected into the
// credential service at construction. The secret is never read from the
// process environment inside request handling.
type AuthConfig struct {
	Secret      string
	Issuer      string
	TokenExpiry time.Duration
}

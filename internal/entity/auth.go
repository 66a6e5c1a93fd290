package entity

import "time"

// AuthToken is an access token issued by the identity provider through the
// client-credentials grant. The outbound auth provider is its only writer.
type AuthToken struct {
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	ExtExpiresIn int    `json:"ext_expires_in"`
	AccessToken  string `json:"access_token"`

	// IssuedAt and ExpiresAt are computed by the provider when the token
	// is received; they are not part of the wire format.
	IssuedAt  time.Time `json:"-"`
	ExpiresAt time.Time `json:"-"`
}

// Expired reports whether the token is past its validity window at t.
func (t *AuthToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

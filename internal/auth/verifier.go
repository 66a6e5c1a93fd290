package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Signature algorithms the channel is known to sign with. Tokens signed
// with anything else (including "none") are rejected.
var allowedSigningMethods = []string{"RS256", "RS384", "RS512", "PS256", "ES256", "ES384", "ES512"}

// Verifier checks inbound bearer tokens against the process-wide key set.
type Verifier struct {
	keySet   *KeySet
	issuer   string
	audience string
}

// NewVerifier builds a Verifier over an already-fetched key set. The
// audience is the bot's client id; the issuer is the channel's token
// authority.
func NewVerifier(keySet *KeySet, issuer, audience string) *Verifier {
	return &Verifier{
		keySet:   keySet,
		issuer:   issuer,
		audience: audience,
	}
}

// Verify reports whether the raw bearer token (without the "Bearer "
// prefix) is signed by a key from the key set and carries valid standard
// claims. A malformed, unsigned or expired token yields false, never an
// error: the caller treats every failure here as unauthorized.
func (v *Verifier) Verify(ctx context.Context, token string) bool {
	parsed, err := jwt.Parse(token, v.keySet.kf.Keyfunc,
		jwt.WithValidMethods(allowedSigningMethods),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		ctxzap.Debug(ctx, "token verification failed", zap.Error(err))
		return false
	}

	return parsed.Valid
}

package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "https://api.example.com"
	testAudience = "bot-client-id"
	testKeyID    = "test-key-1"
)

func newTestKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

// jwksJSON renders the public half of key as a JWKS document, the same
// shape the channel publishes at its well-known URL.
func jwksJSON(t *testing.T, key *rsa.PrivateKey, kid string) json.RawMessage {
	t.Helper()

	n := base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes())
	e := base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.PublicKey.E)).Bytes())

	doc := fmt.Sprintf(`{"keys":[{"kty":"RSA","use":"sig","alg":"RS256","kid":"%s","n":"%s","e":"%s"}]}`, kid, n, e)
	return json.RawMessage(doc)
}

func signedToken(t *testing.T, key *rsa.PrivateKey, kid string, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid

	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func validClaims() jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"iss": testIssuer,
		"aud": testAudience,
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	}
}

func newTestVerifier(t *testing.T, key *rsa.PrivateKey) *Verifier {
	t.Helper()

	keySet, err := NewKeySetFromJSON(jwksJSON(t, key, testKeyID))
	require.NoError(t, err)

	return NewVerifier(keySet, testIssuer, testAudience)
}

func TestVerifyAcceptsValidToken(t *testing.T) {
	key := newTestKey(t)
	verifier := newTestVerifier(t, key)

	token := signedToken(t, key, testKeyID, validClaims())

	require.True(t, verifier.Verify(context.Background(), token))
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	key := newTestKey(t)
	verifier := newTestVerifier(t, key)

	claims := validClaims()
	claims["exp"] = time.Now().Add(-time.Hour).Unix()
	token := signedToken(t, key, testKeyID, claims)

	require.False(t, verifier.Verify(context.Background(), token))
}

func TestVerifyRejectsWrongAudience(t *testing.T) {
	key := newTestKey(t)
	verifier := newTestVerifier(t, key)

	claims := validClaims()
	claims["aud"] = "someone-else"
	token := signedToken(t, key, testKeyID, claims)

	require.False(t, verifier.Verify(context.Background(), token))
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	key := newTestKey(t)
	verifier := newTestVerifier(t, key)

	claims := validClaims()
	claims["iss"] = "https://evil.example.com"
	token := signedToken(t, key, testKeyID, claims)

	require.False(t, verifier.Verify(context.Background(), token))
}

func TestVerifyRejectsTokenSignedWithUnknownKey(t *testing.T) {
	key := newTestKey(t)
	verifier := newTestVerifier(t, key)

	otherKey := newTestKey(t)
	token := signedToken(t, otherKey, "other-key", validClaims())

	require.False(t, verifier.Verify(context.Background(), token))
}

func TestVerifyRejectsTokenWithoutExpiry(t *testing.T) {
	key := newTestKey(t)
	verifier := newTestVerifier(t, key)

	claims := validClaims()
	delete(claims, "exp")
	token := signedToken(t, key, testKeyID, claims)

	require.False(t, verifier.Verify(context.Background(), token))
}

func TestVerifyRejectsGarbage(t *testing.T) {
	key := newTestKey(t)
	verifier := newTestVerifier(t, key)

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		require.False(t, verifier.Verify(context.Background(), token), "token %q", token)
	}
}

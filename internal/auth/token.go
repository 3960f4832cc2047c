// Package auth holds the token issuer and the TOTP service. Both are small
// wrappers over library primitives; the login protocol itself lives in the
// handler layer.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/korzhan/resource-tracker/internal/model"
)

// Issuer signs session tokens. Tokens are stateless: a token's role claims
// are a snapshot at issuance time and there is no revocation list, so
// invalidation is purely client-side discard.
type Issuer struct {
	Secret   string        // HS256 signing key; empty is a startup error
	Issuer   string        // "iss" claim
	Audience string        // "aud" claim
	TTL      time.Duration // fixed lifetime; no sliding or refresh
}

// Token is a signed JWT plus its expiry, returned to clients so they know
// when to expect the session to end.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Issue builds and signs a token for the account with one roles entry per
// current role membership. Claims: sub, email, name, roles, jti, iat, exp,
// iss, aud. Deterministic for identical inputs except jti and timestamps.
func (i Issuer) Issue(acc model.Account, roles []string) (Token, error) {
	now := time.Now().UTC()
	exp := now.Add(i.TTL)
	claims := jwt.MapClaims{
		"sub":   acc.ID,
		"email": acc.Email,
		"name":  acc.DisplayName(),
		"roles": roles,
		"jti":   uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
		"iss":   i.Issuer,
		"aud":   i.Audience,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(i.Secret))
	if err != nil {
		return Token{}, err
	}
	return Token{Value: signed, ExpiresAt: exp}, nil
}

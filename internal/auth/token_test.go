package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/korzhan/resource-tracker/internal/model"
)

func testIssuer() Issuer {
	return Issuer{
		Secret:   "test-secret",
		Issuer:   "resource-tracker",
		Audience: "resource-tracker-api",
		TTL:      15 * time.Minute,
	}
}

func parseClaims(t *testing.T, signed, secret string) jwt.MapClaims {
	t.Helper()
	tok, err := jwt.Parse(signed, func(tok *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, tok.Valid)
	claims, ok := tok.Claims.(jwt.MapClaims)
	require.True(t, ok)
	return claims
}

func TestIssueClaims(t *testing.T) {
	iss := testIssuer()
	acc := model.Account{ID: 42, Email: "kim@example.com", FirstName: "Kim", LastName: "Osei"}

	tok, err := iss.Issue(acc, []string{model.RoleUser, model.RoleManager})
	require.NoError(t, err)
	require.NotEmpty(t, tok.Value)

	claims := parseClaims(t, tok.Value, iss.Secret)
	assert.EqualValues(t, 42, claims["sub"])
	assert.Equal(t, "kim@example.com", claims["email"])
	assert.Equal(t, "Kim Osei", claims["name"])
	assert.Equal(t, "resource-tracker", claims["iss"])
	assert.Equal(t, "resource-tracker-api", claims["aud"])
	assert.NotEmpty(t, claims["jti"])

	roles, ok := claims["roles"].([]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{"USER", "MANAGER"}, roles)

	exp, ok := claims["exp"].(float64)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(iss.TTL), time.Unix(int64(exp), 0), 5*time.Second)
	assert.WithinDuration(t, tok.ExpiresAt, time.Unix(int64(exp), 0), time.Second)
}

func TestIssueUniqueJTI(t *testing.T) {
	iss := testIssuer()
	acc := model.Account{ID: 7, Email: "a@example.com"}

	a, err := iss.Issue(acc, []string{model.RoleUser})
	require.NoError(t, err)
	b, err := iss.Issue(acc, []string{model.RoleUser})
	require.NoError(t, err)

	ca := parseClaims(t, a.Value, iss.Secret)
	cb := parseClaims(t, b.Value, iss.Secret)
	assert.NotEqual(t, ca["jti"], cb["jti"])
}

func TestIssueWrongSecretRejected(t *testing.T) {
	iss := testIssuer()
	tok, err := iss.Issue(model.Account{ID: 1, Email: "a@example.com"}, nil)
	require.NoError(t, err)

	_, err = jwt.Parse(tok.Value, func(tok *jwt.Token) (interface{}, error) {
		return []byte("another-secret"), nil
	})
	assert.Error(t, err)
}

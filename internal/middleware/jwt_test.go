package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func validClaims() jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"sub":   float64(42),
		"email": "kim@example.com",
		"roles": []string{"USER", "MANAGER"},
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}
}

// doJWT runs a request through JWTAuth into a probe handler that records
// what the middleware stored in context.
func doJWT(t *testing.T, authorization string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := JWTAuth(testSecret)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, c
}

func TestJWTAuthValidToken(t *testing.T) {
	token := signToken(t, testSecret, validClaims())
	rec, c := doJWT(t, "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(42), c.Get(CtxUserID))
	assert.Equal(t, "kim@example.com", c.Get(CtxEmail))
	assert.Equal(t, []string{"USER", "MANAGER"}, c.Get(CtxRoles))
}

func TestJWTAuthMissingHeader(t *testing.T) {
	rec, _ := doJWT(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthWrongSecret(t *testing.T) {
	token := signToken(t, "some-other-secret", validClaims())
	rec, _ := doJWT(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthExpiredToken(t *testing.T) {
	claims := validClaims()
	claims["exp"] = time.Now().Add(-time.Minute).Unix()
	token := signToken(t, testSecret, claims)
	rec, _ := doJWT(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsNonHMAC(t *testing.T) {
	// alg=none tokens must never pass the key callback's method check.
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, validClaims())
	signed, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	rec, _ := doJWT(t, "Bearer "+signed)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func runWithRoles(t *testing.T, roles interface{}, required ...string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if roles != nil {
		c.Set(CtxRoles, roles)
	}

	h := RequireRole(required...)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec
}

func TestRequireRole(t *testing.T) {
	assert.Equal(t, http.StatusOK,
		runWithRoles(t, []string{"ADMIN"}, "ADMIN").Code)
	assert.Equal(t, http.StatusOK,
		runWithRoles(t, []string{"USER", "MANAGER"}, "MANAGER", "ADMIN").Code,
		"any intersection suffices")
	assert.Equal(t, http.StatusForbidden,
		runWithRoles(t, []string{"USER"}, "ADMIN").Code)
	assert.Equal(t, http.StatusForbidden,
		runWithRoles(t, nil, "ADMIN").Code,
		"missing roles claim is forbidden, not an internal error")
}

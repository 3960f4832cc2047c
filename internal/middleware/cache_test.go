package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/korzhan/resource-tracker/internal/config"
)

func TestEncodeDecodePayload(t *testing.T) {
	header := http.Header{}
	header.Set("Content-Type", "application/json")
	header.Set("X-Total", "3")
	body := []byte(`{"items":[1,2,3]}`)

	bs, err := encodePayload(http.StatusOK, header, body)
	require.NoError(t, err)

	status, gotHeader, gotBody, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHeader.Get("Content-Type"))
	assert.Equal(t, "3", gotHeader.Get("X-Total"))
	assert.Equal(t, body, gotBody)
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	for _, bs := range [][]byte{nil, []byte("short"), []byte("\x00\x00\x00\xc8\xff\xff\xff\xff")} {
		_, _, _, ok := decodePayload(bs)
		assert.False(t, ok)
	}
}

func TestCacheKeyStrategies(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache"}
	e := echo.New()

	ctxFor := func(method, path, query string) echo.Context {
		req := httptest.NewRequest(method, path+"?"+query, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath(path)
		return c
	}

	// The default strategy keys on route and query, so different queries
	// produce different keys and the method is irrelevant.
	a := cacheKey(cfg, ctxFor(http.MethodGet, "/v1/analytics/billing-summary", "limit=6"))
	b := cacheKey(cfg, ctxFor(http.MethodGet, "/v1/analytics/billing-summary", "limit=12"))
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, cacheKey(cfg, ctxFor(http.MethodHead, "/v1/analytics/billing-summary", "limit=6")))

	cfg.KeyStrategy = "route"
	assert.Equal(t,
		cacheKey(cfg, ctxFor(http.MethodGet, "/v1/analytics/headcount", "x=1")),
		cacheKey(cfg, ctxFor(http.MethodGet, "/v1/analytics/headcount", "x=2")))

	cfg.KeyStrategy = "method_route"
	assert.NotEqual(t,
		cacheKey(cfg, ctxFor(http.MethodGet, "/v1/analytics/headcount", "")),
		cacheKey(cfg, ctxFor(http.MethodHead, "/v1/analytics/headcount", "")))
}

func TestCacheDisabledIsPassthrough(t *testing.T) {
	mw := NewRedisCache(config.CacheConfig{Enabled: false}, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	assert.True(t, called)
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

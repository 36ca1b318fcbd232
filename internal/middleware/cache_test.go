package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/project-manager/internal/config"
)

func TestCachePayloadRoundTrip(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	body := []byte(`{"id":1}`)

	payload, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, body, gotBody)
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	for _, bad := range [][]byte{nil, {1, 2, 3}, []byte("not a payload")} {
		_, _, _, ok := decodePayload(bad)
		assert.False(t, ok)
	}
}

func newCacheContext(userID interface{}, target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/project")
	if userID != nil {
		c.Set(CtxUserID, userID)
	}
	return c
}

func TestCacheKeyIsPerPrincipal(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache"}

	a := cacheKey(cfg, newCacheContext(uint64(1), "/project"))
	b := cacheKey(cfg, newCacheContext(uint64(2), "/project"))
	anon := cacheKey(cfg, newCacheContext(nil, "/project"))

	// The same route must never share an entry between users.
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, anon)

	// Same principal and route: stable key.
	assert.Equal(t, a, cacheKey(cfg, newCacheContext(uint64(1), "/project")))
}

func TestCacheKeyVariesByQuery(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache"}
	plain := cacheKey(cfg, newCacheContext(uint64(1), "/project"))
	filtered := cacheKey(cfg, newCacheContext(uint64(1), "/project?status=active"))
	assert.NotEqual(t, plain, filtered)
}

func TestDisabledCacheAndLimiterPassThrough(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.String(http.StatusOK, "live") }

	h := NewRedisCache(config.CacheConfig{Enabled: true}, nil)(next)
	require.NoError(t, h(c))
	assert.Equal(t, "live", rec.Body.String())

	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	h = NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil)(next)
	require.NoError(t, h(c))
	assert.Equal(t, "live", rec.Body.String())
}

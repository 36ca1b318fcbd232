package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newLimiterContext(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.9")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/task/my-tasks")
	return c
}

func TestBuildRateKeyEmbedsPrincipal(t *testing.T) {
	c := newLimiterContext("/task/my-tasks")
	assert.Equal(t,
		"ratelimit:ip:10.0.0.9:user:anon:route:GET /task/my-tasks",
		buildRateKey("ratelimit", c))

	c.Set(CtxUserID, uint64(7))
	assert.Equal(t,
		"ratelimit:ip:10.0.0.9:user:7:route:GET /task/my-tasks",
		buildRateKey("ratelimit", c))
}

// Two authenticated users behind one NAT must not drain each other's
// bucket; the key has to differ once the principal is known.
func TestBuildRateKeyIsPerUser(t *testing.T) {
	a := newLimiterContext("/task/my-tasks")
	a.Set(CtxUserID, uint64(1))
	b := newLimiterContext("/task/my-tasks")
	b.Set(CtxUserID, uint64(2))

	assert.NotEqual(t, buildRateKey("ratelimit", a), buildRateKey("ratelimit", b))
}

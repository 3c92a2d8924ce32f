package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rateLimitedCall(limiter *RateLimiter, ip string) error {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set(echo.HeaderXRealIP, ip)
	c := e.NewContext(req, httptest.NewRecorder())
	next := func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
	return limiter.Middleware()(next)(c)
}

func TestRateLimiterThrottlesPerIP(t *testing.T) {
	limiter := NewRateLimiter(1, 2, time.Minute)

	assert.NoError(t, rateLimitedCall(limiter, "10.0.0.1"))
	assert.NoError(t, rateLimitedCall(limiter, "10.0.0.1"))

	err := rateLimitedCall(limiter, "10.0.0.1")
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok, "burst exhausted, expected 429")
	assert.Equal(t, http.StatusTooManyRequests, httpErr.Code)

	// A different client has its own bucket.
	assert.NoError(t, rateLimitedCall(limiter, "10.0.0.2"))
}

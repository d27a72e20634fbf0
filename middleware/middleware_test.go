package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"rantify/blueprint"
	"rantify/middleware"
	"rantify/util"
)

const secret = "test-secret"

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == blueprint.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestEnsureSession(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.LogIncomingRequest(zap.NewNop()), middleware.EnsureSession(secret, time.Hour))
	app.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.SendString(middleware.SessionID(ctx))
	})

	t.Run("mints a session without a cookie", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))

		cookie := sessionCookie(t, resp)
		require.NotNil(t, cookie)
		assert.True(t, cookie.HttpOnly)
		claims, err := util.ParseSessionJwt(cookie.Value, secret)
		require.NoError(t, err)
		assert.NotEmpty(t, claims.SessionID)
	})

	t.Run("keeps a valid session", func(t *testing.T) {
		token, err := util.SignSessionJwt("sid-42", secret, time.Hour)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: blueprint.SessionCookieName, Value: token})

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Nil(t, sessionCookie(t, resp))
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "sid-42", string(body))
	})

	t.Run("replaces a forged session", func(t *testing.T) {
		token, err := util.SignSessionJwt("sid-42", "other-secret", time.Hour)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: blueprint.SessionCookieName, Value: token})

		resp, err := app.Test(req)
		require.NoError(t, err)
		cookie := sessionCookie(t, resp)
		require.NotNil(t, cookie)
		claims, err := util.ParseSessionJwt(cookie.Value, secret)
		require.NoError(t, err)
		assert.NotEqual(t, "sid-42", claims.SessionID)
	})
}

func TestRequireSession(t *testing.T) {
	app := fiber.New()
	app.Get("/private", middleware.RequireSession(secret), middleware.VerifyToken, func(ctx *fiber.Ctx) error {
		return ctx.SendString(middleware.SessionID(ctx))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/private", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token, err := util.SignSessionJwt("sid-7", secret, time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: blueprint.SessionCookieName, Value: token})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	expired, err := util.SignSessionJwt("sid-7", secret, -time.Minute)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: blueprint.SessionCookieName, Value: expired})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

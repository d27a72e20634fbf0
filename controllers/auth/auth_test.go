package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"rantify/blueprint"
	"rantify/controllers/auth"
	"rantify/services/rant"
)

type fakeSessions struct {
	sessionIDs []string
	callback   blueprint.AuthorizationCallback
	err        error
	loggedOut  []string
}

func (f *fakeSessions) BeginAuthorization(_ context.Context, sid string) (string, error) {
	f.sessionIDs = append(f.sessionIDs, sid)
	return "https://accounts.spotify.com/authorize?state=xyz", nil
}

func (f *fakeSessions) CompleteAuthorization(_ context.Context, sid string, cb blueprint.AuthorizationCallback) (*blueprint.Credential, error) {
	f.sessionIDs = append(f.sessionIDs, sid)
	f.callback = cb
	if f.err != nil {
		return nil, f.err
	}
	return &blueprint.Credential{AccessToken: "a"}, nil
}

func (f *fakeSessions) Logout(_ context.Context, sid string) error {
	f.loggedOut = append(f.loggedOut, sid)
	return nil
}

func newApp(s *fakeSessions, afterLogin string) *fiber.App {
	c := auth.NewAuthController(s, afterLogin)
	app := fiber.New()
	app.Use(func(ctx *fiber.Ctx) error {
		ctx.Locals(blueprint.LocalSessionID, "sid-1")
		return ctx.Next()
	})
	app.Get("/auth/login", c.Login)
	app.Get("/auth/callback", c.Callback)
	app.Post("/auth/logout", c.Logout)
	return app
}

func TestLogin(t *testing.T) {
	s := &fakeSessions{}
	resp, err := newApp(s, "").Test(httptest.NewRequest(http.MethodGet, "/auth/login", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data blueprint.AuthorizationURLResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body.Data.URL, "state=xyz")
	assert.Equal(t, []string{"sid-1"}, s.sessionIDs)
}

func TestCallback(t *testing.T) {
	t.Run("success redirects", func(t *testing.T) {
		s := &fakeSessions{}
		resp, err := newApp(s, "/").Test(httptest.NewRequest(http.MethodGet, "/auth/callback?state=abc&code=c0de", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/", resp.Header.Get("Location"))
		assert.Equal(t, blueprint.AuthorizationCallback{State: "abc", Code: "c0de"}, s.callback)
	})

	for _, failure := range []error{blueprint.ErrInvalidOAuthState, blueprint.ErrAuthorizationDenied} {
		t.Run(failure.Error(), func(t *testing.T) {
			s := &fakeSessions{err: failure}
			resp, err := newApp(s, "/").Test(httptest.NewRequest(http.MethodGet, "/auth/callback?state=abc&error=access_denied", nil))
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, rant.MessageAuthorization, body["error"])
			assert.Equal(t, "access_denied", s.callback.Error)
		})
	}
}

func TestLogout(t *testing.T) {
	s := &fakeSessions{}
	resp, err := newApp(s, "").Test(httptest.NewRequest(http.MethodPost, "/auth/logout", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"sid-1"}, s.loggedOut)
}

package auth

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"rantify/blueprint"
	"rantify/logger"
	"rantify/middleware"
	"rantify/services/rant"
	"rantify/util"
)

// Sessions runs the authorization-code flow for a session.
type Sessions interface {
	BeginAuthorization(ctx context.Context, sessionID string) (string, error)
	CompleteAuthorization(ctx context.Context, sessionID string, cb blueprint.AuthorizationCallback) (*blueprint.Credential, error)
	Logout(ctx context.Context, sessionID string) error
}

type Controller struct {
	Sessions Sessions
	// AfterLogin is where the browser goes once authorization succeeds. Empty
	// means a JSON response instead of a redirect.
	AfterLogin string
}

func NewAuthController(sessions Sessions, afterLogin string) *Controller {
	return &Controller{Sessions: sessions, AfterLogin: afterLogin}
}

func requestLogger(ctx *fiber.Ctx, err error) *zap.Logger {
	return logger.NewZapSentryLogger(&blueprint.RantifyLoggerOptions{
		RequestID: middleware.RequestID(ctx),
		SessionID: middleware.SessionID(ctx),
		Component: "auth",
		Error:     err,
	})
}

// Login returns the Spotify authorization URL the client should open.
func (c *Controller) Login(ctx *fiber.Ctx) error {
	sessionID := middleware.SessionID(ctx)
	if sessionID == "" {
		return util.ErrorResponse(ctx, http.StatusBadRequest, "Session missing")
	}

	authURL, err := c.Sessions.BeginAuthorization(ctx.UserContext(), sessionID)
	if err != nil {
		requestLogger(ctx, err).Error("[controllers][auth][Login] error - could not begin authorization", zap.Error(err))
		return util.ErrorResponse(ctx, http.StatusInternalServerError, rant.MessageAuthorization)
	}
	return util.SuccessResponse(ctx, http.StatusOK, blueprint.AuthorizationURLResponse{URL: authURL})
}

// Callback completes the authorization redirect from Spotify.
func (c *Controller) Callback(ctx *fiber.Ctx) error {
	var cb blueprint.AuthorizationCallback
	if err := ctx.QueryParser(&cb); err != nil {
		return util.ErrorResponse(ctx, http.StatusBadRequest, rant.MessageAuthorization)
	}

	if _, err := c.Sessions.CompleteAuthorization(ctx.UserContext(), middleware.SessionID(ctx), cb); err != nil {
		status, message := rant.Classify(err)
		requestLogger(ctx, err).Warn("[controllers][auth][Callback] warning - authorization failed", zap.Int("status", status), zap.Error(err))
		return util.ErrorResponse(ctx, status, message)
	}

	if c.AfterLogin != "" {
		return ctx.Redirect(c.AfterLogin, http.StatusFound)
	}
	return util.SuccessResponse(ctx, http.StatusOK, "Authorized")
}

// Logout forgets the session's credential and drops the cookie.
func (c *Controller) Logout(ctx *fiber.Ctx) error {
	if err := c.Sessions.Logout(ctx.UserContext(), middleware.SessionID(ctx)); err != nil {
		requestLogger(ctx, err).Error("[controllers][auth][Logout] error - could not clear session", zap.Error(err))
		return util.ErrorResponse(ctx, http.StatusInternalServerError, "Could not log out")
	}
	ctx.ClearCookie(blueprint.SessionCookieName)
	return util.SuccessResponse(ctx, http.StatusOK, "Logged out")
}

package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/teris-io/shortid"
	"go.uber.org/zap"
	"rantify/blueprint"
	"rantify/session"
	"rantify/util"
)

// LogIncomingRequest tags the request with a short id, stored in the
// "requestID" local and echoed in the X-Request-Id header.
func LogIncomingRequest(logger *zap.Logger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		requestID, err := shortid.Generate()
		if err != nil {
			logger.Warn("[middleware][LogIncomingRequest] warning - could not generate request id", zap.Error(err))
			requestID = "not_set"
		}
		ctx.Locals(blueprint.LocalRequestID, requestID)
		ctx.Set("X-Request-Id", requestID)

		logger.Info("[middleware][LogIncomingRequest] incoming request",
			zap.String("request_id", requestID),
			zap.String("ip", ctx.IP()),
			zap.String("method", ctx.Method()),
			zap.String("path", ctx.Path()))
		return ctx.Next()
	}
}

// Deadline bounds the request's user context by d. Handlers pass
// ctx.UserContext() downstream, so every call they make is abandoned once d
// has passed.
func Deadline(d time.Duration) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if d <= 0 {
			return ctx.Next()
		}
		reqCtx, cancel := context.WithTimeout(ctx.UserContext(), d)
		defer cancel()
		ctx.SetUserContext(reqCtx)
		return ctx.Next()
	}
}

// EnsureSession reads the session cookie and mints a new session when the
// cookie is missing, expired or forged. The session id lands in the
// "sessionID" local.
func EnsureSession(secret string, ttl time.Duration) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if raw := ctx.Cookies(blueprint.SessionCookieName); raw != "" {
			if claims, err := util.ParseSessionJwt(raw, secret); err == nil {
				ctx.Locals(blueprint.LocalSessionID, claims.SessionID)
				return ctx.Next()
			}
		}

		sessionID := session.NewSessionID()
		token, err := util.SignSessionJwt(sessionID, secret, ttl)
		if err != nil {
			return util.ErrorResponse(ctx, http.StatusInternalServerError, "Could not start a session")
		}
		ctx.Cookie(&fiber.Cookie{
			Name:     blueprint.SessionCookieName,
			Value:    token,
			Path:     "/",
			Expires:  time.Now().Add(ttl),
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		ctx.Locals(blueprint.LocalSessionID, sessionID)
		return ctx.Next()
	}
}

// RequireSession rejects requests without a valid session cookie. Use it
// together with VerifyToken.
func RequireSession(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:  []byte(secret),
		Claims:      &blueprint.SessionToken{},
		ContextKey:  blueprint.LocalAuthToken,
		TokenLookup: "cookie:" + blueprint.SessionCookieName,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			return util.ErrorResponse(ctx, http.StatusUnauthorized, "Not logged in")
		},
	})
}

// VerifyToken copies the session id from the verified token into the
// "sessionID" local.
func VerifyToken(ctx *fiber.Ctx) error {
	jt, ok := ctx.Locals(blueprint.LocalAuthToken).(*jwt.Token)
	if !ok || jt == nil {
		return util.ErrorResponse(ctx, http.StatusUnauthorized, "Session token is missing")
	}
	claims, ok := jt.Claims.(*blueprint.SessionToken)
	if !ok || claims.SessionID == "" {
		return util.ErrorResponse(ctx, http.StatusUnauthorized, "Session token is invalid")
	}
	ctx.Locals(blueprint.LocalSessionID, claims.SessionID)
	return ctx.Next()
}

// SessionID returns the session id set by EnsureSession or VerifyToken.
func SessionID(ctx *fiber.Ctx) string {
	sid, _ := ctx.Locals(blueprint.LocalSessionID).(string)
	return sid
}

// RequestID returns the id set by LogIncomingRequest.
func RequestID(ctx *fiber.Ctx) string {
	rid, _ := ctx.Locals(blueprint.LocalRequestID).(string)
	return rid
}

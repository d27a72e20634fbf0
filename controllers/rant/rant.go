package rant

import (
	"context"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"rantify/blueprint"
	"rantify/logger"
	"rantify/middleware"
	"rantify/services/rant"
	"rantify/util"
)

// Pipeline is the orchestrator as seen by the HTTP layer.
type Pipeline interface {
	Handle(ctx context.Context, creds rant.CredentialSource, req blueprint.RantRequest) (*blueprint.Rant, error)
	Library(ctx context.Context, creds rant.CredentialSource, opts rant.LibraryOptions) (*blueprint.UserPlaylists, error)
}

type Controller struct {
	Pipeline Pipeline
	// Credentials returns the credential store of a session.
	Credentials func(sessionID string) rant.CredentialSource
	// Logout clears a session whose authorization can no longer be renewed.
	Logout func(ctx context.Context, sessionID string) error
}

func NewRantController(pipeline Pipeline, credentials func(string) rant.CredentialSource, logout func(context.Context, string) error) *Controller {
	return &Controller{Pipeline: pipeline, Credentials: credentials, Logout: logout}
}

type rantBody struct {
	Playlist string `json:"playlist" form:"playlist"`
}

// Rate handles POST /api/v1/rate.
func (c *Controller) Rate(ctx *fiber.Ctx) error {
	return c.handle(ctx, blueprint.RantKindRate)
}

// Roast handles POST /api/v1/roast.
func (c *Controller) Roast(ctx *fiber.Ctx) error {
	return c.handle(ctx, blueprint.RantKindRoast)
}

// Rhyme handles POST /api/v1/rhyme.
func (c *Controller) Rhyme(ctx *fiber.Ctx) error {
	return c.handle(ctx, blueprint.RantKindRhyme)
}

func (c *Controller) handle(ctx *fiber.Ctx, kind blueprint.RantKind) error {
	var body rantBody
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&body); err != nil {
			return util.ErrorResponse(ctx, http.StatusBadRequest, "Could not read the request body")
		}
	}

	sessionID := middleware.SessionID(ctx)
	result, err := c.Pipeline.Handle(ctx.UserContext(), c.Credentials(sessionID), blueprint.RantRequest{
		PlaylistID: body.Playlist,
		Kind:       kind,
	})
	if err != nil {
		return c.fail(ctx, "Handle", err)
	}
	return util.SuccessResponse(ctx, http.StatusOK, result)
}

// Me returns the user and their playlists. only_owned defaults to true;
// include_tracks to false.
func (c *Controller) Me(ctx *fiber.Ctx) error {
	opts := rant.LibraryOptions{
		OnlyOwned:     ctx.QueryBool("only_owned", true),
		IncludeTracks: ctx.QueryBool("include_tracks", false),
	}
	lib, err := c.Pipeline.Library(ctx.UserContext(), c.Credentials(middleware.SessionID(ctx)), opts)
	if err != nil {
		return c.fail(ctx, "Me", err)
	}
	return util.SuccessResponse(ctx, http.StatusOK, lib)
}

func (c *Controller) fail(ctx *fiber.Ctx, fn string, err error) error {
	status, message := rant.Classify(err)
	log := logger.NewZapSentryLogger(&blueprint.RantifyLoggerOptions{
		RequestID: middleware.RequestID(ctx),
		SessionID: middleware.SessionID(ctx),
		Component: "rant",
		Error:     err,
	})
	if status >= http.StatusInternalServerError {
		log.Error("[controllers][rant]["+fn+"] error - request failed", zap.Int("status", status), zap.Error(err))
	} else {
		log.Warn("[controllers][rant]["+fn+"] warning - request rejected", zap.Int("status", status), zap.Error(err))
	}

	if errors.Is(err, blueprint.ErrAuthExpired) && c.Logout != nil {
		if lerr := c.Logout(ctx.UserContext(), middleware.SessionID(ctx)); lerr != nil {
			log.Warn("[controllers][rant]["+fn+"] warning - could not clear expired session", zap.Error(lerr))
		}
	}
	return util.ErrorResponse(ctx, status, message)
}

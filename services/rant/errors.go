package rant

import (
	"context"
	"errors"
	"net/http"

	"rantify/blueprint"
)

const (
	MessageGenerationFailed = "An error occurred while generating the rant"
	MessageAuthorization    = "Could not authorize your Spotify Account, please try again."
	MessageAuthExpired      = "Your Spotify authorization has expired, please log in again."
	MessagePlaylistMissing  = "No playlist was specified."
	MessagePlaylistNotFound = "The playlist could not be found."
	MessageUnknownKind      = "Unknown rant kind."
	MessageUpstreamTimeout  = "Spotify took too long to respond, please try again."
	MessageRequestTimeout   = "The request took too long, please try again."
)

// Classify maps a pipeline error to the status code and message shown to the
// client. Upstream details never leak into the message.
func Classify(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusOK, ""
	case errors.Is(err, blueprint.ErrPlaylistNotSpecified):
		return http.StatusBadRequest, MessagePlaylistMissing
	case errors.Is(err, blueprint.ErrPlaylistNotFound):
		return http.StatusBadRequest, MessagePlaylistNotFound
	case errors.Is(err, blueprint.ErrUnknownRantKind):
		return http.StatusBadRequest, MessageUnknownKind
	case errors.Is(err, blueprint.ErrInvalidOAuthState), errors.Is(err, blueprint.ErrAuthorizationDenied):
		return http.StatusBadRequest, MessageAuthorization
	case errors.Is(err, blueprint.ErrAuthExpired), errors.Is(err, blueprint.ErrSessionMissing):
		return http.StatusUnauthorized, MessageAuthExpired
	case errors.Is(err, blueprint.ErrUpstreamTimeout):
		return http.StatusBadRequest, MessageUpstreamTimeout
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, MessageRequestTimeout
	case errors.Is(err, blueprint.ErrGenerationExhausted):
		return http.StatusInternalServerError, MessageGenerationFailed
	}

	var catalogErr *blueprint.CatalogError
	if errors.As(err, &catalogErr) && catalogErr.Status >= 400 && catalogErr.Status < 600 {
		return catalogErr.Status, http.StatusText(catalogErr.Status)
	}
	return http.StatusInternalServerError, MessageGenerationFailed
}

package blueprint

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthExpired means the session holds no usable credential and the
	// user has to authorize again.
	ErrAuthExpired          = errors.New("authorization expired")
	ErrInvalidOAuthState    = errors.New("invalid oauth state")
	ErrAuthorizationDenied  = errors.New("authorization denied")
	ErrUpstreamTimeout      = errors.New("upstream timeout")
	ErrPlaylistNotSpecified = errors.New("playlist not specified")
	ErrPlaylistNotFound     = errors.New("playlist not found")
	ErrUnknownRantKind      = errors.New("unknown rant kind")
	ErrGenerationExhausted  = errors.New("generation attempts exhausted")
	ErrParseFailed          = errors.New("could not parse generated output")
	ErrSessionMissing       = errors.New("session missing")
)

// CatalogError is a non-success response from the Spotify Web API.
type CatalogError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("spotify: %d %s", e.Status, e.Message)
}

type ControllerError struct {
	Message string      `json:"message"`
	Status  int         `json:"status"`
	Error   interface{} `json:"error,omitempty"`
}

type ControllerResult struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Status  int         `json:"status"`
}

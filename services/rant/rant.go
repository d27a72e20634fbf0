// Package rant drives the pipeline from a playlist id to a generated rant.
package rant

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"rantify/blueprint"
	"rantify/services/assembler"
	"rantify/services/llm"
	"rantify/services/spotify"
)

// playlistFields limits the playlist object to what the assembler reads;
// tracks are listed separately.
const playlistFields = "id,name,description,owner(id),images,public,collaborative"

// CredentialSource yields a credential valid for the duration of a request.
type CredentialSource interface {
	RefreshIfNeeded(ctx context.Context) (*blueprint.Credential, error)
}

// Catalog is the subset of the Spotify client the pipeline reads through.
type Catalog interface {
	GetUserProfile(ctx context.Context) (*spotify.UserProfile, error)
	GetPlaylists(ctx context.Context, ownerID string, onlyOwned bool) ([]spotify.SimplePlaylist, error)
	GetPlaylist(ctx context.Context, id string, options ...spotify.RequestOption) (*spotify.FullPlaylist, error)
	GetPlaylistTracks(ctx context.Context, id string) ([]spotify.PlaylistItem, error)
}

// CatalogFactory builds a catalog client authorized with cred.
type CatalogFactory func(ctx context.Context, cred *blueprint.Credential) Catalog

type Renderer interface {
	Render(playlist *blueprint.Playlist, kind blueprint.RantKind) (string, error)
}

type Generator interface {
	Generate(ctx context.Context, prompt string, shape blueprint.ResultShape) (*llm.Output, error)
}

type Orchestrator struct {
	catalog   CatalogFactory
	renderer  Renderer
	generator Generator
	logger    *zap.Logger
}

func NewOrchestrator(catalog CatalogFactory, renderer Renderer, generator Generator, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		catalog:   catalog,
		renderer:  renderer,
		generator: generator,
		logger:    logger,
	}
}

// Rate reviews the playlist with a 0-10 rating.
func (o *Orchestrator) Rate(ctx context.Context, creds CredentialSource, playlistID string) (*blueprint.Rant, error) {
	return o.Handle(ctx, creds, blueprint.RantRequest{PlaylistID: playlistID, Kind: blueprint.RantKindRate})
}

// Roast makes fun of the playlist.
func (o *Orchestrator) Roast(ctx context.Context, creds CredentialSource, playlistID string) (*blueprint.Rant, error) {
	return o.Handle(ctx, creds, blueprint.RantRequest{PlaylistID: playlistID, Kind: blueprint.RantKindRoast})
}

// Rhyme writes a poem about the playlist.
func (o *Orchestrator) Rhyme(ctx context.Context, creds CredentialSource, playlistID string) (*blueprint.Rant, error) {
	return o.Handle(ctx, creds, blueprint.RantRequest{PlaylistID: playlistID, Kind: blueprint.RantKindRhyme})
}

// Handle validates the request before any I/O, then refreshes the
// credential, fetches and assembles the playlist, renders the prompt and
// generates the result. The first failing step ends the run.
func (o *Orchestrator) Handle(ctx context.Context, creds CredentialSource, req blueprint.RantRequest) (*blueprint.Rant, error) {
	playlistID := strings.TrimSpace(req.PlaylistID)
	if playlistID == "" {
		return nil, blueprint.ErrPlaylistNotSpecified
	}
	kind, err := blueprint.ParseRantKind(string(req.Kind))
	if err != nil {
		return nil, err
	}

	playlist, err := o.FetchPlaylist(ctx, creds, playlistID)
	if err != nil {
		return nil, err
	}

	prompt, err := o.renderer.Render(playlist, kind)
	if err != nil {
		o.logger.Error("[services][rant][Handle] error - could not render prompt", zap.String("playlist", playlistID), zap.Error(err))
		return nil, err
	}

	out, err := o.generator.Generate(ctx, prompt, kind.Shape())
	if err != nil {
		o.logger.Error("[services][rant][Handle] error - could not generate rant", zap.String("playlist", playlistID), zap.String("kind", kind.String()), zap.Error(err))
		return nil, err
	}

	o.logger.Info("[services][rant][Handle] rant generated", zap.String("playlist", playlistID), zap.String("kind", kind.String()), zap.Int("tracks", len(playlist.Tracks)))
	return &blueprint.Rant{Kind: kind, Review: out.Review, Rhyme: out.Rhyme}, nil
}

// FetchPlaylist returns the assembled playlist with all of its tracks.
func (o *Orchestrator) FetchPlaylist(ctx context.Context, creds CredentialSource, playlistID string) (*blueprint.Playlist, error) {
	if playlistID == "" {
		return nil, blueprint.ErrPlaylistNotSpecified
	}

	cred, err := creds.RefreshIfNeeded(ctx)
	if err != nil {
		return nil, err
	}
	catalog := o.catalog(ctx, cred)

	raw, err := catalog.GetPlaylist(ctx, playlistID, spotify.Fields(playlistFields))
	if err != nil {
		return nil, notFound(err)
	}
	if raw == nil || raw.ID == "" {
		return nil, blueprint.ErrPlaylistNotFound
	}

	items, err := catalog.GetPlaylistTracks(ctx, playlistID)
	if err != nil {
		return nil, notFound(err)
	}

	playlist := assembler.ToPlaylist(raw, items)
	if playlist == nil {
		return nil, blueprint.ErrPlaylistNotFound
	}
	return playlist, nil
}

// LibraryOptions selects what Library returns.
type LibraryOptions struct {
	OnlyOwned     bool
	IncludeTracks bool
}

// Library returns the current user and their playlists. With
// IncludeTracks every playlist is fetched in full, one after another.
func (o *Orchestrator) Library(ctx context.Context, creds CredentialSource, opts LibraryOptions) (*blueprint.UserPlaylists, error) {
	cred, err := creds.RefreshIfNeeded(ctx)
	if err != nil {
		return nil, err
	}
	catalog := o.catalog(ctx, cred)

	profile, err := catalog.GetUserProfile(ctx)
	if err != nil {
		return nil, err
	}
	user := assembler.ToUser(profile)

	raw, err := catalog.GetPlaylists(ctx, user.ID, opts.OnlyOwned)
	if err != nil {
		return nil, err
	}

	result := &blueprint.UserPlaylists{User: user, Playlists: make([]blueprint.Playlist, 0, len(raw))}
	for _, p := range raw {
		summary := assembler.ToPlaylistSummary(p)
		if opts.IncludeTracks {
			items, err := catalog.GetPlaylistTracks(ctx, p.ID)
			if err != nil {
				return nil, err
			}
			summary.Tracks = assembler.ToTracks(items)
		}
		result.Playlists = append(result.Playlists, summary)
	}
	return result, nil
}

func notFound(err error) error {
	var catalogErr *blueprint.CatalogError
	if errors.As(err, &catalogErr) && catalogErr.Status == http.StatusNotFound {
		return errors.Join(blueprint.ErrPlaylistNotFound, err)
	}
	return err
}

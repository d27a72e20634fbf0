// Package assembler maps raw Spotify payloads onto the rantify model. Every
// mapper is total: missing optional keys become nil or empty, never errors.
package assembler

import (
	"github.com/samber/lo"
	"rantify/blueprint"
	"rantify/services/spotify"
)

func firstImage(images []spotify.Image) *string {
	if len(images) == 0 || images[0].URL == "" {
		return nil
	}
	return lo.ToPtr(images[0].URL)
}

// ToUser maps the current-user profile. A profile without images gets the
// default avatar.
func ToUser(raw *spotify.UserProfile) blueprint.User {
	if raw == nil {
		return blueprint.User{ImageURL: blueprint.DefaultUserImage}
	}
	return blueprint.User{
		ID:       raw.ID,
		Name:     lo.FromPtr(raw.DisplayName),
		ImageURL: lo.FromPtrOr(firstImage(raw.Images), blueprint.DefaultUserImage),
	}
}

func ToArtist(raw spotify.Artist) blueprint.Artist {
	return blueprint.Artist{
		ID:       raw.ID,
		Name:     raw.Name,
		Genres:   raw.Genres,
		ImageURL: firstImage(raw.Images),
	}
}

func toArtists(raw []spotify.Artist) []blueprint.Artist {
	return lo.Map(raw, func(a spotify.Artist, _ int) blueprint.Artist {
		return ToArtist(a)
	})
}

func ToAlbum(raw *spotify.Album) *blueprint.Album {
	if raw == nil {
		return nil
	}
	return &blueprint.Album{
		ID:                   raw.ID,
		Name:                 raw.Name,
		AlbumType:            raw.AlbumType,
		ReleaseDate:          raw.ReleaseDate,
		ReleaseDatePrecision: raw.ReleaseDatePrecision,
		TotalTracks:          raw.TotalTracks,
		Genres:               raw.Genres,
		Label:                lo.FromPtr(raw.Label),
		Popularity:           raw.Popularity,
		Artists:              toArtists(raw.Artists),
	}
}

// ToTrack returns nil for a nil payload.
func ToTrack(raw *spotify.Track) *blueprint.Track {
	if raw == nil {
		return nil
	}
	return &blueprint.Track{
		ID:         lo.FromPtr(raw.ID),
		Name:       raw.Name,
		Popularity: raw.Popularity,
		Explicit:   raw.Explicit,
		Artists:    toArtists(raw.Artists),
		Album:      ToAlbum(raw.Album),
		DurationMs: raw.DurationMs,
		IsPlayable: raw.IsPlayable,
		IsLocal:    raw.IsLocal,
	}
}

// ToPlaylist builds the playlist from its object and the full item listing.
// Items whose track the catalog could not resolve are skipped; the rest keep
// their catalog order.
func ToPlaylist(raw *spotify.FullPlaylist, items []spotify.PlaylistItem) *blueprint.Playlist {
	if raw == nil {
		return nil
	}

	tracks := ToTracks(items)
	return &blueprint.Playlist{
		ID:            raw.ID,
		Name:          raw.Name,
		OwnerID:       raw.Owner.ID,
		Description:   lo.FromPtr(raw.Description),
		ImageURL:      firstImage(raw.Images),
		Public:        raw.Public,
		Collaborative: raw.Collaborative,
		TotalTracks:   len(tracks),
		Tracks:        tracks,
	}
}

// ToTracks maps playlist items in order, skipping unresolved tracks.
func ToTracks(items []spotify.PlaylistItem) []blueprint.Track {
	tracks := make([]blueprint.Track, 0, len(items))
	for _, item := range items {
		if t := ToTrack(item.Track); t != nil {
			tracks = append(tracks, *t)
		}
	}
	return tracks
}

// ToPlaylistSummary maps a library listing entry. It carries no tracks.
func ToPlaylistSummary(raw spotify.SimplePlaylist) blueprint.Playlist {
	return blueprint.Playlist{
		ID:            raw.ID,
		Name:          raw.Name,
		OwnerID:       raw.Owner.ID,
		Description:   lo.FromPtr(raw.Description),
		ImageURL:      firstImage(raw.Images),
		Public:        raw.Public,
		Collaborative: raw.Collaborative,
		TotalTracks:   raw.Tracks.Total,
	}
}

package spotify

import (
	"context"
	"net/url"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

const maxPageSize = 50

// GetPlaylists returns every playlist in the user's library. An empty
// ownerID means the current user. With onlyOwned, playlists the user
// follows but does not own are dropped.
func (c *Client) GetPlaylists(ctx context.Context, ownerID string, onlyOwned bool) ([]SimplePlaylist, error) {
	if ownerID == "" {
		profile, err := c.GetUserProfile(ctx)
		if err != nil {
			return nil, err
		}
		ownerID = profile.ID
	}

	first := c.url("users/"+url.PathEscape(ownerID)+"/playlists", Limit(maxPageSize))
	playlists, err := collectPages[SimplePlaylist](ctx, c, first)
	if err != nil {
		c.logger.Warn("[services][spotify][GetPlaylists] error - could not fetch playlists", zap.String("owner", ownerID), zap.Error(err))
		return nil, err
	}

	if onlyOwned {
		playlists = lo.Filter(playlists, func(p SimplePlaylist, _ int) bool {
			return p.Owner.ID == ownerID
		})
	}
	return playlists, nil
}

// GetPlaylist fetches the playlist object. Its embedded track page is not
// followed. A null or empty body yields a nil playlist.
func (c *Client) GetPlaylist(ctx context.Context, id string, options ...RequestOption) (*FullPlaylist, error) {
	var playlist *FullPlaylist
	if err := c.get(ctx, c.url("playlists/"+url.PathEscape(id), options...), &playlist); err != nil {
		return nil, err
	}
	return playlist, nil
}

// GetPlaylistTracks returns every item of the playlist, following the next
// links until the last page.
func (c *Client) GetPlaylistTracks(ctx context.Context, id string) ([]PlaylistItem, error) {
	first := c.url("playlists/"+url.PathEscape(id)+"/tracks", Limit(100))
	items, err := collectPages[PlaylistItem](ctx, c, first)
	if err != nil {
		c.logger.Warn("[services][spotify][GetPlaylistTracks] error - could not fetch playlist tracks", zap.String("playlist", id), zap.Error(err))
		return nil, err
	}
	c.logger.Debug("[services][spotify][GetPlaylistTracks] fetched playlist tracks", zap.String("playlist", id), zap.Int("count", len(items)))
	return items, nil
}

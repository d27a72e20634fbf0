package spotify

// Raw Web API payloads. Optional fields are pointers so an absent key stays
// distinguishable from a zero value; the assembler decides what absent means.

type Image struct {
	URL    string `json:"url"`
	Height *int   `json:"height"`
	Width  *int   `json:"width"`
}

type UserProfile struct {
	ID          string  `json:"id"`
	DisplayName *string `json:"display_name"`
	Images      []Image `json:"images"`
}

type Owner struct {
	ID          string  `json:"id"`
	DisplayName *string `json:"display_name"`
}

type Artist struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Genres []string `json:"genres"`
	Images []Image  `json:"images"`
}

type Album struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	AlbumType            string   `json:"album_type"`
	ReleaseDate          string   `json:"release_date"`
	ReleaseDatePrecision string   `json:"release_date_precision"`
	TotalTracks          *int     `json:"total_tracks"`
	Genres               []string `json:"genres"`
	Label                *string  `json:"label"`
	Popularity           *int     `json:"popularity"`
	Artists              []Artist `json:"artists"`
	Images               []Image  `json:"images"`
}

type Track struct {
	ID         *string  `json:"id"`
	Name       string   `json:"name"`
	Popularity *int     `json:"popularity"`
	Explicit   *bool    `json:"explicit"`
	Artists    []Artist `json:"artists"`
	Album      *Album   `json:"album"`
	DurationMs *int     `json:"duration_ms"`
	IsPlayable *bool    `json:"is_playable"`
	IsLocal    *bool    `json:"is_local"`
}

// PlaylistItem wraps a track in a playlist listing. Track is nil for
// entries the catalog can no longer resolve.
type PlaylistItem struct {
	AddedAt *string `json:"added_at"`
	Track   *Track  `json:"track"`
}

// Page is one page of a paged listing. Next is the absolute URL of the
// following page, or nil on the last one.
type Page[T any] struct {
	Href   string  `json:"href"`
	Items  []T     `json:"items"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
	Total  int     `json:"total"`
	Next   *string `json:"next"`
}

type TracksRef struct {
	Href  string `json:"href"`
	Total int    `json:"total"`
}

// SimplePlaylist is an entry in a user's playlist listing.
type SimplePlaylist struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description"`
	Owner         Owner     `json:"owner"`
	Images        []Image   `json:"images"`
	Public        *bool     `json:"public"`
	Collaborative *bool     `json:"collaborative"`
	SnapshotID    string    `json:"snapshot_id"`
	Tracks        TracksRef `json:"tracks"`
}

// FullPlaylist is the playlist object. Its Tracks holds only the first page
// of items; use GetPlaylistTracks for the full listing.
type FullPlaylist struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Description   *string            `json:"description"`
	Owner         Owner              `json:"owner"`
	Images        []Image            `json:"images"`
	Public        *bool              `json:"public"`
	Collaborative *bool              `json:"collaborative"`
	SnapshotID    string             `json:"snapshot_id"`
	Tracks        Page[PlaylistItem] `json:"tracks"`
}

type errorResponse struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

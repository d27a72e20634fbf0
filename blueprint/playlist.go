package blueprint

// DefaultUserImage is used when the catalog profile carries no image.
const DefaultUserImage = "/static/images/default-user.png"

// User is the authenticated Spotify user.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

type Artist struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Genres   []string `json:"genres,omitempty"`
	ImageURL *string  `json:"image_url,omitempty"`
}

type Album struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	AlbumType            string   `json:"album_type,omitempty"`
	ReleaseDate          string   `json:"release_date,omitempty"`
	ReleaseDatePrecision string   `json:"release_date_precision,omitempty"`
	TotalTracks          *int     `json:"total_tracks,omitempty"`
	Genres               []string `json:"genres,omitempty"`
	Label                string   `json:"label,omitempty"`
	Popularity           *int     `json:"popularity,omitempty"`
	Artists              []Artist `json:"artists,omitempty"`
}

// Track is a single playlist entry. Local files may carry no catalog
// metadata, in which case the optional fields stay nil.
type Track struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Popularity *int     `json:"popularity,omitempty"`
	Explicit   *bool    `json:"explicit,omitempty"`
	Artists    []Artist `json:"artists"`
	Album      *Album   `json:"album,omitempty"`
	DurationMs *int     `json:"duration_ms,omitempty"`
	IsPlayable *bool    `json:"is_playable,omitempty"`
	IsLocal    *bool    `json:"is_local,omitempty"`
}

// ArtistNames returns the names of the track artists in credit order.
func (t Track) ArtistNames() []string {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.Name)
	}
	return names
}

// Playlist holds the tracks in the same order the catalog returned them.
type Playlist struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	OwnerID       string  `json:"owner_id"`
	Description   string  `json:"description"`
	ImageURL      *string `json:"image_url,omitempty"`
	Public        *bool   `json:"public,omitempty"`
	Collaborative *bool   `json:"collaborative,omitempty"`
	TotalTracks   int     `json:"total_tracks"`
	Tracks        []Track `json:"tracks,omitempty"`
}

// UserPlaylists is the payload returned by the profile listing endpoint.
type UserPlaylists struct {
	User      User       `json:"user"`
	Playlists []Playlist `json:"playlists"`
}

package prompt

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"

	"rantify/blueprint"
)

var (
	playlistColumns = []string{"Playlist Name", "Description", "Number of Tracks"}
	trackColumns    = []string{"Track Name", "Artist Names", "Album Name", "Release Date"}
)

func writeTable(header []string, rows [][]string) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true
	if err := w.Write(header); err != nil {
		return "", err
	}
	if err := w.WriteAll(rows); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// PlaylistTable renders the one-row playlist block.
func PlaylistTable(p *blueprint.Playlist) (string, error) {
	return writeTable(playlistColumns, [][]string{{
		p.Name,
		p.Description,
		strconv.Itoa(len(p.Tracks)),
	}})
}

// TracksTable renders one row per track in playlist order.
func TracksTable(tracks []blueprint.Track) (string, error) {
	rows := make([][]string, 0, len(tracks))
	for _, t := range tracks {
		var album, released string
		if t.Album != nil {
			album = t.Album.Name
			released = t.Album.ReleaseDate
		}
		rows = append(rows, []string{t.Name, artistList(t), album, released})
	}
	return writeTable(trackColumns, rows)
}

// artistList renders names as a bracketed list, e.g. ['Daft Punk', 'Pharrell'].
func artistList(t blueprint.Track) string {
	if len(t.Artists) == 0 {
		return ""
	}
	return "['" + strings.Join(t.ArtistNames(), "', '") + "']"
}

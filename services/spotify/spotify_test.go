package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
	"rantify/blueprint"
)

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...ClientOption) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	opts = append([]ClientOption{WithBaseURL(srv.URL)}, opts...)
	return NewClientFromToken(context.Background(), "token", opts...), srv
}

func TestGetPlaylistTracksFollowsEveryPage(t *testing.T) {
	var srvURL string
	var calls int32
	client, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		assert.Equal(t, "/playlists/p1/tracks", r.URL.Path)

		page := r.URL.Query().Get("page")
		if page == "" {
			page = "1"
		}
		var next *string
		switch page {
		case "1":
			n := srvURL + "/playlists/p1/tracks?page=2"
			next = &n
		case "2":
			n := srvURL + "/playlists/p1/tracks?page=3"
			next = &n
		}
		writeJSON(t, w, http.StatusOK, map[string]interface{}{
			"items": []map[string]interface{}{
				{"track": map[string]interface{}{"id": "t" + page + "a", "name": "A" + page}},
				{"track": map[string]interface{}{"id": "t" + page + "b", "name": "B" + page}},
			},
			"next": next,
		})
	})
	srvURL = srv.URL

	items, err := client.GetPlaylistTracks(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, items, 6)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))

	var names []string
	for _, item := range items {
		names = append(names, item.Track.Name)
	}
	assert.Equal(t, []string{"A1", "B1", "A2", "B2", "A3", "B3"}, names)
}

func TestGetPlaylistTracksKeepsNullTracks(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items":[{"track":null},{"track":{"name":"kept","is_local":true}}],"next":null}`)
	})

	items, err := client.GetPlaylistTracks(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Nil(t, items[0].Track)
	assert.Nil(t, items[1].Track.ID)
	assert.True(t, *items[1].Track.IsLocal)
}

func TestGetPlaylistsOnlyOwned(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/me":
			writeJSON(t, w, http.StatusOK, map[string]interface{}{"id": "alice", "display_name": "Alice"})
		case "/users/alice/playlists":
			assert.Equal(t, "50", r.URL.Query().Get("limit"))
			writeJSON(t, w, http.StatusOK, map[string]interface{}{
				"items": []map[string]interface{}{
					{"id": "mine", "name": "Mine", "owner": map[string]string{"id": "alice"}},
					{"id": "theirs", "name": "Theirs", "owner": map[string]string{"id": "bob"}},
				},
				"next": nil,
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	owned, err := client.GetPlaylists(context.Background(), "", true)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, "mine", owned[0].ID)

	all, err := client.GetPlaylists(context.Background(), "alice", false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCatalogErrorDecoding(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/empty") {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeJSON(t, w, http.StatusNotFound, map[string]interface{}{
			"error": map[string]interface{}{"status": 404, "message": "Not found."},
		})
	})

	_, err := client.GetPlaylist(context.Background(), "missing")
	var catalogErr *blueprint.CatalogError
	require.ErrorAs(t, err, &catalogErr)
	assert.Equal(t, http.StatusNotFound, catalogErr.Status)
	assert.Equal(t, "Not found.", catalogErr.Message)

	_, err = client.GetPlaylist(context.Background(), "empty")
	require.ErrorAs(t, err, &catalogErr)
	assert.Equal(t, http.StatusBadGateway, catalogErr.Status)
	assert.Equal(t, "Bad Gateway", catalogErr.Message)
}

func TestTimeoutIsUpstreamTimeout(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}, WithTimeout(20*time.Millisecond))

	_, err := client.GetUserProfile(context.Background())
	assert.ErrorIs(t, err, blueprint.ErrUpstreamTimeout)
}

func TestGetPlaylistWithoutBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/playlists/null":
			fmt.Fprint(w, "null")
		case "/playlists/nocontent":
			w.WriteHeader(http.StatusNoContent)
		}
	})

	for _, id := range []string{"null", "empty", "nocontent"} {
		playlist, err := client.GetPlaylist(context.Background(), id)
		require.NoError(t, err, id)
		assert.Nil(t, playlist, id)
	}
}

func TestAnySuccessStatusIsDecoded(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusNonAuthoritativeInfo, map[string]interface{}{"id": "alice"})
	})

	profile, err := client.GetUserProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.ID)
}

func TestClientsShareLimiter(t *testing.T) {
	var calls int32
	handler := func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeJSON(t, w, http.StatusOK, map[string]interface{}{"id": "alice"})
	}

	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	first, _ := newTestClient(t, handler, WithLimiter(limiter))
	second, _ := newTestClient(t, handler, WithLimiter(limiter))

	_, err := first.GetUserProfile(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = second.GetUserProfile(ctx)
	assert.ErrorIs(t, err, blueprint.ErrUpstreamTimeout)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	assert.Nil(t, NewLimiter(0))
	assert.NotNil(t, NewLimiter(2))
}

func TestGetPlaylistWithOptions(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/playlists/p1", r.URL.Path)
		assert.Equal(t, "from_token", r.URL.Query().Get("market"))
		assert.Equal(t, "id,name", r.URL.Query().Get("fields"))
		fmt.Fprint(w, `{"id":"p1","name":"Road trip","owner":{"id":"alice"}}`)
	}, WithRateLimit(100))

	playlist, err := client.GetPlaylist(context.Background(), "p1", Market("from_token"), Fields("id,name"))
	require.NoError(t, err)
	assert.Equal(t, "Road trip", playlist.Name)
	assert.Nil(t, playlist.Description)
}

func TestAuthenticator(t *testing.T) {
	var form url.Values
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		if r.PostForm.Get("grant_type") == "refresh_token" {
			fmt.Fprint(w, `{"access_token":"refreshed","token_type":"Bearer","expires_in":3600}`)
			return
		}
		fmt.Fprint(w, `{"access_token":"access","refresh_token":"refresh","token_type":"Bearer","expires_in":3600,"scope":"playlist-read-private user-library-read"}`)
	}))
	defer tokenSrv.Close()

	auth := NewAuthenticator("client", "secret", "http://localhost/callback",
		WithEndpoint(tokenSrv.URL+"/authorize", tokenSrv.URL+"/token"))

	authURL, err := url.Parse(auth.AuthURL("xyz"))
	require.NoError(t, err)
	q := authURL.Query()
	assert.Equal(t, "client", q.Get("client_id"))
	assert.Equal(t, "xyz", q.Get("state"))
	assert.Equal(t, "http://localhost/callback", q.Get("redirect_uri"))
	assert.Equal(t, "playlist-read-private playlist-read-collaborative user-library-read", q.Get("scope"))

	cred, err := auth.Exchange(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "the-code", form.Get("code"))
	assert.Equal(t, "access", cred.AccessToken)
	assert.Equal(t, "refresh", cred.RefreshToken)
	assert.Equal(t, []string{"playlist-read-private", "user-library-read"}, cred.Scopes)
	assert.True(t, cred.ExpiresAt.After(time.Now()))

	refreshed, err := auth.Refresh(context.Background(), cred)
	require.NoError(t, err)
	assert.Equal(t, "refresh", form.Get("refresh_token"))
	assert.Equal(t, "refreshed", refreshed.AccessToken)
	assert.Equal(t, "refresh", refreshed.RefreshToken)
	assert.Equal(t, cred.Scopes, refreshed.Scopes)
}

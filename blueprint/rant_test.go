package blueprint

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestParseRantKind(t *testing.T) {
	tests := []struct {
		in      string
		want    RantKind
		wantErr bool
	}{
		{"rate", RantKindRate, false},
		{"ROAST", RantKindRoast, false},
		{" Rhyme ", RantKindRhyme, false},
		{"sing", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRantKind(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownRantKind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRantKindShape(t *testing.T) {
	assert.Equal(t, ShapeReview, RantKindRate.Shape())
	assert.Equal(t, ShapeReview, RantKindRoast.Shape())
	assert.Equal(t, ShapeRhyme, RantKindRhyme.Shape())
}

func TestFactsUnmarshal(t *testing.T) {
	var r Review
	require.NoError(t, json.Unmarshal([]byte(`{"facts":"one paragraph","review":"ok","rating":3}`), &r))
	assert.Equal(t, Facts{"one paragraph"}, r.Facts)

	require.NoError(t, json.Unmarshal([]byte(`{"facts":["a","b"],"review":"ok","rating":3}`), &r))
	assert.Equal(t, Facts{"a", "b"}, r.Facts)

	assert.Error(t, json.Unmarshal([]byte(`{"facts":12}`), &r))
}

func TestCredentialExpiresWithin(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	fresh := &Credential{ExpiresAt: now.Add(time.Hour)}
	assert.False(t, fresh.ExpiresWithin(now, time.Minute))

	closeToExpiry := &Credential{ExpiresAt: now.Add(30 * time.Second)}
	assert.True(t, closeToExpiry.ExpiresWithin(now, time.Minute))

	expired := &Credential{ExpiresAt: now.Add(-time.Second)}
	assert.True(t, expired.ExpiresWithin(now, 0))

	assert.False(t, (&Credential{}).ExpiresWithin(now, time.Minute))
}

func TestCredentialFromToken(t *testing.T) {
	expiry := time.Now().Add(time.Hour)
	tok := (&oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       expiry,
	}).WithExtra(map[string]interface{}{"scope": "playlist-read-private user-library-read"})

	cred := CredentialFromToken(tok)
	assert.Equal(t, "access", cred.AccessToken)
	assert.Equal(t, "refresh", cred.RefreshToken)
	assert.Equal(t, expiry, cred.ExpiresAt)
	assert.Equal(t, []string{"playlist-read-private", "user-library-read"}, cred.Scopes)

	back := cred.OAuth2Token()
	assert.Equal(t, "refresh", back.RefreshToken)
}

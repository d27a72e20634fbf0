package blueprint

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/invopop/jsonschema"
)

// RantKind is the flavour of critique requested for a playlist.
type RantKind string

const (
	RantKindRate  RantKind = "RATE"
	RantKindRoast RantKind = "ROAST"
	RantKindRhyme RantKind = "RHYME"
)

// RantKinds lists every supported kind, in display order.
var RantKinds = []RantKind{RantKindRate, RantKindRoast, RantKindRhyme}

// ParseRantKind accepts the kind name in any case ("rate", "ROAST", ...).
func ParseRantKind(s string) (RantKind, error) {
	k := RantKind(strings.ToUpper(strings.TrimSpace(s)))
	switch k {
	case RantKindRate, RantKindRoast, RantKindRhyme:
		return k, nil
	}
	return "", ErrUnknownRantKind
}

func (k RantKind) String() string {
	return strings.ToLower(string(k))
}

// Shape returns the structured result the kind must be generated into.
func (k RantKind) Shape() ResultShape {
	if k == RantKindRhyme {
		return ShapeRhyme
	}
	return ShapeReview
}

// ResultShape is the schema the generated text must conform to.
type ResultShape string

const (
	ShapeReview ResultShape = "review"
	ShapeRhyme  ResultShape = "rhyme"
)

// RantRequest is built once per pipeline invocation.
type RantRequest struct {
	PlaylistID string   `json:"playlist"`
	Kind       RantKind `json:"kind"`
}

// Facts is either a single paragraph or an ordered list of statements.
// It always serialises back as a list.
type Facts []string

func (f *Facts) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*f = Facts{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return errors.New("facts must be a string or a list of strings")
	}
	*f = many
	return nil
}

// JSONSchema describes the string-or-list union for the format instructions.
func (Facts) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Description: "Interesting facts about the playlist, as one paragraph or a list of short statements",
		OneOf: []*jsonschema.Schema{
			{Type: "string"},
			{Type: "array", Items: &jsonschema.Schema{Type: "string"}},
		},
	}
}

// Review is the result of RATE and ROAST.
type Review struct {
	Facts  Facts  `json:"facts" jsonschema_description:"Facts about the playlist that back up the review"`
	Review string `json:"review" jsonschema_description:"The review of the playlist"`
	Rating int    `json:"rating" jsonschema:"minimum=0,maximum=10" jsonschema_description:"Rating of the playlist from 0 to 10"`
}

// Rhyme is the result of RHYME: stanzas of lines.
type Rhyme struct {
	Facts   Facts      `json:"facts" jsonschema_description:"Facts about the playlist the poem is built on"`
	Stanzas [][]string `json:"stanzas" jsonschema_description:"The poem as a list of stanzas, each stanza a list of lines"`
}

// Rant is the generated result. Exactly one of Review or Rhyme is set,
// selected by Kind.
type Rant struct {
	Kind   RantKind `json:"kind"`
	Review *Review  `json:"review,omitempty"`
	Rhyme  *Rhyme   `json:"rhyme,omitempty"`
}

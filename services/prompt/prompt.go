// Package prompt renders a playlist into the text sent to the language
// model, bounded to a fixed number of tokens.
package prompt

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"text/template"
	"unicode/utf8"

	"rantify/blueprint"
	"rantify/util"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const limitExceededTemplate = "limit_exceeded.tmpl"

// templateNames is the template used for each rant kind.
var templateNames = map[blueprint.RantKind]string{
	blueprint.RantKindRate:  "rate.tmpl",
	blueprint.RantKindRoast: "roast.tmpl",
	blueprint.RantKindRhyme: "rhyme.tmpl",
}

type templateData struct {
	Playlist           string
	Tracks             string
	FormatInstructions string
}

// Prompt is a rendered, budgeted prompt.
type Prompt struct {
	Text      string
	Tokens    int
	Truncated bool
}

// Budgeter renders prompts no longer than MaxTokens tokens, plus the
// limit-exceeded notice when the playlist had to be cut.
type Budgeter struct {
	tokenizer Tokenizer
	maxTokens int
	templates *template.Template
	notice    string
}

func NewBudgeter(tokenizer Tokenizer, maxTokens int) (*Budgeter, error) {
	if tokenizer == nil {
		return nil, errors.New("prompt: tokenizer is required")
	}
	if maxTokens <= 0 {
		return nil, fmt.Errorf("prompt: invalid token budget %d", maxTokens)
	}

	tmpl, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}
	notice, err := templateFS.ReadFile("templates/" + limitExceededTemplate)
	if err != nil {
		return nil, err
	}

	return &Budgeter{
		tokenizer: tokenizer,
		maxTokens: maxTokens,
		templates: tmpl,
		notice:    string(notice),
	}, nil
}

func (b *Budgeter) MaxTokens() int {
	return b.maxTokens
}

// Render returns the budgeted prompt text for the playlist and kind.
func (b *Budgeter) Render(playlist *blueprint.Playlist, kind blueprint.RantKind) (string, error) {
	p, err := b.RenderPrompt(playlist, kind)
	if err != nil {
		return "", err
	}
	return p.Text, nil
}

// RenderPrompt is Render with token accounting.
func (b *Budgeter) RenderPrompt(playlist *blueprint.Playlist, kind blueprint.RantKind) (*Prompt, error) {
	text, err := b.Compose(playlist, kind)
	if err != nil {
		return nil, err
	}
	return b.Fit(text), nil
}

// Compose fills the kind's template without applying the budget.
func (b *Budgeter) Compose(playlist *blueprint.Playlist, kind blueprint.RantKind) (string, error) {
	if playlist == nil {
		return "", blueprint.ErrPlaylistNotFound
	}
	name, ok := templateNames[kind]
	if !ok {
		return "", blueprint.ErrUnknownRantKind
	}

	playlistBlock, err := PlaylistTable(playlist)
	if err != nil {
		return "", err
	}
	tracksBlock, err := TracksTable(playlist.Tracks)
	if err != nil {
		return "", err
	}
	instructions, err := FormatInstructions(kind.Shape())
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = b.templates.ExecuteTemplate(&buf, name, templateData{
		Playlist:           playlistBlock,
		Tracks:             tracksBlock,
		FormatInstructions: instructions,
	})
	if err != nil {
		return "", err
	}
	return util.NormalizeText(buf.String()), nil
}

// Fit keeps text as is when it is within budget. Otherwise it keeps the
// longest prefix of at most MaxTokens tokens that decodes to whole runes and
// appends the limit-exceeded notice. The prefix is exactly MaxTokens tokens
// unless the cut would split a multi-byte character, in which case tokens are
// dropped from the end until it does not; Tokens reports the kept count.
func (b *Budgeter) Fit(text string) *Prompt {
	tokens := b.tokenizer.Encode(text)
	if len(tokens) <= b.maxTokens {
		return &Prompt{Text: text, Tokens: len(tokens)}
	}

	k := b.maxTokens
	head := b.tokenizer.Decode(tokens[:k])
	for k > 0 && !utf8.ValidString(head) {
		k--
		head = b.tokenizer.Decode(tokens[:k])
	}
	return &Prompt{
		Text:      head + b.notice,
		Tokens:    k,
		Truncated: true,
	}
}

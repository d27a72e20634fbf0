package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/urfave/cli/v3"
	"rantify/blueprint"
	"rantify/config"
	"rantify/services/assembler"
	"rantify/services/spotify"
)

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:  "render",
		Usage: "Print the prompt for a saved Spotify playlist response",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "kind",
				Aliases: []string{"k"},
				Usage:   "Rant kind: rate, roast or rhyme",
				Value:   "rate",
			},
			&cli.StringFlag{
				Name:     "playlist",
				Aliases:  []string{"p"},
				Usage:    "Path to a GET /playlists/{id} response",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "tracks",
				Aliases: []string{"t"},
				Usage:   "Path to a JSON array of playlist items; defaults to the items embedded in the playlist",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Dump the assembled playlist to stderr",
			},
		},
		Action: render,
	}
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func render(_ context.Context, cmd *cli.Command) error {
	kind, err := blueprint.ParseRantKind(cmd.String("kind"))
	if err != nil {
		return err
	}

	var raw spotify.FullPlaylist
	if err := readJSON(cmd.String("playlist"), &raw); err != nil {
		return err
	}
	items := raw.Tracks.Items
	if path := cmd.String("tracks"); path != "" {
		items = nil
		if err := readJSON(path, &items); err != nil {
			return err
		}
	}
	playlist := assembler.ToPlaylist(&raw, items)
	if cmd.Bool("debug") {
		fmt.Fprint(os.Stderr, spew.Sdump(playlist))
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	budgeter, err := newBudgeter(cfg)
	if err != nil {
		return err
	}
	p, err := budgeter.RenderPrompt(playlist, kind)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "tokens: %d/%d truncated: %t\n", p.Tokens, budgeter.MaxTokens(), p.Truncated)
	fmt.Println(p.Text)
	return nil
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// sessions_cmd.go - Chat session commands: list, show, export.
//
// `list` and `show` read from the server. `export` reads the local
// transcript cache, which only exists when chat.save_transcripts is on.
package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jeranaias/docket-tui/internal/config"
	"github.com/jeranaias/docket-tui/internal/model"
	"github.com/jeranaias/docket-tui/internal/storage"
	"github.com/jeranaias/docket-tui/internal/util"
)

// HandleSessions dispatches sessions subcommands.
func HandleSessions(args Args) error {
	switch args.Subcommand {
	case "", "list", "ls":
		return handleSessionsList(args)
	case "show":
		return handleSessionsShow(args)
	case "export":
		return handleSessionsExport(args)
	case "search":
		return handleSessionsSearch(args)
	default:
		return fmt.Errorf("unknown sessions subcommand: %s (try list, show, export, search)", args.Subcommand)
	}
}

func handleSessionsList(args Args) error {
	backend := NewBackend(args)

	return OutputJSON(args.JSON, "sessions list", func() (interface{}, error) {
		sessions, err := backend.Client.ListSessions(context.Background())
		if err != nil {
			return nil, err
		}

		if !args.JSON {
			if len(sessions) == 0 {
				fmt.Println(DimStyle.Render("No sessions yet. Try `docket chat`."))
			} else {
				titleWidth := 44
				fmt.Println(SectionStyle.Render(fmt.Sprintf("%s %s %s",
					util.PadRight("SESSION", 14),
					util.PadRight("UPDATED", 10),
					"TITLE")))
				for _, s := range sessions {
					fmt.Printf("%s %s %s\n",
						util.PadRight(s.ID, 14),
						util.PadRight(storage.RelativeTime(s.UpdatedAt), 10),
						util.TruncateWidth(s.Title, titleWidth))
				}
			}
		}

		data := make([]SessionData, 0, len(sessions))
		for _, s := range sessions {
			item := SessionData{ID: s.ID, Title: s.Title}
			if !s.UpdatedAt.IsZero() {
				item.Updated = s.UpdatedAt.Format(time.RFC3339)
			}
			data = append(data, item)
		}
		return data, nil
	})
}

func handleSessionsShow(args Args) error {
	if args.Query == "" {
		return errors.New("usage: docket sessions show <session-id>")
	}

	backend := NewBackend(args)

	msgs, err := backend.Client.ListMessages(context.Background(), args.Query)
	if err != nil {
		return err
	}

	if len(msgs) == 0 {
		fmt.Println(DimStyle.Render("Session is empty."))
		return nil
	}

	for _, m := range msgs {
		role := model.Role(m.Role)
		switch role {
		case model.RoleUser:
			fmt.Println(SectionStyle.Render(role.DisplayName()))
			fmt.Println(m.Content)
		default:
			fmt.Println(SectionStyle.Render(role.DisplayName()))
			fmt.Println(renderMarkdown(m.Content))
			for _, c := range model.DedupeCitations(m.Sources()) {
				fmt.Println("  " + CitationStyle.Render("- "+c.Title))
			}
		}
		fmt.Println()
	}
	return nil
}

// handleSessionsSearch scans the local transcript cache for a phrase.
func handleSessionsSearch(args Args) error {
	if args.Query == "" {
		return errors.New("usage: docket sessions search <phrase>")
	}

	cache := storage.NewStore(config.TranscriptsDir())
	hits, err := cache.Search(args.Query)
	if err != nil {
		return err
	}
	if len(hits) == 0 {
		fmt.Println(DimStyle.Render("No cached transcripts match."))
		return nil
	}
	fmt.Print(storage.FormatSessionTable(hits))
	return nil
}

// handleSessionsExport writes a cached transcript to stdout as markdown
// or JSON.
func handleSessionsExport(args Args) error {
	if args.Query == "" {
		return errors.New("usage: docket sessions export <session-id> [--format md|json]")
	}

	cache := storage.NewStore(config.TranscriptsDir())
	tr, err := cache.Load(args.Query)
	if err != nil {
		if errors.Is(err, storage.ErrTranscriptNotFound) {
			return fmt.Errorf("no cached transcript for %s; transcripts are cached while chat.save_transcripts is on", args.Query)
		}
		return err
	}

	switch args.Format {
	case "md", "markdown", "":
		fmt.Print(tr.ExportMarkdown())
	case "json":
		out, err := tr.ExportJSON()
		if err != nil {
			return err
		}
		fmt.Println(out)
	default:
		return fmt.Errorf("unknown export format: %s (try md or json)", args.Format)
	}
	return nil
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot question answering against the RAG backend.
//
// `docket ask "question"` sends a single stateless query and renders the
// answer with its sources. Markdown rendering only happens on a TTY so
// piped output stays clean.
package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/docket-tui/internal/api"
	"github.com/jeranaias/docket-tui/internal/model"
)

// HandleAsk sends one question and prints the cited answer.
func HandleAsk(args Args) error {
	if args.Query == "" {
		return errors.New("usage: docket ask \"your question\"")
	}

	backend := NewBackend(args)

	return OutputJSON(args.JSON, "ask", func() (interface{}, error) {
		start := time.Now()
		answer, err := backend.Client.Ask(context.Background(), args.Query)
		if err != nil {
			if !args.JSON {
				printAskError(err)
			}
			return nil, err
		}
		elapsed := time.Since(start)

		sources := model.DedupeCitations(answer.Sources())

		if !args.JSON {
			displayAnswer(answer.Answer, sources)
			if args.Verbose {
				fmt.Println(DimStyle.Render(fmt.Sprintf("(%d sources, %.1fs)",
					len(sources), elapsed.Seconds())))
			}
		}

		data := AskData{
			Question:   args.Query,
			Answer:     answer.Answer,
			DurationMs: elapsed.Milliseconds(),
		}
		for _, c := range sources {
			data.Citations = append(data.Citations, CitationData{
				Type:    c.Type,
				Title:   c.Title,
				Snippet: c.Snippet,
				URL:     c.URL,
			})
		}
		return data, nil
	})
}

// displayAnswer renders the answer body and its source list.
func displayAnswer(answer string, sources []model.Citation) {
	fmt.Println(renderMarkdown(answer))

	if len(sources) == 0 {
		return
	}
	fmt.Println(SectionStyle.Render("Sources"))
	for _, c := range sources {
		tag := "[Your Document]"
		if c.Type == "legal" {
			tag = "[Legal]"
		}
		line := CitationStyle.Render(tag) + " " + ValueStyle.Render(c.Title)
		fmt.Println("  " + line)
		if c.URL != "" {
			fmt.Println("    " + DimStyle.Render(c.URL))
		}
	}
}

// renderMarkdown renders markdown for TTY output, falling back to the raw
// text when rendering fails or output is piped.
func renderMarkdown(text string) string {
	if !IsStdoutTTY() {
		return text
	}

	width := GetTerminalWidth()
	if width > 100 {
		width = 100
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-2),
	)
	if err != nil {
		return text
	}
	out, err := renderer.Render(text)
	if err != nil {
		return text
	}
	return out
}

func printAskError(err error) {
	var apiErr *api.APIError
	switch {
	case errors.Is(err, api.ErrNoCredential):
		PrintError("Not signed in. Run `docket login` first.")
	case errors.Is(err, api.ErrSessionExpired):
		// The expiry hint has already been printed by the gateway hook.
	case errors.As(err, &apiErr):
		PrintError("Server rejected the question: " + apiErr.Detail)
	case api.IsTransport(err):
		PrintError("Cannot reach the server. Check that it is running.")
	default:
		PrintError(err.Error())
	}
}

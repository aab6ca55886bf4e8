// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// docs_cmd.go - Document management commands: list, upload, watch.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jeranaias/docket-tui/internal/api"
	"github.com/jeranaias/docket-tui/internal/model"
	"github.com/jeranaias/docket-tui/internal/storage"
	"github.com/jeranaias/docket-tui/internal/uploader"
	"github.com/jeranaias/docket-tui/internal/util"
)

// HandleDocs dispatches docs subcommands.
func HandleDocs(args Args) error {
	switch args.Subcommand {
	case "", "list", "ls":
		return handleDocsList(args)
	case "upload", "add":
		return handleDocsUpload(args)
	case "watch":
		return handleDocsWatch(args)
	default:
		return fmt.Errorf("unknown docs subcommand: %s (try list, upload, watch)", args.Subcommand)
	}
}

func handleDocsList(args Args) error {
	backend := NewBackend(args)

	return OutputJSON(args.JSON, "docs list", func() (interface{}, error) {
		docs, err := backend.Client.ListDocuments(context.Background())
		if err != nil {
			return nil, err
		}

		if !args.JSON {
			if len(docs) == 0 {
				fmt.Println(DimStyle.Render("No documents yet. Try `docket docs upload <file>`."))
			} else {
				printDocsTable(docs)
			}
		}

		data := make([]DocData, 0, len(docs))
		for _, d := range docs {
			item := DocData{ID: d.ID, Title: d.Title, DocType: d.DocType, Status: d.Status}
			if !d.CreatedAt.IsZero() {
				item.Created = d.CreatedAt.Format(time.RFC3339)
			}
			data = append(data, item)
		}
		return data, nil
	})
}

func handleDocsUpload(args Args) error {
	if args.File == "" {
		return errors.New("usage: docket docs upload <file> [--title TITLE]")
	}
	info, err := os.Stat(args.File)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", args.File, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory; use `docket docs watch` for directories", args.File)
	}

	title := args.Title
	if title == "" {
		title = model.TitleForPath(args.File)
	}
	docType := model.DocTypeForPath(args.File)

	backend := NewBackend(args)

	return OutputJSON(args.JSON, "docs upload", func() (interface{}, error) {
		if !args.JSON && !args.Quiet {
			fmt.Printf("Uploading %s (%s)...\n", title, docType)
		}

		result, err := backend.Client.UploadFile(context.Background(), args.File, title, docType)
		if err != nil {
			if !args.JSON {
				PrintError("Upload failed: " + err.Error())
			}
			return nil, err
		}

		if !args.JSON {
			PrintSuccess(fmt.Sprintf("Indexed %s in %d chunks (doc %s)",
				title, result.ChunksIndexed, result.DocID))
		}
		return UploadData{
			DocID:         result.DocID,
			Title:         title,
			DocType:       docType,
			ChunksIndexed: result.ChunksIndexed,
		}, nil
	})
}

// handleDocsWatch runs the directory watcher until interrupted.
func handleDocsWatch(args Args) error {
	backend := NewBackend(args)

	dir := args.File
	if dir == "" {
		dir = backend.Config.Upload.WatchDir
	}
	if dir == "" {
		return errors.New("no watch directory; pass one or set upload.watch_dir")
	}

	watcher, err := uploader.New(dir, backend.Client, backend.Config.Upload.MaxPerMinute)
	if err != nil {
		return fmt.Errorf("cannot watch %s: %w", dir, err)
	}
	defer watcher.Close()

	if err := watcher.Watch(); err != nil {
		return err
	}

	if !args.Quiet {
		fmt.Println(TitleStyle.Render("docket docs watch"))
		fmt.Printf("Watching %s for new documents. Ctrl-C to stop.\n", dir)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case res := <-watcher.Results():
			if res.Err != nil {
				PrintError(fmt.Sprintf("%s: %v", res.Path, res.Err))
				continue
			}
			PrintSuccess(fmt.Sprintf("%s indexed in %d chunks",
				model.TitleForPath(res.Path), res.Result.ChunksIndexed))
		case <-stop:
			if !args.Quiet {
				fmt.Println("\nStopped.")
			}
			return nil
		}
	}
}

func printDocsTable(docs []api.Document) {
	titleWidth := 36
	fmt.Println(SectionStyle.Render(fmt.Sprintf("%s %s %s %s",
		util.PadRight("TITLE", titleWidth),
		util.PadRight("TYPE", 6),
		util.PadRight("STATUS", 10),
		"ADDED")))
	for _, d := range docs {
		fmt.Printf("%s %s %s %s\n",
			util.PadRight(util.TruncateWidth(d.Title, titleWidth), titleWidth),
			util.PadRight(d.DocType, 6),
			util.PadRight(d.Status, 10),
			storage.RelativeTime(d.CreatedAt))
	}
}

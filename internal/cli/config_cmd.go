// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration commands: show, get, set, path.
package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jeranaias/docket-tui/internal/config"
)

// HandleConfig dispatches config subcommands.
func HandleConfig(args Args) error {
	switch args.Subcommand {
	case "", "show":
		return handleConfigShow(args)
	case "get":
		return handleConfigGet(args)
	case "set":
		return handleConfigSet(args)
	case "path":
		fmt.Println(config.Path())
		return nil
	default:
		return fmt.Errorf("unknown config subcommand: %s (try show, get, set, path)", args.Subcommand)
	}
}

func handleConfigShow(args Args) error {
	cfg := config.Global()

	return OutputJSON(args.JSON, "config show", func() (interface{}, error) {
		if !args.JSON {
			fmt.Println(TitleStyle.Render("docket configuration"))
			fmt.Println(SectionStyle.Render("Server"))
			fmt.Println(LabelStyle.Render("base_url") + ValueStyle.Render(cfg.Server.BaseURL))
			fmt.Println(LabelStyle.Render("timeout_secs") + ValueStyle.Render(fmt.Sprint(cfg.Server.TimeoutSecs)))
			fmt.Println(SectionStyle.Render("Upload"))
			fmt.Println(LabelStyle.Render("watch_dir") + ValueStyle.Render(orUnset(cfg.Upload.WatchDir)))
			fmt.Println(LabelStyle.Render("max_per_minute") + ValueStyle.Render(fmt.Sprint(cfg.Upload.MaxPerMinute)))
			fmt.Println(SectionStyle.Render("Chat"))
			fmt.Println(LabelStyle.Render("save_transcripts") + ValueStyle.Render(fmt.Sprint(cfg.Chat.SaveTranscripts)))
			fmt.Println(LabelStyle.Render("history_file") + ValueStyle.Render(orUnset(cfg.Chat.HistoryFile)))
			fmt.Println(SectionStyle.Render("UI"))
			fmt.Println(LabelStyle.Render("theme") + ValueStyle.Render(cfg.UI.Theme))
			fmt.Println(LabelStyle.Render("compact_mode") + ValueStyle.Render(fmt.Sprint(cfg.UI.CompactMode)))
			fmt.Println()
			fmt.Println(DimStyle.Render("Config file: " + config.Path()))
		}

		var data ConfigShowData
		data.Server.BaseURL = cfg.Server.BaseURL
		data.Server.TimeoutSecs = cfg.Server.TimeoutSecs
		data.Upload.WatchDir = cfg.Upload.WatchDir
		data.Upload.MaxPerMinute = cfg.Upload.MaxPerMinute
		data.Chat.SaveTranscripts = cfg.Chat.SaveTranscripts
		data.Chat.HistoryFile = cfg.Chat.HistoryFile
		data.UI.Theme = cfg.UI.Theme
		data.UI.CompactMode = cfg.UI.CompactMode
		data.Path = config.Path()
		return data, nil
	})
}

func handleConfigGet(args Args) error {
	if len(args.Raw) < 1 {
		return errors.New("usage: docket config get <key>\n  keys: " + strings.Join(config.Keys(), ", "))
	}

	val, err := config.Global().Get(args.Raw[0])
	if err != nil {
		return err
	}
	fmt.Println(val)
	return nil
}

func handleConfigSet(args Args) error {
	if len(args.Raw) < 2 {
		return errors.New("usage: docket config set <key> <value>\n  keys: " + strings.Join(config.Keys(), ", "))
	}
	key, value := args.Raw[0], args.Raw[1]

	cfg := config.Global()
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	if !args.Quiet {
		PrintSuccess(key + " = " + value)
	}
	return nil
}

func orUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}

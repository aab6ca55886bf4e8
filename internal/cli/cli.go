// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for docket.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdLogin
	CmdSignup
	CmdLogout
	CmdWhoami
	CmdAsk
	CmdChat
	CmdDocs
	CmdSessions
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool   // Output in JSON format
	Server  string // Override the configured server base URL

	// Command-specific
	Query      string
	File       string
	Title      string
	Format     string
	Email      string
	Subcommand string

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `docket - terminal client for your document Q&A server

Docket talks to a self-hosted legal document RAG backend. Upload
contracts and notes, then ask questions and get cited answers without
leaving the terminal.

Usage:
  docket                        Start the TUI (default)
  docket login                  Sign in and store a token
  docket signup                 Create an account
  docket logout                 Discard the stored token
  docket whoami                 Show the signed-in account
  docket ask "question"         Ask a one-shot question
  docket chat                   Interactive chat REPL
  docket docs [subcommand]      Document management
  docket sessions [subcommand]  Chat session management
  docket config [subcommand]    Configuration
  docket version                Show version
  docket help                   Show this help

Document Commands:
  docket docs list              List indexed documents
  docket docs upload <file>     Upload a document
    --title TITLE               Override the derived title
  docket docs watch [dir]       Watch a directory and auto-upload
                                (default: upload.watch_dir from config)

Session Commands:
  docket sessions list          List chat sessions on the server
  docket sessions show <id>     Print a session transcript
  docket sessions export <id>   Export a cached transcript
    --format md|json            Export format (default: md)
  docket sessions search <text> Search cached transcripts

Config Commands:
  docket config show            Show current configuration
  docket config get <key>       Read one value (dot notation)
  docket config set <key> <val> Write one value and save
  docket config path            Print the config file location

Global Flags:
  --json                        Machine-readable output
  --server URL                  Override server base URL for this run
  -q, --quiet                   Suppress non-essential output
  -v, --verbose                 Verbose output

Environment:
  DOCKET_SERVER_URL             Server base URL
  DOCKET_TIMEOUT_SECS           Request timeout in seconds
  DOCKET_WATCH_DIR              Auto-upload watch directory
  NO_COLOR                      Disable colored output

Config file: ~/.docket/config.toml
Version: %s
`

// PrintUsage prints the full usage text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("docket version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
	fmt.Printf("  Go version: %s\n", runtime.Version())
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses the given arguments. Split out from Parse for tests.
func ParseArgs(argv []string) (Command, Args) {
	remaining, parsed := parseGlobalFlags(argv)

	// No command defaults to the TUI
	if len(remaining) == 0 {
		return CmdTUI, parsed
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsed.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsed

	case "login":
		parseLoginArgs(&parsed, remaining)
		return CmdLogin, parsed

	case "signup", "register":
		parseLoginArgs(&parsed, remaining)
		return CmdSignup, parsed

	case "logout":
		return CmdLogout, parsed

	case "whoami", "me":
		return CmdWhoami, parsed

	case "ask":
		parseAskArgs(&parsed, remaining)
		return CmdAsk, parsed

	case "chat":
		return CmdChat, parsed

	case "docs", "documents", "doc":
		parseDocsArgs(&parsed, remaining)
		return CmdDocs, parsed

	case "session", "sessions":
		parseSessionsArgs(&parsed, remaining)
		return CmdSessions, parsed

	case "config":
		parseConfigArgs(&parsed, remaining)
		return CmdConfig, parsed

	case "version", "-v", "--version":
		return CmdVersion, parsed

	case "help", "-h", "--help":
		return CmdHelp, parsed

	default:
		// Unknown command is treated as an ask query so that
		// `docket "what does clause 4 mean"` just works.
		parsed.Query = strings.Join(append([]string{cmd}, remaining...), " ")
		return CmdAsk, parsed
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(argv []string) ([]string, Args) {
	var remaining []string
	var parsed Args

	i := 0
	for i < len(argv) {
		arg := argv[i]

		switch arg {
		case "-q", "--quiet":
			parsed.Quiet = true
		case "--verbose":
			parsed.Verbose = true
		case "--json":
			parsed.JSON = true
		case "--server":
			if i+1 < len(argv) {
				i++
				parsed.Server = argv[i]
			}
		default:
			if strings.HasPrefix(arg, "--server=") {
				parsed.Server = strings.TrimPrefix(arg, "--server=")
			} else {
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, parsed
}

// parseLoginArgs picks up an optional --email flag so scripted logins only
// have to type the password.
func parseLoginArgs(args *Args, remaining []string) {
	parser := NewArgParser(remaining)
	args.Email = parser.Flag("email")
}

// parseAskArgs joins the remaining positional args into the question.
func parseAskArgs(args *Args, remaining []string) {
	parser := NewArgParser(remaining)
	args.Query = strings.Join(parser.PositionalFrom(0), " ")
}

func parseDocsArgs(args *Args, remaining []string) {
	parser := NewArgParser(remaining)
	args.Subcommand = parser.Subcommand()
	args.File = parser.Positional(1)
	args.Title = parser.Flag("title")
}

func parseSessionsArgs(args *Args, remaining []string) {
	parser := NewArgParser(remaining)
	args.Subcommand = parser.Subcommand()
	args.Query = parser.Positional(1)
	args.Format = parser.FlagOrDefault("format", "md")
}

func parseConfigArgs(args *Args, remaining []string) {
	parser := NewArgParser(remaining)
	args.Subcommand = parser.Subcommand()
	args.Raw = parser.PositionalFrom(1)
}

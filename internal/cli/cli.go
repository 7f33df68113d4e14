// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
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
	CmdConvert Command = iota
	CmdPreview
	CmdWatch
	CmdHistory
	CmdConfig
	CmdVersion
	CmdHelp
)

// commandNames maps command words (and aliases) to commands.
var commandNames = map[string]Command{
	"convert": CmdConvert,
	"c":       CmdConvert,
	"preview": CmdPreview,
	"p":       CmdPreview,
	"watch":   CmdWatch,
	"w":       CmdWatch,
	"history": CmdHistory,
	"h":       CmdHistory,
	"config":  CmdConfig,
	"version": CmdVersion,
	"help":    CmdHelp,
}

// String returns the command word.
func (c Command) String() string {
	switch c {
	case CmdConvert:
		return "convert"
	case CmdPreview:
		return "preview"
	case CmdWatch:
		return "watch"
	case CmdHistory:
		return "history"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	case CmdHelp:
		return "help"
	default:
		return "unknown"
	}
}

// switches are the flags that never take a value, for every command.
var switches = []string{"open", "raw", "force", "verbose", "v", "quiet", "q", "help"}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Verbose    bool
	Quiet      bool
	ConfigPath string

	Command Command

	// Command arguments, subcommand first
	Parser *ArgParser
}

const usageText = `chatpdf - Telegram chat export to PDF converter

Usage:
  chatpdf [convert] [-f FILE|DIR]... [-d DEST] [--open]
                               Convert exports (menu when no file is given)
  chatpdf preview FILE [--raw] Show the document layout in the terminal
  chatpdf watch DIR            Convert exports as they appear in DIR
  chatpdf history [--limit N]  List previous conversions
  chatpdf config [show|get KEY|set KEY VALUE|init|path|keys]
                               Configuration
  chatpdf version              Show version information
  chatpdf help                 Show this help

Convert Options:
  -f, --file PATH              Export file, or a directory to search
  -d, --destination DIR        Destination root (default ~/Desktop)
      --locale LOCALE          Month names and upper-casing (e.g. ru_RU)
      --open                   Open the document after creating it

Global Options:
  -v, --verbose                Debug logging on stderr
  -q, --quiet                  Only print errors
      --config PATH            Config file (default ~/.chatpdf/config.toml)

Environment:
  CHATPDF_DEST, CHATPDF_OPEN, CHATPDF_LOCALE,
  CHATPDF_FONT_REGULAR, CHATPDF_FONT_BOLD      Override config values
  NO_COLOR                                    Disable colored output

Examples:
  chatpdf
  chatpdf -f ~/Downloads/Telegram\ Desktop/ChatExport_2024-04-09/result.json
  chatpdf convert result.json -d ~/Documents --open
  chatpdf watch ~/Downloads/Telegram\ Desktop
  chatpdf config set format.locale ru_RU
`

// ParseArgs parses command-line arguments (without the program name).
// Global flags may appear anywhere. Without a command word the arguments
// belong to convert.
func ParseArgs(argv []string) (Args, error) {
	args := Args{Command: CmdConvert}

	rest := make([]string, 0, len(argv))
	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		switch {
		case arg == "-v" || arg == "--verbose":
			args.Verbose = true
		case arg == "-q" || arg == "--quiet":
			args.Quiet = true
		case arg == "--help" || arg == "-help":
			args.Command = CmdHelp
		case arg == "--version":
			args.Command = CmdVersion
		case arg == "--config":
			if i+1 >= len(argv) {
				return args, ErrMissingArgument("--config", "chatpdf --config ~/.chatpdf/config.toml")
			}
			args.ConfigPath = argv[i+1]
			i++
		case strings.HasPrefix(arg, "--config="):
			args.ConfigPath = strings.TrimPrefix(arg, "--config=")
		default:
			rest = append(rest, arg)
		}
	}

	if args.Command == CmdHelp || args.Command == CmdVersion {
		args.Parser = NewArgParser(nil)
		return args, nil
	}

	if len(rest) > 0 && !strings.HasPrefix(rest[0], "-") {
		if cmd, ok := commandNames[rest[0]]; ok {
			args.Command = cmd
			rest = rest[1:]
		} else if !strings.HasSuffix(strings.ToLower(rest[0]), ".json") {
			return args, &ValidationError{
				Field:   "command",
				Value:   rest[0],
				Reason:  "unknown command",
				Example: "chatpdf help",
			}
		}
	}

	args.Parser = NewArgParser(rest, switches...)
	return args, nil
}

// Run executes the parsed command and returns the process exit code.
// Output goes to stdout, logs and errors to stderr.
func Run(ctx context.Context, args Args, stdout, stderr io.Writer) int {
	switch args.Command {
	case CmdHelp:
		fmt.Fprint(stdout, usageText)
		return ExitSuccess
	case CmdVersion:
		HandleVersion(stdout)
		return ExitSuccess
	}

	app, err := NewApp(args, stdout, stderr)
	if err != nil {
		DisplayError(stderr, err)
		return ExitCode(err)
	}
	defer app.Close()

	switch args.Command {
	case CmdConvert:
		err = HandleConvert(ctx, app, args.Parser)
	case CmdPreview:
		err = HandlePreview(ctx, app, args.Parser)
	case CmdWatch:
		err = HandleWatch(ctx, app, args.Parser)
	case CmdHistory:
		err = HandleHistory(ctx, app, args.Parser)
	case CmdConfig:
		err = HandleConfig(app, args.Parser)
	}

	if err != nil {
		DisplayError(stderr, err)
		return ExitCode(err)
	}
	return ExitSuccess
}

// HandleVersion prints version information.
func HandleVersion(w io.Writer) {
	fmt.Fprintf(w, "chatpdf %s\n", Version)
	fmt.Fprintf(w, "  %s %s\n", RenderLabel("Commit:", 10), GitCommit)
	fmt.Fprintf(w, "  %s %s\n", RenderLabel("Built:", 10), BuildDate)
	fmt.Fprintf(w, "  %s %s %s/%s\n", RenderLabel("Go:", 10), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the chatpdf command line.
//
// # Commands
//
//   - convert (default): convert exports, with a discovery menu when no
//     file is given
//   - preview: render the document layout in the terminal
//   - watch: convert exports as they appear in a directory
//   - history: list previous conversions
//   - config: show and edit the configuration
//   - version, help
//
// # Usage
//
//	args, err := cli.ParseArgs(os.Args[1:])
//	if err != nil {
//	    cli.DisplayError(os.Stderr, err)
//	    os.Exit(cli.ExitCode(err))
//	}
//	os.Exit(cli.Run(ctx, args, os.Stdout, os.Stderr))
//
// Output is colored only on a terminal; NO_COLOR and FORCE_COLOR are
// respected. Errors map to exit codes through ExitCode.
package cli

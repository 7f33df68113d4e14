// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export converts chat exports into published documents.
//
// A Pipeline run loads one export, computes its time range, resolves the
// output path and, unless the document already exists, lays out, renders,
// validates and publishes it. Publishing is exclusive: the final path is
// never overwritten and never holds a partial file.
//
// # Key Types
//
//   - Pipeline: Runs the conversion stages for one export at a time
//   - Options: Destination, formatting, fonts and collaborators
//   - Resolver: Maps a conversation to its output path
//   - Result: Outcome of a run (StatusCreated or StatusExists)
//
// # Output Layout
//
//	{dest}/{subdir}/{name}/{name}, {dd.mm.yyyy} — {dd.mm.yyyy}.pdf
//
// # Usage
//
//	p := export.New(export.DefaultOptions())
//	res, err := p.Run(ctx, "result.json")
//	if err != nil {
//	    return err
//	}
//	if res.Status == export.StatusExists {
//	    fmt.Println("This PDF-file already exists!")
//	}
package export

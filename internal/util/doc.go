// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides file and string helpers shared by chatpdf packages.
//
// # Key Functions
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
//   - WriteTemp: Fill and sync a hidden temp file next to its target
//   - PublishExclusive: Move a temp file into place unless the target exists
//
// String Utilities:
//   - TruncateWidth, TruncateLeft: Display-width aware truncation
//   - StringWidth, PadRight: Column layout for terminal menus
//
// # Usage
//
//	tmp, err := util.WriteTemp(dir, func(w io.Writer) error { return r.Render(w, doc) })
//	err = util.PublishExclusive(tmp, finalPath, 0644)
//	if errors.Is(err, os.ErrExist) {
//	    // another run produced the file first
//	}
package util

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history keeps a ledger of conversion runs in SQLite.
//
// Every pipeline run that reaches the publish step records one Entry:
// the source export, the conversation, the artifact path and whether the
// artifact was created or already existed. The ledger backs the
// "chatpdf history" command.
//
// # Usage
//
//	store, err := history.Open(path)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//	err = store.Record(ctx, &history.Entry{Name: "Bob", Path: out, Status: history.StatusCreated})
package history

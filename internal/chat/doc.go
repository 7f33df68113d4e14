// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat holds the conversation data model and the export loader.
//
// A chat export is a JSON record with a conversation kind, a name and an
// ordered list of messages. Load and Parse validate that record and return
// an immutable Conversation; messages keep their source order.
//
// # Key Types
//
//   - Conversation: one parsed export (Kind, Name, Messages)
//   - Message: a text, service or unknown message with optional sender fields
//   - TextContent: Plain(string) or Rich([]TextSegment), decided at parse time
//   - TextSegment: PlainText, Mention, Link or AnchorLink
//
// # Errors
//
// Structural problems are reported as *MalformedExportError, unknown
// conversation kinds as *UnsupportedKindError. Both match their sentinels
// (ErrMalformedExport, ErrUnsupportedKind) with errors.Is.
//
// # Usage
//
//	conv, err := chat.Load("result.json")
//	if err != nil {
//	    return err
//	}
//	for _, msg := range conv.Messages {
//	    sender, err := msg.Sender()
//	    ...
//	}
package chat

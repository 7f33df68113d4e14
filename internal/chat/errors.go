// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"fmt"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrMalformedExport is matched by every structural load failure.
	ErrMalformedExport = errors.New("malformed export")

	// ErrEmptyConversation is returned when a conversation has no messages.
	ErrEmptyConversation = errors.New("conversation has no messages")

	// ErrUnsupportedKind is matched by UnsupportedKindError.
	ErrUnsupportedKind = errors.New("unsupported conversation kind")

	// ErrSenderMissing is returned by Message.Sender when neither the from
	// nor the actor field is present. Callers recover from it.
	ErrSenderMissing = errors.New("message has neither from nor actor")
)

// MalformedExportError describes a missing or invalid field in an export.
type MalformedExportError struct {
	Field  string // JSON path of the offending field (e.g. "messages[3].date")
	Reason string // Human-readable reason
	Err    error  // Underlying decode error (if any)
}

func (e *MalformedExportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed export: %s: %s: %v", e.Field, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed export: %s: %s", e.Field, e.Reason)
}

func (e *MalformedExportError) Unwrap() error {
	return e.Err
}

// Is reports ErrMalformedExport as a match.
func (e *MalformedExportError) Is(target error) bool {
	return target == ErrMalformedExport
}

// UnsupportedKindError is returned for conversation kinds other than the
// personal and group kinds. The loader never falls back to a default.
type UnsupportedKindError struct {
	Kind string
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("unsupported conversation kind %q", e.Kind)
}

// Is reports ErrUnsupportedKind as a match.
func (e *UnsupportedKindError) Is(target error) bool {
	return target == ErrUnsupportedKind
}

func malformed(field, reason string, err error) error {
	return &MalformedExportError{Field: field, Reason: reason, Err: err}
}

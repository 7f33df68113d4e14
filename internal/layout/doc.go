// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package layout turns a conversation into an ordered list of style-free
// document blocks.
//
// The Engine walks messages in source order with two pieces of state: the
// previous day label (a DateSeparator is emitted whenever it changes) and,
// for group conversations, the previous actor (an ActorHeader is emitted
// whenever it changes). Everything that differs between personal and group
// conversations lives behind the Policy interface.
//
// # Block Sequence
//
//	Title, PeriodLabel,
//	  DateSeparator, [ActorHeader], MessageBody | ServiceNotice, ...
//
// Block text is inline markup produced by package normalize.
package layout

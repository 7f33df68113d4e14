// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package timerange computes the time span of a conversation and formats
// dates for document labels and output names.
//
// Analyze picks the earliest and latest message timestamps by comparing the
// raw ISO-8601 strings, which sort in temporal order. A Formatter turns a
// timestamp into the long in-document form ("5 March 2024") or the short
// identifier form ("05.03.2024"). Formatters are plain values: the locale is
// passed in, never read from process state.
package timerange

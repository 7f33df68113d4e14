// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package normalize turns message text into the inline markup consumed by
// the document renderers.
//
// The markup is deliberately small:
//
//	<a href="URL">text</a>   inline hyperlink
//	<br/>                    line break ("\n" becomes two, a paragraph break)
//	&lt; &gt;                escaped angle brackets from message text
//
// Pictographic characters (emoji, including multi-rune sequences such as
// flags and ZWJ families) are replaced by a fixed placeholder token because
// the document fonts cannot draw them.
package normalize

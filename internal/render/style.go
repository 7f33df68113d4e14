// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"github.com/jeranaias/chatpdf/internal/layout"
)

// =============================================================================
// STYLES
// =============================================================================

// Align is the horizontal alignment of a paragraph.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Color is an RGB text color.
type Color struct {
	R, G, B int
}

var (
	Black = Color{0, 0, 0}
	Grey  = Color{128, 128, 128}
)

// Style describes one paragraph style. Sizes are in points.
type Style struct {
	Size        float64
	Leading     float64 // Line height
	Bold        bool
	Upper       bool // Upper-case the text before drawing
	Align       Align
	Color       Color
	SpaceBefore float64
	SpaceAfter  float64
	Rules       bool // Half-width rules above and below
}

// StyleTable maps block kinds and roles to styles.
type StyleTable struct {
	Title        Style
	Period       Style
	Date         Style
	Actor        Style
	Self         Style
	Partner      Style
	GroupMessage Style
	Notice       Style

	// Link is the color of link runs. Links are also underlined.
	Link Color
}

// DefaultStyles returns the standard style table.
func DefaultStyles() *StyleTable {
	return &StyleTable{
		Title: Style{
			Size: 40, Leading: 48, Bold: true, Upper: true,
			Align: AlignCenter, Color: Black, SpaceAfter: 40,
		},
		Period: Style{
			Size: 12, Leading: 14.4, Align: AlignCenter, Color: Black,
		},
		Date: Style{
			Size: 8, Leading: 9.6, Align: AlignCenter, Color: Grey,
			SpaceBefore: 30, Rules: true,
		},
		Actor: Style{
			Size: 13, Leading: 15.6, Align: AlignCenter, Color: Grey,
			SpaceBefore: 25, SpaceAfter: 25,
		},
		Self: Style{
			Size: 11, Leading: 15, Align: AlignRight, Color: Black,
			SpaceBefore: 25, SpaceAfter: 25,
		},
		Partner: Style{
			Size: 11, Leading: 15, Align: AlignLeft, Color: Grey,
			SpaceBefore: 25, SpaceAfter: 25,
		},
		GroupMessage: Style{
			Size: 12, Leading: 15, Align: AlignCenter, Color: Black,
			SpaceBefore: 25, SpaceAfter: 25,
		},
		Notice: Style{
			Size: 13, Leading: 15.6, Align: AlignCenter, Color: Grey,
			SpaceBefore: 25, SpaceAfter: 25,
		},
		Link: Grey,
	}
}

// For returns the style of a block.
func (t *StyleTable) For(b layout.Block) Style {
	switch b.Kind {
	case layout.BlockTitle:
		return t.Title
	case layout.BlockPeriodLabel:
		return t.Period
	case layout.BlockDateSeparator:
		return t.Date
	case layout.BlockActorHeader:
		return t.Actor
	case layout.BlockServiceNotice:
		return t.Notice
	case layout.BlockMessageBody:
		switch b.Role {
		case layout.RoleSelf:
			return t.Self
		case layout.RolePartner:
			return t.Partner
		default:
			return t.GroupMessage
		}
	default:
		return t.GroupMessage
	}
}

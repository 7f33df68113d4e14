// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package layout

// BlockKind tags a Block.
type BlockKind int

const (
	BlockTitle BlockKind = iota + 1
	BlockPeriodLabel
	BlockDateSeparator
	BlockActorHeader
	BlockMessageBody
	BlockServiceNotice
)

// String returns the block kind name.
func (k BlockKind) String() string {
	switch k {
	case BlockTitle:
		return "title"
	case BlockPeriodLabel:
		return "period"
	case BlockDateSeparator:
		return "date"
	case BlockActorHeader:
		return "actor"
	case BlockMessageBody:
		return "message"
	case BlockServiceNotice:
		return "notice"
	default:
		return "unknown"
	}
}

// RoleTag attributes a MessageBody.
type RoleTag int

const (
	RoleNone    RoleTag = iota
	RoleSelf            // Personal: written by the exporting user
	RolePartner         // Personal: written by the conversation partner
	RoleActor           // Group: attributed by the preceding ActorHeader
)

// String returns the role name.
func (r RoleTag) String() string {
	switch r {
	case RoleSelf:
		return "self"
	case RolePartner:
		return "partner"
	case RoleActor:
		return "actor"
	default:
		return "none"
	}
}

// Block is one abstract unit of document content.
type Block struct {
	Kind BlockKind
	Role RoleTag // Set on MessageBody only
	Text string  // Inline markup
}

// Title returns a title block.
func Title(name string) Block { return Block{Kind: BlockTitle, Text: name} }

// PeriodLabel returns a period block.
func PeriodLabel(label string) Block { return Block{Kind: BlockPeriodLabel, Text: label} }

// DateSeparator returns a date separator block.
func DateSeparator(date string) Block { return Block{Kind: BlockDateSeparator, Text: date} }

// ActorHeader returns an actor header block.
func ActorHeader(name string) Block { return Block{Kind: BlockActorHeader, Text: name} }

// MessageBody returns a role-tagged message body.
func MessageBody(role RoleTag, text string) Block {
	return Block{Kind: BlockMessageBody, Role: role, Text: text}
}

// ServiceNotice returns a service notice block.
func ServiceNotice(text string) Block { return Block{Kind: BlockServiceNotice, Text: text} }

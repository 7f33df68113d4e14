// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"
)

// =============================================================================
// CONVERSATION
// =============================================================================

// Kind is the conversation kind. It selects the layout policy.
type Kind int

const (
	// KindPersonal is a two-party conversation.
	KindPersonal Kind = iota + 1
	// KindGroup is a multi-party conversation.
	KindGroup
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindPersonal:
		return "personal"
	case KindGroup:
		return "group"
	default:
		return "unknown"
	}
}

// Conversation is one parsed chat export.
// Messages are kept in source order and are never re-sorted.
type Conversation struct {
	Kind     Kind
	Name     string
	RawKind  string // Export "type" value (e.g. "personal_chat")
	Messages []Message
}

// =============================================================================
// MESSAGE
// =============================================================================

// MessageKind distinguishes ordinary messages from service events.
type MessageKind int

const (
	MessageUnknown MessageKind = iota
	MessageText
	MessageService
)

// String returns the export name of the message kind.
func (k MessageKind) String() string {
	switch k {
	case MessageText:
		return "message"
	case MessageService:
		return "service"
	default:
		return "unknown"
	}
}

// MediaKind is the media annotation carried by a message.
type MediaKind string

const (
	MediaNone         MediaKind = ""
	MediaVoiceMessage MediaKind = "voice_message"
	MediaVideoMessage MediaKind = "video_message"
	MediaVideo        MediaKind = "video"
	MediaPhoto        MediaKind = "photo"
	MediaSticker      MediaKind = "sticker"
	MediaOther        MediaKind = "other"
	MediaCall         MediaKind = "call"
)

// Service actions with dedicated rendering.
const (
	ActionPhoneCall       = "phone_call"
	ActionGroupCall       = "group_call"
	ActionInviteMembers   = "invite_members"
	ActionCreateGroup     = "create_group"
	ActionJoinGroupByLink = "join_group_by_link"
)

// Message is one entry of a conversation.
type Message struct {
	ID        int64
	Timestamp string    // Raw ISO-8601 value from the export
	Time      time.Time // Parsed Timestamp
	Kind      MessageKind
	RawKind   string // Export "type" value

	// From and Actor are nil when the field is absent or null.
	// Ordinary messages carry From, service messages carry Actor.
	From  *string
	Actor *string

	Content TextContent
	Media   MediaKind

	// Service event fields.
	Action          string
	Title           string // New group title for title changes
	Members         []string
	DurationSeconds int
}

// Sender returns the author of the message.
// The from field takes precedence; actor is the fallback. When neither is
// present ErrSenderMissing is returned.
func (m *Message) Sender() (string, error) {
	if m.From != nil && *m.From != "" {
		return *m.From, nil
	}
	if m.Actor != nil && *m.Actor != "" {
		return *m.Actor, nil
	}
	return "", ErrSenderMissing
}

// IsService reports whether the message is a service event.
func (m *Message) IsService() bool {
	return m.Kind == MessageService
}

// =============================================================================
// TEXT CONTENT
// =============================================================================

// SegmentKind tags a TextSegment.
type SegmentKind int

const (
	SegmentUnknown SegmentKind = iota
	SegmentPlain
	SegmentMention
	SegmentLink
	SegmentAnchorLink
)

// TextSegment is one typed part of a rich message text.
type TextSegment struct {
	Kind SegmentKind
	Text string // Plain text, mention handle, link URL or anchor display text
	Href string // Target of an AnchorLink
	Tag  string // Export tag of the segment (e.g. "bold", "text_link")
}

// PlainSegment returns a PlainText segment.
func PlainSegment(text string) TextSegment {
	return TextSegment{Kind: SegmentPlain, Text: text, Tag: "plain"}
}

// MentionSegment returns a Mention segment for a handle such as "@alice".
func MentionSegment(handle string) TextSegment {
	return TextSegment{Kind: SegmentMention, Text: handle, Tag: "mention"}
}

// LinkSegment returns a self-referential Link segment.
func LinkSegment(url string) TextSegment {
	return TextSegment{Kind: SegmentLink, Text: url, Tag: "link"}
}

// AnchorSegment returns a link with separate display text.
func AnchorSegment(href, text string) TextSegment {
	return TextSegment{Kind: SegmentAnchorLink, Text: text, Href: href, Tag: "text_link"}
}

// TextContent is either a plain string or an ordered list of segments.
// The variant is decided once, at parse time.
type TextContent struct {
	rich     bool
	plain    string
	segments []TextSegment
}

// Plain returns plain text content.
func Plain(s string) TextContent {
	return TextContent{plain: s}
}

// Rich returns segmented text content.
func Rich(segments ...TextSegment) TextContent {
	return TextContent{rich: true, segments: segments}
}

// IsRich reports whether the content is segmented.
func (c TextContent) IsRich() bool {
	return c.rich
}

// PlainText returns the plain variant. It is empty for rich content.
func (c TextContent) PlainText() string {
	return c.plain
}

// Segments returns the rich variant. It is nil for plain content.
func (c TextContent) Segments() []TextSegment {
	return c.segments
}

// IsEmpty reports whether the content carries no text.
func (c TextContent) IsEmpty() bool {
	if !c.rich {
		return c.plain == ""
	}
	for _, seg := range c.segments {
		if seg.Kind != SegmentUnknown && seg.Text != "" {
			return false
		}
	}
	return true
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// =============================================================================
// EXPORT LOADER
// =============================================================================

// rawMessage mirrors one element of the export "messages" array.
type rawMessage struct {
	ID              int64           `json:"id"`
	Type            string          `json:"type"`
	Date            *string         `json:"date"`
	From            *string         `json:"from"`
	Actor           *string         `json:"actor"`
	Text            json.RawMessage `json:"text"` // string or array of segments
	MediaType       string          `json:"media_type"`
	Photo           json.RawMessage `json:"photo"`
	File            json.RawMessage `json:"file"`
	Poll            json.RawMessage `json:"poll"`
	Location        json.RawMessage `json:"location_information"`
	Contact         json.RawMessage `json:"contact_information"`
	Title           string          `json:"title"`
	Action          string          `json:"action"`
	Members         []*string       `json:"members"`
	DurationSeconds int             `json:"duration_seconds"`
}

// rawSegment mirrors an object element of a rich "text" array.
type rawSegment struct {
	Type string `json:"type"`
	Text string `json:"text"`
	Href string `json:"href"`
}

// timestampLayouts are tried in order when parsing message dates.
var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Load reads and validates the export at path.
func Load(path string) (*Conversation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export: %w", err)
	}
	defer f.Close()

	conv, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return conv, nil
}

// Parse decodes and validates an export from r.
func Parse(r io.Reader) (*Conversation, error) {
	var top map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&top); err != nil {
		return nil, malformed("$", "not a JSON object", err)
	}

	rawKind, err := requireString(top, "type")
	if err != nil {
		return nil, err
	}
	name, err := requireString(top, "name")
	if err != nil {
		return nil, err
	}

	kind, err := ParseKind(rawKind)
	if err != nil {
		return nil, err
	}

	rawMessages, ok := top["messages"]
	if !ok || isNull(rawMessages) {
		return nil, malformed("messages", "missing", nil)
	}
	var items []rawMessage
	if err := json.Unmarshal(rawMessages, &items); err != nil {
		return nil, malformed("messages", "not a list of message objects", err)
	}

	messages := make([]Message, 0, len(items))
	for i := range items {
		msg, err := convertMessage(&items[i], i)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	return &Conversation{
		Kind:     kind,
		Name:     name,
		RawKind:  rawKind,
		Messages: messages,
	}, nil
}

// ParseKind maps an export "type" value to a conversation Kind.
// Kinds other than personal chats and groups are rejected.
func ParseKind(raw string) (Kind, error) {
	switch raw {
	case "personal_chat":
		return KindPersonal, nil
	case "private_group", "private_supergroup", "public_supergroup", "group":
		return KindGroup, nil
	default:
		return 0, &UnsupportedKindError{Kind: raw}
	}
}

// ParseTimestamp parses an ISO-8601 message date.
func ParseTimestamp(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func requireString(top map[string]json.RawMessage, field string) (string, error) {
	raw, ok := top[field]
	if !ok || isNull(raw) {
		return "", malformed(field, "missing", nil)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", malformed(field, "not a string", err)
	}
	if strings.TrimSpace(s) == "" {
		return "", malformed(field, "empty", nil)
	}
	return s, nil
}

func convertMessage(raw *rawMessage, index int) (Message, error) {
	field := fmt.Sprintf("messages[%d].date", index)
	if raw.Date == nil || *raw.Date == "" {
		return Message{}, malformed(field, "missing", nil)
	}
	ts, err := ParseTimestamp(*raw.Date)
	if err != nil {
		return Message{}, malformed(field, "not an ISO-8601 timestamp", err)
	}

	msg := Message{
		ID:              raw.ID,
		Timestamp:       *raw.Date,
		Time:            ts,
		RawKind:         raw.Type,
		From:            raw.From,
		Actor:           raw.Actor,
		Content:         decodeText(raw.Text),
		Action:          raw.Action,
		Title:           raw.Title,
		DurationSeconds: raw.DurationSeconds,
	}

	switch raw.Type {
	case "message":
		msg.Kind = MessageText
	case "service":
		msg.Kind = MessageService
	default:
		msg.Kind = MessageUnknown
	}

	for _, member := range raw.Members {
		if member != nil && *member != "" {
			msg.Members = append(msg.Members, *member)
		}
	}

	msg.Media = decodeMedia(raw)
	return msg, nil
}

func decodeMedia(raw *rawMessage) MediaKind {
	if raw.Type == "service" && (raw.Action == ActionPhoneCall || raw.Action == ActionGroupCall) {
		return MediaCall
	}
	if present(raw.Photo) {
		return MediaPhoto
	}
	switch raw.MediaType {
	case "":
		if present(raw.File) || present(raw.Poll) || present(raw.Location) || present(raw.Contact) {
			return MediaOther
		}
		return MediaNone
	case "voice_message":
		return MediaVoiceMessage
	case "video_message":
		return MediaVideoMessage
	case "video_file", "video", "animation":
		return MediaVideo
	case "sticker":
		return MediaSticker
	case "photo":
		return MediaPhoto
	default:
		return MediaOther
	}
}

// decodeText decides the TextContent variant once. Values that are neither a
// string nor an array decode to empty plain text.
func decodeText(raw json.RawMessage) TextContent {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || isNull(raw) {
		return Plain("")
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Plain("")
		}
		return Plain(s)
	case '[':
		var parts []json.RawMessage
		if err := json.Unmarshal(raw, &parts); err != nil {
			return Plain("")
		}
		segments := make([]TextSegment, 0, len(parts))
		for _, part := range parts {
			segments = append(segments, decodeSegment(part))
		}
		return Rich(segments...)
	default:
		return Plain("")
	}
}

// formattingTags carry their text verbatim.
var formattingTags = map[string]bool{
	"plain":         true,
	"bold":          true,
	"italic":        true,
	"underline":     true,
	"strikethrough": true,
	"code":          true,
	"pre":           true,
	"hashtag":       true,
	"cashtag":       true,
	"bot_command":   true,
	"phone":         true,
	"email":         true,
	"spoiler":       true,
	"blockquote":    true,
	"custom_emoji":  true,
	"mention_name":  true,
	"bank_card":     true,
}

func decodeSegment(raw json.RawMessage) TextSegment {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return PlainSegment(s)
		}
		return TextSegment{Kind: SegmentUnknown}
	}

	var seg rawSegment
	if err := json.Unmarshal(raw, &seg); err != nil {
		return TextSegment{Kind: SegmentUnknown}
	}

	switch {
	case seg.Type == "mention":
		return MentionSegment(seg.Text)
	case seg.Type == "link":
		return LinkSegment(seg.Text)
	case seg.Type == "text_link":
		return AnchorSegment(seg.Href, seg.Text)
	case formattingTags[seg.Type]:
		return TextSegment{Kind: SegmentPlain, Text: seg.Text, Tag: seg.Type}
	default:
		return TextSegment{Kind: SegmentUnknown, Text: seg.Text, Tag: seg.Type}
	}
}

func present(raw json.RawMessage) bool {
	return len(raw) > 0 && !isNull(raw)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const personalExport = `{
  "name": "Bob",
  "type": "personal_chat",
  "id": 42,
  "messages": [
    {"id": 1, "type": "message", "date": "2024-03-05T10:00:00", "from": "Alice", "text": "hi"},
    {"id": 2, "type": "message", "date": "2024-03-05T10:01:00", "from": "Bob",
     "text": [{"type": "mention", "text": "@alice"}, " hi", {"type": "bold", "text": "!"}]},
    {"id": 3, "type": "service", "date": "2024-03-06T09:00:00", "actor": "Bob",
     "action": "phone_call", "duration_seconds": 65, "text": ""},
    {"id": 4, "type": "message", "date": "2024-03-06T09:05:00", "from": "Alice",
     "media_type": "sticker", "text": ""},
    {"id": 5, "type": "message", "date": "2024-03-06T09:06:00", "from": "Alice",
     "photo": "photos/photo_1.jpg", "text": "look"}
  ]
}`

func TestParse_PersonalExport(t *testing.T) {
	conv, err := Parse(strings.NewReader(personalExport))
	require.NoError(t, err)

	assert.Equal(t, KindPersonal, conv.Kind)
	assert.Equal(t, "Bob", conv.Name)
	assert.Equal(t, "personal_chat", conv.RawKind)
	require.Len(t, conv.Messages, 5)

	first := conv.Messages[0]
	assert.Equal(t, MessageText, first.Kind)
	assert.False(t, first.Content.IsRich())
	assert.Equal(t, "hi", first.Content.PlainText())
	assert.Equal(t, 2024, first.Time.Year())

	second := conv.Messages[1]
	require.True(t, second.Content.IsRich())
	segs := second.Content.Segments()
	require.Len(t, segs, 3)
	assert.Equal(t, SegmentMention, segs[0].Kind)
	assert.Equal(t, "@alice", segs[0].Text)
	assert.Equal(t, SegmentPlain, segs[1].Kind)
	assert.Equal(t, " hi", segs[1].Text)
	assert.Equal(t, SegmentPlain, segs[2].Kind)
	assert.Equal(t, "bold", segs[2].Tag)

	call := conv.Messages[2]
	assert.True(t, call.IsService())
	assert.Equal(t, MediaCall, call.Media)
	assert.Equal(t, 65, call.DurationSeconds)

	assert.Equal(t, MediaSticker, conv.Messages[3].Media)
	assert.Equal(t, MediaPhoto, conv.Messages[4].Media)
}

func TestParse_GroupKinds(t *testing.T) {
	for _, raw := range []string{"private_group", "private_supergroup", "public_supergroup"} {
		t.Run(raw, func(t *testing.T) {
			input := `{"name":"Team","type":"` + raw + `","messages":[]}`
			conv, err := Parse(strings.NewReader(input))
			require.NoError(t, err)
			assert.Equal(t, KindGroup, conv.Kind)
			assert.Empty(t, conv.Messages)
		})
	}
}

func TestParse_MalformedExports(t *testing.T) {
	tests := []struct {
		name  string
		input string
		field string
	}{
		{"not json", `nope`, "$"},
		{"missing type", `{"name":"x","messages":[]}`, "type"},
		{"missing name", `{"type":"personal_chat","messages":[]}`, "name"},
		{"null name", `{"type":"personal_chat","name":null,"messages":[]}`, "name"},
		{"numeric name", `{"type":"personal_chat","name":5,"messages":[]}`, "name"},
		{"missing messages", `{"type":"personal_chat","name":"x"}`, "messages"},
		{"messages not a list", `{"type":"personal_chat","name":"x","messages":{}}`, "messages"},
		{"missing date", `{"type":"personal_chat","name":"x","messages":[{"type":"message","from":"a","text":""}]}`, "messages[0].date"},
		{"bad date", `{"type":"personal_chat","name":"x","messages":[{"type":"message","date":"yesterday","text":""}]}`, "messages[0].date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedExport), "expected ErrMalformedExport, got %v", err)

			var mErr *MalformedExportError
			require.True(t, errors.As(err, &mErr))
			assert.Equal(t, tt.field, mErr.Field)
		})
	}
}

func TestParse_UnsupportedKind(t *testing.T) {
	_, err := Parse(strings.NewReader(`{"name":"News","type":"public_channel","messages":[]}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedKind))

	var kErr *UnsupportedKindError
	require.True(t, errors.As(err, &kErr))
	assert.Equal(t, "public_channel", kErr.Kind)
}

func TestMessage_SenderFallback(t *testing.T) {
	from, actor, empty := "Alice", "Carol", ""

	tests := []struct {
		name    string
		msg     Message
		want    string
		wantErr error
	}{
		{"from only", Message{From: &from}, "Alice", nil},
		{"actor only", Message{Actor: &actor}, "Carol", nil},
		{"from wins", Message{From: &from, Actor: &actor}, "Alice", nil},
		{"empty from falls back", Message{From: &empty, Actor: &actor}, "Carol", nil},
		{"neither", Message{}, "", ErrSenderMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.msg.Sender()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeText_Lenient(t *testing.T) {
	content := decodeText([]byte(`["a", {"type":"future_tag","text":"x"}, 7, {"type":"link","text":"https://example.com"}]`))
	require.True(t, content.IsRich())

	segs := content.Segments()
	require.Len(t, segs, 4)
	assert.Equal(t, SegmentPlain, segs[0].Kind)
	assert.Equal(t, SegmentUnknown, segs[1].Kind)
	assert.Equal(t, "future_tag", segs[1].Tag)
	assert.Equal(t, SegmentUnknown, segs[2].Kind)
	assert.Equal(t, SegmentLink, segs[3].Kind)

	assert.Equal(t, Plain(""), decodeText(nil))
	assert.Equal(t, Plain(""), decodeText([]byte(`null`)))
	assert.Equal(t, Plain(""), decodeText([]byte(`{"x":1}`)))
}

func TestTextContent_IsEmpty(t *testing.T) {
	assert.True(t, Plain("").IsEmpty())
	assert.False(t, Plain("x").IsEmpty())
	assert.True(t, Rich().IsEmpty())
	assert.True(t, Rich(TextSegment{Kind: SegmentUnknown, Text: "x"}).IsEmpty())
	assert.False(t, Rich(LinkSegment("https://example.com")).IsEmpty())
}

func TestParseTimestamp(t *testing.T) {
	for _, s := range []string{"2024-03-05T10:00:00", "2024-03-05T10:00:00+02:00", "2024-03-05"} {
		ts, err := ParseTimestamp(s)
		require.NoError(t, err, s)
		assert.Equal(t, 5, ts.Day(), s)
	}
	_, err := ParseTimestamp("05/03/2024")
	assert.Error(t, err)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")
	require.NoError(t, os.WriteFile(path, []byte(personalExport), 0644))

	conv, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Bob", conv.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

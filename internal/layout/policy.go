// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package layout

import (
	"fmt"
	"strings"

	"github.com/jeranaias/chatpdf/internal/chat"
	"github.com/jeranaias/chatpdf/internal/normalize"
)

// =============================================================================
// POLICY INTERFACE
// =============================================================================

// Env is what a Policy may consult while laying out one conversation.
type Env struct {
	Conversation *chat.Conversation
	Normalizer   *normalize.Normalizer
	Upper        func(string) string // Locale-aware upper-casing
}

// Policy holds the layout rules that differ between conversation kinds.
type Policy interface {
	// ResolveRole returns the role tag of a message body written by sender.
	ResolveRole(env *Env, sender string) RoleTag

	// ResolveActorChange reports whether an ActorHeader must precede a
	// message by sender, given the previous acting participant.
	ResolveActorChange(previous, sender string) bool

	// FormatServiceEvent renders a service message. When ok is false the
	// engine lays the message out as an ordinary one.
	FormatServiceEvent(env *Env, msg *chat.Message, sender string) (block Block, ok bool)

	// MediaPrefix returns the bracketed tag placed before a caption, or ""
	// for messages without media.
	MediaPrefix(media chat.MediaKind) string
}

// PolicyFor returns the policy of a conversation kind.
func PolicyFor(conv *chat.Conversation) (Policy, error) {
	switch conv.Kind {
	case chat.KindPersonal:
		return personalPolicy{}, nil
	case chat.KindGroup:
		return groupPolicy{}, nil
	default:
		return nil, &chat.UnsupportedKindError{Kind: conv.RawKind}
	}
}

// mediaTags are the bracketed placeholders for media annotations.
var mediaTags = map[chat.MediaKind]string{
	chat.MediaVoiceMessage: "(VOICE MESSAGE)",
	chat.MediaVideoMessage: "(VIDEO MESSAGE)",
	chat.MediaVideo:        "(VIDEO)",
	chat.MediaPhoto:        "(PHOTO)",
	chat.MediaSticker:      "(STICKER)",
	chat.MediaOther:        "(OTHER)",
	chat.MediaCall:         "(CALL)",
}

// MediaTag returns the placeholder of a media kind.
func MediaTag(media chat.MediaKind) string {
	return mediaTags[media]
}

// =============================================================================
// PERSONAL
// =============================================================================

// personalPolicy tags every body Self or Partner. The conversation name of a
// personal export is the partner's display name.
type personalPolicy struct{}

func (personalPolicy) ResolveRole(env *Env, sender string) RoleTag {
	if sender == env.Conversation.Name {
		return RolePartner
	}
	return RoleSelf
}

func (personalPolicy) ResolveActorChange(previous, sender string) bool {
	return false
}

func (p personalPolicy) FormatServiceEvent(env *Env, msg *chat.Message, sender string) (Block, bool) {
	role := p.ResolveRole(env, sender)

	if msg.Media == chat.MediaCall {
		return MessageBody(role, MediaTag(chat.MediaCall)+callDuration(msg.DurationSeconds)), true
	}

	if text := env.Normalizer.Normalize(msg.Content); text != "" {
		return MessageBody(role, text), true
	}
	return MessageBody(role, "("+env.Upper(actionWords(msg.Action))+")"), true
}

func (personalPolicy) MediaPrefix(media chat.MediaKind) string {
	return MediaTag(media)
}

// =============================================================================
// GROUP
// =============================================================================

// groupPolicy attributes bodies through actor headers and renders service
// events as centered notices.
type groupPolicy struct{}

func (groupPolicy) ResolveRole(env *Env, sender string) RoleTag {
	return RoleActor
}

func (groupPolicy) ResolveActorChange(previous, sender string) bool {
	return previous != sender
}

// serviceVerbs phrase the service actions without dedicated rendering.
var serviceVerbs = map[string]string{
	"pin_message":           "pinned a message",
	"edit_group_photo":      "changed the group photo",
	"delete_group_photo":    "removed the group photo",
	"migrate_to_supergroup": "converted the group to a supergroup",
	"migrate_from_group":    "converted the group to a supergroup",
	"clear_history":         "cleared the history",
	"score_in_game":         "scored in a game",
}

func (groupPolicy) FormatServiceEvent(env *Env, msg *chat.Message, sender string) (Block, bool) {
	actor := env.Upper(sender)

	var text string
	switch msg.Action {
	case chat.ActionInviteMembers, chat.ActionCreateGroup:
		switch {
		case len(msg.Members) > 0:
			text = actor + " invited " + upperMembers(env, msg.Members)
		case msg.Action == chat.ActionCreateGroup:
			text = actor + " created the group"
		default:
			text = actor + " invited members"
		}
	case chat.ActionJoinGroupByLink:
		text = actor + " joined"
	case chat.ActionPhoneCall, chat.ActionGroupCall:
		text = actor + " " + MediaTag(chat.MediaCall) + callDuration(msg.DurationSeconds)
	case "remove_members":
		text = actor + " removed " + upperMembers(env, msg.Members)
	case "edit_group_title":
		text = actor + " changed the group title to " + msg.Title
	default:
		verb, ok := serviceVerbs[msg.Action]
		if !ok {
			verb = actionWords(msg.Action)
		}
		text = actor + " " + verb
	}
	return ServiceNotice(env.Normalizer.Text(strings.TrimSpace(text))), true
}

func (groupPolicy) MediaPrefix(media chat.MediaKind) string {
	return MediaTag(media)
}

// =============================================================================
// HELPERS
// =============================================================================

func upperMembers(env *Env, members []string) string {
	upper := make([]string, len(members))
	for i, m := range members {
		upper[i] = env.Upper(m)
	}
	return strings.Join(upper, ", ")
}

// actionWords turns "pin_message" into "pin message".
func actionWords(action string) string {
	if action == "" {
		return "service"
	}
	return strings.ReplaceAll(action, "_", " ")
}

// callDuration formats a call length as " m:ss", or "" when unknown.
func callDuration(seconds int) string {
	if seconds <= 0 {
		return ""
	}
	return fmt.Sprintf(" %d:%02d", seconds/60, seconds%60)
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package layout

import (
	"errors"
	"log/slog"

	"golang.org/x/text/cases"

	"github.com/jeranaias/chatpdf/internal/chat"
	"github.com/jeranaias/chatpdf/internal/normalize"
	"github.com/jeranaias/chatpdf/internal/timerange"
)

// DefaultUnknownSender attributes messages without from and actor fields.
const DefaultUnknownSender = "Unknown"

// Options configures an Engine.
type Options struct {
	// Formatter renders day labels and the period label.
	Formatter timerange.Formatter

	// Normalizer renders message text. Default: normalize.New(normalize.Options{})
	Normalizer *normalize.Normalizer

	// UnknownSender replaces a missing sender. Default: "Unknown"
	UnknownSender string

	// Logger receives warnings about recovered input problems.
	Logger *slog.Logger
}

// Engine lays out conversations. It is not safe for concurrent use.
type Engine struct {
	formatter     timerange.Formatter
	normalizer    *normalize.Normalizer
	unknownSender string
	upper         cases.Caser
	logger        *slog.Logger
}

// New creates an Engine.
func New(opts Options) *Engine {
	if opts.Normalizer == nil {
		opts.Normalizer = normalize.New(normalize.Options{})
	}
	if opts.UnknownSender == "" {
		opts.UnknownSender = DefaultUnknownSender
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Engine{
		formatter:     opts.Formatter,
		normalizer:    opts.Normalizer,
		unknownSender: opts.UnknownSender,
		upper:         cases.Upper(opts.Formatter.Tag()),
		logger:        opts.Logger,
	}
}

// Layout returns the blocks of conv in document order. rng is the
// conversation's time range as computed by timerange.Analyze.
func (e *Engine) Layout(conv *chat.Conversation, rng timerange.Range) ([]Block, error) {
	policy, err := PolicyFor(conv)
	if err != nil {
		return nil, err
	}

	env := &Env{
		Conversation: conv,
		Normalizer:   e.normalizer,
		Upper:        e.upper.String,
	}

	blocks := make([]Block, 0, 2+2*len(conv.Messages))
	blocks = append(blocks,
		Title(e.normalizer.Text(conv.Name)),
		PeriodLabel(rng.Label(e.formatter)),
	)

	var previousDate, previousActor string
	for i := range conv.Messages {
		msg := &conv.Messages[i]

		if label := e.formatter.Long(msg.Time); label != previousDate {
			blocks = append(blocks, DateSeparator(label))
			previousDate = label
		}

		sender := e.sender(msg)

		if msg.IsService() {
			if block, ok := policy.FormatServiceEvent(env, msg, sender); ok {
				blocks = append(blocks, block)
				continue
			}
		}

		text := e.body(policy, msg)
		if text == "" {
			e.logger.Debug("skipping empty message", "id", msg.ID, "type", msg.RawKind)
			continue
		}

		if policy.ResolveActorChange(previousActor, sender) {
			blocks = append(blocks, ActorHeader(e.normalizer.Text(env.Upper(sender))))
			previousActor = sender
		}
		blocks = append(blocks, MessageBody(policy.ResolveRole(env, sender), text))
	}

	return blocks, nil
}

// sender resolves the acting participant, recovering from a message that
// carries neither sender field.
func (e *Engine) sender(msg *chat.Message) string {
	sender, err := msg.Sender()
	if errors.Is(err, chat.ErrSenderMissing) {
		e.logger.Warn("message has no sender", "id", msg.ID, "date", msg.Timestamp)
		return e.unknownSender
	}
	return sender
}

// body renders the message text with its media prefix. The prefix is kept
// even when the caption is empty.
func (e *Engine) body(policy Policy, msg *chat.Message) string {
	text := e.normalizer.Normalize(msg.Content)
	prefix := policy.MediaPrefix(msg.Media)
	switch {
	case prefix == "":
		return text
	case text == "":
		return prefix
	default:
		return prefix + " " + text
	}
}

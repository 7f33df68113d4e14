// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package timerange

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/jeranaias/chatpdf/internal/chat"
)

// RangeSeparator joins the two ends of a formatted range.
const RangeSeparator = " — "

// =============================================================================
// RANGE ANALYSIS
// =============================================================================

// Range is the earliest and latest timestamp of a conversation.
type Range struct {
	Earliest string // Raw ISO-8601 value
	Latest   string // Raw ISO-8601 value
	Start    time.Time
	End      time.Time
}

// Analyze scans the messages once and returns their time range.
// Timestamps are compared as strings; ISO-8601 values sort chronologically.
func Analyze(messages []chat.Message) (Range, error) {
	if len(messages) == 0 {
		return Range{}, chat.ErrEmptyConversation
	}

	r := Range{
		Earliest: messages[0].Timestamp,
		Latest:   messages[0].Timestamp,
		Start:    messages[0].Time,
		End:      messages[0].Time,
	}
	for i := 1; i < len(messages); i++ {
		msg := &messages[i]
		if msg.Timestamp < r.Earliest {
			r.Earliest = msg.Timestamp
			r.Start = msg.Time
		}
		if msg.Timestamp > r.Latest {
			r.Latest = msg.Timestamp
			r.End = msg.Time
		}
	}
	return r, nil
}

// Label returns the in-document range, e.g. "5 March 2024 — 9 April 2024".
func (r Range) Label(f Formatter) string {
	return f.Long(r.Start) + RangeSeparator + f.Long(r.End)
}

// Identifier returns the range used in output names,
// e.g. "05.03.2024 — 09.04.2024".
func (r Range) Identifier(f Formatter) string {
	return f.Short(r.Start) + RangeSeparator + f.Short(r.End)
}

// =============================================================================
// FORMATTER
// =============================================================================

// Formatter renders dates for one locale.
type Formatter struct {
	tag    language.Tag
	months *[12]string
}

// NewFormatter returns a Formatter for a locale such as "en_US.UTF-8",
// "ru-RU" or "de". Unknown or empty locales fall back to English.
func NewFormatter(locale string) Formatter {
	tag := MatchLocale(locale)
	base, _ := tag.Base()
	months, ok := monthNames[base.String()]
	if !ok {
		months = monthNames["en"]
	}
	return Formatter{tag: tag, months: months}
}

// Tag returns the matched locale.
func (f Formatter) Tag() language.Tag {
	if f.months == nil {
		return language.English
	}
	return f.tag
}

// Long formats day, full month name and year, e.g. "5 March 2024".
func (f Formatter) Long(t time.Time) string {
	months := f.months
	if months == nil {
		months = monthNames["en"]
	}
	return fmt.Sprintf("%d %s %d", t.Day(), months[t.Month()-1], t.Year())
}

// Short formats the dd.mm.yyyy form, e.g. "05.03.2024".
func (f Formatter) Short(t time.Time) string {
	return t.Format("02.01.2006")
}

// =============================================================================
// LOCALES
// =============================================================================

var supportedLocales = []language.Tag{
	language.English, // first entry is the matcher fallback
	language.Russian,
	language.Ukrainian,
	language.German,
	language.French,
	language.Spanish,
}

var localeMatcher = language.NewMatcher(supportedLocales)

// MatchLocale maps a POSIX or BCP 47 locale string to a supported tag.
func MatchLocale(locale string) language.Tag {
	locale = strings.TrimSpace(locale)
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i] // drop ".UTF-8" and "@modifier"
	}
	locale = strings.ReplaceAll(locale, "_", "-")
	if locale == "" || locale == "C" || locale == "POSIX" {
		return language.English
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return language.English
	}
	_, index, confidence := localeMatcher.Match(tag)
	if confidence == language.No {
		return language.English
	}
	return supportedLocales[index]
}

// monthNames holds the month form used after a day number.
var monthNames = map[string]*[12]string{
	"en": {"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"},
	"ru": {"января", "февраля", "марта", "апреля", "мая", "июня",
		"июля", "августа", "сентября", "октября", "ноября", "декабря"},
	"uk": {"січня", "лютого", "березня", "квітня", "травня", "червня",
		"липня", "серпня", "вересня", "жовтня", "листопада", "грудня"},
	"de": {"Januar", "Februar", "März", "April", "Mai", "Juni",
		"Juli", "August", "September", "Oktober", "November", "Dezember"},
	"fr": {"janvier", "février", "mars", "avril", "mai", "juin",
		"juillet", "août", "septembre", "octobre", "novembre", "décembre"},
	"es": {"enero", "febrero", "marzo", "abril", "mayo", "junio",
		"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"},
}

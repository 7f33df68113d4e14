// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/chatpdf/internal/layout"
)

func TestMarkdownRenderer_Blocks(t *testing.T) {
	doc := &Document{
		Title: "Bob",
		Blocks: []layout.Block{
			layout.Title("Bob"),
			layout.PeriodLabel("5 March 2024 — 5 March 2024"),
			layout.DateSeparator("5 March 2024"),
			layout.MessageBody(layout.RoleSelf, `see <a href="https://x.io/a b">x_io</a>`),
			layout.MessageBody(layout.RolePartner, "one<br/><br/>two"),
			layout.ServiceNotice("CAROL joined"),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, NewMarkdownRenderer(MarkdownOptions{}).Render(&buf, doc))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "# Bob\n\n"))
	assert.Contains(t, out, "*5 March 2024 — 5 March 2024*")
	assert.Contains(t, out, "##### — 5 March 2024 —")
	assert.Contains(t, out, `> see [x\_io](https://x.io/a%20b)`)
	assert.Contains(t, out, "one\n\ntwo")
	assert.Contains(t, out, "_CAROL joined_")
	assert.NotContains(t, out, "generator:")
}

func TestMarkdownRenderer_Frontmatter(t *testing.T) {
	fixed := time.Date(2024, 4, 9, 12, 0, 0, 0, time.UTC)
	r := NewMarkdownRenderer(MarkdownOptions{
		IncludeMetadata: true,
		Now:             func() time.Time { return fixed },
	})

	doc := &Document{
		Title:   "Team: the \"best\"",
		Subject: "5 March 2024 — 9 April 2024",
		Blocks:  []layout.Block{layout.Title("Team")},
	}

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, doc))

	parts := strings.SplitN(buf.String(), "---\n", 3)
	require.Len(t, parts, 3)

	var meta frontmatter
	require.NoError(t, yaml.Unmarshal([]byte(parts[1]), &meta))
	assert.Equal(t, doc.Title, meta.Title)
	assert.Equal(t, doc.Subject, meta.Period)
	assert.Equal(t, 1, meta.Blocks)
	assert.Equal(t, "2024-04-09T12:00:00Z", meta.Exported)
	assert.Equal(t, "chatpdf", meta.Generator)
}

func TestEscapeMarkdown(t *testing.T) {
	assert.Equal(t, `\# \*a\* \_b\_ \[c\]`, escapeMarkdown("# *a* _b_ [c]"))
}

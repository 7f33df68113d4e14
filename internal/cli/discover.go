// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/chatpdf/internal/util"
)

// =============================================================================
// EXPORT DISCOVERY
// =============================================================================

// skipDirs are never descended into during discovery.
var skipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
	"Library":      true,
	"AppData":      true,
	"snap":         true,
}

// Discover returns the *.json files under root, at most maxDepth directory
// levels deep and at most maxResults of them (zero means no limit), in
// walk order. Hidden and tool directories are skipped; unreadable
// directories are ignored.
func Discover(root string, maxDepth, maxResults int) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	root = filepath.Clean(root)
	rootDepth := strings.Count(root, string(filepath.Separator))

	var found []string
	errLimit := errors.New("limit reached")

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			name := d.Name()
			if strings.HasPrefix(name, ".") || skipDirs[name] {
				return filepath.SkipDir
			}
			if maxDepth > 0 && strings.Count(path, string(filepath.Separator))-rootDepth > maxDepth {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.EqualFold(filepath.Ext(path), ".json") {
			return nil
		}
		found = append(found, path)
		if maxResults > 0 && len(found) >= maxResults {
			return errLimit
		}
		return nil
	})
	if err != nil && !errors.Is(err, errLimit) {
		return nil, err
	}
	return found, nil
}

// =============================================================================
// MENU
// =============================================================================

// errMenuExit is returned when the user picks 0 or aborts the prompt.
var errMenuExit = errors.New("menu exit")

// Prompter reads one line of input.
type Prompter interface {
	Prompt(prompt string) (string, error)
}

// RenderMenu writes the numbered list of candidates, truncated from the
// left to fit width.
func RenderMenu(w io.Writer, candidates []string, width int) {
	indexWidth := len(strconv.Itoa(len(candidates)))

	fmt.Fprintln(w, RenderSeparator(width))
	fmt.Fprintln(w, RenderConditional(TitleStyle, "Telegram-JSON to PDF Converter"))
	fmt.Fprintln(w, RenderSeparator(width))
	fmt.Fprintln(w)

	for i, path := range candidates {
		index := fmt.Sprintf("%*d", indexWidth, i+1)
		avail := width - indexWidth - len(" -- ")
		fmt.Fprintf(w, "%s -- %s\n", RenderConditional(IndexStyle, index), util.TruncateLeft(path, avail))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, RenderSeparator(width))
	fmt.Fprintf(w, "%*d -- Exit\n", indexWidth, 0)
}

// ParseChoice validates a menu answer. It returns 0 for exit, or the
// 1-based index of a candidate.
func ParseChoice(input string, count int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, ErrInvalidFormat("choice", input, "a number from the list")
	}
	if n < 0 || n > count {
		return 0, &ValidationError{
			Field:  "choice",
			Value:  input,
			Reason: fmt.Sprintf("must be between 0 and %d", count),
		}
	}
	return n, nil
}

// Choose prompts until a valid answer is given. Invalid answers re-prompt.
// It returns errMenuExit for 0, Ctrl-C or end of input.
func Choose(p Prompter, w io.Writer, candidates []string) (string, error) {
	for {
		input, err := p.Prompt("Choose: ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return "", errMenuExit
			}
			return "", err
		}

		n, err := ParseChoice(input, len(candidates))
		if err != nil {
			fmt.Fprintln(w, RenderConditional(DimStyle, err.Error()))
			continue
		}
		if n == 0 {
			return "", errMenuExit
		}
		return candidates[n-1], nil
	}
}

// linerPrompter adapts a liner.State to Prompter.
type linerPrompter struct {
	state *liner.State
}

func newLinerPrompter() *linerPrompter {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	return &linerPrompter{state: state}
}

func (l *linerPrompter) Prompt(prompt string) (string, error) {
	line, err := l.state.Prompt(prompt)
	if err == nil && strings.TrimSpace(line) != "" {
		l.state.AppendHistory(line)
	}
	return line, err
}

func (l *linerPrompter) Close() error {
	return l.state.Close()
}

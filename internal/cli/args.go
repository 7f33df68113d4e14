// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// ARG PARSER
// =============================================================================

// ArgParser parses the arguments of one command.
//
// Supported flag formats:
//
//	--flag value     Long flag with space-separated value
//	--flag=value     Long flag with equals sign
//	-f value         Short flag with space-separated value
//	--flag           Boolean flag (no value)
//
// A flag is boolean when it is declared in switches or written as
// --flag=true / --flag=false. Undeclared flags take the next argument as
// their value unless it starts with "-". A lone "--" ends flag parsing.
//
// Example:
//
//	args := NewArgParser([]string{"get", "output.dest", "--limit", "5", "--raw"}, "raw")
//	args.Subcommand()        // "get"
//	args.Positional(1)       // "output.dest"
//	args.Flag("limit")       // "5"
//	args.BoolFlag("raw")     // true
type ArgParser struct {
	subcommand string            // First positional arg
	flags      map[string][]string
	boolFlags  map[string]bool
	positional []string
	raw        []string
}

// NewArgParser parses raw. switches names the flags that never take a value.
func NewArgParser(raw []string, switches ...string) *ArgParser {
	parser := &ArgParser{
		flags:      make(map[string][]string),
		boolFlags:  make(map[string]bool),
		positional: make([]string, 0),
		raw:        raw,
	}

	isSwitch := make(map[string]bool, len(switches))
	for _, s := range switches {
		isSwitch[s] = true
	}

	for i := 0; i < len(raw); i++ {
		arg := raw[i]

		if arg == "--" {
			parser.positional = append(parser.positional, raw[i+1:]...)
			break
		}

		if !strings.HasPrefix(arg, "-") || arg == "-" {
			parser.positional = append(parser.positional, arg)
			continue
		}

		// --flag=value
		if name, value, ok := strings.Cut(arg, "="); ok {
			name = strings.TrimLeft(name, "-")
			if value == "true" || value == "false" {
				parser.boolFlags[name] = value == "true"
			} else {
				parser.flags[name] = append(parser.flags[name], value)
			}
			continue
		}

		name := strings.TrimLeft(arg, "-")
		if !isSwitch[name] && i+1 < len(raw) && !strings.HasPrefix(raw[i+1], "-") {
			parser.flags[name] = append(parser.flags[name], raw[i+1])
			i++
			continue
		}
		parser.boolFlags[name] = true
	}

	if len(parser.positional) > 0 {
		parser.subcommand = parser.positional[0]
	}

	return parser
}

// Subcommand returns the first positional argument, or "".
func (p *ArgParser) Subcommand() string {
	return p.subcommand
}

// Flag returns the last value of the first of names that is set, or "".
// Passing a long and a short name accepts either spelling:
//
//	args.Flag("file", "f")   // --file x.json or -f x.json
func (p *ArgParser) Flag(names ...string) string {
	values := p.FlagValues(names...)
	if len(values) == 0 {
		return ""
	}
	return values[len(values)-1]
}

// FlagValues returns every value given for the first of names that is set.
func (p *ArgParser) FlagValues(names ...string) []string {
	for _, name := range names {
		if vals, ok := p.flags[strings.TrimLeft(name, "-")]; ok {
			return vals
		}
	}
	return nil
}

// FlagOrDefault returns the flag value or a default if not found.
func (p *ArgParser) FlagOrDefault(name, defaultValue string) string {
	if val := p.Flag(name); val != "" {
		return val
	}
	return defaultValue
}

// FlagInt returns the flag value as an integer.
func (p *ArgParser) FlagInt(names ...string) (int, error) {
	val := p.Flag(names...)
	if val == "" {
		return 0, fmt.Errorf("flag %s not found", names[0])
	}
	return strconv.Atoi(val)
}

// FlagIntOrDefault returns the flag value as an integer, or defaultValue
// when the flag is absent. A present but invalid value is an error.
func (p *ArgParser) FlagIntOrDefault(name string, defaultValue int) (int, error) {
	if p.Flag(name) == "" {
		return defaultValue, nil
	}
	val, err := p.FlagInt(name)
	if err != nil {
		return 0, ErrInvalidFormat(name, p.Flag(name), "a whole number")
	}
	return val, nil
}

// BoolFlag reports whether any of names was given as a switch.
func (p *ArgParser) BoolFlag(names ...string) bool {
	for _, name := range names {
		if val, ok := p.boolFlags[strings.TrimLeft(name, "-")]; ok {
			return val
		}
	}
	return false
}

// Positional returns the positional argument at index, or "".
// Index 0 is the subcommand.
func (p *ArgParser) Positional(index int) string {
	if index < 0 || index >= len(p.positional) {
		return ""
	}
	return p.positional[index]
}

// PositionalFrom returns all positional arguments starting from index.
func (p *ArgParser) PositionalFrom(index int) []string {
	if index < 0 || index >= len(p.positional) {
		return []string{}
	}
	return p.positional[index:]
}

// PositionalCount returns the number of positional arguments.
func (p *ArgParser) PositionalCount() int {
	return len(p.positional)
}

// HasFlag returns true if the flag exists (either as string or bool flag).
func (p *ArgParser) HasFlag(name string) bool {
	name = strings.TrimLeft(name, "-")
	_, hasString := p.flags[name]
	_, hasBool := p.boolFlags[name]
	return hasString || hasBool
}

// Raw returns the original raw arguments.
func (p *ArgParser) Raw() []string {
	return p.raw
}

// =============================================================================
// HELPERS
// =============================================================================

// ParseBoolString parses a boolean from various string representations.
// Accepts: true/false, yes/no, y/n, 1/0, on/off (case-insensitive)
func ParseBoolString(s string) (bool, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	switch s {
	case "true", "yes", "y", "1", "on":
		return true, nil
	case "false", "no", "n", "0", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean value: %s", s)
	}
}

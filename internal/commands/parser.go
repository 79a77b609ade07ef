// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"strings"
	"unicode"
)

// =============================================================================
// PARSER
// =============================================================================

// ParseResult is the decoded form of a line of user input.
type ParseResult struct {
	// IsCommand reports whether the input starts with /.
	IsCommand bool

	// Command is the matched command, nil when the name is unknown.
	Command *Command

	// CommandName is the name as typed, including the slash.
	CommandName string

	// Args are the tokens after the command name.
	Args []string

	// RawInput is the trimmed input line.
	RawInput string
}

// Parser resolves slash-command input against a registry.
type Parser struct {
	registry *Registry
}

// NewParser creates a parser over the given registry.
func NewParser(registry *Registry) *Parser {
	return &Parser{registry: registry}
}

// Parse decodes one input line. Plain chat text comes back with
// IsCommand=false; a slash line is tokenized and looked up, with
// Command left nil when nothing in the registry matches.
func (p *Parser) Parse(input string) ParseResult {
	input = strings.TrimSpace(input)

	result := ParseResult{RawInput: input}
	if !strings.HasPrefix(input, "/") {
		return result
	}
	result.IsCommand = true

	tokens := tokenize(input)
	if len(tokens) == 0 {
		return result
	}
	result.CommandName = tokens[0]
	result.Args = tokens[1:]
	result.Command = p.registry.Get(result.CommandName)
	return result
}

// tokenize splits a command line on whitespace. Single and double quotes
// group tokens so game names with spaces survive ("/game 'Ticket to
// Ride'"), and a backslash inside quotes escapes quotes and itself.
func tokenize(input string) []string {
	var tokens []string
	var buf strings.Builder
	var quote rune // active quote char, 0 when outside quotes

	flush := func() {
		if buf.Len() > 0 {
			tokens = append(tokens, buf.String())
			buf.Reset()
		}
	}

	runes := []rune(input)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		switch {
		case quote == 0 && (r == '\'' || r == '"'):
			quote = r

		case quote != 0 && r == quote:
			quote = 0

		case quote != 0 && r == '\\' && i+1 < len(runes):
			next := runes[i+1]
			if next == '"' || next == '\'' || next == '\\' {
				buf.WriteRune(next)
				i++
			} else {
				buf.WriteRune(r)
			}

		case quote == 0 && unicode.IsSpace(r):
			flush()

		default:
			buf.WriteRune(r)
		}
	}
	flush()
	return tokens
}

// IsCommand reports whether the input line is a slash command.
func IsCommand(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), "/")
}

// ExtractCommandName returns the leading command name of a slash line,
// e.g. "/game catan" yields "/game". Non-command input yields "".
func ExtractCommandName(input string) string {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return ""
	}
	if end := strings.IndexFunc(input, unicode.IsSpace); end != -1 {
		return input[:end]
	}
	return input
}

// =============================================================================
// ARGUMENT VALIDATION
// =============================================================================

// ValidateArgs checks the parsed arguments against the command's
// argument definitions: required arguments must be present, and enum
// arguments must carry one of the declared values (case-insensitive).
func ValidateArgs(cmd *Command, args []string) error {
	if cmd == nil {
		return nil
	}

	for i, def := range cmd.Args {
		if i >= len(args) {
			if def.Required {
				return &ValidationError{
					Command:  cmd.Name,
					Arg:      def.Name,
					Message:  "required argument missing",
					Expected: def.Description,
				}
			}
			continue
		}
		if def.Type == ArgTypeEnum && !matchesEnum(args[i], def.Values) {
			return &ValidationError{
				Command:  cmd.Name,
				Arg:      def.Name,
				Message:  "invalid value",
				Got:      args[i],
				Expected: strings.Join(def.Values, ", "),
			}
		}
	}
	return nil
}

// matchesEnum reports whether value is one of the allowed values. An
// empty allow-list accepts anything.
func matchesEnum(value string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, v := range allowed {
		if strings.EqualFold(value, v) {
			return true
		}
	}
	return false
}

// ValidationError describes a rejected command argument.
type ValidationError struct {
	Command  string
	Arg      string
	Message  string
	Got      string
	Expected string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Command)
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Arg != "" {
		b.WriteString(" for argument '")
		b.WriteString(e.Arg)
		b.WriteString("'")
	}
	if e.Got != "" {
		b.WriteString(" (got: ")
		b.WriteString(e.Got)
		b.WriteString(")")
	}
	if e.Expected != "" {
		b.WriteString(" - expected: ")
		b.WriteString(e.Expected)
	}
	return b.String()
}

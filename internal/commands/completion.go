// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"sort"
	"strings"
)

// =============================================================================
// COMMAND COMPLETION
// =============================================================================

// Complete returns command names matching a partial "/..." input, sorted
// alphabetically. Aliases complete too, but only when the input matches no
// primary name prefix, keeping the suggestion list short.
func (r *Registry) Complete(partial string) []string {
	partial = strings.TrimSpace(partial)
	if !strings.HasPrefix(partial, "/") {
		return nil
	}

	var matches []string
	for name, cmd := range r.commands {
		if cmd.Hidden {
			continue
		}
		if strings.HasPrefix(name, partial) {
			matches = append(matches, name)
		}
	}

	if len(matches) == 0 {
		for alias, cmd := range r.aliases {
			if cmd.Hidden {
				continue
			}
			if strings.HasPrefix(alias, partial) {
				matches = append(matches, cmd.Name)
			}
		}
	}

	sort.Strings(matches)
	return dedupe(matches)
}

func dedupe(names []string) []string {
	out := names[:0]
	for i, n := range names {
		if i == 0 || names[i-1] != n {
			out = append(out, n)
		}
	}
	return out
}

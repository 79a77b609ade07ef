// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "strings"

// Game is a board game known to the rules backend.
type Game struct {
	// ID is the normalized form of Name: lowercase, whitespace runs
	// replaced with hyphens. Unique per distinct name.
	ID string `json:"id"`

	// Name is the display string as returned by the backend.
	Name string `json:"name"`
}

// NewGame creates a Game from a backend title, deriving the ID.
func NewGame(name string) Game {
	return Game{
		ID:   GameID(name),
		Name: name,
	}
}

// GameID derives the normalized game identifier from a display name:
// lowercase, with each run of whitespace replaced by a single hyphen.
// "Ticket to Ride" -> "ticket-to-ride".
func GameID(name string) string {
	lower := strings.ToLower(name)
	return strings.Join(strings.Fields(lower), "-")
}

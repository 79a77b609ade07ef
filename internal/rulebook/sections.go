// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package rulebook

// Section is one parsed rulebook passage.
type Section struct {
	ID      string `json:"id"`   // "p" + page
	Page    int    `json:"page"` // 1-based page number
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Sections returns the parsed rulebook for a game. Until real rulebook
// ingestion lands, every game resolves to the bundled demo rulebook.
func Sections(gameID string) []Section {
	return demoSections
}

// ByID returns the section with the given ID, if present.
func ByID(gameID, sectionID string) (Section, bool) {
	for _, s := range Sections(gameID) {
		if s.ID == sectionID {
			return s, true
		}
	}
	return Section{}, false
}

var demoSections = []Section{
	{
		ID:    "p1",
		Page:  1,
		Title: "Objective & Winning",
		Content: "The objective of the game is to be the first player to accumulate 10 victory points. " +
			"Victory points can be earned through building settlements (1 point each), cities (2 points each), " +
			"having the longest road (2 points), having the largest army (2 points), and certain development cards (1 point each).",
	},
	{
		ID:    "p2",
		Page:  2,
		Title: "Setup",
		Content: "Place the hexagonal tiles randomly to form the island. Each player starts with 2 settlements and 2 roads. " +
			"Settlements must be placed at intersections where at least one of the adjacent hexes produces resources. " +
			"Initial placement follows reverse turn order for the second settlement.",
	},
	{
		ID:    "p3",
		Page:  3,
		Title: "Turn Structure",
		Content: "On your turn: 1) Roll the dice - all players collect resources from hexes matching the number rolled. " +
			"2) Trade - you may trade with other players or use maritime trade. " +
			"3) Build - spend resources to build roads, settlements, cities, or buy development cards.",
	},
	{
		ID:    "p4",
		Page:  4,
		Title: "The Robber",
		Content: "When a 7 is rolled, no one collects resources. Any player with more than 7 cards must discard half. " +
			"The active player must move the robber to a new hex, blocking that hex from producing. " +
			"The player may also steal one random card from an adjacent player.",
	},
	{
		ID:    "p5",
		Page:  5,
		Title: "Building Costs",
		Content: "Road: 1 Brick + 1 Lumber. Settlement: 1 Brick + 1 Lumber + 1 Wool + 1 Grain. " +
			"City: 2 Grain + 3 Ore. Development Card: 1 Wool + 1 Grain + 1 Ore. You must have available pieces to build.",
	},
}

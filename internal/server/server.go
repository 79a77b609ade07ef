// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/rulemate-tui/internal/rulebook"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// DefaultPort is the default port for the dev backend.
	DefaultPort = 8000

	// MaxRequestBodySize bounds request bodies to prevent DoS (64KB).
	MaxRequestBodySize = 64 * 1024

	// MaxQueryLength is the maximum accepted search or chat input length.
	MaxQueryLength = 4096

	// Version is the dev backend version.
	Version = "0.1.0"
)

// gameCatalog is the bundled searchable game list.
var gameCatalog = []string{
	"7 Wonders",
	"Agricola",
	"Azul",
	"Brass: Birmingham",
	"Carcassonne",
	"Catan",
	"Catan: Cities & Knights",
	"Catan: Seafarers",
	"Codenames",
	"Dominion",
	"Everdell",
	"Gloomhaven",
	"Pandemic",
	"Root",
	"Scythe",
	"Spirit Island",
	"Splendor",
	"Terraforming Mars",
	"Ticket to Ride",
	"Wingspan",
}

// ============================================================================
// SERVER
// ============================================================================

// Server is the local dev backend.
type Server struct {
	port   int
	router *http.ServeMux
	server *http.Server

	// sessions maps session_id to the game bound to it.
	sessions   map[string]string
	sessionsMu sync.Mutex
}

// NewServer creates a dev backend on the given port (0 = DefaultPort).
func NewServer(port int) *Server {
	if port == 0 {
		port = DefaultPort
	}

	s := &Server{
		port:     port,
		router:   http.NewServeMux(),
		sessions: make(map[string]string),
	}
	s.setupRoutes()
	return s
}

// Port returns the server port.
func (s *Server) Port() int {
	return s.port
}

// Handler returns the full middleware-wrapped handler, exposed so tests
// can mount it on httptest servers.
func (s *Server) Handler() http.Handler {
	return Chain(
		RecoveryMiddleware(),
		LoggingMiddleware(log.Default()),
		RateLimitMiddleware(DefaultRateLimiter()),
	)(s.router)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.HandleFunc("GET /games/search", s.handleGamesSearch)
	s.router.HandleFunc("POST /add_game_to_context", s.handleAddGame)
	s.router.HandleFunc("GET /chat", s.handleChat)
	s.router.HandleFunc("GET /health", s.handleHealth)
}

// ============================================================================
// HANDLERS
// ============================================================================

// searchResult is one matching game.
type searchResult struct {
	Title string `json:"title"`
}

// handleGamesSearch handles GET /games/search?q=.
func (s *Server) handleGamesSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if len(query) > MaxQueryLength {
		s.writeError(w, http.StatusBadRequest, "query too long")
		return
	}

	results := []searchResult{}
	if query != "" {
		lower := strings.ToLower(query)
		for _, title := range gameCatalog {
			if strings.Contains(strings.ToLower(title), lower) {
				results = append(results, searchResult{Title: title})
			}
		}
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{"games": results})
}

// addGameRequest is the body for POST /add_game_to_context.
type addGameRequest struct {
	GameName  string `json:"game_name"`
	SessionID string `json:"session_id"`
}

// handleAddGame handles POST /add_game_to_context.
func (s *Server) handleAddGame(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)

	var req addGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request format")
		return
	}
	if req.GameName == "" || req.SessionID == "" {
		s.writeError(w, http.StatusBadRequest, "game_name and session_id are required")
		return
	}

	s.sessionsMu.Lock()
	s.sessions[req.SessionID] = req.GameName
	s.sessionsMu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

// handleChat handles GET /chat?user_input=&session_id=.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	input := strings.TrimSpace(r.URL.Query().Get("user_input"))
	sessionID := r.URL.Query().Get("session_id")

	if input == "" {
		s.writeError(w, http.StatusBadRequest, "user_input is required")
		return
	}
	if len(input) > MaxQueryLength {
		s.writeError(w, http.StatusBadRequest, "user_input too long")
		return
	}

	s.sessionsMu.Lock()
	game := s.sessions[sessionID]
	s.sessionsMu.Unlock()

	s.writeJSON(w, http.StatusOK, map[string]string{
		"answer": answerFor(input, game),
	})
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": Version,
	})
}

// ============================================================================
// ANSWER GENERATION
// ============================================================================

// answerTopics maps question keywords to the rulebook section answering
// them. First match wins, scanning in order.
var answerTopics = []struct {
	keywords []string
	section  string
	answer   string
}{
	{
		keywords: []string{"win", "victory", "point", "score", "objective"},
		section:  "p1",
		answer: "You win by being the first player to reach 10 victory points (source p.1). " +
			"Settlements are worth 1 point each and cities are worth 2 points each (source p.1).",
	},
	{
		keywords: []string{"setup", "start", "begin", "place", "placement"},
		section:  "p2",
		answer: "Each player starts with 2 settlements and 2 roads, placed at resource-producing " +
			"intersections (source p.2). The second settlement is placed in reverse turn order (source p.2).",
	},
	{
		keywords: []string{"turn", "roll", "dice", "trade", "phase"},
		section:  "p3",
		answer: "A turn has three phases: roll the dice for resource collection, trade with other " +
			"players or the bank, then build (source p.3).",
	},
	{
		keywords: []string{"robber", "seven", "discard", "steal"},
		section:  "p4",
		answer: "When a 7 is rolled no one collects resources, and players holding more than 7 cards " +
			"discard half (source p.4). The active player moves the robber and may steal one card from " +
			"an adjacent player (source p.4).",
	},
	{
		keywords: []string{"cost", "build", "road", "city", "settlement", "development"},
		section:  "p5",
		answer: "A road costs 1 Brick + 1 Lumber, a settlement costs 1 Brick + 1 Lumber + 1 Wool + " +
			"1 Grain, and a city costs 2 Grain + 3 Ore (source p.5).",
	},
}

// answerFor produces a canned cited answer for the question. Unmatched
// questions get a generic overview pointing at page 1.
func answerFor(input, game string) string {
	lower := strings.ToLower(input)
	for _, topic := range answerTopics {
		for _, kw := range topic.keywords {
			if strings.Contains(lower, kw) {
				return topic.answer
			}
		}
	}

	name := game
	if name == "" {
		name = "this game"
	}
	sections := rulebook.Sections("")
	return fmt.Sprintf("I could not find a specific rule for that in %s. "+
		"The rulebook covers %d topics, starting with the objective of the game (source p.%d).",
		name, len(sections), sections[0].Page)
}

// ============================================================================
// SERVER LIFECYCLE
// ============================================================================

// Start starts the HTTP server on localhost.
func (s *Server) Start() error {
	addr := fmt.Sprintf("127.0.0.1:%d", s.port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("SERVER_START | addr=%s version=%s", addr, Version)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	log.Printf("SERVER_SHUTDOWN | starting graceful shutdown")
	return s.server.Shutdown(ctx)
}

// ============================================================================
// HELPERS
// ============================================================================

// writeJSON writes a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": message,
			"code":    status,
		},
	})
}

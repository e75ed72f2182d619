// Package api exposes the game engine, save slots and profiles over
// HTTP for local clients.
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hanafuda/koikoi-go/internal/game"
	"github.com/hanafuda/koikoi-go/internal/save"
)

// Server handles HTTP requests. Sessions live in memory, keyed by
// game id; durable state goes through the save manager and store.
type Server struct {
	manager *save.Manager
	store   save.LocalStore
	logger  *log.Logger

	mu       sync.Mutex
	sessions map[string]*game.Session

	startTime time.Time
}

// NewServer creates an API server over a save manager and local store.
func NewServer(manager *save.Manager, store save.LocalStore) *Server {
	logger := log.New(os.Stdout, "[API] ", log.LstdFlags)
	if manager == nil {
		manager = save.NewManager(nil, logger)
	}
	return &Server{
		manager:   manager,
		store:     store,
		logger:    logger,
		sessions:  map[string]*game.Session{},
		startTime: time.Now(),
	}
}

// Routes sets up the HTTP routes with proper middleware.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/games", s.handleCreateGame)
		r.Route("/games/{gameID}", func(r chi.Router) {
			r.Get("/", s.handleGetGame)
			r.Post("/start-round", s.handleStartRound)
			r.Post("/select", s.handleSelect)
			r.Post("/play", s.handlePlay)
			r.Post("/draw", s.handleDraw)
			r.Post("/collect", s.handleCollect)
			r.Post("/decision", s.handleDecision)
			r.Post("/auto-turn", s.handleAutoTurn)
			r.Post("/next-round", s.handleNextRound)
			r.Post("/save", s.handleSaveGame)
		})
		r.Post("/saves/restore", s.handleRestoreGame)
		r.Get("/saves/{uid}", s.handleListSaves)
		r.Get("/profiles/{uid}", s.handleGetProfile)
		r.Put("/profiles/{uid}", s.handlePutProfile)
	})

	return r
}

// session looks up a live session by game id.
func (s *Server) session(gameID string) *game.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[gameID]
}

func (s *Server) register(session *game.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Data.GameID] = session
}

// writeJSON writes a JSON response with proper headers.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Engine-Version", EngineVersion)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// writeError writes a structured error response.
func (s *Server) writeError(w http.ResponseWriter, status int, errType, message string) {
	s.writeJSON(w, status, APIError{Type: errType, Message: message})
}

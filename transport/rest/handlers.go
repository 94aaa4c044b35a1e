package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/agomezg1822/triki-backend/internal/entity"
	"github.com/agomezg1822/triki-backend/internal/room"
)

type roomService interface {
	Create() *room.Room
	List() []room.Info
}

type statsService interface {
	Leaderboard(ctx context.Context) ([]entity.PlayerStats, error)
}

type historyService interface {
	All(ctx context.Context) ([]entity.Match, error)
}

type Handlers interface {
	Ping(w http.ResponseWriter, r *http.Request)
	CreateRoom(w http.ResponseWriter, r *http.Request)
	ListRooms(w http.ResponseWriter, r *http.Request)
	Leaderboard(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
}

type handlers struct {
	logger  *slog.Logger
	rooms   roomService
	stats   statsService
	history historyService
}

func NewHandlers(logger *slog.Logger, rooms roomService, stats statsService, history historyService) Handlers {
	return &handlers{
		logger:  logger,
		rooms:   rooms,
		stats:   stats,
		history: history,
	}
}

func (that *handlers) Ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// CreateRoom - allocates a fresh room and returns its id.
func (that *handlers) CreateRoom(w http.ResponseWriter, _ *http.Request) {
	created := that.rooms.Create()

	that.writeJSON(w, http.StatusCreated, map[string]string{"room_id": created.ID})
}

// ListRooms - returns every known room with its live connection count.
func (that *handlers) ListRooms(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, http.StatusOK, that.rooms.List())
}

// Leaderboard - returns player statistics ordered best first.
func (that *handlers) Leaderboard(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "Leaderboard")

	board, err := that.stats.Leaderboard(r.Context())
	if err != nil {
		log.Error("failed to read leaderboard", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if board == nil {
		board = []entity.PlayerStats{}
	}

	that.writeJSON(w, http.StatusOK, board)
}

// History - returns every recorded match, most recent first.
func (that *handlers) History(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "History")

	matches, err := that.history.All(r.Context())
	if err != nil {
		log.Error("failed to read history", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if matches == nil {
		matches = []entity.Match{}
	}

	that.writeJSON(w, http.StatusOK, matches)
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}

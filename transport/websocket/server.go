package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/agomezg1822/triki-backend/internal/entity"
	"github.com/agomezg1822/triki-backend/internal/room"
)

const shutdownTimeout = 5 * time.Second

type roomRegistry interface {
	GetOrCreate(id string) *room.Room
}

type gameRecorder interface {
	RecordMove(ctx context.Context, move entity.Move) error
	RecordResult(ctx context.Context, match entity.Match) error
}

type Server struct {
	logger   *slog.Logger
	rooms    roomRegistry
	recorder gameRecorder
	upgrader websocket.Upgrader
}

func New(logger *slog.Logger, rooms roomRegistry, recorder gameRecorder) *Server {
	return &Server{
		logger:   logger,
		rooms:    rooms,
		recorder: recorder,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
	}
}

// Start - starts the WebSocket server and blocks until it fails or ctx is
// canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/{room_id}", that.handleConnection)

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// handleConnection - upgrades the connection and runs its protocol state
// machine until the transport closes.
func (that *Server) handleConnection(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleConnection")

	roomID := r.PathValue("room_id")
	if roomID == "" {
		http.Error(w, "room id is required", http.StatusBadRequest)
		return
	}

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	current := that.rooms.GetOrCreate(roomID)

	log.Info("connection established", "roomID", roomID)

	newClient(that.logger, conn, current, that.recorder).run(r.Context())
}

package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/agomezg1822/triki-backend/internal/entity"
	"github.com/agomezg1822/triki-backend/internal/room"
)

// client drives one connection through its protocol states: a mandatory
// single-shot join handshake, then game messages until the transport
// closes. Reading and writing run on separate goroutines joined by the
// member's outbound queue, so a stalled writer never blocks the reader.
type client struct {
	id       string
	logger   *slog.Logger
	conn     *websocket.Conn
	room     *room.Room
	recorder gameRecorder

	member *room.Member
}

func newClient(logger *slog.Logger, conn *websocket.Conn, current *room.Room, recorder gameRecorder) *client {
	return &client{
		id:       uuid.NewString(),
		logger:   logger.With("roomID", current.ID),
		conn:     conn,
		room:     current,
		recorder: recorder,
	}
}

func (that *client) run(ctx context.Context) {
	if !that.handshake() {
		_ = that.conn.Close()
		return
	}

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		that.writePump()
	}()

	that.readLoop(ctx)
	that.teardown()

	// the queue is closed by teardown; wait for the writer to drain it so
	// the last error message still reaches the peer.
	<-writerDone
}

// handshake - consumes the first inbound message, which must be a join
// carrying a non-empty name. Anything else is a protocol violation: an
// error is sent and the connection is closed.
func (that *client) handshake() bool {
	log := that.logger.With("method", "handshake")

	_, raw, err := that.conn.ReadMessage()
	if err != nil {
		log.Debug("connection closed before join", "error", err)
		return false
	}

	var msg Message
	if err = json.Unmarshal(raw, &msg); err != nil {
		that.reject("invalid message")
		return false
	}

	if msg.Action != actionJoin {
		that.reject("first message must be a join")
		return false
	}

	if msg.Name == "" {
		that.reject("name is required")
		return false
	}

	member, snap, err := that.room.Admit(that.id, msg.Name)
	if err != nil {
		that.reject(err.Error())
		return false
	}

	that.member = member

	role := member.Mark
	if role == "" {
		role = "spectator"
	}

	that.room.Send(that.id, newInfoPayload(fmt.Sprintf("connected as %s", role), member.Mark))
	that.room.Broadcast(newStatePayload(snap))

	log.Info("member joined", "name", member.Name, "role", role)

	return true
}

func (that *client) readLoop(ctx context.Context) {
	log := that.logger.With("method", "readLoop")

	for {
		_, raw, err := that.conn.ReadMessage()
		if err != nil {
			log.Debug("connection closed", "error", err)
			return
		}

		var msg Message
		if err = json.Unmarshal(raw, &msg); err != nil {
			that.room.Send(that.id, newErrorPayload("invalid message"))
			return
		}

		switch msg.Action {
		case actionJoin:
			that.room.Send(that.id, newErrorPayload("already joined"))
			return
		case actionMove:
			if msg.Position == nil {
				that.room.Send(that.id, newErrorPayload("position is required"))
				return
			}

			that.handleMove(ctx, *msg.Position)
		case actionReset:
			that.handleReset()
		default:
			// unknown actions are reported to the sender only; the
			// connection stays open.
			that.room.Send(that.id, newErrorPayload(fmt.Sprintf("unknown action %q", msg.Action)))
		}
	}
}

func (that *client) handleMove(ctx context.Context, position int) {
	log := that.logger.With("method", "handleMove")

	snap, result, err := that.room.SubmitMove(that.id, position)
	if err != nil {
		that.room.Send(that.id, newErrorPayload(err.Error()))
		return
	}

	that.room.Broadcast(newMoveResultPayload(snap, result, that.member.Name, that.member.Mark))

	move := entity.Move{
		RoomID:     that.room.ID,
		Player:     that.member.Name,
		Mark:       that.member.Mark,
		Position:   position,
		TurnNumber: snap.Moves,
	}
	if err = that.recorder.RecordMove(ctx, move); err != nil {
		log.Error("failed to record move", "error", err)
	}

	if !snap.Finished {
		return
	}

	match := entity.Match{
		RoomID:  that.room.ID,
		PlayerX: snap.PlayerX,
		PlayerO: snap.PlayerO,
		Winner:  snap.Winner,
	}
	if err = that.recorder.RecordResult(ctx, match); err != nil {
		log.Error("failed to record result", "error", err)
	}
}

func (that *client) handleReset() {
	snap := that.room.Reset()
	that.room.Broadcast(newStatePayload(snap))
}

// teardown - removes the member from the roster and, when a player left,
// tells the remaining participants. A departing spectator stays silent.
func (that *client) teardown() {
	member, ok := that.room.Leave(that.id)
	if !ok {
		return
	}

	if member.IsPlayer() {
		that.room.Broadcast(newInfoPayload(fmt.Sprintf("%s left the game", member.Name), member.Mark))
	}
}

func (that *client) writePump() {
	defer that.conn.Close()

	for payload := range that.member.Outbox() {
		if err := that.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			// transport failure; closing the conn makes the reader exit
			// and run the disconnect cleanup.
			return
		}
	}
}

// reject - reports a handshake failure straight on the transport; there is
// no outbound queue yet at this point.
func (that *client) reject(reason string) {
	_ = that.conn.WriteMessage(websocket.TextMessage, newErrorPayload(reason))
}

package room

import (
	"sync"

	"github.com/agomezg1822/triki-backend/internal/apperror"
	"github.com/agomezg1822/triki-backend/internal/game"
)

// outboxSize bounds the per-connection outbound queue; a member that falls
// this far behind is treated as disconnected.
const outboxSize = 32

// Member is one connection attached to a room. Mark is "X" or "O" for
// players and empty for spectators.
type Member struct {
	ID   string
	Name string
	Mark string

	queue chan []byte
}

// Outbox - returns the member's outbound queue; the connection's writer
// drains it until the room closes it.
func (that *Member) Outbox() <-chan []byte {
	return that.queue
}

func (that *Member) IsPlayer() bool {
	return that.Mark != ""
}

// Snapshot is an immutable copy of a room's state, taken under the room
// guard and safe to read after it is released.
type Snapshot struct {
	Board     [9]string
	Turn      string
	Winner    string
	Finished  bool
	Moves     int
	Connected int
	PlayerX   string
	PlayerO   string
}

// Room is the single authority over one match: game state, member roster
// and role assignment. Every mutating operation runs under one mutex.
type Room struct {
	ID string

	mu      sync.Mutex
	game    *game.Game
	members map[string]*Member
}

func newRoom(id string) *Room {
	return &Room{
		ID:      id,
		game:    game.New(),
		members: make(map[string]*Member),
	}
}

// Admit - assigns the connection a role: X if the seat is free, else O,
// else spectator. Fails only when the identity already has a roster entry.
func (that *Room) Admit(id, name string) (*Member, Snapshot, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.members[id]; ok {
		return nil, Snapshot{}, apperror.ErrAlreadyJoined
	}

	mark := game.EmptyCell
	switch {
	case !that.markTaken(game.PlayerX):
		mark = game.PlayerX
	case !that.markTaken(game.PlayerO):
		mark = game.PlayerO
	}

	member := &Member{
		ID:    id,
		Name:  name,
		Mark:  mark,
		queue: make(chan []byte, outboxSize),
	}
	that.members[id] = member

	return member, that.snapshot(), nil
}

// SubmitMove - validates the member's role and turn, applies the move and
// commits the result, all as one atomic step. Returns the post-move
// snapshot and the human-readable result description.
func (that *Room) SubmitMove(id string, cell int) (Snapshot, string, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	member, ok := that.members[id]
	if !ok || !member.IsPlayer() {
		return Snapshot{}, "", apperror.ErrNotAPlayer
	}

	result, err := that.game.MakeMove(member.Mark, cell)
	if err != nil {
		return Snapshot{}, "", err
	}

	return that.snapshot(), result, nil
}

// Reset re-initializes the game in place; the roster keeps its role
// assignments so the same players continue.
func (that *Room) Reset() Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.game.Reset()

	return that.snapshot()
}

// Leave - removes the identity from the roster and closes its outbox.
// Idempotent: leaving twice, or leaving without joining, is not an error.
func (that *Room) Leave(id string) (*Member, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	member, ok := that.members[id]
	if !ok {
		return nil, false
	}

	delete(that.members, id)
	close(member.queue)

	return member, true
}

// Broadcast - enqueues payload for every live member. A member whose queue
// is full is presumed gone: it is dropped from the roster and delivery to
// the rest proceeds.
func (that *Room) Broadcast(payload []byte) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for id, member := range that.members {
		select {
		case member.queue <- payload:
		default:
			delete(that.members, id)
			close(member.queue)
		}
	}
}

// Send - enqueues payload for a single member only, reporting whether the
// member was still attached.
func (that *Room) Send(id string, payload []byte) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	member, ok := that.members[id]
	if !ok {
		return false
	}

	select {
	case member.queue <- payload:
		return true
	default:
		delete(that.members, id)
		close(member.queue)
		return false
	}
}

func (that *Room) Snapshot() Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.snapshot()
}

func (that *Room) Connected() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.members)
}

// snapshot must be called with the room guard held.
func (that *Room) snapshot() Snapshot {
	snap := Snapshot{
		Board:     that.game.Board,
		Turn:      that.game.Turn,
		Winner:    that.game.Winner,
		Finished:  that.game.IsFinished(),
		Moves:     that.game.Moves,
		Connected: len(that.members),
	}

	for _, member := range that.members {
		switch member.Mark {
		case game.PlayerX:
			snap.PlayerX = member.Name
		case game.PlayerO:
			snap.PlayerO = member.Name
		}
	}

	return snap
}

// markTaken must be called with the room guard held.
func (that *Room) markTaken(mark string) bool {
	for _, member := range that.members {
		if member.Mark == mark {
			return true
		}
	}

	return false
}

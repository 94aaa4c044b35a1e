package room

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agomezg1822/triki-backend/internal/apperror"
	"github.com/agomezg1822/triki-backend/internal/game"
)

func TestRoom_Admit(t *testing.T) {
	t.Run("Roles assigned in join order", func(t *testing.T) {
		// Given: an empty room
		current := newRoom("r1")

		// When: three connections join one after another
		first, _, err := current.Admit("c1", "alice")
		require.NoError(t, err)

		second, _, err := current.Admit("c2", "bob")
		require.NoError(t, err)

		third, snap, err := current.Admit("c3", "carol")
		require.NoError(t, err)

		// Then: X, then O, then spectator
		assert.Equal(t, game.PlayerX, first.Mark)
		assert.Equal(t, game.PlayerO, second.Mark)
		assert.Equal(t, "", third.Mark)
		assert.False(t, third.IsPlayer())
		assert.Equal(t, 3, snap.Connected)
		assert.Equal(t, "alice", snap.PlayerX)
		assert.Equal(t, "bob", snap.PlayerO)
	})

	t.Run("Duplicate identity is rejected", func(t *testing.T) {
		// Given: a room with one member
		current := newRoom("r1")

		_, _, err := current.Admit("c1", "alice")
		require.NoError(t, err)

		// When: the same identity joins again
		_, _, err = current.Admit("c1", "alice")

		// Then: ErrAlreadyJoined should be returned and the roster is unchanged
		require.ErrorIs(t, err, apperror.ErrAlreadyJoined)
		assert.Equal(t, 1, current.Connected())
	})

	t.Run("Seat freed by a leaving player is reassigned", func(t *testing.T) {
		// Given: a room with both seats taken
		current := newRoom("r1")

		_, _, err := current.Admit("c1", "alice")
		require.NoError(t, err)
		_, _, err = current.Admit("c2", "bob")
		require.NoError(t, err)

		// When: X leaves and a new connection joins
		_, removed := current.Leave("c1")
		require.True(t, removed)

		late, _, err := current.Admit("c3", "carol")
		require.NoError(t, err)

		// Then: the newcomer takes the free X seat
		assert.Equal(t, game.PlayerX, late.Mark)
	})
}

func TestRoom_Admit_Concurrent(t *testing.T) {
	// Given: an empty room and three concurrent joiners
	current := newRoom("r1")

	members := make([]*Member, 3)
	var wg sync.WaitGroup
	for i, id := range []string{"c1", "c2", "c3"} {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()

			member, _, err := current.Admit(id, id)
			require.NoError(t, err)
			members[i] = member
		}(i, id)
	}

	// When: all three joins complete
	wg.Wait()

	// Then: exactly one X, one O and one spectator were assigned, regardless of arrival order
	counts := make(map[string]int)
	for _, member := range members {
		counts[member.Mark]++
	}
	assert.Equal(t, 1, counts[game.PlayerX])
	assert.Equal(t, 1, counts[game.PlayerO])
	assert.Equal(t, 1, counts[""])
}

func TestRoom_SubmitMove(t *testing.T) {
	setup := func(t *testing.T) *Room {
		t.Helper()

		current := newRoom("r1")
		for _, join := range []struct{ id, name string }{
			{"x", "alice"}, {"o", "bob"}, {"s", "carol"},
		} {
			_, _, err := current.Admit(join.id, join.name)
			require.NoError(t, err)
		}

		return current
	}

	t.Run("Spectator move is rejected", func(t *testing.T) {
		// Given: a full room
		current := setup(t)
		before := current.Snapshot()

		// When: the spectator submits a move
		_, _, err := current.SubmitMove("s", 0)

		// Then: ErrNotAPlayer should be returned and the board is untouched
		require.ErrorIs(t, err, apperror.ErrNotAPlayer)
		assert.Equal(t, before.Board, current.Snapshot().Board)
	})

	t.Run("Unknown identity is rejected", func(t *testing.T) {
		// Given: a full room
		current := setup(t)

		// When: an identity without a roster entry submits a move
		_, _, err := current.SubmitMove("ghost", 0)

		// Then: ErrNotAPlayer should be returned
		require.ErrorIs(t, err, apperror.ErrNotAPlayer)
	})

	t.Run("Out of turn move is rejected", func(t *testing.T) {
		// Given: a full room, X to move
		current := setup(t)

		// When: O submits a move while it is X's turn
		_, _, err := current.SubmitMove("o", 0)

		// Then: ErrNotYourTurn should be returned, board and turn unchanged
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		snap := current.Snapshot()
		assert.Equal(t, [9]string{}, snap.Board)
		assert.Equal(t, game.PlayerX, snap.Turn)
	})

	t.Run("Out of turn move to an occupied cell is rejected as out of turn", func(t *testing.T) {
		// Given: a full room where X already took cell 0
		current := setup(t)

		_, _, err := current.SubmitMove("x", 0)
		require.NoError(t, err)

		before := current.Snapshot()

		// When: X replays the occupied cell while it is O's turn
		_, _, err = current.SubmitMove("x", 0)

		// Then: ErrNotYourTurn should be returned, not ErrCellOccupied, and the state is unchanged
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Equal(t, before, current.Snapshot())
	})

	t.Run("Accepted moves alternate and report results", func(t *testing.T) {
		// Given: a full room
		current := setup(t)

		// When: X and O play the top and middle rows
		snap, result, err := current.SubmitMove("x", 0)
		require.NoError(t, err)
		assert.Equal(t, game.ResultValidMove, result)
		assert.Equal(t, game.PlayerO, snap.Turn)

		for _, move := range []struct {
			id   string
			cell int
		}{
			{"o", 3}, {"x", 1}, {"o", 4},
		} {
			_, _, err = current.SubmitMove(move.id, move.cell)
			require.NoError(t, err)
		}

		snap, result, err = current.SubmitMove("x", 2)
		require.NoError(t, err)

		// Then: X wins with the top row complete
		assert.Equal(t, "X wins", result)
		assert.True(t, snap.Finished)
		assert.Equal(t, game.PlayerX, snap.Winner)
		assert.Equal(t, [9]string{"X", "X", "X", "O", "O", "", "", "", ""}, snap.Board)

		// When: O tries to move after the game is decided
		_, _, err = current.SubmitMove("o", 5)

		// Then: ErrGameFinished should be returned and the board stays frozen
		require.ErrorIs(t, err, apperror.ErrGameFinished)
		assert.Equal(t, snap.Board, current.Snapshot().Board)
	})
}

func TestRoom_Reset(t *testing.T) {
	// Given: a room with a finished game
	current := newRoom("r1")

	_, _, err := current.Admit("x", "alice")
	require.NoError(t, err)
	_, _, err = current.Admit("o", "bob")
	require.NoError(t, err)

	for _, move := range []struct {
		id   string
		cell int
	}{
		{"x", 0}, {"o", 3}, {"x", 1}, {"o", 4}, {"x", 2},
	} {
		_, _, err = current.SubmitMove(move.id, move.cell)
		require.NoError(t, err)
	}
	require.True(t, current.Snapshot().Finished)

	// When: the room is reset
	snap := current.Reset()

	// Then: the game state is fresh while the roster and roles are preserved
	assert.Equal(t, [9]string{}, snap.Board)
	assert.Equal(t, game.PlayerX, snap.Turn)
	assert.False(t, snap.Finished)
	assert.Equal(t, 2, snap.Connected)
	assert.Equal(t, "alice", snap.PlayerX)
	assert.Equal(t, "bob", snap.PlayerO)

	// Then: the same players continue; X still owns the seat
	_, _, err = current.Admit("x", "alice")
	require.ErrorIs(t, err, apperror.ErrAlreadyJoined)

	_, _, err = current.SubmitMove("x", 4)
	require.NoError(t, err)
}

func TestRoom_Leave(t *testing.T) {
	// Given: a room with one member
	current := newRoom("r1")

	member, _, err := current.Admit("c1", "alice")
	require.NoError(t, err)

	// When: the member leaves
	removed, ok := current.Leave("c1")

	// Then: the roster entry is gone and the outbox is closed
	require.True(t, ok)
	assert.Equal(t, member.ID, removed.ID)
	assert.Equal(t, 0, current.Connected())

	_, open := <-member.Outbox()
	assert.False(t, open)

	// When: the same identity leaves again
	_, ok = current.Leave("c1")

	// Then: leaving is idempotent
	assert.False(t, ok)
}

func TestRoom_Broadcast(t *testing.T) {
	t.Run("All members receive the payload", func(t *testing.T) {
		// Given: a room with three members
		current := newRoom("r1")

		var members []*Member
		for _, id := range []string{"c1", "c2", "c3"} {
			member, _, err := current.Admit(id, id)
			require.NoError(t, err)
			members = append(members, member)
		}

		// When: a payload is broadcast
		current.Broadcast([]byte("hello"))

		// Then: every member, spectator included, finds it on its outbox
		for _, member := range members {
			payload := <-member.Outbox()
			assert.Equal(t, []byte("hello"), payload)
		}
	})

	t.Run("A member with a full queue is pruned", func(t *testing.T) {
		// Given: a room where one member stopped draining its outbox
		current := newRoom("r1")

		stalled, _, err := current.Admit("c1", "alice")
		require.NoError(t, err)
		healthy, _, err := current.Admit("c2", "bob")
		require.NoError(t, err)

		for i := 0; i < outboxSize; i++ {
			require.True(t, current.Send("c1", []byte("x")))
		}

		// When: the next broadcast cannot enqueue for the stalled member
		current.Broadcast([]byte("state"))

		// Then: the stalled member is dropped and delivery to the rest proceeded
		assert.Equal(t, 1, current.Connected())
		drainUntil(t, healthy, "state")

		_ = stalled
	})
}

func TestRoom_Send(t *testing.T) {
	// Given: a room with one member
	current := newRoom("r1")

	member, _, err := current.Admit("c1", "alice")
	require.NoError(t, err)

	// When: a payload is sent to the member and to an unknown identity
	okKnown := current.Send("c1", []byte("only you"))
	okUnknown := current.Send("ghost", []byte("nobody"))

	// Then: only the known member receives it
	assert.True(t, okKnown)
	assert.False(t, okUnknown)
	assert.Equal(t, []byte("only you"), <-member.Outbox())
}

// drainUntil reads the member's outbox until the wanted payload shows up.
func drainUntil(t *testing.T, member *Member, want string) {
	t.Helper()

	for i := 0; i < outboxSize+1; i++ {
		select {
		case payload := <-member.Outbox():
			if string(payload) == want {
				return
			}
		default:
			t.Fatalf("payload %q never delivered", want)
		}
	}

	t.Fatalf("payload %q never delivered", want)
}

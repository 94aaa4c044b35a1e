package room

import (
	"sync"

	"github.com/google/uuid"
)

// roomIDLength keeps room ids short enough to share by hand.
const roomIDLength = 8

// Info is one row of the registry listing: a room id and its live
// connection count.
type Info struct {
	ID        string `json:"room_id"`
	Connected int    `json:"connected"`
}

// Registry is the process-wide room table. Its lock covers only lookup and
// insertion; gameplay inside each room runs under the room's own guard.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*Room),
	}
}

// GetOrCreate - returns the room for id, creating it on first reference.
// Concurrent calls for the same unseen id yield one shared instance.
func (that *Registry) GetOrCreate(id string) *Room {
	that.mu.RLock()
	existing, ok := that.rooms[id]
	that.mu.RUnlock()

	if ok {
		return existing
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if existing, ok = that.rooms[id]; ok {
		return existing
	}

	created := newRoom(id)
	that.rooms[id] = created

	return created
}

// Create - creates a room under a fresh short id.
func (that *Registry) Create() *Room {
	that.mu.Lock()
	defer that.mu.Unlock()

	var id string
	for {
		id = uuid.NewString()[:roomIDLength]
		if _, ok := that.rooms[id]; !ok {
			break
		}
	}

	created := newRoom(id)
	that.rooms[id] = created

	return created
}

// List - snapshots every room id with its live roster size.
func (that *Registry) List() []Info {
	that.mu.RLock()
	defer that.mu.RUnlock()

	infos := make([]Info, 0, len(that.rooms))
	for id, current := range that.rooms {
		infos = append(infos, Info{ID: id, Connected: current.Connected()})
	}

	return infos
}

package loop

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType identifies the type of client event.
type EventType int

const (
	EventServerShutdown EventType = iota
)

// Event is sent from the registry to a running game.
type Event struct {
	Type EventType
}

// Handle represents one running game in the registry.
type Handle struct {
	ID       uuid.UUID
	Username string
	Events   chan Event // Events sent to the game
}

// Registry tracks the games running in one process so they can be told
// about a shutdown. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*Handle
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{clients: make(map[uuid.UUID]*Handle)}
}

// Register adds a game for the given user and returns its handle.
func (r *Registry) Register(username string) *Handle {
	h := &Handle{
		ID:       uuid.New(),
		Username: username,
		Events:   make(chan Event, 4),
	}
	r.mu.Lock()
	r.clients[h.ID] = h
	r.mu.Unlock()
	return h
}

// Unregister removes a game. Unknown ids are ignored.
func (r *Registry) Unregister(id uuid.UUID) {
	r.mu.Lock()
	delete(r.clients, id)
	r.mu.Unlock()
}

// Count returns the number of registered games.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Shutdown notifies all registered games and waits for them to unregister,
// up to the given timeout. It reports whether every game left in time.
func (r *Registry) Shutdown(timeout time.Duration) bool {
	r.mu.RLock()
	for _, h := range r.clients {
		select {
		case h.Events <- Event{Type: EventServerShutdown}:
		default:
		}
	}
	r.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if r.Count() == 0 {
			return true
		}
		select {
		case <-deadline:
			return false
		case <-ticker.C:
		}
	}
}

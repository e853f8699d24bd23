package server

import (
	"sync"

	"github.com/google/uuid"

	"github.com/Miguel28347/TeamChat/pkg/protocol"
)

// ClientRegistry is the set of all live sessions. A session is a member
// exactly while it is connected and not yet torn down; membership is the only
// input to broadcast recipient selection (rooms are a session attribute,
// filtered at delivery time, not sub-collections).
type ClientRegistry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewClientRegistry creates an empty registry.
func NewClientRegistry() *ClientRegistry {
	return &ClientRegistry{
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Add registers a newly connected session.
func (r *ClientRegistry) Add(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID()] = s
}

// Remove unregisters a session. Safe to call more than once.
func (r *ClientRegistry) Remove(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, s.ID())
}

// Count returns the number of live sessions.
func (r *ClientRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// All returns a snapshot of the live sessions. The snapshot may be stale by
// one membership change by the time the caller iterates it.
func (r *ClientRegistry) All() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		result = append(result, s)
	}
	return result
}

// Broadcast tags text as "[room] nickname: text" and delivers it to every
// session whose room equals the sender's room at the moment of delivery,
// including the sender. Delivery is fire-and-forget; a failed write to one
// recipient does not affect the others. Returns how many sessions received
// the line and how many deliveries were dropped.
func (r *ClientRegistry) Broadcast(text string, from *Session) (delivered, dropped int) {
	room := from.Room()
	tagged := protocol.FormatBroadcast(room, from.Nickname(), text)

	for _, s := range r.All() {
		if s.Room() != room {
			continue
		}
		if err := s.Send(tagged); err != nil {
			dropped++
			continue
		}
		delivered++
	}
	return delivered, dropped
}

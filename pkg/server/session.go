package server

import (
	"net"
	"sync"

	"github.com/google/uuid"

	"github.com/Miguel28347/TeamChat/pkg/protocol"
)

// Session is the server-side state for one connected participant: its
// nickname, its current room, and the exclusively owned write side of the
// connection. The handling goroutine owns the session for the lifetime of the
// connection; the registry and directory hold non-owning references for
// routing.
type Session struct {
	id   uuid.UUID
	conn net.Conn

	// mu guards nickname and room. Only the owning goroutine writes them,
	// but broadcast and whisper routing read them from other goroutines.
	mu       sync.RWMutex
	nickname string
	room     string

	// wmu serializes line writes so two concurrent deliveries never
	// interleave partial lines on the wire.
	wmu    sync.Mutex
	closed bool
}

// NewSession wraps a freshly accepted connection with default identity.
func NewSession(conn net.Conn) *Session {
	return &Session{
		id:       uuid.New(),
		conn:     conn,
		nickname: protocol.DefaultNickname,
		room:     protocol.DefaultRoom,
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// RemoteAddr returns the peer address, for logging.
func (s *Session) RemoteAddr() string {
	if addr := s.conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return "unknown"
}

// Nickname returns the current nickname.
func (s *Session) Nickname() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nickname
}

// SetNickname updates the nickname and returns the previous one.
func (s *Session) SetNickname(nick string) (old string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	old = s.nickname
	s.nickname = nick
	return old
}

// Room returns the current room.
func (s *Session) Room() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.room
}

// SetRoom updates the room and returns the previous one.
func (s *Session) SetRoom(room string) (old string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	old = s.room
	s.room = room
	return old
}

// Send writes one line to the client. Delivery is fire-and-forget: an error
// (including a write racing session teardown) means the line is dropped and
// it is the caller's choice whether to count it. Safe for concurrent use.
func (s *Session) Send(line string) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	if s.closed {
		return net.ErrClosed
	}
	_, err := s.conn.Write([]byte(line + "\n"))
	return err
}

// Close releases the connection. Idempotent; a delivery already in flight
// fails with a write error rather than crashing the sender.
func (s *Session) Close() error {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Close()
}

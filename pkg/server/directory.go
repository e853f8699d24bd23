package server

import "sync"

// NicknameDirectory maps nicknames to the sessions that own them, for private
// message routing. A session is indexed only after an explicit /nick; a
// freshly connected "Guest" is not in the directory. Uniqueness is not
// enforced beyond last-writer-wins on Rename.
type NicknameDirectory struct {
	mu      sync.RWMutex
	entries map[string]*Session
}

// NewNicknameDirectory creates an empty directory.
func NewNicknameDirectory() *NicknameDirectory {
	return &NicknameDirectory{
		entries: make(map[string]*Session),
	}
}

// Get resolves a nickname to its session. Returns nil when the nickname is
// not registered; a target that disconnected a moment ago looks the same as
// one that never existed.
func (d *NicknameDirectory) Get(nick string) *Session {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.entries[nick]
}

// Rename reassigns a session from oldNick to newNick: the old key is removed
// only if it still points at this session, then the new key is inserted,
// overwriting any other claimant. The pair is atomic with respect to other
// directory mutations, but a lookup racing a rename elsewhere in the server
// (the session's own nickname field changes outside this lock) can transiently
// miss or double-resolve; that is accepted behavior.
func (d *NicknameDirectory) Rename(oldNick, newNick string, s *Session) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.entries[oldNick] == s {
		delete(d.entries, oldNick)
	}
	d.entries[newNick] = s
}

// RemoveIfOwner deletes the entry for nick only if it points at s. Used by
// session cleanup so a disconnecting "alice" cannot evict a newer session
// that has since claimed the name.
func (d *NicknameDirectory) RemoveIfOwner(nick string, s *Session) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.entries[nick] == s {
		delete(d.entries, nick)
	}
}

// Count returns the number of registered nicknames.
func (d *NicknameDirectory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}

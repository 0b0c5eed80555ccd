package engine

import (
	"errors"
	"fmt"
	"sync"
)

// ErrSessionNotFound means the session id is unknown or already closed.
var ErrSessionNotFound = errors.New("session not found")

var sessions = struct {
	sync.RWMutex
	m map[string]*Session
}{m: make(map[string]*Session)}

// RegisterSession makes the session addressable by id.
func RegisterSession(s *Session) {
	sessions.Lock()
	sessions.m[s.ID] = s
	sessions.Unlock()
}

// LookupSession resolves a session id.
func LookupSession(id string) (*Session, error) {
	sessions.RLock()
	s, ok := sessions.m[id]
	sessions.RUnlock()
	if !ok {
		return nil, fmt.Errorf("session %q: %w", id, ErrSessionNotFound)
	}
	return s, nil
}

// CloseSession stops the session's background work and forgets it.
func CloseSession(id string) error {
	sessions.Lock()
	s, ok := sessions.m[id]
	if ok {
		delete(sessions.m, id)
	}
	sessions.Unlock()
	if !ok {
		return fmt.Errorf("session %q: %w", id, ErrSessionNotFound)
	}
	s.Close()
	return nil
}

// SessionCount returns the number of live sessions.
func SessionCount() int {
	sessions.RLock()
	defer sessions.RUnlock()
	return len(sessions.m)
}

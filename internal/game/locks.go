package game

import "sync"

// lobbyLocks hands out one mutex per lobby id. Entries are never removed;
// lobbies are never deleted either.
type lobbyLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newLobbyLocks() *lobbyLocks {
	return &lobbyLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *lobbyLocks) lock(lobbyID string) func() {
	l.mu.Lock()
	m, ok := l.locks[lobbyID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[lobbyID] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m.Unlock
}

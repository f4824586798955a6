package store

import (
	"context"
	"sort"
	"sync"

	"telestrations/internal/game"
)

type roundKey struct {
	lobbyID  string
	playerID string
	number   int
}

// EventRecord is one entry of the in-memory event log.
type EventRecord struct {
	LobbyID string
	Kind    string
	Payload any
}

// Memory is a process-local game.Store. Records are copied in and out so
// callers never share state with the store.
type Memory struct {
	mu      sync.RWMutex
	lobbies map[string]game.Lobby
	members map[string][]game.Member
	rounds  map[roundKey]game.Round
	events  []EventRecord
}

func NewMemory() *Memory {
	return &Memory{
		lobbies: make(map[string]game.Lobby),
		members: make(map[string][]game.Member),
		rounds:  make(map[roundKey]game.Round),
	}
}

func (m *Memory) CreateLobby(_ context.Context, lobby *game.Lobby) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lobbies[lobby.ID]; ok {
		return game.InvalidStatef("create lobby", "lobby %s already exists", lobby.ID)
	}
	record := *lobby
	record.Players = nil
	m.lobbies[lobby.ID] = record
	return nil
}

func (m *Memory) GetLobby(_ context.Context, id string) (*game.Lobby, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	lobby, ok := m.lobbies[id]
	if !ok {
		return nil, game.NotFoundf("get lobby", "lobby %s not found", id)
	}
	return &lobby, nil
}

func (m *Memory) ListLobbies(_ context.Context, status game.LobbyStatus) ([]game.Lobby, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := make([]game.Lobby, 0)
	for _, lobby := range m.lobbies {
		if status != "" && lobby.Status != status {
			continue
		}
		list = append(list, lobby)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list, nil
}

func (m *Memory) UpdateLobby(_ context.Context, lobby *game.Lobby) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lobbies[lobby.ID]; !ok {
		return game.NotFoundf("update lobby", "lobby %s not found", lobby.ID)
	}
	record := *lobby
	record.Players = nil
	m.lobbies[lobby.ID] = record
	return nil
}

func (m *Memory) ListMembers(_ context.Context, lobbyID string) ([]game.Member, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.lobbies[lobbyID]; !ok {
		return nil, game.NotFoundf("list members", "lobby %s not found", lobbyID)
	}
	out := make([]game.Member, len(m.members[lobbyID]))
	copy(out, m.members[lobbyID])
	return out, nil
}

func (m *Memory) GetMember(_ context.Context, lobbyID, playerID string) (*game.Member, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, member := range m.members[lobbyID] {
		if member.PlayerID == playerID {
			return &member, nil
		}
	}
	return nil, game.NotFoundf("get member", "player %s is not in lobby %s", playerID, lobbyID)
}

func (m *Memory) AddMember(_ context.Context, member *game.Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lobbies[member.LobbyID]; !ok {
		return game.NotFoundf("add member", "lobby %s not found", member.LobbyID)
	}
	for _, existing := range m.members[member.LobbyID] {
		if existing.PlayerID == member.PlayerID {
			return game.InvalidStatef("add member", "player %s already in lobby %s", member.PlayerID, member.LobbyID)
		}
	}
	m.members[member.LobbyID] = append(m.members[member.LobbyID], *member)
	return nil
}

func (m *Memory) RemoveMember(_ context.Context, lobbyID, playerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	members := m.members[lobbyID]
	for i := range members {
		if members[i].PlayerID == playerID {
			m.members[lobbyID] = append(members[:i:i], members[i+1:]...)
			return nil
		}
	}
	return game.NotFoundf("remove member", "player %s is not in lobby %s", playerID, lobbyID)
}

func (m *Memory) UpdateMember(_ context.Context, member *game.Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	members := m.members[member.LobbyID]
	for i := range members {
		if members[i].PlayerID == member.PlayerID {
			members[i] = *member
			return nil
		}
	}
	return game.NotFoundf("update member", "player %s is not in lobby %s", member.PlayerID, member.LobbyID)
}

func (m *Memory) CreateRound(_ context.Context, round *game.Round) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := roundKey{round.LobbyID, round.PlayerID, round.Number}
	if _, ok := m.rounds[key]; ok {
		return game.InvalidStatef("create round", "round %d for %s already exists", round.Number, round.PlayerID)
	}
	m.rounds[key] = *round
	return nil
}

func (m *Memory) GetRound(_ context.Context, lobbyID, playerID string, number int) (*game.Round, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	round, ok := m.rounds[roundKey{lobbyID, playerID, number}]
	if !ok {
		return nil, game.NotFoundf("get round", "no round %d for player %s in lobby %s", number, playerID, lobbyID)
	}
	return &round, nil
}

func (m *Memory) ListRounds(_ context.Context, lobbyID string, number int) ([]game.Round, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]game.Round, 0)
	for key, round := range m.rounds {
		if key.lobbyID == lobbyID && key.number == number {
			out = append(out, round)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out, nil
}

func (m *Memory) UpdateRound(_ context.Context, round *game.Round) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := roundKey{round.LobbyID, round.PlayerID, round.Number}
	if _, ok := m.rounds[key]; !ok {
		return game.NotFoundf("update round", "no round %d for player %s", round.Number, round.PlayerID)
	}
	m.rounds[key] = *round
	return nil
}

func (m *Memory) AppendEvent(_ context.Context, lobbyID, kind string, payload any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, EventRecord{LobbyID: lobbyID, Kind: kind, Payload: payload})
	return nil
}

// Events returns the event log for one lobby in append order.
func (m *Memory) Events(lobbyID string) []EventRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]EventRecord, 0)
	for _, e := range m.events {
		if e.LobbyID == lobbyID {
			out = append(out, e)
		}
	}
	return out
}

// Atomic runs fn against a transaction that records how to undo each write.
// If fn fails, the writes it made are rolled back and its events dropped.
func (m *Memory) Atomic(_ context.Context, fn func(game.Store) error) error {
	tx := &memoryTx{Memory: m}
	if err := fn(tx); err != nil {
		tx.rollback()
		return err
	}
	tx.commit()
	return nil
}

package store

import (
	"context"

	"telestrations/internal/game"
)

// memoryTx wraps Memory for the duration of one Atomic call. Reads go
// straight to the store; writes are applied immediately and paired with an
// undo step. Events are buffered until commit.
type memoryTx struct {
	*Memory
	undo   []func()
	events []EventRecord
}

func (tx *memoryTx) rollback() {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
	tx.undo = nil
	tx.events = nil
}

func (tx *memoryTx) commit() {
	if len(tx.events) == 0 {
		return
	}
	tx.mu.Lock()
	defer tx.mu.Unlock()
	tx.Memory.events = append(tx.Memory.events, tx.events...)
}

func (tx *memoryTx) CreateLobby(ctx context.Context, lobby *game.Lobby) error {
	if err := tx.Memory.CreateLobby(ctx, lobby); err != nil {
		return err
	}
	id := lobby.ID
	tx.undo = append(tx.undo, func() {
		delete(tx.lobbies, id)
		delete(tx.members, id)
	})
	return nil
}

func (tx *memoryTx) UpdateLobby(ctx context.Context, lobby *game.Lobby) error {
	tx.mu.RLock()
	prev, ok := tx.lobbies[lobby.ID]
	tx.mu.RUnlock()
	if err := tx.Memory.UpdateLobby(ctx, lobby); err != nil {
		return err
	}
	if ok {
		tx.undo = append(tx.undo, func() { tx.lobbies[prev.ID] = prev })
	}
	return nil
}

func (tx *memoryTx) AddMember(ctx context.Context, member *game.Member) error {
	return tx.withMembersUndo(member.LobbyID, func() error {
		return tx.Memory.AddMember(ctx, member)
	})
}

func (tx *memoryTx) RemoveMember(ctx context.Context, lobbyID, playerID string) error {
	return tx.withMembersUndo(lobbyID, func() error {
		return tx.Memory.RemoveMember(ctx, lobbyID, playerID)
	})
}

func (tx *memoryTx) UpdateMember(ctx context.Context, member *game.Member) error {
	return tx.withMembersUndo(member.LobbyID, func() error {
		return tx.Memory.UpdateMember(ctx, member)
	})
}

// withMembersUndo snapshots the lobby's member list before write runs.
// UpdateMember edits the slice in place, so the snapshot is a copy.
func (tx *memoryTx) withMembersUndo(lobbyID string, write func() error) error {
	tx.mu.RLock()
	prev, had := tx.members[lobbyID]
	snapshot := make([]game.Member, len(prev))
	copy(snapshot, prev)
	tx.mu.RUnlock()
	if err := write(); err != nil {
		return err
	}
	tx.undo = append(tx.undo, func() {
		if !had {
			delete(tx.members, lobbyID)
			return
		}
		tx.members[lobbyID] = snapshot
	})
	return nil
}

func (tx *memoryTx) CreateRound(ctx context.Context, round *game.Round) error {
	if err := tx.Memory.CreateRound(ctx, round); err != nil {
		return err
	}
	key := roundKey{round.LobbyID, round.PlayerID, round.Number}
	tx.undo = append(tx.undo, func() { delete(tx.rounds, key) })
	return nil
}

func (tx *memoryTx) UpdateRound(ctx context.Context, round *game.Round) error {
	key := roundKey{round.LobbyID, round.PlayerID, round.Number}
	tx.mu.RLock()
	prev, ok := tx.rounds[key]
	tx.mu.RUnlock()
	if err := tx.Memory.UpdateRound(ctx, round); err != nil {
		return err
	}
	if ok {
		tx.undo = append(tx.undo, func() { tx.rounds[key] = prev })
	}
	return nil
}

func (tx *memoryTx) AppendEvent(_ context.Context, lobbyID, kind string, payload any) error {
	tx.events = append(tx.events, EventRecord{LobbyID: lobbyID, Kind: kind, Payload: payload})
	return nil
}

// Atomic nests into the enclosing transaction.
func (tx *memoryTx) Atomic(_ context.Context, fn func(game.Store) error) error {
	return fn(tx)
}

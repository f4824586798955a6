package game

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
)

func (e *Engine) submit(ctx context.Context, op, lobbyID, playerID string, number int, content string, kind RoundType) (*SubmitResult, error) {
	if kind != RoundDrawWord {
		content = strings.TrimSpace(content)
	}
	if content == "" {
		return nil, validation(op, "content is required")
	}
	if number < 1 {
		return nil, validation(op, "round number must be positive, got %d", number)
	}

	unlock := e.locks.lock(lobbyID)
	defer unlock()

	lobby, err := loadLobby(ctx, e.store, lobbyID)
	if err != nil {
		return nil, err
	}
	if lobby.Status != StatusInProgress {
		return nil, invalidState(op, "lobby %s is %s", lobbyID, lobby.Status)
	}
	round, err := e.store.GetRound(ctx, lobbyID, playerID, number)
	if err != nil {
		return nil, err
	}
	if (round.Type == RoundDrawWord) != (kind == RoundDrawWord) {
		return nil, validation(op, "round %d is a %s round", number, round.Type)
	}

	if round.Response() == content {
		return e.resubmitted(ctx, lobby, round)
	}
	if e.strictRounds && number != lobby.CurrentRound {
		return nil, invalidState(op, "round %d is not open, current round is %d", number, lobby.CurrentRound)
	}

	round.setResponse(content)
	round.UpdatedAt = e.now()
	result := &SubmitResult{Lobby: lobby, Round: *round}
	err = e.store.Atomic(ctx, func(tx Store) error {
		if err := tx.UpdateRound(ctx, round); err != nil {
			return err
		}
		// The member's word only follows round one while that round is open.
		if round.Type == RoundSelectWord && number == lobby.CurrentRound {
			member, err := tx.GetMember(ctx, lobbyID, playerID)
			if err != nil {
				return err
			}
			member.Word = content
			if err := tx.UpdateMember(ctx, member); err != nil {
				return err
			}
		}
		if err := tx.AppendEvent(ctx, lobbyID, "content_submitted", map[string]any{
			"player_id":    playerID,
			"round_number": number,
			"round_type":   round.Type,
		}); err != nil {
			return err
		}
		return e.closeIfComplete(ctx, tx, lobby, result)
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("lobby_id", lobbyID).Str("player_id", playerID).Int("round", number).Str("round_type", string(round.Type)).Msg("content submitted")
	e.reportProgress(lobby, result)
	return result, nil
}

// resubmitted handles a submission identical to what is stored. Nothing is
// written, but if the current round is already complete the advance is
// retried so a lobby whose earlier advance failed can move on.
func (e *Engine) resubmitted(ctx context.Context, lobby *Lobby, round *Round) (*SubmitResult, error) {
	result := &SubmitResult{Lobby: lobby, Round: *round, Unchanged: true}
	if round.Number != lobby.CurrentRound {
		return result, nil
	}
	err := e.store.Atomic(ctx, func(tx Store) error {
		return e.closeIfComplete(ctx, tx, lobby, result)
	})
	if err != nil {
		return nil, err
	}
	e.reportProgress(lobby, result)
	return result, nil
}

// closeIfComplete fills result.WaitingOn, or advances the lobby through tx
// when nobody is left to submit for the current round.
func (e *Engine) closeIfComplete(ctx context.Context, tx Store, lobby *Lobby, result *SubmitResult) error {
	pending, err := pendingPlayers(ctx, tx, lobby)
	if err != nil {
		return err
	}
	if len(pending) > 0 {
		result.WaitingOn = pending
		return nil
	}
	if err := e.advance(ctx, tx, lobby); err != nil {
		return err
	}
	result.Advanced = true
	result.Completed = lobby.Status == StatusComplete
	return nil
}

func (e *Engine) reportProgress(lobby *Lobby, result *SubmitResult) {
	if !result.Advanced {
		if len(result.WaitingOn) > 0 {
			log.Debug().Str("lobby_id", lobby.ID).Int("round", lobby.CurrentRound).Strs("waiting_on", result.WaitingOn).Msg("round still open")
		}
		return
	}
	if result.Completed {
		log.Info().Str("lobby_id", lobby.ID).Int("rounds", lobby.TotalRounds).Msg("game complete")
	} else {
		log.Info().Str("lobby_id", lobby.ID).Int("round", lobby.CurrentRound).Msg("round advanced")
	}
	e.notifier.Notify(lobby.ID, EventUpdateLobby, lobby)
}

// pendingPlayers lists, in join order, the members with no response for the
// lobby's current round.
func pendingPlayers(ctx context.Context, store Store, lobby *Lobby) ([]string, error) {
	rounds, err := store.ListRounds(ctx, lobby.ID, lobby.CurrentRound)
	if err != nil {
		return nil, err
	}
	done := make(map[string]bool, len(rounds))
	for _, r := range rounds {
		if r.Submitted() {
			done[r.PlayerID] = true
		}
	}
	pending := make([]string, 0)
	for _, m := range lobby.Players {
		if !done[m.PlayerID] {
			pending = append(pending, m.PlayerID)
		}
	}
	return pending, nil
}

// advance closes the current round through tx. Past the last round the
// lobby is completed; otherwise every player gets a record for the next
// round seeded with what their predecessor produced in the round just
// closed. lobby is only modified once every write has succeeded.
func (e *Engine) advance(ctx context.Context, tx Store, lobby *Lobby) error {
	const op = "advance round"
	next := lobby.CurrentRound + 1
	if next > lobby.TotalRounds {
		closed := *lobby
		closed.Status = StatusComplete
		if err := tx.UpdateLobby(ctx, &closed); err != nil {
			return err
		}
		if err := tx.AppendEvent(ctx, lobby.ID, "game_completed", map[string]any{"rounds": lobby.TotalRounds}); err != nil {
			return err
		}
		lobby.Status = StatusComplete
		return nil
	}

	ring, err := RingFromMembers(lobby.Players)
	if err != nil {
		return err
	}
	finished, err := tx.ListRounds(ctx, lobby.ID, lobby.CurrentRound)
	if err != nil {
		return err
	}
	byPlayer := make(map[string]Round, len(finished))
	for _, r := range finished {
		byPlayer[r.PlayerID] = r
	}

	nextType := RoundTypeFor(next)
	for _, playerID := range ring.Order() {
		predecessor, _ := ring.PredecessorOf(playerID)
		prev, ok := byPlayer[predecessor]
		if !ok {
			return invalidState(op, "no round %d record for %s", lobby.CurrentRound, predecessor)
		}
		round := &Round{
			ID:        e.newID(),
			LobbyID:   lobby.ID,
			PlayerID:  playerID,
			Number:    next,
			Type:      nextType,
			UpdatedAt: e.now(),
		}
		if nextType == RoundDrawWord {
			round.Word = prev.Response()
		} else {
			round.Drawing = prev.Response()
		}
		if err := tx.CreateRound(ctx, round); err != nil {
			return err
		}
	}
	opened := *lobby
	opened.CurrentRound = next
	if err := tx.UpdateLobby(ctx, &opened); err != nil {
		return err
	}
	if err := tx.AppendEvent(ctx, lobby.ID, "round_advanced", map[string]any{"round_number": next, "round_type": nextType}); err != nil {
		return err
	}
	lobby.CurrentRound = next
	return nil
}

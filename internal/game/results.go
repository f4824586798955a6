package game

import "context"

// GetResultsForPlayer returns the player's own word followed by what each
// other player made of it, in seating order starting at the successor.
// Rounds not yet played come back as pending entries.
func (e *Engine) GetResultsForPlayer(ctx context.Context, lobbyID, playerID string) (*Results, error) {
	const op = "get results"
	members, err := e.store.ListMembers(ctx, lobbyID)
	if err != nil {
		return nil, err
	}
	byID := indexMembers(members)
	self, ok := byID[playerID]
	if !ok {
		return nil, notFound(op, "player %s is not in lobby %s", playerID, lobbyID)
	}

	results := &Results{
		LobbyID:  lobbyID,
		PlayerID: playerID,
		Name:     self.Name,
		Word:     self.Word,
		Chain:    make([]ChainEntry, 0, len(members)-1),
	}
	current := self.NextPlayerID
	roundToFetch := 2
	// Bounded by the member count so broken pointers cannot loop forever.
	for hops := 0; hops < len(members)-1 && current != playerID; hops++ {
		member, ok := byID[current]
		if !ok {
			return nil, invalidState(op, "seating points at unknown player %q", current)
		}
		entry := ChainEntry{
			PlayerID: current,
			Name:     member.Name,
			Round:    roundToFetch,
			Type:     RoundTypeFor(roundToFetch),
		}
		round, err := e.store.GetRound(ctx, lobbyID, current, roundToFetch)
		switch {
		case err == nil:
			entry.Type = round.Type
			switch round.Type {
			case RoundGuessWord:
				entry.Word = round.Word
			case RoundDrawWord:
				entry.Drawing = round.Drawing
			}
			entry.Pending = !round.Submitted()
		case isNotFound(err):
			entry.Pending = true
		default:
			return nil, err
		}
		results.Chain = append(results.Chain, entry)
		current = member.NextPlayerID
		roundToFetch++
	}
	return results, nil
}

// GetChain lists the members in seating order, starting from the first
// member to join.
func (e *Engine) GetChain(ctx context.Context, lobbyID string) ([]Member, error) {
	const op = "get chain"
	lobby, err := loadLobby(ctx, e.store, lobbyID)
	if err != nil {
		return nil, err
	}
	if lobby.Status == StatusWaitingForPlayers {
		return nil, invalidState(op, "lobby %s has not started", lobbyID)
	}
	if len(lobby.Players) == 0 {
		return []Member{}, nil
	}
	byID := indexMembers(lobby.Players)
	chain := make([]Member, 0, len(lobby.Players))
	seen := make(map[string]bool, len(lobby.Players))
	current := lobby.Players[0].PlayerID
	for range lobby.Players {
		if seen[current] {
			break
		}
		member, ok := byID[current]
		if !ok {
			return nil, invalidState(op, "seating points at unknown player %q", current)
		}
		seen[current] = true
		chain = append(chain, member)
		current = member.NextPlayerID
	}
	if len(chain) != len(lobby.Players) {
		return nil, invalidState(op, "seating in lobby %s does not reach every player", lobbyID)
	}
	return chain, nil
}

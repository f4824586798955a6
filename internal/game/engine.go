package game

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Engine drives lobbies from WaitingForPlayers through every round to
// Complete. Mutations of one lobby are serialized; reads are not.
type Engine struct {
	store        Store
	notifier     Notifier
	locks        *lobbyLocks
	shuffle      func([]string)
	newID        func() string
	now          func() time.Time
	minPlayers   int
	strictRounds bool
}

type Option func(*Engine)

func WithShuffle(shuffle func([]string)) Option {
	return func(e *Engine) { e.shuffle = shuffle }
}

func WithIDs(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithMinPlayers sets the smallest lobby StartGame accepts.
func WithMinPlayers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.minPlayers = n
		}
	}
}

// WithStrictRounds controls whether content may only be submitted for the
// lobby's current round.
func WithStrictRounds(strict bool) Option {
	return func(e *Engine) { e.strictRounds = strict }
}

func NewEngine(store Store, notifier Notifier, opts ...Option) *Engine {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	e := &Engine{
		store:        store,
		notifier:     notifier,
		locks:        newLobbyLocks(),
		shuffle:      ShuffleRandom,
		newID:        uuid.NewString,
		now:          func() time.Time { return time.Now().UTC() },
		minPlayers:   1,
		strictRounds: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) CreateLobby(ctx context.Context, name string) (*Lobby, error) {
	lobby := &Lobby{
		ID:        e.newID(),
		Name:      strings.TrimSpace(name),
		Status:    StatusWaitingForPlayers,
		CreatedAt: e.now(),
		Players:   []Member{},
	}
	if err := e.store.CreateLobby(ctx, lobby); err != nil {
		return nil, err
	}
	if err := e.store.AppendEvent(ctx, lobby.ID, "lobby_created", map[string]any{"name": lobby.Name}); err != nil {
		log.Warn().Err(err).Str("lobby_id", lobby.ID).Msg("event append failed")
	}
	log.Info().Str("lobby_id", lobby.ID).Str("name", lobby.Name).Msg("lobby created")
	return lobby, nil
}

// GetLobby returns the lobby with its members in join order.
func (e *Engine) GetLobby(ctx context.Context, id string) (*Lobby, error) {
	return loadLobby(ctx, e.store, id)
}

func (e *Engine) ListJoinableLobbies(ctx context.Context) ([]Lobby, error) {
	lobbies, err := e.store.ListLobbies(ctx, StatusWaitingForPlayers)
	if err != nil {
		return nil, err
	}
	for i := range lobbies {
		members, err := e.store.ListMembers(ctx, lobbies[i].ID)
		if err != nil {
			return nil, err
		}
		lobbies[i].Players = members
	}
	return lobbies, nil
}

// AddOrRemovePlayers toggles membership: players already in the lobby are
// removed, everyone else is added.
func (e *Engine) AddOrRemovePlayers(ctx context.Context, lobbyID string, players []PlayerRef) (*Lobby, error) {
	const op = "add or remove players"
	if len(players) == 0 {
		return nil, validation(op, "no players given")
	}
	for _, p := range players {
		if strings.TrimSpace(p.ID) == "" {
			return nil, validation(op, "player id is required")
		}
	}

	unlock := e.locks.lock(lobbyID)
	defer unlock()

	lobby, err := loadLobby(ctx, e.store, lobbyID)
	if err != nil {
		return nil, err
	}
	if lobby.Status != StatusWaitingForPlayers {
		return nil, invalidState(op, "lobby %s is %s", lobbyID, lobby.Status)
	}

	present := make(map[string]bool, len(lobby.Players))
	for _, m := range lobby.Players {
		present[m.PlayerID] = true
	}
	added, removed := 0, 0
	err = e.store.Atomic(ctx, func(tx Store) error {
		for _, p := range players {
			id := strings.TrimSpace(p.ID)
			if present[id] {
				if err := tx.RemoveMember(ctx, lobbyID, id); err != nil {
					return err
				}
				present[id] = false
				removed++
				continue
			}
			member := &Member{
				LobbyID:  lobbyID,
				PlayerID: id,
				Name:     strings.TrimSpace(p.Name),
				JoinedAt: e.now(),
			}
			if err := tx.AddMember(ctx, member); err != nil {
				return err
			}
			present[id] = true
			added++
		}
		return tx.AppendEvent(ctx, lobbyID, "players_changed", map[string]any{"added": added, "removed": removed})
	})
	if err != nil {
		return nil, err
	}

	lobby, err = loadLobby(ctx, e.store, lobbyID)
	if err != nil {
		return nil, err
	}
	log.Info().Str("lobby_id", lobbyID).Int("added", added).Int("removed", removed).Int("players", len(lobby.Players)).Msg("lobby membership changed")
	e.notifier.Notify(lobbyID, EventUpdateLobby, lobby)
	return lobby, nil
}

// StartGame seats the players in a shuffled ring and opens round one.
func (e *Engine) StartGame(ctx context.Context, lobbyID string) (*Lobby, error) {
	const op = "start game"
	unlock := e.locks.lock(lobbyID)
	defer unlock()

	lobby, err := loadLobby(ctx, e.store, lobbyID)
	if err != nil {
		return nil, err
	}
	if lobby.Status != StatusWaitingForPlayers {
		return nil, invalidState(op, "lobby %s is %s", lobbyID, lobby.Status)
	}
	n := len(lobby.Players)
	if n == 0 || n < e.minPlayers {
		return nil, validation(op, "need at least %d players, have %d", max(e.minPlayers, 1), n)
	}

	ids := make([]string, 0, n)
	for _, m := range lobby.Players {
		ids = append(ids, m.PlayerID)
	}
	e.shuffle(ids)
	ring, err := NewRing(ids)
	if err != nil {
		return nil, err
	}
	links := ring.links()

	err = e.store.Atomic(ctx, func(tx Store) error {
		for i := range lobby.Players {
			m := &lobby.Players[i]
			link := links[m.PlayerID]
			m.PreviousPlayerID = link.Previous
			m.NextPlayerID = link.Next
			if err := tx.UpdateMember(ctx, m); err != nil {
				return err
			}
		}
		for _, id := range ring.Order() {
			round := &Round{
				ID:        e.newID(),
				LobbyID:   lobbyID,
				PlayerID:  id,
				Number:    1,
				Type:      RoundSelectWord,
				UpdatedAt: e.now(),
			}
			if err := tx.CreateRound(ctx, round); err != nil {
				return err
			}
		}
		lobby.Status = StatusInProgress
		lobby.TotalRounds = n
		lobby.CurrentRound = 1
		if err := tx.UpdateLobby(ctx, lobby); err != nil {
			return err
		}
		return tx.AppendEvent(ctx, lobbyID, "game_started", map[string]any{"order": ring.Order(), "total_rounds": n})
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("lobby_id", lobbyID).Int("players", n).Strs("order", ring.Order()).Msg("game started")
	e.notifier.Notify(lobbyID, EventStartGame, nil)
	return lobby, nil
}

func (e *Engine) GetRound(ctx context.Context, lobbyID, playerID string, number int) (*Round, error) {
	return e.store.GetRound(ctx, lobbyID, playerID, number)
}

// GetPlayerWord returns the word the player chose in round one.
func (e *Engine) GetPlayerWord(ctx context.Context, lobbyID, playerID string) (string, error) {
	member, err := e.store.GetMember(ctx, lobbyID, playerID)
	if err != nil {
		return "", err
	}
	if member.Word == "" {
		return "", notFound("get player word", "player %s has not chosen a word", playerID)
	}
	return member.Word, nil
}

// SetPlayerWord submits the player's round-one word.
func (e *Engine) SetPlayerWord(ctx context.Context, lobbyID, playerID, word string) (*SubmitResult, error) {
	return e.submit(ctx, "set player word", lobbyID, playerID, 1, word, RoundSelectWord)
}

func (e *Engine) SubmitDrawing(ctx context.Context, lobbyID, playerID string, number int, drawing string) (*SubmitResult, error) {
	return e.submit(ctx, "submit drawing", lobbyID, playerID, number, drawing, RoundDrawWord)
}

// SubmitGuess stores a written word for a GuessWord round. A word for the
// SelectWord round is accepted too.
func (e *Engine) SubmitGuess(ctx context.Context, lobbyID, playerID string, number int, guess string) (*SubmitResult, error) {
	return e.submit(ctx, "submit guess", lobbyID, playerID, number, guess, RoundGuessWord)
}

func (e *Engine) GetSiblings(ctx context.Context, lobbyID, playerID string) (*Siblings, error) {
	members, err := e.store.ListMembers(ctx, lobbyID)
	if err != nil {
		return nil, err
	}
	byID := indexMembers(members)
	self, ok := byID[playerID]
	if !ok {
		return nil, notFound("get siblings", "player %s is not in lobby %s", playerID, lobbyID)
	}
	prev, okPrev := byID[self.PreviousPlayerID]
	next, okNext := byID[self.NextPlayerID]
	if !okPrev || !okNext {
		return nil, invalidState("get siblings", "lobby %s has not been seated", lobbyID)
	}
	return &Siblings{Previous: prev, Next: next}, nil
}

func loadLobby(ctx context.Context, store Store, id string) (*Lobby, error) {
	lobby, err := store.GetLobby(ctx, id)
	if err != nil {
		return nil, err
	}
	members, err := store.ListMembers(ctx, id)
	if err != nil {
		return nil, err
	}
	lobby.Players = members
	return lobby, nil
}

func indexMembers(members []Member) map[string]Member {
	out := make(map[string]Member, len(members))
	for _, m := range members {
		out[m.PlayerID] = m
	}
	return out
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

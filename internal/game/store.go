package game

import "context"

// Store is the durable record store the engine runs against. Lookups that
// miss return an error matching ErrNotFound.
type Store interface {
	CreateLobby(ctx context.Context, lobby *Lobby) error
	GetLobby(ctx context.Context, id string) (*Lobby, error)
	ListLobbies(ctx context.Context, status LobbyStatus) ([]Lobby, error)
	UpdateLobby(ctx context.Context, lobby *Lobby) error

	// ListMembers returns a lobby's members in join order.
	ListMembers(ctx context.Context, lobbyID string) ([]Member, error)
	GetMember(ctx context.Context, lobbyID, playerID string) (*Member, error)
	AddMember(ctx context.Context, member *Member) error
	RemoveMember(ctx context.Context, lobbyID, playerID string) error
	UpdateMember(ctx context.Context, member *Member) error

	// CreateRound fails with ErrInvalidState if the (lobby, player, number)
	// record already exists.
	CreateRound(ctx context.Context, round *Round) error
	GetRound(ctx context.Context, lobbyID, playerID string, number int) (*Round, error)
	ListRounds(ctx context.Context, lobbyID string, number int) ([]Round, error)
	UpdateRound(ctx context.Context, round *Round) error

	AppendEvent(ctx context.Context, lobbyID, kind string, payload any) error

	// Atomic runs fn against a store whose writes commit together.
	Atomic(ctx context.Context, fn func(Store) error) error
}

const (
	EventStartGame   = "START_GAME"
	EventUpdateLobby = "UPDATE_LOBBY"
	EventWaitingOn   = "WAITING_ON"
	EventStarting    = "STARTING_GAME"
)

// Notifier fans lobby events out to subscribers. Delivery is best effort.
type Notifier interface {
	Notify(lobbyID, event string, payload any)
}

type NopNotifier struct{}

func (NopNotifier) Notify(string, string, any) {}

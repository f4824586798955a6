package game

import "time"

type LobbyStatus string

const (
	StatusWaitingForPlayers LobbyStatus = "WaitingForPlayers"
	StatusInProgress        LobbyStatus = "InProgress"
	StatusComplete          LobbyStatus = "Complete"
)

type RoundType string

const (
	RoundSelectWord RoundType = "SelectWord"
	RoundDrawWord   RoundType = "DrawWord"
	RoundGuessWord  RoundType = "GuessWord"
)

type Lobby struct {
	ID           string      `json:"id"`
	Name         string      `json:"name,omitempty"`
	Status       LobbyStatus `json:"status"`
	TotalRounds  int         `json:"totalRounds"`
	CurrentRound int         `json:"currentRound"`
	CreatedAt    time.Time   `json:"createdAt"`
	Players      []Member    `json:"players"`
}

// Member is a player's membership in one lobby. PreviousPlayerID and
// NextPlayerID are set once at game start.
type Member struct {
	LobbyID          string    `json:"lobbyId"`
	PlayerID         string    `json:"playerId"`
	Name             string    `json:"name,omitempty"`
	Word             string    `json:"word,omitempty"`
	PreviousPlayerID string    `json:"previousPlayerId,omitempty"`
	NextPlayerID     string    `json:"nextPlayerId,omitempty"`
	JoinedAt         time.Time `json:"joinedAt"`
}

// PlayerRef identifies a player supplied by the caller when toggling membership.
type PlayerRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Round is one player's record for one round. The prompt and the response
// share the Word and Drawing fields: a DrawWord round is seeded with a Word
// and answered with a Drawing, a GuessWord round the other way around.
type Round struct {
	ID        string    `json:"id"`
	LobbyID   string    `json:"lobbyId"`
	PlayerID  string    `json:"playerId"`
	Number    int       `json:"roundNumber"`
	Type      RoundType `json:"roundType"`
	Word      string    `json:"word,omitempty"`
	Drawing   string    `json:"drawing,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Response returns the content this round's player produced.
func (r Round) Response() string {
	if r.Type == RoundDrawWord {
		return r.Drawing
	}
	return r.Word
}

// Prompt returns the predecessor's content this round was seeded with.
func (r Round) Prompt() string {
	switch r.Type {
	case RoundDrawWord:
		return r.Word
	case RoundGuessWord:
		return r.Drawing
	default:
		return ""
	}
}

func (r Round) Submitted() bool {
	return r.Response() != ""
}

func (r *Round) setResponse(content string) {
	if r.Type == RoundDrawWord {
		r.Drawing = content
		return
	}
	r.Word = content
}

// RoundTypeFor maps a 1-based round number to its activity.
func RoundTypeFor(number int) RoundType {
	switch {
	case number <= 1:
		return RoundSelectWord
	case number%2 == 0:
		return RoundDrawWord
	default:
		return RoundGuessWord
	}
}

type ChainEntry struct {
	PlayerID string    `json:"playerId"`
	Name     string    `json:"name,omitempty"`
	Round    int       `json:"roundNumber"`
	Type     RoundType `json:"roundType"`
	Word     string    `json:"word,omitempty"`
	Drawing  string    `json:"drawing,omitempty"`
	Pending  bool      `json:"pending,omitempty"`
}

type Results struct {
	LobbyID  string       `json:"lobbyId"`
	PlayerID string       `json:"playerId"`
	Name     string       `json:"name,omitempty"`
	Word     string       `json:"word"`
	Chain    []ChainEntry `json:"chain"`
}

type Siblings struct {
	Previous Member `json:"previousPlayer"`
	Next     Member `json:"nextPlayer"`
}

// SubmitResult reports what a submission did to the lobby. WaitingOn lists
// the players still missing from the current round when it did not advance.
type SubmitResult struct {
	Lobby     *Lobby   `json:"lobby"`
	Round     Round    `json:"round"`
	Unchanged bool     `json:"unchanged,omitempty"`
	Advanced  bool     `json:"advanced"`
	Completed bool     `json:"completed"`
	WaitingOn []string `json:"waitingOn,omitempty"`
}

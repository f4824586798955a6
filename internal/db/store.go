package db

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"telestrations/internal/game"
)

// Store is the Postgres-backed game.Store.
type Store struct {
	conn *gorm.DB
}

func NewStore(conn *gorm.DB) *Store {
	return &Store{conn: conn}
}

func (s *Store) CreateLobby(ctx context.Context, lobby *game.Lobby) error {
	record := lobbyRecord(lobby)
	if err := s.conn.WithContext(ctx).Create(&record).Error; err != nil {
		if isUniqueViolation(err) {
			return game.InvalidStatef("create lobby", "lobby %s already exists", lobby.ID)
		}
		return err
	}
	return nil
}

func (s *Store) GetLobby(ctx context.Context, id string) (*game.Lobby, error) {
	var record Lobby
	if err := s.conn.WithContext(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		return nil, notFoundOr(err, "get lobby", "lobby %s not found", id)
	}
	lobby := toLobby(record)
	return &lobby, nil
}

func (s *Store) ListLobbies(ctx context.Context, status game.LobbyStatus) ([]game.Lobby, error) {
	query := s.conn.WithContext(ctx).Order("created_at asc, id asc")
	if status != "" {
		query = query.Where("status = ?", string(status))
	}
	var records []Lobby
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	lobbies := make([]game.Lobby, 0, len(records))
	for _, record := range records {
		lobbies = append(lobbies, toLobby(record))
	}
	return lobbies, nil
}

func (s *Store) UpdateLobby(ctx context.Context, lobby *game.Lobby) error {
	result := s.conn.WithContext(ctx).Model(&Lobby{}).Where("id = ?", lobby.ID).Updates(map[string]any{
		"name":          lobby.Name,
		"status":        string(lobby.Status),
		"total_rounds":  lobby.TotalRounds,
		"current_round": lobby.CurrentRound,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return game.NotFoundf("update lobby", "lobby %s not found", lobby.ID)
	}
	return nil
}

func (s *Store) ListMembers(ctx context.Context, lobbyID string) ([]game.Member, error) {
	var count int64
	if err := s.conn.WithContext(ctx).Model(&Lobby{}).Where("id = ?", lobbyID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, game.NotFoundf("list members", "lobby %s not found", lobbyID)
	}
	var records []LobbyPlayer
	if err := s.conn.WithContext(ctx).Where("lobby_id = ?", lobbyID).Order("joined_at asc, id asc").Find(&records).Error; err != nil {
		return nil, err
	}
	members := make([]game.Member, 0, len(records))
	for _, record := range records {
		members = append(members, toMember(record))
	}
	return members, nil
}

func (s *Store) GetMember(ctx context.Context, lobbyID, playerID string) (*game.Member, error) {
	var record LobbyPlayer
	err := s.conn.WithContext(ctx).Where("lobby_id = ? AND player_id = ?", lobbyID, playerID).First(&record).Error
	if err != nil {
		return nil, notFoundOr(err, "get member", "player %s is not in lobby %s", playerID, lobbyID)
	}
	member := toMember(record)
	return &member, nil
}

func (s *Store) AddMember(ctx context.Context, member *game.Member) error {
	record := LobbyPlayer{
		LobbyID:  member.LobbyID,
		PlayerID: member.PlayerID,
		Name:     member.Name,
		JoinedAt: member.JoinedAt,
	}
	if err := s.conn.WithContext(ctx).Create(&record).Error; err != nil {
		if isUniqueViolation(err) {
			return game.InvalidStatef("add member", "player %s already in lobby %s", member.PlayerID, member.LobbyID)
		}
		return err
	}
	return nil
}

func (s *Store) RemoveMember(ctx context.Context, lobbyID, playerID string) error {
	result := s.conn.WithContext(ctx).Where("lobby_id = ? AND player_id = ?", lobbyID, playerID).Delete(&LobbyPlayer{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return game.NotFoundf("remove member", "player %s is not in lobby %s", playerID, lobbyID)
	}
	return nil
}

func (s *Store) UpdateMember(ctx context.Context, member *game.Member) error {
	result := s.conn.WithContext(ctx).Model(&LobbyPlayer{}).
		Where("lobby_id = ? AND player_id = ?", member.LobbyID, member.PlayerID).
		Updates(map[string]any{
			"name":               member.Name,
			"word":               member.Word,
			"previous_player_id": member.PreviousPlayerID,
			"next_player_id":     member.NextPlayerID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return game.NotFoundf("update member", "player %s is not in lobby %s", member.PlayerID, member.LobbyID)
	}
	return nil
}

func (s *Store) CreateRound(ctx context.Context, round *game.Round) error {
	record := roundRecord(round)
	if err := s.conn.WithContext(ctx).Create(&record).Error; err != nil {
		if isUniqueViolation(err) {
			return game.InvalidStatef("create round", "round %d for %s already exists", round.Number, round.PlayerID)
		}
		return err
	}
	return nil
}

func (s *Store) GetRound(ctx context.Context, lobbyID, playerID string, number int) (*game.Round, error) {
	var record LobbyRound
	err := s.conn.WithContext(ctx).
		Where("lobby_id = ? AND player_id = ? AND round_number = ?", lobbyID, playerID, number).
		First(&record).Error
	if err != nil {
		return nil, notFoundOr(err, "get round", "no round %d for player %s in lobby %s", number, playerID, lobbyID)
	}
	round := toRound(record)
	return &round, nil
}

func (s *Store) ListRounds(ctx context.Context, lobbyID string, number int) ([]game.Round, error) {
	var records []LobbyRound
	err := s.conn.WithContext(ctx).
		Where("lobby_id = ? AND round_number = ?", lobbyID, number).
		Order("player_id asc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	rounds := make([]game.Round, 0, len(records))
	for _, record := range records {
		rounds = append(rounds, toRound(record))
	}
	return rounds, nil
}

func (s *Store) UpdateRound(ctx context.Context, round *game.Round) error {
	result := s.conn.WithContext(ctx).Model(&LobbyRound{}).
		Where("lobby_id = ? AND player_id = ? AND round_number = ?", round.LobbyID, round.PlayerID, round.Number).
		Updates(map[string]any{
			"word":       round.Word,
			"drawing":    round.Drawing,
			"updated_at": round.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return game.NotFoundf("update round", "no round %d for player %s", round.Number, round.PlayerID)
	}
	return nil
}

func (s *Store) AppendEvent(ctx context.Context, lobbyID, kind string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	event := Event{
		LobbyID: lobbyID,
		Type:    kind,
		Payload: datatypes.JSON(data),
	}
	return s.conn.WithContext(ctx).Create(&event).Error
}

func (s *Store) Atomic(ctx context.Context, fn func(game.Store) error) error {
	return s.conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{conn: tx})
	})
}

func lobbyRecord(lobby *game.Lobby) Lobby {
	return Lobby{
		ID:           lobby.ID,
		Name:         lobby.Name,
		Status:       string(lobby.Status),
		TotalRounds:  lobby.TotalRounds,
		CurrentRound: lobby.CurrentRound,
		CreatedAt:    lobby.CreatedAt,
	}
}

func toLobby(record Lobby) game.Lobby {
	return game.Lobby{
		ID:           record.ID,
		Name:         record.Name,
		Status:       game.LobbyStatus(record.Status),
		TotalRounds:  record.TotalRounds,
		CurrentRound: record.CurrentRound,
		CreatedAt:    record.CreatedAt,
	}
}

func toMember(record LobbyPlayer) game.Member {
	return game.Member{
		LobbyID:          record.LobbyID,
		PlayerID:         record.PlayerID,
		Name:             record.Name,
		Word:             record.Word,
		PreviousPlayerID: record.PreviousPlayerID,
		NextPlayerID:     record.NextPlayerID,
		JoinedAt:         record.JoinedAt,
	}
}

func roundRecord(round *game.Round) LobbyRound {
	return LobbyRound{
		ID:          round.ID,
		LobbyID:     round.LobbyID,
		PlayerID:    round.PlayerID,
		RoundNumber: round.Number,
		RoundType:   string(round.Type),
		Word:        round.Word,
		Drawing:     round.Drawing,
	}
}

func toRound(record LobbyRound) game.Round {
	return game.Round{
		ID:        record.ID,
		LobbyID:   record.LobbyID,
		PlayerID:  record.PlayerID,
		Number:    record.RoundNumber,
		Type:      game.RoundType(record.RoundType),
		Word:      record.Word,
		Drawing:   record.Drawing,
		UpdatedAt: record.UpdatedAt,
	}
}

func notFoundOr(err error, op, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return game.NotFoundf(op, format, args...)
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

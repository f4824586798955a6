package db

import "time"

type LobbyRound struct {
	ID          string    `gorm:"primaryKey;size:36"`
	LobbyID     string    `gorm:"size:36;index;not null;uniqueIndex:idx_lobby_rounds_lobby_player_number"`
	PlayerID    string    `gorm:"size:64;not null;uniqueIndex:idx_lobby_rounds_lobby_player_number"`
	RoundNumber int       `gorm:"not null;index;uniqueIndex:idx_lobby_rounds_lobby_player_number"`
	RoundType   string    `gorm:"size:32;not null"`
	Word        string    `gorm:"size:280;not null;default:''"` // config.WordColumnSize
	Drawing     string    `gorm:"type:text;not null;default:''"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

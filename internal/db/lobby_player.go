package db

import "time"

type LobbyPlayer struct {
	ID               uint      `gorm:"primaryKey"`
	LobbyID          string    `gorm:"size:36;index;not null;uniqueIndex:idx_lobby_players_lobby_player"`
	PlayerID         string    `gorm:"size:64;not null;uniqueIndex:idx_lobby_players_lobby_player"`
	Name             string    `gorm:"size:64;not null;default:''"`
	Word             string    `gorm:"size:280;not null;default:''"` // config.WordColumnSize
	PreviousPlayerID string    `gorm:"size:64;not null;default:''"`
	NextPlayerID     string    `gorm:"size:64;not null;default:''"`
	JoinedAt         time.Time `gorm:"not null"`
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
}

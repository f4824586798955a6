package db

import "time"

type Lobby struct {
	ID           string    `gorm:"primaryKey;size:36"`
	Name         string    `gorm:"size:64;not null;default:''"`
	Status       string    `gorm:"size:32;not null;index"`
	TotalRounds  int       `gorm:"not null;default:0"`
	CurrentRound int       `gorm:"not null;default:0"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
	Players      []LobbyPlayer
	Rounds       []LobbyRound
	Events       []Event
}

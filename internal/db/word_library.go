package db

import "time"

type WordLibrary struct {
	ID        uint      `gorm:"primaryKey"`
	Category  string    `gorm:"size:64;not null;default:'';uniqueIndex:idx_word_library_category_text"`
	Text      string    `gorm:"size:60;not null;uniqueIndex:idx_word_library_category_text"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

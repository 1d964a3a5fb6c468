package models

import (
	"time"

	"gorm.io/gorm"
)

type Game struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Image       *string        `json:"image"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Players []GamePlayer `json:"players,omitempty" gorm:"foreignKey:GameID"`
	Tracks  []Track      `json:"tracks,omitempty" gorm:"foreignKey:GameID"`
}

// GamePlayer is one membership entry in a game's player list. Order is
// carried by Position, and a player may appear more than once: rejoining
// appends a second row rather than deduplicating.
type GamePlayer struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	GameID    uint           `json:"game_id" gorm:"not null;index"`
	PlayerID  uint           `json:"player_id" gorm:"not null"`
	Position  int            `json:"position" gorm:"not null"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Player Player `json:"player,omitempty"`
}

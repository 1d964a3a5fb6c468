package models

import (
	"time"

	"gorm.io/gorm"
)

type Score struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	TrackID   uint           `json:"track_id" gorm:"not null;index"`
	PlayerID  uint           `json:"player_id" gorm:"not null"`
	Value     float64        `json:"score" gorm:"not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Player Player `json:"player,omitempty"`
}

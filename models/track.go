package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Track struct {
	ID        uint                        `json:"id" gorm:"primaryKey"`
	GameID    uint                        `json:"game_id" gorm:"not null;index"`
	Name      string                      `json:"name" gorm:"not null"`
	Artists   datatypes.JSONSlice[string] `json:"artists"`
	Played    bool                        `json:"played" gorm:"not null;default:false"`
	CreatedAt time.Time                   `json:"created_at"`
	UpdatedAt time.Time                   `json:"updated_at"`
	DeletedAt gorm.DeletedAt              `json:"-" gorm:"index"`

	// Relationships
	Scores []Score `json:"scores,omitempty" gorm:"foreignKey:TrackID"`
}

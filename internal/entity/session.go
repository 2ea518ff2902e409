package entity

import (
	"time"

	"gorm.io/gorm"
)

// TutorSession - one row per session, full state as a JSON document. The
// indexed columns exist for operational queries only; State is authoritative.
type TutorSession struct {
	ID         string         `gorm:"primarykey;size:100" json:"id"`
	LevelID    string         `gorm:"size:50;index" json:"level_id"`
	ScenarioID string         `gorm:"size:50;index" json:"scenario_id"`
	Phase      string         `gorm:"size:20;index" json:"phase"`
	TurnCount  int            `gorm:"default:0" json:"turn_count"`
	State      string         `gorm:"type:text;not null" json:"state"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (TutorSession) TableName() string {
	return "tutor_sessions"
}

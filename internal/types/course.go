package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Course struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title          string         `gorm:"column:title;not null" json:"title"`
	Description    string         `gorm:"column:description" json:"description"`
	Topics         datatypes.JSON `gorm:"type:jsonb;column:topics" json:"topics"`
	Prerequisites  datatypes.JSON `gorm:"type:jsonb;column:prerequisites" json:"prerequisites"`
	Difficulty     string         `gorm:"column:difficulty;not null;default:'beginner'" json:"difficulty"`
	EstimatedHours float64        `gorm:"column:estimated_hours;not null;default:0" json:"estimated_hours"`
	CreatedAt      time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Course) TableName() string { return "course" }

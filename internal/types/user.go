package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	ID                   uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email                string         `gorm:"uniqueIndex;not null;column:email" json:"email"`
	FirstName            string         `gorm:"not null;column:first_name" json:"first_name"`
	LastName             string         `gorm:"not null;column:last_name" json:"last_name"`
	LearningStyle        string         `gorm:"column:learning_style" json:"learning_style"`
	PreferredTopics      datatypes.JSON `gorm:"type:jsonb;column:preferred_topics" json:"preferred_topics"`
	AvailableTimeMinutes int            `gorm:"column:available_time_minutes;not null;default:0" json:"available_time_minutes"`
	CurrentLevel         int            `gorm:"column:current_level;not null;default:1" json:"current_level"`
	XP                   int            `gorm:"column:xp;not null;default:0" json:"xp"`
	CreatedAt            time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt            time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (User) TableName() string { return "user" }

package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LearningPath struct {
	ID                      uuid.UUID             `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID                  uuid.UUID             `gorm:"type:uuid;not null;index" json:"user_id"`
	User                    *User                 `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Name                    string                `gorm:"column:name;not null" json:"name"`
	Description             string                `gorm:"column:description" json:"description"`
	Difficulty              string                `gorm:"column:difficulty;not null" json:"difficulty"`
	EstimatedCompletionTime int                   `gorm:"column:estimated_completion_time;not null;default:0" json:"estimated_completion_time"`
	Courses                 []*LearningPathCourse `gorm:"foreignKey:PathID;references:ID" json:"courses,omitempty"`
	CreatedAt               time.Time             `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt               time.Time             `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt               gorm.DeletedAt        `gorm:"index" json:"deleted_at,omitempty"`
}

func (LearningPath) TableName() string { return "learning_path" }

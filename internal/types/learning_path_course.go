package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LearningPathCourse struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PathID     uuid.UUID      `gorm:"type:uuid;not null;index:idx_path_order,unique" json:"path_id"`
	CourseID   uuid.UUID      `gorm:"type:uuid;not null" json:"course_id"`
	Course     *Course        `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	Order      int            `gorm:"column:course_order;not null;index:idx_path_order,unique" json:"order"`
	IsRequired bool           `gorm:"column:is_required;not null;default:true" json:"is_required"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (LearningPathCourse) TableName() string { return "learning_path_course" }

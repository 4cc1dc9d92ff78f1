package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nursepath/nursepath-backend/internal/clients/redis"
	"github.com/nursepath/nursepath-backend/internal/logger"
	"github.com/nursepath/nursepath-backend/internal/repos"
	"github.com/nursepath/nursepath-backend/internal/types"
)

type CreateCourseInput struct {
	Title          string   `json:"title" binding:"required"`
	Description    string   `json:"description"`
	Topics         []string `json:"topics"`
	Prerequisites  []string `json:"prerequisites"`
	Difficulty     string   `json:"difficulty"`
	EstimatedHours float64  `json:"estimated_hours"`
}

type CourseService interface {
	CreateCourse(ctx context.Context, tx *gorm.DB, input CreateCourseInput) (*types.Course, error)
	GetCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (*types.Course, error)
	ListCourses(ctx context.Context, tx *gorm.DB) ([]*types.Course, error)
}

type courseService struct {
	db         *gorm.DB
	log        *logger.Logger
	courseRepo repos.CourseRepo
	cache      redis.CatalogCache
}

// NewCourseService accepts a nil cache; catalog reads then always hit
// postgres.
func NewCourseService(db *gorm.DB, baseLog *logger.Logger, courseRepo repos.CourseRepo, cache redis.CatalogCache) CourseService {
	serviceLog := baseLog.With("service", "CourseService")
	return &courseService{db: db, log: serviceLog, courseRepo: courseRepo, cache: cache}
}

func (cs *courseService) CreateCourse(ctx context.Context, tx *gorm.DB, input CreateCourseInput) (*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = cs.db
	}

	difficulty := input.Difficulty
	switch difficulty {
	case "":
		difficulty = "beginner"
	case "beginner", "intermediate", "advanced":
	default:
		return nil, fmt.Errorf("unknown difficulty %q", input.Difficulty)
	}

	topicsJSON, err := encodeStringSet(input.Topics)
	if err != nil {
		return nil, fmt.Errorf("encode topics: %w", err)
	}
	prereqsJSON, err := encodeStringSet(input.Prerequisites)
	if err != nil {
		return nil, fmt.Errorf("encode prerequisites: %w", err)
	}

	now := time.Now()
	course := &types.Course{
		ID:             uuid.New(),
		Title:          input.Title,
		Description:    input.Description,
		Topics:         topicsJSON,
		Prerequisites:  prereqsJSON,
		Difficulty:     difficulty,
		EstimatedHours: input.EstimatedHours,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := cs.courseRepo.Create(ctx, transaction, []*types.Course{course}); err != nil {
		cs.log.Error("CreateCourse failed", "error", err, "title", input.Title)
		return nil, fmt.Errorf("create course: %w", err)
	}

	if cs.cache != nil {
		cs.cache.Invalidate(ctx)
	}
	return course, nil
}

func (cs *courseService) GetCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = cs.db
	}

	courses, err := cs.courseRepo.GetByIDs(ctx, transaction, []uuid.UUID{courseID})
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	if len(courses) == 0 || courses[0] == nil {
		return nil, fmt.Errorf("course %s not found", courseID)
	}
	return courses[0], nil
}

func (cs *courseService) ListCourses(ctx context.Context, tx *gorm.DB) ([]*types.Course, error) {
	if cs.cache != nil && tx == nil {
		if courses, ok := cs.cache.GetCourses(ctx); ok {
			return courses, nil
		}
	}

	transaction := tx
	if transaction == nil {
		transaction = cs.db
	}

	courses, err := cs.courseRepo.GetAll(ctx, transaction)
	if err != nil {
		return nil, fmt.Errorf("load course catalog: %w", err)
	}

	if cs.cache != nil && tx == nil {
		cs.cache.SetCourses(ctx, courses)
	}
	return courses, nil
}

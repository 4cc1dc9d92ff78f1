package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nursepath/nursepath-backend/internal/logger"
	"github.com/nursepath/nursepath-backend/internal/types"
)

type LearningPathRepo interface {
	Create(ctx context.Context, tx *gorm.DB, path *types.LearningPath) (*types.LearningPath, error)
	CreateCourses(ctx context.Context, tx *gorm.DB, courses []*types.LearningPathCourse) ([]*types.LearningPathCourse, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.LearningPath, error)
	GetCoursesByPathIDs(ctx context.Context, tx *gorm.DB, pathIDs []uuid.UUID) ([]*types.LearningPathCourse, error)
}

type learningPathRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLearningPathRepo(db *gorm.DB, baseLog *logger.Logger) LearningPathRepo {
	repoLog := baseLog.With("repo", "LearningPathRepo")
	return &learningPathRepo{db: db, log: repoLog}
}

func (lr *learningPathRepo) Create(ctx context.Context, tx *gorm.DB, path *types.LearningPath) (*types.LearningPath, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	// Memberships are persisted separately so both inserts share one
	// transaction; gorm must not cascade-create them here.
	if err := transaction.WithContext(ctx).
		Omit("Courses").
		Create(path).Error; err != nil {
		return nil, err
	}

	return path, nil
}

func (lr *learningPathRepo) CreateCourses(ctx context.Context, tx *gorm.DB, courses []*types.LearningPathCourse) ([]*types.LearningPathCourse, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	if len(courses) == 0 {
		return []*types.LearningPathCourse{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&courses).Error; err != nil {
		return nil, err
	}

	return courses, nil
}

func (lr *learningPathRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.LearningPath, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	var results []*types.LearningPath

	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (lr *learningPathRepo) GetCoursesByPathIDs(ctx context.Context, tx *gorm.DB, pathIDs []uuid.UUID) ([]*types.LearningPathCourse, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	var results []*types.LearningPathCourse

	if len(pathIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("path_id IN ?", pathIDs).
		Order("course_order ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/nursepath/nursepath-backend/internal/logger"
	"github.com/nursepath/nursepath-backend/internal/repos"
	"github.com/nursepath/nursepath-backend/internal/types"
)

var ErrEnrollmentNotFound = errors.New("enrollment not found")

const (
	xpPerEnrollment = 10
	xpPerCompletion = 50
	xpPerLevel      = 100
)

type EnrollmentService interface {
	EnrollUser(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (*types.Enrollment, error)
	UpdateProgress(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID, progress int) (*types.Enrollment, error)
	ListUserEnrollments(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Enrollment, error)
}

type enrollmentService struct {
	db             *gorm.DB
	log            *logger.Logger
	userRepo       repos.UserRepo
	courseRepo     repos.CourseRepo
	enrollmentRepo repos.EnrollmentRepo
	userEventRepo  repos.UserEventRepo
}

func NewEnrollmentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	courseRepo repos.CourseRepo,
	enrollmentRepo repos.EnrollmentRepo,
	userEventRepo repos.UserEventRepo,
) EnrollmentService {
	serviceLog := baseLog.With("service", "EnrollmentService")
	return &enrollmentService{
		db:             db,
		log:            serviceLog,
		userRepo:       userRepo,
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		userEventRepo:  userEventRepo,
	}
}

func (es *enrollmentService) EnrollUser(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (*types.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = es.db
	}

	users, err := es.userRepo.GetByIDs(ctx, transaction, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 || users[0] == nil {
		return nil, fmt.Errorf("load user %s: %w", userID, ErrUserNotFound)
	}
	user := users[0]

	courses, err := es.courseRepo.GetByIDs(ctx, transaction, []uuid.UUID{courseID})
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	if len(courses) == 0 || courses[0] == nil {
		return nil, fmt.Errorf("course %s not found", courseID)
	}

	now := time.Now()
	enrollment := &types.Enrollment{
		ID:        uuid.New(),
		UserID:    userID,
		CourseID:  courseID,
		Progress:  0,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = transaction.WithContext(ctx).Transaction(func(innerTx *gorm.DB) error {
		if _, err := es.enrollmentRepo.Create(ctx, innerTx, []*types.Enrollment{enrollment}); err != nil {
			return fmt.Errorf("create enrollment: %w", err)
		}
		return es.awardXP(ctx, innerTx, user, "course_enrolled", xpPerEnrollment, map[string]interface{}{
			"course_id": courseID.String(),
		})
	})
	if err != nil {
		es.log.Error("EnrollUser failed", "error", err, "user_id", userID, "course_id", courseID)
		return nil, err
	}
	return enrollment, nil
}

// UpdateProgress clamps progress into [0,100]. Crossing 100 flips the
// enrollment to completed exactly once and awards completion XP in the same
// transaction.
func (es *enrollmentService) UpdateProgress(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID, progress int) (*types.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = es.db
	}

	enrollments, err := es.enrollmentRepo.GetByIDs(ctx, transaction, []uuid.UUID{enrollmentID})
	if err != nil {
		return nil, fmt.Errorf("load enrollment: %w", err)
	}
	if len(enrollments) == 0 || enrollments[0] == nil {
		return nil, fmt.Errorf("load enrollment %s: %w", enrollmentID, ErrEnrollmentNotFound)
	}
	enrollment := enrollments[0]

	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}

	justCompleted := progress >= 100 && !enrollment.Completed
	now := time.Now()
	enrollment.Progress = progress
	enrollment.UpdatedAt = now
	if justCompleted {
		enrollment.Completed = true
		enrollment.CompletedAt = &now
	}

	err = transaction.WithContext(ctx).Transaction(func(innerTx *gorm.DB) error {
		if err := es.enrollmentRepo.Update(ctx, innerTx, enrollment); err != nil {
			return fmt.Errorf("update enrollment: %w", err)
		}
		if !justCompleted {
			return nil
		}
		users, err := es.userRepo.GetByIDs(ctx, innerTx, []uuid.UUID{enrollment.UserID})
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		if len(users) == 0 || users[0] == nil {
			return fmt.Errorf("load user %s: %w", enrollment.UserID, ErrUserNotFound)
		}
		return es.awardXP(ctx, innerTx, users[0], "course_completed", xpPerCompletion, map[string]interface{}{
			"course_id":     enrollment.CourseID.String(),
			"enrollment_id": enrollment.ID.String(),
		})
	})
	if err != nil {
		es.log.Error("UpdateProgress failed", "error", err, "enrollment_id", enrollmentID)
		return nil, err
	}
	return enrollment, nil
}

func (es *enrollmentService) ListUserEnrollments(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = es.db
	}

	enrollments, err := es.enrollmentRepo.GetByUserIDs(ctx, transaction, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("load enrollments: %w", err)
	}
	return enrollments, nil
}

func (es *enrollmentService) awardXP(ctx context.Context, tx *gorm.DB, user *types.User, eventType string, xp int, metadata map[string]interface{}) error {
	user.XP += xp
	user.CurrentLevel = levelForXP(user.XP)
	user.UpdatedAt = time.Now()
	if err := es.userRepo.Update(ctx, tx, user); err != nil {
		return fmt.Errorf("update user xp: %w", err)
	}

	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("encode event metadata: %w", err)
	}
	event := &types.UserEvent{
		ID:        uuid.New(),
		UserID:    user.ID,
		EventType: eventType,
		XPAwarded: xp,
		Metadata:  datatypes.JSON(metaJSON),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if _, err := es.userEventRepo.Create(ctx, tx, []*types.UserEvent{event}); err != nil {
		return fmt.Errorf("create user event: %w", err)
	}
	return nil
}

func levelForXP(xp int) int {
	return xp/xpPerLevel + 1
}

package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nursepath/nursepath-backend/internal/logger"
	"github.com/nursepath/nursepath-backend/internal/repos"
	"github.com/nursepath/nursepath-backend/internal/types"
)

// UserProgressSummary is the gamification dashboard payload.
type UserProgressSummary struct {
	UserID           uuid.UUID          `json:"user_id"`
	CurrentLevel     int                `json:"current_level"`
	XP               int                `json:"xp"`
	XPToNextLevel    int                `json:"xp_to_next_level"`
	EnrolledCourses  int                `json:"enrolled_courses"`
	CompletedCourses int                `json:"completed_courses"`
	RecentEvents     []*types.UserEvent `json:"recent_events"`
}

type ProgressService interface {
	GetUserProgress(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*UserProgressSummary, error)
}

type progressService struct {
	db             *gorm.DB
	log            *logger.Logger
	userRepo       repos.UserRepo
	enrollmentRepo repos.EnrollmentRepo
	userEventRepo  repos.UserEventRepo
}

func NewProgressService(
	db *gorm.DB,
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	enrollmentRepo repos.EnrollmentRepo,
	userEventRepo repos.UserEventRepo,
) ProgressService {
	serviceLog := baseLog.With("service", "ProgressService")
	return &progressService{
		db:             db,
		log:            serviceLog,
		userRepo:       userRepo,
		enrollmentRepo: enrollmentRepo,
		userEventRepo:  userEventRepo,
	}
}

func (ps *progressService) GetUserProgress(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*UserProgressSummary, error) {
	transaction := tx
	if transaction == nil {
		transaction = ps.db
	}

	users, err := ps.userRepo.GetByIDs(ctx, transaction, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 || users[0] == nil {
		return nil, fmt.Errorf("load user %s: %w", userID, ErrUserNotFound)
	}
	user := users[0]

	enrollments, err := ps.enrollmentRepo.GetByUserIDs(ctx, transaction, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("load enrollments: %w", err)
	}
	completed := 0
	for _, e := range enrollments {
		if e.Completed {
			completed++
		}
	}

	events, err := ps.userEventRepo.GetRecentByUserID(ctx, transaction, userID, 20)
	if err != nil {
		return nil, fmt.Errorf("load user events: %w", err)
	}

	return &UserProgressSummary{
		UserID:           user.ID,
		CurrentLevel:     user.CurrentLevel,
		XP:               user.XP,
		XPToNextLevel:    user.CurrentLevel*xpPerLevel - user.XP,
		EnrolledCourses:  len(enrollments),
		CompletedCourses: completed,
		RecentEvents:     events,
	}, nil
}

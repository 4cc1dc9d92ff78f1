package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nursepath/nursepath-backend/internal/logger"
	"github.com/nursepath/nursepath-backend/internal/repos"
	"github.com/nursepath/nursepath-backend/internal/types"
)

var ErrUserNotFound = errors.New("user not found")

type LearningPathService interface {
	GeneratePersonalizedPath(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.LearningPath, error)
	ListUserPaths(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.LearningPath, error)
}

type learningPathService struct {
	db             *gorm.DB
	log            *logger.Logger
	userRepo       repos.UserRepo
	courseRepo     repos.CourseRepo
	enrollmentRepo repos.EnrollmentRepo
	pathRepo       repos.LearningPathRepo
	recommender    RecommendationService
}

func NewLearningPathService(
	db *gorm.DB,
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	courseRepo repos.CourseRepo,
	enrollmentRepo repos.EnrollmentRepo,
	pathRepo repos.LearningPathRepo,
	recommender RecommendationService,
) LearningPathService {
	serviceLog := baseLog.With("service", "LearningPathService")
	return &learningPathService{
		db:             db,
		log:            serviceLog,
		userRepo:       userRepo,
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		pathRepo:       pathRepo,
		recommender:    recommender,
	}
}

// GeneratePersonalizedPath runs one full recommendation cycle: load the
// learner, drop courses they already completed, rank the rest, and persist
// the selection as a new path. Each call creates a new path; it is a
// generator, not an upsert, and callers wanting at-most-one active path must
// deduplicate themselves.
func (ls *learningPathService) GeneratePersonalizedPath(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.LearningPath, error) {
	transaction := tx
	if transaction == nil {
		transaction = ls.db
	}

	// 1) Learner profile. A missing learner is a caller error, never a
	// fabricated default profile.
	users, err := ls.userRepo.GetByIDs(ctx, transaction, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 || users[0] == nil {
		return nil, fmt.Errorf("load user %s: %w", userID, ErrUserNotFound)
	}
	user := users[0]

	// 2) Completed course set from enrollment history.
	completedEnrollments, err := ls.enrollmentRepo.GetCompletedByUserID(ctx, transaction, userID)
	if err != nil {
		return nil, fmt.Errorf("load completed enrollments: %w", err)
	}
	completed := make(map[uuid.UUID]bool, len(completedEnrollments))
	for _, e := range completedEnrollments {
		completed[e.CourseID] = true
	}

	// 3) Candidate set = full catalog minus completed. This filter is owned
	// here, not by the scorer.
	catalog, err := ls.courseRepo.GetAll(ctx, transaction)
	if err != nil {
		return nil, fmt.Errorf("load course catalog: %w", err)
	}
	candidates := make([]*types.Course, 0, len(catalog))
	for _, course := range catalog {
		if course == nil || completed[course.ID] {
			continue
		}
		candidates = append(candidates, course)
	}

	// 4) Rank.
	profile := NewLearnerProfile(user, completed)
	selected := ls.recommender.ScoreCourses(profile, candidates)

	// 5) Completion time over the selected courses only.
	totalMinutes := 0
	for _, sc := range selected {
		totalMinutes += int(sc.EstimatedHours * 60)
	}

	now := time.Now()
	path := &types.LearningPath{
		ID:                      uuid.New(),
		UserID:                  userID,
		Name:                    fmt.Sprintf("Personalized Learning Path - %s", now.Format("Jan 2, 2006")),
		Description:             fmt.Sprintf("A %s path of %d recommended courses generated from your learning history.", pathDifficultyForLevel(profile.CurrentLevel), len(selected)),
		Difficulty:              pathDifficultyForLevel(profile.CurrentLevel),
		EstimatedCompletionTime: totalMinutes,
		CreatedAt:               now,
		UpdatedAt:               now,
	}

	memberships := make([]*types.LearningPathCourse, 0, len(selected))
	for i, sc := range selected {
		memberships = append(memberships, &types.LearningPathCourse{
			ID:         uuid.New(),
			PathID:     path.ID,
			CourseID:   sc.Course.ID,
			Order:      i + 1,
			IsRequired: true,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}

	// 7) Path and memberships land together or not at all. A path with
	// missing memberships must never be visible to readers.
	err = transaction.WithContext(ctx).Transaction(func(innerTx *gorm.DB) error {
		if _, err := ls.pathRepo.Create(ctx, innerTx, path); err != nil {
			return fmt.Errorf("create learning path: %w", err)
		}
		if _, err := ls.pathRepo.CreateCourses(ctx, innerTx, memberships); err != nil {
			return fmt.Errorf("create learning path courses: %w", err)
		}
		return nil
	})
	if err != nil {
		ls.log.Error("GeneratePersonalizedPath persist failed", "error", err, "user_id", userID)
		return nil, err
	}

	path.Courses = memberships
	ls.log.Info("Generated personalized learning path",
		"user_id", userID, "path_id", path.ID, "courses", len(memberships), "difficulty", path.Difficulty)
	return path, nil
}

func (ls *learningPathService) ListUserPaths(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.LearningPath, error) {
	transaction := tx
	if transaction == nil {
		transaction = ls.db
	}

	paths, err := ls.pathRepo.GetByUserID(ctx, transaction, userID)
	if err != nil {
		return nil, fmt.Errorf("load learning paths: %w", err)
	}
	if len(paths) == 0 {
		return paths, nil
	}

	pathIDs := make([]uuid.UUID, 0, len(paths))
	for _, p := range paths {
		pathIDs = append(pathIDs, p.ID)
	}
	memberships, err := ls.pathRepo.GetCoursesByPathIDs(ctx, transaction, pathIDs)
	if err != nil {
		return nil, fmt.Errorf("load learning path courses: %w", err)
	}

	byPath := make(map[uuid.UUID][]*types.LearningPathCourse, len(paths))
	for _, m := range memberships {
		byPath[m.PathID] = append(byPath[m.PathID], m)
	}
	for _, p := range paths {
		p.Courses = byPath[p.ID]
	}
	return paths, nil
}

func pathDifficultyForLevel(level int) string {
	switch {
	case level <= 2:
		return "beginner"
	case level <= 4:
		return "intermediate"
	default:
		return "advanced"
	}
}

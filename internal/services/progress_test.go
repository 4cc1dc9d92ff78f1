package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/nursepath/nursepath-backend/internal/logger"
)

func TestGetUserProgressSummary(t *testing.T) {
	env := newEnrollmentTestEnv(t)
	ctx := context.Background()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	progress := NewProgressService(env.db, log, env.userRepo, env.enrollmentRepo, env.eventRepo)

	user, course := env.seedUserAndCourse(t)
	enrollment, err := env.service.EnrollUser(ctx, nil, user.ID, course.ID)
	if err != nil {
		t.Fatalf("EnrollUser: %v", err)
	}
	if _, err := env.service.UpdateProgress(ctx, nil, enrollment.ID, 100); err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}

	summary, err := progress.GetUserProgress(ctx, nil, user.ID)
	if err != nil {
		t.Fatalf("GetUserProgress: %v", err)
	}
	if summary.XP != xpPerEnrollment+xpPerCompletion {
		t.Fatalf("xp: want=%d got=%d", xpPerEnrollment+xpPerCompletion, summary.XP)
	}
	if summary.CurrentLevel != 1 {
		t.Fatalf("level: want=1 got=%d", summary.CurrentLevel)
	}
	if summary.XPToNextLevel != xpPerLevel-(xpPerEnrollment+xpPerCompletion) {
		t.Fatalf("xp to next level: want=%d got=%d", xpPerLevel-(xpPerEnrollment+xpPerCompletion), summary.XPToNextLevel)
	}
	if summary.EnrolledCourses != 1 || summary.CompletedCourses != 1 {
		t.Fatalf("course counts: enrolled=%d completed=%d", summary.EnrolledCourses, summary.CompletedCourses)
	}
	if len(summary.RecentEvents) != 2 {
		t.Fatalf("recent events: want=2 got=%d", len(summary.RecentEvents))
	}
}

func TestGetUserProgressUnknownUser(t *testing.T) {
	env := newEnrollmentTestEnv(t)
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	progress := NewProgressService(env.db, log, env.userRepo, env.enrollmentRepo, env.eventRepo)

	_, err = progress.GetUserProgress(context.Background(), nil, uuid.New())
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("error: want ErrUserNotFound, got=%v", err)
	}
}

package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/nursepath/nursepath-backend/internal/logger"
	"github.com/nursepath/nursepath-backend/internal/repos"
)

func newUserTestService(t *testing.T) UserService {
	t.Helper()
	db := newTestDB(t)
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return NewUserService(db, log, repos.NewUserRepo(db, log))
}

func TestCreateUserAppliesDefaults(t *testing.T) {
	svc := newUserTestService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, nil, CreateUserInput{
		Email:     "nurse@test.local",
		FirstName: "Dana",
		LastName:  "Kim",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.LearningStyle != defaultLearningStyle {
		t.Fatalf("learning style: want=%s got=%s", defaultLearningStyle, user.LearningStyle)
	}
	if user.AvailableTimeMinutes != defaultAvailableTimeMinutes {
		t.Fatalf("available time: want=%d got=%d", defaultAvailableTimeMinutes, user.AvailableTimeMinutes)
	}
	if user.CurrentLevel != 1 || user.XP != 0 {
		t.Fatalf("fresh user stats: level=%d xp=%d", user.CurrentLevel, user.XP)
	}

	// Empty topics persist as an empty set, not null.
	loaded, err := svc.GetUser(ctx, nil, user.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	topics, err := decodeStringSet(loaded.PreferredTopics)
	if err != nil {
		t.Fatalf("decode topics: %v", err)
	}
	if len(topics) != 0 {
		t.Fatalf("topics: want empty, got=%v", topics)
	}
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	svc := newUserTestService(t)
	ctx := context.Background()

	input := CreateUserInput{Email: "dup@test.local", FirstName: "A", LastName: "B"}
	if _, err := svc.CreateUser(ctx, nil, input); err != nil {
		t.Fatalf("first CreateUser: %v", err)
	}
	if _, err := svc.CreateUser(ctx, nil, input); err == nil {
		t.Fatalf("expected duplicate email rejection")
	}
}

func TestGetUserUnknown(t *testing.T) {
	svc := newUserTestService(t)

	_, err := svc.GetUser(context.Background(), nil, uuid.New())
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("error: want ErrUserNotFound, got=%v", err)
	}
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/nursepath/nursepath-backend/internal/logger"
	"github.com/nursepath/nursepath-backend/internal/repos"
	"github.com/nursepath/nursepath-backend/internal/types"
)

type CreateUserInput struct {
	Email                string   `json:"email" binding:"required,email"`
	FirstName            string   `json:"first_name" binding:"required"`
	LastName             string   `json:"last_name" binding:"required"`
	LearningStyle        string   `json:"learning_style"`
	PreferredTopics      []string `json:"preferred_topics"`
	AvailableTimeMinutes int      `json:"available_time_minutes"`
}

type UserService interface {
	CreateUser(ctx context.Context, tx *gorm.DB, input CreateUserInput) (*types.User, error)
	GetUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, baseLog *logger.Logger, userRepo repos.UserRepo) UserService {
	serviceLog := baseLog.With("service", "UserService")
	return &userService{db: db, log: serviceLog, userRepo: userRepo}
}

func (us *userService) CreateUser(ctx context.Context, tx *gorm.DB, input CreateUserInput) (*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = us.db
	}

	exists, err := us.userRepo.EmailExists(ctx, transaction, input.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("email %s already registered", input.Email)
	}

	style := input.LearningStyle
	if style == "" {
		style = defaultLearningStyle
	}
	availableTime := input.AvailableTimeMinutes
	if availableTime <= 0 {
		availableTime = defaultAvailableTimeMinutes
	}

	topicsJSON, err := encodeStringSet(input.PreferredTopics)
	if err != nil {
		return nil, fmt.Errorf("encode preferred topics: %w", err)
	}

	now := time.Now()
	user := &types.User{
		ID:                   uuid.New(),
		Email:                input.Email,
		FirstName:            input.FirstName,
		LastName:             input.LastName,
		LearningStyle:        style,
		PreferredTopics:      topicsJSON,
		AvailableTimeMinutes: availableTime,
		CurrentLevel:         1,
		XP:                   0,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if _, err := us.userRepo.Create(ctx, transaction, []*types.User{user}); err != nil {
		us.log.Error("CreateUser failed", "error", err, "email", input.Email)
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (us *userService) GetUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = us.db
	}

	users, err := us.userRepo.GetByIDs(ctx, transaction, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 || users[0] == nil {
		return nil, fmt.Errorf("load user %s: %w", userID, ErrUserNotFound)
	}
	return users[0], nil
}

func encodeStringSet(vals []string) (datatypes.JSON, error) {
	if vals == nil {
		vals = []string{}
	}
	raw, err := json.Marshal(vals)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

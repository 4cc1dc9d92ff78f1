package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nursepath/nursepath-backend/internal/logger"
	"github.com/nursepath/nursepath-backend/internal/repos"
	"github.com/nursepath/nursepath-backend/internal/types"
)

const defaultFlashcardCount = 10

type FlashcardService interface {
	GenerateFlashcards(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, count int) ([]*types.Flashcard, error)
	ListFlashcards(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.Flashcard, error)
}

type flashcardService struct {
	db            *gorm.DB
	log           *logger.Logger
	courseRepo    repos.CourseRepo
	flashcardRepo repos.FlashcardRepo
	ai            AIClient
}

func NewFlashcardService(
	db *gorm.DB,
	baseLog *logger.Logger,
	courseRepo repos.CourseRepo,
	flashcardRepo repos.FlashcardRepo,
	ai AIClient,
) FlashcardService {
	serviceLog := baseLog.With("service", "FlashcardService")
	return &flashcardService{
		db:            db,
		log:           serviceLog,
		courseRepo:    courseRepo,
		flashcardRepo: flashcardRepo,
		ai:            ai,
	}
}

var flashcardSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"cards": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"front": map[string]any{"type": "string"},
					"back":  map[string]any{"type": "string"},
					"topic": map[string]any{"type": "string"},
				},
				"required":             []string{"front", "back", "topic"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []string{"cards"},
	"additionalProperties": false,
}

func (fs *flashcardService) GenerateFlashcards(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, count int) ([]*types.Flashcard, error) {
	if fs.ai == nil {
		return nil, fmt.Errorf("ai client not configured")
	}

	transaction := tx
	if transaction == nil {
		transaction = fs.db
	}

	courses, err := fs.courseRepo.GetByIDs(ctx, transaction, []uuid.UUID{courseID})
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	if len(courses) == 0 || courses[0] == nil {
		return nil, fmt.Errorf("course %s not found", courseID)
	}
	course := courses[0]

	if count <= 0 {
		count = defaultFlashcardCount
	}

	topics, _ := decodeStringSet(course.Topics)
	system := "You are an NCLEX tutor writing study flashcards. Respond only with the requested JSON."
	user := fmt.Sprintf(
		"Write %d flashcards for the nursing course %q. Description: %s. Topics: %s. Front is a question or prompt, back is a concise answer.",
		count, course.Title, course.Description, strings.Join(topics, ", "),
	)

	out, err := fs.ai.GenerateJSON(ctx, system, user, "flashcards", flashcardSchema)
	if err != nil {
		fs.log.Error("GenerateFlashcards AI call failed", "error", err, "course_id", courseID)
		return nil, fmt.Errorf("generate flashcards: %w", err)
	}

	rawCards, _ := out["cards"].([]any)
	now := time.Now()
	cards := make([]*types.Flashcard, 0, len(rawCards))
	for _, rc := range rawCards {
		m, ok := rc.(map[string]any)
		if !ok {
			continue
		}
		front, _ := m["front"].(string)
		back, _ := m["back"].(string)
		topic, _ := m["topic"].(string)
		if front == "" || back == "" {
			continue
		}
		cards = append(cards, &types.Flashcard{
			ID:        uuid.New(),
			CourseID:  course.ID,
			Front:     front,
			Back:      back,
			Topic:     topic,
			Source:    "ai",
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("ai returned no usable flashcards")
	}

	if _, err := fs.flashcardRepo.Create(ctx, transaction, cards); err != nil {
		fs.log.Error("GenerateFlashcards persist failed", "error", err, "course_id", courseID)
		return nil, fmt.Errorf("save flashcards: %w", err)
	}
	return cards, nil
}

func (fs *flashcardService) ListFlashcards(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.Flashcard, error) {
	transaction := tx
	if transaction == nil {
		transaction = fs.db
	}

	cards, err := fs.flashcardRepo.GetByCourseID(ctx, transaction, courseID)
	if err != nil {
		return nil, fmt.Errorf("load flashcards: %w", err)
	}
	return cards, nil
}

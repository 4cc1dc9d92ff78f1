package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nursepath/nursepath-backend/internal/logger"
	"github.com/nursepath/nursepath-backend/internal/services"
)

type FlashcardHandler struct {
	log              *logger.Logger
	flashcardService services.FlashcardService
}

func NewFlashcardHandler(log *logger.Logger, flashcardService services.FlashcardService) *FlashcardHandler {
	return &FlashcardHandler{
		log:              log.With("handler", "FlashcardHandler"),
		flashcardService: flashcardService,
	}
}

func (h *FlashcardHandler) GenerateFlashcards(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_course_id", err)
		return
	}

	// Body is optional; an absent body means the default card count.
	var body struct {
		Count int `json:"count"`
	}
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	cards, err := h.flashcardService.GenerateFlashcards(c.Request.Context(), nil, courseID, body.Count)
	if err != nil {
		h.log.Error("GenerateFlashcards failed", "error", err, "course_id", courseID)
		RespondError(c, http.StatusInternalServerError, "generate_flashcards_failed", err)
		return
	}
	RespondCreated(c, gin.H{"flashcards": cards})
}

func (h *FlashcardHandler) ListFlashcards(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_course_id", err)
		return
	}

	cards, err := h.flashcardService.ListFlashcards(c.Request.Context(), nil, courseID)
	if err != nil {
		h.log.Error("ListFlashcards failed", "error", err, "course_id", courseID)
		RespondError(c, http.StatusInternalServerError, "load_flashcards_failed", err)
		return
	}
	RespondOK(c, gin.H{"flashcards": cards})
}

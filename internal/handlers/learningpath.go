package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nursepath/nursepath-backend/internal/logger"
	"github.com/nursepath/nursepath-backend/internal/services"
)

type LearningPathHandler struct {
	log         *logger.Logger
	pathService services.LearningPathService
}

func NewLearningPathHandler(log *logger.Logger, pathService services.LearningPathService) *LearningPathHandler {
	return &LearningPathHandler{
		log:         log.With("handler", "LearningPathHandler"),
		pathService: pathService,
	}
}

func (h *LearningPathHandler) GeneratePath(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}

	path, err := h.pathService.GeneratePersonalizedPath(c.Request.Context(), nil, userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			RespondError(c, http.StatusNotFound, "user_not_found", err)
			return
		}
		h.log.Error("GeneratePath failed", "error", err, "user_id", userID)
		RespondError(c, http.StatusInternalServerError, "generate_path_failed", err)
		return
	}
	RespondCreated(c, gin.H{"learning_path": path})
}

func (h *LearningPathHandler) ListPaths(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}

	paths, err := h.pathService.ListUserPaths(c.Request.Context(), nil, userID)
	if err != nil {
		h.log.Error("ListPaths failed", "error", err, "user_id", userID)
		RespondError(c, http.StatusInternalServerError, "load_paths_failed", err)
		return
	}
	RespondOK(c, gin.H{"learning_paths": paths})
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nursepath/nursepath-backend/internal/logger"
	"github.com/nursepath/nursepath-backend/internal/services"
)

type UserHandler struct {
	log             *logger.Logger
	userService     services.UserService
	progressService services.ProgressService
}

func NewUserHandler(log *logger.Logger, userService services.UserService, progressService services.ProgressService) *UserHandler {
	return &UserHandler{
		log:             log.With("handler", "UserHandler"),
		userService:     userService,
		progressService: progressService,
	}
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var input services.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), nil, input)
	if err != nil {
		h.log.Error("CreateUser failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "create_user_failed", err)
		return
	}
	RespondCreated(c, gin.H{"user": user})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), nil, userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			RespondError(c, http.StatusNotFound, "user_not_found", err)
			return
		}
		h.log.Error("GetUser failed", "error", err, "user_id", userID)
		RespondError(c, http.StatusInternalServerError, "load_user_failed", err)
		return
	}
	RespondOK(c, gin.H{"user": user})
}

func (h *UserHandler) GetUserProgress(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}

	summary, err := h.progressService.GetUserProgress(c.Request.Context(), nil, userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			RespondError(c, http.StatusNotFound, "user_not_found", err)
			return
		}
		h.log.Error("GetUserProgress failed", "error", err, "user_id", userID)
		RespondError(c, http.StatusInternalServerError, "load_progress_failed", err)
		return
	}
	RespondOK(c, gin.H{"progress": summary})
}

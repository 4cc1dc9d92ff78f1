package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nursepath/nursepath-backend/internal/logger"
	"github.com/nursepath/nursepath-backend/internal/services"
)

type EnrollmentHandler struct {
	log               *logger.Logger
	enrollmentService services.EnrollmentService
}

func NewEnrollmentHandler(log *logger.Logger, enrollmentService services.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{
		log:               log.With("handler", "EnrollmentHandler"),
		enrollmentService: enrollmentService,
	}
}

func (h *EnrollmentHandler) EnrollUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}

	var body struct {
		CourseID uuid.UUID `json:"course_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	enrollment, err := h.enrollmentService.EnrollUser(c.Request.Context(), nil, userID, body.CourseID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			RespondError(c, http.StatusNotFound, "user_not_found", err)
			return
		}
		h.log.Error("EnrollUser failed", "error", err, "user_id", userID)
		RespondError(c, http.StatusInternalServerError, "enroll_failed", err)
		return
	}
	RespondCreated(c, gin.H{"enrollment": enrollment})
}

func (h *EnrollmentHandler) UpdateProgress(c *gin.Context) {
	enrollmentID, err := uuid.Parse(c.Param("enrollmentId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_enrollment_id", err)
		return
	}

	var body struct {
		Progress *int `json:"progress" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	enrollment, err := h.enrollmentService.UpdateProgress(c.Request.Context(), nil, enrollmentID, *body.Progress)
	if err != nil {
		if errors.Is(err, services.ErrEnrollmentNotFound) {
			RespondError(c, http.StatusNotFound, "enrollment_not_found", err)
			return
		}
		h.log.Error("UpdateProgress failed", "error", err, "enrollment_id", enrollmentID)
		RespondError(c, http.StatusInternalServerError, "update_progress_failed", err)
		return
	}
	RespondOK(c, gin.H{"enrollment": enrollment})
}

func (h *EnrollmentHandler) ListUserEnrollments(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}

	enrollments, err := h.enrollmentService.ListUserEnrollments(c.Request.Context(), nil, userID)
	if err != nil {
		h.log.Error("ListUserEnrollments failed", "error", err, "user_id", userID)
		RespondError(c, http.StatusInternalServerError, "load_enrollments_failed", err)
		return
	}
	RespondOK(c, gin.H{"enrollments": enrollments})
}

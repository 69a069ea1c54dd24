package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"portal/internal/entity"
)

// CreateAssignment adds an assignment to a course the caller manages.
func (h *HTTPHandler) CreateAssignment(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var req entity.AssignmentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if _, ok := h.loadOwnedCourse(c, ctx, user, req.CourseID); !ok {
		return
	}

	assignment := &entity.DbAssignment{
		CourseID:    req.CourseID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if err := h.repo.CreateAssignment(ctx, assignment); err != nil {
		logrus.WithError(err).Error("failed to create assignment")
		InternalError(c, "failed to create assignment")
		return
	}

	c.JSON(http.StatusCreated, assignment)
}

// ListSubmissions returns every submission for an assignment in a course the
// caller manages.
func (h *HTTPHandler) ListSubmissions(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	idValue := strings.TrimSpace(c.Param("assignment_id"))
	assignmentID, err := strconv.ParseUint(idValue, 10, 64)
	if err != nil || assignmentID == 0 {
		BadRequest(c, ErrCodeInvalidRequest, "invalid assignment id")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	assignment, err := h.repo.GetAssignment(ctx, uint(assignmentID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeAssignmentNotFound, "assignment not found")
			return
		}
		logrus.WithError(err).Error("failed to load assignment")
		InternalError(c, "failed to load assignment")
		return
	}

	if _, ok := h.loadOwnedCourse(c, ctx, user, assignment.CourseID); !ok {
		return
	}

	submissions, err := h.repo.ListSubmissionsByAssignment(ctx, assignment.ID)
	if err != nil {
		logrus.WithError(err).Error("failed to list submissions")
		InternalError(c, "failed to load submissions")
		return
	}

	c.JSON(http.StatusOK, submissions)
}

// GradeSubmission records a grade and feedback on a submission belonging to
// a course the caller manages.
func (h *HTTPHandler) GradeSubmission(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var req entity.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	submission, err := h.repo.GetSubmission(ctx, req.SubmissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeSubmissionNotFound, "submission not found")
			return
		}
		logrus.WithError(err).Error("failed to load submission")
		InternalError(c, "failed to load submission")
		return
	}

	assignment, err := h.repo.GetAssignment(ctx, submission.AssignmentID)
	if err != nil {
		logrus.WithError(err).Error("failed to load assignment for submission")
		InternalError(c, "failed to load assignment")
		return
	}

	if _, ok := h.loadOwnedCourse(c, ctx, user, assignment.CourseID); !ok {
		return
	}

	grade := req.Grade
	feedback := req.Feedback
	updates := entity.SubmissionUpdates{
		Grade:    &grade,
		Feedback: &feedback,
	}
	if err := h.repo.UpdateSubmission(ctx, submission.ID, updates); err != nil {
		logrus.WithError(err).Error("failed to grade submission")
		InternalError(c, "failed to grade submission")
		return
	}

	updated, err := h.repo.GetSubmission(ctx, submission.ID)
	if err != nil {
		logrus.WithError(err).Error("failed to reload submission")
		InternalError(c, "failed to load submission")
		return
	}

	c.JSON(http.StatusOK, updated)
}

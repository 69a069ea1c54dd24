package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"portal/internal/entity"
)

// ListUsers returns a paginated account listing, optionally filtered by
// role or a keyword matched against email and name.
func (h *HTTPHandler) ListUsers(c *gin.Context) {
	var query entity.UserQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		InvalidPayload(c)
		return
	}
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.PageSize <= 0 {
		query.PageSize = 20
	}
	if query.PageSize > 100 {
		query.PageSize = 100
	}
	if query.Role != "" {
		if _, err := entity.ParseRole(query.Role); err != nil {
			BadRequest(c, ErrCodeInvalidRequest, "invalid role")
			return
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	users, meta, err := h.repo.ListUsers(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list users")
		InternalError(c, "failed to load users")
		return
	}

	summaries := make([]entity.UserSummary, 0, len(users))
	for i := range users {
		summaries = append(summaries, makeUserSummary(&users[i]))
	}

	c.JSON(http.StatusOK, entity.UserListResponse{Users: summaries, Meta: meta})
}

// ApproveUser flips the approval flag on an account. Omitting "approved"
// means approve.
func (h *HTTPHandler) ApproveUser(c *gin.Context) {
	var req entity.ApproveUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	approved := true
	if req.Approved != nil {
		approved = *req.Approved
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if _, err := h.repo.GetUserByID(ctx, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeUserNotFound, "user not found")
			return
		}
		logrus.WithError(err).WithField("user_id", req.UserID).Error("failed to load user")
		InternalError(c, "failed to load user")
		return
	}

	if err := h.repo.UpdateUser(ctx, req.UserID, entity.UserUpdates{Approved: &approved}); err != nil {
		logrus.WithError(err).WithField("user_id", req.UserID).Error("failed to update approval")
		InternalError(c, "failed to update user")
		return
	}

	refreshed, err := h.repo.GetUserByID(ctx, req.UserID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", req.UserID).Error("failed to reload user")
		InternalError(c, "failed to load user")
		return
	}

	c.JSON(http.StatusOK, makeUserSummary(refreshed))
}

// AssignTeacher moves a course under another teacher's ownership.
func (h *HTTPHandler) AssignTeacher(c *gin.Context) {
	var req entity.AssignTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	teacher, err := h.repo.GetUserByID(ctx, req.TeacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeUserNotFound, "teacher not found")
			return
		}
		logrus.WithError(err).WithField("user_id", req.TeacherID).Error("failed to load teacher")
		InternalError(c, "failed to load user")
		return
	}
	if teacher.Role != entity.RoleTeacher {
		BadRequest(c, ErrCodeInvalidRequest, "target user is not a teacher")
		return
	}

	if _, err := h.repo.GetCourse(ctx, req.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeCourseNotFound, "course not found")
			return
		}
		logrus.WithError(err).WithField("course_id", req.CourseID).Error("failed to load course")
		InternalError(c, "failed to load course")
		return
	}

	if err := h.repo.UpdateCourse(ctx, req.CourseID, entity.CourseUpdates{TeacherID: &req.TeacherID}); err != nil {
		logrus.WithError(err).WithField("course_id", req.CourseID).Error("failed to reassign course")
		InternalError(c, "failed to update course")
		return
	}

	course, err := h.repo.GetCourse(ctx, req.CourseID)
	if err != nil {
		logrus.WithError(err).WithField("course_id", req.CourseID).Error("failed to reload course")
		InternalError(c, "failed to load course")
		return
	}

	c.JSON(http.StatusOK, course)
}

// Stats returns portal-wide counters for the admin dashboard.
func (h *HTTPHandler) Stats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	stats, err := h.repo.Stats(ctx)
	if err != nil {
		logrus.WithError(err).Error("failed to compute stats")
		InternalError(c, "failed to load stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

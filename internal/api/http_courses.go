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

// CreateCourse registers a new course owned by the calling teacher. Admins
// may create courses too and own them directly.
func (h *HTTPHandler) CreateCourse(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var req entity.CourseCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	course := &entity.DbCourse{
		Title:       req.Title,
		Description: req.Description,
		Subject:     req.Subject,
		TeacherID:   user.ID,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.CreateCourse(ctx, course); err != nil {
		logrus.WithError(err).Error("failed to create course")
		InternalError(c, "failed to create course")
		return
	}

	c.JSON(http.StatusCreated, course)
}

// ListTeacherCourses returns the calling teacher's courses; admins see all.
func (h *HTTPHandler) ListTeacherCourses(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	teacherID := uint(0)
	if user.IsTeacher() {
		teacherID = user.ID
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	courses, err := h.repo.ListCourses(ctx, teacherID)
	if err != nil {
		logrus.WithError(err).Error("failed to list courses")
		InternalError(c, "failed to load courses")
		return
	}

	c.JSON(http.StatusOK, courses)
}

// loadOwnedCourse loads a course and enforces the ownership rule for the
// calling user. On failure it has already written the error response.
func (h *HTTPHandler) loadOwnedCourse(c *gin.Context, ctx context.Context, user *RequestUser, courseID uint) (*entity.DbCourse, bool) {
	course, err := h.repo.GetCourse(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeCourseNotFound, "course not found")
			return nil, false
		}
		logrus.WithError(err).WithField("course_id", courseID).Error("failed to load course")
		InternalError(c, "failed to load course")
		return nil, false
	}
	if !user.CanManageCourse(course.TeacherID) {
		ErrorResponse(c, http.StatusForbidden, ErrCodeNotCourseOwner, "not your course")
		return nil, false
	}
	return course, true
}

package api

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"portal/internal/entity"
	"portal/internal/storage"
)

const maxSubmissionSizeBytes = 50 << 20

func (h *HTTPHandler) enrolledCourseIDs(ctx context.Context, studentID uint) ([]uint, error) {
	enrollments, err := h.repo.ListEnrollmentsByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(enrollments))
	for _, e := range enrollments {
		ids = append(ids, e.CourseID)
	}
	return ids, nil
}

// ListStudentCourses returns the courses the calling student is enrolled in.
func (h *HTTPHandler) ListStudentCourses(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	courseIDs, err := h.enrolledCourseIDs(ctx, user.ID)
	if err != nil {
		logrus.WithError(err).Error("failed to load enrollments")
		InternalError(c, "failed to load courses")
		return
	}

	courses, err := h.repo.ListCoursesByIDs(ctx, courseIDs)
	if err != nil {
		logrus.WithError(err).Error("failed to load courses")
		InternalError(c, "failed to load courses")
		return
	}

	c.JSON(http.StatusOK, courses)
}

// EnrollCourse enrolls the calling student in a course. Enrolling twice is
// a no-op returning the existing enrollment.
func (h *HTTPHandler) EnrollCourse(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var req entity.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if _, err := h.repo.GetCourse(ctx, req.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeCourseNotFound, "course not found")
			return
		}
		logrus.WithError(err).Error("failed to load course")
		InternalError(c, "failed to load course")
		return
	}

	existing, err := h.repo.GetEnrollment(ctx, req.CourseID, user.ID)
	if err == nil && existing.Status == entity.EnrollmentStatusEnrolled {
		c.JSON(http.StatusOK, existing)
		return
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logrus.WithError(err).Error("failed to check enrollment")
		InternalError(c, "failed to enroll")
		return
	}

	enrollment := &entity.DbEnrollment{
		CourseID:  req.CourseID,
		StudentID: user.ID,
		Status:    entity.EnrollmentStatusEnrolled,
	}
	if err := h.repo.CreateEnrollment(ctx, enrollment); err != nil {
		logrus.WithError(err).Error("failed to create enrollment")
		InternalError(c, "failed to enroll")
		return
	}

	c.JSON(http.StatusCreated, enrollment)
}

// ListStudentAssignments returns assignments of every course the calling
// student is enrolled in, newest first.
func (h *HTTPHandler) ListStudentAssignments(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	courseIDs, err := h.enrolledCourseIDs(ctx, user.ID)
	if err != nil {
		logrus.WithError(err).Error("failed to load enrollments")
		InternalError(c, "failed to load assignments")
		return
	}

	assignments, err := h.repo.ListAssignmentsByCourses(ctx, courseIDs)
	if err != nil {
		logrus.WithError(err).Error("failed to list assignments")
		InternalError(c, "failed to load assignments")
		return
	}

	c.JSON(http.StatusOK, assignments)
}

// UploadSubmissionFile stores a submission attachment in the configured
// storage backend and returns its public URL for use in SubmitAssignment.
func (h *HTTPHandler) UploadSubmissionFile(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}
	if h.storage == nil {
		ServiceUnavailable(c, "file storage not available")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		MissingField(c, "file")
		return
	}
	if fileHeader.Size > maxSubmissionSizeBytes {
		BadRequest(c, ErrCodeInvalidRequest, "file too large")
		return
	}

	data, err := readMultipartFile(fileHeader)
	if err != nil {
		logrus.WithError(err).Error("failed to read uploaded submission file")
		InternalError(c, "failed to read uploaded file")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	name := filepath.Base(fileHeader.Filename)
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	key, err := h.storage.Save(ctx, data, storage.SaveOptions{
		Category:  storage.CategorySubmissions,
		Extension: ext,
		BaseName:  strings.TrimSuffix(name, filepath.Ext(name)),
	})
	if err != nil {
		logrus.WithError(err).Error("failed to store submission file")
		InternalError(c, "failed to store file")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"file_url": h.publicURL(key)})
}

// SubmitAssignment records the calling student's submission. The student
// must be enrolled in the assignment's course; resubmitting replaces the
// previous content in place.
func (h *HTTPHandler) SubmitAssignment(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var req entity.SubmissionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	assignment, err := h.repo.GetAssignment(ctx, req.AssignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeAssignmentNotFound, "assignment not found")
			return
		}
		logrus.WithError(err).Error("failed to load assignment")
		InternalError(c, "failed to load assignment")
		return
	}

	if _, err := h.repo.GetEnrollment(ctx, assignment.CourseID, user.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ErrorResponse(c, http.StatusForbidden, ErrCodeNotEnrolled, "not enrolled in course")
			return
		}
		logrus.WithError(err).Error("failed to check enrollment")
		InternalError(c, "failed to submit")
		return
	}

	existing, err := h.repo.GetSubmissionByAssignmentStudent(ctx, req.AssignmentID, user.ID)
	switch {
	case err == nil:
		content := req.Content
		fileURL := req.FileURL
		updates := entity.SubmissionUpdates{
			Content: &content,
			FileURL: &fileURL,
		}
		if err := h.repo.UpdateSubmission(ctx, existing.ID, updates); err != nil {
			logrus.WithError(err).Error("failed to update submission")
			InternalError(c, "failed to submit")
			return
		}
		updated, err := h.repo.GetSubmission(ctx, existing.ID)
		if err != nil {
			logrus.WithError(err).Error("failed to reload submission")
			InternalError(c, "failed to submit")
			return
		}
		c.JSON(http.StatusOK, updated)
	case errors.Is(err, gorm.ErrRecordNotFound):
		submission := &entity.DbSubmission{
			AssignmentID: req.AssignmentID,
			StudentID:    user.ID,
			Content:      req.Content,
			FileURL:      req.FileURL,
		}
		if err := h.repo.CreateSubmission(ctx, submission); err != nil {
			logrus.WithError(err).Error("failed to create submission")
			InternalError(c, "failed to submit")
			return
		}
		c.JSON(http.StatusCreated, submission)
	default:
		logrus.WithError(err).Error("failed to check existing submission")
		InternalError(c, "failed to submit")
	}
}

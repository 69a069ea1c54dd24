package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"portal/internal/entity"
)

// CreateAnnouncement publishes either a portal-wide announcement or one
// scoped to a course the caller manages.
func (h *HTTPHandler) CreateAnnouncement(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var req entity.AnnouncementCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	audience := req.Audience
	if audience == "" {
		audience = entity.AudienceAll
	}
	if audience != entity.AudienceAll && audience != entity.AudienceCourse {
		BadRequest(c, ErrCodeInvalidRequest, "invalid audience")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if audience == entity.AudienceCourse {
		if req.CourseID == nil || *req.CourseID == 0 {
			MissingField(c, "course_id")
			return
		}
		if _, ok := h.loadOwnedCourse(c, ctx, user, *req.CourseID); !ok {
			return
		}
	}

	announcement := &entity.DbAnnouncement{
		Title:    req.Title,
		Content:  req.Content,
		AuthorID: user.ID,
		CourseID: req.CourseID,
		Audience: audience,
	}
	if err := h.repo.CreateAnnouncement(ctx, announcement); err != nil {
		logrus.WithError(err).Error("failed to create announcement")
		InternalError(c, "failed to create announcement")
		return
	}

	c.JSON(http.StatusCreated, announcement)
}

// ListAnnouncements returns announcements visible to the caller: students
// see portal-wide ones plus those of their enrolled courses, teachers and
// admins see everything.
func (h *HTTPHandler) ListAnnouncements(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	filter := entity.AnnouncementFilter{All: true}
	if user.IsStudent() {
		courseIDs, err := h.enrolledCourseIDs(ctx, user.ID)
		if err != nil {
			logrus.WithError(err).Error("failed to load enrollments")
			InternalError(c, "failed to load announcements")
			return
		}
		filter = entity.AnnouncementFilter{CourseIDs: courseIDs}
	}

	announcements, err := h.repo.ListAnnouncements(ctx, filter)
	if err != nil {
		logrus.WithError(err).Error("failed to list announcements")
		InternalError(c, "failed to load announcements")
		return
	}

	c.JSON(http.StatusOK, announcements)
}

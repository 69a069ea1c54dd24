package api

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"portal/internal/entity"
	"portal/internal/storage"
)

const maxMaterialSizeBytes = 50 << 20

// CreateMaterial records a course material. The file itself is referenced
// by URL: either external or produced by UploadMaterialFile.
func (h *HTTPHandler) CreateMaterial(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var req entity.MaterialCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if _, ok := h.loadOwnedCourse(c, ctx, user, req.CourseID); !ok {
		return
	}

	material := &entity.DbMaterial{
		CourseID:    req.CourseID,
		Title:       req.Title,
		Description: req.Description,
		FileURL:     req.FileURL,
	}
	if err := h.repo.CreateMaterial(ctx, material); err != nil {
		logrus.WithError(err).Error("failed to create material")
		InternalError(c, "failed to create material")
		return
	}

	c.JSON(http.StatusCreated, material)
}

// UploadMaterialFile stores an uploaded file in the configured storage
// backend and returns its public URL for use in CreateMaterial.
func (h *HTTPHandler) UploadMaterialFile(c *gin.Context) {
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
	if fileHeader.Size > maxMaterialSizeBytes {
		BadRequest(c, ErrCodeInvalidRequest, "file too large")
		return
	}

	data, err := readMultipartFile(fileHeader)
	if err != nil {
		logrus.WithError(err).Error("failed to read uploaded material")
		InternalError(c, "failed to read uploaded file")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	name := filepath.Base(fileHeader.Filename)
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	key, err := h.storage.Save(ctx, data, storage.SaveOptions{
		Category:  storage.CategoryMaterials,
		Extension: ext,
		BaseName:  strings.TrimSuffix(name, filepath.Ext(name)),
	})
	if err != nil {
		logrus.WithError(err).Error("failed to store material file")
		InternalError(c, "failed to store file")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"file_url": h.publicURL(key)})
}

// ListMaterials returns materials visible to the caller: students see their
// enrolled courses' materials, teachers and admins see everything.
func (h *HTTPHandler) ListMaterials(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	filter := entity.MaterialFilter{All: true}
	if user.IsStudent() {
		courseIDs, err := h.enrolledCourseIDs(ctx, user.ID)
		if err != nil {
			logrus.WithError(err).Error("failed to load enrollments")
			InternalError(c, "failed to load materials")
			return
		}
		filter = entity.MaterialFilter{CourseIDs: courseIDs}
	}

	materials, err := h.repo.ListMaterials(ctx, filter)
	if err != nil {
		logrus.WithError(err).Error("failed to list materials")
		InternalError(c, "failed to load materials")
		return
	}

	c.JSON(http.StatusOK, materials)
}

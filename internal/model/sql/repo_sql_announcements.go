package sql

import (
	"context"
	"fmt"

	"portal/internal/entity"
)

// CreateAnnouncement persists a new announcement.
func (r *GormRepository) CreateAnnouncement(ctx context.Context, announcement *entity.DbAnnouncement) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if announcement == nil {
		return fmt.Errorf("announcement is nil")
	}
	return r.db.WithContext(ctx).Create(announcement).Error
}

// ListAnnouncements returns announcements visible under the filter,
// newest first.
func (r *GormRepository) ListAnnouncements(ctx context.Context, filter entity.AnnouncementFilter) ([]entity.DbAnnouncement, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	query := r.db.WithContext(ctx).Model(&entity.DbAnnouncement{})
	if !filter.All {
		if len(filter.CourseIDs) > 0 {
			query = query.Where("audience = ? OR (audience = ? AND course_id IN ?)",
				entity.AudienceAll, entity.AudienceCourse, filter.CourseIDs)
		} else {
			query = query.Where("audience = ?", entity.AudienceAll)
		}
	}
	var announcements []entity.DbAnnouncement
	if err := query.Order("created_at DESC").Find(&announcements).Error; err != nil {
		return nil, err
	}
	return announcements, nil
}

// CreateMaterial persists a new course material.
func (r *GormRepository) CreateMaterial(ctx context.Context, material *entity.DbMaterial) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if material == nil {
		return fmt.Errorf("material is nil")
	}
	return r.db.WithContext(ctx).Create(material).Error
}

// ListMaterials returns materials visible under the filter, newest first.
func (r *GormRepository) ListMaterials(ctx context.Context, filter entity.MaterialFilter) ([]entity.DbMaterial, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	query := r.db.WithContext(ctx).Model(&entity.DbMaterial{})
	if !filter.All {
		if len(filter.CourseIDs) == 0 {
			return []entity.DbMaterial{}, nil
		}
		query = query.Where("course_id IN ?", filter.CourseIDs)
	}
	var materials []entity.DbMaterial
	if err := query.Order("created_at DESC").Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

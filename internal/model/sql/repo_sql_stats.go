package sql

import (
	"context"
	"fmt"

	"portal/internal/entity"
)

// Stats aggregates per-collection counts for the admin dashboard.
func (r *GormRepository) Stats(ctx context.Context) (*entity.PortalStats, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}

	stats := &entity.PortalStats{}
	counts := []struct {
		model interface{}
		query map[string]interface{}
		dest  *int64
	}{
		{&entity.DbUser{}, nil, &stats.Users},
		{&entity.DbUser{}, map[string]interface{}{"role": entity.RoleStudent}, &stats.Students},
		{&entity.DbUser{}, map[string]interface{}{"role": entity.RoleTeacher}, &stats.Teachers},
		{&entity.DbCourse{}, nil, &stats.Courses},
		{&entity.DbAssignment{}, nil, &stats.Assignments},
		{&entity.DbSubmission{}, nil, &stats.Submissions},
		{&entity.DbAnnouncement{}, nil, &stats.Announcements},
		{&entity.DbMaterial{}, nil, &stats.Materials},
	}

	for _, c := range counts {
		query := r.db.WithContext(ctx).Model(c.model)
		if c.query != nil {
			query = query.Where(c.query)
		}
		if err := query.Count(c.dest).Error; err != nil {
			return nil, err
		}
	}
	return stats, nil
}

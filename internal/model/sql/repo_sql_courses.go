package sql

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"portal/internal/entity"
)

// CreateCourse persists a new course.
func (r *GormRepository) CreateCourse(ctx context.Context, course *entity.DbCourse) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if course == nil {
		return fmt.Errorf("course is nil")
	}
	return r.db.WithContext(ctx).Create(course).Error
}

// UpdateCourse updates an existing course entry.
func (r *GormRepository) UpdateCourse(ctx context.Context, id uint, updates entity.CourseUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid course id")
	}
	fields := updates.ToMap()
	if len(fields) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&entity.DbCourse{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetCourse loads a course by ID.
func (r *GormRepository) GetCourse(ctx context.Context, id uint) (*entity.DbCourse, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid course id")
	}
	var course entity.DbCourse
	if err := r.db.WithContext(ctx).First(&course, id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// ListCourses returns courses, optionally restricted to one teacher.
// A zero teacherID lists every course.
func (r *GormRepository) ListCourses(ctx context.Context, teacherID uint) ([]entity.DbCourse, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	query := r.db.WithContext(ctx).Model(&entity.DbCourse{})
	if teacherID != 0 {
		query = query.Where("teacher_id = ?", teacherID)
	}
	var courses []entity.DbCourse
	if err := query.Order("created_at DESC").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

// ListCoursesByIDs loads the given courses; unknown ids are skipped.
func (r *GormRepository) ListCoursesByIDs(ctx context.Context, ids []uint) ([]entity.DbCourse, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if len(ids) == 0 {
		return []entity.DbCourse{}, nil
	}
	var courses []entity.DbCourse
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("created_at DESC").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

// CreateEnrollment persists a new enrollment.
func (r *GormRepository) CreateEnrollment(ctx context.Context, enrollment *entity.DbEnrollment) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if enrollment == nil {
		return fmt.Errorf("enrollment is nil")
	}
	return r.db.WithContext(ctx).Create(enrollment).Error
}

// GetEnrollment loads the enrollment of a student in a course.
func (r *GormRepository) GetEnrollment(ctx context.Context, courseID, studentID uint) (*entity.DbEnrollment, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var enrollment entity.DbEnrollment
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// ListEnrollmentsByStudent returns a student's active enrollments.
func (r *GormRepository) ListEnrollmentsByStudent(ctx context.Context, studentID uint) ([]entity.DbEnrollment, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if studentID == 0 {
		return nil, fmt.Errorf("invalid student id")
	}
	var enrollments []entity.DbEnrollment
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND status = ?", studentID, entity.EnrollmentStatusEnrolled).
		Find(&enrollments).Error
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}

package sql

import (
	"context"
	"fmt"

	"portal/internal/entity"
)

// CreateAssignment persists a new assignment.
func (r *GormRepository) CreateAssignment(ctx context.Context, assignment *entity.DbAssignment) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if assignment == nil {
		return fmt.Errorf("assignment is nil")
	}
	return r.db.WithContext(ctx).Create(assignment).Error
}

// GetAssignment loads an assignment by ID.
func (r *GormRepository) GetAssignment(ctx context.Context, id uint) (*entity.DbAssignment, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid assignment id")
	}
	var assignment entity.DbAssignment
	if err := r.db.WithContext(ctx).First(&assignment, id).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

// ListAssignmentsByCourses returns assignments of the given courses,
// newest first.
func (r *GormRepository) ListAssignmentsByCourses(ctx context.Context, courseIDs []uint) ([]entity.DbAssignment, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if len(courseIDs) == 0 {
		return []entity.DbAssignment{}, nil
	}
	var assignments []entity.DbAssignment
	err := r.db.WithContext(ctx).
		Where("course_id IN ?", courseIDs).
		Order("created_at DESC").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

// CreateSubmission persists a new submission.
func (r *GormRepository) CreateSubmission(ctx context.Context, submission *entity.DbSubmission) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if submission == nil {
		return fmt.Errorf("submission is nil")
	}
	return r.db.WithContext(ctx).Create(submission).Error
}

// UpdateSubmission updates an existing submission entry.
func (r *GormRepository) UpdateSubmission(ctx context.Context, id uint, updates entity.SubmissionUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid submission id")
	}
	fields := updates.ToMap()
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&entity.DbSubmission{}).Where("id = ?", id).Updates(fields).Error
}

// GetSubmission loads a submission by ID.
func (r *GormRepository) GetSubmission(ctx context.Context, id uint) (*entity.DbSubmission, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid submission id")
	}
	var submission entity.DbSubmission
	if err := r.db.WithContext(ctx).First(&submission, id).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

// GetSubmissionByAssignmentStudent loads a student's submission for an
// assignment, if any.
func (r *GormRepository) GetSubmissionByAssignmentStudent(ctx context.Context, assignmentID, studentID uint) (*entity.DbSubmission, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var submission entity.DbSubmission
	err := r.db.WithContext(ctx).
		Where("assignment_id = ? AND student_id = ?", assignmentID, studentID).
		First(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// ListSubmissionsByAssignment returns all submissions for an assignment,
// newest first.
func (r *GormRepository) ListSubmissionsByAssignment(ctx context.Context, assignmentID uint) ([]entity.DbSubmission, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if assignmentID == 0 {
		return nil, fmt.Errorf("invalid assignment id")
	}
	var submissions []entity.DbSubmission
	err := r.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Order("created_at DESC").
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

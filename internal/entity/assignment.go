package entity

import "time"

// DbAssignment represents a persisted assignment within a course.
type DbAssignment struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CourseID    uint       `gorm:"column:course_id;index;not null" json:"course_id"`
	Title       string     `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Description string     `gorm:"column:description;type:text" json:"description"`
	DueDate     *time.Time `gorm:"column:due_date" json:"due_date,omitempty"`
}

func (DbAssignment) TableName() string {
	return "assignments"
}

// DbSubmission holds a student's answer to an assignment. At most one row
// exists per (assignment, student); resubmission overwrites in place.
type DbSubmission struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	AssignmentID uint      `gorm:"column:assignment_id;index:idx_submission_assignment_student,unique;not null" json:"assignment_id"`
	StudentID    uint      `gorm:"column:student_id;index:idx_submission_assignment_student,unique;not null" json:"student_id"`
	Content      string    `gorm:"column:content;type:text" json:"content"`
	FileURL      string    `gorm:"column:file_url;type:varchar(512)" json:"file_url,omitempty"`
	Grade        *float64  `gorm:"column:grade" json:"grade,omitempty"`
	Feedback     string    `gorm:"column:feedback;type:text" json:"feedback,omitempty"`
}

func (DbSubmission) TableName() string {
	return "submissions"
}

type AssignmentCreateRequest struct {
	CourseID    uint       `json:"course_id" binding:"required"`
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

type SubmissionCreateRequest struct {
	AssignmentID uint   `json:"assignment_id" binding:"required"`
	Content      string `json:"content"`
	FileURL      string `json:"file_url"`
}

type GradeRequest struct {
	SubmissionID uint    `json:"submission_id" binding:"required"`
	Grade        float64 `json:"grade"`
	Feedback     string  `json:"feedback"`
}

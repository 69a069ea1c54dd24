package entity

import "time"

// DbCourse represents a persisted course.
type DbCourse struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Title       string    `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Subject     string    `gorm:"column:subject;type:varchar(255)" json:"subject"`
	TeacherID   uint      `gorm:"column:teacher_id;index;not null" json:"teacher_id"`
}

func (DbCourse) TableName() string {
	return "courses"
}

const EnrollmentStatusEnrolled = "enrolled"

// DbEnrollment links a student to a course.
type DbEnrollment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	CourseID  uint      `gorm:"column:course_id;index;not null" json:"course_id"`
	StudentID uint      `gorm:"column:student_id;index;not null" json:"student_id"`
	Status    string    `gorm:"column:status;type:varchar(50);not null" json:"status"`
}

func (DbEnrollment) TableName() string {
	return "enrollments"
}

type CourseCreateRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Subject     string `json:"subject"`
}

type EnrollRequest struct {
	CourseID uint `json:"course_id" binding:"required"`
}

// AssignTeacherRequest reassigns the owning teacher of a course.
type AssignTeacherRequest struct {
	CourseID  uint `json:"course_id" binding:"required"`
	TeacherID uint `json:"teacher_id" binding:"required"`
}

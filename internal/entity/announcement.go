package entity

import "time"

const (
	AudienceAll    = "all"
	AudienceCourse = "course"
)

// DbAnnouncement represents a persisted announcement, either portal-wide or
// scoped to a single course.
type DbAnnouncement struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Title     string    `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Content   string    `gorm:"column:content;type:text;not null" json:"content"`
	AuthorID  uint      `gorm:"column:author_id;index;not null" json:"author_id"`
	CourseID  *uint     `gorm:"column:course_id;index" json:"course_id,omitempty"`
	Audience  string    `gorm:"column:audience;type:varchar(50);not null" json:"audience"`
}

func (DbAnnouncement) TableName() string {
	return "announcements"
}

// DbMaterial represents a persisted course material.
type DbMaterial struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	CourseID    uint      `gorm:"column:course_id;index;not null" json:"course_id"`
	Title       string    `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	FileURL     string    `gorm:"column:file_url;type:varchar(512)" json:"file_url,omitempty"`
}

func (DbMaterial) TableName() string {
	return "materials"
}

// AnnouncementFilter restricts the announcement listing. With All set the
// caller sees everything; otherwise portal-wide announcements plus those
// scoped to the given course ids.
type AnnouncementFilter struct {
	All       bool
	CourseIDs []uint
}

// MaterialFilter restricts the material listing. With All set the caller
// sees everything; otherwise only materials of the given course ids.
type MaterialFilter struct {
	All       bool
	CourseIDs []uint
}

type AnnouncementCreateRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	CourseID *uint  `json:"course_id,omitempty"`
	Audience string `json:"audience"`
}

type MaterialCreateRequest struct {
	CourseID    uint   `json:"course_id" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	FileURL     string `json:"file_url"`
}

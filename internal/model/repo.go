package model

import (
	"context"

	"portal/internal/entity"
)

// Repository 定义数据库操作接口
type Repository interface {
	// 用户管理
	CreateUser(ctx context.Context, user *entity.DbUser) error
	UpdateUser(ctx context.Context, id uint, updates entity.UserUpdates) error
	GetUserByEmail(ctx context.Context, email string) (*entity.DbUser, error)
	GetUserByID(ctx context.Context, id uint) (*entity.DbUser, error)
	ListUsers(ctx context.Context, params *entity.UserQuery) ([]entity.DbUser, *entity.Meta, error)

	// 课程
	CreateCourse(ctx context.Context, course *entity.DbCourse) error
	UpdateCourse(ctx context.Context, id uint, updates entity.CourseUpdates) error
	GetCourse(ctx context.Context, id uint) (*entity.DbCourse, error)
	ListCourses(ctx context.Context, teacherID uint) ([]entity.DbCourse, error)
	ListCoursesByIDs(ctx context.Context, ids []uint) ([]entity.DbCourse, error)

	// 选课
	CreateEnrollment(ctx context.Context, enrollment *entity.DbEnrollment) error
	GetEnrollment(ctx context.Context, courseID, studentID uint) (*entity.DbEnrollment, error)
	ListEnrollmentsByStudent(ctx context.Context, studentID uint) ([]entity.DbEnrollment, error)

	// 作业
	CreateAssignment(ctx context.Context, assignment *entity.DbAssignment) error
	GetAssignment(ctx context.Context, id uint) (*entity.DbAssignment, error)
	ListAssignmentsByCourses(ctx context.Context, courseIDs []uint) ([]entity.DbAssignment, error)

	// 作业提交
	CreateSubmission(ctx context.Context, submission *entity.DbSubmission) error
	UpdateSubmission(ctx context.Context, id uint, updates entity.SubmissionUpdates) error
	GetSubmission(ctx context.Context, id uint) (*entity.DbSubmission, error)
	GetSubmissionByAssignmentStudent(ctx context.Context, assignmentID, studentID uint) (*entity.DbSubmission, error)
	ListSubmissionsByAssignment(ctx context.Context, assignmentID uint) ([]entity.DbSubmission, error)

	// 公告和资料
	CreateAnnouncement(ctx context.Context, announcement *entity.DbAnnouncement) error
	ListAnnouncements(ctx context.Context, filter entity.AnnouncementFilter) ([]entity.DbAnnouncement, error)
	CreateMaterial(ctx context.Context, material *entity.DbMaterial) error
	ListMaterials(ctx context.Context, filter entity.MaterialFilter) ([]entity.DbMaterial, error)

	// 统计
	Stats(ctx context.Context) (*entity.PortalStats, error)
}

package entity

// UserUpdates 用户更新字段
type UserUpdates struct {
	Name      *string
	Bio       *string
	AvatarURL *string
	Approved  *bool
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u UserUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.Bio != nil {
		updates["bio"] = *u.Bio
	}
	if u.AvatarURL != nil {
		updates["avatar_url"] = *u.AvatarURL
	}
	if u.Approved != nil {
		updates["approved"] = *u.Approved
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u UserUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// CourseUpdates 课程更新字段
type CourseUpdates struct {
	Title       *string
	Description *string
	Subject     *string
	TeacherID   *uint
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u CourseUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Title != nil {
		updates["title"] = *u.Title
	}
	if u.Description != nil {
		updates["description"] = *u.Description
	}
	if u.Subject != nil {
		updates["subject"] = *u.Subject
	}
	if u.TeacherID != nil {
		updates["teacher_id"] = *u.TeacherID
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u CourseUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// SubmissionUpdates 作业提交更新字段
type SubmissionUpdates struct {
	Content  *string
	FileURL  *string
	Grade    *float64
	Feedback *string
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u SubmissionUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Content != nil {
		updates["content"] = *u.Content
	}
	if u.FileURL != nil {
		updates["file_url"] = *u.FileURL
	}
	if u.Grade != nil {
		updates["grade"] = *u.Grade
	}
	if u.Feedback != nil {
		updates["feedback"] = *u.Feedback
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u SubmissionUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

package entity

// Meta 包含分页元数据。
type Meta struct {
	Page     int64 `json:"page"`
	PageSize int64 `json:"page_size"`
	Total    int64 `json:"total"`
}

// BaseParams 包含通用的分页和排序参数。
type BaseParams struct {
	PageSize int64  `json:"page_size" form:"page_size" query:"page_size"`
	Page     int64  `json:"page" form:"page" query:"page"`
	SortBy   string `json:"sort_by" form:"sort_by" query:"sort_by"`
	SortDesc bool   `json:"sort_desc" form:"sort_desc" query:"sort_desc"`
}

// PortalStats 是管理端统计接口的响应。
type PortalStats struct {
	Users         int64 `json:"users"`
	Students      int64 `json:"students"`
	Teachers      int64 `json:"teachers"`
	Courses       int64 `json:"courses"`
	Assignments   int64 `json:"assignments"`
	Submissions   int64 `json:"submissions"`
	Announcements int64 `json:"announcements"`
	Materials     int64 `json:"materials"`
}

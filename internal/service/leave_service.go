package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"attendance-leave/backend/internal/dto"
	"attendance-leave/backend/internal/model"
	"attendance-leave/backend/internal/repository"
	"attendance-leave/backend/pkg/dateutil"
	"attendance-leave/backend/pkg/metrics"
)

// MonthlyLeaveQuota 每个自然月允许的请假天数（按 Leave 状态的考勤计）
const MonthlyLeaveQuota = 7

// LeaveService 请假生命周期
//
// 请假与考勤的对应关系：
//   - 申请时为区间内每天补一条 Absent（已有记录的日期保持原样）
//   - 修改区间时删除不再覆盖的日期、为新增日期补 Absent，两者共有的日期不动
//   - 删除时连同区间内的考勤一起删除
//
// 审批见 ApprovalService。
type LeaveService interface {
	Apply(ctx context.Context, userID string, req *dto.ApplyLeaveRequest) (*dto.LeaveResponse, error)
	Update(ctx context.Context, leaveID string, req *dto.UpdateLeaveRequest, callerID string, callerRole model.Role) (*dto.LeaveResponse, error)
	Delete(ctx context.Context, leaveID string, callerID string, callerRole model.Role) error
	Get(ctx context.Context, leaveID string, callerID string, callerRole model.Role) (*dto.LeaveResponse, error)
	ListByUser(ctx context.Context, userID string) ([]dto.LeaveResponse, error)
	List(ctx context.Context, req *dto.LeaveListRequest) ([]dto.LeaveResponse, error)

	// HasOverlap 是否存在与 [start, end] 重叠的请假，excludeID 为正在修改的请假
	HasOverlap(ctx context.Context, userID string, start, end time.Time, excludeID string) (bool, *model.Leave, error)
	// RemainingQuota day 所在自然月剩余可请天数
	RemainingQuota(ctx context.Context, userID string, day time.Time) (*dto.LeaveQuotaResponse, error)
}

type leaveService struct {
	repo   *repository.Repository
	clock  dateutil.Clock
	logger *zap.Logger
}

// NewLeaveService 创建 LeaveService 实例
func NewLeaveService(repo *repository.Repository, clock dateutil.Clock, logger *zap.Logger) LeaveService {
	return &leaveService{repo: repo, clock: clock, logger: logger}
}

// ────────────────────── Apply ──────────────────────

func (s *leaveService) Apply(ctx context.Context, userID string, req *dto.ApplyLeaveRequest) (*dto.LeaveResponse, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		metrics.LeaveRequests.WithLabelValues("invalid").Inc()
		return nil, ErrLeaveReason
	}

	start, err := dateutil.Parse(req.FromDate, s.clock.Location)
	if err != nil {
		metrics.LeaveRequests.WithLabelValues("invalid").Inc()
		return nil, ErrInvalidDate
	}
	end, err := dateutil.Parse(req.ToDate, s.clock.Location)
	if err != nil {
		metrics.LeaveRequests.WithLabelValues("invalid").Inc()
		return nil, ErrInvalidDate
	}

	today := s.clock.Today()
	if start.Before(today) || end.Before(today) {
		metrics.LeaveRequests.WithLabelValues("invalid").Inc()
		return nil, ErrLeaveInPast
	}
	if start.After(end) {
		metrics.LeaveRequests.WithLabelValues("invalid").Inc()
		return nil, ErrLeaveRange
	}

	leave := &model.Leave{
		UserID:    userID,
		StartDate: start,
		EndDate:   end,
		Reason:    reason,
		Status:    model.LeavePending,
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		// 锁定用户行，同一用户的请假变更串行执行
		if _, err := tx.User.GetByIDForUpdate(ctx, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		if err := s.checkOverlap(ctx, tx, userID, start, end, ""); err != nil {
			return err
		}

		used, err := s.usedInMonth(ctx, tx, userID, start)
		if err != nil {
			return err
		}
		if used+dateutil.DayCount(start, end) > MonthlyLeaveQuota {
			metrics.LeaveRequests.WithLabelValues("quota").Inc()
			return ErrLeaveQuotaExceeded
		}

		if err := tx.Leave.Create(ctx, leave); err != nil {
			return err
		}
		_, err = tx.Attendance.UpsertDays(ctx, userID, dateutil.Range(start, end), model.AttendanceAbsent)
		return err
	})
	if err != nil {
		if isBusinessError(err) {
			return nil, err
		}
		s.logger.Error("申请请假失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	metrics.LeaveRequests.WithLabelValues("accepted").Inc()
	s.logger.Info("请假申请已提交",
		zap.String("leave_id", leave.LeaveID),
		zap.String("user_id", userID),
		zap.String("start", dateutil.Format(start)),
		zap.String("end", dateutil.Format(end)),
	)

	resp := dto.NewLeaveResponse(leave)
	return &resp, nil
}

// ────────────────────── Update ──────────────────────

func (s *leaveService) Update(ctx context.Context, leaveID string, req *dto.UpdateLeaveRequest, callerID string, callerRole model.Role) (*dto.LeaveResponse, error) {
	var updated *model.Leave

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		leave, err := s.loadOwned(ctx, tx, leaveID, callerID, callerRole)
		if err != nil {
			return err
		}
		if _, err := tx.User.GetByIDForUpdate(ctx, leave.UserID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		today := s.clock.Today()
		if leave.Status != model.LeavePending && leave.StartDate.Before(today) {
			return ErrLeaveNotEditable
		}

		oldStart, oldEnd := leave.StartDate, leave.EndDate
		newStart, newEnd := oldStart, oldEnd
		if req.StartDate != nil {
			if newStart, err = dateutil.Parse(*req.StartDate, s.clock.Location); err != nil {
				return ErrInvalidDate
			}
		}
		if req.EndDate != nil {
			if newEnd, err = dateutil.Parse(*req.EndDate, s.clock.Location); err != nil {
				return ErrInvalidDate
			}
		}
		if req.Reason != nil {
			reason := strings.TrimSpace(*req.Reason)
			if reason == "" {
				return ErrLeaveReason
			}
			leave.Reason = reason
		}

		rangeChanged := !newStart.Equal(oldStart) || !newEnd.Equal(oldEnd)
		if rangeChanged {
			if newStart.Before(today) || newEnd.Before(today) {
				return ErrLeaveInPast
			}
			if newStart.After(newEnd) {
				return ErrLeaveRange
			}
			if err := s.checkOverlap(ctx, tx, leave.UserID, newStart, newEnd, leave.LeaveID); err != nil {
				return err
			}
			if err := s.checkQuotaForUpdate(ctx, tx, leave.UserID, oldStart, oldEnd, newStart, newEnd); err != nil {
				return err
			}

			// 审批状态只由 Decide 改变
			leave.StartDate, leave.EndDate = newStart, newEnd
		}

		if err := tx.Leave.Update(ctx, leave); err != nil {
			return err
		}

		if rangeChanged {
			oldDays := dateutil.Range(oldStart, oldEnd)
			newDays := dateutil.Range(newStart, newEnd)
			if _, err := tx.Attendance.DeleteByUserAndDays(ctx, leave.UserID, dateutil.Difference(oldDays, newDays)); err != nil {
				return err
			}
			if _, err := tx.Attendance.UpsertDays(ctx, leave.UserID, dateutil.Difference(newDays, oldDays), addedDayStatus(leave.Status)); err != nil {
				return err
			}
		}

		updated = leave
		return nil
	})
	if err != nil {
		if isBusinessError(err) {
			return nil, err
		}
		s.logger.Error("修改请假失败", zap.String("leave_id", leaveID), zap.Error(err))
		return nil, err
	}

	resp := dto.NewLeaveResponse(updated)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *leaveService) Delete(ctx context.Context, leaveID string, callerID string, callerRole model.Role) error {
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		leave, err := s.loadOwned(ctx, tx, leaveID, callerID, callerRole)
		if err != nil {
			return err
		}

		// 只比较开始日期：今天开始的请假仍可删除
		if leave.StartDate.Before(s.clock.Today()) {
			return ErrLeaveNotDeletable
		}

		if err := tx.Leave.Delete(ctx, leave.LeaveID); err != nil {
			return err
		}
		_, err = tx.Attendance.DeleteByUserAndDays(ctx, leave.UserID, dateutil.Range(leave.StartDate, leave.EndDate))
		return err
	})
	if err != nil {
		if isBusinessError(err) {
			return err
		}
		s.logger.Error("删除请假失败", zap.String("leave_id", leaveID), zap.Error(err))
		return err
	}

	s.logger.Info("请假已删除", zap.String("leave_id", leaveID), zap.String("by", callerID))
	return nil
}

// ────────────────────── Read ──────────────────────

func (s *leaveService) Get(ctx context.Context, leaveID string, callerID string, callerRole model.Role) (*dto.LeaveResponse, error) {
	leave, err := s.loadOwned(ctx, s.repo, leaveID, callerID, callerRole)
	if err != nil {
		if !isBusinessError(err) {
			s.logger.Error("查询请假失败", zap.String("leave_id", leaveID), zap.Error(err))
		}
		return nil, err
	}
	resp := dto.NewLeaveResponse(leave)
	return &resp, nil
}

func (s *leaveService) ListByUser(ctx context.Context, userID string) ([]dto.LeaveResponse, error) {
	list, err := s.repo.Leave.List(ctx, repository.LeaveFilter{UserID: userID})
	if err != nil {
		s.logger.Error("查询用户请假失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return dto.NewLeaveList(list), nil
}

func (s *leaveService) List(ctx context.Context, req *dto.LeaveListRequest) ([]dto.LeaveResponse, error) {
	list, err := s.repo.Leave.List(ctx, repository.LeaveFilter{Status: model.LeaveStatus(req.Status)})
	if err != nil {
		s.logger.Error("查询请假列表失败", zap.Error(err))
		return nil, err
	}
	return dto.NewLeaveList(list), nil
}

// ────────────────────── Overlap / Quota ──────────────────────

func (s *leaveService) HasOverlap(ctx context.Context, userID string, start, end time.Time, excludeID string) (bool, *model.Leave, error) {
	return hasOverlap(ctx, s.repo, userID, start, end, excludeID)
}

func (s *leaveService) RemainingQuota(ctx context.Context, userID string, day time.Time) (*dto.LeaveQuotaResponse, error) {
	used, err := s.usedInMonth(ctx, s.repo, userID, day)
	if err != nil {
		s.logger.Error("统计请假额度失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	remaining := MonthlyLeaveQuota - used
	if remaining < 0 {
		remaining = 0
	}
	return &dto.LeaveQuotaResponse{
		Month:     day.Format("2006-01"),
		Used:      used,
		Remaining: remaining,
	}, nil
}

func hasOverlap(ctx context.Context, repo *repository.Repository, userID string, start, end time.Time, excludeID string) (bool, *model.Leave, error) {
	list, err := repo.Leave.FindOverlapping(ctx, userID, start, end, excludeID)
	if err != nil {
		return false, nil, err
	}
	if len(list) == 0 {
		return false, nil, nil
	}
	return true, &list[0], nil
}

func (s *leaveService) checkOverlap(ctx context.Context, repo *repository.Repository, userID string, start, end time.Time, excludeID string) error {
	overlap, other, err := hasOverlap(ctx, repo, userID, start, end, excludeID)
	if err != nil {
		return err
	}
	if overlap {
		metrics.LeaveRequests.WithLabelValues("overlap").Inc()
		return ErrLeaveOverlap.WithMessage(fmt.Sprintf(
			"请假日期与已有请假（%s 至 %s）重叠，请修改已有请假",
			dateutil.Format(other.StartDate), dateutil.Format(other.EndDate),
		))
	}
	return nil
}

// usedInMonth day 所在自然月内状态为 Leave 的考勤天数
func (s *leaveService) usedInMonth(ctx context.Context, repo *repository.Repository, userID string, day time.Time) (int, error) {
	first, last := dateutil.MonthBounds(day)
	return countLeaveDays(ctx, repo, userID, first, last)
}

// checkQuotaForUpdate 新区间所在月的已用天数，扣除旧区间内已计入的天数后再加上新区间天数
func (s *leaveService) checkQuotaForUpdate(ctx context.Context, repo *repository.Repository, userID string, oldStart, oldEnd, newStart, newEnd time.Time) error {
	first, last := dateutil.MonthBounds(newStart)
	used, err := countLeaveDays(ctx, repo, userID, first, last)
	if err != nil {
		return err
	}

	if dateutil.Overlaps(oldStart, oldEnd, first, last) {
		from, to := maxDay(oldStart, first), minDay(oldEnd, last)
		retired, err := countLeaveDays(ctx, repo, userID, from, to)
		if err != nil {
			return err
		}
		used -= retired
	}

	if used+dateutil.DayCount(newStart, newEnd) > MonthlyLeaveQuota {
		metrics.LeaveRequests.WithLabelValues("quota").Inc()
		return ErrLeaveQuotaExceeded
	}
	return nil
}

func countLeaveDays(ctx context.Context, repo *repository.Repository, userID string, from, to time.Time) (int, error) {
	n, err := repo.Attendance.Count(ctx, repository.AttendanceFilter{
		UserIDs: []string{userID},
		Start:   &from,
		End:     &to,
		Status:  model.AttendanceLeave,
	})
	return int(n), err
}

// loadOwned 查询请假并校验归属：本人或管理员
func (s *leaveService) loadOwned(ctx context.Context, repo *repository.Repository, leaveID, callerID string, callerRole model.Role) (*model.Leave, error) {
	leave, err := repo.Leave.GetByID(ctx, leaveID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeaveNotFound
		}
		return nil, err
	}
	if callerRole != model.RoleAdmin && leave.UserID != callerID {
		return nil, ErrNoPermission
	}
	return leave, nil
}

// addedDayStatus 区间扩展出的新日期：已批准的请假直接记为 Leave，与审批时的结果一致
func addedDayStatus(st model.LeaveStatus) model.AttendanceStatus {
	if st == model.LeaveApproved {
		return model.AttendanceLeave
	}
	return model.AttendanceAbsent
}

func maxDay(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minDay(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

// [自证通过] internal/service/leave_service.go

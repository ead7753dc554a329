package service

import (
	"context"
	"errors"
	"testing"

	"attendance-leave/backend/internal/model"
	pkgerrors "attendance-leave/backend/pkg/errors"
)

func TestApprovalService_RejectKeepsAttendance(t *testing.T) {
	leaveSvc, approval, r, _ := setupTestLeaveService()
	ctx := context.Background()

	leave, _ := leaveSvc.Apply(ctx, "u1", applyReq("2024-06-10", "2024-06-11"))

	resp, err := approval.Decide(ctx, leave.ID, model.LeaveRejected, "admin")
	if err != nil {
		t.Fatalf("Decide 应成功: %v", err)
	}
	if resp.Status != model.LeaveRejected {
		t.Errorf("期望 Rejected，实际=%s", resp.Status)
	}
	if resp.DecidedBy == nil || *resp.DecidedBy != "admin" || resp.DecidedAt == nil {
		t.Errorf("应记录审批人与审批时间: %+v", resp)
	}
	for _, d := range []string{"2024-06-10", "2024-06-11"} {
		if st := r.attendance.statusOn("u1", d); st != model.AttendanceAbsent {
			t.Errorf("驳回后 %s 应保持 Absent，实际=%s", d, st)
		}
	}
}

func TestApprovalService_ApproveTagsOnlyLeaveOwner(t *testing.T) {
	leaveSvc, approval, r, _ := setupTestLeaveService()
	ctx := context.Background()

	// 区间内已有的签到也一并改为 Leave
	r.addAttendance("u1", "2024-06-10", model.AttendancePresent)
	r.addAttendance("u2", "2024-06-10", model.AttendancePresent)
	leave, _ := leaveSvc.Apply(ctx, "u1", applyReq("2024-06-10", "2024-06-11"))

	if _, err := approval.Decide(ctx, leave.ID, model.LeaveApproved, "admin"); err != nil {
		t.Fatalf("Decide 应成功: %v", err)
	}
	if st := r.attendance.statusOn("u1", "2024-06-10"); st != model.AttendanceLeave {
		t.Errorf("期望 Leave，实际=%s", st)
	}
	if st := r.attendance.statusOn("u2", "2024-06-10"); st != model.AttendancePresent {
		t.Errorf("其他用户不受影响，实际=%s", st)
	}
}

func TestApprovalService_Errors(t *testing.T) {
	leaveSvc, approval, _, _ := setupTestLeaveService()
	ctx := context.Background()

	leave, _ := leaveSvc.Apply(ctx, "u1", applyReq("2024-06-10", "2024-06-10"))

	if _, err := approval.Decide(ctx, leave.ID, model.LeavePending, "admin"); !errors.Is(err, ErrDecisionStatus) {
		t.Errorf("期望 ErrDecisionStatus，实际: %v", err)
	}
	if _, err := approval.Decide(ctx, "nope", model.LeaveApproved, "admin"); !errors.Is(err, ErrLeaveNotFound) {
		t.Errorf("期望 ErrLeaveNotFound，实际: %v", err)
	}

	if _, err := approval.Decide(ctx, leave.ID, model.LeaveApproved, "admin"); err != nil {
		t.Fatalf("首次审批应成功: %v", err)
	}
	_, err := approval.Decide(ctx, leave.ID, model.LeaveRejected, "admin")
	if !errors.Is(err, ErrLeaveDecided) {
		t.Errorf("期望 ErrLeaveDecided，实际: %v", err)
	}
	if pkgerrors.KindOf(err) != pkgerrors.KindPolicy {
		t.Errorf("重复审批应为策略错误，实际分类=%d", pkgerrors.KindOf(err))
	}
}

func TestApprovalService_StaleVersion(t *testing.T) {
	leaveSvc, approval, r, _ := setupTestLeaveService()
	ctx := context.Background()

	leave, _ := leaveSvc.Apply(ctx, "u1", applyReq("2024-06-10", "2024-06-10"))

	// 读取之后被并发修改：存储中的版本号已前移
	stale := *r.leaves.leaves[leave.ID]
	r.leaves.leaves[leave.ID].Version = 2
	r.repo.Leave = &staleLeaveRepo{mockLeaveRepo: r.leaves, stale: &stale}

	_, err := approval.Decide(ctx, leave.ID, model.LeaveApproved, "admin")
	if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Errorf("期望 ErrOptimisticLock，实际: %v", err)
	}
	if st := r.attendance.statusOn("u1", "2024-06-10"); st != model.AttendanceAbsent {
		t.Errorf("冲突时不应改写考勤，实际=%s", st)
	}
}

// staleLeaveRepo GetByID 返回过期快照
type staleLeaveRepo struct {
	*mockLeaveRepo
	stale *model.Leave
}

func (s *staleLeaveRepo) GetByID(_ context.Context, _ string) (*model.Leave, error) {
	cp := *s.stale
	return &cp, nil
}

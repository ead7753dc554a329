package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"attendance-leave/backend/internal/model"
	pkgerrors "attendance-leave/backend/pkg/errors"
)

// LeaveFilter 请假查询条件
type LeaveFilter struct {
	UserID string
	Status model.LeaveStatus
}

// LeaveRepository 请假数据访问接口
type LeaveRepository interface {
	Create(ctx context.Context, leave *model.Leave) error
	GetByID(ctx context.Context, id string) (*model.Leave, error)
	// Update 乐观锁更新，版本不匹配时返回 ErrOptimisticLock
	Update(ctx context.Context, leave *model.Leave) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f LeaveFilter) ([]model.Leave, error)
	Count(ctx context.Context, f LeaveFilter) (int64, error)
	// FindOverlapping 查找与 [start, end] 共享至少一天的请假，excludeID 非空时排除该条
	FindOverlapping(ctx context.Context, userID string, start, end time.Time, excludeID string) ([]model.Leave, error)
}

// leaveRepo LeaveRepository 的 GORM 实现
type leaveRepo struct {
	db *gorm.DB
}

// NewLeaveRepo 创建 LeaveRepository 实例
func NewLeaveRepo(db *gorm.DB) LeaveRepository {
	return &leaveRepo{db: db}
}

func (r *leaveRepo) Create(ctx context.Context, leave *model.Leave) error {
	if leave.LeaveID == "" {
		leave.LeaveID = uuid.NewString()
	}
	if leave.Version == 0 {
		leave.Version = 1
	}
	return r.db.WithContext(ctx).Create(leave).Error
}

func (r *leaveRepo) GetByID(ctx context.Context, id string) (*model.Leave, error) {
	var leave model.Leave
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("leave_id = ?", id).
		First(&leave).Error
	if err != nil {
		return nil, err
	}
	return &leave, nil
}

func (r *leaveRepo) Update(ctx context.Context, leave *model.Leave) error {
	oldVersion := leave.Version
	result := r.db.WithContext(ctx).
		Model(&model.Leave{}).
		Where("leave_id = ? AND version = ?", leave.LeaveID, oldVersion).
		Updates(map[string]interface{}{
			"start_date": leave.StartDate,
			"end_date":   leave.EndDate,
			"reason":     leave.Reason,
			"status":     leave.Status,
			"decided_by": leave.DecidedBy,
			"decided_at": leave.DecidedAt,
			"updated_at": time.Now(),
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	leave.Version = oldVersion + 1
	return nil
}

func (r *leaveRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("leave_id = ?", id).
		Delete(&model.Leave{}).Error
}

func (r *leaveRepo) scoped(ctx context.Context, f LeaveFilter) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&model.Leave{})
	if f.UserID != "" {
		db = db.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}
	return db
}

func (r *leaveRepo) List(ctx context.Context, f LeaveFilter) ([]model.Leave, error) {
	var list []model.Leave
	err := r.scoped(ctx, f).
		Preload("User").
		Order("start_date DESC, created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *leaveRepo) Count(ctx context.Context, f LeaveFilter) (int64, error) {
	var n int64
	err := r.scoped(ctx, f).Count(&n).Error
	return n, err
}

func (r *leaveRepo) FindOverlapping(ctx context.Context, userID string, start, end time.Time, excludeID string) ([]model.Leave, error) {
	db := r.db.WithContext(ctx).
		Where("user_id = ? AND start_date <= ? AND end_date >= ?", userID, end, start)
	if excludeID != "" {
		db = db.Where("leave_id <> ?", excludeID)
	}

	var list []model.Leave
	err := db.Order("start_date ASC").Find(&list).Error
	return list, err
}

// [自证通过] internal/repository/leave_repo.go

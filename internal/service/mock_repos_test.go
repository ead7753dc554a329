package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"attendance-leave/backend/internal/model"
	"attendance-leave/backend/internal/repository"
	"attendance-leave/backend/pkg/dateutil"
	pkgerrors "attendance-leave/backend/pkg/errors"
)

// ── 测试辅助 ──

// testToday 单元测试中的“今天”
var testToday = day("2024-06-10")

func day(s string) time.Time {
	t, err := time.Parse(dateutil.Layout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func testClock() dateutil.Clock {
	return dateutil.FixedClock(testToday.Add(9*time.Hour), time.UTC)
}

type testRepos struct {
	repo       *repository.Repository
	users      *mockUserRepo
	attendance *mockAttendanceRepo
	leaves     *mockLeaveRepo
}

func newTestRepos() *testRepos {
	users := newMockUserRepo()
	att := newMockAttendanceRepo(users)
	leaves := newMockLeaveRepo(users)
	return &testRepos{
		repo: &repository.Repository{
			User:       users,
			Attendance: att,
			Leave:      leaves,
		},
		users:      users,
		attendance: att,
		leaves:     leaves,
	}
}

// addUser 直接写入一个用户
func (r *testRepos) addUser(id string, role model.Role) *model.User {
	u := &model.User{
		UserID:   id,
		UserName: "用户-" + id,
		Email:    id + "@example.com",
		Role:     role,
	}
	_ = r.users.Create(context.Background(), u)
	return u
}

// addAttendance 直接写入一条考勤
func (r *testRepos) addAttendance(userID, date string, status model.AttendanceStatus) *model.Attendance {
	a := &model.Attendance{UserID: userID, Date: day(date), Status: status}
	if err := r.attendance.Create(context.Background(), a); err != nil {
		panic(err)
	}
	return a
}

var nopLogger = zap.NewNop()

// ── Mock UserRepository ──

type mockUserRepo struct {
	users   map[string]*model.User // key: user_id
	listErr error
	seq     int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%d", m.seq)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.User, error) {
	return m.GetByID(ctx, id)
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	cp := *user
	m.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) List(_ context.Context, f repository.UserFilter) ([]model.User, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	result := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserName < result[j].UserName })
	return result, nil
}

func (m *mockUserRepo) ListByIDs(_ context.Context, ids []string) ([]model.User, error) {
	var result []model.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			result = append(result, *u)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserName < result[j].UserName })
	return result, nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	records map[string]*model.Attendance // key: attendance_id
	users   *mockUserRepo
	seq     int

	// upsertErr 指定用户的 UpsertDays 返回错误
	upsertErr map[string]error
}

func newMockAttendanceRepo(users *mockUserRepo) *mockAttendanceRepo {
	return &mockAttendanceRepo{
		records:   make(map[string]*model.Attendance),
		users:     users,
		upsertErr: make(map[string]error),
	}
}

func (m *mockAttendanceRepo) find(userID string, d time.Time) *model.Attendance {
	for _, a := range m.records {
		if a.UserID == userID && a.Date.Equal(d) {
			return a
		}
	}
	return nil
}

func (m *mockAttendanceRepo) withUser(a model.Attendance) model.Attendance {
	if u, ok := m.users.users[a.UserID]; ok {
		cp := *u
		a.User = &cp
	}
	return a
}

func (m *mockAttendanceRepo) Create(_ context.Context, a *model.Attendance) error {
	if m.find(a.UserID, a.Date) != nil {
		return gorm.ErrDuplicatedKey
	}
	if a.AttendanceID == "" {
		m.seq++
		a.AttendanceID = fmt.Sprintf("att-%d", m.seq)
	}
	cp := *a
	m.records[a.AttendanceID] = &cp
	return nil
}

func (m *mockAttendanceRepo) GetByID(_ context.Context, id string) (*model.Attendance, error) {
	if a, ok := m.records[id]; ok {
		cp := m.withUser(*a)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) GetByUserAndDate(_ context.Context, userID string, d time.Time) (*model.Attendance, error) {
	if a := m.find(userID, d); a != nil {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) Update(_ context.Context, a *model.Attendance) error {
	if other := m.find(a.UserID, a.Date); other != nil && other.AttendanceID != a.AttendanceID {
		return gorm.ErrDuplicatedKey
	}
	cp := *a
	cp.User = nil
	m.records[a.AttendanceID] = &cp
	return nil
}

func (m *mockAttendanceRepo) Delete(_ context.Context, id string) error {
	delete(m.records, id)
	return nil
}

func (m *mockAttendanceRepo) match(a *model.Attendance, f repository.AttendanceFilter) bool {
	if len(f.UserIDs) > 0 {
		found := false
		for _, id := range f.UserIDs {
			if a.UserID == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Start != nil && a.Date.Before(*f.Start) {
		return false
	}
	if f.End != nil && a.Date.After(*f.End) {
		return false
	}
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	return true
}

func (m *mockAttendanceRepo) List(_ context.Context, f repository.AttendanceFilter) ([]model.Attendance, error) {
	var result []model.Attendance
	for _, a := range m.records {
		if m.match(a, f) {
			result = append(result, m.withUser(*a))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if f.Ascending {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].Date.After(result[j].Date)
	})
	if f.Limit > 0 && len(result) > f.Limit {
		result = result[:f.Limit]
	}
	return result, nil
}

func (m *mockAttendanceRepo) Count(_ context.Context, f repository.AttendanceFilter) (int64, error) {
	var n int64
	for _, a := range m.records {
		if m.match(a, f) {
			n++
		}
	}
	return n, nil
}

func (m *mockAttendanceRepo) UpsertDays(ctx context.Context, userID string, days []time.Time, status model.AttendanceStatus) (int64, error) {
	if err := m.upsertErr[userID]; err != nil {
		return 0, err
	}
	var n int64
	for _, d := range days {
		if m.find(userID, d) != nil {
			continue
		}
		if err := m.Create(ctx, &model.Attendance{UserID: userID, Date: d, Status: status}); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (m *mockAttendanceRepo) DeleteByUserAndDays(_ context.Context, userID string, days []time.Time) (int64, error) {
	var n int64
	for _, d := range days {
		if a := m.find(userID, d); a != nil {
			delete(m.records, a.AttendanceID)
			n++
		}
	}
	return n, nil
}

func (m *mockAttendanceRepo) SetStatusInRange(_ context.Context, userID string, start, end time.Time, status model.AttendanceStatus) (int64, error) {
	var n int64
	for _, a := range m.records {
		if a.UserID == userID && !a.Date.Before(start) && !a.Date.After(end) {
			a.Status = status
			n++
		}
	}
	return n, nil
}

// statusOn 测试断言：某天的考勤状态，无记录时返回空
func (m *mockAttendanceRepo) statusOn(userID, date string) model.AttendanceStatus {
	if a := m.find(userID, day(date)); a != nil {
		return a.Status
	}
	return ""
}

// ── Mock LeaveRepository ──

type mockLeaveRepo struct {
	leaves map[string]*model.Leave // key: leave_id
	users  *mockUserRepo
	seq    int
}

func newMockLeaveRepo(users *mockUserRepo) *mockLeaveRepo {
	return &mockLeaveRepo{leaves: make(map[string]*model.Leave), users: users}
}

func (m *mockLeaveRepo) Create(_ context.Context, leave *model.Leave) error {
	if leave.LeaveID == "" {
		m.seq++
		leave.LeaveID = fmt.Sprintf("leave-%d", m.seq)
	}
	if leave.Version == 0 {
		leave.Version = 1
	}
	cp := *leave
	m.leaves[leave.LeaveID] = &cp
	return nil
}

func (m *mockLeaveRepo) GetByID(_ context.Context, id string) (*model.Leave, error) {
	if l, ok := m.leaves[id]; ok {
		cp := *l
		if u, ok := m.users.users[l.UserID]; ok {
			uc := *u
			cp.User = &uc
		}
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLeaveRepo) Update(_ context.Context, leave *model.Leave) error {
	stored, ok := m.leaves[leave.LeaveID]
	if !ok || stored.Version != leave.Version {
		return pkgerrors.ErrOptimisticLock
	}
	leave.Version++
	cp := *leave
	cp.User = nil
	m.leaves[leave.LeaveID] = &cp
	return nil
}

func (m *mockLeaveRepo) Delete(_ context.Context, id string) error {
	delete(m.leaves, id)
	return nil
}

func (m *mockLeaveRepo) List(_ context.Context, f repository.LeaveFilter) ([]model.Leave, error) {
	var result []model.Leave
	for _, l := range m.leaves {
		if f.UserID != "" && l.UserID != f.UserID {
			continue
		}
		if f.Status != "" && l.Status != f.Status {
			continue
		}
		result = append(result, *l)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartDate.After(result[j].StartDate) })
	return result, nil
}

func (m *mockLeaveRepo) Count(ctx context.Context, f repository.LeaveFilter) (int64, error) {
	list, _ := m.List(ctx, f)
	return int64(len(list)), nil
}

func (m *mockLeaveRepo) FindOverlapping(_ context.Context, userID string, start, end time.Time, excludeID string) ([]model.Leave, error) {
	var result []model.Leave
	for _, l := range m.leaves {
		if l.UserID != userID || l.LeaveID == excludeID {
			continue
		}
		if dateutil.Overlaps(l.StartDate, l.EndDate, start, end) {
			result = append(result, *l)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartDate.Before(result[j].StartDate) })
	return result, nil
}

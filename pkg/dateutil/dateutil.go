// Package dateutil 处理“自然日”粒度的日期。
//
// 自然日统一表示为该日期 00:00 UTC 的 time.Time，与 PostgreSQL date 列的读写保持一致；
// “今天”由业务时区决定。
package dateutil

import (
	"strings"
	"time"

	"github.com/Azure/go-autorest/autorest/date"
)

// Layout 对外统一的日期格式
const Layout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// Day 将任意时刻按 loc 截断为自然日
func Day(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Parse 解析 YYYY-MM-DD，兼容 RFC3339 时间戳（按 loc 截断）
func Parse(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	d, err := date.ParseDate(s)
	if err == nil {
		return d.Time, nil
	}
	ts, tsErr := time.Parse(time.RFC3339, s)
	if tsErr != nil {
		return time.Time{}, err
	}
	return Day(ts, loc), nil
}

// Format 输出 YYYY-MM-DD
func Format(day time.Time) string {
	return day.Format(Layout)
}

// Range 返回闭区间 [start, end] 内的每一天；start 晚于 end 时返回空
func Range(start, end time.Time) []time.Time {
	if start.After(end) {
		return nil
	}
	days := make([]time.Time, 0, DayCount(start, end))
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// DayCount 闭区间 [start, end] 的天数，不分配切片；start 晚于 end 时为 0
// 按 Unix 秒计算，跨度超过 time.Duration 上限（约 292 年）时仍然准确
func DayCount(start, end time.Time) int {
	if start.After(end) {
		return 0
	}
	return int((end.Unix()-start.Unix())/secondsPerDay) + 1
}

// Overlaps 闭区间 [s1,e1] 与 [s2,e2] 是否至少共享一天
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return !s1.After(e2) && !s2.After(e1)
}

// MonthBounds 返回 day 所在自然月的第一天与最后一天
func MonthBounds(day time.Time) (time.Time, time.Time) {
	first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}

// Difference 返回 a 中不在 b 里的日期，保持 a 的顺序
func Difference(a, b []time.Time) []time.Time {
	seen := make(map[string]struct{}, len(b))
	for _, d := range b {
		seen[Format(d)] = struct{}{}
	}
	out := make([]time.Time, 0, len(a))
	for _, d := range a {
		if _, ok := seen[Format(d)]; !ok {
			out = append(out, d)
		}
	}
	return out
}

// Clock 按业务时区给出“今天”，测试中可替换 Now
type Clock struct {
	Location *time.Location
	Now      func() time.Time
}

// NewClock 创建使用系统时间的 Clock
func NewClock(loc *time.Location) Clock {
	return Clock{Location: loc, Now: time.Now}
}

// FixedClock 固定在某一时刻的 Clock
func FixedClock(t time.Time, loc *time.Location) Clock {
	return Clock{Location: loc, Now: func() time.Time { return t }}
}

// Instant 当前时刻
func (c Clock) Instant() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Today 当前业务时区下的自然日
func (c Clock) Today() time.Time {
	return Day(c.Instant(), c.Location)
}

// CurrentMonth 当前自然月的起止日
func (c Clock) CurrentMonth() (time.Time, time.Time) {
	return MonthBounds(c.Today())
}

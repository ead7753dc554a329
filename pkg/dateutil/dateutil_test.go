package dateutil

import (
	"testing"
	"time"
)

func d(s string) time.Time {
	t, err := time.Parse(Layout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestParse(t *testing.T) {
	got, err := Parse("2024-06-10", time.UTC)
	if err != nil {
		t.Fatalf("Parse 应成功: %v", err)
	}
	if !got.Equal(d("2024-06-10")) {
		t.Errorf("期望 2024-06-10，实际=%s", got)
	}

	// RFC3339 按业务时区截断：UTC 16:30 在上海已是次日
	sh, _ := time.LoadLocation("Asia/Shanghai")
	got, err = Parse("2024-06-10T16:30:00Z", sh)
	if err != nil {
		t.Fatalf("Parse RFC3339 应成功: %v", err)
	}
	if !got.Equal(d("2024-06-11")) {
		t.Errorf("期望 2024-06-11，实际=%s", Format(got))
	}

	if _, err := Parse("not-a-date", time.UTC); err == nil {
		t.Error("期望非法日期解析失败")
	}
}

func TestRange(t *testing.T) {
	days := Range(d("2024-06-29"), d("2024-07-02"))
	if len(days) != 4 {
		t.Fatalf("期望 4 天，实际=%d", len(days))
	}
	if Format(days[2]) != "2024-07-01" {
		t.Errorf("跨月第三天应为 2024-07-01，实际=%s", Format(days[2]))
	}
	if Range(d("2024-06-02"), d("2024-06-01")) != nil {
		t.Error("start 晚于 end 时应返回空")
	}
	if len(Range(d("2024-06-01"), d("2024-06-01"))) != 1 {
		t.Error("单日区间应返回 1 天")
	}
}

func TestDayCount(t *testing.T) {
	tests := []struct {
		start, end string
		want       int
	}{
		{"2024-06-01", "2024-06-01", 1},
		{"2024-06-29", "2024-07-02", 4},
		{"2024-02-28", "2024-03-01", 3},
		{"2024-06-02", "2024-06-01", 0},
		// 超出 time.Duration 表示范围的跨度
		{"2030-01-01", "9999-12-31", 2910982},
	}
	for _, tt := range tests {
		if got := DayCount(d(tt.start), d(tt.end)); got != tt.want {
			t.Errorf("DayCount(%s, %s) = %d，期望 %d", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name           string
		s1, e1, s2, e2 string
		want           bool
	}{
		{"相离", "2024-06-01", "2024-06-03", "2024-06-04", "2024-06-05", false},
		{"端点相接", "2024-06-01", "2024-06-03", "2024-06-03", "2024-06-05", true},
		{"包含", "2024-06-01", "2024-06-10", "2024-06-04", "2024-06-04", true},
		{"被包含", "2024-06-04", "2024-06-04", "2024-06-01", "2024-06-10", true},
		{"前置相离", "2024-06-05", "2024-06-06", "2024-06-01", "2024-06-04", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Overlaps(d(tc.s1), d(tc.e1), d(tc.s2), d(tc.e2))
			if got != tc.want {
				t.Errorf("期望 %v，实际 %v", tc.want, got)
			}
		})
	}
}

func TestMonthBounds(t *testing.T) {
	first, last := MonthBounds(d("2024-02-15"))
	if Format(first) != "2024-02-01" || Format(last) != "2024-02-29" {
		t.Errorf("闰年二月边界错误: %s ~ %s", Format(first), Format(last))
	}
}

func TestDifference(t *testing.T) {
	a := Range(d("2024-06-10"), d("2024-06-14"))
	b := Range(d("2024-06-12"), d("2024-06-20"))
	diff := Difference(a, b)
	if len(diff) != 2 || Format(diff[0]) != "2024-06-10" || Format(diff[1]) != "2024-06-11" {
		t.Errorf("差集错误: %v", diff)
	}
}

func TestClock_Today(t *testing.T) {
	ny, _ := time.LoadLocation("America/New_York")
	// 2024-06-10 02:00 UTC 在纽约仍是 6 月 9 日
	c := FixedClock(time.Date(2024, 6, 10, 2, 0, 0, 0, time.UTC), ny)
	if Format(c.Today()) != "2024-06-09" {
		t.Errorf("期望 2024-06-09，实际=%s", Format(c.Today()))
	}
	first, last := c.CurrentMonth()
	if Format(first) != "2024-06-01" || Format(last) != "2024-06-30" {
		t.Errorf("当月边界错误: %s ~ %s", Format(first), Format(last))
	}
}

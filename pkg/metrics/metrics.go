// Package metrics 注册进程内的 Prometheus 指标，由 /metrics 暴露
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "attendance_leave"

var (
	// SweepRuns 每日缺勤补录执行次数，result: ok / partial / skipped / failed
	SweepRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sweep_runs_total",
		Help:      "Daily absence sweep runs by result.",
	}, []string{"result"})

	// SweepCreated 补录生成的缺勤记录数
	SweepCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sweep_absences_created_total",
		Help:      "Absent records created by the daily sweep.",
	})

	// LeaveRequests 请假申请结果，result: accepted / overlap / quota / invalid
	LeaveRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "leave_requests_total",
		Help:      "Leave applications by outcome.",
	}, []string{"result"})

	// LeaveDecisions 审批结果
	LeaveDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "leave_decisions_total",
		Help:      "Leave decisions by resulting status.",
	}, []string{"status"})

	// HTTPDuration 接口耗时
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Package metrics 进程内 prometheus 指标
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActionsTotal 动态记录结果：recorded / suppressed
	ActionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookmarks",
		Name:      "actions_total",
		Help:      "Action record attempts by verb and result.",
	}, []string{"verb", "result"})

	// ImageViewsTotal 详情页浏览次数
	ImageViewsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bookmarks",
		Name:      "image_views_total",
		Help:      "Image detail views counted in the ranking store.",
	})

	// RankingErrorsTotal 排行存储失败次数
	RankingErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookmarks",
		Name:      "ranking_errors_total",
		Help:      "Ranking store failures by operation.",
	}, []string{"op"})

	// HTTPRequestDuration 请求耗时
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bookmarks",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

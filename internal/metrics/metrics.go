// Package metrics 定义备份运行的 Prometheus 指标
// 指标由私有监听的 /metrics 端点暴露
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RunsFinished 按终态统计的运行总数
	RunsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "media_backup",
		Name:      "runs_finished_total",
		Help:      "Total finished backup runs by terminal status.",
	}, []string{"status"})

	// RunDuration 运行耗时分布
	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "media_backup",
		Name:      "run_duration_seconds",
		Help:      "Backup run duration in seconds.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
	})

	// MediaUploaded 上传成功的媒体项总数
	MediaUploaded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "media_backup",
		Name:      "media_uploaded_total",
		Help:      "Total media items uploaded successfully.",
	})

	// MediaSkipped 去重跳过的媒体项总数
	MediaSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "media_backup",
		Name:      "media_skipped_total",
		Help:      "Total media items skipped as already backed up.",
	})

	// BytesUploaded 上传字节总数
	BytesUploaded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "media_backup",
		Name:      "bytes_uploaded_total",
		Help:      "Total bytes uploaded to SMB shares.",
	})

	// UploadFailures 按失败分类统计的上传失败总数
	UploadFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "media_backup",
		Name:      "upload_failures_total",
		Help:      "Total media item upload failures by category.",
	}, []string{"category"})
)

// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tunestream"

var (
	// CacheOperationsTotal tracks cache operations.
	// Labels:
	//   - operation: get, set, clear
	//   - status: hit, miss, corrupt, success, error
	//   - backend: filesystem, redis
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Total number of cache operations",
		},
		[]string{"operation", "status", "backend"},
	)

	// ResolutionsTotal tracks query resolutions.
	// Labels:
	//   - mode: fast, direct
	//   - outcome: success, error
	ResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "Total number of query resolutions",
		},
		[]string{"mode", "outcome"},
	)

	// ResolutionDuration tracks time from query to provisional result.
	ResolutionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "resolution_duration_seconds",
			Help:      "Time taken to resolve a query to a candidate",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"mode"},
	)

	// ExtractionQueueDepth tracks extraction tasks queued or running.
	ExtractionQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "extraction_queue_depth",
			Help:      "Number of extraction tasks queued or in flight",
		},
	)

	// SingleflightRequestsTotal tracks singleflight behavior.
	// Labels:
	//   - result: initiated (new execution), shared (reused result)
	SingleflightRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "singleflight_requests_total",
			Help:      "Total number of singleflight requests",
		},
		[]string{"result"},
	)
)

// Cache operation status constants.
const (
	CacheStatusHit     = "hit"
	CacheStatusMiss    = "miss"
	CacheStatusCorrupt = "corrupt"
	CacheStatusSuccess = "success"
	CacheStatusError   = "error"
)

// Cache operation type constants.
const (
	CacheOpGet   = "get"
	CacheOpSet   = "set"
	CacheOpClear = "clear"
)

// Cache backend constants.
const (
	CacheBackendFilesystem = "filesystem"
	CacheBackendRedis      = "redis"
)

// Resolution mode constants.
const (
	ResolutionModeFast   = "fast"
	ResolutionModeDirect = "direct"
)

// Resolution outcome constants.
const (
	ResolutionOutcomeSuccess = "success"
	ResolutionOutcomeError   = "error"
)

// Singleflight result constants.
const (
	SingleflightInitiated = "initiated"
	SingleflightShared    = "shared"
)

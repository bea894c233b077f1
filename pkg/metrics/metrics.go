// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-aes.
//
// go-aes is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

// Package metrics provides Prometheus instrumentation for go-aes cipher
// operations: counters and latency histograms per operation and mode,
// error counters by error type, and process resource gauges. The core
// cipher packages never touch this package; callers that orchestrate
// operations (the CLI, embedding services) record into it.
package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// Namespace is the Prometheus namespace for all go-aes metrics
	Namespace = "aes"

	// Label names
	LabelOperation = "operation"
	LabelMode      = "mode"
	LabelStatus    = "status"
	LabelErrorType = "error_type"

	// Status values
	StatusSuccess = "success"
	StatusError   = "error"

	// Operation names
	OpEncrypt  = "encrypt"
	OpDecrypt  = "decrypt"
	OpWrap     = "wrap"
	OpUnwrap   = "unwrap"
	OpSelftest = "selftest"

	// Mode values
	ModeECB    = "ecb"
	ModeCBC    = "cbc"
	ModeCTR    = "ctr"
	ModeGCM    = "gcm"
	ModeGCMSIV = "gcm-siv"
	ModeKW     = "kw"
	ModeKWP    = "kwp"
)

var (
	// OperationsTotal counts cipher operations by type, mode and status.
	// Use RecordOperation to increment it with consistent labels.
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "operations_total",
			Help:      "Total number of cipher operations by type, mode, and status",
		},
		[]string{LabelOperation, LabelMode, LabelStatus},
	)

	// OperationDuration tracks operation latency in seconds. Buckets
	// start at a microsecond; in-memory cipher calls sit well below the
	// network-service ranges.
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of cipher operations in seconds",
			Buckets:   []float64{1e-6, 1e-5, 1e-4, .001, .01, .05, .1, .5, 1, 2.5},
		},
		[]string{LabelOperation, LabelMode},
	)

	// BytesProcessedTotal counts plaintext or key-data bytes pushed
	// through each operation and mode.
	BytesProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "bytes_processed_total",
			Help:      "Total bytes processed by operation and mode",
		},
		[]string{LabelOperation, LabelMode},
	)

	// ErrorsTotal counts failures by operation, mode and error type.
	// Error types should be specific (e.g. "authentication_failed",
	// "invalid_padding", "nonce_reuse").
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "errors_total",
			Help:      "Total number of errors by operation, mode, and error type",
		},
		[]string{LabelOperation, LabelMode, LabelErrorType},
	)

	// SessionUsagePercent reports how much of an AEAD session's per-key
	// volume budget is consumed, by mode.
	SessionUsagePercent = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "session_usage_percent",
			Help:      "Percentage of the per-key volume budget consumed by AEAD sessions",
		},
		[]string{LabelMode},
	)

	// Goroutines tracks the current number of goroutines.
	// Updated periodically by the resource collector.
	Goroutines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "goroutines",
			Help:      "Current number of goroutines",
		},
	)

	// MemoryAllocBytes tracks the current bytes of allocated heap objects.
	// Updated periodically by the resource collector.
	MemoryAllocBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "memory_alloc_bytes",
			Help:      "Current bytes of allocated heap objects",
		},
	)

	// MemorySysBytes tracks the total bytes of memory obtained from the OS.
	// Updated periodically by the resource collector.
	MemorySysBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "memory_sys_bytes",
			Help:      "Total bytes of memory obtained from the OS",
		},
	)

	// GCPauseTotalSeconds tracks the cumulative time spent in GC
	// stop-the-world pauses. Updated periodically by the resource
	// collector.
	GCPauseTotalSeconds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "gc_pause_total_seconds",
			Help:      "Cumulative time spent in GC stop-the-world pauses",
		},
	)

	// ProcessUptime tracks seconds since the collector started.
	ProcessUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "process_uptime_seconds",
			Help:      "Process uptime in seconds since collector startup",
		},
	)

	// enabled tracks whether metrics collection is enabled
	enabled atomic.Bool
)

func init() {
	// Metrics are enabled by default
	enabled.Store(true)
}

// RecordOperation records one cipher operation with its latency and the
// number of bytes it processed.
//
// Parameters:
//   - operation: the operation name (use Op* constants)
//   - mode: the cipher mode (use Mode* constants)
//   - status: the outcome (use Status* constants)
//   - duration: the operation duration in seconds
//   - bytes: plaintext or key-data bytes processed
//
// Example:
//
//	start := time.Now()
//	sealed, err := session.Seal(nonce, aad, plaintext)
//	status := metrics.StatusSuccess
//	if err != nil {
//	    status = metrics.StatusError
//	}
//	metrics.RecordOperation(metrics.OpEncrypt, metrics.ModeGCM, status,
//	    time.Since(start).Seconds(), len(plaintext))
func RecordOperation(operation, mode, status string, duration float64, bytes int) {
	if !enabled.Load() {
		return
	}
	OperationsTotal.WithLabelValues(operation, mode, status).Inc()
	OperationDuration.WithLabelValues(operation, mode).Observe(duration)
	if bytes > 0 {
		BytesProcessedTotal.WithLabelValues(operation, mode).Add(float64(bytes))
	}
}

// RecordError records a failure with context about where it occurred.
//
// Parameters:
//   - operation: the operation during which the error occurred
//   - mode: the cipher mode in use
//   - errorType: a stable identifier such as "authentication_failed"
func RecordError(operation, mode, errorType string) {
	if !enabled.Load() {
		return
	}
	ErrorsTotal.WithLabelValues(operation, mode, errorType).Inc()
}

// SetSessionUsage publishes the volume-budget consumption of an AEAD
// session, 0.0 to 100.0.
func SetSessionUsage(mode string, percent float64) {
	if !enabled.Load() {
		return
	}
	SessionUsagePercent.WithLabelValues(mode).Set(percent)
}

// Enable enables metrics collection.
func Enable() {
	enabled.Store(true)
}

// Disable disables metrics collection.
// Useful for testing or when metrics are not desired.
func Disable() {
	enabled.Store(false)
}

// IsEnabled returns whether metrics collection is currently enabled.
func IsEnabled() bool {
	return enabled.Load()
}

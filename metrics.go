package authflow

import "sync/atomic"

// MetricID names one controller counter.
type MetricID uint16

const (
	// MetricRegisterSubmit counts register submissions reaching the wire.
	MetricRegisterSubmit MetricID = iota
	// MetricRegisterSuccess counts accepted registrations.
	MetricRegisterSuccess
	// MetricRegisterFailure counts registrations the server rejected.
	MetricRegisterFailure
	// MetricOTPSubmit counts OTP submissions reaching the wire.
	MetricOTPSubmit
	// MetricOTPSuccess counts accepted OTP verifications.
	MetricOTPSuccess
	// MetricOTPFailure counts OTP codes the server rejected.
	MetricOTPFailure
	// MetricOTPCancelled counts OTP dialogs the user abandoned.
	MetricOTPCancelled
	// MetricLoginSubmit counts intercepted login submissions.
	MetricLoginSubmit
	// MetricLoginSuccess counts stored session tokens.
	MetricLoginSuccess
	// MetricLoginFailure counts rejected logins.
	MetricLoginFailure
	// MetricRecoveryRequest counts forgot-password requests reaching the
	// wire.
	MetricRecoveryRequest
	// MetricRecoveryFailure counts forgot-password requests the server
	// rejected.
	MetricRecoveryFailure
	// MetricResetSuccess counts accepted password resets.
	MetricResetSuccess
	// MetricResetFailure counts rejected password resets.
	MetricResetFailure
	// MetricValidationRejected counts submissions blocked by local rules.
	MetricValidationRejected
	// MetricSubmissionBlocked counts submissions rejected by the in-flight
	// guard.
	MetricSubmissionBlocked
	// MetricTransportFailure counts network-level call failures.
	MetricTransportFailure

	metricIDCount
)

// Metrics is an in-process counter registry. All operations are atomic and
// nil-safe; a disabled registry is free.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]uint64
}

// MetricsSnapshot is a point-in-time copy of every counter.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// NewMetrics returns a registry honoring cfg.Enabled.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Enabled reports whether counting is on.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// Inc increments one counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id], 1)
}

// Value reads one counter.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id])
}

// Snapshot copies every counter. A disabled registry snapshots empty.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	s := MetricsSnapshot{Counters: make(map[MetricID]uint64, int(metricIDCount))}
	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id])
	}
	return s
}

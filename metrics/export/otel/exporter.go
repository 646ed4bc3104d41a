// Package otel exports the controller's counter snapshot through
// OpenTelemetry observable instruments. Counters are read lazily on each
// collection cycle; the exporter never blocks the flows.
package otel

import (
	"context"
	"errors"
	"fmt"

	"github.com/ldtran/authflow"
	"go.opentelemetry.io/otel/metric"
)

var (
	// ErrNilMeter is returned when no meter is supplied.
	ErrNilMeter = errors.New("nil meter")
	// ErrNilSource is returned when no metrics source is supplied.
	ErrNilSource = errors.New("nil metrics source")
)

// metricsSource is the controller-shaped read surface the exporter observes.
type metricsSource interface {
	MetricsSnapshot() authflow.MetricsSnapshot
	EventsDropped() uint64
}

type counterDef struct {
	id   authflow.MetricID
	name string
	help string
}

var counterDefs = []counterDef{
	{authflow.MetricRegisterSubmit, "authflow_register_submit_total", "Register submissions reaching the wire."},
	{authflow.MetricRegisterSuccess, "authflow_register_success_total", "Registrations the server accepted."},
	{authflow.MetricRegisterFailure, "authflow_register_failure_total", "Registrations the server rejected."},
	{authflow.MetricOTPSubmit, "authflow_otp_submit_total", "OTP submissions reaching the wire."},
	{authflow.MetricOTPSuccess, "authflow_otp_success_total", "OTP verifications the server accepted."},
	{authflow.MetricOTPFailure, "authflow_otp_failure_total", "OTP codes the server rejected."},
	{authflow.MetricOTPCancelled, "authflow_otp_cancelled_total", "OTP dialogs abandoned by the user."},
	{authflow.MetricLoginSubmit, "authflow_login_submit_total", "Intercepted login submissions."},
	{authflow.MetricLoginSuccess, "authflow_login_success_total", "Logins that stored a session token."},
	{authflow.MetricLoginFailure, "authflow_login_failure_total", "Logins the server rejected."},
	{authflow.MetricRecoveryRequest, "authflow_recovery_request_total", "Forgot-password requests reaching the wire."},
	{authflow.MetricRecoveryFailure, "authflow_recovery_failure_total", "Forgot-password requests the server rejected."},
	{authflow.MetricResetSuccess, "authflow_reset_success_total", "Password resets the server accepted."},
	{authflow.MetricResetFailure, "authflow_reset_failure_total", "Password resets the server rejected."},
	{authflow.MetricValidationRejected, "authflow_validation_rejected_total", "Submissions blocked by local rules."},
	{authflow.MetricSubmissionBlocked, "authflow_submission_blocked_total", "Submissions rejected by the in-flight guard."},
	{authflow.MetricTransportFailure, "authflow_transport_failure_total", "Network-level call failures."},
}

type observedCounter struct {
	id         authflow.MetricID
	instrument metric.Int64ObservableCounter
}

// Exporter registers the controller counters as observable instruments on a
// meter.
type Exporter struct {
	source        metricsSource
	registration  metric.Registration
	counters      []observedCounter
	eventsDropped metric.Int64ObservableCounter
}

// NewExporter wires a controller into meter.
func NewExporter(meter metric.Meter, controller *authflow.Controller) (*Exporter, error) {
	return NewExporterFromSource(meter, controller)
}

// NewExporterFromSource wires any snapshot source into meter.
func NewExporterFromSource(meter metric.Meter, source metricsSource) (*Exporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	exporter := &Exporter{
		source:   source,
		counters: make([]observedCounter, 0, len(counterDefs)),
	}

	observables := make([]metric.Observable, 0, len(counterDefs)+1)

	for _, def := range counterDefs {
		ins, err := meter.Int64ObservableCounter(def.name, metric.WithDescription(def.help))
		if err != nil {
			return nil, fmt.Errorf("create observable counter %s: %w", def.name, err)
		}
		exporter.counters = append(exporter.counters, observedCounter{id: def.id, instrument: ins})
		observables = append(observables, ins)
	}

	eventsDropped, err := meter.Int64ObservableCounter(
		"authflow_events_dropped_total",
		metric.WithDescription("Flow events shed by the dispatcher under backpressure."),
	)
	if err != nil {
		return nil, fmt.Errorf("create events dropped counter: %w", err)
	}
	exporter.eventsDropped = eventsDropped
	observables = append(observables, eventsDropped)

	registration, err := meter.RegisterCallback(func(_ context.Context, observer metric.Observer) error {
		snapshot := exporter.source.MetricsSnapshot()
		for _, c := range exporter.counters {
			observer.ObserveInt64(c.instrument, int64(snapshot.Counters[c.id]))
		}
		observer.ObserveInt64(exporter.eventsDropped, int64(exporter.source.EventsDropped()))
		return nil
	}, observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}
	exporter.registration = registration

	return exporter, nil
}

// Close unregisters the collection callback.
func (e *Exporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}

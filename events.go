package authflow

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

// FlowEvent records one observable step of a flow: a state transition, an
// accepted or rejected submission, or a dismissal.
type FlowEvent struct {
	Timestamp time.Time `json:"timestamp"`
	EventType string    `json:"event_type"`
	Email     string    `json:"email,omitempty"`
	From      string    `json:"from,omitempty"`
	To        string    `json:"to,omitempty"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
	Message   string    `json:"message,omitempty"`
}

// Event type names emitted by the controller.
const (
	EventStateChanged      = "state_changed"
	EventRegisterRejected  = "register_rejected"
	EventRegisterAccepted  = "register_accepted"
	EventRegisterFailed    = "register_failed"
	EventOTPRejected       = "otp_rejected"
	EventOTPVerified       = "otp_verified"
	EventOTPFailed         = "otp_failed"
	EventOTPCancelled      = "otp_cancelled"
	EventLoginSucceeded    = "login_succeeded"
	EventLoginFailed       = "login_failed"
	EventRecoveryStarted   = "recovery_started"
	EventRecoveryAccepted  = "recovery_email_accepted"
	EventRecoveryFailed    = "recovery_email_failed"
	EventResetCompleted    = "reset_completed"
	EventResetFailed       = "reset_failed"
	EventDialogReplaced    = "dialog_replaced"
	EventSubmissionBlocked = "submission_blocked"
	EventTransportFailure  = "transport_failure"
)

// EventSink receives flow events. Implementations must tolerate concurrent
// emission from the dispatcher goroutine.
type EventSink interface {
	Emit(ctx context.Context, event FlowEvent)
}

// NoOpSink discards every event.
type NoOpSink struct{}

// Emit implements EventSink.
func (NoOpSink) Emit(context.Context, FlowEvent) {}

// ChannelSink forwards events into a buffered channel, for hosts that consume
// them on their own loop.
type ChannelSink struct {
	events chan FlowEvent
}

// NewChannelSink returns a ChannelSink with the given buffer.
func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{events: make(chan FlowEvent, buffer)}
}

// Emit implements EventSink.
func (s *ChannelSink) Emit(ctx context.Context, event FlowEvent) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

// Events returns the receive side of the sink.
func (s *ChannelSink) Events() <-chan FlowEvent {
	return s.events
}

// JSONWriterSink writes events as JSON lines.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewJSONWriterSink returns a sink writing to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{writer: w}
}

// Emit implements EventSink.
func (s *JSONWriterSink) Emit(_ context.Context, event FlowEvent) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}

package authflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ldtran/authflow/api"
	"github.com/ldtran/authflow/rules"
	"github.com/ldtran/authflow/session"
	"github.com/ldtran/authflow/surface"
)

type formID uint8

const (
	formRegister formID = iota
	formLogin
	formOTP
	formRecoveryEmail
	formReset
	formIDCount
)

func (f formID) String() string {
	switch f {
	case formRegister:
		return "register"
	case formLogin:
		return "login"
	case formOTP:
		return "otp"
	case formRecoveryEmail:
		return "recovery-email"
	default:
		return "reset"
	}
}

// Controller sequences the registration, login, and password recovery flows.
// Instances are configured through [Builder] and treated as immutable apart
// from their flow state.
type Controller struct {
	config  Config
	client  *api.Client
	flash   *surface.Notifier
	modals  *surface.Manager
	views   *surface.ViewToggle
	tokens  session.TokenStore
	nav     Navigator
	metrics *Metrics
	events  *eventDispatcher

	mu        sync.Mutex
	state     FlowState
	challenge *OtpChallenge
	dialog    *surface.Dialog
	pending   [formIDCount]bool

	// seams for tests; production values are set by Build.
	now      func() time.Time
	schedule func(time.Duration, func())
}

// Close shuts down the event dispatcher, draining buffered events. The
// controller must not be used afterwards.
func (c *Controller) Close() {
	if c == nil {
		return
	}
	c.events.Close()
}

// State returns the controller's current step.
func (c *Controller) State() FlowState {
	if c == nil {
		return StateIdle
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Challenge returns a copy of the active OTP challenge, or nil.
func (c *Controller) Challenge() *OtpChallenge {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.challenge == nil {
		return nil
	}
	ch := *c.challenge
	return &ch
}

// Views returns the login/register view toggle.
func (c *Controller) Views() *surface.ViewToggle {
	if c == nil {
		return nil
	}
	return c.views
}

// MetricsSnapshot copies the controller counters.
func (c *Controller) MetricsSnapshot() MetricsSnapshot {
	if c == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return c.metrics.Snapshot()
}

// EventsDropped reports how many flow events the dispatcher shed under
// backpressure.
func (c *Controller) EventsDropped() uint64 {
	if c == nil {
		return 0
	}
	return c.events.Dropped()
}

func (c *Controller) metricInc(id MetricID) {
	if c == nil {
		return
	}
	c.metrics.Inc(id)
}

// begin flips the form's pending flag, rejecting overlapped submissions.
func (c *Controller) begin(f formID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending[f] {
		c.metrics.Inc(MetricSubmissionBlocked)
		c.events.Emit(context.Background(), FlowEvent{
			Timestamp: c.now(),
			EventType: EventSubmissionBlocked,
			Message:   f.String(),
		})
		return ErrSubmissionPending
	}
	c.pending[f] = true
	return nil
}

func (c *Controller) end(f formID) {
	c.mu.Lock()
	c.pending[f] = false
	c.mu.Unlock()
}

// setState transitions the flow state and emits the transition event.
func (c *Controller) setState(to FlowState) {
	c.mu.Lock()
	from := c.state
	c.state = to
	c.mu.Unlock()
	if from == to {
		return
	}
	c.emit(FlowEvent{
		EventType: EventStateChanged,
		From:      from.String(),
		To:        to.String(),
		Success:   true,
	})
}

// attachDialog records a freshly opened dialog and the state and challenge it
// represents.
func (c *Controller) attachDialog(d *surface.Dialog, ch *OtpChallenge, state FlowState) {
	c.mu.Lock()
	from := c.state
	c.dialog = d
	c.challenge = ch
	c.state = state
	c.mu.Unlock()
	if from != state {
		c.emit(FlowEvent{
			EventType: EventStateChanged,
			From:      from.String(),
			To:        state.String(),
			Success:   true,
		})
	}
}

// detachDialog clears flow state when d goes away, unless a newer dialog has
// already taken the slot.
func (c *Controller) detachDialog(d *surface.Dialog) {
	c.mu.Lock()
	if c.dialog != d {
		c.mu.Unlock()
		return
	}
	from := c.state
	c.dialog = nil
	c.challenge = nil
	c.state = StateIdle
	c.mu.Unlock()
	if from != StateIdle {
		c.emit(FlowEvent{
			EventType: EventStateChanged,
			From:      from.String(),
			To:        StateIdle.String(),
			Success:   true,
		})
	}
}

// activeDialog returns the live dialog and challenge, or nils.
func (c *Controller) activeDialog() (*surface.Dialog, *OtpChallenge) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dialog == nil || c.dialog.Closed() || c.challenge == nil {
		return nil, nil
	}
	ch := *c.challenge
	return c.dialog, &ch
}

func (c *Controller) emit(event FlowEvent) {
	if c == nil || c.events == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = c.now()
	}
	c.events.Emit(context.Background(), event)
}

// fallback returns msg unless it is empty, then def.
func fallback(msg, def string) string {
	if msg != "" {
		return msg
	}
	return def
}

// messageForRule maps a rule violation to the configured user-visible string.
func (c *Controller) messageForRule(err error) string {
	msgs := c.config.Messages
	var fe *rules.FieldError
	if !errors.As(err, &fe) {
		return msgs.NetworkFailure
	}
	switch fe.Field {
	case "fullName":
		return msgs.FullNameRequired
	case "email":
		if fe.Code == rules.CodeBadFormat {
			return msgs.EmailMalformed
		}
		return msgs.EmailRequired
	case "otp":
		return msgs.OTPBadLength
	case "confirmPassword":
		return msgs.PasswordMismatch
	default: // password, newPassword
		if fe.Code == rules.CodeTooShort {
			return msgs.PasswordTooShort
		}
		return msgs.PasswordRequired
	}
}

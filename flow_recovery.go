package authflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/ldtran/authflow/rules"
	"github.com/ldtran/authflow/surface"
)

func (c *Controller) recoveryResetFields() []surface.FieldSpec {
	return []surface.FieldSpec{
		{Name: "otp", Kind: surface.FieldText, Placeholder: "OTP code (6 digits)", MaxLen: rules.OTPLength},
		{Name: "newPassword", Kind: surface.FieldPassword, Placeholder: "New password (min 6 characters)"},
		{Name: "confirmPassword", Kind: surface.FieldPassword, Placeholder: "Repeat new password"},
	}
}

// BeginPasswordRecovery opens step 1 of the forgot-password flow, optionally
// prefilled with the email from the login form. Any dialog already open —
// including a register OTP dialog — is replaced; the newer flow wins.
func (c *Controller) BeginPasswordRecovery(prefillEmail string) error {
	if c == nil {
		return ErrControllerNotReady
	}
	c.openRecoveryEmailDialog(strings.TrimSpace(prefillEmail))
	c.emit(FlowEvent{EventType: EventRecoveryStarted, Email: strings.TrimSpace(prefillEmail), Success: true})
	return nil
}

func (c *Controller) openRecoveryEmailDialog(prefillEmail string) {
	msgs := c.config.Messages

	var d *surface.Dialog
	d = c.modals.Open(surface.DialogSpec{
		Title:    msgs.TitleRecovery,
		Subtitle: msgs.SubtitleRecovery,
		Fields: []surface.FieldSpec{
			{Name: "email", Kind: surface.FieldEmail, Placeholder: "Your email", Value: prefillEmail},
		},
		SubmitLabel: "Send OTP",
		Step:        1,
		StepCount:   2,
		OnDismiss: func(reason surface.DismissReason) {
			c.detachDialog(d)
		},
	})

	// Step 1 has no challenge yet: the server has not dispatched a code.
	c.attachDialog(d, nil, StateAwaitingResetEmail)
}

// SubmitRecoveryEmail validates and submits the step-1 email and, when the
// server acknowledges the OTP dispatch, swaps the dialog to step 2.
func (c *Controller) SubmitRecoveryEmail(ctx context.Context, email string) error {
	if c == nil {
		return ErrControllerNotReady
	}

	c.mu.Lock()
	d := c.dialog
	state := c.state
	c.mu.Unlock()
	if d == nil || d.Closed() || state != StateAwaitingResetEmail {
		return ErrNoActiveChallenge
	}
	if err := c.begin(formRecoveryEmail); err != nil {
		return err
	}
	defer c.end(formRecoveryEmail)

	email = strings.TrimSpace(email)
	if err := rules.Email(email); err != nil {
		d.Flash(surface.Flash{Severity: surface.SeverityError, Message: c.config.Messages.EmailRequired})
		c.metricInc(MetricValidationRejected)
		c.emit(FlowEvent{EventType: EventRecoveryFailed, Email: email, Error: err.Error()})
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	d.Flash(surface.Flash{})
	c.metricInc(MetricRecoveryRequest)

	res, err := c.client.ForgotPassword(ctx, email)
	if err != nil {
		d.Flash(surface.Flash{Severity: surface.SeverityError, Message: c.config.Messages.NetworkFailure})
		c.metricInc(MetricTransportFailure)
		c.emit(FlowEvent{EventType: EventTransportFailure, Email: email, Error: err.Error()})
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if !res.Success {
		d.Flash(surface.Flash{Severity: surface.SeverityError, Message: fallback(res.Message, c.config.Messages.RecoveryFailed)})
		c.metricInc(MetricRecoveryFailure)
		c.emit(FlowEvent{EventType: EventRecoveryFailed, Email: email, Message: res.Message})
		return nil
	}

	c.emit(FlowEvent{EventType: EventRecoveryAccepted, Email: email, Success: true, Message: res.Message})
	c.openResetDialog(email)
	return nil
}

func (c *Controller) openResetDialog(email string) {
	ch := &OtpChallenge{Email: email, Purpose: PurposePasswordReset}
	msgs := c.config.Messages

	var d *surface.Dialog
	d = c.modals.Open(surface.DialogSpec{
		Title:       msgs.TitleReset,
		Subtitle:    msgs.SubtitleReset + "\n" + msgs.SubtitleOTPSent + email,
		Fields:      c.recoveryResetFields(),
		SubmitLabel: "Confirm",
		BackLabel:   "Back",
		Step:        2,
		StepCount:   2,
		OnDismiss: func(reason surface.DismissReason) {
			c.detachDialog(d)
		},
	})

	c.attachDialog(d, ch, StateAwaitingResetOTP)
}

// SubmitPasswordReset validates and submits the step-2 form. Pass an empty
// confirm when the host form has no confirmation field. On acceptance the
// dialog shows the confirmation, then closes after the configured delay and
// the login view activates.
func (c *Controller) SubmitPasswordReset(ctx context.Context, otp, newPassword, confirm string) error {
	if c == nil {
		return ErrControllerNotReady
	}
	d, ch := c.activeDialog()
	if ch == nil || ch.Purpose != PurposePasswordReset {
		return ErrNoActiveChallenge
	}
	if err := c.begin(formReset); err != nil {
		return err
	}
	defer c.end(formReset)

	if err := rules.Reset(rules.ResetInput{OTP: otp, NewPassword: newPassword, Confirm: confirm}); err != nil {
		d.Flash(surface.Flash{Severity: surface.SeverityError, Message: c.messageForRule(err)})
		c.metricInc(MetricValidationRejected)
		c.emit(FlowEvent{EventType: EventResetFailed, Email: ch.Email, Error: err.Error()})
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	d.Flash(surface.Flash{})

	res, err := c.client.ResetPassword(ctx, ch.Email, strings.TrimSpace(otp), newPassword)
	if err != nil {
		d.Flash(surface.Flash{Severity: surface.SeverityError, Message: c.config.Messages.NetworkFailure})
		c.metricInc(MetricTransportFailure)
		c.emit(FlowEvent{EventType: EventTransportFailure, Email: ch.Email, Error: err.Error()})
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if !res.Success {
		d.Flash(surface.Flash{Severity: surface.SeverityError, Message: fallback(res.Message, c.config.Messages.ResetFailed)})
		c.metricInc(MetricResetFailure)
		c.emit(FlowEvent{EventType: EventResetFailed, Email: ch.Email, Message: res.Message})
		return nil
	}

	d.Flash(surface.Flash{Severity: surface.SeveritySuccess, Message: c.config.Messages.ResetSuccess})
	c.setState(StateResetDone)
	c.metricInc(MetricResetSuccess)
	c.emit(FlowEvent{EventType: EventResetCompleted, Email: ch.Email, Success: true})

	c.schedule(c.config.OTP.CloseDelay, func() {
		if d.Closed() {
			return
		}
		d.Dismiss(surface.ReasonCompleted)
		c.views.Activate(surface.ViewLogin)
	})
	return nil
}

// BackToRecoveryEmail returns from step 2 to step 1, reusing the challenge
// email as the prefill. The step-2 challenge is destroyed.
func (c *Controller) BackToRecoveryEmail() error {
	if c == nil {
		return ErrControllerNotReady
	}
	_, ch := c.activeDialog()
	if ch == nil || ch.Purpose != PurposePasswordReset {
		return ErrNoActiveChallenge
	}
	c.openRecoveryEmailDialog(ch.Email)
	return nil
}

package authflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/ldtran/authflow/api"
	"github.com/ldtran/authflow/rules"
	"github.com/ldtran/authflow/surface"
)

// SubmitRegistration runs the register flow: local validation, POST
// /register, and on acceptance the OTP verification dialog scoped to the
// submitted email.
//
// Rule violations return an [ErrValidation]-wrapped error after flashing
// inline; server rejections are fully surfaced on the form and return nil;
// transport failures flash the generic network message and return the
// wrapped cause.
func (c *Controller) SubmitRegistration(ctx context.Context, creds Credentials) error {
	if c == nil {
		return ErrControllerNotReady
	}
	if err := c.begin(formRegister); err != nil {
		return err
	}
	defer c.end(formRegister)

	email := strings.TrimSpace(creds.Email)
	fullName := strings.TrimSpace(creds.FullName)

	if err := rules.Registration(rules.RegistrationInput{
		FullName: fullName,
		Email:    email,
		Password: creds.Password,
	}); err != nil {
		c.flash.Error(surface.RegionRegister, c.messageForRule(err))
		c.metricInc(MetricValidationRejected)
		c.emit(FlowEvent{EventType: EventRegisterRejected, Email: email, Error: err.Error()})
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	c.flash.Clear(surface.RegionRegister)
	c.setState(StateRegistering)
	c.metricInc(MetricRegisterSubmit)

	req := api.RegisterRequest{
		Email:    email,
		Password: creds.Password,
		FullName: fullName,
	}
	if phone := strings.TrimSpace(creds.Phone); phone != "" {
		req.Phone = &phone
	}

	res, err := c.client.Register(ctx, req)
	if err != nil {
		c.setState(StateIdle)
		c.flash.Error(surface.RegionRegister, c.config.Messages.NetworkFailure)
		c.metricInc(MetricTransportFailure)
		c.emit(FlowEvent{EventType: EventTransportFailure, Email: email, Error: err.Error()})
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if !res.Success {
		c.setState(StateIdle)
		c.flash.Error(surface.RegionRegister, fallback(res.Message, c.config.Messages.RegisterFailed))
		c.metricInc(MetricRegisterFailure)
		c.emit(FlowEvent{EventType: EventRegisterFailed, Email: email, Message: res.Message})
		return nil
	}

	c.flash.Success(surface.RegionRegister, fallback(res.Message, c.config.Messages.RegisterSent))
	c.metricInc(MetricRegisterSuccess)
	c.emit(FlowEvent{EventType: EventRegisterAccepted, Email: email, Success: true, Message: res.Message})

	c.openRegisterOTPDialog(email)
	return nil
}

func (c *Controller) openRegisterOTPDialog(email string) {
	ch := &OtpChallenge{Email: email, Purpose: PurposeRegisterVerify}
	msgs := c.config.Messages

	var d *surface.Dialog
	d = c.modals.Open(surface.DialogSpec{
		Title:    msgs.TitleVerifyOTP,
		Subtitle: msgs.SubtitleOTPSent + email,
		Fields: []surface.FieldSpec{
			{Name: "otp", Kind: surface.FieldText, Placeholder: "OTP code (6 digits)", MaxLen: rules.OTPLength},
		},
		SubmitLabel: "Verify",
		CancelLabel: "Cancel",
		OnDismiss: func(reason surface.DismissReason) {
			c.registerDialogDismissed(d, ch, reason)
		},
	})

	c.attachDialog(d, ch, StateAwaitingRegisterOTP)
}

func (c *Controller) registerDialogDismissed(d *surface.Dialog, ch *OtpChallenge, reason surface.DismissReason) {
	switch reason {
	case surface.ReasonCompleted:
		// Flow finished; completion already reported.
	case surface.ReasonReplaced:
		c.emit(FlowEvent{EventType: EventDialogReplaced, Email: ch.Email, Message: ch.Purpose.String()})
	default:
		c.metricInc(MetricOTPCancelled)
		c.emit(FlowEvent{EventType: EventOTPCancelled, Email: ch.Email, Message: reason.String()})
	}
	c.detachDialog(d)
}

// SubmitRegisterOTP verifies the code entered into the register OTP dialog.
// On acceptance the dialog shows the confirmation, then closes after the
// configured delay and the login view activates.
func (c *Controller) SubmitRegisterOTP(ctx context.Context, code string) error {
	if c == nil {
		return ErrControllerNotReady
	}
	d, ch := c.activeDialog()
	if ch == nil || ch.Purpose != PurposeRegisterVerify {
		return ErrNoActiveChallenge
	}
	if err := c.begin(formOTP); err != nil {
		return err
	}
	defer c.end(formOTP)

	if err := rules.OTP(code); err != nil {
		d.Flash(surface.Flash{Severity: surface.SeverityError, Message: c.config.Messages.OTPBadLength})
		c.metricInc(MetricValidationRejected)
		c.emit(FlowEvent{EventType: EventOTPRejected, Email: ch.Email, Error: err.Error()})
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	d.Flash(surface.Flash{})
	c.metricInc(MetricOTPSubmit)

	res, err := c.client.VerifyOTP(ctx, ch.Email, strings.TrimSpace(code))
	if err != nil {
		d.Flash(surface.Flash{Severity: surface.SeverityError, Message: c.config.Messages.NetworkFailure})
		c.metricInc(MetricTransportFailure)
		c.emit(FlowEvent{EventType: EventTransportFailure, Email: ch.Email, Error: err.Error()})
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if !res.Success {
		d.Flash(surface.Flash{Severity: surface.SeverityError, Message: fallback(res.Message, c.config.Messages.VerifyFailed)})
		c.metricInc(MetricOTPFailure)
		c.emit(FlowEvent{EventType: EventOTPFailed, Email: ch.Email, Message: res.Message})
		return nil
	}

	d.Flash(surface.Flash{Severity: surface.SeveritySuccess, Message: c.config.Messages.VerifySuccess})
	c.setState(StateVerified)
	c.metricInc(MetricOTPSuccess)
	c.emit(FlowEvent{EventType: EventOTPVerified, Email: ch.Email, Success: true})

	// Leave the confirmation readable, then hand the user to the login view.
	c.schedule(c.config.OTP.CloseDelay, func() {
		if d.Closed() {
			return
		}
		d.Dismiss(surface.ReasonCompleted)
		c.views.Activate(surface.ViewLogin)
	})
	return nil
}

// CancelRegisterOTP aborts the register OTP step without contacting the
// server.
func (c *Controller) CancelRegisterOTP() error {
	if c == nil {
		return ErrControllerNotReady
	}
	d, ch := c.activeDialog()
	if ch == nil || ch.Purpose != PurposeRegisterVerify {
		return ErrNoActiveChallenge
	}
	d.Dismiss(surface.ReasonCancelControl)
	return nil
}

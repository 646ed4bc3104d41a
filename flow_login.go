package authflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/ldtran/authflow/rules"
	"github.com/ldtran/authflow/surface"
)

// SubmitLogin handles a login submission according to the configured
// strategy.
//
// Under [LoginNative] the controller does not intercept at all: it performs
// no I/O and returns [ErrNativeLogin] so the host lets the native form
// submission and redirect proceed.
//
// Under [LoginFetch] the credentials are posted, the returned token is
// written to the token store, and navigation to the home route is scheduled
// after the configured delay.
func (c *Controller) SubmitLogin(ctx context.Context, email, password string) error {
	if c == nil {
		return ErrControllerNotReady
	}
	if c.config.Login.Strategy == LoginNative {
		return ErrNativeLogin
	}
	if err := c.begin(formLogin); err != nil {
		return err
	}
	defer c.end(formLogin)

	email = strings.TrimSpace(email)

	if err := rules.Login(email, password); err != nil {
		c.flash.Error(surface.RegionLogin, c.messageForRule(err))
		c.metricInc(MetricValidationRejected)
		c.emit(FlowEvent{EventType: EventLoginFailed, Email: email, Error: err.Error()})
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	c.flash.Clear(surface.RegionLogin)
	c.setState(StateLoggingIn)
	c.metricInc(MetricLoginSubmit)

	res, payload, err := c.client.Login(ctx, email, password)
	if err != nil {
		c.setState(StateIdle)
		c.flash.Error(surface.RegionLogin, c.config.Messages.NetworkFailure)
		c.metricInc(MetricTransportFailure)
		c.emit(FlowEvent{EventType: EventTransportFailure, Email: email, Error: err.Error()})
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if !res.Success {
		c.setState(StateIdle)
		c.flash.Error(surface.RegionLogin, fallback(res.Message, c.config.Messages.LoginFailed))
		c.metricInc(MetricLoginFailure)
		c.emit(FlowEvent{EventType: EventLoginFailed, Email: email, Message: res.Message})
		return nil
	}
	if payload.Token == "" {
		// A success without a narrowable token is a malformed payload.
		c.setState(StateIdle)
		c.flash.Error(surface.RegionLogin, c.config.Messages.LoginFailed)
		c.metricInc(MetricLoginFailure)
		c.emit(FlowEvent{EventType: EventLoginFailed, Email: email, Error: "missing token in login payload"})
		return nil
	}

	if err := c.tokens.Save(ctx, c.config.Token.StorageKey, payload.Token); err != nil {
		c.setState(StateIdle)
		c.flash.Error(surface.RegionLogin, c.config.Messages.NetworkFailure)
		c.metricInc(MetricLoginFailure)
		c.emit(FlowEvent{EventType: EventLoginFailed, Email: email, Error: err.Error()})
		return fmt.Errorf("%w: %v", ErrTokenStore, err)
	}

	c.flash.Success(surface.RegionLogin, fallback(res.Message, c.config.Messages.LoginSuccess))
	c.setState(StateAuthenticated)
	c.metricInc(MetricLoginSuccess)
	c.emit(FlowEvent{EventType: EventLoginSucceeded, Email: email, Success: true})

	if c.nav != nil {
		route := c.config.Login.HomeRoute
		c.schedule(c.config.Login.RedirectDelay, func() {
			c.nav.Navigate(route)
		})
	}
	return nil
}

package authflow

import "errors"

var (
	// ErrControllerNotReady is returned by operations on a nil or unbuilt
	// controller.
	ErrControllerNotReady = errors.New("controller not initialized")
	// ErrValidation wraps a local rule violation. The violation was surfaced
	// inline and no network call was issued.
	ErrValidation = errors.New("validation failed")
	// ErrSubmissionPending is returned when a form is submitted while its
	// previous submission is still in flight.
	ErrSubmissionPending = errors.New("submission already pending")
	// ErrNativeLogin is returned by SubmitLogin under LoginNative: the host
	// must let the native form submission proceed.
	ErrNativeLogin = errors.New("login uses native form submission")
	// ErrNoActiveChallenge is returned when an OTP submission arrives with no
	// matching challenge, e.g. after the dialog was cancelled or replaced.
	ErrNoActiveChallenge = errors.New("no active otp challenge")
	// ErrTransport wraps network-level failures of the API client.
	ErrTransport = errors.New("network failure")
	// ErrTokenStore wraps failures persisting the session token.
	ErrTokenStore = errors.New("token store failure")
	// ErrRendererRequired is returned by Build when no renderer was supplied.
	ErrRendererRequired = errors.New("surface renderer required")
)

package authflow

// Credentials is the registration form input. Phone is optional; an empty
// string means absent and is transmitted as null.
type Credentials struct {
	Email    string
	Password string
	FullName string
	Phone    string
}

// ChallengePurpose says which flow an OTP challenge belongs to.
type ChallengePurpose uint8

const (
	// PurposeRegisterVerify confirms a fresh registration.
	PurposeRegisterVerify ChallengePurpose = iota
	// PurposePasswordReset authorizes a password reset.
	PurposePasswordReset
)

// String returns a short name for the purpose.
func (p ChallengePurpose) String() string {
	if p == PurposePasswordReset {
		return "password-reset"
	}
	return "register-verify"
}

// OtpChallenge scopes a pending one-time code to the email it was dispatched
// to. A challenge exists only while the server has acknowledged dispatching a
// code and the user has not yet consumed, cancelled, or navigated away from
// it.
type OtpChallenge struct {
	Email   string
	Purpose ChallengePurpose
}

// FlowState is the controller's current step. It lives only in memory.
type FlowState uint8

const (
	// StateIdle means no flow is in progress.
	StateIdle FlowState = iota
	// StateRegistering means a register submission is in flight.
	StateRegistering
	// StateAwaitingRegisterOTP means the register OTP dialog is open.
	StateAwaitingRegisterOTP
	// StateVerified means the register OTP was accepted; transient until the
	// confirmation dialog closes.
	StateVerified
	// StateLoggingIn means an intercepted login submission is in flight.
	StateLoggingIn
	// StateAuthenticated means login succeeded and a token was stored.
	StateAuthenticated
	// StateAwaitingResetEmail means recovery step 1 (email entry) is open.
	StateAwaitingResetEmail
	// StateAwaitingResetOTP means recovery step 2 (OTP + new password) is
	// open.
	StateAwaitingResetOTP
	// StateResetDone means the reset was accepted; transient until the
	// confirmation dialog closes.
	StateResetDone
)

// String returns a short name for the state.
func (s FlowState) String() string {
	switch s {
	case StateRegistering:
		return "registering"
	case StateAwaitingRegisterOTP:
		return "awaiting-register-otp"
	case StateVerified:
		return "verified"
	case StateLoggingIn:
		return "logging-in"
	case StateAuthenticated:
		return "authenticated"
	case StateAwaitingResetEmail:
		return "awaiting-reset-email"
	case StateAwaitingResetOTP:
		return "awaiting-reset-otp"
	case StateResetDone:
		return "reset-done"
	default:
		return "idle"
	}
}

// LoginStrategy selects how login submissions are handled. The two variants
// are mutually exclusive: a native form submission cannot be combined with an
// intercepted one against the same form.
type LoginStrategy uint8

const (
	// LoginFetch intercepts the submission: the controller posts the
	// credentials, stores the returned token, and navigates to the home
	// route after a short delay.
	LoginFetch LoginStrategy = iota
	// LoginNative delegates entirely to the hosting page's native form
	// submission. SubmitLogin performs no I/O and returns ErrNativeLogin.
	LoginNative
)

// Navigator is implemented by the host to perform route changes after a
// successful intercepted login.
type Navigator interface {
	Navigate(route string)
}

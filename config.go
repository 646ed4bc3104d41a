package authflow

import (
	"errors"
	"strings"
	"time"

	"github.com/ldtran/authflow/api"
)

// Config drives a Controller. Zero values fall back to defaults at Build;
// the only mandatory field is API.BaseURL.
type Config struct {
	API     APIConfig
	Login   LoginConfig
	OTP     OTPConfig
	Token   TokenConfig
	Events  EventConfig
	Metrics MetricsConfig

	// Messages are the user-visible strings. Hosts override any subset for
	// localized pages; empty entries fall back to the English defaults.
	Messages MessageConfig
}

// APIConfig locates the remote authentication service.
type APIConfig struct {
	BaseURL string
	Paths   api.Paths // zero entries fall back to api.DefaultPaths
}

// LoginConfig selects the login submission strategy and, for LoginFetch, the
// post-login navigation.
type LoginConfig struct {
	Strategy      LoginStrategy
	HomeRoute     string
	RedirectDelay time.Duration
}

// OTPConfig shapes the OTP dialogs.
type OTPConfig struct {
	// CloseDelay is how long a success confirmation stays readable before
	// the dialog closes and the login view activates.
	CloseDelay time.Duration
}

// TokenConfig names the durable slot the session token is written to.
type TokenConfig struct {
	StorageKey string
}

// EventConfig shapes the flow event dispatcher.
type EventConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig enables the in-process counters.
type MetricsConfig struct {
	Enabled bool
}

// MessageConfig carries every user-visible string the controller can emit.
type MessageConfig struct {
	FullNameRequired string
	PasswordTooShort string
	PasswordRequired string
	EmailRequired    string
	EmailMalformed   string
	OTPBadLength     string
	PasswordMismatch string

	RegisterSent     string
	RegisterFailed   string
	VerifySuccess    string
	VerifyFailed     string
	RecoveryFailed   string
	ResetSuccess     string
	ResetFailed      string
	LoginSuccess     string
	LoginFailed      string
	NetworkFailure   string

	TitleVerifyOTP   string
	SubtitleOTPSent  string // prefixed to the challenge email
	TitleRecovery    string
	SubtitleRecovery string
	TitleReset       string
	SubtitleReset    string
}

const (
	defaultCloseDelay    = 1200 * time.Millisecond
	defaultRedirectDelay = 1200 * time.Millisecond
	defaultStorageKey    = "authflow.token"
	defaultHomeRoute     = "/"
	defaultEventBuffer   = 64
)

func defaultMessages() MessageConfig {
	return MessageConfig{
		FullNameRequired: "Full name is required",
		PasswordTooShort: "Password must be at least 6 characters",
		PasswordRequired: "Password is required",
		EmailRequired:    "Email is required",
		EmailMalformed:   "Email address is malformed",
		OTPBadLength:     "OTP code must be 6 digits",
		PasswordMismatch: "Passwords do not match",

		RegisterSent:   "Registration successful. Check your email for the OTP code.",
		RegisterFailed: "Registration failed",
		VerifySuccess:  "Verification successful. You can sign in now.",
		VerifyFailed:   "OTP code is invalid or expired",
		RecoveryFailed: "Could not send the OTP code",
		ResetSuccess:   "Password reset successful. You can sign in now.",
		ResetFailed:    "Password reset failed",
		LoginSuccess:   "Signed in",
		LoginFailed:    "Invalid email or password",
		NetworkFailure: "Network error, try again later",

		TitleVerifyOTP:   "Verify OTP",
		SubtitleOTPSent:  "An OTP code was sent to: ",
		TitleRecovery:    "Forgot password",
		SubtitleRecovery: "Enter your email to receive a reset code",
		TitleReset:       "Reset password",
		SubtitleReset:    "Enter the OTP code and choose a new password",
	}
}

func defaultConfig() Config {
	return Config{
		API: APIConfig{
			Paths: api.DefaultPaths(),
		},
		Login: LoginConfig{
			Strategy:      LoginFetch,
			HomeRoute:     defaultHomeRoute,
			RedirectDelay: defaultRedirectDelay,
		},
		OTP: OTPConfig{
			CloseDelay: defaultCloseDelay,
		},
		Token: TokenConfig{
			StorageKey: defaultStorageKey,
		},
		Events: EventConfig{
			Enabled:    true,
			BufferSize: defaultEventBuffer,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Messages: defaultMessages(),
	}
}

// normalizeConfig fills zero values with defaults; validateConfig rejects
// what cannot be defaulted.
func normalizeConfig(cfg Config) Config {
	def := defaultConfig()
	if cfg.Login.HomeRoute == "" {
		cfg.Login.HomeRoute = def.Login.HomeRoute
	}
	if cfg.Login.RedirectDelay <= 0 {
		cfg.Login.RedirectDelay = def.Login.RedirectDelay
	}
	if cfg.OTP.CloseDelay <= 0 {
		cfg.OTP.CloseDelay = def.OTP.CloseDelay
	}
	if cfg.Token.StorageKey == "" {
		cfg.Token.StorageKey = def.Token.StorageKey
	}
	if cfg.Events.BufferSize <= 0 {
		cfg.Events.BufferSize = def.Events.BufferSize
	}
	cfg.Messages = fillMessages(cfg.Messages, def.Messages)
	return cfg
}

// fillMessages defaults every empty message individually, so a host
// overriding one string keeps the defaults for the rest.
func fillMessages(m, def MessageConfig) MessageConfig {
	m.FullNameRequired = fallback(m.FullNameRequired, def.FullNameRequired)
	m.PasswordTooShort = fallback(m.PasswordTooShort, def.PasswordTooShort)
	m.PasswordRequired = fallback(m.PasswordRequired, def.PasswordRequired)
	m.EmailRequired = fallback(m.EmailRequired, def.EmailRequired)
	m.EmailMalformed = fallback(m.EmailMalformed, def.EmailMalformed)
	m.OTPBadLength = fallback(m.OTPBadLength, def.OTPBadLength)
	m.PasswordMismatch = fallback(m.PasswordMismatch, def.PasswordMismatch)

	m.RegisterSent = fallback(m.RegisterSent, def.RegisterSent)
	m.RegisterFailed = fallback(m.RegisterFailed, def.RegisterFailed)
	m.VerifySuccess = fallback(m.VerifySuccess, def.VerifySuccess)
	m.VerifyFailed = fallback(m.VerifyFailed, def.VerifyFailed)
	m.RecoveryFailed = fallback(m.RecoveryFailed, def.RecoveryFailed)
	m.ResetSuccess = fallback(m.ResetSuccess, def.ResetSuccess)
	m.ResetFailed = fallback(m.ResetFailed, def.ResetFailed)
	m.LoginSuccess = fallback(m.LoginSuccess, def.LoginSuccess)
	m.LoginFailed = fallback(m.LoginFailed, def.LoginFailed)
	m.NetworkFailure = fallback(m.NetworkFailure, def.NetworkFailure)

	m.TitleVerifyOTP = fallback(m.TitleVerifyOTP, def.TitleVerifyOTP)
	m.SubtitleOTPSent = fallback(m.SubtitleOTPSent, def.SubtitleOTPSent)
	m.TitleRecovery = fallback(m.TitleRecovery, def.TitleRecovery)
	m.SubtitleRecovery = fallback(m.SubtitleRecovery, def.SubtitleRecovery)
	m.TitleReset = fallback(m.TitleReset, def.TitleReset)
	m.SubtitleReset = fallback(m.SubtitleReset, def.SubtitleReset)
	return m
}

func validateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.API.BaseURL) == "" {
		return errors.New("config: API.BaseURL required")
	}
	if cfg.Login.Strategy != LoginFetch && cfg.Login.Strategy != LoginNative {
		return errors.New("config: unknown login strategy")
	}
	return nil
}

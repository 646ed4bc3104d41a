// Package rules holds the pure pre-submission validation predicates of the
// workflow controller. Rules never perform I/O; a failing rule blocks the
// network call entirely and surfaces as an inline message.
package rules

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// OTPLength is the exact code length the client accepts. Digitness is not
// enforced client-side; the server stays authoritative.
const OTPLength = 6

// MinPasswordLength is the minimal accepted password length.
const MinPasswordLength = 6

var validate = validator.New()

// Code classifies a rule violation.
type Code string

const (
	// CodeRequired means the field was empty after trimming.
	CodeRequired Code = "required"
	// CodeTooShort means the field was below its minimal length.
	CodeTooShort Code = "too_short"
	// CodeBadLength means the field missed an exact-length requirement.
	CodeBadLength Code = "bad_length"
	// CodeMismatch means a confirmation field did not match its source.
	CodeMismatch Code = "mismatch"
	// CodeBadFormat means the field failed a shape check.
	CodeBadFormat Code = "bad_format"
)

// FieldError is the typed result of a failed rule.
type FieldError struct {
	Field   string
	Code    Code
	Message string
}

// Error implements error.
func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

type registrationSchema struct {
	FullName string `validate:"required"`
	Email    string `validate:"omitempty,email"`
	Password string `validate:"required,min=6"`
}

// RegistrationInput is the local view of the registration form.
type RegistrationInput struct {
	FullName string
	Email    string
	Password string
}

// Registration gates the register submission: full name required after
// trimming, password at least MinPasswordLength, email well-formed when
// present.
func Registration(in RegistrationInput) error {
	schema := registrationSchema{
		FullName: strings.TrimSpace(in.FullName),
		Email:    strings.TrimSpace(in.Email),
		Password: in.Password,
	}
	err := validate.Struct(schema)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return &FieldError{Field: "form", Code: CodeBadFormat, Message: "invalid input"}
	}
	switch first := errs[0]; first.StructField() {
	case "FullName":
		return &FieldError{Field: "fullName", Code: CodeRequired, Message: "full name is required"}
	case "Email":
		return &FieldError{Field: "email", Code: CodeBadFormat, Message: "email address is malformed"}
	default:
		if first.Tag() == "min" {
			return &FieldError{Field: "password", Code: CodeTooShort, Message: "password must be at least 6 characters"}
		}
		return &FieldError{Field: "password", Code: CodeRequired, Message: "password is required"}
	}
}

// OTP gates a one-time code submission: required, exactly OTPLength
// characters after trimming.
func OTP(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return &FieldError{Field: "otp", Code: CodeRequired, Message: "otp code is required"}
	}
	if len(code) != OTPLength {
		return &FieldError{Field: "otp", Code: CodeBadLength, Message: "otp code must be 6 characters"}
	}
	return nil
}

// Email gates the recovery email step: non-empty after trimming.
func Email(addr string) error {
	if strings.TrimSpace(addr) == "" {
		return &FieldError{Field: "email", Code: CodeRequired, Message: "email is required"}
	}
	return nil
}

// Login gates an intercepted login submission: both fields present.
func Login(email, password string) error {
	if err := Email(email); err != nil {
		return err
	}
	if password == "" {
		return &FieldError{Field: "password", Code: CodeRequired, Message: "password is required"}
	}
	return nil
}

// ResetInput is the local view of the reset step-2 form.
type ResetInput struct {
	OTP         string
	NewPassword string
	Confirm     string // empty when the host form has no confirmation field
}

// Reset gates the password reset submission: OTP rule, new password at least
// MinPasswordLength, and confirmation equality when a confirmation was
// supplied.
func Reset(in ResetInput) error {
	if err := OTP(in.OTP); err != nil {
		return err
	}
	if len(in.NewPassword) < MinPasswordLength {
		if in.NewPassword == "" {
			return &FieldError{Field: "newPassword", Code: CodeRequired, Message: "new password is required"}
		}
		return &FieldError{Field: "newPassword", Code: CodeTooShort, Message: "password must be at least 6 characters"}
	}
	if in.Confirm != "" && in.Confirm != in.NewPassword {
		return &FieldError{Field: "confirmPassword", Code: CodeMismatch, Message: "passwords do not match"}
	}
	return nil
}

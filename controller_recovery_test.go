package authflow

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ldtran/authflow/surface"
)

func TestRecoveryDialogOpensWithPrefill(t *testing.T) {
	fs := newFakeAuthServer(t)
	h := newTestController(t, fs.srv.URL)

	if err := h.controller.BeginPasswordRecovery("  a@b.com "); err != nil {
		t.Fatalf("BeginPasswordRecovery failed: %v", err)
	}
	view := h.openDialog(t)
	if view.Spec.Step != 1 || view.Spec.StepCount != 2 {
		t.Fatalf("expected step 1/2, got %d/%d", view.Spec.Step, view.Spec.StepCount)
	}
	if len(view.Spec.Fields) != 1 || view.Spec.Fields[0].Value != "a@b.com" {
		t.Fatalf("expected trimmed prefill, got %+v", view.Spec.Fields)
	}
	if h.controller.State() != StateAwaitingResetEmail {
		t.Fatalf("expected StateAwaitingResetEmail, got %v", h.controller.State())
	}
	if fs.totalCalls() != 0 {
		t.Fatal("opening the dialog must not contact the server")
	}
}

func TestRecoveryEmailSentAsQueryWithoutBody(t *testing.T) {
	fs := newFakeAuthServer(t)
	h := newTestController(t, fs.srv.URL)
	ctx := context.Background()

	if err := h.controller.BeginPasswordRecovery(""); err != nil {
		t.Fatalf("BeginPasswordRecovery failed: %v", err)
	}
	if err := h.controller.SubmitRecoveryEmail(ctx, "a@b.com"); err != nil {
		t.Fatalf("SubmitRecoveryEmail failed: %v", err)
	}

	call := fs.lastCall(t, "/api/auth/forgot-password")
	if call.RawQuery != "email=a%40b.com" {
		t.Fatalf("unexpected query %q", call.RawQuery)
	}
	if call.HasBody {
		t.Fatal("forgot-password must carry no request body")
	}

	// Dialog swapped to step 2 scoped to the same email.
	view := h.openDialog(t)
	if view.Spec.Step != 2 {
		t.Fatalf("expected step 2, got %d", view.Spec.Step)
	}
	if !strings.Contains(view.Spec.Subtitle, "a@b.com") {
		t.Fatalf("step-2 dialog not scoped to email: %q", view.Spec.Subtitle)
	}
	if !strings.Contains(view.Spec.Subtitle, h.controller.config.Messages.SubtitleReset) {
		t.Fatalf("step-2 dialog missing reset instructions: %q", view.Spec.Subtitle)
	}
	if h.controller.State() != StateAwaitingResetOTP {
		t.Fatalf("expected StateAwaitingResetOTP, got %v", h.controller.State())
	}
	ch := h.controller.Challenge()
	if ch == nil || ch.Purpose != PurposePasswordReset || ch.Email != "a@b.com" {
		t.Fatalf("unexpected challenge %+v", ch)
	}
}

func TestRecoveryEmailValidationStaysOnStepOne(t *testing.T) {
	fs := newFakeAuthServer(t)
	h := newTestController(t, fs.srv.URL)
	ctx := context.Background()

	if err := h.controller.BeginPasswordRecovery(""); err != nil {
		t.Fatalf("BeginPasswordRecovery failed: %v", err)
	}
	view := h.openDialog(t)

	err := h.controller.SubmitRecoveryEmail(ctx, "not-an-email")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if fs.totalCalls() != 0 {
		t.Fatal("invalid email must not reach the server")
	}
	flash := h.renderer.DialogFlash(view.ID)
	if flash.Severity != surface.SeverityError {
		t.Fatalf("expected dialog error flash, got %+v", flash)
	}
	if got := h.openDialog(t); got.Spec.Step != 1 {
		t.Fatalf("expected to stay on step 1, got %d", got.Spec.Step)
	}
}

func TestForgotPasswordServerRejectionStaysOnStepOne(t *testing.T) {
	fs := newFakeAuthServer(t)
	fs.respond("/api/auth/forgot-password", `{"success":false,"message":"no such account"}`)
	h := newTestController(t, fs.srv.URL)
	ctx := context.Background()

	if err := h.controller.BeginPasswordRecovery(""); err != nil {
		t.Fatalf("BeginPasswordRecovery failed: %v", err)
	}
	view := h.openDialog(t)

	err := h.controller.SubmitRecoveryEmail(ctx, "a@b.com")
	if err != nil {
		t.Fatalf("business rejection must not return an error, got %v", err)
	}
	flash := h.renderer.DialogFlash(view.ID)
	if flash.Severity != surface.SeverityError || flash.Message != "no such account" {
		t.Fatalf("unexpected dialog flash %+v", flash)
	}
	if got := h.openDialog(t); got.Spec.Step != 1 {
		t.Fatalf("rejection must not advance to step 2, got step %d", got.Spec.Step)
	}
	if h.controller.State() != StateAwaitingResetEmail {
		t.Fatalf("expected StateAwaitingResetEmail, got %v", h.controller.State())
	}
	if h.controller.Challenge() != nil {
		t.Fatal("no challenge must exist without a dispatched code")
	}
}

func TestForgotPasswordTransportFailure(t *testing.T) {
	fs := newFakeAuthServer(t)
	url := fs.srv.URL
	fs.srv.Close()
	h := newTestController(t, url)
	ctx := context.Background()

	if err := h.controller.BeginPasswordRecovery(""); err != nil {
		t.Fatalf("BeginPasswordRecovery failed: %v", err)
	}
	view := h.openDialog(t)

	err := h.controller.SubmitRecoveryEmail(ctx, "a@b.com")
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	flash := h.renderer.DialogFlash(view.ID)
	if flash.Message != h.controller.config.Messages.NetworkFailure {
		t.Fatalf("unexpected dialog flash %q", flash.Message)
	}
	if got := h.openDialog(t); got.Spec.Step != 1 {
		t.Fatalf("transport failure must stay on step 1, got step %d", got.Spec.Step)
	}
	if h.controller.State() != StateAwaitingResetEmail {
		t.Fatalf("expected StateAwaitingResetEmail, got %v", h.controller.State())
	}
}

func TestRecoverySubmitWithoutDialog(t *testing.T) {
	fs := newFakeAuthServer(t)
	h := newTestController(t, fs.srv.URL)

	err := h.controller.SubmitRecoveryEmail(context.Background(), "a@b.com")
	if !errors.Is(err, ErrNoActiveChallenge) {
		t.Fatalf("expected ErrNoActiveChallenge, got %v", err)
	}
}

func TestPasswordResetMismatchRejectedLocally(t *testing.T) {
	fs := newFakeAuthServer(t)
	h := newTestController(t, fs.srv.URL)
	ctx := context.Background()

	if err := h.controller.BeginPasswordRecovery(""); err != nil {
		t.Fatalf("BeginPasswordRecovery failed: %v", err)
	}
	if err := h.controller.SubmitRecoveryEmail(ctx, "a@b.com"); err != nil {
		t.Fatalf("SubmitRecoveryEmail failed: %v", err)
	}
	view := h.openDialog(t)

	err := h.controller.SubmitPasswordReset(ctx, "123456", "newpass1", "newpass2")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if fs.callCount("/api/auth/reset-password") != 0 {
		t.Fatal("mismatched confirmation must not reach the server")
	}
	flash := h.renderer.DialogFlash(view.ID)
	if flash.Severity != surface.SeverityError {
		t.Fatalf("expected dialog error flash, got %+v", flash)
	}
}

func TestPasswordResetServerRejectionKeepsDialogOpen(t *testing.T) {
	fs := newFakeAuthServer(t)
	fs.respond("/api/auth/reset-password", `{"success":false,"message":"expired code"}`)
	h := newTestController(t, fs.srv.URL)
	ctx := context.Background()

	if err := h.controller.BeginPasswordRecovery(""); err != nil {
		t.Fatalf("BeginPasswordRecovery failed: %v", err)
	}
	if err := h.controller.SubmitRecoveryEmail(ctx, "a@b.com"); err != nil {
		t.Fatalf("SubmitRecoveryEmail failed: %v", err)
	}
	view := h.openDialog(t)

	err := h.controller.SubmitPasswordReset(ctx, "123456", "newpass1", "newpass1")
	if err != nil {
		t.Fatalf("business rejection must not return an error, got %v", err)
	}
	flash := h.renderer.DialogFlash(view.ID)
	if flash.Severity != surface.SeverityError || flash.Message != "expired code" {
		t.Fatalf("unexpected dialog flash %+v", flash)
	}
	if got := h.openDialog(t); got.Spec.Step != 2 {
		t.Fatalf("dialog must stay open on step 2 for resubmission, got step %d", got.Spec.Step)
	}
	if h.controller.State() != StateAwaitingResetOTP {
		t.Fatalf("expected StateAwaitingResetOTP, got %v", h.controller.State())
	}

	// The same dialog accepts a corrected resubmission.
	fs.respond("/api/auth/reset-password", `{"success":true}`)
	if err := h.controller.SubmitPasswordReset(ctx, "654321", "newpass1", "newpass1"); err != nil {
		t.Fatalf("resubmission failed: %v", err)
	}
	if h.controller.State() != StateResetDone {
		t.Fatalf("expected StateResetDone, got %v", h.controller.State())
	}
}

func TestPasswordResetEmptyConfirmSkipsMatchCheck(t *testing.T) {
	fs := newFakeAuthServer(t)
	fs.respond("/api/auth/reset-password", `{"success":true}`)
	h := newTestController(t, fs.srv.URL)
	ctx := context.Background()

	if err := h.controller.BeginPasswordRecovery(""); err != nil {
		t.Fatalf("BeginPasswordRecovery failed: %v", err)
	}
	if err := h.controller.SubmitRecoveryEmail(ctx, "a@b.com"); err != nil {
		t.Fatalf("SubmitRecoveryEmail failed: %v", err)
	}
	if err := h.controller.SubmitPasswordReset(ctx, "123456", "newpass1", ""); err != nil {
		t.Fatalf("SubmitPasswordReset failed: %v", err)
	}
	if fs.callCount("/api/auth/reset-password") != 1 {
		t.Fatal("expected one reset call")
	}
}

func TestPasswordResetSuccessClosesAfterDelay(t *testing.T) {
	fs := newFakeAuthServer(t)
	fs.respond("/api/auth/reset-password", `{"success":true}`)
	h := newTestController(t, fs.srv.URL)
	ctx := context.Background()

	if err := h.controller.BeginPasswordRecovery(""); err != nil {
		t.Fatalf("BeginPasswordRecovery failed: %v", err)
	}
	if err := h.controller.SubmitRecoveryEmail(ctx, "a@b.com"); err != nil {
		t.Fatalf("SubmitRecoveryEmail failed: %v", err)
	}
	view := h.openDialog(t)

	if err := h.controller.SubmitPasswordReset(ctx, "123456", "newpass1", "newpass1"); err != nil {
		t.Fatalf("SubmitPasswordReset failed: %v", err)
	}
	if h.controller.State() != StateResetDone {
		t.Fatalf("expected StateResetDone, got %v", h.controller.State())
	}
	flash := h.renderer.DialogFlash(view.ID)
	if flash.Severity != surface.SeveritySuccess {
		t.Fatalf("expected success flash, got %+v", flash)
	}

	h.clock.fire()

	if len(h.renderer.OpenDialogs()) != 0 {
		t.Fatal("dialog must close after the delay")
	}
	if mode, set := h.renderer.ActiveView(); !set || mode != surface.ViewLogin {
		t.Fatalf("expected login view active, got %v (set=%v)", mode, set)
	}
	if h.controller.State() != StateIdle {
		t.Fatalf("expected StateIdle, got %v", h.controller.State())
	}

	call := fs.lastCall(t, "/api/auth/reset-password")
	if call.Body["email"] != "a@b.com" || call.Body["otp"] != "123456" || call.Body["newPassword"] != "newpass1" {
		t.Fatalf("unexpected reset body %+v", call.Body)
	}
}

func TestBackToRecoveryEmailReusesChallengeEmail(t *testing.T) {
	fs := newFakeAuthServer(t)
	h := newTestController(t, fs.srv.URL)
	ctx := context.Background()

	if err := h.controller.BeginPasswordRecovery(""); err != nil {
		t.Fatalf("BeginPasswordRecovery failed: %v", err)
	}
	if err := h.controller.SubmitRecoveryEmail(ctx, "a@b.com"); err != nil {
		t.Fatalf("SubmitRecoveryEmail failed: %v", err)
	}
	if err := h.controller.BackToRecoveryEmail(); err != nil {
		t.Fatalf("BackToRecoveryEmail failed: %v", err)
	}

	view := h.openDialog(t)
	if view.Spec.Step != 1 {
		t.Fatalf("expected step 1, got %d", view.Spec.Step)
	}
	if view.Spec.Fields[0].Value != "a@b.com" {
		t.Fatalf("expected email prefill, got %q", view.Spec.Fields[0].Value)
	}
	if h.controller.Challenge() != nil {
		t.Fatal("step-2 challenge must be destroyed on back")
	}
	if h.controller.State() != StateAwaitingResetEmail {
		t.Fatalf("expected StateAwaitingResetEmail, got %v", h.controller.State())
	}
}

func TestRecoveryReplacesRegisterOTPDialog(t *testing.T) {
	fs := newFakeAuthServer(t)
	fs.respond("/api/auth/register", `{"success":true}`)
	h := newTestController(t, fs.srv.URL)
	ctx := context.Background()

	if err := h.controller.SubmitRegistration(ctx, Credentials{
		Email: "a@b.com", Password: "abc123", FullName: "Jane",
	}); err != nil {
		t.Fatalf("SubmitRegistration failed: %v", err)
	}
	if err := h.controller.BeginPasswordRecovery("a@b.com"); err != nil {
		t.Fatalf("BeginPasswordRecovery failed: %v", err)
	}

	// Newer flow wins: exactly one dialog, and it belongs to recovery.
	view := h.openDialog(t)
	if view.Spec.Step != 1 {
		t.Fatalf("expected recovery step 1, got %+v", view.Spec)
	}
	if err := h.controller.SubmitRegisterOTP(ctx, "123456"); !errors.Is(err, ErrNoActiveChallenge) {
		t.Fatalf("register challenge must be dead after replacement, got %v", err)
	}
}

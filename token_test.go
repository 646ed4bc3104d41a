package authflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ldtran/authflow/session"
)

func TestTokenInfoBeforeLogin(t *testing.T) {
	h := newTestController(t, "http://localhost")

	_, err := h.controller.TokenInfo(context.Background())
	if !errors.Is(err, session.ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound, got %v", err)
	}
}

func TestTokenInfoOpaqueToken(t *testing.T) {
	h := newTestController(t, "http://localhost")
	ctx := context.Background()

	if err := h.controller.tokens.Save(ctx, h.controller.config.Token.StorageKey, "opaque-session-id"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := h.controller.TokenInfo(ctx)
	if err != nil {
		t.Fatalf("TokenInfo failed: %v", err)
	}
	if info.JWT {
		t.Fatal("opaque token must not be reported as a JWT")
	}
	if info.Raw != "opaque-session-id" {
		t.Fatalf("unexpected raw token %q", info.Raw)
	}
	if info.Subject != "" || info.Email != "" || !info.ExpiresAt.IsZero() {
		t.Fatalf("opaque token must carry no claims: %+v", info)
	}
}

func TestTokenInfoDecodesJWTClaims(t *testing.T) {
	h := newTestController(t, "http://localhost")
	ctx := context.Background()

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "user-42",
		"email": "a@b.com",
		"exp":   exp.Unix(),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("token mint failed: %v", err)
	}
	if err := h.controller.tokens.Save(ctx, h.controller.config.Token.StorageKey, raw); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := h.controller.TokenInfo(ctx)
	if err != nil {
		t.Fatalf("TokenInfo failed: %v", err)
	}
	if !info.JWT {
		t.Fatal("expected JWT detection")
	}
	if info.Subject != "user-42" || info.Email != "a@b.com" {
		t.Fatalf("unexpected claims %+v", info)
	}
	if !info.ExpiresAt.Equal(exp) {
		t.Fatalf("ExpiresAt = %v, want %v", info.ExpiresAt, exp)
	}
}

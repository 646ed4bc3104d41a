package authflow

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo describes the stored session token. The token is treated as
// opaque: when it happens to be a JWT its claims are decoded without
// signature verification, purely for display, and must never be trusted for
// authorization decisions.
type TokenInfo struct {
	Raw       string
	JWT       bool
	Subject   string
	Email     string
	ExpiresAt time.Time // zero when absent or not a JWT
}

// TokenInfo loads the stored session token and inspects it. Returns
// session.ErrTokenNotFound (wrapped by the store) when no login has stored a
// token yet.
func (c *Controller) TokenInfo(ctx context.Context) (*TokenInfo, error) {
	if c == nil {
		return nil, ErrControllerNotReady
	}
	raw, err := c.tokens.Load(ctx, c.config.Token.StorageKey)
	if err != nil {
		return nil, err
	}

	info := &TokenInfo{Raw: raw}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return info, nil // opaque token
	}
	info.JWT = true
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if email, ok := claims["email"].(string); ok {
		info.Email = email
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info, nil
}

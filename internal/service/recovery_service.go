package service

import (
	"context"
	"fmt"
	"strings"

	"nestboard/internal/domain"
	"nestboard/internal/port"
)

const (
	findUsernamePath  = "/api/auth/find-username"
	verifyUserPath    = "/api/auth/verify-user"
	resetPasswordPath = "/api/auth/reset-password"
)

// RecoveryService runs account recovery: looking up a forgotten username by
// email, and the two-step password reset (prove the identity, then set the
// new password with the short-lived reset token the proof returned).
type RecoveryService interface {
	FindUsername(ctx context.Context, email string) (string, error)
	VerifyUser(ctx context.Context, username, email string) (string, error)
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
}

type recoveryService struct {
	inflight flight
	gw       port.Gateway
	nav      port.Navigator
}

// NewRecoveryService creates a RecoveryService implementation.
func NewRecoveryService(gw port.Gateway, nav port.Navigator) RecoveryService {
	return &recoveryService{gw: gw, nav: nav}
}

func (s *recoveryService) FindUsername(ctx context.Context, email string) (string, error) {
	if !s.inflight.begin() {
		return "", domain.ErrOperationInFlight
	}
	defer s.inflight.end()

	email = strings.TrimSpace(email)
	if email == "" {
		return "", domain.ErrMissingInput
	}
	body, err := s.gw.Post(ctx, findUsernamePath, map[string]string{"email": email})
	if err != nil {
		return "", fmt.Errorf("recovery.FindUsername: %w", err)
	}
	username := stringField(body, "username")
	if username == "" {
		return "", fmt.Errorf("recovery.FindUsername: response carried no username")
	}
	return username, nil
}

// VerifyUser proves the username/email pair and returns the reset token for
// ResetPassword.
func (s *recoveryService) VerifyUser(ctx context.Context, username, email string) (string, error) {
	if !s.inflight.begin() {
		return "", domain.ErrOperationInFlight
	}
	defer s.inflight.end()

	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" {
		return "", domain.ErrMissingInput
	}
	body, err := s.gw.Post(ctx, verifyUserPath, map[string]string{
		"username": username,
		"email":    email,
	})
	if err != nil {
		return "", fmt.Errorf("recovery.VerifyUser: %w", err)
	}
	token := stringField(body, "resetToken")
	if token == "" {
		return "", fmt.Errorf("recovery.VerifyUser: %w", domain.ErrNoTokenInResponse)
	}
	return token, nil
}

func (s *recoveryService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	if !s.inflight.begin() {
		return domain.ErrOperationInFlight
	}
	defer s.inflight.end()

	if resetToken == "" || newPassword == "" {
		return domain.ErrMissingInput
	}
	if _, err := s.gw.Put(ctx, resetPasswordPath, map[string]string{
		"resetToken":  resetToken,
		"newPassword": newPassword,
	}); err != nil {
		return fmt.Errorf("recovery.ResetPassword: %w", err)
	}

	s.nav.Navigate(domain.RouteLogin)
	return nil
}

func stringField(body any, key string) string {
	m, ok := body.(map[string]any)
	if !ok {
		return ""
	}
	if nested, ok := m["data"].(map[string]any); ok {
		if v, ok := nested[key].(string); ok && v != "" {
			return v
		}
	}
	v, _ := m[key].(string)
	return v
}

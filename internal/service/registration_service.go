package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"nestboard/internal/domain"
	"nestboard/internal/port"
)

const (
	signupPath        = "/api/auth/signup"
	checkUsernamePath = "/api/auth/check-username"
	checkEmailPath    = "/api/auth/check-email"
	emailSendPath     = "/api/auth/email/send"
	emailVerifyPath   = "/api/auth/email/verify"
)

// SignupInput is the signup form. EmailCode is the mailed verification code.
type SignupInput struct {
	Username  string
	Password  string
	Email     string
	EmailCode string
}

// RegistrationService runs the signup flow: availability probes, email
// verification and the final submit. Duplicate conflicts come back as 409
// errors whose server code names the colliding field; discrimination is the
// caller's job.
type RegistrationService interface {
	Signup(ctx context.Context, input SignupInput) error
	CheckUsername(ctx context.Context, username string) (bool, error)
	CheckEmail(ctx context.Context, email string) (bool, error)
	SendEmailCode(ctx context.Context, email string) error
	VerifyEmailCode(ctx context.Context, email, code string) error
}

type registrationService struct {
	inflight flight
	gw       port.Gateway
	nav      port.Navigator
}

// NewRegistrationService creates a RegistrationService implementation.
func NewRegistrationService(gw port.Gateway, nav port.Navigator) RegistrationService {
	return &registrationService{gw: gw, nav: nav}
}

func (s *registrationService) Signup(ctx context.Context, input SignupInput) error {
	if !s.inflight.begin() {
		return domain.ErrOperationInFlight
	}
	defer s.inflight.end()

	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	if username == "" || input.Password == "" || email == "" || input.EmailCode == "" {
		return domain.ErrMissingInput
	}

	if _, err := s.gw.Post(ctx, signupPath, map[string]string{
		"username": username,
		"password": input.Password,
		"email":    email,
		"code":     input.EmailCode,
	}); err != nil {
		return fmt.Errorf("registration.Signup: %w", err)
	}

	s.nav.Navigate(domain.RouteLogin)
	return nil
}

func (s *registrationService) CheckUsername(ctx context.Context, username string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return false, domain.ErrMissingInput
	}
	body, err := s.gw.Get(ctx, checkUsernamePath+"?username="+url.QueryEscape(username))
	if err != nil {
		return false, fmt.Errorf("registration.CheckUsername: %w", err)
	}
	return availableFromBody(body), nil
}

func (s *registrationService) CheckEmail(ctx context.Context, email string) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return false, domain.ErrMissingInput
	}
	body, err := s.gw.Get(ctx, checkEmailPath+"?email="+url.QueryEscape(email))
	if err != nil {
		return false, fmt.Errorf("registration.CheckEmail: %w", err)
	}
	return availableFromBody(body), nil
}

// SendEmailCode mails a verification code. Rate limited server-side; a 429
// surfaces with its retry hint.
func (s *registrationService) SendEmailCode(ctx context.Context, email string) error {
	if !s.inflight.begin() {
		return domain.ErrOperationInFlight
	}
	defer s.inflight.end()

	email = strings.TrimSpace(email)
	if email == "" {
		return domain.ErrMissingInput
	}
	if _, err := s.gw.Post(ctx, emailSendPath, map[string]string{"email": email}); err != nil {
		return fmt.Errorf("registration.SendEmailCode: %w", err)
	}
	return nil
}

func (s *registrationService) VerifyEmailCode(ctx context.Context, email, code string) error {
	if !s.inflight.begin() {
		return domain.ErrOperationInFlight
	}
	defer s.inflight.end()

	email = strings.TrimSpace(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return domain.ErrMissingInput
	}
	if _, err := s.gw.Post(ctx, emailVerifyPath, map[string]string{
		"email": email,
		"code":  code,
	}); err != nil {
		return fmt.Errorf("registration.VerifyEmailCode: %w", err)
	}
	return nil
}

func availableFromBody(body any) bool {
	m, ok := body.(map[string]any)
	if !ok {
		return false
	}
	if nested, ok := m["data"].(map[string]any); ok {
		m = nested
	}
	v, _ := m["available"].(bool)
	return v
}

package service

import (
	"context"
	"fmt"
	"strings"

	"nestboard/internal/domain"
	"nestboard/internal/gateway"
	"nestboard/internal/port"
	"nestboard/internal/session"
	"nestboard/internal/storage"
)

const (
	linkPasswordPath = "/api/oauth2/link/password"
	linkOTPSendPath  = "/api/oauth2/link/otp/send"
	linkOTPCheckPath = "/api/oauth2/link/otp/verify"
	continueNewPath  = "/api/oauth2/continue-new"
)

// LinkService runs the account-link flow a social login lands in when the
// provider's email already belongs to a member. Every action needs the temp
// token written by the redirect handler; without it the screen has nothing to
// act on and the user goes back to login.
type LinkService interface {
	// Ready reports whether a temp token is present. On a missing token it
	// navigates to login; callers just abort.
	Ready() bool
	LinkWithPassword(ctx context.Context, password string) error
	SendOTP(ctx context.Context) error
	VerifyOTP(ctx context.Context, code string) error
	ContinueAsNew(ctx context.Context) error
}

type linkService struct {
	inflight flight
	gw       port.Gateway
	sessions *session.Manager
	tokens   *storage.TokenStore
	flash    *storage.FlashNotice
	nav      port.Navigator
}

// NewLinkService creates a LinkService implementation.
func NewLinkService(
	gw port.Gateway,
	sessions *session.Manager,
	tokens *storage.TokenStore,
	flash *storage.FlashNotice,
	nav port.Navigator,
) LinkService {
	return &linkService{gw: gw, sessions: sessions, tokens: tokens, flash: flash, nav: nav}
}

func (s *linkService) Ready() bool {
	if _, ok := s.tokens.LinkToken(); !ok {
		s.nav.Navigate(domain.RouteLogin)
		return false
	}
	return true
}

func (s *linkService) requireToken() (string, error) {
	token, ok := s.tokens.LinkToken()
	if !ok {
		s.nav.Navigate(domain.RouteLogin)
		return "", domain.ErrNoLinkToken
	}
	return token, nil
}

// LinkWithPassword proves ownership of the existing account with its password
// and links the provider to it.
func (s *linkService) LinkWithPassword(ctx context.Context, password string) error {
	if !s.inflight.begin() {
		return domain.ErrOperationInFlight
	}
	defer s.inflight.end()

	if password == "" {
		return domain.ErrMissingInput
	}
	token, err := s.requireToken()
	if err != nil {
		return err
	}

	body, err := s.gw.Post(ctx, linkPasswordPath, map[string]string{
		"socialTempToken": token,
		"password":        password,
	})
	if err != nil {
		return fmt.Errorf("link.LinkWithPassword: %w", err)
	}
	return s.complete(ctx, body, domain.FlashLinkOK)
}

// SendOTP mails a one-time code to the account's address. Rate limited
// server-side; a 429 surfaces to the caller with its retry hint.
func (s *linkService) SendOTP(ctx context.Context) error {
	if !s.inflight.begin() {
		return domain.ErrOperationInFlight
	}
	defer s.inflight.end()

	token, err := s.requireToken()
	if err != nil {
		return err
	}
	if _, err := s.gw.Post(ctx, linkOTPSendPath, map[string]string{
		"socialTempToken": token,
	}); err != nil {
		return fmt.Errorf("link.SendOTP: %w", err)
	}
	return nil
}

// VerifyOTP proves ownership with the mailed code and links the provider.
func (s *linkService) VerifyOTP(ctx context.Context, code string) error {
	if !s.inflight.begin() {
		return domain.ErrOperationInFlight
	}
	defer s.inflight.end()

	code = strings.TrimSpace(code)
	if code == "" {
		return domain.ErrMissingInput
	}
	token, err := s.requireToken()
	if err != nil {
		return err
	}

	body, err := s.gw.Post(ctx, linkOTPCheckPath, map[string]string{
		"socialTempToken": token,
		"code":            code,
	})
	if err != nil {
		return fmt.Errorf("link.VerifyOTP: %w", err)
	}
	return s.complete(ctx, body, domain.FlashLinkOK)
}

// ContinueAsNew declines the link and creates a fresh account for the
// provider identity instead.
func (s *linkService) ContinueAsNew(ctx context.Context) error {
	if !s.inflight.begin() {
		return domain.ErrOperationInFlight
	}
	defer s.inflight.end()

	token, err := s.requireToken()
	if err != nil {
		return err
	}
	body, err := s.gw.Post(ctx, continueNewPath, map[string]string{
		"socialTempToken": token,
	})
	if err != nil {
		return fmt.Errorf("link.ContinueAsNew: %w", err)
	}
	return s.complete(ctx, body, domain.FlashSocialLoginOK)
}

// complete is the single exit every successful link action funnels through:
// establish the session from the final token, burn the temp token, leave the
// outcome notice, go home.
func (s *linkService) complete(ctx context.Context, body any, notice domain.FlashCode) error {
	token, ok := gateway.ExtractToken(body)
	if !ok {
		return fmt.Errorf("link completion: %w", domain.ErrNoTokenInResponse)
	}

	cred := domain.Credential{Token: token, IssuedVia: providerFromBody(body)}
	if _, err := s.sessions.Establish(ctx, cred, domain.TierDurable, ""); err != nil {
		return fmt.Errorf("link completion: %w", err)
	}
	if err := s.tokens.DeleteLinkToken(); err != nil {
		return fmt.Errorf("link completion: %w", err)
	}
	s.flash.Set(notice)
	s.nav.Navigate(domain.RouteHome)
	return nil
}

func providerFromBody(body any) domain.Provider {
	if m, ok := body.(map[string]any); ok {
		if v, ok := m["provider"].(string); ok {
			return domain.ParseProvider(v)
		}
		if nested, ok := m["data"].(map[string]any); ok {
			if v, ok := nested["provider"].(string); ok {
				return domain.ParseProvider(v)
			}
		}
	}
	return domain.Provider("")
}

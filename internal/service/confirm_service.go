package service

import (
	"context"
	"fmt"

	"nestboard/internal/domain"
	"nestboard/internal/gateway"
	"nestboard/internal/oauth"
	"nestboard/internal/port"
	"nestboard/internal/session"
	"nestboard/internal/storage"
)

const confirmPath = "/api/oauth2/confirm"

// ConfirmService runs the "continue as this account?" decision a returning
// provider login lands in. Only reachable with both the confirm token and the
// pending identity the redirect handler stashed.
type ConfirmService interface {
	// Guard returns the pending identity when the screen may open. On missing
	// state it navigates to login; callers just abort.
	Guard() (domain.PendingConfirmation, bool)
	// Continue signs in as the pending account.
	Continue(ctx context.Context) error
	// SwitchAccount discards the pending account and restarts the provider
	// flow with a forced account prompt.
	SwitchAccount() error
}

type confirmService struct {
	inflight flight
	gw       port.Gateway
	sessions *session.Manager
	tokens   *storage.TokenStore
	flash    *storage.FlashNotice
	nav      port.Navigator
	auth     *oauth.Authorizer
}

// NewConfirmService creates a ConfirmService implementation.
func NewConfirmService(
	gw port.Gateway,
	sessions *session.Manager,
	tokens *storage.TokenStore,
	flash *storage.FlashNotice,
	nav port.Navigator,
	auth *oauth.Authorizer,
) ConfirmService {
	return &confirmService{
		gw:       gw,
		sessions: sessions,
		tokens:   tokens,
		flash:    flash,
		nav:      nav,
		auth:     auth,
	}
}

func (s *confirmService) Guard() (domain.PendingConfirmation, bool) {
	pending, ok := s.tokens.PendingConfirmation()
	if !ok {
		s.nav.Navigate(domain.RouteLogin)
		return domain.PendingConfirmation{}, false
	}
	if _, ok := s.tokens.LinkToken(); !ok {
		s.nav.Navigate(domain.RouteLogin)
		return domain.PendingConfirmation{}, false
	}
	// Only Naver sends logins through the confirm step today.
	if pending.Provider != domain.ProviderNaver {
		s.nav.Navigate(domain.RouteLogin)
		return domain.PendingConfirmation{}, false
	}
	return pending, true
}

func (s *confirmService) Continue(ctx context.Context) error {
	if !s.inflight.begin() {
		return domain.ErrOperationInFlight
	}
	defer s.inflight.end()

	pending, ok := s.Guard()
	if !ok {
		return domain.ErrNoLinkToken
	}
	confirmToken, _ := s.tokens.LinkToken()

	body, err := s.gw.Post(ctx, confirmPath, map[string]string{
		"confirmToken": confirmToken,
	})
	if err != nil {
		return fmt.Errorf("confirm.Continue: %w", err)
	}

	token, ok := gateway.ExtractToken(body)
	if !ok {
		return fmt.Errorf("confirm.Continue: %w", domain.ErrNoTokenInResponse)
	}
	cred := domain.Credential{Token: token, IssuedVia: pending.Provider}
	if _, err := s.sessions.Establish(ctx, cred, domain.TierDurable, ""); err != nil {
		return fmt.Errorf("confirm.Continue: %w", err)
	}

	if err := s.tokens.DeleteLinkToken(); err != nil {
		return fmt.Errorf("confirm.Continue: %w", err)
	}
	if err := s.tokens.DeletePendingConfirmation(); err != nil {
		return fmt.Errorf("confirm.Continue: %w", err)
	}

	name := domain.PickDisplayName(pending.Provider, domain.NameHints{
		DisplayName: pending.DisplayName,
		Email:       pending.Email,
	})
	if err := s.tokens.StashWelcomeName(name); err != nil {
		return fmt.Errorf("confirm.Continue: %w", err)
	}
	s.flash.Set(domain.FlashSocialLoginOK)
	s.nav.Navigate(domain.RouteHome)
	return nil
}

func (s *confirmService) SwitchAccount() error {
	if !s.inflight.begin() {
		return domain.ErrOperationInFlight
	}
	defer s.inflight.end()

	pending, ok := s.tokens.PendingConfirmation()
	provider := domain.ProviderNaver
	if ok && pending.Provider != "" {
		provider = pending.Provider
	}

	if err := s.tokens.DeletePendingConfirmation(); err != nil {
		return fmt.Errorf("confirm.SwitchAccount: %w", err)
	}
	if err := s.tokens.DeleteLinkToken(); err != nil {
		return fmt.Errorf("confirm.SwitchAccount: %w", err)
	}
	s.auth.Start(provider, true)
	return nil
}

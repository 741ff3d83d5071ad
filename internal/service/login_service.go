package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"nestboard/internal/domain"
	"nestboard/internal/gateway"
	"nestboard/internal/port"
	"nestboard/internal/session"
	"nestboard/internal/storage"
)

const loginPath = "/api/auth/login"

// LoginInput is the password login form.
type LoginInput struct {
	Username string
	Password string
	// KeepLogin selects the durable tier so the session survives restarts.
	KeepLogin bool
	// RememberUsername persists the username for prefilling the next login.
	// Independent of KeepLogin and of whether login succeeds this time.
	RememberUsername bool
}

// LoginService runs the password login flow.
type LoginService interface {
	Login(ctx context.Context, input LoginInput) error
	SavedUsername() (string, bool)
}

type loginService struct {
	inflight flight
	gw       port.Gateway
	sessions *session.Manager
	tokens   *storage.TokenStore
	nav      port.Navigator
}

// NewLoginService creates a LoginService implementation.
func NewLoginService(
	gw port.Gateway,
	sessions *session.Manager,
	tokens *storage.TokenStore,
	nav port.Navigator,
) LoginService {
	return &loginService{gw: gw, sessions: sessions, tokens: tokens, nav: nav}
}

func (s *loginService) Login(ctx context.Context, input LoginInput) error {
	if !s.inflight.begin() {
		return domain.ErrOperationInFlight
	}
	defer s.inflight.end()

	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return domain.ErrMissingInput
	}

	body, err := s.gw.Post(ctx, loginPath, map[string]string{
		"username": username,
		"password": input.Password,
	})
	if err != nil {
		if domain.IsHTTPStatus(err, http.StatusUnauthorized) {
			// The gateway already dropped any stale credential; no redirect.
			return domain.ErrInvalidCredentials
		}
		return fmt.Errorf("login.Login: %w", err)
	}

	token, ok := gateway.ExtractToken(body)
	if !ok {
		return fmt.Errorf("login.Login: %w", domain.ErrNoTokenInResponse)
	}

	if input.RememberUsername {
		if err := s.tokens.SaveUsername(username); err != nil {
			return fmt.Errorf("login.Login: %w", err)
		}
	} else if err := s.tokens.ForgetSavedUsername(); err != nil {
		return fmt.Errorf("login.Login: %w", err)
	}

	tier := domain.TierSession
	if input.KeepLogin {
		tier = domain.TierDurable
	}
	cred := domain.Credential{Token: token, IssuedVia: domain.ProviderPassword}
	if _, err := s.sessions.Establish(ctx, cred, tier, username); err != nil {
		if errors.Is(err, domain.ErrSessionEnded) {
			return err
		}
		return fmt.Errorf("login.Login: %w", err)
	}

	name := domain.PickDisplayName(domain.ProviderPassword, domain.NameHints{Username: username})
	if err := s.tokens.StashWelcomeName(name); err != nil {
		return fmt.Errorf("login.Login: %w", err)
	}

	// A login forced by the route guard goes back where the user was headed.
	if returnTo, ok := s.tokens.TakeReturnTo(); ok {
		s.nav.Navigate(returnTo)
	} else {
		s.nav.Navigate(domain.RouteHome)
	}
	return nil
}

func (s *loginService) SavedUsername() (string, bool) {
	return s.tokens.SavedUsername()
}

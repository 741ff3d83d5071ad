package oauth

import (
	"context"
	"fmt"
	"net/url"
	"sync/atomic"

	"nestboard/internal/domain"
	"nestboard/internal/port"
	"nestboard/internal/session"
	"nestboard/internal/storage"
)

// CallbackParams are the query parameters the backend appends when it sends
// the user back from a provider flow. Every field may be absent.
type CallbackParams struct {
	Status          string
	Token           string
	SocialTempToken string
	ConfirmToken    string
	Error           string
	Provider        domain.Provider
	DisplayName     string
	Email           string
}

// ParamsFromQuery decodes the callback query string.
func ParamsFromQuery(q url.Values) CallbackParams {
	return CallbackParams{
		Status:          q.Get("status"),
		Token:           q.Get("token"),
		SocialTempToken: q.Get("socialTempToken"),
		ConfirmToken:    q.Get("confirmToken"),
		Error:           q.Get("error"),
		Provider:        domain.ParseProvider(q.Get("provider")),
		DisplayName:     q.Get("displayName"),
		Email:           q.Get("email"),
	}
}

// RedirectHandler turns a callback into exactly one outcome. The status
// parameter is authoritative: a token that arrives next to LINK_REQUIRED or
// CONFIRM_REQUIRED is ignored, because the backend sends both during a
// transition window and only the status says what the user must do next.
type RedirectHandler struct {
	handled  atomic.Bool
	sessions *session.Manager
	tokens   *storage.TokenStore
	flash    *storage.FlashNotice
	nav      port.Navigator
}

// NewRedirectHandler wires a handler for a single callback delivery.
func NewRedirectHandler(
	sessions *session.Manager,
	tokens *storage.TokenStore,
	flash *storage.FlashNotice,
	nav port.Navigator,
) *RedirectHandler {
	return &RedirectHandler{sessions: sessions, tokens: tokens, flash: flash, nav: nav}
}

// Handle runs the callback decision ladder once. A second delivery of the
// same callback is a no-op: the redirect endpoint can be hit twice (reloads,
// prefetching) and must not double-apply side effects.
func (h *RedirectHandler) Handle(ctx context.Context, p CallbackParams) error {
	if !h.handled.CompareAndSwap(false, true) {
		return nil
	}

	switch {
	case p.Error != "" || p.Status == domain.CallbackStatusFail:
		h.flash.Set(domain.FlashFallback)
		h.nav.Navigate(domain.RouteLogin)
		return nil

	case p.Status == domain.CallbackStatusConfirmRequired:
		return h.handleConfirmRequired(p)

	case p.Status == domain.CallbackStatusLinkRequired:
		return h.handleLinkRequired(p)

	case p.Token != "":
		return h.handleLogin(ctx, p)
	}

	// Nothing usable on the URL. Happens when the endpoint is opened by hand.
	h.flash.Set(domain.FlashFallback)
	h.nav.Navigate(domain.RouteLogin)
	return nil
}

// handleConfirmRequired stashes the returning account's identity and sends the
// user to the "continue as this account?" screen. The confirm token is stored
// durably because the confirm screen rebuilds its state from storage.
func (h *RedirectHandler) handleConfirmRequired(p CallbackParams) error {
	if p.ConfirmToken == "" {
		h.flash.Set(domain.FlashFallback)
		h.nav.Navigate(domain.RouteLogin)
		return nil
	}
	if err := h.tokens.WriteLinkToken(p.ConfirmToken); err != nil {
		return fmt.Errorf("storing confirm token: %w", err)
	}
	if err := h.tokens.WritePendingConfirmation(domain.PendingConfirmation{
		Provider:    p.Provider,
		DisplayName: p.DisplayName,
		Email:       p.Email,
	}); err != nil {
		return fmt.Errorf("storing pending confirmation: %w", err)
	}
	h.nav.Navigate(domain.RouteConfirm)
	return nil
}

// handleLinkRequired stores the temp token and routes to the account-link
// screen. The token on the URL (if any) is deliberately not a session.
func (h *RedirectHandler) handleLinkRequired(p CallbackParams) error {
	if p.SocialTempToken == "" {
		h.flash.Set(domain.FlashFallback)
		h.nav.Navigate(domain.RouteLogin)
		return nil
	}
	if err := h.tokens.WriteLinkToken(p.SocialTempToken); err != nil {
		return fmt.Errorf("storing link token: %w", err)
	}
	h.flash.Set(domain.FlashLinkRequired)
	h.nav.Navigate(domain.RouteLinkAccount)
	return nil
}

// handleLogin establishes the session from the final token, leaves the
// signed-in notice, and stashes the welcome name for the home screen.
func (h *RedirectHandler) handleLogin(ctx context.Context, p CallbackParams) error {
	cred := domain.Credential{Token: p.Token, IssuedVia: p.Provider}
	if _, err := h.sessions.Establish(ctx, cred, domain.TierDurable, ""); err != nil {
		return err
	}
	// A temp token left behind by an abandoned link flow is dead the moment a
	// login completes; it must not green-light link actions in a later run.
	if err := h.tokens.DeleteLinkToken(); err != nil {
		return fmt.Errorf("clearing stale link token: %w", err)
	}
	name := domain.PickDisplayName(p.Provider, domain.NameHints{
		DisplayName: p.DisplayName,
		Email:       p.Email,
	})
	if err := h.tokens.StashWelcomeName(name); err != nil {
		return fmt.Errorf("stashing welcome name: %w", err)
	}
	h.flash.Set(domain.FlashSocialLoginOK)
	h.nav.Navigate(domain.RouteHome)
	return nil
}

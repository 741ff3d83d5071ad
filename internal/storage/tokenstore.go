package storage

import (
	"fmt"

	"nestboard/internal/domain"
	"nestboard/internal/port"
)

// TokenStore owns the credential and its satellite identity state across the
// two persistence tiers. The one invariant it enforces everywhere is tier
// exclusivity: a credential lives in exactly one tier at a time, so every
// write to one tier clears the other.
type TokenStore struct {
	durable port.Tier
	session port.Tier
}

// NewTokenStore wires the two tiers together.
func NewTokenStore(durable, session port.Tier) *TokenStore {
	return &TokenStore{durable: durable, session: session}
}

func (s *TokenStore) tier(t domain.Tier) (selected, other port.Tier) {
	if t == domain.TierDurable {
		return s.durable, s.session
	}
	return s.session, s.durable
}

// Read returns the stored credential, durable tier first.
func (s *TokenStore) Read() (domain.Credential, bool) {
	for _, t := range []port.Tier{s.durable, s.session} {
		if token, ok := t.Get(keyAccessToken); ok && token != "" {
			provider, _ := t.Get(keyAuthProvider)
			return domain.Credential{Token: token, IssuedVia: domain.Provider(provider)}, true
		}
	}
	return domain.Credential{}, false
}

// Write stores cred in the selected tier and clears the credential from the
// other tier in the same operation.
func (s *TokenStore) Write(cred domain.Credential, tier domain.Tier) error {
	selected, other := s.tier(tier)
	if err := selected.Set(keyAccessToken, cred.Token); err != nil {
		return fmt.Errorf("storing credential: %w", err)
	}
	if err := selected.Set(keyAuthProvider, string(cred.IssuedVia)); err != nil {
		return fmt.Errorf("storing credential provider: %w", err)
	}
	if err := other.Delete(keyAccessToken); err != nil {
		return fmt.Errorf("clearing other tier: %w", err)
	}
	return other.Delete(keyAuthProvider)
}

// Clear removes the credential from both tiers along with the legacy username
// marker, so no stale signal can make the client look logged in.
func (s *TokenStore) Clear() error {
	for _, t := range []port.Tier{s.durable, s.session} {
		for _, key := range []string{keyAccessToken, keyAuthProvider, keyUsernameMarker} {
			if err := t.Delete(key); err != nil {
				return fmt.Errorf("clearing auth storage: %w", err)
			}
		}
	}
	return nil
}

// WriteUsernameMarker keeps the legacy identity marker in the same tier as
// the credential. Display-only; never gates access.
func (s *TokenStore) WriteUsernameMarker(username string, tier domain.Tier) error {
	selected, other := s.tier(tier)
	if err := selected.Set(keyUsernameMarker, username); err != nil {
		return fmt.Errorf("storing username marker: %w", err)
	}
	return other.Delete(keyUsernameMarker)
}

// UsernameMarker returns the legacy marker, durable tier first.
func (s *TokenStore) UsernameMarker() (string, bool) {
	for _, t := range []port.Tier{s.durable, s.session} {
		if v, ok := t.Get(keyUsernameMarker); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// SaveUsername remembers the login-form username across restarts. Independent
// of the authentication state.
func (s *TokenStore) SaveUsername(username string) error {
	return s.durable.Set(keySavedUsername, username)
}

// SavedUsername returns the remembered login-form username.
func (s *TokenStore) SavedUsername() (string, bool) {
	v, ok := s.durable.Get(keySavedUsername)
	return v, ok && v != ""
}

// ForgetSavedUsername removes the remembered login-form username.
func (s *TokenStore) ForgetSavedUsername() error {
	return s.durable.Delete(keySavedUsername)
}

// WriteLinkToken stores the social temp/confirm token. Durable by design:
// the link and confirm flows rebuild their state from a callback URL and must
// survive that reload.
func (s *TokenStore) WriteLinkToken(token string) error {
	return s.durable.Set(keyLinkToken, token)
}

// LinkToken returns the pending social temp/confirm token.
func (s *TokenStore) LinkToken() (string, bool) {
	v, ok := s.durable.Get(keyLinkToken)
	return v, ok && v != ""
}

// DeleteLinkToken consumes the temp token. Called exactly once per token, on
// whichever completion wins.
func (s *TokenStore) DeleteLinkToken() error {
	return s.durable.Delete(keyLinkToken)
}

// WritePendingConfirmation stashes the identity waiting on the confirm
// screen. Session tier: a closed client discards the question.
func (s *TokenStore) WritePendingConfirmation(p domain.PendingConfirmation) error {
	if err := s.session.Set(keyPendingProvider, string(p.Provider)); err != nil {
		return fmt.Errorf("storing pending provider: %w", err)
	}
	if err := s.session.Set(keyPendingName, p.DisplayName); err != nil {
		return fmt.Errorf("storing pending name: %w", err)
	}
	return s.session.Set(keyPendingEmail, p.Email)
}

// PendingConfirmation returns the stashed confirm-screen identity.
func (s *TokenStore) PendingConfirmation() (domain.PendingConfirmation, bool) {
	provider, ok := s.session.Get(keyPendingProvider)
	if !ok || provider == "" {
		return domain.PendingConfirmation{}, false
	}
	name, _ := s.session.Get(keyPendingName)
	email, _ := s.session.Get(keyPendingEmail)
	return domain.PendingConfirmation{
		Provider:    domain.Provider(provider),
		DisplayName: name,
		Email:       email,
	}, true
}

// DeletePendingConfirmation drops the stash, whichever way the user chose.
func (s *TokenStore) DeletePendingConfirmation() error {
	for _, key := range []string{keyPendingProvider, keyPendingName, keyPendingEmail} {
		if err := s.session.Delete(key); err != nil {
			return fmt.Errorf("clearing pending confirmation: %w", err)
		}
	}
	return nil
}

// StashWelcomeName saves the display name for the one-shot welcome message on
// the next screen.
func (s *TokenStore) StashWelcomeName(name string) error {
	return s.session.Set(keyWelcomeName, name)
}

// TakeWelcomeName reads and deletes the stashed welcome name.
func (s *TokenStore) TakeWelcomeName() (string, bool) {
	v, ok := s.session.Get(keyWelcomeName)
	if !ok || v == "" {
		return "", false
	}
	_ = s.session.Delete(keyWelcomeName)
	return v, true
}

// SetReturnTo remembers where a guard-forced login should land afterwards.
func (s *TokenStore) SetReturnTo(route domain.Route) error {
	return s.session.Set(keyReturnTo, string(route))
}

// TakeReturnTo reads and deletes the post-login destination.
func (s *TokenStore) TakeReturnTo() (domain.Route, bool) {
	v, ok := s.session.Get(keyReturnTo)
	if !ok || v == "" {
		return "", false
	}
	_ = s.session.Delete(keyReturnTo)
	return domain.Route(v), true
}

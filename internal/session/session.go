package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"nestboard/internal/domain"
	"nestboard/internal/port"
	"nestboard/internal/storage"
)

const profilePath = "/api/users/me"

// Manager owns the in-memory answer to "who is logged in". The stored
// credential is the authority; the profile is a cache rebuilt from the backend
// on every start. The legacy username marker only ever affects display.
type Manager struct {
	mu     sync.Mutex
	gw     port.Gateway
	tokens *storage.TokenStore
	state  domain.SessionState
}

// NewManager creates a manager with no session hydrated yet.
func NewManager(gw port.Gateway, tokens *storage.TokenStore) *Manager {
	return &Manager{gw: gw, tokens: tokens}
}

// Hydrate rebuilds the session state from storage. With no stored credential
// the state is anonymous regardless of any leftover username marker. With a
// credential it fetches the profile; a rejected token has already been handled
// by the gateway and yields an anonymous state, while a transport failure
// keeps the session authenticated with the profile missing.
func (m *Manager) Hydrate(ctx context.Context) (domain.SessionState, error) {
	if _, ok := m.tokens.Read(); !ok {
		m.setState(domain.SessionState{})
		return m.Current(), nil
	}

	body, err := m.gw.Get(ctx, profilePath)
	if err != nil {
		if errors.Is(err, domain.ErrSessionEnded) {
			m.setState(domain.SessionState{})
			return m.Current(), err
		}
		// Offline start: the credential is still the authority.
		log.Printf("session: profile fetch failed, continuing without profile: %v", err)
		m.setState(domain.SessionState{IsAuthenticated: true})
		return m.Current(), nil
	}

	profile := profileFromBody(body)
	m.setState(domain.SessionState{IsAuthenticated: true, Profile: profile})
	return m.Current(), nil
}

// Establish stores cred in the selected tier, mirrors the username marker next
// to it, and hydrates the profile. This is the single path every successful
// login funnels through.
func (m *Manager) Establish(ctx context.Context, cred domain.Credential, tier domain.Tier, username string) (domain.SessionState, error) {
	if err := m.tokens.Write(cred, tier); err != nil {
		return domain.SessionState{}, fmt.Errorf("establishing session: %w", err)
	}
	if username != "" {
		if err := m.tokens.WriteUsernameMarker(username, tier); err != nil {
			return domain.SessionState{}, fmt.Errorf("establishing session: %w", err)
		}
	}
	return m.Hydrate(ctx)
}

// End clears the credential from both tiers and resets the in-memory state.
func (m *Manager) End() error {
	m.setState(domain.SessionState{})
	if err := m.tokens.Clear(); err != nil {
		return fmt.Errorf("ending session: %w", err)
	}
	return nil
}

// Current returns the last hydrated state.
func (m *Manager) Current() domain.SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// DisplayName resolves what to show for the signed-in user: the profile wins,
// the legacy marker is the display-only fallback.
func (m *Manager) DisplayName() string {
	state := m.Current()
	if state.Profile != nil {
		name := domain.PickDisplayName(domain.Provider(state.Profile.Provider), domain.NameHints{
			DisplayName: state.Profile.DisplayName,
			Email:       state.Profile.Email,
			Username:    state.Profile.Username,
		})
		if name != "" {
			return name
		}
	}
	if marker, ok := m.tokens.UsernameMarker(); ok {
		return marker
	}
	return ""
}

func (m *Manager) setState(s domain.SessionState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s
}

// profileFromBody tolerates both a flat profile object and the data-wrapped
// envelope.
func profileFromBody(body any) *domain.Profile {
	m, ok := body.(map[string]any)
	if !ok {
		return nil
	}
	if nested, ok := m["data"].(map[string]any); ok {
		m = nested
	}
	str := func(key string) string {
		v, _ := m[key].(string)
		return v
	}
	return &domain.Profile{
		Username:    str("username"),
		Email:       str("email"),
		DisplayName: str("displayName"),
		Provider:    str("provider"),
	}
}

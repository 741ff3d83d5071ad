package guard

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"nestboard/internal/domain"
	"nestboard/internal/port"
	"nestboard/internal/storage"
)

// AuthGate decides whether a protected screen may open. The check is
// structural only: a stored token that looks like a JWT passes, and the
// backend remains the authority on whether it is actually still valid. No
// network call happens here, so opening a screen is never slowed down by a
// round trip.
type AuthGate struct {
	tokens *storage.TokenStore
	nav    port.Navigator
}

// NewAuthGate wires the gate against the token store and navigator.
func NewAuthGate(tokens *storage.TokenStore, nav port.Navigator) *AuthGate {
	return &AuthGate{tokens: tokens, nav: nav}
}

// Allow reports whether the protected route may open. On denial it remembers
// the attempted destination and navigates to login, so a later successful
// login can land where the user was headed.
func (g *AuthGate) Allow(to domain.Route) bool {
	cred, ok := g.tokens.Read()
	if !ok || !LooksLikeJWT(cred.Token) {
		_ = g.tokens.SetReturnTo(to)
		g.nav.Navigate(domain.RouteLogin)
		return false
	}
	return true
}

// LooksLikeJWT runs the structural screen: non-empty, not a serialized
// null/undefined left behind by an old client build, and parseable as a
// three-segment JWT. Signature and expiry are deliberately not checked.
func LooksLikeJWT(token string) bool {
	token = strings.TrimSpace(token)
	if token == "" || token == "null" || token == "undefined" {
		return false
	}
	if strings.Count(token, ".") != 2 {
		return false
	}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, jwt.MapClaims{}); err != nil {
		return false
	}
	return true
}

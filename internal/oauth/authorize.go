package oauth

import (
	"nestboard/internal/domain"
	"nestboard/internal/port"
)

// Authorizer starts a provider's authorization flow. The flow is a full
// hand-off: the user leaves for the provider's consent screen and comes back
// through the redirect callback, so there is nothing to await here.
type Authorizer struct {
	baseURL string
	nav     port.Navigator
}

// NewAuthorizer builds URLs against the backend at baseURL.
func NewAuthorizer(baseURL string, nav port.Navigator) *Authorizer {
	return &Authorizer{baseURL: baseURL, nav: nav}
}

// AuthorizeURL returns the backend endpoint that begins the provider flow.
// With force set the provider re-prompts for an account even when one is
// already signed in; the switch-account path depends on this.
func (a *Authorizer) AuthorizeURL(provider domain.Provider, force bool) string {
	u := a.baseURL + "/oauth2/authorization/" + string(provider)
	if force {
		u += "?force=1"
	}
	return u
}

// Start hands the user off to the provider.
func (a *Authorizer) Start(provider domain.Provider, force bool) {
	a.nav.OpenExternal(a.AuthorizeURL(provider, force))
}

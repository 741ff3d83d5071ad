package domain

// Credential is the bearer token for the current session together with the
// provider that issued it. It lives in exactly one storage tier at a time;
// the token store enforces that writing one tier clears the other.
type Credential struct {
	Token     string   `json:"token"`
	IssuedVia Provider `json:"issued_via"`
}

// Profile is the authenticated user's profile as returned by GET /api/users/me.
type Profile struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Provider    string `json:"provider"`
}

// PendingConfirmation holds the provider identity waiting on the
// "continue as this account?" decision. Session tier only; deleted the
// moment the user chooses either way.
type PendingConfirmation struct {
	Provider    Provider `json:"provider"`
	DisplayName string   `json:"displayName,omitempty"`
	Email       string   `json:"email,omitempty"`
}

// SessionState is the in-memory answer to "who is logged in". It is rebuilt
// from the stored credential plus a profile fetch on every start and is never
// persisted itself.
type SessionState struct {
	IsAuthenticated bool
	Profile         *Profile
}

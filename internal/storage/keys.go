package storage

// Storage keys. Key names are shared between tiers; tier membership is a
// policy decision made by TokenStore, not by the key.
const (
	keyAccessToken  = "access_token"
	keyAuthProvider = "auth_provider"

	// Legacy marker kept alongside the credential for backward compatibility.
	// Never an authentication signal on its own.
	keyUsernameMarker = "username"

	// Convenience value for prefilling the login form. Durable, independent
	// of the authentication state.
	keySavedUsername = "saved_username"

	// Social temp / confirm token. Always durable: the consuming flows reload
	// state from a callback URL.
	keyLinkToken = "social_temp_token"

	// Pending "continue as this account?" identity fields. Session tier.
	keyPendingProvider = "oauth2_pending_provider"
	keyPendingName     = "oauth2_pending_name"
	keyPendingEmail    = "oauth2_pending_email"

	// One-shot welcome name for the screen after a completed social login.
	keyWelcomeName = "oauth2_display_name"

	// Route to return to after a login forced by the route guard.
	keyReturnTo = "return_to"

	// Single-slot flash notice.
	keyFlash = "flash_toast"
)

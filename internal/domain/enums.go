package domain

// Provider identifies how a credential was issued.
type Provider string

const (
	ProviderPassword Provider = "password"
	ProviderGoogle   Provider = "google"
	ProviderKakao    Provider = "kakao"
	ProviderNaver    Provider = "naver"
)

// SocialProviders lists the providers reachable through the OAuth2
// authorization redirect, in display order.
var SocialProviders = []Provider{ProviderGoogle, ProviderKakao, ProviderNaver}

// ParseProvider normalizes a provider string from a callback query parameter.
// Unknown values map to the empty Provider.
func ParseProvider(s string) Provider {
	switch s {
	case "google", "GOOGLE":
		return ProviderGoogle
	case "kakao", "KAKAO":
		return ProviderKakao
	case "naver", "NAVER":
		return ProviderNaver
	case "password":
		return ProviderPassword
	}
	return Provider("")
}

// Tier selects one of the two credential storage tiers.
type Tier string

const (
	// TierDurable survives restarts until explicitly cleared ("keep login").
	TierDurable Tier = "durable"
	// TierSession lives for the current process only.
	TierSession Tier = "session"
)

// Route names a screen of the client. Navigation side effects are expressed
// against these, never against raw URLs.
type Route string

const (
	RouteHome        Route = "home"
	RouteLogin       Route = "login"
	RouteLinkAccount Route = "link-account"
	RouteConfirm     Route = "oauth-confirm"
)

// FlashCode is a one-shot notice delivered on the next screen after a
// navigation. The set is closed; consumers switch on it to pick a message.
type FlashCode string

const (
	FlashSessionExpired FlashCode = "SESSION_EXPIRED"
	FlashSessionInvalid FlashCode = "SESSION_INVALID"
	FlashLinkRequired   FlashCode = "LINK_REQUIRED"
	FlashLinkOK         FlashCode = "LINK_OK"
	FlashSocialLoginOK  FlashCode = "SOCIAL_LOGIN_OK"
	FlashFallback       FlashCode = "OAUTH2_FALLBACK"
)

// Callback status values sent by the backend's OAuth2 success handler.
const (
	CallbackStatusFail            = "FAIL"
	CallbackStatusLoginOK         = "LOGIN_OK"
	CallbackStatusLinkRequired    = "LINK_REQUIRED"
	CallbackStatusConfirmRequired = "CONFIRM_REQUIRED"
)

// Server error codes the gateway discriminates on.
const (
	CodeAuthExpiredToken = "AUTH_EXPIRED_TOKEN"
	CodeAuthInvalidToken = "AUTH_INVALID_TOKEN"
	CodeAuthUnauthorized = "AUTH_UNAUTHORIZED"
	CodeAccountLocked    = "ACCOUNT_LOCKED"
	CodeRequestTimeout   = "REQ_TIMEOUT"
	CodeNetworkError     = "NETWORK_ERROR"
)

package domain

// NameHints carries the identity fields a provider callback or profile fetch
// may supply. Any of them may be empty.
type NameHints struct {
	DisplayName string
	Email       string
	Username    string
}

// Provider fallback labels for a welcome message when the callback carried
// no usable identity fields at all.
var providerFallbackNames = map[Provider]string{
	ProviderGoogle: "Google user",
	ProviderKakao:  "Kakao user",
	ProviderNaver:  "Naver user",
}

// PickDisplayName resolves the one-shot welcome name for a completed login.
// Google accounts prefer the profile display name and fall back to the email;
// Kakao exposes only a nickname (carried in DisplayName); Naver prefers the
// display name and falls back to the email. Password logins show the username.
func PickDisplayName(provider Provider, hints NameHints) string {
	switch provider {
	case ProviderPassword:
		if hints.Username != "" {
			return hints.Username
		}
	case ProviderGoogle, ProviderNaver:
		if hints.DisplayName != "" {
			return hints.DisplayName
		}
		if hints.Email != "" {
			return hints.Email
		}
	case ProviderKakao:
		if hints.DisplayName != "" {
			return hints.DisplayName
		}
	}
	if name, ok := providerFallbackNames[provider]; ok {
		return name
	}
	return "member"
}

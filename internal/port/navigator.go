package port

import "nestboard/internal/domain"

// Navigator performs the client's navigation side effects. The gateway and
// the flows call it; they never render anything themselves.
type Navigator interface {
	// Navigate replaces the current screen.
	Navigate(to domain.Route)
	// OpenExternal leaves the client entirely, e.g. to start a provider's
	// authorization redirect.
	OpenExternal(rawURL string)
}

package main

import (
	"fmt"

	"nestboard/internal/domain"
)

// termNavigator is the terminal rendition of the Navigator port: navigation
// becomes a printed hint about which command to run next, and external URLs
// are printed for the user to open in a browser.
type termNavigator struct {
	// Last destination, so commands can react to a redirect a lower layer
	// performed (e.g. the gateway ending the session).
	last domain.Route
}

func newTermNavigator() *termNavigator {
	return &termNavigator{}
}

func (n *termNavigator) Navigate(to domain.Route) {
	n.last = to
	switch to {
	case domain.RouteLogin:
		fmt.Println("-> sign in with `nestboard login` (or `nestboard oauth <provider>`)")
	case domain.RouteHome:
		fmt.Println("-> signed in; see `nestboard whoami`")
	case domain.RouteLinkAccount:
		fmt.Println("-> account link required; continue with `nestboard link`")
	case domain.RouteConfirm:
		fmt.Println("-> confirmation required; continue with `nestboard confirm`")
	}
}

func (n *termNavigator) OpenExternal(rawURL string) {
	fmt.Printf("Open this URL in your browser to continue:\n\n  %s\n\n", rawURL)
}

// flashMessages maps notice codes to what the user sees.
var flashMessages = map[domain.FlashCode]string{
	domain.FlashSessionExpired: "Your session expired. Please sign in again.",
	domain.FlashSessionInvalid: "Your session is no longer valid. Please sign in again.",
	domain.FlashLinkRequired:   "An account with this email already exists. Link it to continue.",
	domain.FlashLinkOK:         "Accounts linked. You are signed in.",
	domain.FlashSocialLoginOK:  "Signed in with your social account.",
	domain.FlashFallback:       "Social sign-in did not complete. Please try again.",
}

// showFlash prints and consumes the pending notice, if any.
func (a *app) showFlash() {
	code, ok := a.flash.TakeIfPresent()
	if !ok {
		return
	}
	if msg, ok := flashMessages[code]; ok {
		fmt.Println(msg)
		return
	}
	fmt.Println(string(code))
}

package session

import (
	"github.com/safelease/accounts-web/internal/model"
)

// State is the lifecycle state of the browser session.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "uninitialized"
	}
}

// Session is the resolved per-browser session: at most one token pair and
// the cached user record behind it. Bootstrap always leaves it in either
// the authenticated or the anonymous state.
type Session struct {
	State   State
	User    *model.User
	Access  string
	Refresh string

	// TokensChanged is set when bootstrap rotated or cleared the token
	// pair, so the caller knows to write the slots back.
	TokensChanged bool
}

// Authenticated reports whether the session carries a usable access token.
func (s *Session) Authenticated() bool {
	return s != nil && s.State == StateAuthenticated
}

// HasUser reports whether the user record has been loaded. The public-only
// guard requires both a token and a loaded user.
func (s *Session) HasUser() bool {
	return s != nil && s.User != nil
}

// clear drops both tokens and the user. A refresh failure must never leave
// a stale access token behind.
func (s *Session) clear() {
	s.Access = ""
	s.Refresh = ""
	s.User = nil
	s.State = StateAnonymous
	s.TokensChanged = true
}

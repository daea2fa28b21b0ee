package session

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/safelease/accounts-web/internal/api"
	"github.com/safelease/accounts-web/internal/model"
)

// UserCache is an optional short-TTL cache of the current-user lookup,
// keyed by access token. A nil cache disables caching.
type UserCache interface {
	Get(ctx context.Context, accessToken string) (*model.User, bool)
	Set(ctx context.Context, accessToken string, user *model.User)
	Invalidate(ctx context.Context, accessToken string)
}

// Manager owns the session lifecycle: restore on load, login, token
// installation from the OTP flow, and the single refresh-and-retry policy
// for expired access tokens.
type Manager struct {
	api   *api.Client
	users UserCache
}

// NewManager creates a session manager over the API client. cache may be nil.
func NewManager(client *api.Client, cache UserCache) *Manager {
	return &Manager{api: client, users: cache}
}

// Bootstrap restores a session from the stored token pair. It resolves to
// authenticated or anonymous before returning; callers never observe the
// loading state.
//
// Policy: with an access token, fetch the current user; on failure refresh
// once and retry the fetch once. With only a refresh token, refresh first.
// Any refresh failure clears both slots.
func (m *Manager) Bootstrap(ctx context.Context, access, refresh string) *Session {
	sess := &Session{State: StateLoading, Access: access, Refresh: refresh}

	if access == "" && refresh == "" {
		sess.State = StateAnonymous
		return sess
	}

	// Spend the single refresh up front when the access token is missing
	// or its exp claim has already passed; the user fetch would only fail.
	refreshed := false
	if access == "" {
		if !m.refreshInto(ctx, sess) {
			return sess
		}
		refreshed = true
	} else if claims, err := DecodeClaims(access); err == nil && claims.Expired(time.Now()) {
		if !m.refreshInto(ctx, sess) {
			return sess
		}
		refreshed = true
	}

	user, err := m.fetchUser(ctx, sess.Access)
	if err == nil {
		sess.User = user
		sess.State = StateAuthenticated
		return sess
	}

	// One refresh, one retry. A second failure demotes to anonymous.
	if refreshed {
		log.Debug().Err(err).Msg("user fetch failed after refresh")
		sess.clear()
		return sess
	}
	if !m.refreshInto(ctx, sess) {
		return sess
	}
	user, err = m.fetchUser(ctx, sess.Access)
	if err != nil {
		log.Debug().Err(err).Msg("user fetch failed after refresh")
		sess.clear()
		return sess
	}
	sess.User = user
	sess.State = StateAuthenticated
	return sess
}

// Login exchanges credentials for a token pair. The authenticated state is
// only reached after the user fetch succeeds.
func (m *Manager) Login(ctx context.Context, email, password string) (*Session, error) {
	tokens, err := m.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	user, err := m.api.Me(ctx, tokens.Access)
	if err != nil {
		return nil, fmt.Errorf("fetch user after login: %w", err)
	}

	return &Session{
		State:         StateAuthenticated,
		User:          user,
		Access:        tokens.Access,
		Refresh:       tokens.Refresh,
		TokensChanged: true,
	}, nil
}

// SetTokens installs a token pair obtained through the OTP verification
// flow. The user record is fetched opportunistically; a fetch failure does
// not reject the tokens (the next bootstrap retries).
func (m *Manager) SetTokens(ctx context.Context, tokens *model.Tokens) *Session {
	sess := &Session{
		State:         StateAuthenticated,
		Access:        tokens.Access,
		Refresh:       tokens.Refresh,
		TokensChanged: true,
	}
	if user, err := m.fetchUser(ctx, tokens.Access); err == nil {
		sess.User = user
	}
	return sess
}

// Refresh exchanges the session's refresh token for a new access token.
// On any failure the whole session is cleared.
func (m *Manager) Refresh(ctx context.Context, sess *Session) error {
	if !m.refreshInto(ctx, sess) {
		return fmt.Errorf("session refresh failed")
	}
	return nil
}

// RefreshUser re-fetches the user record, bypassing the cache. Used after
// profile mutations so the nested profile stays current.
func (m *Manager) RefreshUser(ctx context.Context, sess *Session) error {
	if m.users != nil {
		m.users.Invalidate(ctx, sess.Access)
	}
	user, err := m.api.Me(ctx, sess.Access)
	if err != nil {
		return err
	}
	sess.User = user
	if m.users != nil {
		m.users.Set(ctx, sess.Access, user)
	}
	return nil
}

// refreshInto swaps in a new access token, or clears the session when the
// refresh token is missing, expired, or rejected.
func (m *Manager) refreshInto(ctx context.Context, sess *Session) bool {
	if sess.Refresh == "" {
		sess.clear()
		return false
	}
	access, err := m.api.Refresh(ctx, sess.Refresh)
	if err != nil {
		log.Debug().Err(err).Msg("token refresh failed")
		sess.clear()
		return false
	}
	sess.Access = access
	sess.TokensChanged = true
	return true
}

func (m *Manager) fetchUser(ctx context.Context, access string) (*model.User, error) {
	if m.users != nil {
		if user, ok := m.users.Get(ctx, access); ok {
			return user, nil
		}
	}
	user, err := m.api.Me(ctx, access)
	if err != nil {
		return nil, err
	}
	if m.users != nil {
		m.users.Set(ctx, access, user)
	}
	return user, nil
}

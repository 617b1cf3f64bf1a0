// Package session holds the client's authentication state: the access
// token, persisted through a kvstore, and the in-memory user profile.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/debtdesk/debtdesk/internal/cli/client"
	"github.com/debtdesk/debtdesk/internal/cli/kvstore"
	"github.com/debtdesk/debtdesk/internal/cli/router"
)

const (
	// TokenKey is the persisted key holding the raw access token
	TokenKey = "accessToken"
	// RefreshKey is the persisted key holding the refresh token issued at login
	RefreshKey = "refreshToken"
)

var (
	// ErrNoToken is returned by FetchUser when there is no token to fetch with
	ErrNoToken = errors.New("not authenticated")
	// ErrNoRefreshToken is returned by RefreshToken when login stored none
	ErrNoRefreshToken = errors.New("no refresh token stored")
	// ErrSuperseded is returned by FetchUser when a later SetToken, Logout or
	// FetchUser started while the request was in flight. Its outcome was dropped.
	ErrSuperseded = errors.New("profile fetch superseded")
)

// ProfileFetcher loads the profile of the current token holder
type ProfileFetcher interface {
	Me(ctx context.Context) (*client.User, error)
}

// Navigator receives the redirect issued on logout
type Navigator interface {
	Push(ctx context.Context, path string) (router.Location, error)
}

// Store is the session store. It is safe for concurrent use.
//
// Every SetToken, Logout and FetchUser start advances the epoch. A profile
// fetch only applies its outcome if the epoch is unchanged when the response
// arrives, so the last started operation wins rather than the last to finish.
type Store struct {
	kv  kvstore.Store
	log zerolog.Logger

	mu      sync.Mutex
	token   string
	user    *client.User
	epoch   uint64
	fetcher ProfileFetcher
	nav     Navigator
}

// New creates a session store seeded with the token persisted in kv
func New(ctx context.Context, kv kvstore.Store, log zerolog.Logger) (*Store, error) {
	s := &Store{
		kv:  kv,
		log: log.With().Str("component", "session").Logger(),
	}

	token, err := kv.Get(ctx, TokenKey)
	switch {
	case errors.Is(err, kvstore.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("failed to restore session: %w", err)
	default:
		s.token = token
	}

	return s, nil
}

// Attach wires the profile fetcher and navigator. The client and router
// both read the token from the store, so they are built after it.
func (s *Store) Attach(fetcher ProfileFetcher, nav Navigator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetcher = fetcher
	s.nav = nav
}

// Token returns the current access token, empty when unauthenticated
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User returns a copy of the loaded profile, nil until FetchUser succeeds
func (s *Store) User() *client.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Authenticated reports whether a token is held and its profile loaded
func (s *Store) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != "" && s.user != nil
}

// Expiry reads the exp claim of the token without verifying it.
// The token is opaque to the client; this is informational only.
func (s *Store) Expiry() (time.Time, bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// SetToken stores the token in memory and persistence, then fetches the
// profile. The token format is not validated.
func (s *Store) SetToken(ctx context.Context, token string) error {
	s.mu.Lock()
	s.epoch++
	s.token = token
	s.user = nil
	s.mu.Unlock()

	if err := s.kv.Set(ctx, TokenKey, token); err != nil {
		s.log.Error().Err(err).Msg("failed to persist access token")
		return fmt.Errorf("failed to save authentication token: %w", err)
	}

	return s.FetchUser(ctx)
}

// SetRefreshToken persists the refresh token. It is only read back by an
// explicit refresh, never by request sending.
func (s *Store) SetRefreshToken(ctx context.Context, refresh string) error {
	if err := s.kv.Set(ctx, RefreshKey, refresh); err != nil {
		s.log.Error().Err(err).Msg("failed to persist refresh token")
		return fmt.Errorf("failed to save refresh token: %w", err)
	}
	return nil
}

// RefreshToken returns the persisted refresh token
func (s *Store) RefreshToken(ctx context.Context) (string, error) {
	refresh, err := s.kv.Get(ctx, RefreshKey)
	switch {
	case errors.Is(err, kvstore.ErrNotFound), err == nil && refresh == "":
		return "", ErrNoRefreshToken
	case err != nil:
		return "", fmt.Errorf("failed to read refresh token: %w", err)
	}
	return refresh, nil
}

// FetchUser loads the profile for the current token. Without a token the
// session is logged out immediately and no request is sent. Any fetch
// failure is logged and followed by logout; nothing is retried.
func (s *Store) FetchUser(ctx context.Context) error {
	s.mu.Lock()
	token := s.token
	fetcher := s.fetcher
	s.epoch++
	epoch := s.epoch
	s.mu.Unlock()

	if token == "" {
		if err := s.Logout(ctx); err != nil {
			return err
		}
		return ErrNoToken
	}

	if fetcher == nil {
		return fmt.Errorf("session has no profile fetcher attached")
	}

	user, err := fetcher.Me(ctx)

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		s.log.Debug().Uint64("epoch", epoch).Msg("discarding stale profile response")
		return ErrSuperseded
	}
	if err == nil {
		s.user = user
		s.mu.Unlock()
		s.log.Debug().Str("user_id", user.ID).Msg("profile loaded")
		return nil
	}
	s.mu.Unlock()

	s.log.Error().Err(err).Msg("failed to load user profile")
	if logoutErr := s.Logout(ctx); logoutErr != nil {
		return errors.Join(err, logoutErr)
	}
	return fmt.Errorf("failed to load user profile: %w", err)
}

// Logout clears the token and profile, removes the persisted tokens and
// navigates to the login route. Calling it again is harmless.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.epoch++
	s.token = ""
	s.user = nil
	nav := s.nav
	s.mu.Unlock()

	if err := s.kv.Delete(ctx, TokenKey); err != nil {
		s.log.Error().Err(err).Msg("failed to remove persisted access token")
		return fmt.Errorf("failed to delete authentication token: %w", err)
	}
	if err := s.kv.Delete(ctx, RefreshKey); err != nil {
		s.log.Error().Err(err).Msg("failed to remove persisted refresh token")
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}

	if nav != nil {
		if _, err := nav.Push(ctx, router.PathLogin); err != nil {
			return fmt.Errorf("failed to redirect to login: %w", err)
		}
	}

	return nil
}

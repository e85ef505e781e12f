package redis

import (
	"context"
	"errors"
)

// SessionFlags is the per-user "was logged in" flag plus the backend access
// token received through the OAuth callback.
type SessionFlags struct {
	cache  *Cache
	userID int64
}

func (c *Cache) SessionFlags(userID int64) *SessionFlags {
	return &SessionFlags{cache: c, userID: userID}
}

func (s *SessionFlags) Get(ctx context.Context) (bool, error) {
	return s.cache.Exists(ctx, SessionFlagKey(s.userID))
}

func (s *SessionFlags) Set(ctx context.Context) error {
	return s.cache.SetString(ctx, SessionFlagKey(s.userID), "1", SessionTTL)
}

// Clear drops the flag only. The token survives transient refresh failures.
func (s *SessionFlags) Clear(ctx context.Context) error {
	return s.cache.Delete(ctx, SessionFlagKey(s.userID))
}

// ClearToken discards the stored access token.
func (s *SessionFlags) ClearToken(ctx context.Context) error {
	return s.cache.Delete(ctx, SessionTokenKey(s.userID))
}

// Token returns the stored access token, or "" when there is none.
func (s *SessionFlags) Token(ctx context.Context) (string, error) {
	token, err := s.cache.GetString(ctx, SessionTokenKey(s.userID))
	if errors.Is(err, ErrCacheMiss) {
		return "", nil
	}
	return token, err
}

func (s *SessionFlags) SetToken(ctx context.Context, token string) error {
	return s.cache.SetString(ctx, SessionTokenKey(s.userID), token, SessionTTL)
}

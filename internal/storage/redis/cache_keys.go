package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"editor-board/internal/models"
)

const (
	ListingsCacheTTL   = 5 * time.Minute
	RateLimitWindowTTL = 1 * time.Minute
	UserStateCacheTTL  = 30 * time.Minute
	FilterStateTTL     = 7 * 24 * time.Hour
	SessionTTL         = 30 * 24 * time.Hour
)

func ListingsKey(kind models.ListingKind) string {
	return fmt.Sprintf("listings:%s", kind)
}

func FilterStateKey(userID int64, kind models.ListingKind) string {
	return fmt.Sprintf("filters:user:%d:%s", userID, kind)
}

func RateLimitKey(userID int64) string {
	return fmt.Sprintf("ratelimit:user:%d", userID)
}

func UserStateKey(userID int64) string {
	return fmt.Sprintf("state:user:%d", userID)
}

func SessionFlagKey(userID int64) string {
	return fmt.Sprintf("session:user:%d:flag", userID)
}

func SessionTokenKey(userID int64) string {
	return fmt.Sprintf("session:user:%d:token", userID)
}

// GetListings returns the cached document, or ErrCacheMiss.
func (c *Cache) GetListings(ctx context.Context, kind models.ListingKind) ([]models.Listing, error) {
	var listings []models.Listing
	if err := c.Get(ctx, ListingsKey(kind), &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

func (c *Cache) SetListings(ctx context.Context, kind models.ListingKind, listings []models.Listing) error {
	return c.Set(ctx, ListingsKey(kind), listings, ListingsCacheTTL)
}

// GetFilterState returns the user's browsing state for one collection.
// A missing entry yields a fresh state on page 1.
func (c *Cache) GetFilterState(ctx context.Context, userID int64, kind models.ListingKind) (models.FilterState, error) {
	state := models.NewFilterState()
	err := c.Get(ctx, FilterStateKey(userID, kind), &state)
	if errors.Is(err, ErrCacheMiss) {
		return models.NewFilterState(), nil
	}
	if err != nil {
		return models.NewFilterState(), err
	}
	if state.Page < 1 {
		state.Page = 1
	}
	return state, nil
}

func (c *Cache) SetFilterState(ctx context.Context, userID int64, kind models.ListingKind, state models.FilterState) error {
	return c.Set(ctx, FilterStateKey(userID, kind), state, FilterStateTTL)
}

func (c *Cache) IncrementUserRateLimit(ctx context.Context, userID int64) (int64, error) {
	return c.IncrementWithExpiry(ctx, RateLimitKey(userID), RateLimitWindowTTL)
}

// SetUserState remembers what free-text input the user is expected to send next.
func (c *Cache) SetUserState(ctx context.Context, userID int64, state string) error {
	return c.SetString(ctx, UserStateKey(userID), state, UserStateCacheTTL)
}

func (c *Cache) GetUserState(ctx context.Context, userID int64) (string, error) {
	return c.GetString(ctx, UserStateKey(userID))
}

func (c *Cache) DeleteUserState(ctx context.Context, userID int64) error {
	return c.Delete(ctx, UserStateKey(userID))
}

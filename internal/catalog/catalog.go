// Package catalog serves the job and post documents with a short Redis cache
// in front of the backend and a Postgres snapshot behind it.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "editor-board/internal/errors"
	"editor-board/internal/models"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var ErrNoListings = apperrors.Unavailable("listings are unavailable", nil)

type Source interface {
	FetchListings(ctx context.Context, documentURL string, kind models.ListingKind) ([]models.Listing, error)
}

type Cache interface {
	GetListings(ctx context.Context, kind models.ListingKind) ([]models.Listing, error)
	SetListings(ctx context.Context, kind models.ListingKind, listings []models.Listing) error
}

type Snapshots interface {
	SaveSnapshot(ctx context.Context, kind models.ListingKind, listings []models.Listing) error
	LoadSnapshot(ctx context.Context, kind models.ListingKind) ([]models.Listing, time.Time, error)
}

type Catalog struct {
	source    Source
	cache     Cache
	snapshots Snapshots
	urls      map[models.ListingKind]string
	logger    *zap.Logger

	group singleflight.Group
}

func New(source Source, cache Cache, snapshots Snapshots, jobsURL, postsURL string, logger *zap.Logger) *Catalog {
	return &Catalog{
		source:    source,
		cache:     cache,
		snapshots: snapshots,
		urls: map[models.ListingKind]string{
			models.KindJob:  jobsURL,
			models.KindPost: postsURL,
		},
		logger: logger,
	}
}

// Listings returns the whole collection of the given kind. The result is shared
// with other callers and must not be modified.
func (c *Catalog) Listings(ctx context.Context, kind models.ListingKind) ([]models.Listing, error) {
	documentURL, ok := c.urls[kind]
	if !ok {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown listing kind %q", kind), nil)
	}

	cached, err := c.cache.GetListings(ctx, kind)
	if err == nil {
		return cached, nil
	}

	v, err, _ := c.group.Do(string(kind), func() (interface{}, error) {
		return c.refresh(ctx, kind, documentURL)
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Listing), nil
}

// Refresh bypasses the cache and reloads the document from the source.
func (c *Catalog) Refresh(ctx context.Context, kind models.ListingKind) ([]models.Listing, error) {
	documentURL, ok := c.urls[kind]
	if !ok {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown listing kind %q", kind), nil)
	}

	v, err, _ := c.group.Do(string(kind), func() (interface{}, error) {
		return c.refresh(ctx, kind, documentURL)
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Listing), nil
}

func (c *Catalog) refresh(ctx context.Context, kind models.ListingKind, documentURL string) ([]models.Listing, error) {
	listings, fetchErr := c.source.FetchListings(ctx, documentURL, kind)
	if fetchErr == nil {
		if err := c.cache.SetListings(ctx, kind, listings); err != nil {
			c.logger.Warn("failed to cache listings", zap.String("kind", string(kind)), zap.Error(err))
		}
		if err := c.snapshots.SaveSnapshot(ctx, kind, listings); err != nil {
			c.logger.Warn("failed to save listing snapshot", zap.String("kind", string(kind)), zap.Error(err))
		}
		return listings, nil
	}

	snapshot, savedAt, err := c.snapshots.LoadSnapshot(ctx, kind)
	if err != nil {
		c.logger.Error("failed to load listing snapshot", zap.String("kind", string(kind)), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrNoListings, errors.Join(fetchErr, err))
	}
	if snapshot == nil {
		return nil, fmt.Errorf("%w: %v", ErrNoListings, fetchErr)
	}

	c.logger.Warn("serving listing snapshot",
		zap.String("kind", string(kind)),
		zap.Time("saved_at", savedAt),
		zap.Int("count", len(snapshot)),
		zap.Error(fetchErr),
	)

	return snapshot, nil
}

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"editor-board/internal/models"

	"github.com/gocraft/dbr/v2"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type snapshotRow struct {
	Data    string    `db:"data"`
	SavedAt time.Time `db:"saved_at"`
}

// SaveSnapshot stores the last good copy of a listing document.
func (s *Store) SaveSnapshot(ctx context.Context, kind models.ListingKind, listings []models.Listing) error {
	data, err := json.Marshal(listings)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	// using plain SQL via InsertBySql for ON CONFLICT
	query := `
		INSERT INTO listing_snapshots (kind, data, item_count, saved_at)
		VALUES (?, ?::jsonb, ?, NOW())
		ON CONFLICT (kind) DO UPDATE SET
			data = EXCLUDED.data,
			item_count = EXCLUDED.item_count,
			saved_at = EXCLUDED.saved_at
	`

	_, err = s.sess.
		InsertBySql(query, string(kind), string(data), len(listings)).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to save listing snapshot",
			zap.String("kind", string(kind)),
			zap.Int("count", len(listings)),
			zap.Error(err),
		)
		return fmt.Errorf("save snapshot: %w", err)
	}

	return nil
}

// LoadSnapshot returns the stored document and when it was saved.
// A missing snapshot yields nil listings and a zero time.
func (s *Store) LoadSnapshot(ctx context.Context, kind models.ListingKind) ([]models.Listing, time.Time, error) {
	var row snapshotRow

	err := s.sess.
		Select("data::text AS data", "saved_at").
		From("listing_snapshots").
		Where("kind = ?", string(kind)).
		LoadOneContext(ctx, &row)

	if errors.Is(err, dbr.ErrNotFound) {
		return nil, time.Time{}, nil
	}

	if err != nil {
		s.logger.Error("failed to load listing snapshot",
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		return nil, time.Time{}, fmt.Errorf("load snapshot: %w", err)
	}

	var listings []models.Listing
	if err := json.Unmarshal([]byte(row.Data), &listings); err != nil {
		return nil, time.Time{}, fmt.Errorf("decode snapshot: %w", err)
	}

	return listings, row.SavedAt, nil
}

func (s *Store) MarkListingsSeen(ctx context.Context, userID int64, kind models.ListingKind, listingIDs []int64) error {
	if len(listingIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO user_seen_listings (user_id, kind, listing_id, seen_at)
		SELECT ?, ?, unnest(?::bigint[]), NOW()
		ON CONFLICT (user_id, kind, listing_id) DO NOTHING
	`

	_, err := s.sess.
		InsertBySql(query, userID, string(kind), pq.Array(listingIDs)).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to mark listings as seen",
			zap.Int64("user_id", userID),
			zap.String("kind", string(kind)),
			zap.Int("count", len(listingIDs)),
			zap.Error(err),
		)
		return fmt.Errorf("mark listings as seen: %w", err)
	}

	return nil
}

// GetUnseenListings returns the subset of listingIDs the user has not been sent,
// in the order they were given.
func (s *Store) GetUnseenListings(ctx context.Context, userID int64, kind models.ListingKind, listingIDs []int64) ([]int64, error) {
	if len(listingIDs) == 0 {
		return []int64{}, nil
	}

	var seen []int64

	_, err := s.sess.
		Select("listing_id").
		From("user_seen_listings").
		Where("user_id = ? AND kind = ? AND listing_id = ANY(?)", userID, string(kind), pq.Array(listingIDs)).
		LoadContext(ctx, &seen)

	if err != nil {
		s.logger.Error("failed to get unseen listings",
			zap.Int64("user_id", userID),
			zap.Int("total_listings", len(listingIDs)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get unseen listings: %w", err)
	}

	unseen := diffIDs(listingIDs, seen)

	s.logger.Debug("unseen listings",
		zap.Int64("user_id", userID),
		zap.Int("total", len(listingIDs)),
		zap.Int("unseen", len(unseen)),
	)

	return unseen, nil
}

func diffIDs(all, seen []int64) []int64 {
	seenSet := make(map[int64]struct{}, len(seen))
	for _, id := range seen {
		seenSet[id] = struct{}{}
	}

	out := make([]int64, 0, len(all))
	for _, id := range all {
		if _, ok := seenSet[id]; ok {
			continue
		}
		seenSet[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (s *Store) CleanOldSeenListings(ctx context.Context, olderThan time.Duration) (int64, error) {
	result, err := s.sess.
		DeleteFrom("user_seen_listings").
		Where("seen_at < ?", time.Now().Add(-olderThan)).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to clean old seen listings",
			zap.Duration("older_than", olderThan),
			zap.Error(err),
		)
		return 0, fmt.Errorf("clean old seen listings: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()

	s.logger.Info("old seen listings cleaned",
		zap.Duration("older_than", olderThan),
		zap.Int64("count", rowsAffected),
	)

	return rowsAffected, nil
}

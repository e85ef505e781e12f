package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"editor-board/internal/models"

	"github.com/gocraft/dbr/v2"
	"go.uber.org/zap"
)

// UpsertUser registers a Telegram user or refreshes their names.
// Notification settings of an existing user are left as they are.
func (s *Store) UpsertUser(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (id, username, first_name, last_name, created_at, check_enabled, notify_interval)
		VALUES (?, ?, ?, ?, NOW(), ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name
		RETURNING *
	`

	var stored models.User
	err := s.sess.
		SelectBySql(query, user.ID, user.Username, user.FirstName, user.LastName, user.CheckEnabled, user.NotifyInterval).
		LoadOneContext(ctx, &stored)

	if err != nil {
		s.logger.Error("failed to upsert user",
			zap.Int64("user_id", user.ID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	s.logger.Debug("user upserted",
		zap.Int64("user_id", stored.ID),
		zap.Stringp("username", stored.Username),
	)

	return &stored, nil
}

// GetUser returns nil, nil for an unknown user.
func (s *Store) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User

	err := s.sess.
		Select("*").
		From("users").
		Where("id = ?", userID).
		LoadOneContext(ctx, &user)

	if errors.Is(err, dbr.ErrNotFound) {
		return nil, nil
	}

	if err != nil {
		s.logger.Error("failed to get user",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (s *Store) updateUser(ctx context.Context, userID int64, column string, value interface{}) error {
	_, err := s.sess.
		Update("users").
		Set(column, value).
		Where("id = ?", userID).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to update user",
			zap.Int64("user_id", userID),
			zap.String("column", column),
			zap.Error(err),
		)
		return fmt.Errorf("update user %s: %w", column, err)
	}

	return nil
}

func (s *Store) UpdateLastCheck(ctx context.Context, userID int64) error {
	return s.updateUser(ctx, userID, "last_check", time.Now())
}

func (s *Store) SetCheckEnabled(ctx context.Context, userID int64, enabled bool) error {
	if err := s.updateUser(ctx, userID, "check_enabled", enabled); err != nil {
		return err
	}

	s.logger.Info("notifications toggled",
		zap.Int64("user_id", userID),
		zap.Bool("enabled", enabled),
	)
	return nil
}

func (s *Store) SetNotifyInterval(ctx context.Context, userID int64, intervalMinutes int) error {
	if err := s.updateUser(ctx, userID, "notify_interval", intervalMinutes); err != nil {
		return err
	}

	s.logger.Info("notify interval updated",
		zap.Int64("user_id", userID),
		zap.Int("interval", intervalMinutes),
	)
	return nil
}

// GetUsersToCheck returns users with notifications on whose interval has elapsed.
func (s *Store) GetUsersToCheck(ctx context.Context) ([]models.User, error) {
	var users []models.User

	query := `
		SELECT * FROM users
		WHERE check_enabled = true
		AND (
			last_check IS NULL
			OR NOW() - last_check >= make_interval(mins => notify_interval)
		)
		ORDER BY last_check NULLS FIRST
	`

	_, err := s.sess.
		SelectBySql(query).
		LoadContext(ctx, &users)

	if err != nil {
		s.logger.Error("failed to get users to check", zap.Error(err))
		return nil, fmt.Errorf("get users to check: %w", err)
	}

	s.logger.Debug("users to check", zap.Int("count", len(users)))

	return users, nil
}

type UserStats struct {
	FilterCount int `db:"filter_count"`
	SeenCount   int `db:"seen_count"`
}

func (s *Store) GetUserStats(ctx context.Context, userID int64) (*UserStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM user_filters WHERE user_id = ?) AS filter_count,
			(SELECT COUNT(*) FROM user_seen_listings WHERE user_id = ?) AS seen_count
	`

	var stats UserStats
	if err := s.sess.SelectBySql(query, userID, userID).LoadOneContext(ctx, &stats); err != nil {
		return nil, fmt.Errorf("get user stats: %w", err)
	}

	return &stats, nil
}

package postgres

import (
	"context"
	"fmt"

	"editor-board/internal/models"

	"go.uber.org/zap"
)

// SaveFilterState replaces the user's saved filters with the given state.
// The page cursor is not stored.
func (s *Store) SaveFilterState(ctx context.Context, userID int64, state models.FilterState) error {
	tx, err := s.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.RollbackUnlessCommitted()

	if _, err := tx.DeleteFrom("user_filters").Where("user_id = ?", userID).ExecContext(ctx); err != nil {
		s.logger.Error("failed to clear user filters",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return fmt.Errorf("clear user filters: %w", err)
	}

	rows := state.ToUserFilters(userID)
	if len(rows) > 0 {
		stmt := tx.InsertInto("user_filters").Columns("user_id", "filter_type", "filter_value")
		for _, row := range rows {
			stmt.Values(row.UserID, row.FilterType, row.FilterValue)
		}
		if _, err := stmt.ExecContext(ctx); err != nil {
			s.logger.Error("failed to save filters",
				zap.Int64("user_id", userID),
				zap.Int("count", len(rows)),
				zap.Error(err),
			)
			return fmt.Errorf("save filters: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit filters: %w", err)
	}

	s.logger.Info("filters saved",
		zap.Int64("user_id", userID),
		zap.Int("count", len(rows)),
	)

	return nil
}

func (s *Store) GetUserFilters(ctx context.Context, userID int64) ([]models.UserFilter, error) {
	var filters []models.UserFilter

	_, err := s.sess.
		Select("*").
		From("user_filters").
		Where("user_id = ?", userID).
		OrderBy("filter_type").
		LoadContext(ctx, &filters)

	if err != nil {
		s.logger.Error("failed to get user filters",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get user filters: %w", err)
	}

	return filters, nil
}

// LoadFilterState rebuilds the saved state on page 1.
func (s *Store) LoadFilterState(ctx context.Context, userID int64) (models.FilterState, error) {
	filters, err := s.GetUserFilters(ctx, userID)
	if err != nil {
		return models.NewFilterState(), err
	}

	filtersMap := make(map[string]string, len(filters))
	for _, filter := range filters {
		filtersMap[filter.FilterType] = filter.FilterValue
	}

	return models.FilterStateFromMap(filtersMap), nil
}

func (s *Store) ClearUserFilters(ctx context.Context, userID int64) error {
	result, err := s.sess.
		DeleteFrom("user_filters").
		Where("user_id = ?", userID).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to clear user filters",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return fmt.Errorf("clear user filters: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()

	s.logger.Info("user filters cleared",
		zap.Int64("user_id", userID),
		zap.Int64("count", rowsAffected),
	)

	return nil
}

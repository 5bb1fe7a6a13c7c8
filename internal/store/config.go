package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"storefront-service/internal/models"
)

// GetOrInitConfig returns the single store-configuration row, creating it
// with column defaults when absent. The singleton_key column is a CHECKed
// constant with a primary key on it, so concurrent first calls converge on
// one row: the losing insert hits the constraint and both read the same row.
func (s *Store) GetOrInitConfig(ctx context.Context) (*models.StoreConfig, error) {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO store_config (singleton_key) VALUES (TRUE) ON CONFLICT (singleton_key) DO NOTHING")
	if err != nil {
		return nil, fmt.Errorf("init store config: %w", err)
	}

	var cfg models.StoreConfig
	if err := s.db.GetContext(ctx, &cfg, "SELECT * FROM store_config WHERE singleton_key = TRUE"); err != nil {
		return nil, fmt.Errorf("read store config: %w", err)
	}
	return &cfg, nil
}

// UpdateConfig applies a partial update to the singleton row. Only the
// columns present in patch are touched; the caller is responsible for
// whitelisting them. Returns the updated row.
func (s *Store) UpdateConfig(ctx context.Context, patch map[string]any) (*models.StoreConfig, error) {
	if _, err := s.GetOrInitConfig(ctx); err != nil {
		return nil, err
	}
	if len(patch) == 0 {
		return s.GetOrInitConfig(ctx)
	}

	cols := make([]string, 0, len(patch))
	for col := range patch {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	sets := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols))
	for i, col := range cols {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, i+1))
		args = append(args, patch[col])
	}

	query := fmt.Sprintf(
		"UPDATE store_config SET %s WHERE singleton_key = TRUE RETURNING *",
		strings.Join(sets, ", "))

	var cfg models.StoreConfig
	if err := s.db.GetContext(ctx, &cfg, query, args...); err != nil {
		return nil, fmt.Errorf("update store config: %w", err)
	}
	return &cfg, nil
}

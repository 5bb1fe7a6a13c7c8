package store

import (
	"context"
	"database/sql"
	"fmt"

	"storefront-service/internal/models"
)

// GetAccountByEmail retrieves an account by exact email match. Reconciliation
// deliberately uses a stricter rule than order read access, so no lower()
// here.
func (s *Store) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	err := s.db.GetContext(ctx, &account, "SELECT * FROM accounts WHERE email = $1", email)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// ListAccounts retrieves all accounts for the staff directory view.
func (s *Store) ListAccounts(ctx context.Context) ([]models.Account, error) {
	accounts := []models.Account{}
	err := s.db.SelectContext(ctx, &accounts, "SELECT * FROM accounts ORDER BY created_at DESC")
	return accounts, err
}

// GetOrCreateProfile returns the account's profile, creating an empty one on
// first need. The insert is conflict-tolerant so concurrent callers agree.
func (s *Store) GetOrCreateProfile(ctx context.Context, accountID int64) (*models.AccountProfile, error) {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO account_profiles (account_id) VALUES ($1) ON CONFLICT (account_id) DO NOTHING",
		accountID)
	if err != nil {
		return nil, fmt.Errorf("init profile: %w", err)
	}

	var profile models.AccountProfile
	if err := s.db.GetContext(ctx, &profile,
		"SELECT * FROM account_profiles WHERE account_id = $1", accountID); err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	return &profile, nil
}

// BackfillProfileAddress fills the profile's address fields only while the
// address is still empty. First writer wins; a later call against a filled
// profile is a no-op. Returns whether the profile was updated.
func (s *Store) BackfillProfileAddress(ctx context.Context, accountID int64, phone, address, city, postalCode string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE account_profiles
		 SET phone = $2, address = $3, city = $4, postal_code = $5
		 WHERE account_id = $1 AND address = ''`,
		accountID, phone, address, city, postalCode)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpdateProfileAddress overwrites the profile's address fields. Used by the
// account's own explicit address update, unlike the reconciliation backfill.
func (s *Store) UpdateProfileAddress(ctx context.Context, accountID int64, phone, address, city, postalCode string) (*models.AccountProfile, error) {
	if _, err := s.GetOrCreateProfile(ctx, accountID); err != nil {
		return nil, err
	}

	var profile models.AccountProfile
	err := s.db.GetContext(ctx, &profile,
		`UPDATE account_profiles
		 SET phone = $2, address = $3, city = $4, postal_code = $5
		 WHERE account_id = $1
		 RETURNING *`,
		accountID, phone, address, city, postalCode)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &profile, nil
}

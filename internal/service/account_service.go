package service

import (
	"context"
	"errors"

	"storefront-service/internal/models"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// AccountDirectoryStore is the persistence surface for account endpoints.
type AccountDirectoryStore interface {
	AccountStore
	ListAccounts(ctx context.Context) ([]models.Account, error)
	UpdateProfileAddress(ctx context.Context, accountID int64, phone, address, city, postalCode string) (*models.AccountProfile, error)
}

// AccountService exposes the account directory: profile reads, explicit
// address updates, and the staff listing. Credential issuance happens
// elsewhere; this service only trusts the identity the middleware validated.
type AccountService struct {
	store  AccountDirectoryStore
	logger *zap.Logger
}

// NewAccountService creates a new account service
func NewAccountService(store AccountDirectoryStore) *AccountService {
	return &AccountService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// GetProfile returns the caller's profile, creating an empty one on first
// access.
func (s *AccountService) GetProfile(ctx context.Context, caller models.Caller) (*models.AccountProfile, error) {
	if caller.Email == "" {
		return nil, ErrForbidden
	}

	account, err := s.store.GetAccountByEmail(ctx, caller.Email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.store.GetOrCreateProfile(ctx, account.ID)
}

// AddressRequest is the explicit profile address update payload.
type AddressRequest struct {
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
}

// UpdateAddress overwrites the caller's profile address. Unlike the
// reconciliation backfill, an explicit update always wins.
func (s *AccountService) UpdateAddress(ctx context.Context, req *AddressRequest, caller models.Caller) (*models.AccountProfile, error) {
	if caller.Email == "" {
		return nil, ErrForbidden
	}

	account, err := s.store.GetAccountByEmail(ctx, caller.Email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	profile, err := s.store.UpdateProfileAddress(ctx, account.ID,
		req.Phone, req.Address, req.City, req.PostalCode)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Profile address updated", zap.Int64("account_id", account.ID))
	return profile, nil
}

// ListAccounts returns the account directory. Staff only.
func (s *AccountService) ListAccounts(ctx context.Context, caller models.Caller) ([]models.Account, error) {
	if !caller.Staff {
		return nil, ErrForbidden
	}
	return s.store.ListAccounts(ctx)
}

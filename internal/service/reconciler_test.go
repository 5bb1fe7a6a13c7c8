package service

import (
	"context"
	"errors"
	"testing"

	"storefront-service/internal/models"
	"storefront-service/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAccountStore struct {
	accounts map[string]*models.Account
	profiles map[int64]*models.AccountProfile

	lookupErr error
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{
		accounts: make(map[string]*models.Account),
		profiles: make(map[int64]*models.AccountProfile),
	}
}

func (f *fakeAccountStore) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	account, ok := f.accounts[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	return account, nil
}

func (f *fakeAccountStore) GetOrCreateProfile(ctx context.Context, accountID int64) (*models.AccountProfile, error) {
	if profile, ok := f.profiles[accountID]; ok {
		return profile, nil
	}
	profile := &models.AccountProfile{AccountID: accountID}
	f.profiles[accountID] = profile
	return profile, nil
}

func (f *fakeAccountStore) BackfillProfileAddress(ctx context.Context, accountID int64, phone, address, city, postalCode string) (bool, error) {
	profile := f.profiles[accountID]
	if profile == nil || profile.Address != "" {
		return false, nil
	}
	profile.Phone = phone
	profile.Address = address
	profile.City = city
	profile.PostalCode = postalCode
	return true, nil
}

func shippingDetails() models.JSONMap {
	return models.JSONMap{
		"address": "Calle 10 #5-25",
		"city":    "Bogota",
		"zip":     "110111",
		"phone":   "3001234567",
	}
}

func TestReconcileBackfillsEmptyProfile(t *testing.T) {
	fs := newFakeAccountStore()
	fs.accounts["laura@example.com"] = &models.Account{ID: 7, Email: "laura@example.com"}
	r := NewReconciler(fs)

	err := r.Reconcile(context.Background(), "laura@example.com", shippingDetails())
	require.NoError(t, err)

	profile := fs.profiles[7]
	require.NotNil(t, profile)
	assert.Equal(t, "Calle 10 #5-25", profile.Address)
	assert.Equal(t, "Bogota", profile.City)
	assert.Equal(t, "110111", profile.PostalCode)
	assert.Equal(t, "3001234567", profile.Phone)
}

// The first order to reach an empty profile wins; later orders never
// overwrite an address, whoever wrote it.
func TestReconcileKeepsExistingAddress(t *testing.T) {
	fs := newFakeAccountStore()
	fs.accounts["laura@example.com"] = &models.Account{ID: 7, Email: "laura@example.com"}
	fs.profiles[7] = &models.AccountProfile{AccountID: 7, Address: "Carrera 50 #20-10", City: "Medellin"}
	r := NewReconciler(fs)

	err := r.Reconcile(context.Background(), "laura@example.com", shippingDetails())
	require.NoError(t, err)

	assert.Equal(t, "Carrera 50 #20-10", fs.profiles[7].Address)
	assert.Equal(t, "Medellin", fs.profiles[7].City)
}

// The account link uses an exact email match, stricter than the
// case-insensitive rule on the read side.
func TestReconcileEmailMatchIsExact(t *testing.T) {
	fs := newFakeAccountStore()
	fs.accounts["laura@example.com"] = &models.Account{ID: 7, Email: "laura@example.com"}
	r := NewReconciler(fs)

	err := r.Reconcile(context.Background(), "LAURA@example.com", shippingDetails())
	require.NoError(t, err)

	_, created := fs.profiles[7]
	assert.False(t, created)
}

func TestReconcileNoAccount(t *testing.T) {
	fs := newFakeAccountStore()
	r := NewReconciler(fs)

	err := r.Reconcile(context.Background(), "guest@example.com", shippingDetails())
	assert.NoError(t, err)
	assert.Empty(t, fs.profiles)
}

func TestReconcileNoEmail(t *testing.T) {
	fs := newFakeAccountStore()
	r := NewReconciler(fs)

	err := r.Reconcile(context.Background(), "", shippingDetails())
	assert.NoError(t, err)
}

func TestReconcileNoShippingAddress(t *testing.T) {
	fs := newFakeAccountStore()
	fs.accounts["laura@example.com"] = &models.Account{ID: 7, Email: "laura@example.com"}
	r := NewReconciler(fs)

	err := r.Reconcile(context.Background(), "laura@example.com", models.JSONMap{"city": "Bogota"})
	require.NoError(t, err)
	assert.Equal(t, "", fs.profiles[7].Address)
}

func TestReconcilePostalCodeFallback(t *testing.T) {
	fs := newFakeAccountStore()
	fs.accounts["laura@example.com"] = &models.Account{ID: 7, Email: "laura@example.com"}
	r := NewReconciler(fs)

	shipping := models.JSONMap{
		"address":    "Calle 10 #5-25",
		"postalCode": "110111",
	}
	err := r.Reconcile(context.Background(), "laura@example.com", shipping)
	require.NoError(t, err)
	assert.Equal(t, "110111", fs.profiles[7].PostalCode)
}

func TestReconcileStoreError(t *testing.T) {
	fs := newFakeAccountStore()
	fs.lookupErr = errors.New("connection refused")
	r := NewReconciler(fs)

	err := r.Reconcile(context.Background(), "laura@example.com", shippingDetails())
	assert.Error(t, err)
}

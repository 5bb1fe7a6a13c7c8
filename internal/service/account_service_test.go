package service

import (
	"context"
	"testing"

	"storefront-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectoryStore struct {
	*fakeAccountStore
}

func newFakeDirectoryStore() *fakeDirectoryStore {
	return &fakeDirectoryStore{fakeAccountStore: newFakeAccountStore()}
}

func (f *fakeDirectoryStore) ListAccounts(ctx context.Context) ([]models.Account, error) {
	var out []models.Account
	for _, a := range f.accounts {
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeDirectoryStore) UpdateProfileAddress(ctx context.Context, accountID int64, phone, address, city, postalCode string) (*models.AccountProfile, error) {
	profile, err := f.GetOrCreateProfile(ctx, accountID)
	if err != nil {
		return nil, err
	}
	profile.Phone = phone
	profile.Address = address
	profile.City = city
	profile.PostalCode = postalCode
	return profile, nil
}

func TestGetProfileCreatesEmptyProfile(t *testing.T) {
	fs := newFakeDirectoryStore()
	fs.accounts["laura@example.com"] = &models.Account{ID: 7, Email: "laura@example.com"}
	svc := NewAccountService(fs)

	profile, err := svc.GetProfile(context.Background(), models.Caller{Email: "laura@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), profile.AccountID)
	assert.Equal(t, "", profile.Address)
}

func TestGetProfileRequiresIdentity(t *testing.T) {
	svc := NewAccountService(newFakeDirectoryStore())

	_, err := svc.GetProfile(context.Background(), models.Caller{})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGetProfileUnknownAccount(t *testing.T) {
	svc := NewAccountService(newFakeDirectoryStore())

	_, err := svc.GetProfile(context.Background(), models.Caller{Email: "ghost@example.com"})
	assert.ErrorIs(t, err, ErrNotFound)
}

// The explicit address update always overwrites, unlike the order backfill
// which yields to an existing address.
func TestUpdateAddressOverwrites(t *testing.T) {
	fs := newFakeDirectoryStore()
	fs.accounts["laura@example.com"] = &models.Account{ID: 7, Email: "laura@example.com"}
	fs.profiles[7] = &models.AccountProfile{AccountID: 7, Address: "Calle 10 #5-25", City: "Bogota"}
	svc := NewAccountService(fs)

	req := &AddressRequest{Address: "Carrera 50 #20-10", City: "Medellin", PostalCode: "050001"}
	profile, err := svc.UpdateAddress(context.Background(), req, models.Caller{Email: "laura@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Carrera 50 #20-10", profile.Address)
	assert.Equal(t, "Medellin", profile.City)
}

func TestListAccountsStaffOnly(t *testing.T) {
	fs := newFakeDirectoryStore()
	fs.accounts["laura@example.com"] = &models.Account{ID: 7, Email: "laura@example.com"}
	svc := NewAccountService(fs)

	_, err := svc.ListAccounts(context.Background(), models.Caller{Email: "laura@example.com"})
	assert.ErrorIs(t, err, ErrForbidden)

	accounts, err := svc.ListAccounts(context.Background(), models.Caller{Staff: true})
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

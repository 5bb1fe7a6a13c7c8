package service

import (
	"context"
	"testing"

	"storefront-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackMatch(t *testing.T) {
	fs := newFakeOrderStore()
	svc := NewTrackingService(fs)
	order := seedOrder(fs, "laura@example.com")

	got, err := svc.Track(context.Background(), order.ID, "laura@example.com")
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
}

func TestTrackEmailCaseInsensitive(t *testing.T) {
	fs := newFakeOrderStore()
	svc := NewTrackingService(fs)
	order := seedOrder(fs, "laura@example.com")

	got, err := svc.Track(context.Background(), order.ID, "  LAURA@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
}

// A wrong email, a missing order, and a guest order without an email must
// all fail with the same error so the endpoint leaks nothing about which
// factor was wrong.
func TestTrackFailuresAreIndistinguishable(t *testing.T) {
	fs := newFakeOrderStore()
	svc := NewTrackingService(fs)
	ctx := context.Background()

	order := seedOrder(fs, "laura@example.com")
	guest := seedOrder(fs, "")

	_, wrongEmail := svc.Track(ctx, order.ID, "other@example.com")
	_, missingOrder := svc.Track(ctx, 9999, "laura@example.com")
	_, noEmailOnOrder := svc.Track(ctx, guest.ID, "laura@example.com")
	_, emptyEmail := svc.Track(ctx, order.ID, "   ")

	assert.ErrorIs(t, wrongEmail, ErrNotFound)
	assert.ErrorIs(t, missingOrder, ErrNotFound)
	assert.ErrorIs(t, noEmailOnOrder, ErrNotFound)
	assert.ErrorIs(t, emptyEmail, ErrNotFound)

	assert.Equal(t, wrongEmail.Error(), missingOrder.Error())
	assert.Equal(t, wrongEmail.Error(), noEmailOnOrder.Error())
}

func TestTrackLoadsItems(t *testing.T) {
	fs := newFakeOrderStore()
	svc := NewTrackingService(fs)
	order := seedOrder(fs, "laura@example.com")
	fs.items[order.ID] = []models.OrderItem{{Name: "Hoodie Oversize", Quantity: 1}}

	got, err := svc.Track(context.Background(), order.ID, "laura@example.com")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Hoodie Oversize", got.Items[0].Name)
}

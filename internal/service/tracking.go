package service

import (
	"context"
	"errors"
	"strings"

	"storefront-service/internal/models"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// TrackingService is the public dual-factor order lookup. It never reveals
// whether an order id exists: a missing order and an email mismatch produce
// the same ErrNotFound.
type TrackingService struct {
	store  OrderStore
	logger *zap.Logger
}

// NewTrackingService creates a new tracking service
func NewTrackingService(store OrderStore) *TrackingService {
	return &TrackingService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// Track returns the canonical order view when both the order id and a
// case-insensitive email match. Any other combination fails identically.
func (t *TrackingService) Track(ctx context.Context, orderID int64, email string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "TrackingService.Track")
	defer span.End()

	email = strings.TrimSpace(email)
	if email == "" {
		util.TrackingLookupsTotal.WithLabelValues("miss").Inc()
		return nil, ErrNotFound
	}

	order, err := t.store.GetOrderByID(ctx, orderID)
	if errors.Is(err, store.ErrNotFound) {
		util.TrackingLookupsTotal.WithLabelValues("miss").Inc()
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if order.Email() == "" || !strings.EqualFold(order.Email(), email) {
		util.TrackingLookupsTotal.WithLabelValues("miss").Inc()
		return nil, ErrNotFound
	}

	items, err := t.store.GetOrderItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	util.TrackingLookupsTotal.WithLabelValues("hit").Inc()
	return order, nil
}

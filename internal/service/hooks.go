package service

import (
	"context"

	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// Mailer sends outbound transactional email.
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, event *models.OrderCreatedEvent) error
}

// PostOrderHooks bundles the best-effort side effects that follow a
// successful order creation. Normally the reconcile worker runs them off the
// order-created event; the order service falls back to running them inline
// when publishing fails. Every failure here is logged and swallowed, since
// the order's success response is already on its way.
type PostOrderHooks struct {
	reconciler *Reconciler
	mailer     Mailer
	logger     *zap.Logger
}

// NewPostOrderHooks creates the hook bundle. mailer may be nil when outbound
// email is not configured.
func NewPostOrderHooks(reconciler *Reconciler, mailer Mailer) *PostOrderHooks {
	return &PostOrderHooks{
		reconciler: reconciler,
		mailer:     mailer,
		logger:     util.GetLogger(),
	}
}

// Run executes reconciliation and the confirmation email for one order.
func (h *PostOrderHooks) Run(ctx context.Context, event *models.OrderCreatedEvent) {
	if err := h.reconciler.Reconcile(ctx, event.CustomerEmail, event.ShippingDetails); err != nil {
		h.logger.Error("Order reconciliation failed",
			zap.Int64("order_id", event.OrderID),
			zap.Error(err))
	}

	if h.mailer == nil || event.CustomerEmail == "" {
		return
	}
	if err := h.mailer.SendOrderConfirmation(ctx, event); err != nil {
		h.logger.Error("Order confirmation email failed",
			zap.Int64("order_id", event.OrderID),
			zap.Error(err))
		util.ConfirmationEmailsTotal.WithLabelValues("failed").Inc()
		return
	}
	util.ConfirmationEmailsTotal.WithLabelValues("sent").Inc()
}

package worker

import (
	"context"

	"storefront-service/internal/broker"
	"storefront-service/internal/models"
	"storefront-service/internal/service"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// EventDedupStore records which events have already been handled.
type EventDedupStore interface {
	IsEventProcessed(ctx context.Context, eventID string) (bool, error)
	MarkEventProcessed(ctx context.Context, eventID, eventType string) error
}

// OrderWorker consumes order-created events and runs the best-effort side
// effects (account reconciliation, confirmation email) off the request path.
type OrderWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	hooks        *service.PostOrderHooks
	dedup        EventDedupStore
	logger       *zap.Logger
}

// NewOrderWorker creates a new order worker
func NewOrderWorker(consumer *broker.Consumer, hooks *service.PostOrderHooks, dedup EventDedupStore) *OrderWorker {
	w := &OrderWorker{
		consumer: consumer,
		hooks:    hooks,
		dedup:    dedup,
		logger:   util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnOrderCreated(w.handleOrderCreated)
	w.eventHandler = eventHandler

	return w
}

func (w *OrderWorker) handleOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error {
	processed, err := w.dedup.IsEventProcessed(ctx, event.EventID)
	if err != nil {
		return err
	}
	if processed {
		w.logger.Debug("Skipping already processed event",
			zap.String("event_id", event.EventID))
		return nil
	}

	// Hooks are best-effort and swallow their own failures; the event is
	// marked processed regardless so a hook failure is not retried forever.
	w.hooks.Run(ctx, event)

	return w.dedup.MarkEventProcessed(ctx, event.EventID, event.EventType)
}

// Start starts the worker
func (w *OrderWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting order worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *OrderWorker) Stop() error {
	w.logger.Info("Stopping order worker")
	return w.consumer.Close()
}

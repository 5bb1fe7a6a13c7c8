package service

import (
	"context"
	"errors"

	"storefront-service/internal/models"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// AccountStore is the account-directory surface reconciliation needs.
type AccountStore interface {
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	GetOrCreateProfile(ctx context.Context, accountID int64) (*models.AccountProfile, error)
	BackfillProfileAddress(ctx context.Context, accountID int64, phone, address, city, postalCode string) (bool, error)
}

// Reconciler links a freshly created order to an existing account and
// backfills the account's address from the order's shipping details. The
// email match is exact, which is stricter than the case-insensitive rule
// used for read access; a mixed-case guest email will not link.
type Reconciler struct {
	accounts AccountStore
	logger   *zap.Logger
}

// NewReconciler creates a new reconciler
func NewReconciler(accounts AccountStore) *Reconciler {
	return &Reconciler{
		accounts: accounts,
		logger:   util.GetLogger(),
	}
}

// Reconcile runs once per created order. A nil error covers both "linked"
// and "nothing to do"; the caller swallows errors either way since this is a
// best-effort side channel outside the order's transactional guarantee.
func (r *Reconciler) Reconcile(ctx context.Context, email string, shipping models.JSONMap) error {
	ctx, span := util.StartSpan(ctx, "Reconciler.Reconcile")
	defer span.End()

	if email == "" {
		util.ReconcileRunsTotal.WithLabelValues("no_email").Inc()
		return nil
	}

	account, err := r.accounts.GetAccountByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		util.ReconcileRunsTotal.WithLabelValues("no_account").Inc()
		return nil
	}
	if err != nil {
		util.ReconcileRunsTotal.WithLabelValues("error").Inc()
		return err
	}

	profile, err := r.accounts.GetOrCreateProfile(ctx, account.ID)
	if err != nil {
		util.ReconcileRunsTotal.WithLabelValues("error").Inc()
		return err
	}

	if profile.Address != "" {
		util.ReconcileRunsTotal.WithLabelValues("kept_existing").Inc()
		return nil
	}

	address := shipping.String("address")
	if address == "" {
		util.ReconcileRunsTotal.WithLabelValues("no_address").Inc()
		return nil
	}
	postalCode := shipping.String("zip")
	if postalCode == "" {
		postalCode = shipping.String("postalCode")
	}

	updated, err := r.accounts.BackfillProfileAddress(ctx, account.ID,
		shipping.String("phone"), address, shipping.String("city"), postalCode)
	if err != nil {
		util.ReconcileRunsTotal.WithLabelValues("error").Inc()
		return err
	}

	if updated {
		r.logger.Info("Backfilled account address from order",
			zap.Int64("account_id", account.ID))
		util.ReconcileRunsTotal.WithLabelValues("backfilled").Inc()
	} else {
		util.ReconcileRunsTotal.WithLabelValues("kept_existing").Inc()
	}
	return nil
}

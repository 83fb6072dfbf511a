package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"CashLedger/internal/entity"
	"CashLedger/internal/event"
	"CashLedger/internal/observability"
	"CashLedger/internal/store"
)

// AccountReconciler runs a full balance and portfolio reconciliation for
// one account at one event.
type AccountReconciler struct {
	store     store.Store
	balances  *BalanceReconciler
	portfolio *PortfolioDiffEngine
	metrics   *observability.Metrics
	log       zerolog.Logger
}

// NewAccountReconciler wires the balance and portfolio reconcilers.
// Metrics may be nil in tests.
func NewAccountReconciler(s store.Store, balances *BalanceReconciler, portfolio *PortfolioDiffEngine, metrics *observability.Metrics, log zerolog.Logger) *AccountReconciler {
	return &AccountReconciler{store: s, balances: balances, portfolio: portfolio, metrics: metrics, log: log}
}

// GetAccount loads an account, creating an empty one on first sight.
// Accounts are never deleted.
func (r *AccountReconciler) GetAccount(ctx context.Context, address string) (*entity.Account, error) {
	account, err := store.LoadAccount(ctx, r.store, address)
	if errors.Is(err, store.ErrNotFound) {
		return &entity.Account{
			ID:        address,
			Balances:  []string{},
			Portfolio: []string{},
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load account %s: %w", address, err)
	}
	return account, nil
}

// UpdateAccount reconciles the account's balances and portfolio against
// the ledger, stamps and persists the account and returns both diff
// lists. Callers must invoke this before reading any balance or position
// state for the account within the same event; the stored copy may be
// stale until then.
func (r *AccountReconciler) UpdateAccount(ctx context.Context, address string, meta event.Meta) (Changes, error) {
	account, err := r.GetAccount(ctx, address)
	if err != nil {
		return Changes{}, err
	}

	balanceChanges, err := r.balances.Reconcile(ctx, account, meta)
	if err != nil {
		return Changes{}, fmt.Errorf("reconcile balances of %s: %w", address, err)
	}

	positionChanges, err := r.portfolio.Reconcile(ctx, account, meta)
	if err != nil {
		return Changes{}, fmt.Errorf("reconcile portfolio of %s: %w", address, err)
	}

	account.Stamp(meta)
	if err := r.store.Upsert(ctx, account); err != nil {
		return Changes{}, fmt.Errorf("upsert account %s: %w", address, err)
	}

	if r.metrics != nil {
		r.metrics.AccountsReconciled.Inc()
		r.metrics.BalanceChanges.Add(float64(len(balanceChanges)))
		r.metrics.PositionChanges.Add(float64(len(positionChanges)))
	}

	r.log.Debug().
		Str("account", address).
		Int("balanceChanges", len(balanceChanges)).
		Int("positionChanges", len(positionChanges)).
		Msg("account reconciled")
	return Changes{
		BalanceChanges:  balanceChanges,
		PositionChanges: positionChanges,
	}, nil
}

package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"CashLedger/internal/chain"
	"CashLedger/internal/entity"
	"CashLedger/internal/event"
	"CashLedger/internal/refdata"
	"CashLedger/internal/store"
)

// BalanceReconciler recomputes every currency balance of an account from
// the ledger and prunes balances that returned to zero.
type BalanceReconciler struct {
	store  store.Store
	ledger chain.LedgerClient
	log    zerolog.Logger
}

func NewBalanceReconciler(s store.Store, ledger chain.LedgerClient, log zerolog.Logger) *BalanceReconciler {
	return &BalanceReconciler{store: s, ledger: ledger, log: log}
}

// Reconcile walks the contiguous currency id space [0, max], overwrites
// each stored balance with the ledger's value and reports every delta.
// It rewrites account.Balances to list exactly the non-zero balances in
// increasing currency order. The account itself is not persisted here.
func (r *BalanceReconciler) Reconcile(ctx context.Context, account *entity.Account, meta event.Meta) ([]BalanceChange, error) {
	maxCurrencyID, err := r.ledger.MaxCurrencyID(ctx)
	if err != nil {
		return nil, fmt.Errorf("query max currency id: %w", err)
	}

	var diffs []BalanceChange
	balances := make([]string, 0, len(account.Balances))

	for currencyID := int32(0); currencyID <= maxCurrencyID; currencyID++ {
		currency := refdata.CurrencyID(currencyID)
		id := entity.CurrencyBalanceID(account.ID, currency)

		balance, err := store.LoadCurrencyBalance(ctx, r.store, id)
		if errors.Is(err, store.ErrNotFound) {
			balance = &entity.CurrencyBalance{ID: id, Currency: currency}
		} else if err != nil {
			return nil, fmt.Errorf("load currency balance %s: %w", id, err)
		}
		before := balance.CashBalance

		current, err := r.ledger.BalanceOf(ctx, currencyID, account.ID)
		if err != nil {
			return nil, fmt.Errorf("query balance of %s in currency %s: %w", account.ID, currency, err)
		}
		balance.CashBalance = current
		balance.Stamp(meta)

		if !current.Equal(before) {
			diffs = append(diffs, BalanceChange{
				BalanceID: id,
				Currency:  currency,
				Delta:     current.Sub(before),
			})
		}

		if current.IsZero() {
			if err := r.store.Delete(ctx, entity.KindCurrencyBalance, id); err != nil {
				return nil, fmt.Errorf("delete currency balance %s: %w", id, err)
			}
			continue
		}

		if err := r.store.Upsert(ctx, balance); err != nil {
			return nil, fmt.Errorf("upsert currency balance %s: %w", id, err)
		}
		balances = append(balances, id)
	}

	account.Balances = balances

	r.log.Debug().
		Str("account", account.ID).
		Int("balances", len(balances)).
		Int("deltas", len(diffs)).
		Msg("balances reconciled")
	return diffs, nil
}

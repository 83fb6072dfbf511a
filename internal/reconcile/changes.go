// Package reconcile rebuilds an account's balances and portfolio from
// the ledger, diffs them against the stored copies and reports every
// difference as a change record. The ledger is the source of truth; the
// store only ever holds the last reconciled snapshot.
package reconcile

import (
	"github.com/shopspring/decimal"

	"CashLedger/internal/entity"
)

// BalanceChange reports one currency balance that moved during
// reconciliation.
type BalanceChange struct {
	BalanceID string
	Currency  string
	Delta     decimal.Decimal
}

// PositionChange reports one position that was added, removed, modified
// or netted during reconciliation. NetCashChange is zero for
// reconciliation-driven diffs; only explicit trade handlers supply it.
type PositionChange struct {
	PositionID    string
	Market        string
	PositionType  entity.PositionType
	Maturity      int64
	NotionalDelta decimal.Decimal
	NetCashChange decimal.Decimal
}

// Changes carries both diff lists out of one reconciliation pass. It is
// a plain value owned by the caller, consumed within the same event.
type Changes struct {
	BalanceChanges  []BalanceChange
	PositionChanges []PositionChange
}

package history

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"CashLedger/internal/entity"
	"CashLedger/internal/event"
	"CashLedger/internal/observability"
	"CashLedger/internal/reconcile"
	"CashLedger/internal/refdata"
	"CashLedger/internal/store"
)

// Apportioner derives the realized collateral amount and exchange rate
// of a forced liquidation or settlement from the balance deltas it
// produced, and links every position change it caused to a trade record.
type Apportioner struct {
	store    store.Store
	trades   *TradeRecorder
	accounts *reconcile.AccountReconciler
	refdata  *refdata.Service
	metrics  *observability.Metrics
	log      zerolog.Logger
}

// NewApportioner builds an apportioner. Metrics may be nil in tests.
func NewApportioner(s store.Store, trades *TradeRecorder, accounts *reconcile.AccountReconciler, rd *refdata.Service, metrics *observability.Metrics, log zerolog.Logger) *Apportioner {
	return &Apportioner{store: s, trades: trades, accounts: accounts, refdata: rd, metrics: metrics, log: log}
}

// RecordLiquidation writes the liquidation record for one forced
// collateral purchase, apportioned from the liquidated account's changes.
func (a *Apportioner) RecordLiquidation(
	ctx context.Context,
	meta event.Meta,
	liquidator, liquidatedAccount string,
	localCurrency, collateralCurrency string,
	liquidatedAmount decimal.Decimal,
	changes reconcile.Changes,
) error {
	id := fmt.Sprintf("%s:%s:%d", liquidatedAccount, meta.TransactionHash, meta.LogIndex)

	l := &entity.Liquidation{
		ID:                 id,
		Liquidator:         liquidator,
		LiquidatedAccount:  liquidatedAccount,
		LocalCurrency:      localCurrency,
		CollateralCurrency: collateralCurrency,
		LiquidatedAmount:   liquidatedAmount,
		Origin:             entity.OriginOf(meta),
	}

	l.CollateralPurchased = collateralPurchased(collateralCurrency, changes.BalanceChanges)
	if !l.CollateralPurchased.IsZero() {
		er := truncDiv(liquidatedAmount, l.CollateralPurchased)
		l.ExchangeRate = &er
	}

	traded, err := a.recordPositionTrades(ctx, meta, changes.PositionChanges, liquidatedAccount)
	if err != nil {
		return fmt.Errorf("liquidation %s: %w", id, err)
	}
	l.PositionsTraded = traded

	if err := a.store.Upsert(ctx, l); err != nil {
		return fmt.Errorf("upsert liquidation %s: %w", id, err)
	}

	if a.metrics != nil {
		a.metrics.LiquidationsRecorded.Inc()
	}

	a.log.Info().
		Str("liquidation", id).
		Str("liquidatedAccount", liquidatedAccount).
		Msg("liquidation recorded")
	return nil
}

// RecordSettlement writes the settlement record for one forced cash
// settlement, apportioned from the payer's changes. It additionally
// reconciles the system reserve account to detect whether the reserve
// was drawn on.
func (a *Apportioner) RecordSettlement(
	ctx context.Context,
	meta event.Meta,
	settler, payer string,
	localCurrency, collateralCurrency string,
	settledAmount decimal.Decimal,
	changes reconcile.Changes,
) error {
	id := fmt.Sprintf("%s:%s:%d", payer, meta.TransactionHash, meta.LogIndex)

	s := &entity.Settlement{
		ID:                 id,
		SettleAccount:      settler,
		PayerAccount:       payer,
		LocalCurrency:      localCurrency,
		CollateralCurrency: collateralCurrency,
		SettledAmount:      settledAmount,
		Origin:             entity.OriginOf(meta),
	}

	s.CollateralPurchased = collateralPurchased(collateralCurrency, changes.BalanceChanges)
	if !s.CollateralPurchased.IsZero() {
		er := truncDiv(settledAmount, s.CollateralPurchased)
		s.ExchangeRate = &er
	}

	traded, err := a.recordPositionTrades(ctx, meta, changes.PositionChanges, payer)
	if err != nil {
		return fmt.Errorf("settlement %s: %w", id, err)
	}
	s.PositionsTraded = traded

	used, err := a.reserveAccountUsed(ctx, meta)
	if err != nil {
		return fmt.Errorf("settlement %s: %w", id, err)
	}
	s.ReserveAccountUsed = used

	if err := a.store.Upsert(ctx, s); err != nil {
		return fmt.Errorf("upsert settlement %s: %w", id, err)
	}

	if a.metrics != nil {
		a.metrics.SettlementsRecorded.Inc()
	}

	a.log.Info().
		Str("settlement", id).
		Str("payer", payer).
		Bool("reserveAccountUsed", used).
		Msg("settlement recorded")
	return nil
}

// collateralPurchased is the negated balance delta of the collateral
// currency. The account's own delta is the inverse of what the forcing
// party purchased from it; no matching delta means nothing was purchased.
func collateralPurchased(collateralCurrency string, balanceChanges []reconcile.BalanceChange) decimal.Decimal {
	for _, c := range balanceChanges {
		if c.Currency == collateralCurrency {
			return c.Delta.Neg()
		}
	}
	return decimal.Zero
}

// recordPositionTrades writes one trade record per position change and
// returns the trade ids in change order.
func (a *Apportioner) recordPositionTrades(ctx context.Context, meta event.Meta, changes []reconcile.PositionChange, account string) ([]string, error) {
	var traded []string
	for _, c := range changes {
		market, err := store.LoadMarket(ctx, a.store, c.Market)
		if err != nil {
			return nil, fmt.Errorf("market %s for position %s: %w", c.Market, c.PositionID, err)
		}

		tradeID, err := a.trades.RecordTrade(ctx, meta, market.Address, c.PositionType, c.NotionalDelta, c.NetCashChange, c.Maturity, decimal.Zero, account)
		if err != nil {
			return nil, err
		}
		traded = append(traded, tradeID)
	}
	return traded, nil
}

// reserveAccountUsed reconciles the configured reserve account against
// the ledger; any balance movement means the reserve covered part of the
// settlement.
func (a *Apportioner) reserveAccountUsed(ctx context.Context, meta event.Meta) (bool, error) {
	cfg, err := a.refdata.Config(ctx)
	if err != nil {
		return false, err
	}
	if cfg.ReserveAccount == "" {
		return false, nil
	}

	changes, err := a.accounts.UpdateAccount(ctx, cfg.ReserveAccount, meta)
	if err != nil {
		return false, fmt.Errorf("reconcile reserve account %s: %w", cfg.ReserveAccount, err)
	}
	return len(changes.BalanceChanges) > 0, nil
}

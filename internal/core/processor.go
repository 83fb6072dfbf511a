// Package core is the single-threaded event processor. One inbound
// event is fully reconciled, including every nested account
// reconciliation it triggers, before the next is considered; the event
// stream is the sole serialization point.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"CashLedger/internal/chain"
	"CashLedger/internal/entity"
	"CashLedger/internal/event"
	"CashLedger/internal/history"
	"CashLedger/internal/observability"
	"CashLedger/internal/reconcile"
	"CashLedger/internal/refdata"
	"CashLedger/internal/store"
)

// Processor reconciles one event at a time against the ledger and the
// entity store.
type Processor struct {
	store       store.Store
	ledger      chain.LedgerClient
	refdata     *refdata.Service
	accounts    *reconcile.AccountReconciler
	trades      *history.TradeRecorder
	apportioner *history.Apportioner
	metrics     *observability.Metrics
	log         zerolog.Logger
}

// NewProcessor wires the reconcilers and recorders around one store and
// one ledger client. Metrics may be nil in tests.
func NewProcessor(s store.Store, ledger chain.LedgerClient, metrics *observability.Metrics) *Processor {
	rd := refdata.NewService(s, ledger, observability.NewLogger("refdata"))
	balances := reconcile.NewBalanceReconciler(s, ledger, observability.NewLogger("reconcile"))
	portfolio := reconcile.NewPortfolioDiffEngine(s, ledger, rd, observability.NewLogger("reconcile"))
	accounts := reconcile.NewAccountReconciler(s, balances, portfolio, metrics, observability.NewLogger("reconcile"))
	trades := history.NewTradeRecorder(s, ledger, rd, metrics, observability.NewLogger("history"))
	apportioner := history.NewApportioner(s, trades, accounts, rd, metrics, observability.NewLogger("history"))

	return &Processor{
		store:       s,
		ledger:      ledger,
		refdata:     rd,
		accounts:    accounts,
		trades:      trades,
		apportioner: apportioner,
		metrics:     metrics,
		log:         observability.NewLogger("core"),
	}
}

// ProcessEvent fully processes one inbound event. A returned error means
// the event's effects must be rolled back by the surrounding store
// transaction and the event redelivered.
func (p *Processor) ProcessEvent(ctx context.Context, evt event.Event) error {
	start := time.Now()
	eventType := evt.EventKind().String()

	err := p.dispatchEvent(ctx, evt)

	if p.metrics != nil {
		p.metrics.EventDuration.WithLabelValues(eventType).Observe(time.Since(start).Seconds())
		if err != nil {
			p.metrics.EventsFailed.WithLabelValues(eventType).Inc()
		} else {
			p.metrics.EventsProcessed.WithLabelValues(eventType).Inc()
		}
	}

	if err != nil {
		p.log.Error().
			Err(err).
			Str("eventType", eventType).
			Int64("block", evt.EventMeta().BlockNumber).
			Str("tx", evt.EventMeta().TransactionHash).
			Msg("event processing failed")
		return fmt.Errorf("process %s: %w", eventType, err)
	}
	return nil
}

func (p *Processor) dispatchEvent(ctx context.Context, evt event.Event) error {
	switch e := evt.(type) {
	case *event.Deposit:
		return p.handleDeposit(ctx, e)
	case *event.Withdraw:
		return p.handleWithdraw(ctx, e)
	case *event.AddLiquidity:
		return p.handleAddLiquidity(ctx, e)
	case *event.RemoveLiquidity:
		return p.handleRemoveLiquidity(ctx, e)
	case *event.TakeCash:
		return p.handleTakeCash(ctx, e)
	case *event.TakePosition:
		return p.handleTakePosition(ctx, e)
	case *event.TransferSingle:
		return p.handleTransferSingle(ctx, e)
	case *event.TransferBatch:
		return p.handleTransferBatch(ctx, e)
	case *event.Liquidate:
		return p.handleLiquidate(ctx, e)
	case *event.LiquidateBatch:
		return p.handleLiquidateBatch(ctx, e)
	case *event.SettleCash:
		return p.handleSettleCash(ctx, e)
	case *event.SettleCashBatch:
		return p.handleSettleCashBatch(ctx, e)
	case *event.SettlePortfolio:
		return p.handleSettlePortfolio(ctx, e)
	case *event.SettlePortfolioBatch:
		return p.handleSettlePortfolioBatch(ctx, e)
	case *event.NewCurrency:
		return p.refdata.UpdateCurrency(ctx, e.TokenAddress, e.Meta)
	case *event.UpdateExchangeRate:
		return p.refdata.UpdateExchangeRate(ctx, e.Base, e.Quote, e.Meta)
	case *event.NewGroup:
		return p.refdata.UpdateGroup(ctx, e.GroupID, e.Meta)
	case *event.UpdateGroup:
		return p.refdata.UpdateGroup(ctx, e.GroupID, e.Meta)
	case *event.UpdateRateFactors:
		return p.refdata.MutateGroupByMarket(ctx, e.MarketAddress, e.Meta, func(g *entity.Group) {
			g.RateAnchor = e.RateAnchor
			g.RateScalar = e.RateScalar
		})
	case *event.UpdateMaxTradeSize:
		return p.refdata.MutateGroupByMarket(ctx, e.MarketAddress, e.Meta, func(g *entity.Group) {
			g.MaxTradeSize = e.MaxTradeSize
		})
	case *event.UpdateFees:
		return p.refdata.MutateGroupByMarket(ctx, e.MarketAddress, e.Meta, func(g *entity.Group) {
			g.LiquidityFee = e.LiquidityFee
			g.TransactionFee = e.TransactionFee
		})
	case *event.SetDiscounts:
		return p.refdata.MutateConfig(ctx, e.Meta, func(c *entity.SystemConfig) {
			c.SettlementDiscount = e.SettlementDiscount
			c.RepoIncentive = e.RepoIncentive
		})
	case *event.SetReserveAccount:
		return p.refdata.MutateConfig(ctx, e.Meta, func(c *entity.SystemConfig) {
			c.ReserveAccount = e.ReserveAccount
		})
	case *event.SetHaircuts:
		return p.refdata.MutateConfig(ctx, e.Meta, func(c *entity.SystemConfig) {
			c.LiquidityHaircut = e.LiquidityHaircut
			c.PositionHaircut = e.PositionHaircut
			c.PositionMaxHaircut = e.PositionMaxHaircut
		})
	case *event.SetMaxPositions:
		return p.refdata.MutateConfig(ctx, e.Meta, func(c *entity.SystemConfig) {
			c.MaxPositions = e.MaxPositions
		})
	case *event.OracleAnswer:
		return p.refdata.SetOracleAnswer(ctx, e.OracleAddress, e.Answer, e.Meta)
	default:
		return fmt.Errorf("unknown event kind %s", evt.EventKind())
	}
}

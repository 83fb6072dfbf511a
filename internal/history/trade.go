package history

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"CashLedger/internal/chain"
	"CashLedger/internal/entity"
	"CashLedger/internal/event"
	"CashLedger/internal/observability"
	"CashLedger/internal/refdata"
	"CashLedger/internal/store"
)

// TradeRecorder converts one position-level economic event into an
// immutable trade record with derived rate analytics.
type TradeRecorder struct {
	store   store.Store
	ledger  chain.LedgerClient
	refdata *refdata.Service
	metrics *observability.Metrics
	log     zerolog.Logger
}

// NewTradeRecorder builds a recorder. Metrics may be nil in tests.
func NewTradeRecorder(s store.Store, ledger chain.LedgerClient, rd *refdata.Service, metrics *observability.Metrics, log zerolog.Logger) *TradeRecorder {
	return &TradeRecorder{store: s, ledger: ledger, refdata: rd, metrics: metrics, log: log}
}

// RecordTrade writes the trade record for one position movement and
// returns its id. The exchange rate and implied rate are derived only
// when net cash moved against a non-liquidity position; for those trades
// maturity must lie strictly after the event's block.
func (r *TradeRecorder) RecordTrade(
	ctx context.Context,
	meta event.Meta,
	marketAddress string,
	positionType entity.PositionType,
	notional decimal.Decimal,
	netCashChange decimal.Decimal,
	maturity int64,
	fee decimal.Decimal,
	account string,
) (string, error) {
	groupID, err := r.ledger.MarketGroup(ctx, marketAddress)
	if err != nil {
		return "", fmt.Errorf("resolve group of market %s: %w", marketAddress, err)
	}

	wireByte, err := positionType.WireByte()
	if err != nil {
		return "", fmt.Errorf("trade for account %s: %w", account, err)
	}
	key := chain.EncodePositionKey(groupID, 0, maturity, wireByte)

	id := fmt.Sprintf("%s:%s:%s:%d", account, key.Hex(), meta.TransactionHash, meta.LogIndex)

	market, err := r.refdata.GetMarket(ctx, marketAddress, maturity, meta)
	if err != nil {
		return "", fmt.Errorf("trade %s: %w", id, err)
	}

	trade := &entity.Trade{
		ID:            id,
		Account:       account,
		PositionKey:   key.Hex(),
		Group:         refdata.GroupID(groupID),
		Market:        market.ID,
		Maturity:      maturity,
		PositionType:  positionType,
		Notional:      notional,
		NetCashChange: netCashChange,
		Fee:           fee,
		Origin:        entity.OriginOf(meta),
	}

	if !netCashChange.IsZero() && positionType != entity.LiquidityToken {
		blocksToMaturity := maturity - meta.BlockNumber
		if blocksToMaturity <= 0 {
			return "", fmt.Errorf("trade %s: maturity %d not after block %d", id, maturity, meta.BlockNumber)
		}

		params, err := r.ledger.GroupParameters(ctx, groupID)
		if err != nil {
			return "", fmt.Errorf("trade %s: query group %d parameters: %w", id, groupID, err)
		}

		er := exchangeRate(netCashChange, notional)
		ir := impliedRate(er, params.MaturityLength, blocksToMaturity)
		trade.TradeExchangeRate = &er
		trade.ImpliedInterestRate = &ir
	}

	if err := r.store.Upsert(ctx, trade); err != nil {
		return "", fmt.Errorf("upsert trade %s: %w", id, err)
	}

	if r.metrics != nil {
		r.metrics.TradesRecorded.WithLabelValues(string(positionType)).Inc()
	}

	r.log.Info().
		Str("trade", id).
		Str("positionType", string(positionType)).
		Msg("trade recorded")
	return id, nil
}

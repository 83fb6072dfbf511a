// Package chain defines the read-only query surface of the external
// ledger. The ledger is the source of truth for balances and portfolios;
// the core never mutates it.
package chain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrEndOfList is the ledger's sentinel for "no position at this index"
// during portfolio iteration. It is normal control flow, not a failure.
var ErrEndOfList = errors.New("chain: end of position list")

// PositionData is one raw portfolio entry as reported by the ledger.
type PositionData struct {
	GroupID      int32
	InstrumentID uint16
	Maturity     int64
	TypeByte     byte
	Rate         int64
	Notional     decimal.Decimal
}

// GroupParameters are the slowly-changing parameters of a cash group.
type GroupParameters struct {
	NumMaturities  int64
	MaturityLength int64
	RatePrecision  decimal.Decimal
	CurrencyID     int32
	// MarketContract is empty when the group is idiosyncratic and has no
	// tradable markets.
	MarketContract string
	RateAnchor     int64
	RateScalar     decimal.Decimal
	LiquidityFee   int64
	TransactionFee decimal.Decimal
	MaxTradeSize   decimal.Decimal
}

// MarketParameters are the live totals of one maturity market.
type MarketParameters struct {
	TotalValue      decimal.Decimal
	TotalSupply     decimal.Decimal
	TotalCash       decimal.Decimal
	RateScalar      decimal.Decimal
	RateAnchor      int64
	LastImpliedRate int64
}

// CurrencyInfo describes a listed currency token.
type CurrencyInfo struct {
	CurrencyID     int32
	Name           string
	Symbol         string
	Decimals       int64
	HasTransferFee bool
}

// ExchangeRateParameters are the oracle binding and risk parameters of a
// currency pair.
type ExchangeRateParameters struct {
	RateOracle          string
	RateDecimals        decimal.Decimal
	MustInvert          bool
	Buffer              decimal.Decimal
	Haircut             decimal.Decimal
	LiquidationDiscount decimal.Decimal
}

// LedgerClient queries the external ledger at the current event's state.
// All methods may fail with a transport error, which aborts processing of
// the current event; only PositionAt has a sentinel (ErrEndOfList).
type LedgerClient interface {
	// MaxCurrencyID returns the highest listed currency id. Currency ids
	// form a contiguous integer space [0, max].
	MaxCurrencyID(ctx context.Context) (int32, error)

	// BalanceOf returns an account's cash balance in a currency.
	BalanceOf(ctx context.Context, currencyID int32, address string) (decimal.Decimal, error)

	// PositionAt returns the account's portfolio entry at the given index,
	// or ErrEndOfList past the last entry.
	PositionAt(ctx context.Context, address string, index int) (PositionData, error)

	// MarketGroup returns the group id served by a market contract.
	MarketGroup(ctx context.Context, marketAddress string) (int32, error)

	// GroupParameters returns the parameters of a cash group.
	GroupParameters(ctx context.Context, groupID int32) (GroupParameters, error)

	// MarketParameters returns the live totals of one maturity market.
	MarketParameters(ctx context.Context, marketAddress string, maturity int64) (MarketParameters, error)

	// CurrencyInfo resolves a listed token address to its currency data.
	CurrencyInfo(ctx context.Context, tokenAddress string) (CurrencyInfo, error)

	// ExchangeRateParameters returns the configured parameters for a
	// base/quote currency pair.
	ExchangeRateParameters(ctx context.Context, baseID, quoteID int32) (ExchangeRateParameters, error)

	// OracleAnswer returns the latest answer of a price oracle.
	OracleAnswer(ctx context.Context, oracleAddress string) (decimal.Decimal, error)
}

// PositionIterator walks an account's portfolio on the ledger until the
// end-of-list sentinel. It turns the index-probe protocol into an
// explicit iterator so callers never test for the sentinel themselves.
type PositionIterator struct {
	client  LedgerClient
	address string
	next    int
}

// NewPositionIterator starts iteration at index zero.
func NewPositionIterator(client LedgerClient, address string) *PositionIterator {
	return &PositionIterator{client: client, address: address}
}

// Next returns the next portfolio entry. ok is false after the last
// entry; a non-nil error is a real ledger failure.
func (it *PositionIterator) Next(ctx context.Context) (PositionData, bool, error) {
	data, err := it.client.PositionAt(ctx, it.address, it.next)
	if errors.Is(err, ErrEndOfList) {
		return PositionData{}, false, nil
	}
	if err != nil {
		return PositionData{}, false, err
	}
	it.next++
	return data, true, nil
}

package testutil

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"CashLedger/internal/chain"
)

// FakeLedger is an in-memory chain.LedgerClient for tests. State is set
// directly on the maps; mutate them between events to simulate the
// ledger moving.
type FakeLedger struct {
	MaxCurrency   int32
	Balances      map[string]map[int32]decimal.Decimal
	Portfolios    map[string][]chain.PositionData
	Groups        map[int32]chain.GroupParameters
	MarketGroups  map[string]int32
	Markets       map[string]chain.MarketParameters
	Currencies    map[string]chain.CurrencyInfo
	ExchangeRates map[string]chain.ExchangeRateParameters
	Oracles       map[string]decimal.Decimal

	// Err, when set, fails every call. Simulates the ledger being
	// unreachable.
	Err error
}

// NewFakeLedger returns an empty ledger with max currency id 0.
func NewFakeLedger() *FakeLedger {
	return &FakeLedger{
		Balances:      make(map[string]map[int32]decimal.Decimal),
		Portfolios:    make(map[string][]chain.PositionData),
		Groups:        make(map[int32]chain.GroupParameters),
		MarketGroups:  make(map[string]int32),
		Markets:       make(map[string]chain.MarketParameters),
		Currencies:    make(map[string]chain.CurrencyInfo),
		ExchangeRates: make(map[string]chain.ExchangeRateParameters),
		Oracles:       make(map[string]decimal.Decimal),
	}
}

// SetBalance sets one account balance.
func (f *FakeLedger) SetBalance(address string, currencyID int32, balance decimal.Decimal) {
	if f.Balances[address] == nil {
		f.Balances[address] = make(map[int32]decimal.Decimal)
	}
	f.Balances[address][currencyID] = balance
}

// SetPortfolio replaces an account's reported portfolio.
func (f *FakeLedger) SetPortfolio(address string, positions ...chain.PositionData) {
	f.Portfolios[address] = positions
}

// AddGroup registers a group and binds its market contract address.
func (f *FakeLedger) AddGroup(groupID int32, params chain.GroupParameters) {
	f.Groups[groupID] = params
	if params.MarketContract != "" {
		f.MarketGroups[params.MarketContract] = groupID
	}
}

func (f *FakeLedger) MaxCurrencyID(ctx context.Context) (int32, error) {
	if f.Err != nil {
		return 0, f.Err
	}
	return f.MaxCurrency, nil
}

func (f *FakeLedger) BalanceOf(ctx context.Context, currencyID int32, address string) (decimal.Decimal, error) {
	if f.Err != nil {
		return decimal.Decimal{}, f.Err
	}
	return f.Balances[address][currencyID], nil
}

func (f *FakeLedger) PositionAt(ctx context.Context, address string, index int) (chain.PositionData, error) {
	if f.Err != nil {
		return chain.PositionData{}, f.Err
	}
	positions := f.Portfolios[address]
	if index >= len(positions) {
		return chain.PositionData{}, chain.ErrEndOfList
	}
	return positions[index], nil
}

func (f *FakeLedger) MarketGroup(ctx context.Context, marketAddress string) (int32, error) {
	if f.Err != nil {
		return 0, f.Err
	}
	return f.MarketGroups[marketAddress], nil
}

func (f *FakeLedger) GroupParameters(ctx context.Context, groupID int32) (chain.GroupParameters, error) {
	if f.Err != nil {
		return chain.GroupParameters{}, f.Err
	}
	params, ok := f.Groups[groupID]
	if !ok {
		return chain.GroupParameters{}, fmt.Errorf("fake ledger: no group %d", groupID)
	}
	return params, nil
}

func (f *FakeLedger) MarketParameters(ctx context.Context, marketAddress string, maturity int64) (chain.MarketParameters, error) {
	if f.Err != nil {
		return chain.MarketParameters{}, f.Err
	}
	return f.Markets[marketKey(marketAddress, maturity)], nil
}

func (f *FakeLedger) CurrencyInfo(ctx context.Context, tokenAddress string) (chain.CurrencyInfo, error) {
	if f.Err != nil {
		return chain.CurrencyInfo{}, f.Err
	}
	info, ok := f.Currencies[tokenAddress]
	if !ok {
		return chain.CurrencyInfo{}, fmt.Errorf("fake ledger: no currency at %s", tokenAddress)
	}
	return info, nil
}

func (f *FakeLedger) ExchangeRateParameters(ctx context.Context, baseID, quoteID int32) (chain.ExchangeRateParameters, error) {
	if f.Err != nil {
		return chain.ExchangeRateParameters{}, f.Err
	}
	return f.ExchangeRates[fmt.Sprintf("%d:%d", baseID, quoteID)], nil
}

func (f *FakeLedger) OracleAnswer(ctx context.Context, oracleAddress string) (decimal.Decimal, error) {
	if f.Err != nil {
		return decimal.Decimal{}, f.Err
	}
	return f.Oracles[oracleAddress], nil
}

func marketKey(address string, maturity int64) string {
	return fmt.Sprintf("%s:%d", address, maturity)
}

// SetMarket sets the live totals reported for one maturity market.
func (f *FakeLedger) SetMarket(address string, maturity int64, params chain.MarketParameters) {
	f.Markets[marketKey(address, maturity)] = params
}

package entity

import "github.com/shopspring/decimal"

// Currency is a listed escrow currency.
type Currency struct {
	ID             string `json:"id"` // currency id, decimal string
	Name           string `json:"name"`
	Symbol         string `json:"symbol"`
	TokenAddress   string `json:"tokenAddress"`
	Decimals       int64  `json:"decimals"`
	HasTransferFee bool   `json:"hasTransferFee"`
	Provenance
}

func (c *Currency) EntityKind() Kind { return KindCurrency }
func (c *Currency) EntityID() string { return c.ID }

// ExchangeRate holds the oracle binding and risk parameters for a
// base/quote currency pair.
type ExchangeRate struct {
	ID                  string          `json:"id"` // base:quote
	BaseCurrency        string          `json:"baseCurrency"`
	QuoteCurrency       string          `json:"quoteCurrency"`
	RateOracle          string          `json:"rateOracle"`
	RateDecimals        decimal.Decimal `json:"rateDecimals"`
	MustInvert          bool            `json:"mustInvert"`
	Buffer              decimal.Decimal `json:"buffer"`
	Haircut             decimal.Decimal `json:"haircut"`
	LiquidationDiscount decimal.Decimal `json:"liquidationDiscount"`
	LatestRate          string          `json:"latestRate"` // RateValue id
	Provenance
}

func (e *ExchangeRate) EntityKind() Kind { return KindExchangeRate }
func (e *ExchangeRate) EntityID() string { return e.ID }

// RateValue is the most recent oracle answer for an exchange rate.
// Its id equals the exchange rate's id.
type RateValue struct {
	ID           string          `json:"id"`
	ExchangeRate string          `json:"exchangeRate"`
	Rate         decimal.Decimal `json:"rate"`
	Provenance
}

func (r *RateValue) EntityKind() Kind { return KindRateValue }
func (r *RateValue) EntityID() string { return r.ID }

// PriceOracle maps an oracle address back to the exchange rate it feeds,
// so oracle answers can be routed before or after configuration.
type PriceOracle struct {
	ID           string `json:"id"` // oracle address
	ExchangeRate string `json:"exchangeRate"`
}

func (o *PriceOracle) EntityKind() Kind { return KindPriceOracle }
func (o *PriceOracle) EntityID() string { return o.ID }

// Group is a maturity-bucketed family of markets sharing rate parameters.
type Group struct {
	ID             string          `json:"id"` // group id, decimal string
	NumMaturities  int64           `json:"numMaturities"`
	MaturityLength int64           `json:"maturityLength"` // blocks per maturity bucket
	RatePrecision  decimal.Decimal `json:"ratePrecision"`
	Currency       string          `json:"currency"`
	// MarketContract is empty for idiosyncratic groups, which have no
	// tradable markets.
	MarketContract  string          `json:"marketContract"`
	IsIdiosyncratic bool            `json:"isIdiosyncratic"`
	RateAnchor      int64           `json:"rateAnchor"`
	RateScalar      decimal.Decimal `json:"rateScalar"`
	LiquidityFee    int64           `json:"liquidityFee"`
	TransactionFee  decimal.Decimal `json:"transactionFee"`
	MaxTradeSize    decimal.Decimal `json:"maxTradeSize"`
	Markets         []string        `json:"markets"`
	Provenance
}

func (g *Group) EntityKind() Kind { return KindGroup }
func (g *Group) EntityID() string { return g.ID }

// Market is one maturity bucket of a group's trading venue.
type Market struct {
	ID              string          `json:"id"` // group:maturity
	Address         string          `json:"address"`
	Group           string          `json:"group"`
	Maturity        int64           `json:"maturity"`
	TotalValue      decimal.Decimal `json:"totalValue"`
	TotalSupply     decimal.Decimal `json:"totalSupply"`
	TotalCash       decimal.Decimal `json:"totalCash"`
	RateScalar      decimal.Decimal `json:"rateScalar"`
	RateAnchor      int64           `json:"rateAnchor"`
	LastImpliedRate int64           `json:"lastImpliedRate"`
	Provenance
}

func (m *Market) EntityKind() Kind { return KindMarket }
func (m *Market) EntityID() string { return m.ID }

// SystemConfigID is the singleton id for the system configuration entity.
const SystemConfigID = "0"

// SystemConfig holds system-wide risk and settlement parameters.
type SystemConfig struct {
	ID                 string          `json:"id"`
	SettlementDiscount decimal.Decimal `json:"settlementDiscount"`
	RepoIncentive      decimal.Decimal `json:"repoIncentive"`
	LiquidityHaircut   decimal.Decimal `json:"liquidityHaircut"`
	PositionHaircut    decimal.Decimal `json:"positionHaircut"`
	PositionMaxHaircut decimal.Decimal `json:"positionMaxHaircut"`
	MaxPositions       int64           `json:"maxPositions"`
	ReserveAccount     string          `json:"reserveAccount"`
	Provenance
}

func (s *SystemConfig) EntityKind() Kind { return KindSystemConfig }
func (s *SystemConfig) EntityID() string { return s.ID }

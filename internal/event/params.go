package event

import "github.com/shopspring/decimal"

// NewCurrency announces a newly listed currency token.
type NewCurrency struct {
	Meta         Meta
	TokenAddress string
}

func (e *NewCurrency) EventKind() Kind { return KindNewCurrency }
func (e *NewCurrency) EventMeta() Meta { return e.Meta }

// UpdateExchangeRate announces new exchange-rate parameters between a base
// and quote currency pair.
type UpdateExchangeRate struct {
	Meta  Meta
	Base  int32
	Quote int32
}

func (e *UpdateExchangeRate) EventKind() Kind { return KindUpdateExchangeRate }
func (e *UpdateExchangeRate) EventMeta() Meta { return e.Meta }

// NewGroup announces a new cash group.
type NewGroup struct {
	Meta    Meta
	GroupID int32
}

func (e *NewGroup) EventKind() Kind { return KindNewGroup }
func (e *NewGroup) EventMeta() Meta { return e.Meta }

// UpdateGroup announces changed cash-group parameters.
type UpdateGroup struct {
	Meta    Meta
	GroupID int32
}

func (e *UpdateGroup) EventKind() Kind { return KindUpdateGroup }
func (e *UpdateGroup) EventMeta() Meta { return e.Meta }

// UpdateRateFactors carries new rate anchor/scalar for a market's group.
type UpdateRateFactors struct {
	Meta          Meta
	MarketAddress string
	RateAnchor    int64
	RateScalar    decimal.Decimal
}

func (e *UpdateRateFactors) EventKind() Kind { return KindUpdateRateFactors }
func (e *UpdateRateFactors) EventMeta() Meta { return e.Meta }

// UpdateMaxTradeSize carries the new maximum trade size for a market's group.
type UpdateMaxTradeSize struct {
	Meta          Meta
	MarketAddress string
	MaxTradeSize  decimal.Decimal
}

func (e *UpdateMaxTradeSize) EventKind() Kind { return KindUpdateMaxTradeSize }
func (e *UpdateMaxTradeSize) EventMeta() Meta { return e.Meta }

// UpdateFees carries new fee parameters for a market's group.
type UpdateFees struct {
	Meta           Meta
	MarketAddress  string
	LiquidityFee   int64
	TransactionFee decimal.Decimal
}

func (e *UpdateFees) EventKind() Kind { return KindUpdateFees }
func (e *UpdateFees) EventMeta() Meta { return e.Meta }

// SetDiscounts updates the system-wide settlement discount and liquidity
// repo incentive.
type SetDiscounts struct {
	Meta               Meta
	SettlementDiscount decimal.Decimal
	RepoIncentive      decimal.Decimal
}

func (e *SetDiscounts) EventKind() Kind { return KindSetDiscounts }
func (e *SetDiscounts) EventMeta() Meta { return e.Meta }

// SetReserveAccount designates the system reserve account.
type SetReserveAccount struct {
	Meta           Meta
	ReserveAccount string
}

func (e *SetReserveAccount) EventKind() Kind { return KindSetReserveAccount }
func (e *SetReserveAccount) EventMeta() Meta { return e.Meta }

// SetHaircuts updates system-wide valuation haircuts.
type SetHaircuts struct {
	Meta               Meta
	LiquidityHaircut   decimal.Decimal
	PositionHaircut    decimal.Decimal
	PositionMaxHaircut decimal.Decimal
}

func (e *SetHaircuts) EventKind() Kind { return KindSetHaircuts }
func (e *SetHaircuts) EventMeta() Meta { return e.Meta }

// SetMaxPositions updates the per-account portfolio size limit.
type SetMaxPositions struct {
	Meta         Meta
	MaxPositions int64
}

func (e *SetMaxPositions) EventKind() Kind { return KindSetMaxPositions }
func (e *SetMaxPositions) EventMeta() Meta { return e.Meta }

// OracleAnswer is a price-oracle publication. It may arrive before the
// oracle has been bound to an exchange rate; that case is ignored.
type OracleAnswer struct {
	Meta          Meta
	OracleAddress string
	Answer        decimal.Decimal
}

func (e *OracleAnswer) EventKind() Kind { return KindOracleAnswer }
func (e *OracleAnswer) EventMeta() Meta { return e.Meta }

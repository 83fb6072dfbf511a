package entity

import "github.com/shopspring/decimal"

// Trade is an immutable record of one position-level economic event.
// TradeExchangeRate and ImpliedInterestRate are only present when the
// trade moved net cash against a non-liquidity position.
type Trade struct {
	ID                  string           `json:"id"` // account:positionKey:txHash:logIndex
	Account             string           `json:"account"`
	PositionKey         string           `json:"positionKey"`
	Group               string           `json:"group"`
	Market              string           `json:"market"`
	Maturity            int64            `json:"maturity"`
	PositionType        PositionType     `json:"positionType"`
	Notional            decimal.Decimal  `json:"notional"`
	NetCashChange       decimal.Decimal  `json:"netCashChange"`
	Fee                 decimal.Decimal  `json:"fee"`
	TradeExchangeRate   *decimal.Decimal `json:"tradeExchangeRate,omitempty"`
	ImpliedInterestRate *decimal.Decimal `json:"impliedInterestRate,omitempty"`
	Origin
}

func (t *Trade) EntityKind() Kind { return KindTrade }
func (t *Trade) EntityID() string { return t.ID }

// Liquidation is an immutable record of a forced collateral purchase.
type Liquidation struct {
	ID                  string           `json:"id"` // account:txHash:logIndex
	Liquidator          string           `json:"liquidator"`
	LiquidatedAccount   string           `json:"liquidatedAccount"`
	LocalCurrency       string           `json:"localCurrency"`
	CollateralCurrency  string           `json:"collateralCurrency"`
	LiquidatedAmount    decimal.Decimal  `json:"liquidatedAmount"`
	CollateralPurchased decimal.Decimal  `json:"collateralPurchased"`
	ExchangeRate        *decimal.Decimal `json:"exchangeRate,omitempty"`
	// PositionsTraded links the trade records derived from the position
	// changes this liquidation caused.
	PositionsTraded []string `json:"positionsTraded,omitempty"`
	Origin
}

func (l *Liquidation) EntityKind() Kind { return KindLiquidation }
func (l *Liquidation) EntityID() string { return l.ID }

// Settlement is an immutable record of a forced cash settlement.
type Settlement struct {
	ID                  string           `json:"id"` // payer:txHash:logIndex
	SettleAccount       string           `json:"settleAccount"`
	PayerAccount        string           `json:"payerAccount"`
	LocalCurrency       string           `json:"localCurrency"`
	CollateralCurrency  string           `json:"collateralCurrency"`
	SettledAmount       decimal.Decimal  `json:"settledAmount"`
	CollateralPurchased decimal.Decimal  `json:"collateralPurchased"`
	ExchangeRate        *decimal.Decimal `json:"exchangeRate,omitempty"`
	PositionsTraded     []string         `json:"positionsTraded,omitempty"`
	ReserveAccountUsed  bool             `json:"reserveAccountUsed"`
	Origin
}

func (s *Settlement) EntityKind() Kind { return KindSettlement }
func (s *Settlement) EntityID() string { return s.ID }

// Deposit is an immutable record of a currency deposit.
type Deposit struct {
	ID       string          `json:"id"` // account:currency:txHash:logIndex
	Account  string          `json:"account"`
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
	Origin
}

func (d *Deposit) EntityKind() Kind { return KindDeposit }
func (d *Deposit) EntityID() string { return d.ID }

// Withdraw is an immutable record of a currency withdrawal.
type Withdraw struct {
	ID       string          `json:"id"` // account:currency:txHash:logIndex
	Account  string          `json:"account"`
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
	Origin
}

func (w *Withdraw) EntityKind() Kind { return KindWithdraw }
func (w *Withdraw) EntityID() string { return w.ID }

// Transfer is an immutable record of a tokenized position moving between
// accounts.
type Transfer struct {
	ID           string          `json:"id"` // from:to:positionKey:txHash:logIndex
	From         string          `json:"from"`
	To           string          `json:"to"`
	Operator     string          `json:"operator"`
	PositionKey  string          `json:"positionKey"`
	Group        string          `json:"group"`
	Maturity     int64           `json:"maturity"`
	PositionType PositionType    `json:"positionType"`
	Market       string          `json:"market"`
	Notional     decimal.Decimal `json:"notional"`
	Origin
}

func (t *Transfer) EntityKind() Kind { return KindTransfer }
func (t *Transfer) EntityID() string { return t.ID }

package event

import "github.com/shopspring/decimal"

// Deposit is emitted when an account deposits a currency into the escrow.
type Deposit struct {
	Meta     Meta
	Account  string
	Currency int32
	Amount   decimal.Decimal
}

func (e *Deposit) EventKind() Kind { return KindDeposit }
func (e *Deposit) EventMeta() Meta { return e.Meta }

// Withdraw is emitted when an account withdraws a currency from the escrow.
type Withdraw struct {
	Meta     Meta
	Account  string
	Currency int32
	Amount   decimal.Decimal
}

func (e *Withdraw) EventKind() Kind { return KindWithdraw }
func (e *Withdraw) EventMeta() Meta { return e.Meta }

// Liquidate is a forced collateral purchase against an undercollateralized
// account. Amount is the local-currency amount recollateralized.
type Liquidate struct {
	Meta               Meta
	Account            string
	LocalCurrency      int32
	CollateralCurrency int32
	Amount             decimal.Decimal
}

func (e *Liquidate) EventKind() Kind { return KindLiquidate }
func (e *Liquidate) EventMeta() Meta { return e.Meta }

// LiquidateBatch liquidates several accounts in a single transaction.
// Accounts and Amounts are parallel lists.
type LiquidateBatch struct {
	Meta               Meta
	Accounts           []string
	LocalCurrency      int32
	CollateralCurrency int32
	Amounts            []decimal.Decimal
}

func (e *LiquidateBatch) EventKind() Kind { return KindLiquidateBatch }
func (e *LiquidateBatch) EventMeta() Meta { return e.Meta }

// SettleCash settles a matured cash obligation between a payer and the
// settling party.
type SettleCash struct {
	Meta               Meta
	Payer              string
	LocalCurrency      int32
	CollateralCurrency int32
	SettledAmount      decimal.Decimal
}

func (e *SettleCash) EventKind() Kind { return KindSettleCash }
func (e *SettleCash) EventMeta() Meta { return e.Meta }

// SettleCashBatch settles several payers in one transaction. Payers and
// SettledAmounts are parallel lists.
type SettleCashBatch struct {
	Meta               Meta
	Payers             []string
	LocalCurrency      int32
	CollateralCurrency int32
	SettledAmounts     []decimal.Decimal
}

func (e *SettleCashBatch) EventKind() Kind { return KindSettleCashBatch }
func (e *SettleCashBatch) EventMeta() Meta { return e.Meta }

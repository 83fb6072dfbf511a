package event

import "github.com/shopspring/decimal"

// AddLiquidity is emitted when an account deposits cash and future cash
// into a maturity market in exchange for liquidity tokens.
type AddLiquidity struct {
	Meta          Meta
	Account       string
	MarketAddress string
	Maturity      int64
	Tokens        decimal.Decimal
	Cash          decimal.Decimal
	FutureCash    decimal.Decimal
}

func (e *AddLiquidity) EventKind() Kind { return KindAddLiquidity }
func (e *AddLiquidity) EventMeta() Meta { return e.Meta }

// RemoveLiquidity is the inverse of AddLiquidity.
type RemoveLiquidity struct {
	Meta          Meta
	Account       string
	MarketAddress string
	Maturity      int64
	Tokens        decimal.Decimal
	Cash          decimal.Decimal
	FutureCash    decimal.Decimal
}

func (e *RemoveLiquidity) EventKind() Kind { return KindRemoveLiquidity }
func (e *RemoveLiquidity) EventMeta() Meta { return e.Meta }

// TakeCash trades future cash for current cash: the account takes on a
// short obligation at maturity.
type TakeCash struct {
	Meta          Meta
	Account       string
	MarketAddress string
	Maturity      int64
	FutureCash    decimal.Decimal
	Cash          decimal.Decimal
	Fee           decimal.Decimal
}

func (e *TakeCash) EventKind() Kind { return KindTakeCash }
func (e *TakeCash) EventMeta() Meta { return e.Meta }

// TakePosition trades current cash for future cash: the account buys a
// long claim at maturity.
type TakePosition struct {
	Meta          Meta
	Account       string
	MarketAddress string
	Maturity      int64
	FutureCash    decimal.Decimal
	Cash          decimal.Decimal
	Fee           decimal.Decimal
}

func (e *TakePosition) EventKind() Kind { return KindTakePosition }
func (e *TakePosition) EventMeta() Meta { return e.Meta }

// TransferSingle moves one tokenized position between accounts.
type TransferSingle struct {
	Meta        Meta
	From        string
	To          string
	Operator    string
	PositionKey uint64
	Value       decimal.Decimal
}

func (e *TransferSingle) EventKind() Kind { return KindTransferSingle }
func (e *TransferSingle) EventMeta() Meta { return e.Meta }

// TransferBatch moves several tokenized positions between the same pair of
// accounts. PositionKeys and Values are parallel lists.
type TransferBatch struct {
	Meta         Meta
	From         string
	To           string
	Operator     string
	PositionKeys []uint64
	Values       []decimal.Decimal
}

func (e *TransferBatch) EventKind() Kind { return KindTransferBatch }
func (e *TransferBatch) EventMeta() Meta { return e.Meta }

// SettlePortfolio is emitted when an account's matured positions are
// settled into cash balances. The reconciler picks up all effects; matured
// positions drop out of the portfolio without a trade record.
type SettlePortfolio struct {
	Meta    Meta
	Account string
}

func (e *SettlePortfolio) EventKind() Kind { return KindSettlePortfolio }
func (e *SettlePortfolio) EventMeta() Meta { return e.Meta }

// SettlePortfolioBatch settles several accounts' portfolios at once.
type SettlePortfolioBatch struct {
	Meta     Meta
	Accounts []string
}

func (e *SettlePortfolioBatch) EventKind() Kind { return KindSettlePortfolioBatch }
func (e *SettlePortfolioBatch) EventMeta() Meta { return e.Meta }

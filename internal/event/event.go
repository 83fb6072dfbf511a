package event

// Kind discriminates inbound event payloads.
type Kind int32

const (
	KindUnknown Kind = iota
	KindDeposit
	KindWithdraw
	KindAddLiquidity
	KindRemoveLiquidity
	KindTakeCash
	KindTakePosition
	KindTransferSingle
	KindTransferBatch
	KindLiquidate
	KindLiquidateBatch
	KindSettleCash
	KindSettleCashBatch
	KindSettlePortfolio
	KindSettlePortfolioBatch
	KindNewCurrency
	KindUpdateExchangeRate
	KindNewGroup
	KindUpdateGroup
	KindUpdateRateFactors
	KindUpdateMaxTradeSize
	KindUpdateFees
	KindSetDiscounts
	KindSetReserveAccount
	KindSetHaircuts
	KindSetMaxPositions
	KindOracleAnswer
)

// Event is the interface all inbound payloads implement. The dispatcher
// hands events to the core one at a time, already ordered by
// (block, transaction, log) position.
type Event interface {
	// EventKind returns the discriminator.
	EventKind() Kind

	// EventMeta returns the block/transaction provenance.
	EventMeta() Meta
}

func (k Kind) String() string {
	switch k {
	case KindDeposit:
		return "Deposit"
	case KindWithdraw:
		return "Withdraw"
	case KindAddLiquidity:
		return "AddLiquidity"
	case KindRemoveLiquidity:
		return "RemoveLiquidity"
	case KindTakeCash:
		return "TakeCash"
	case KindTakePosition:
		return "TakePosition"
	case KindTransferSingle:
		return "TransferSingle"
	case KindTransferBatch:
		return "TransferBatch"
	case KindLiquidate:
		return "Liquidate"
	case KindLiquidateBatch:
		return "LiquidateBatch"
	case KindSettleCash:
		return "SettleCash"
	case KindSettleCashBatch:
		return "SettleCashBatch"
	case KindSettlePortfolio:
		return "SettlePortfolio"
	case KindSettlePortfolioBatch:
		return "SettlePortfolioBatch"
	case KindNewCurrency:
		return "NewCurrency"
	case KindUpdateExchangeRate:
		return "UpdateExchangeRate"
	case KindNewGroup:
		return "NewGroup"
	case KindUpdateGroup:
		return "UpdateGroup"
	case KindUpdateRateFactors:
		return "UpdateRateFactors"
	case KindUpdateMaxTradeSize:
		return "UpdateMaxTradeSize"
	case KindUpdateFees:
		return "UpdateFees"
	case KindSetDiscounts:
		return "SetDiscounts"
	case KindSetReserveAccount:
		return "SetReserveAccount"
	case KindSetHaircuts:
		return "SetHaircuts"
	case KindSetMaxPositions:
		return "SetMaxPositions"
	case KindOracleAnswer:
		return "OracleAnswer"
	default:
		return "Unknown"
	}
}

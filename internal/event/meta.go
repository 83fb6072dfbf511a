package event

import "github.com/shopspring/decimal"

// Meta carries the provenance of one ledger event: where in the chain it
// happened and which transaction produced it. Every derived entity is
// stamped with (a subset of) these fields for replay debugging.
type Meta struct {
	BlockNumber     int64
	BlockTimestamp  int64
	BlockHash       string
	TransactionHash string
	// TransactionSender is the externally-owned address that submitted the
	// transaction. Liquidation and settlement handlers record it as the
	// initiating party.
	TransactionSender string
	GasUsed           decimal.Decimal
	GasPrice          decimal.Decimal
	LogIndex          int64
}

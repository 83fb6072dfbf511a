// Package entity defines the persisted entities derived from the event
// stream. Every entity is addressable by a stable string id and is either
// mutable reconciled state (stamped with Provenance) or an immutable
// history record (stamped with Origin).
package entity

import "CashLedger/internal/event"

// Kind names an entity table. Used as the first half of the store key.
type Kind string

const (
	KindAccount         Kind = "Account"
	KindCurrencyBalance Kind = "CurrencyBalance"
	KindPosition        Kind = "Position"
	KindMarket          Kind = "Market"
	KindGroup           Kind = "Group"
	KindCurrency        Kind = "Currency"
	KindExchangeRate    Kind = "ExchangeRate"
	KindRateValue       Kind = "RateValue"
	KindPriceOracle     Kind = "PriceOracle"
	KindSystemConfig    Kind = "SystemConfig"
	KindTrade           Kind = "Trade"
	KindLiquidation     Kind = "Liquidation"
	KindSettlement      Kind = "Settlement"
	KindDeposit         Kind = "Deposit"
	KindWithdraw        Kind = "Withdraw"
	KindTransfer        Kind = "Transfer"
)

// Entity is implemented by every persisted type.
type Entity interface {
	EntityKind() Kind
	EntityID() string
}

// Provenance records the last event that touched a mutable entity.
type Provenance struct {
	LastUpdateBlockNumber     int64  `json:"lastUpdateBlockNumber"`
	LastUpdateTimestamp       int64  `json:"lastUpdateTimestamp"`
	LastUpdateBlockHash       string `json:"lastUpdateBlockHash"`
	LastUpdateTransactionHash string `json:"lastUpdateTransactionHash"`
}

// Stamp overwrites the provenance fields from an event's metadata.
func (p *Provenance) Stamp(m event.Meta) {
	p.LastUpdateBlockNumber = m.BlockNumber
	p.LastUpdateTimestamp = m.BlockTimestamp
	p.LastUpdateBlockHash = m.BlockHash
	p.LastUpdateTransactionHash = m.TransactionHash
}

// Origin records the event that produced an immutable history record,
// including transaction cost fields.
type Origin struct {
	BlockNumber     int64  `json:"blockNumber"`
	BlockTimestamp  int64  `json:"blockTimestamp"`
	BlockHash       string `json:"blockHash"`
	TransactionHash string `json:"transactionHash"`
	GasUsed         string `json:"gasUsed"`
	GasPrice        string `json:"gasPrice"`
}

// OriginOf captures an event's metadata as a history-record origin.
func OriginOf(m event.Meta) Origin {
	return Origin{
		BlockNumber:     m.BlockNumber,
		BlockTimestamp:  m.BlockTimestamp,
		BlockHash:       m.BlockHash,
		TransactionHash: m.TransactionHash,
		GasUsed:         m.GasUsed.String(),
		GasPrice:        m.GasPrice.String(),
	}
}

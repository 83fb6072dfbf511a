package entity

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PositionType classifies a maturity-dated position.
type PositionType string

const (
	// LiquidityToken is a share of a maturity market's liquidity pool.
	LiquidityToken PositionType = "LiquidityToken"
	// ShortObligation is cash owed at maturity.
	ShortObligation PositionType = "ShortObligation"
	// LongClaim is cash receivable at maturity.
	LongClaim PositionType = "LongClaim"
)

// Ledger wire bytes for position types.
const (
	WireLiquidityToken  byte = 0xac
	WireShortObligation byte = 0x98
	WireLongClaim       byte = 0xa8
)

// PositionTypeFromWire maps a ledger type byte onto a PositionType.
// An unrecognized byte is a classification failure, never coerced.
func PositionTypeFromWire(b byte) (PositionType, error) {
	switch b {
	case WireLiquidityToken:
		return LiquidityToken, nil
	case WireShortObligation:
		return ShortObligation, nil
	case WireLongClaim:
		return LongClaim, nil
	default:
		return "", fmt.Errorf("unknown position type byte 0x%02x", b)
	}
}

// WireByte returns the ledger byte for the position type.
func (t PositionType) WireByte() (byte, error) {
	switch t {
	case LiquidityToken:
		return WireLiquidityToken, nil
	case ShortObligation:
		return WireShortObligation, nil
	case LongClaim:
		return WireLongClaim, nil
	default:
		return 0, fmt.Errorf("unknown position type %q", string(t))
	}
}

// Account is a ledger address with its reconciled balances and portfolio.
// Mutated only by the account reconciler; never deleted.
type Account struct {
	ID string `json:"id"`
	// Balances lists the ids of the account's non-zero currency balances,
	// ordered by increasing currency id.
	Balances []string `json:"balances"`
	// Portfolio lists the account's live position ids in ledger-reported
	// order, replaced wholesale on every reconciliation.
	Portfolio []string `json:"portfolio"`
	Provenance
}

func (a *Account) EntityKind() Kind { return KindAccount }
func (a *Account) EntityID() string { return a.ID }

// CurrencyBalance holds one currency's cash balance for an account.
// Exists iff the balance is non-zero.
type CurrencyBalance struct {
	ID          string          `json:"id"` // address:currencyId
	Currency    string          `json:"currency"`
	CashBalance decimal.Decimal `json:"cashBalance"`
	Provenance
}

func (b *CurrencyBalance) EntityKind() Kind { return KindCurrencyBalance }
func (b *CurrencyBalance) EntityID() string { return b.ID }

// Position is a maturity-dated claim, obligation, or liquidity share held
// by an account. Created when first observed in a portfolio listing and
// overwritten in full on every reconciliation.
type Position struct {
	ID string `json:"id"` // address:positionKey
	// PositionKey is the ledger's stable (group, instrument, maturity,
	// type) encoding in hex.
	PositionKey  string          `json:"positionKey"`
	Group        string          `json:"group"`
	PositionType PositionType    `json:"positionType"`
	Maturity     int64           `json:"maturity"` // epoch block number
	Rate         int64           `json:"rate"`
	Notional     decimal.Decimal `json:"notional"`
	Market       string          `json:"market"`
	Provenance
}

func (p *Position) EntityKind() Kind { return KindPosition }
func (p *Position) EntityID() string { return p.ID }

// CurrencyBalanceID builds the id for an account's balance in a currency.
func CurrencyBalanceID(account, currency string) string {
	return account + ":" + currency
}

// PositionID builds the id for an account's position under a key.
func PositionID(account, positionKeyHex string) string {
	return account + ":" + positionKeyHex
}

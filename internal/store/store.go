// Package store defines the persistent entity store: load, upsert, and
// delete by (kind, id). Postgres is the durable implementation; the
// in-memory implementation backs tests and dry-run replays.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"CashLedger/internal/entity"
)

// ErrNotFound is returned by Load when no entity exists under (kind, id).
var ErrNotFound = errors.New("store: entity not found")

// Store is the entity persistence contract consumed by the core.
type Store interface {
	// Load returns the entity stored under (kind, id), or ErrNotFound.
	Load(ctx context.Context, kind entity.Kind, id string) (entity.Entity, error)

	// Upsert stores the entity under its own (kind, id).
	Upsert(ctx context.Context, e entity.Entity) error

	// Delete removes the entity under (kind, id). Deleting a missing
	// entity is a no-op.
	Delete(ctx context.Context, kind entity.Kind, id string) error
}

// newEntity returns a zero value of the concrete type for a kind, for
// decoding stored payloads.
func newEntity(kind entity.Kind) (entity.Entity, error) {
	switch kind {
	case entity.KindAccount:
		return &entity.Account{}, nil
	case entity.KindCurrencyBalance:
		return &entity.CurrencyBalance{}, nil
	case entity.KindPosition:
		return &entity.Position{}, nil
	case entity.KindMarket:
		return &entity.Market{}, nil
	case entity.KindGroup:
		return &entity.Group{}, nil
	case entity.KindCurrency:
		return &entity.Currency{}, nil
	case entity.KindExchangeRate:
		return &entity.ExchangeRate{}, nil
	case entity.KindRateValue:
		return &entity.RateValue{}, nil
	case entity.KindPriceOracle:
		return &entity.PriceOracle{}, nil
	case entity.KindSystemConfig:
		return &entity.SystemConfig{}, nil
	case entity.KindTrade:
		return &entity.Trade{}, nil
	case entity.KindLiquidation:
		return &entity.Liquidation{}, nil
	case entity.KindSettlement:
		return &entity.Settlement{}, nil
	case entity.KindDeposit:
		return &entity.Deposit{}, nil
	case entity.KindWithdraw:
		return &entity.Withdraw{}, nil
	case entity.KindTransfer:
		return &entity.Transfer{}, nil
	default:
		return nil, fmt.Errorf("store: unknown entity kind %q", string(kind))
	}
}

func decodeEntity(kind entity.Kind, data []byte) (entity.Entity, error) {
	e, err := newEntity(kind)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, e); err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", string(kind), err)
	}
	return e, nil
}

package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"CashLedger/internal/chain"
	"CashLedger/internal/entity"
	"CashLedger/internal/event"
	"CashLedger/internal/refdata"
	"CashLedger/internal/store"
)

// PortfolioDiffEngine rebuilds an account's position set from the ledger
// and classifies every difference against the stored snapshot.
type PortfolioDiffEngine struct {
	store   store.Store
	ledger  chain.LedgerClient
	refdata *refdata.Service
	log     zerolog.Logger
}

func NewPortfolioDiffEngine(s store.Store, ledger chain.LedgerClient, rd *refdata.Service, log zerolog.Logger) *PortfolioDiffEngine {
	return &PortfolioDiffEngine{store: s, ledger: ledger, refdata: rd, log: log}
}

// Reconcile re-reads the account's portfolio from the ledger, persists
// every reported position, replaces account.Portfolio wholesale and
// returns the classified diff. The account itself is not persisted here.
func (e *PortfolioDiffEngine) Reconcile(ctx context.Context, account *entity.Account, meta event.Meta) ([]PositionChange, error) {
	before := make([]*entity.Position, 0, len(account.Portfolio))
	for _, id := range account.Portfolio {
		p, err := store.LoadPosition(ctx, e.store, id)
		if err != nil {
			return nil, fmt.Errorf("listed position %s: %w", id, err)
		}
		before = append(before, p)
	}

	after := make([]string, 0, len(before))
	it := chain.NewPositionIterator(e.ledger, account.ID)
	for {
		data, ok, err := it.Next(ctx)
		if err != nil {
			return nil, fmt.Errorf("list portfolio of %s: %w", account.ID, err)
		}
		if !ok {
			break
		}

		id, err := e.updatePosition(ctx, account.ID, data, meta)
		if err != nil {
			return nil, err
		}
		after = append(after, id)
	}

	account.Portfolio = after

	changes, err := e.diff(ctx, before, after, meta.BlockNumber)
	if err != nil {
		return nil, err
	}

	e.log.Debug().
		Str("account", account.ID).
		Int("positions", len(after)).
		Int("changes", len(changes)).
		Msg("portfolio reconciled")
	return changes, nil
}

// updatePosition overwrites the stored position with the ledger-reported
// data and returns its id.
func (e *PortfolioDiffEngine) updatePosition(ctx context.Context, address string, data chain.PositionData, meta event.Meta) (string, error) {
	key := chain.EncodePositionKey(data.GroupID, data.InstrumentID, data.Maturity, data.TypeByte)
	id := entity.PositionID(address, key.Hex())

	positionType, err := entity.PositionTypeFromWire(data.TypeByte)
	if err != nil {
		return "", fmt.Errorf("position %s: %w", id, err)
	}

	position, err := store.LoadPosition(ctx, e.store, id)
	if errors.Is(err, store.ErrNotFound) {
		position = &entity.Position{ID: id, PositionKey: key.Hex()}
	} else if err != nil {
		return "", fmt.Errorf("load position %s: %w", id, err)
	}

	group, err := e.refdata.GetGroup(ctx, data.GroupID, meta)
	if err != nil {
		return "", fmt.Errorf("position %s: %w", id, err)
	}

	position.Group = group.ID
	position.PositionType = positionType
	position.Maturity = data.Maturity
	position.Rate = data.Rate
	position.Notional = data.Notional

	if group.MarketContract != "" {
		market, err := e.refdata.GetMarket(ctx, group.MarketContract, data.Maturity, meta)
		if err != nil {
			return "", fmt.Errorf("position %s market link: %w", id, err)
		}
		position.Market = market.ID
	} else {
		position.Market = ""
	}

	position.Stamp(meta)
	if err := e.store.Upsert(ctx, position); err != nil {
		return "", fmt.Errorf("upsert position %s: %w", id, err)
	}
	return id, nil
}

// diff classifies the before set against the after list. Matured
// before-positions are dropped first and never produce a record: expiry
// is not a trade.
func (e *PortfolioDiffEngine) diff(ctx context.Context, before []*entity.Position, after []string, currentBlock int64) ([]PositionChange, error) {
	afterSet := make(map[string]bool, len(after))
	for _, id := range after {
		afterSet[id] = true
	}

	var changes []PositionChange
	for _, b := range before {
		if b.Maturity <= currentBlock {
			continue
		}

		if !afterSet[b.ID] {
			removal, err := makeRemoval(b)
			if err != nil {
				return nil, err
			}
			changes = append(changes, removal)
			continue
		}

		current, err := store.LoadPosition(ctx, e.store, b.ID)
		if err != nil {
			return nil, fmt.Errorf("reload position %s: %w", b.ID, err)
		}
		if !current.Notional.Equal(b.Notional) {
			changes = append(changes, PositionChange{
				PositionID:    current.ID,
				Market:        current.Market,
				PositionType:  current.PositionType,
				Maturity:      current.Maturity,
				NotionalDelta: current.Notional.Sub(b.Notional),
			})
		}
	}

	beforeSet := make(map[string]bool, len(before))
	for _, b := range before {
		beforeSet[b.ID] = true
	}
	for _, id := range after {
		if beforeSet[id] {
			continue
		}
		current, err := store.LoadPosition(ctx, e.store, id)
		if err != nil {
			return nil, fmt.Errorf("reload position %s: %w", id, err)
		}
		changes = append(changes, PositionChange{
			PositionID:    current.ID,
			Market:        current.Market,
			PositionType:  current.PositionType,
			Maturity:      current.Maturity,
			NotionalDelta: current.Notional,
		})
	}

	return changes, nil
}

// makeRemoval nets out a position that left the portfolio before
// maturity. A liquidity token is negated; a short obligation closes as
// the equivalent long claim and vice versa, so downstream aggregation
// treats closing consistently with opening the inverse.
func makeRemoval(p *entity.Position) (PositionChange, error) {
	change := PositionChange{
		PositionID: p.ID,
		Market:     p.Market,
		Maturity:   p.Maturity,
	}
	switch p.PositionType {
	case entity.LiquidityToken:
		change.PositionType = entity.LiquidityToken
		change.NotionalDelta = p.Notional.Neg()
	case entity.ShortObligation:
		change.PositionType = entity.LongClaim
		change.NotionalDelta = p.Notional
	case entity.LongClaim:
		change.PositionType = entity.ShortObligation
		change.NotionalDelta = p.Notional
	default:
		return PositionChange{}, fmt.Errorf("position %s: unknown position type %q", p.ID, string(p.PositionType))
	}
	return change, nil
}

// Package refdata maintains the reference-data entities: currencies,
// cash groups, maturity markets, exchange rates, price oracles and the
// system configuration singleton. All reads go through the ledger
// client; the store holds the reconciled copies.
package refdata

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"CashLedger/internal/chain"
	"CashLedger/internal/entity"
	"CashLedger/internal/event"
	"CashLedger/internal/store"
)

// Service reconciles reference data against the ledger.
type Service struct {
	store  store.Store
	ledger chain.LedgerClient
	log    zerolog.Logger
}

func NewService(s store.Store, ledger chain.LedgerClient, log zerolog.Logger) *Service {
	return &Service{store: s, ledger: ledger, log: log}
}

// GroupID formats a group id as its entity id.
func GroupID(groupID int32) string {
	return strconv.FormatInt(int64(groupID), 10)
}

// CurrencyID formats a currency id as its entity id.
func CurrencyID(currencyID int32) string {
	return strconv.FormatInt(int64(currencyID), 10)
}

// MarketID builds the market entity id from its group and maturity.
func MarketID(groupID int32, maturity int64) string {
	return fmt.Sprintf("%d:%d", groupID, maturity)
}

// ExchangeRateID builds the exchange-rate entity id from a currency pair.
func ExchangeRateID(baseID, quoteID int32) string {
	return fmt.Sprintf("%d:%d", baseID, quoteID)
}

// GetGroup loads a cash group, creating and populating it from the ledger
// on first sight.
func (s *Service) GetGroup(ctx context.Context, groupID int32, meta event.Meta) (*entity.Group, error) {
	id := GroupID(groupID)
	group, err := store.LoadGroup(ctx, s.store, id)
	if err == nil {
		return group, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("load group %s: %w", id, err)
	}

	group = &entity.Group{ID: id}
	if err := s.refreshGroup(ctx, group, groupID, meta); err != nil {
		return nil, err
	}
	return group, nil
}

// UpdateGroup re-reads a group's parameters from the ledger and persists
// them, creating the group if needed.
func (s *Service) UpdateGroup(ctx context.Context, groupID int32, meta event.Meta) error {
	id := GroupID(groupID)
	group, err := store.LoadGroup(ctx, s.store, id)
	if errors.Is(err, store.ErrNotFound) {
		group = &entity.Group{ID: id}
	} else if err != nil {
		return fmt.Errorf("load group %s: %w", id, err)
	}
	return s.refreshGroup(ctx, group, groupID, meta)
}

func (s *Service) refreshGroup(ctx context.Context, group *entity.Group, groupID int32, meta event.Meta) error {
	params, err := s.ledger.GroupParameters(ctx, groupID)
	if err != nil {
		return fmt.Errorf("query group %d parameters: %w", groupID, err)
	}

	group.NumMaturities = params.NumMaturities
	group.MaturityLength = params.MaturityLength
	group.RatePrecision = params.RatePrecision
	group.Currency = CurrencyID(params.CurrencyID)
	group.MarketContract = params.MarketContract
	group.IsIdiosyncratic = params.MarketContract == ""
	group.RateAnchor = params.RateAnchor
	group.RateScalar = params.RateScalar
	group.LiquidityFee = params.LiquidityFee
	group.TransactionFee = params.TransactionFee
	group.MaxTradeSize = params.MaxTradeSize
	group.Stamp(meta)

	if err := s.store.Upsert(ctx, group); err != nil {
		return fmt.Errorf("upsert group %s: %w", group.ID, err)
	}

	s.log.Debug().
		Str("group", group.ID).
		Str("currency", group.Currency).
		Bool("idiosyncratic", group.IsIdiosyncratic).
		Msg("group reconciled")
	return nil
}

// GroupByMarket resolves a market contract address to its cash group.
func (s *Service) GroupByMarket(ctx context.Context, marketAddress string, meta event.Meta) (*entity.Group, error) {
	groupID, err := s.ledger.MarketGroup(ctx, marketAddress)
	if err != nil {
		return nil, fmt.Errorf("resolve group of market %s: %w", marketAddress, err)
	}
	return s.GetGroup(ctx, groupID, meta)
}

// GetMarket loads the maturity market traded at an address, creating it
// on first sight and registering it on its group.
func (s *Service) GetMarket(ctx context.Context, marketAddress string, maturity int64, meta event.Meta) (*entity.Market, error) {
	group, err := s.GroupByMarket(ctx, marketAddress, meta)
	if err != nil {
		return nil, err
	}

	id := group.ID + ":" + strconv.FormatInt(maturity, 10)
	market, err := store.LoadMarket(ctx, s.store, id)
	if err == nil {
		return market, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("load market %s: %w", id, err)
	}

	market = &entity.Market{
		ID:       id,
		Address:  marketAddress,
		Group:    group.ID,
		Maturity: maturity,
	}
	if err := s.store.Upsert(ctx, market); err != nil {
		return nil, fmt.Errorf("upsert market %s: %w", id, err)
	}

	group.Markets = append(group.Markets, id)
	group.Stamp(meta)
	if err := s.store.Upsert(ctx, group); err != nil {
		return nil, fmt.Errorf("register market %s on group %s: %w", id, group.ID, err)
	}

	s.log.Info().Str("market", id).Str("address", marketAddress).Msg("market created")
	return market, nil
}

// RefreshMarket re-reads a market's live totals from the ledger after a
// trade touched it.
func (s *Service) RefreshMarket(ctx context.Context, marketAddress string, maturity int64, meta event.Meta) (*entity.Market, error) {
	market, err := s.GetMarket(ctx, marketAddress, maturity, meta)
	if err != nil {
		return nil, err
	}

	params, err := s.ledger.MarketParameters(ctx, marketAddress, maturity)
	if err != nil {
		return nil, fmt.Errorf("query market %s parameters: %w", market.ID, err)
	}

	market.TotalValue = params.TotalValue
	market.TotalSupply = params.TotalSupply
	market.TotalCash = params.TotalCash
	market.RateScalar = params.RateScalar
	market.RateAnchor = params.RateAnchor
	market.LastImpliedRate = params.LastImpliedRate
	market.Stamp(meta)

	if err := s.store.Upsert(ctx, market); err != nil {
		return nil, fmt.Errorf("upsert market %s: %w", market.ID, err)
	}
	return market, nil
}

// UpdateCurrency reconciles a newly listed currency token.
func (s *Service) UpdateCurrency(ctx context.Context, tokenAddress string, meta event.Meta) error {
	info, err := s.ledger.CurrencyInfo(ctx, tokenAddress)
	if err != nil {
		return fmt.Errorf("query currency info for %s: %w", tokenAddress, err)
	}

	id := CurrencyID(info.CurrencyID)
	currency, err := store.LoadCurrency(ctx, s.store, id)
	if errors.Is(err, store.ErrNotFound) {
		currency = &entity.Currency{ID: id}
	} else if err != nil {
		return fmt.Errorf("load currency %s: %w", id, err)
	}

	currency.Name = info.Name
	currency.Symbol = info.Symbol
	currency.TokenAddress = tokenAddress
	currency.Decimals = info.Decimals
	currency.HasTransferFee = info.HasTransferFee
	currency.Stamp(meta)

	if err := s.store.Upsert(ctx, currency); err != nil {
		return fmt.Errorf("upsert currency %s: %w", id, err)
	}

	s.log.Info().Str("currency", id).Str("symbol", currency.Symbol).Msg("currency listed")
	return nil
}

// UpdateExchangeRate reconciles the parameters of a currency pair and
// binds its oracle so later answers can be routed.
func (s *Service) UpdateExchangeRate(ctx context.Context, baseID, quoteID int32, meta event.Meta) error {
	params, err := s.ledger.ExchangeRateParameters(ctx, baseID, quoteID)
	if err != nil {
		return fmt.Errorf("query exchange rate %d:%d parameters: %w", baseID, quoteID, err)
	}

	id := ExchangeRateID(baseID, quoteID)
	rate, err := store.LoadExchangeRate(ctx, s.store, id)
	if errors.Is(err, store.ErrNotFound) {
		rate = &entity.ExchangeRate{
			ID:            id,
			BaseCurrency:  CurrencyID(baseID),
			QuoteCurrency: CurrencyID(quoteID),
		}
	} else if err != nil {
		return fmt.Errorf("load exchange rate %s: %w", id, err)
	}

	rate.RateOracle = params.RateOracle
	rate.RateDecimals = params.RateDecimals
	rate.MustInvert = params.MustInvert
	rate.Buffer = params.Buffer
	rate.Haircut = params.Haircut
	rate.LiquidationDiscount = params.LiquidationDiscount
	rate.Stamp(meta)

	if err := s.store.Upsert(ctx, rate); err != nil {
		return fmt.Errorf("upsert exchange rate %s: %w", id, err)
	}

	if params.RateOracle != "" {
		oracle := &entity.PriceOracle{ID: params.RateOracle, ExchangeRate: id}
		if err := s.store.Upsert(ctx, oracle); err != nil {
			return fmt.Errorf("bind oracle %s to exchange rate %s: %w", params.RateOracle, id, err)
		}

		answer, err := s.ledger.OracleAnswer(ctx, params.RateOracle)
		if err != nil {
			return fmt.Errorf("query oracle %s answer: %w", params.RateOracle, err)
		}
		if err := s.recordRateValue(ctx, rate, answer, meta); err != nil {
			return err
		}
	}

	s.log.Info().Str("exchangeRate", id).Str("oracle", params.RateOracle).Msg("exchange rate reconciled")
	return nil
}

// SetOracleAnswer records a fresh oracle answer. Answers from oracles not
// yet bound to an exchange rate are ignored: the binding event may simply
// not have arrived yet.
func (s *Service) SetOracleAnswer(ctx context.Context, oracleAddress string, answer decimal.Decimal, meta event.Meta) error {
	oracle, err := store.LoadPriceOracle(ctx, s.store, oracleAddress)
	if errors.Is(err, store.ErrNotFound) {
		s.log.Debug().Str("oracle", oracleAddress).Msg("answer from unbound oracle ignored")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load price oracle %s: %w", oracleAddress, err)
	}

	rate, err := store.LoadExchangeRate(ctx, s.store, oracle.ExchangeRate)
	if err != nil {
		return fmt.Errorf("load exchange rate %s for oracle %s: %w", oracle.ExchangeRate, oracleAddress, err)
	}
	return s.recordRateValue(ctx, rate, answer, meta)
}

func (s *Service) recordRateValue(ctx context.Context, rate *entity.ExchangeRate, answer decimal.Decimal, meta event.Meta) error {
	value := &entity.RateValue{
		ID:           rate.ID,
		ExchangeRate: rate.ID,
		Rate:         answer,
	}
	value.Stamp(meta)
	if err := s.store.Upsert(ctx, value); err != nil {
		return fmt.Errorf("upsert rate value %s: %w", value.ID, err)
	}

	if rate.LatestRate != value.ID {
		rate.LatestRate = value.ID
		rate.Stamp(meta)
		if err := s.store.Upsert(ctx, rate); err != nil {
			return fmt.Errorf("upsert exchange rate %s: %w", rate.ID, err)
		}
	}
	return nil
}

// Config loads the system configuration singleton, creating it empty on
// first access.
func (s *Service) Config(ctx context.Context) (*entity.SystemConfig, error) {
	cfg, err := store.LoadSystemConfig(ctx, s.store)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("load system config: %w", err)
	}
	return &entity.SystemConfig{ID: entity.SystemConfigID}, nil
}

// MutateConfig loads the system configuration, applies fn, stamps and
// persists it.
func (s *Service) MutateConfig(ctx context.Context, meta event.Meta, fn func(*entity.SystemConfig)) error {
	cfg, err := s.Config(ctx)
	if err != nil {
		return err
	}
	fn(cfg)
	cfg.Stamp(meta)
	if err := s.store.Upsert(ctx, cfg); err != nil {
		return fmt.Errorf("upsert system config: %w", err)
	}
	return nil
}

// MutateGroupByMarket loads the group serving a market contract, applies
// fn, stamps and persists it. Used by parameter-update events addressed
// to a market rather than a group. A market contract not yet registered
// with any group (id zero) is skipped: parameters can be set on a
// contract before it is listed.
func (s *Service) MutateGroupByMarket(ctx context.Context, marketAddress string, meta event.Meta, fn func(*entity.Group)) error {
	groupID, err := s.ledger.MarketGroup(ctx, marketAddress)
	if err != nil {
		return fmt.Errorf("resolve group of market %s: %w", marketAddress, err)
	}
	if groupID == 0 {
		s.log.Debug().Str("market", marketAddress).Msg("parameter update for unregistered market ignored")
		return nil
	}

	group, err := s.GetGroup(ctx, groupID, meta)
	if err != nil {
		return err
	}
	fn(group)
	group.Stamp(meta)
	if err := s.store.Upsert(ctx, group); err != nil {
		return fmt.Errorf("upsert group %s: %w", group.ID, err)
	}
	return nil
}

package store

import (
	"context"
	"fmt"

	"CashLedger/internal/entity"
)

// Typed load helpers. Each fails with ErrNotFound (wrapped) when absent
// and never returns a nil entity alongside a nil error.

func LoadAccount(ctx context.Context, s Store, id string) (*entity.Account, error) {
	e, err := s.Load(ctx, entity.KindAccount, id)
	if err != nil {
		return nil, err
	}
	return assertType[*entity.Account](e)
}

func LoadCurrencyBalance(ctx context.Context, s Store, id string) (*entity.CurrencyBalance, error) {
	e, err := s.Load(ctx, entity.KindCurrencyBalance, id)
	if err != nil {
		return nil, err
	}
	return assertType[*entity.CurrencyBalance](e)
}

func LoadPosition(ctx context.Context, s Store, id string) (*entity.Position, error) {
	e, err := s.Load(ctx, entity.KindPosition, id)
	if err != nil {
		return nil, err
	}
	return assertType[*entity.Position](e)
}

func LoadMarket(ctx context.Context, s Store, id string) (*entity.Market, error) {
	e, err := s.Load(ctx, entity.KindMarket, id)
	if err != nil {
		return nil, err
	}
	return assertType[*entity.Market](e)
}

func LoadGroup(ctx context.Context, s Store, id string) (*entity.Group, error) {
	e, err := s.Load(ctx, entity.KindGroup, id)
	if err != nil {
		return nil, err
	}
	return assertType[*entity.Group](e)
}

func LoadCurrency(ctx context.Context, s Store, id string) (*entity.Currency, error) {
	e, err := s.Load(ctx, entity.KindCurrency, id)
	if err != nil {
		return nil, err
	}
	return assertType[*entity.Currency](e)
}

func LoadExchangeRate(ctx context.Context, s Store, id string) (*entity.ExchangeRate, error) {
	e, err := s.Load(ctx, entity.KindExchangeRate, id)
	if err != nil {
		return nil, err
	}
	return assertType[*entity.ExchangeRate](e)
}

func LoadRateValue(ctx context.Context, s Store, id string) (*entity.RateValue, error) {
	e, err := s.Load(ctx, entity.KindRateValue, id)
	if err != nil {
		return nil, err
	}
	return assertType[*entity.RateValue](e)
}

func LoadPriceOracle(ctx context.Context, s Store, id string) (*entity.PriceOracle, error) {
	e, err := s.Load(ctx, entity.KindPriceOracle, id)
	if err != nil {
		return nil, err
	}
	return assertType[*entity.PriceOracle](e)
}

func LoadSystemConfig(ctx context.Context, s Store) (*entity.SystemConfig, error) {
	e, err := s.Load(ctx, entity.KindSystemConfig, entity.SystemConfigID)
	if err != nil {
		return nil, err
	}
	return assertType[*entity.SystemConfig](e)
}

func LoadTrade(ctx context.Context, s Store, id string) (*entity.Trade, error) {
	e, err := s.Load(ctx, entity.KindTrade, id)
	if err != nil {
		return nil, err
	}
	return assertType[*entity.Trade](e)
}

func LoadLiquidation(ctx context.Context, s Store, id string) (*entity.Liquidation, error) {
	e, err := s.Load(ctx, entity.KindLiquidation, id)
	if err != nil {
		return nil, err
	}
	return assertType[*entity.Liquidation](e)
}

func LoadSettlement(ctx context.Context, s Store, id string) (*entity.Settlement, error) {
	e, err := s.Load(ctx, entity.KindSettlement, id)
	if err != nil {
		return nil, err
	}
	return assertType[*entity.Settlement](e)
}

func LoadDeposit(ctx context.Context, s Store, id string) (*entity.Deposit, error) {
	e, err := s.Load(ctx, entity.KindDeposit, id)
	if err != nil {
		return nil, err
	}
	return assertType[*entity.Deposit](e)
}

func LoadWithdraw(ctx context.Context, s Store, id string) (*entity.Withdraw, error) {
	e, err := s.Load(ctx, entity.KindWithdraw, id)
	if err != nil {
		return nil, err
	}
	return assertType[*entity.Withdraw](e)
}

func LoadTransfer(ctx context.Context, s Store, id string) (*entity.Transfer, error) {
	e, err := s.Load(ctx, entity.KindTransfer, id)
	if err != nil {
		return nil, err
	}
	return assertType[*entity.Transfer](e)
}

func assertType[T entity.Entity](e entity.Entity) (T, error) {
	typed, ok := e.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("store: entity %s has unexpected type %T", e.EntityID(), e)
	}
	return typed, nil
}

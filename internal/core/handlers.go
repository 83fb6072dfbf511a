package core

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"CashLedger/internal/chain"
	"CashLedger/internal/entity"
	"CashLedger/internal/event"
	"CashLedger/internal/reconcile"
	"CashLedger/internal/refdata"
	"CashLedger/internal/store"
)

func (p *Processor) handleDeposit(ctx context.Context, e *event.Deposit) error {
	if _, err := p.accounts.UpdateAccount(ctx, e.Account, e.Meta); err != nil {
		return err
	}

	currency := refdata.CurrencyID(e.Currency)
	deposit := &entity.Deposit{
		ID:       fmt.Sprintf("%s:%s:%s:%d", e.Account, currency, e.Meta.TransactionHash, e.Meta.LogIndex),
		Account:  e.Account,
		Currency: currency,
		Amount:   e.Amount,
		Origin:   entity.OriginOf(e.Meta),
	}
	if err := p.store.Upsert(ctx, deposit); err != nil {
		return fmt.Errorf("upsert deposit %s: %w", deposit.ID, err)
	}

	p.log.Info().Str("deposit", deposit.ID).Msg("deposit recorded")
	return nil
}

func (p *Processor) handleWithdraw(ctx context.Context, e *event.Withdraw) error {
	if _, err := p.accounts.UpdateAccount(ctx, e.Account, e.Meta); err != nil {
		return err
	}

	currency := refdata.CurrencyID(e.Currency)
	withdraw := &entity.Withdraw{
		ID:       fmt.Sprintf("%s:%s:%s:%d", e.Account, currency, e.Meta.TransactionHash, e.Meta.LogIndex),
		Account:  e.Account,
		Currency: currency,
		Amount:   e.Amount,
		Origin:   entity.OriginOf(e.Meta),
	}
	if err := p.store.Upsert(ctx, withdraw); err != nil {
		return fmt.Errorf("upsert withdraw %s: %w", withdraw.ID, err)
	}

	p.log.Info().Str("withdraw", withdraw.ID).Msg("withdraw recorded")
	return nil
}

func (p *Processor) handleAddLiquidity(ctx context.Context, e *event.AddLiquidity) error {
	if _, err := p.accounts.UpdateAccount(ctx, e.Account, e.Meta); err != nil {
		return err
	}
	if _, err := p.refdata.RefreshMarket(ctx, e.MarketAddress, e.Maturity, e.Meta); err != nil {
		return err
	}

	// Providing liquidity opens a pool share against cash paid in, plus a
	// short obligation for the future cash locked into the market.
	if _, err := p.trades.RecordTrade(ctx, e.Meta, e.MarketAddress, entity.LiquidityToken, e.Tokens, e.Cash.Neg(), e.Maturity, decimal.Zero, e.Account); err != nil {
		return err
	}
	if _, err := p.trades.RecordTrade(ctx, e.Meta, e.MarketAddress, entity.ShortObligation, e.FutureCash, decimal.Zero, e.Maturity, decimal.Zero, e.Account); err != nil {
		return err
	}
	return nil
}

func (p *Processor) handleRemoveLiquidity(ctx context.Context, e *event.RemoveLiquidity) error {
	if _, err := p.accounts.UpdateAccount(ctx, e.Account, e.Meta); err != nil {
		return err
	}
	if _, err := p.refdata.RefreshMarket(ctx, e.MarketAddress, e.Maturity, e.Meta); err != nil {
		return err
	}

	if _, err := p.trades.RecordTrade(ctx, e.Meta, e.MarketAddress, entity.LiquidityToken, e.Tokens.Neg(), e.Cash, e.Maturity, decimal.Zero, e.Account); err != nil {
		return err
	}
	if _, err := p.trades.RecordTrade(ctx, e.Meta, e.MarketAddress, entity.LongClaim, e.FutureCash, decimal.Zero, e.Maturity, decimal.Zero, e.Account); err != nil {
		return err
	}
	return nil
}

func (p *Processor) handleTakeCash(ctx context.Context, e *event.TakeCash) error {
	if _, err := p.accounts.UpdateAccount(ctx, e.Account, e.Meta); err != nil {
		return err
	}
	if _, err := p.refdata.RefreshMarket(ctx, e.MarketAddress, e.Maturity, e.Meta); err != nil {
		return err
	}

	_, err := p.trades.RecordTrade(ctx, e.Meta, e.MarketAddress, entity.ShortObligation, e.FutureCash, e.Cash, e.Maturity, e.Fee, e.Account)
	return err
}

func (p *Processor) handleTakePosition(ctx context.Context, e *event.TakePosition) error {
	if _, err := p.accounts.UpdateAccount(ctx, e.Account, e.Meta); err != nil {
		return err
	}
	if _, err := p.refdata.RefreshMarket(ctx, e.MarketAddress, e.Maturity, e.Meta); err != nil {
		return err
	}

	_, err := p.trades.RecordTrade(ctx, e.Meta, e.MarketAddress, entity.LongClaim, e.FutureCash, e.Cash.Neg(), e.Maturity, e.Fee, e.Account)
	return err
}

func (p *Processor) handleTransferSingle(ctx context.Context, e *event.TransferSingle) error {
	if _, err := p.accounts.UpdateAccount(ctx, e.From, e.Meta); err != nil {
		return err
	}
	if _, err := p.accounts.UpdateAccount(ctx, e.To, e.Meta); err != nil {
		return err
	}
	return p.recordTransfer(ctx, e.Meta, e.From, e.To, e.Operator, e.PositionKey, e.Value)
}

func (p *Processor) handleTransferBatch(ctx context.Context, e *event.TransferBatch) error {
	if len(e.PositionKeys) != len(e.Values) {
		return fmt.Errorf("transfer batch in tx %s: %d keys but %d values", e.Meta.TransactionHash, len(e.PositionKeys), len(e.Values))
	}

	if _, err := p.accounts.UpdateAccount(ctx, e.From, e.Meta); err != nil {
		return err
	}
	if _, err := p.accounts.UpdateAccount(ctx, e.To, e.Meta); err != nil {
		return err
	}

	for i, key := range e.PositionKeys {
		if err := p.recordTransfer(ctx, e.Meta, e.From, e.To, e.Operator, key, e.Values[i]); err != nil {
			return err
		}
	}
	return nil
}

func (p *Processor) recordTransfer(ctx context.Context, meta event.Meta, from, to, operator string, rawKey uint64, notional decimal.Decimal) error {
	key := chain.PositionKey(rawKey)
	groupID, _, maturity, typeByte := key.Decode()

	positionType, err := entity.PositionTypeFromWire(typeByte)
	if err != nil {
		return fmt.Errorf("transfer %s in tx %s: %w", key.Hex(), meta.TransactionHash, err)
	}

	transfer := &entity.Transfer{
		ID:           fmt.Sprintf("%s:%s:%s:%s:%d", from, to, key.Hex(), meta.TransactionHash, meta.LogIndex),
		From:         from,
		To:           to,
		Operator:     operator,
		PositionKey:  key.Hex(),
		Group:        refdata.GroupID(groupID),
		Maturity:     maturity,
		PositionType: positionType,
		Notional:     notional,
		Origin:       entity.OriginOf(meta),
	}

	group, err := p.refdata.GetGroup(ctx, groupID, meta)
	if err != nil {
		return fmt.Errorf("transfer %s: %w", transfer.ID, err)
	}
	if group.MarketContract != "" {
		market, err := p.refdata.GetMarket(ctx, group.MarketContract, maturity, meta)
		if err != nil {
			return fmt.Errorf("transfer %s: %w", transfer.ID, err)
		}
		transfer.Market = market.ID
	}

	if err := p.store.Upsert(ctx, transfer); err != nil {
		return fmt.Errorf("upsert transfer %s: %w", transfer.ID, err)
	}

	p.log.Info().Str("transfer", transfer.ID).Msg("transfer recorded")
	return nil
}

func (p *Processor) handleLiquidate(ctx context.Context, e *event.Liquidate) error {
	if _, err := p.accounts.UpdateAccount(ctx, e.Meta.TransactionSender, e.Meta); err != nil {
		return err
	}

	changes, err := p.reconcileForced(ctx, e.Account, e.Meta)
	if err != nil {
		return err
	}

	return p.apportioner.RecordLiquidation(
		ctx, e.Meta,
		e.Meta.TransactionSender, e.Account,
		refdata.CurrencyID(e.LocalCurrency), refdata.CurrencyID(e.CollateralCurrency),
		e.Amount, changes,
	)
}

func (p *Processor) handleLiquidateBatch(ctx context.Context, e *event.LiquidateBatch) error {
	if len(e.Accounts) != len(e.Amounts) {
		return fmt.Errorf("liquidate batch in tx %s: %d accounts but %d amounts", e.Meta.TransactionHash, len(e.Accounts), len(e.Amounts))
	}

	if _, err := p.accounts.UpdateAccount(ctx, e.Meta.TransactionSender, e.Meta); err != nil {
		return err
	}

	for i, account := range e.Accounts {
		changes, err := p.reconcileForced(ctx, account, e.Meta)
		if err != nil {
			return err
		}

		if err := p.apportioner.RecordLiquidation(
			ctx, e.Meta,
			e.Meta.TransactionSender, account,
			refdata.CurrencyID(e.LocalCurrency), refdata.CurrencyID(e.CollateralCurrency),
			e.Amounts[i], changes,
		); err != nil {
			return err
		}
	}
	return nil
}

func (p *Processor) handleSettleCash(ctx context.Context, e *event.SettleCash) error {
	if _, err := p.accounts.UpdateAccount(ctx, e.Meta.TransactionSender, e.Meta); err != nil {
		return err
	}

	changes, err := p.reconcileForced(ctx, e.Payer, e.Meta)
	if err != nil {
		return err
	}

	return p.apportioner.RecordSettlement(
		ctx, e.Meta,
		e.Meta.TransactionSender, e.Payer,
		refdata.CurrencyID(e.LocalCurrency), refdata.CurrencyID(e.CollateralCurrency),
		e.SettledAmount, changes,
	)
}

func (p *Processor) handleSettleCashBatch(ctx context.Context, e *event.SettleCashBatch) error {
	if len(e.Payers) != len(e.SettledAmounts) {
		return fmt.Errorf("settle batch in tx %s: %d payers but %d amounts", e.Meta.TransactionHash, len(e.Payers), len(e.SettledAmounts))
	}

	if _, err := p.accounts.UpdateAccount(ctx, e.Meta.TransactionSender, e.Meta); err != nil {
		return err
	}

	// A payer settled twice in one transaction only diffs on the first
	// pass; the second settlement record sees no remaining balance delta.
	for i, payer := range e.Payers {
		changes, err := p.reconcileForced(ctx, payer, e.Meta)
		if err != nil {
			return err
		}

		if err := p.apportioner.RecordSettlement(
			ctx, e.Meta,
			e.Meta.TransactionSender, payer,
			refdata.CurrencyID(e.LocalCurrency), refdata.CurrencyID(e.CollateralCurrency),
			e.SettledAmounts[i], changes,
		); err != nil {
			return err
		}
	}
	return nil
}

func (p *Processor) handleSettlePortfolio(ctx context.Context, e *event.SettlePortfolio) error {
	_, err := p.accounts.UpdateAccount(ctx, e.Account, e.Meta)
	return err
}

func (p *Processor) handleSettlePortfolioBatch(ctx context.Context, e *event.SettlePortfolioBatch) error {
	for _, account := range e.Accounts {
		if _, err := p.accounts.UpdateAccount(ctx, account, e.Meta); err != nil {
			return err
		}
	}
	return nil
}

// reconcileForced reconciles an account hit by a forced transfer and
// refreshes every market its position changes touched.
func (p *Processor) reconcileForced(ctx context.Context, account string, meta event.Meta) (reconcile.Changes, error) {
	changes, err := p.accounts.UpdateAccount(ctx, account, meta)
	if err != nil {
		return reconcile.Changes{}, err
	}

	for _, c := range changes.PositionChanges {
		market, err := store.LoadMarket(ctx, p.store, c.Market)
		if err != nil {
			return reconcile.Changes{}, fmt.Errorf("market %s for position %s: %w", c.Market, c.PositionID, err)
		}
		if _, err := p.refdata.RefreshMarket(ctx, market.Address, market.Maturity, meta); err != nil {
			return reconcile.Changes{}, err
		}
	}
	return changes, nil
}

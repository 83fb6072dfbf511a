package ingestion

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"CashLedger/internal/event"
)

// ParseRawEvent converts a RawEvent into a typed event.Event. Amounts
// travel as decimal strings so no precision is lost in transit.
func ParseRawEvent(raw RawEvent) (event.Event, error) {
	switch raw.EventType {
	case "Deposit":
		return parseDeposit(raw.Data)
	case "Withdraw":
		return parseWithdraw(raw.Data)
	case "AddLiquidity":
		return parseAddLiquidity(raw.Data)
	case "RemoveLiquidity":
		return parseRemoveLiquidity(raw.Data)
	case "TakeCash":
		return parseTakeCash(raw.Data)
	case "TakePosition":
		return parseTakePosition(raw.Data)
	case "TransferSingle":
		return parseTransferSingle(raw.Data)
	case "TransferBatch":
		return parseTransferBatch(raw.Data)
	case "Liquidate":
		return parseLiquidate(raw.Data)
	case "LiquidateBatch":
		return parseLiquidateBatch(raw.Data)
	case "SettleCash":
		return parseSettleCash(raw.Data)
	case "SettleCashBatch":
		return parseSettleCashBatch(raw.Data)
	case "SettlePortfolio":
		return parseSettlePortfolio(raw.Data)
	case "SettlePortfolioBatch":
		return parseSettlePortfolioBatch(raw.Data)
	case "NewCurrency":
		return parseNewCurrency(raw.Data)
	case "UpdateExchangeRate":
		return parseUpdateExchangeRate(raw.Data)
	case "NewGroup":
		return parseNewGroup(raw.Data)
	case "UpdateGroup":
		return parseUpdateGroup(raw.Data)
	case "UpdateRateFactors":
		return parseUpdateRateFactors(raw.Data)
	case "UpdateMaxTradeSize":
		return parseUpdateMaxTradeSize(raw.Data)
	case "UpdateFees":
		return parseUpdateFees(raw.Data)
	case "SetDiscounts":
		return parseSetDiscounts(raw.Data)
	case "SetReserveAccount":
		return parseSetReserveAccount(raw.Data)
	case "SetHaircuts":
		return parseSetHaircuts(raw.Data)
	case "SetMaxPositions":
		return parseSetMaxPositions(raw.Data)
	case "OracleAnswer":
		return parseOracleAnswer(raw.Data)
	default:
		return nil, fmt.Errorf("unknown event type: %s", raw.EventType)
	}
}

// --- JSON wire formats ---
// Field names use snake_case to match the upstream publisher.

type metaJSON struct {
	BlockNumber       int64  `json:"block_number"`
	BlockTimestamp    int64  `json:"block_timestamp"`
	BlockHash         string `json:"block_hash"`
	TransactionHash   string `json:"transaction_hash"`
	TransactionSender string `json:"transaction_sender"`
	GasUsed           string `json:"gas_used"`
	GasPrice          string `json:"gas_price"`
	LogIndex          int64  `json:"log_index"`
}

func (j metaJSON) toMeta() (event.Meta, error) {
	gasUsed, err := parseAmount("gas_used", j.GasUsed)
	if err != nil {
		return event.Meta{}, err
	}
	gasPrice, err := parseAmount("gas_price", j.GasPrice)
	if err != nil {
		return event.Meta{}, err
	}
	return event.Meta{
		BlockNumber:       j.BlockNumber,
		BlockTimestamp:    j.BlockTimestamp,
		BlockHash:         j.BlockHash,
		TransactionHash:   j.TransactionHash,
		TransactionSender: j.TransactionSender,
		GasUsed:           gasUsed,
		GasPrice:          gasPrice,
		LogIndex:          j.LogIndex,
	}, nil
}

func parseAmount(field, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse %s: %w", field, err)
	}
	return d, nil
}

func parseAmounts(field string, values []string) ([]decimal.Decimal, error) {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		d, err := parseAmount(field, v)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}

type depositJSON struct {
	Meta     metaJSON `json:"meta"`
	Account  string   `json:"account"`
	Currency int32    `json:"currency"`
	Amount   string   `json:"amount"`
}

func parseDeposit(data []byte) (*event.Deposit, error) {
	var j depositJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse Deposit: %w", err)
	}
	meta, err := j.Meta.toMeta()
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount("amount", j.Amount)
	if err != nil {
		return nil, err
	}
	return &event.Deposit{Meta: meta, Account: j.Account, Currency: j.Currency, Amount: amount}, nil
}

func parseWithdraw(data []byte) (*event.Withdraw, error) {
	var j depositJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse Withdraw: %w", err)
	}
	meta, err := j.Meta.toMeta()
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount("amount", j.Amount)
	if err != nil {
		return nil, err
	}
	return &event.Withdraw{Meta: meta, Account: j.Account, Currency: j.Currency, Amount: amount}, nil
}

type liquidityJSON struct {
	Meta          metaJSON `json:"meta"`
	Account       string   `json:"account"`
	MarketAddress string   `json:"market_address"`
	Maturity      int64    `json:"maturity"`
	Tokens        string   `json:"tokens"`
	Cash          string   `json:"cash"`
	FutureCash    string   `json:"future_cash"`
}

func parseAddLiquidity(data []byte) (*event.AddLiquidity, error) {
	var j liquidityJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse AddLiquidity: %w", err)
	}
	meta, err := j.Meta.toMeta()
	if err != nil {
		return nil, err
	}
	tokens, err := parseAmount("tokens", j.Tokens)
	if err != nil {
		return nil, err
	}
	cash, err := parseAmount("cash", j.Cash)
	if err != nil {
		return nil, err
	}
	futureCash, err := parseAmount("future_cash", j.FutureCash)
	if err != nil {
		return nil, err
	}
	return &event.AddLiquidity{
		Meta: meta, Account: j.Account, MarketAddress: j.MarketAddress,
		Maturity: j.Maturity, Tokens: tokens, Cash: cash, FutureCash: futureCash,
	}, nil
}

func parseRemoveLiquidity(data []byte) (*event.RemoveLiquidity, error) {
	var j liquidityJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse RemoveLiquidity: %w", err)
	}
	meta, err := j.Meta.toMeta()
	if err != nil {
		return nil, err
	}
	tokens, err := parseAmount("tokens", j.Tokens)
	if err != nil {
		return nil, err
	}
	cash, err := parseAmount("cash", j.Cash)
	if err != nil {
		return nil, err
	}
	futureCash, err := parseAmount("future_cash", j.FutureCash)
	if err != nil {
		return nil, err
	}
	return &event.RemoveLiquidity{
		Meta: meta, Account: j.Account, MarketAddress: j.MarketAddress,
		Maturity: j.Maturity, Tokens: tokens, Cash: cash, FutureCash: futureCash,
	}, nil
}

type takeJSON struct {
	Meta          metaJSON `json:"meta"`
	Account       string   `json:"account"`
	MarketAddress string   `json:"market_address"`
	Maturity      int64    `json:"maturity"`
	FutureCash    string   `json:"future_cash"`
	Cash          string   `json:"cash"`
	Fee           string   `json:"fee"`
}

func (j takeJSON) fields() (event.Meta, decimal.Decimal, decimal.Decimal, decimal.Decimal, error) {
	meta, err := j.Meta.toMeta()
	if err != nil {
		return event.Meta{}, decimal.Decimal{}, decimal.Decimal{}, decimal.Decimal{}, err
	}
	futureCash, err := parseAmount("future_cash", j.FutureCash)
	if err != nil {
		return event.Meta{}, decimal.Decimal{}, decimal.Decimal{}, decimal.Decimal{}, err
	}
	cash, err := parseAmount("cash", j.Cash)
	if err != nil {
		return event.Meta{}, decimal.Decimal{}, decimal.Decimal{}, decimal.Decimal{}, err
	}
	fee, err := parseAmount("fee", j.Fee)
	if err != nil {
		return event.Meta{}, decimal.Decimal{}, decimal.Decimal{}, decimal.Decimal{}, err
	}
	return meta, futureCash, cash, fee, nil
}

func parseTakeCash(data []byte) (*event.TakeCash, error) {
	var j takeJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse TakeCash: %w", err)
	}
	meta, futureCash, cash, fee, err := j.fields()
	if err != nil {
		return nil, err
	}
	return &event.TakeCash{
		Meta: meta, Account: j.Account, MarketAddress: j.MarketAddress,
		Maturity: j.Maturity, FutureCash: futureCash, Cash: cash, Fee: fee,
	}, nil
}

func parseTakePosition(data []byte) (*event.TakePosition, error) {
	var j takeJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse TakePosition: %w", err)
	}
	meta, futureCash, cash, fee, err := j.fields()
	if err != nil {
		return nil, err
	}
	return &event.TakePosition{
		Meta: meta, Account: j.Account, MarketAddress: j.MarketAddress,
		Maturity: j.Maturity, FutureCash: futureCash, Cash: cash, Fee: fee,
	}, nil
}

type transferSingleJSON struct {
	Meta        metaJSON `json:"meta"`
	From        string   `json:"from"`
	To          string   `json:"to"`
	Operator    string   `json:"operator"`
	PositionKey uint64   `json:"position_key"`
	Value       string   `json:"value"`
}

func parseTransferSingle(data []byte) (*event.TransferSingle, error) {
	var j transferSingleJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse TransferSingle: %w", err)
	}
	meta, err := j.Meta.toMeta()
	if err != nil {
		return nil, err
	}
	value, err := parseAmount("value", j.Value)
	if err != nil {
		return nil, err
	}
	return &event.TransferSingle{
		Meta: meta, From: j.From, To: j.To, Operator: j.Operator,
		PositionKey: j.PositionKey, Value: value,
	}, nil
}

type transferBatchJSON struct {
	Meta         metaJSON `json:"meta"`
	From         string   `json:"from"`
	To           string   `json:"to"`
	Operator     string   `json:"operator"`
	PositionKeys []uint64 `json:"position_keys"`
	Values       []string `json:"values"`
}

func parseTransferBatch(data []byte) (*event.TransferBatch, error) {
	var j transferBatchJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse TransferBatch: %w", err)
	}
	if len(j.PositionKeys) != len(j.Values) {
		return nil, fmt.Errorf("parse TransferBatch: %d position_keys but %d values", len(j.PositionKeys), len(j.Values))
	}
	meta, err := j.Meta.toMeta()
	if err != nil {
		return nil, err
	}
	values, err := parseAmounts("values", j.Values)
	if err != nil {
		return nil, err
	}
	return &event.TransferBatch{
		Meta: meta, From: j.From, To: j.To, Operator: j.Operator,
		PositionKeys: j.PositionKeys, Values: values,
	}, nil
}

type liquidateJSON struct {
	Meta               metaJSON `json:"meta"`
	Account            string   `json:"account"`
	LocalCurrency      int32    `json:"local_currency"`
	CollateralCurrency int32    `json:"collateral_currency"`
	Amount             string   `json:"amount"`
}

func parseLiquidate(data []byte) (*event.Liquidate, error) {
	var j liquidateJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse Liquidate: %w", err)
	}
	meta, err := j.Meta.toMeta()
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount("amount", j.Amount)
	if err != nil {
		return nil, err
	}
	return &event.Liquidate{
		Meta: meta, Account: j.Account,
		LocalCurrency: j.LocalCurrency, CollateralCurrency: j.CollateralCurrency,
		Amount: amount,
	}, nil
}

type liquidateBatchJSON struct {
	Meta               metaJSON `json:"meta"`
	Accounts           []string `json:"accounts"`
	LocalCurrency      int32    `json:"local_currency"`
	CollateralCurrency int32    `json:"collateral_currency"`
	Amounts            []string `json:"amounts"`
}

func parseLiquidateBatch(data []byte) (*event.LiquidateBatch, error) {
	var j liquidateBatchJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse LiquidateBatch: %w", err)
	}
	if len(j.Accounts) != len(j.Amounts) {
		return nil, fmt.Errorf("parse LiquidateBatch: %d accounts but %d amounts", len(j.Accounts), len(j.Amounts))
	}
	meta, err := j.Meta.toMeta()
	if err != nil {
		return nil, err
	}
	amounts, err := parseAmounts("amounts", j.Amounts)
	if err != nil {
		return nil, err
	}
	return &event.LiquidateBatch{
		Meta: meta, Accounts: j.Accounts,
		LocalCurrency: j.LocalCurrency, CollateralCurrency: j.CollateralCurrency,
		Amounts: amounts,
	}, nil
}

type settleCashJSON struct {
	Meta               metaJSON `json:"meta"`
	Payer              string   `json:"payer"`
	LocalCurrency      int32    `json:"local_currency"`
	CollateralCurrency int32    `json:"collateral_currency"`
	SettledAmount      string   `json:"settled_amount"`
}

func parseSettleCash(data []byte) (*event.SettleCash, error) {
	var j settleCashJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse SettleCash: %w", err)
	}
	meta, err := j.Meta.toMeta()
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount("settled_amount", j.SettledAmount)
	if err != nil {
		return nil, err
	}
	return &event.SettleCash{
		Meta: meta, Payer: j.Payer,
		LocalCurrency: j.LocalCurrency, CollateralCurrency: j.CollateralCurrency,
		SettledAmount: amount,
	}, nil
}

type settleCashBatchJSON struct {
	Meta               metaJSON `json:"meta"`
	Payers             []string `json:"payers"`
	LocalCurrency      int32    `json:"local_currency"`
	CollateralCurrency int32    `json:"collateral_currency"`
	SettledAmounts     []string `json:"settled_amounts"`
}

func parseSettleCashBatch(data []byte) (*event.SettleCashBatch, error) {
	var j settleCashBatchJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse SettleCashBatch: %w", err)
	}
	if len(j.Payers) != len(j.SettledAmounts) {
		return nil, fmt.Errorf("parse SettleCashBatch: %d payers but %d amounts", len(j.Payers), len(j.SettledAmounts))
	}
	meta, err := j.Meta.toMeta()
	if err != nil {
		return nil, err
	}
	amounts, err := parseAmounts("settled_amounts", j.SettledAmounts)
	if err != nil {
		return nil, err
	}
	return &event.SettleCashBatch{
		Meta: meta, Payers: j.Payers,
		LocalCurrency: j.LocalCurrency, CollateralCurrency: j.CollateralCurrency,
		SettledAmounts: amounts,
	}, nil
}

type settlePortfolioJSON struct {
	Meta    metaJSON `json:"meta"`
	Account string   `json:"account"`
}

func parseSettlePortfolio(data []byte) (*event.SettlePortfolio, error) {
	var j settlePortfolioJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse SettlePortfolio: %w", err)
	}
	meta, err := j.Meta.toMeta()
	if err != nil {
		return nil, err
	}
	return &event.SettlePortfolio{Meta: meta, Account: j.Account}, nil
}

type settlePortfolioBatchJSON struct {
	Meta     metaJSON `json:"meta"`
	Accounts []string `json:"accounts"`
}

func parseSettlePortfolioBatch(data []byte) (*event.SettlePortfolioBatch, error) {
	var j settlePortfolioBatchJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse SettlePortfolioBatch: %w", err)
	}
	meta, err := j.Meta.toMeta()
	if err != nil {
		return nil, err
	}
	return &event.SettlePortfolioBatch{Meta: meta, Accounts: j.Accounts}, nil
}

type newCurrencyJSON struct {
	Meta         metaJSON `json:"meta"`
	TokenAddress string   `json:"token_address"`
}

func parseNewCurrency(data []byte) (*event.NewCurrency, error) {
	var j newCurrencyJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse NewCurrency: %w", err)
	}
	meta, err := j.Meta.toMeta()
	if err != nil {
		return nil, err
	}
	return &event.NewCurrency{Meta: meta, TokenAddress: j.TokenAddress}, nil
}

type updateExchangeRateJSON struct {
	Meta  metaJSON `json:"meta"`
	Base  int32    `json:"base"`
	Quote int32    `json:"quote"`
}

func parseUpdateExchangeRate(data []byte) (*event.UpdateExchangeRate, error) {
	var j updateExchangeRateJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse UpdateExchangeRate: %w", err)
	}
	meta, err := j.Meta.toMeta()
	if err != nil {
		return nil, err
	}
	return &event.UpdateExchangeRate{Meta: meta, Base: j.Base, Quote: j.Quote}, nil
}

type groupJSON struct {
	Meta    metaJSON `json:"meta"`
	GroupID int32    `json:"group_id"`
}

func parseNewGroup(data []byte) (*event.NewGroup, error) {
	var j groupJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse NewGroup: %w", err)
	}
	meta, err := j.Meta.toMeta()
	if err != nil {
		return nil, err
	}
	return &event.NewGroup{Meta: meta, GroupID: j.GroupID}, nil
}

func parseUpdateGroup(data []byte) (*event.UpdateGroup, error) {
	var j groupJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse UpdateGroup: %w", err)
	}
	meta, err := j.Meta.toMeta()
	if err != nil {
		return nil, err
	}
	return &event.UpdateGroup{Meta: meta, GroupID: j.GroupID}, nil
}

type updateRateFactorsJSON struct {
	Meta          metaJSON `json:"meta"`
	MarketAddress string   `json:"market_address"`
	RateAnchor    int64    `json:"rate_anchor"`
	RateScalar    string   `json:"rate_scalar"`
}

func parseUpdateRateFactors(data []byte) (*event.UpdateRateFactors, error) {
	var j updateRateFactorsJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse UpdateRateFactors: %w", err)
	}
	meta, err := j.Meta.toMeta()
	if err != nil {
		return nil, err
	}
	rateScalar, err := parseAmount("rate_scalar", j.RateScalar)
	if err != nil {
		return nil, err
	}
	return &event.UpdateRateFactors{
		Meta: meta, MarketAddress: j.MarketAddress,
		RateAnchor: j.RateAnchor, RateScalar: rateScalar,
	}, nil
}

type updateMaxTradeSizeJSON struct {
	Meta          metaJSON `json:"meta"`
	MarketAddress string   `json:"market_address"`
	MaxTradeSize  string   `json:"max_trade_size"`
}

func parseUpdateMaxTradeSize(data []byte) (*event.UpdateMaxTradeSize, error) {
	var j updateMaxTradeSizeJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse UpdateMaxTradeSize: %w", err)
	}
	meta, err := j.Meta.toMeta()
	if err != nil {
		return nil, err
	}
	maxTradeSize, err := parseAmount("max_trade_size", j.MaxTradeSize)
	if err != nil {
		return nil, err
	}
	return &event.UpdateMaxTradeSize{Meta: meta, MarketAddress: j.MarketAddress, MaxTradeSize: maxTradeSize}, nil
}

type updateFeesJSON struct {
	Meta           metaJSON `json:"meta"`
	MarketAddress  string   `json:"market_address"`
	LiquidityFee   int64    `json:"liquidity_fee"`
	TransactionFee string   `json:"transaction_fee"`
}

func parseUpdateFees(data []byte) (*event.UpdateFees, error) {
	var j updateFeesJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse UpdateFees: %w", err)
	}
	meta, err := j.Meta.toMeta()
	if err != nil {
		return nil, err
	}
	transactionFee, err := parseAmount("transaction_fee", j.TransactionFee)
	if err != nil {
		return nil, err
	}
	return &event.UpdateFees{
		Meta: meta, MarketAddress: j.MarketAddress,
		LiquidityFee: j.LiquidityFee, TransactionFee: transactionFee,
	}, nil
}

type setDiscountsJSON struct {
	Meta               metaJSON `json:"meta"`
	SettlementDiscount string   `json:"settlement_discount"`
	RepoIncentive      string   `json:"repo_incentive"`
}

func parseSetDiscounts(data []byte) (*event.SetDiscounts, error) {
	var j setDiscountsJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse SetDiscounts: %w", err)
	}
	meta, err := j.Meta.toMeta()
	if err != nil {
		return nil, err
	}
	settlementDiscount, err := parseAmount("settlement_discount", j.SettlementDiscount)
	if err != nil {
		return nil, err
	}
	repoIncentive, err := parseAmount("repo_incentive", j.RepoIncentive)
	if err != nil {
		return nil, err
	}
	return &event.SetDiscounts{Meta: meta, SettlementDiscount: settlementDiscount, RepoIncentive: repoIncentive}, nil
}

type setReserveAccountJSON struct {
	Meta           metaJSON `json:"meta"`
	ReserveAccount string   `json:"reserve_account"`
}

func parseSetReserveAccount(data []byte) (*event.SetReserveAccount, error) {
	var j setReserveAccountJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse SetReserveAccount: %w", err)
	}
	meta, err := j.Meta.toMeta()
	if err != nil {
		return nil, err
	}
	return &event.SetReserveAccount{Meta: meta, ReserveAccount: j.ReserveAccount}, nil
}

type setHaircutsJSON struct {
	Meta               metaJSON `json:"meta"`
	LiquidityHaircut   string   `json:"liquidity_haircut"`
	PositionHaircut    string   `json:"position_haircut"`
	PositionMaxHaircut string   `json:"position_max_haircut"`
}

func parseSetHaircuts(data []byte) (*event.SetHaircuts, error) {
	var j setHaircutsJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse SetHaircuts: %w", err)
	}
	meta, err := j.Meta.toMeta()
	if err != nil {
		return nil, err
	}
	liquidityHaircut, err := parseAmount("liquidity_haircut", j.LiquidityHaircut)
	if err != nil {
		return nil, err
	}
	positionHaircut, err := parseAmount("position_haircut", j.PositionHaircut)
	if err != nil {
		return nil, err
	}
	positionMaxHaircut, err := parseAmount("position_max_haircut", j.PositionMaxHaircut)
	if err != nil {
		return nil, err
	}
	return &event.SetHaircuts{
		Meta: meta, LiquidityHaircut: liquidityHaircut,
		PositionHaircut: positionHaircut, PositionMaxHaircut: positionMaxHaircut,
	}, nil
}

type setMaxPositionsJSON struct {
	Meta         metaJSON `json:"meta"`
	MaxPositions int64    `json:"max_positions"`
}

func parseSetMaxPositions(data []byte) (*event.SetMaxPositions, error) {
	var j setMaxPositionsJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse SetMaxPositions: %w", err)
	}
	meta, err := j.Meta.toMeta()
	if err != nil {
		return nil, err
	}
	return &event.SetMaxPositions{Meta: meta, MaxPositions: j.MaxPositions}, nil
}

type oracleAnswerJSON struct {
	Meta          metaJSON `json:"meta"`
	OracleAddress string   `json:"oracle_address"`
	Answer        string   `json:"answer"`
}

func parseOracleAnswer(data []byte) (*event.OracleAnswer, error) {
	var j oracleAnswerJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse OracleAnswer: %w", err)
	}
	meta, err := j.Meta.toMeta()
	if err != nil {
		return nil, err
	}
	answer, err := parseAmount("answer", j.Answer)
	if err != nil {
		return nil, err
	}
	return &event.OracleAnswer{Meta: meta, OracleAddress: j.OracleAddress, Answer: answer}, nil
}

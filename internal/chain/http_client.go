package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// HTTPClient talks to a ledger query gateway over HTTP. All amounts are
// decimal strings on the wire. A 404 from the position endpoint is the
// end-of-list sentinel.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient builds a client for the gateway at baseURL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrEndOfList
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ledger gateway %s: status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *HTTPClient) MaxCurrencyID(ctx context.Context) (int32, error) {
	var out struct {
		MaxCurrencyID int32 `json:"max_currency_id"`
	}
	if err := c.get(ctx, "/v1/currencies/max", nil, &out); err != nil {
		return 0, fmt.Errorf("query max currency id: %w", err)
	}
	return out.MaxCurrencyID, nil
}

func (c *HTTPClient) BalanceOf(ctx context.Context, currencyID int32, address string) (decimal.Decimal, error) {
	var out struct {
		Balance decimal.Decimal `json:"balance"`
	}
	q := url.Values{
		"currency": {strconv.FormatInt(int64(currencyID), 10)},
		"address":  {address},
	}
	if err := c.get(ctx, "/v1/balances", q, &out); err != nil {
		return decimal.Decimal{}, fmt.Errorf("query balance: %w", err)
	}
	return out.Balance, nil
}

type positionJSON struct {
	GroupID      int32           `json:"group_id"`
	InstrumentID uint16          `json:"instrument_id"`
	Maturity     int64           `json:"maturity"`
	TypeByte     byte            `json:"type_byte"`
	Rate         int64           `json:"rate"`
	Notional     decimal.Decimal `json:"notional"`
}

func (c *HTTPClient) PositionAt(ctx context.Context, address string, index int) (PositionData, error) {
	var out positionJSON
	q := url.Values{
		"address": {address},
		"index":   {strconv.Itoa(index)},
	}
	err := c.get(ctx, "/v1/positions", q, &out)
	if err == ErrEndOfList {
		return PositionData{}, ErrEndOfList
	}
	if err != nil {
		return PositionData{}, fmt.Errorf("query position %d of %s: %w", index, address, err)
	}
	return PositionData{
		GroupID:      out.GroupID,
		InstrumentID: out.InstrumentID,
		Maturity:     out.Maturity,
		TypeByte:     out.TypeByte,
		Rate:         out.Rate,
		Notional:     out.Notional,
	}, nil
}

func (c *HTTPClient) MarketGroup(ctx context.Context, marketAddress string) (int32, error) {
	var out struct {
		GroupID int32 `json:"group_id"`
	}
	q := url.Values{"market": {marketAddress}}
	if err := c.get(ctx, "/v1/markets/group", q, &out); err != nil {
		return 0, fmt.Errorf("query market group: %w", err)
	}
	return out.GroupID, nil
}

func (c *HTTPClient) GroupParameters(ctx context.Context, groupID int32) (GroupParameters, error) {
	var out struct {
		NumMaturities  int64           `json:"num_maturities"`
		MaturityLength int64           `json:"maturity_length"`
		RatePrecision  decimal.Decimal `json:"rate_precision"`
		CurrencyID     int32           `json:"currency_id"`
		MarketContract string          `json:"market_contract"`
		RateAnchor     int64           `json:"rate_anchor"`
		RateScalar     decimal.Decimal `json:"rate_scalar"`
		LiquidityFee   int64           `json:"liquidity_fee"`
		TransactionFee decimal.Decimal `json:"transaction_fee"`
		MaxTradeSize   decimal.Decimal `json:"max_trade_size"`
	}
	q := url.Values{"group": {strconv.FormatInt(int64(groupID), 10)}}
	if err := c.get(ctx, "/v1/groups", q, &out); err != nil {
		return GroupParameters{}, fmt.Errorf("query group %d: %w", groupID, err)
	}
	return GroupParameters{
		NumMaturities:  out.NumMaturities,
		MaturityLength: out.MaturityLength,
		RatePrecision:  out.RatePrecision,
		CurrencyID:     out.CurrencyID,
		MarketContract: out.MarketContract,
		RateAnchor:     out.RateAnchor,
		RateScalar:     out.RateScalar,
		LiquidityFee:   out.LiquidityFee,
		TransactionFee: out.TransactionFee,
		MaxTradeSize:   out.MaxTradeSize,
	}, nil
}

func (c *HTTPClient) MarketParameters(ctx context.Context, marketAddress string, maturity int64) (MarketParameters, error) {
	var out struct {
		TotalValue      decimal.Decimal `json:"total_value"`
		TotalSupply     decimal.Decimal `json:"total_supply"`
		TotalCash       decimal.Decimal `json:"total_cash"`
		RateScalar      decimal.Decimal `json:"rate_scalar"`
		RateAnchor      int64           `json:"rate_anchor"`
		LastImpliedRate int64           `json:"last_implied_rate"`
	}
	q := url.Values{
		"market":   {marketAddress},
		"maturity": {strconv.FormatInt(maturity, 10)},
	}
	if err := c.get(ctx, "/v1/markets", q, &out); err != nil {
		return MarketParameters{}, fmt.Errorf("query market %s at %d: %w", marketAddress, maturity, err)
	}
	return MarketParameters{
		TotalValue:      out.TotalValue,
		TotalSupply:     out.TotalSupply,
		TotalCash:       out.TotalCash,
		RateScalar:      out.RateScalar,
		RateAnchor:      out.RateAnchor,
		LastImpliedRate: out.LastImpliedRate,
	}, nil
}

func (c *HTTPClient) CurrencyInfo(ctx context.Context, tokenAddress string) (CurrencyInfo, error) {
	var out struct {
		CurrencyID     int32  `json:"currency_id"`
		Name           string `json:"name"`
		Symbol         string `json:"symbol"`
		Decimals       int64  `json:"decimals"`
		HasTransferFee bool   `json:"has_transfer_fee"`
	}
	q := url.Values{"token": {tokenAddress}}
	if err := c.get(ctx, "/v1/currencies", q, &out); err != nil {
		return CurrencyInfo{}, fmt.Errorf("query currency %s: %w", tokenAddress, err)
	}
	return CurrencyInfo{
		CurrencyID:     out.CurrencyID,
		Name:           out.Name,
		Symbol:         out.Symbol,
		Decimals:       out.Decimals,
		HasTransferFee: out.HasTransferFee,
	}, nil
}

func (c *HTTPClient) ExchangeRateParameters(ctx context.Context, baseID, quoteID int32) (ExchangeRateParameters, error) {
	var out struct {
		RateOracle          string          `json:"rate_oracle"`
		RateDecimals        decimal.Decimal `json:"rate_decimals"`
		MustInvert          bool            `json:"must_invert"`
		Buffer              decimal.Decimal `json:"buffer"`
		Haircut             decimal.Decimal `json:"haircut"`
		LiquidationDiscount decimal.Decimal `json:"liquidation_discount"`
	}
	q := url.Values{
		"base":  {strconv.FormatInt(int64(baseID), 10)},
		"quote": {strconv.FormatInt(int64(quoteID), 10)},
	}
	if err := c.get(ctx, "/v1/exchange-rates", q, &out); err != nil {
		return ExchangeRateParameters{}, fmt.Errorf("query exchange rate %d:%d: %w", baseID, quoteID, err)
	}
	return ExchangeRateParameters{
		RateOracle:          out.RateOracle,
		RateDecimals:        out.RateDecimals,
		MustInvert:          out.MustInvert,
		Buffer:              out.Buffer,
		Haircut:             out.Haircut,
		LiquidationDiscount: out.LiquidationDiscount,
	}, nil
}

func (c *HTTPClient) OracleAnswer(ctx context.Context, oracleAddress string) (decimal.Decimal, error) {
	var out struct {
		Answer decimal.Decimal `json:"answer"`
	}
	q := url.Values{"oracle": {oracleAddress}}
	if err := c.get(ctx, "/v1/oracles", q, &out); err != nil {
		return decimal.Decimal{}, fmt.Errorf("query oracle %s: %w", oracleAddress, err)
	}
	return out.Answer, nil
}

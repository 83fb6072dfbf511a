// Package history writes the immutable history records: trades with
// derived rate analytics, liquidations and settlements with apportioned
// collateral amounts.
package history

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// rateDecimalPlaces is the fixed fractional precision of all derived
// rates.
const rateDecimalPlaces = 12

var rateScale = new(big.Int).Exp(big.NewInt(10), big.NewInt(rateDecimalPlaces), nil)

var one = decimal.NewFromInt(1)

// truncDiv divides num by den exactly and truncates the quotient toward
// zero at 12 fractional digits. Plain decimal division rounds at its
// configured precision, which is not the same thing; the quotient has to
// go through a rational so no digit is ever rounded up.
func truncDiv(num, den decimal.Decimal) decimal.Decimal {
	ratio := new(big.Rat).Quo(num.Rat(), den.Rat())
	scaled := new(big.Rat).Mul(ratio, new(big.Rat).SetInt(rateScale))
	q := new(big.Int).Quo(scaled.Num(), scaled.Denom())
	return decimal.NewFromBigInt(q, -rateDecimalPlaces)
}

// exchangeRate derives the realized exchange rate of a trade from its
// absolute net cash movement and notional.
func exchangeRate(netCashChange, notional decimal.Decimal) decimal.Decimal {
	return truncDiv(netCashChange.Abs(), notional)
}

// impliedRate annualizes an exchange rate over the remaining blocks to
// maturity, normalized by the group's maturity length.
func impliedRate(exchangeRate decimal.Decimal, maturityLength, blocksToMaturity int64) decimal.Decimal {
	num := exchangeRate.Sub(one).Mul(decimal.NewFromInt(maturityLength))
	return truncDiv(num, decimal.NewFromInt(blocksToMaturity))
}

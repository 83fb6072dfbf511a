package history

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestTruncDiv_ExactQuotient(t *testing.T) {
	got := truncDiv(d("3"), d("2"))
	if got.String() != "1.5" {
		t.Errorf("got %s, want 1.5", got)
	}
}

func TestTruncDiv_TruncatesNotRounds(t *testing.T) {
	// 2/3 = 0.666... must truncate at twelve digits, never round to ...667.
	got := truncDiv(d("2"), d("3"))
	if got.String() != "0.666666666666" {
		t.Errorf("got %s, want 0.666666666666", got)
	}
}

func TestTruncDiv_KeepsTrailingUnitDigit(t *testing.T) {
	got := truncDiv(d("1000000000013"), d("1000000000000"))
	if got.String() != "1.000000000013" {
		t.Errorf("got %s, want 1.000000000013", got)
	}
}

func TestTruncDiv_NegativeTruncatesTowardZero(t *testing.T) {
	got := truncDiv(d("-2"), d("3"))
	if got.String() != "-0.666666666666" {
		t.Errorf("got %s, want -0.666666666666", got)
	}
}

func TestExchangeRate_UsesAbsoluteCash(t *testing.T) {
	got := exchangeRate(d("-150"), d("100"))
	if !got.Equal(d("1.5")) {
		t.Errorf("got %s, want 1.5", got)
	}
}

func TestImpliedRate(t *testing.T) {
	// (1.5 - 1) * 1000 / 500 = 1
	got := impliedRate(d("1.5"), 1000, 500)
	if !got.Equal(d("1")) {
		t.Errorf("got %s, want 1", got)
	}
}

func TestImpliedRate_TinyPremium(t *testing.T) {
	// Premium of 13e-12 over one maturity length exactly.
	er := d("1.000000000013")
	got := impliedRate(er, 100, 100)
	if got.String() != "0.000000000013" {
		t.Errorf("got %s, want 0.000000000013", got)
	}
}

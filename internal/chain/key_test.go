package chain_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"CashLedger/internal/chain"
	"CashLedger/internal/testutil"
)

func TestPositionKey_RoundTrip(t *testing.T) {
	key := chain.EncodePositionKey(5, 7, 1_000_000, 0xac)

	groupID, instrumentID, maturity, typeByte := key.Decode()
	if groupID != 5 {
		t.Errorf("group: got %d, want 5", groupID)
	}
	if instrumentID != 7 {
		t.Errorf("instrument: got %d, want 7", instrumentID)
	}
	if maturity != 1_000_000 {
		t.Errorf("maturity: got %d, want 1_000_000", maturity)
	}
	if typeByte != 0xac {
		t.Errorf("type byte: got 0x%02x, want 0xac", typeByte)
	}
}

func TestPositionKey_Hex(t *testing.T) {
	key := chain.EncodePositionKey(1, 0, 100, 0xa8)

	if got := key.Hex(); got != "0x01000000000064a8" {
		t.Errorf("hex: got %q, want %q", got, "0x01000000000064a8")
	}
}

func TestPositionKey_FieldsDoNotOverlap(t *testing.T) {
	// Maximal values in every field must decode unchanged.
	key := chain.EncodePositionKey(255, 0xffff, 0xffffffff, 0xff)

	groupID, instrumentID, maturity, typeByte := key.Decode()
	if groupID != 255 || instrumentID != 0xffff || maturity != 0xffffffff || typeByte != 0xff {
		t.Errorf("decode: got (%d, %d, %d, 0x%02x)", groupID, instrumentID, maturity, typeByte)
	}
}

func TestPositionIterator_WalksUntilEnd(t *testing.T) {
	ledger := testutil.NewFakeLedger()
	ledger.SetPortfolio("0xabc",
		chain.PositionData{GroupID: 1, Maturity: 100, TypeByte: 0x98, Notional: decimal.NewFromInt(10)},
		chain.PositionData{GroupID: 1, Maturity: 200, TypeByte: 0xa8, Notional: decimal.NewFromInt(20)},
	)

	it := chain.NewPositionIterator(ledger, "0xabc")
	ctx := context.Background()

	var seen []chain.PositionData
	for {
		data, ok, err := it.Next(ctx)
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if !ok {
			break
		}
		seen = append(seen, data)
	}

	if len(seen) != 2 {
		t.Fatalf("positions: got %d, want 2", len(seen))
	}
	if seen[0].Maturity != 100 || seen[1].Maturity != 200 {
		t.Errorf("order: got maturities %d, %d", seen[0].Maturity, seen[1].Maturity)
	}
}

func TestPositionIterator_EmptyPortfolio(t *testing.T) {
	ledger := testutil.NewFakeLedger()

	it := chain.NewPositionIterator(ledger, "0xempty")
	_, ok, err := it.Next(context.Background())
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if ok {
		t.Error("expected no positions")
	}
}

func TestPositionIterator_PropagatesError(t *testing.T) {
	ledger := testutil.NewFakeLedger()
	ledger.Err = context.DeadlineExceeded

	it := chain.NewPositionIterator(ledger, "0xabc")
	_, _, err := it.Next(context.Background())
	if err == nil {
		t.Fatal("expected a ledger error")
	}
}

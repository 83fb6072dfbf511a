package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"CashLedger/internal/entity"
	"CashLedger/internal/store"
)

func TestMemory_LoadMissing(t *testing.T) {
	mem := store.NewMemory()

	_, err := mem.Load(context.Background(), entity.KindAccount, "0xabc")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestMemory_UpsertThenLoad(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()

	account := &entity.Account{ID: "0xabc", Balances: []string{"0xabc:0"}, Portfolio: []string{}}
	if err := mem.Upsert(ctx, account); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	loaded, err := store.LoadAccount(ctx, mem, "0xabc")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.ID != "0xabc" {
		t.Errorf("id: got %q, want %q", loaded.ID, "0xabc")
	}
	if len(loaded.Balances) != 1 || loaded.Balances[0] != "0xabc:0" {
		t.Errorf("balances: got %v", loaded.Balances)
	}
}

func TestMemory_NoAliasing(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()

	account := &entity.Account{ID: "0xabc", Balances: []string{}, Portfolio: []string{}}
	if err := mem.Upsert(ctx, account); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	// Mutating the original after upsert must not leak into the store.
	account.Balances = append(account.Balances, "0xabc:9")

	loaded, err := store.LoadAccount(ctx, mem, "0xabc")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Balances) != 0 {
		t.Errorf("stored copy mutated: got %v", loaded.Balances)
	}
}

func TestMemory_DeleteMissingIsNoOp(t *testing.T) {
	mem := store.NewMemory()

	if err := mem.Delete(context.Background(), entity.KindCurrencyBalance, "0xabc:0"); err != nil {
		t.Errorf("delete missing: %v", err)
	}
}

func TestMemory_DeleteRemoves(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()

	balance := &entity.CurrencyBalance{ID: "0xabc:0", Currency: "0", CashBalance: decimal.NewFromInt(100)}
	if err := mem.Upsert(ctx, balance); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := mem.Delete(ctx, entity.KindCurrencyBalance, "0xabc:0"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, err := mem.Load(ctx, entity.KindCurrencyBalance, "0xabc:0")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestMemory_KindsAreNamespaced(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()

	if err := mem.Upsert(ctx, &entity.Account{ID: "shared", Balances: []string{}, Portfolio: []string{}}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	_, err := mem.Load(ctx, entity.KindMarket, "shared")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("market under account id: got %v, want ErrNotFound", err)
	}
}

func TestMemory_DecimalSurvivesRoundTrip(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()

	want := decimal.RequireFromString("123456789.000000000013")
	balance := &entity.CurrencyBalance{ID: "0xabc:1", Currency: "1", CashBalance: want}
	if err := mem.Upsert(ctx, balance); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	loaded, err := store.LoadCurrencyBalance(ctx, mem, "0xabc:1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !loaded.CashBalance.Equal(want) {
		t.Errorf("cash balance: got %s, want %s", loaded.CashBalance, want)
	}
}

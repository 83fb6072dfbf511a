package store_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"CashLedger/internal/entity"
	"CashLedger/internal/store"
	"CashLedger/internal/testutil"
)

func TestPostgres_RoundTrip(t *testing.T) {
	testutil.RequireIntegration(t)
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	pg := store.NewPostgres(db)
	ctx := context.Background()

	market := &entity.Market{
		ID:          "1:1000",
		Address:     "0xmarket",
		Group:       "1",
		Maturity:    1000,
		TotalSupply: decimal.NewFromInt(5000),
	}
	if err := pg.Upsert(ctx, market); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	loaded, err := store.LoadMarket(ctx, pg, "1:1000")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Address != "0xmarket" || !loaded.TotalSupply.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("got %+v", loaded)
	}
}

func TestPostgres_UpsertOverwrites(t *testing.T) {
	testutil.RequireIntegration(t)
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	pg := store.NewPostgres(db)
	ctx := context.Background()

	balance := &entity.CurrencyBalance{ID: "0xa:0", Currency: "0", CashBalance: decimal.NewFromInt(100)}
	if err := pg.Upsert(ctx, balance); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	balance.CashBalance = decimal.NewFromInt(250)
	if err := pg.Upsert(ctx, balance); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	loaded, err := store.LoadCurrencyBalance(ctx, pg, "0xa:0")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !loaded.CashBalance.Equal(decimal.NewFromInt(250)) {
		t.Errorf("cash balance: got %s, want 250", loaded.CashBalance)
	}
}

func TestPostgres_DeleteMissingIsNoOp(t *testing.T) {
	testutil.RequireIntegration(t)
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	pg := store.NewPostgres(db)
	if err := pg.Delete(context.Background(), entity.KindCurrencyBalance, "0xnone:0"); err != nil {
		t.Errorf("delete missing: %v", err)
	}
}

func TestPostgres_WithinTxRollsBackOnError(t *testing.T) {
	testutil.RequireIntegration(t)
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	pg := store.NewPostgres(db)
	ctx := context.Background()

	failure := fmt.Errorf("event aborted")
	err := pg.WithinTx(ctx, func(s store.Store) error {
		account := &entity.Account{ID: "0xrollback", Balances: []string{}, Portfolio: []string{}}
		if err := s.Upsert(ctx, account); err != nil {
			return err
		}
		return failure
	})
	if !errors.Is(err, failure) {
		t.Fatalf("got %v, want the injected failure", err)
	}

	_, err = store.LoadAccount(ctx, pg, "0xrollback")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("account visible after rollback: %v", err)
	}
}

func TestPostgres_WithinTxCommits(t *testing.T) {
	testutil.RequireIntegration(t)
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	pg := store.NewPostgres(db)
	ctx := context.Background()

	err := pg.WithinTx(ctx, func(s store.Store) error {
		return s.Upsert(ctx, &entity.Account{ID: "0xcommit", Balances: []string{}, Portfolio: []string{}})
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}

	if _, err := store.LoadAccount(ctx, pg, "0xcommit"); err != nil {
		t.Errorf("account not visible after commit: %v", err)
	}
}

package reconcile_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"CashLedger/internal/chain"
	"CashLedger/internal/entity"
	"CashLedger/internal/event"
	"CashLedger/internal/reconcile"
	"CashLedger/internal/refdata"
	"CashLedger/internal/store"
	"CashLedger/internal/testutil"
)

func newReconciler(mem store.Store, ledger *testutil.FakeLedger) *reconcile.AccountReconciler {
	rd := refdata.NewService(mem, ledger, zerolog.Nop())
	balances := reconcile.NewBalanceReconciler(mem, ledger, zerolog.Nop())
	portfolio := reconcile.NewPortfolioDiffEngine(mem, ledger, rd, zerolog.Nop())
	return reconcile.NewAccountReconciler(mem, balances, portfolio, nil, zerolog.Nop())
}

func metaAt(block int64) event.Meta {
	return event.Meta{
		BlockNumber:     block,
		BlockTimestamp:  block * 10,
		BlockHash:       "0xblock",
		TransactionHash: "0xtx",
		LogIndex:        1,
	}
}

// tradedGroup registers group 1 with a market contract so positions get
// a market link.
func tradedGroup(ledger *testutil.FakeLedger) {
	ledger.AddGroup(1, chain.GroupParameters{
		NumMaturities:  4,
		MaturityLength: 100,
		CurrencyID:     0,
		MarketContract: "0xmarket",
	})
}

// ============================================================================
// Balances
// ============================================================================

func TestUpdateAccount_DetectsBalanceDelta(t *testing.T) {
	mem := store.NewMemory()
	ledger := testutil.NewFakeLedger()
	ledger.SetBalance("0xa", 0, decimal.NewFromInt(100))
	acc := newReconciler(mem, ledger)

	changes, err := acc.UpdateAccount(context.Background(), "0xa", metaAt(500))
	if err != nil {
		t.Fatalf("update account: %v", err)
	}

	if len(changes.BalanceChanges) != 1 {
		t.Fatalf("balance changes: got %d, want 1", len(changes.BalanceChanges))
	}
	c := changes.BalanceChanges[0]
	if c.Currency != "0" {
		t.Errorf("currency: got %q, want %q", c.Currency, "0")
	}
	if !c.Delta.Equal(decimal.NewFromInt(100)) {
		t.Errorf("delta: got %s, want 100", c.Delta)
	}

	balance, err := store.LoadCurrencyBalance(context.Background(), mem, "0xa:0")
	if err != nil {
		t.Fatalf("load balance: %v", err)
	}
	if !balance.CashBalance.Equal(decimal.NewFromInt(100)) {
		t.Errorf("stored balance: got %s, want 100", balance.CashBalance)
	}
}

func TestUpdateAccount_BalanceListOrderedAndNonZeroOnly(t *testing.T) {
	mem := store.NewMemory()
	ledger := testutil.NewFakeLedger()
	ledger.MaxCurrency = 2
	ledger.SetBalance("0xa", 0, decimal.NewFromInt(10))
	ledger.SetBalance("0xa", 2, decimal.NewFromInt(30))
	acc := newReconciler(mem, ledger)

	ctx := context.Background()
	if _, err := acc.UpdateAccount(ctx, "0xa", metaAt(500)); err != nil {
		t.Fatalf("update account: %v", err)
	}

	account, err := store.LoadAccount(ctx, mem, "0xa")
	if err != nil {
		t.Fatalf("load account: %v", err)
	}
	want := []string{"0xa:0", "0xa:2"}
	if len(account.Balances) != len(want) {
		t.Fatalf("balances: got %v, want %v", account.Balances, want)
	}
	for i := range want {
		if account.Balances[i] != want[i] {
			t.Errorf("balances[%d]: got %q, want %q", i, account.Balances[i], want[i])
		}
	}
}

func TestUpdateAccount_PrunesZeroBalance(t *testing.T) {
	mem := store.NewMemory()
	ledger := testutil.NewFakeLedger()
	ledger.SetBalance("0xa", 0, decimal.NewFromInt(100))
	acc := newReconciler(mem, ledger)
	ctx := context.Background()

	if _, err := acc.UpdateAccount(ctx, "0xa", metaAt(500)); err != nil {
		t.Fatalf("first pass: %v", err)
	}

	ledger.SetBalance("0xa", 0, decimal.Zero)
	changes, err := acc.UpdateAccount(ctx, "0xa", metaAt(501))
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}

	if len(changes.BalanceChanges) != 1 || !changes.BalanceChanges[0].Delta.Equal(decimal.NewFromInt(-100)) {
		t.Fatalf("changes: got %+v, want one delta of -100", changes.BalanceChanges)
	}

	_, err = store.LoadCurrencyBalance(ctx, mem, "0xa:0")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("zero balance not pruned: %v", err)
	}

	account, err := store.LoadAccount(ctx, mem, "0xa")
	if err != nil {
		t.Fatalf("load account: %v", err)
	}
	if len(account.Balances) != 0 {
		t.Errorf("balance list: got %v, want empty", account.Balances)
	}
}

func TestUpdateAccount_SecondPassIsEmpty(t *testing.T) {
	mem := store.NewMemory()
	ledger := testutil.NewFakeLedger()
	tradedGroup(ledger)
	ledger.SetBalance("0xa", 0, decimal.NewFromInt(100))
	ledger.SetPortfolio("0xa", chain.PositionData{
		GroupID: 1, Maturity: 1000, TypeByte: entity.WireShortObligation,
		Notional: decimal.NewFromInt(200),
	})
	acc := newReconciler(mem, ledger)
	ctx := context.Background()

	if _, err := acc.UpdateAccount(ctx, "0xa", metaAt(500)); err != nil {
		t.Fatalf("first pass: %v", err)
	}

	changes, err := acc.UpdateAccount(ctx, "0xa", metaAt(501))
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if len(changes.BalanceChanges) != 0 || len(changes.PositionChanges) != 0 {
		t.Errorf("second pass changes: got %+v, want none", changes)
	}
}

// ============================================================================
// Portfolio diffs
// ============================================================================

func TestUpdateAccount_AddedPosition(t *testing.T) {
	mem := store.NewMemory()
	ledger := testutil.NewFakeLedger()
	tradedGroup(ledger)
	ledger.SetPortfolio("0xa", chain.PositionData{
		GroupID: 1, Maturity: 1000, TypeByte: entity.WireShortObligation,
		Rate: 42, Notional: decimal.NewFromInt(200),
	})
	acc := newReconciler(mem, ledger)

	changes, err := acc.UpdateAccount(context.Background(), "0xa", metaAt(500))
	if err != nil {
		t.Fatalf("update account: %v", err)
	}

	if len(changes.PositionChanges) != 1 {
		t.Fatalf("position changes: got %d, want 1", len(changes.PositionChanges))
	}
	c := changes.PositionChanges[0]
	if c.PositionType != entity.ShortObligation {
		t.Errorf("type: got %s, want ShortObligation", c.PositionType)
	}
	if !c.NotionalDelta.Equal(decimal.NewFromInt(200)) {
		t.Errorf("notional delta: got %s, want 200", c.NotionalDelta)
	}
	if c.Market != "1:1000" {
		t.Errorf("market: got %q, want %q", c.Market, "1:1000")
	}

	position, err := store.LoadPosition(context.Background(), mem, c.PositionID)
	if err != nil {
		t.Fatalf("load position: %v", err)
	}
	if position.Rate != 42 || !position.Notional.Equal(decimal.NewFromInt(200)) {
		t.Errorf("stored position: got %+v", position)
	}
}

func TestUpdateAccount_RemovedShortObligationNetsToLongClaim(t *testing.T) {
	mem := store.NewMemory()
	ledger := testutil.NewFakeLedger()
	tradedGroup(ledger)
	ledger.SetPortfolio("0xa", chain.PositionData{
		GroupID: 1, Maturity: 1000, TypeByte: entity.WireShortObligation,
		Notional: decimal.NewFromInt(200),
	})
	acc := newReconciler(mem, ledger)
	ctx := context.Background()

	if _, err := acc.UpdateAccount(ctx, "0xa", metaAt(400)); err != nil {
		t.Fatalf("first pass: %v", err)
	}

	// Position leaves the portfolio before maturity.
	ledger.SetPortfolio("0xa")
	changes, err := acc.UpdateAccount(ctx, "0xa", metaAt(500))
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}

	if len(changes.PositionChanges) != 1 {
		t.Fatalf("position changes: got %d, want 1", len(changes.PositionChanges))
	}
	c := changes.PositionChanges[0]
	if c.PositionType != entity.LongClaim {
		t.Errorf("type: got %s, want LongClaim", c.PositionType)
	}
	if !c.NotionalDelta.Equal(decimal.NewFromInt(200)) {
		t.Errorf("notional delta: got %s, want 200", c.NotionalDelta)
	}
}

func TestUpdateAccount_RemovedLongClaimNetsToShortObligation(t *testing.T) {
	mem := store.NewMemory()
	ledger := testutil.NewFakeLedger()
	tradedGroup(ledger)
	ledger.SetPortfolio("0xa", chain.PositionData{
		GroupID: 1, Maturity: 1000, TypeByte: entity.WireLongClaim,
		Notional: decimal.NewFromInt(75),
	})
	acc := newReconciler(mem, ledger)
	ctx := context.Background()

	if _, err := acc.UpdateAccount(ctx, "0xa", metaAt(400)); err != nil {
		t.Fatalf("first pass: %v", err)
	}

	ledger.SetPortfolio("0xa")
	changes, err := acc.UpdateAccount(ctx, "0xa", metaAt(500))
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}

	if len(changes.PositionChanges) != 1 {
		t.Fatalf("position changes: got %d, want 1", len(changes.PositionChanges))
	}
	c := changes.PositionChanges[0]
	if c.PositionType != entity.ShortObligation || !c.NotionalDelta.Equal(decimal.NewFromInt(75)) {
		t.Errorf("got %s %s, want ShortObligation 75", c.PositionType, c.NotionalDelta)
	}
}

func TestUpdateAccount_RemovedLiquidityTokenNegates(t *testing.T) {
	mem := store.NewMemory()
	ledger := testutil.NewFakeLedger()
	tradedGroup(ledger)
	ledger.SetPortfolio("0xa", chain.PositionData{
		GroupID: 1, Maturity: 1000, TypeByte: entity.WireLiquidityToken,
		Notional: decimal.NewFromInt(500),
	})
	acc := newReconciler(mem, ledger)
	ctx := context.Background()

	if _, err := acc.UpdateAccount(ctx, "0xa", metaAt(400)); err != nil {
		t.Fatalf("first pass: %v", err)
	}

	ledger.SetPortfolio("0xa")
	changes, err := acc.UpdateAccount(ctx, "0xa", metaAt(500))
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}

	if len(changes.PositionChanges) != 1 {
		t.Fatalf("position changes: got %d, want 1", len(changes.PositionChanges))
	}
	c := changes.PositionChanges[0]
	if c.PositionType != entity.LiquidityToken || !c.NotionalDelta.Equal(decimal.NewFromInt(-500)) {
		t.Errorf("got %s %s, want LiquidityToken -500", c.PositionType, c.NotionalDelta)
	}
}

func TestUpdateAccount_MaturedPositionDropsSilently(t *testing.T) {
	mem := store.NewMemory()
	ledger := testutil.NewFakeLedger()
	tradedGroup(ledger)
	ledger.SetPortfolio("0xa", chain.PositionData{
		GroupID: 1, Maturity: 1000, TypeByte: entity.WireLiquidityToken,
		Notional: decimal.NewFromInt(500),
	})
	acc := newReconciler(mem, ledger)
	ctx := context.Background()

	if _, err := acc.UpdateAccount(ctx, "0xa", metaAt(400)); err != nil {
		t.Fatalf("first pass: %v", err)
	}

	// Settled after maturity: expiry is not a trade.
	ledger.SetPortfolio("0xa")
	changes, err := acc.UpdateAccount(ctx, "0xa", metaAt(1500))
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}

	if len(changes.PositionChanges) != 0 {
		t.Errorf("position changes: got %+v, want none", changes.PositionChanges)
	}

	account, err := store.LoadAccount(ctx, mem, "0xa")
	if err != nil {
		t.Fatalf("load account: %v", err)
	}
	if len(account.Portfolio) != 0 {
		t.Errorf("portfolio: got %v, want empty", account.Portfolio)
	}
}

func TestUpdateAccount_ModifiedPositionReportsDelta(t *testing.T) {
	mem := store.NewMemory()
	ledger := testutil.NewFakeLedger()
	tradedGroup(ledger)
	ledger.SetPortfolio("0xa", chain.PositionData{
		GroupID: 1, Maturity: 1000, TypeByte: entity.WireShortObligation,
		Notional: decimal.NewFromInt(200),
	})
	acc := newReconciler(mem, ledger)
	ctx := context.Background()

	if _, err := acc.UpdateAccount(ctx, "0xa", metaAt(400)); err != nil {
		t.Fatalf("first pass: %v", err)
	}

	ledger.SetPortfolio("0xa", chain.PositionData{
		GroupID: 1, Maturity: 1000, TypeByte: entity.WireShortObligation,
		Notional: decimal.NewFromInt(350),
	})
	changes, err := acc.UpdateAccount(ctx, "0xa", metaAt(500))
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}

	if len(changes.PositionChanges) != 1 {
		t.Fatalf("position changes: got %d, want 1", len(changes.PositionChanges))
	}
	c := changes.PositionChanges[0]
	if c.PositionType != entity.ShortObligation || !c.NotionalDelta.Equal(decimal.NewFromInt(150)) {
		t.Errorf("got %s %s, want ShortObligation 150", c.PositionType, c.NotionalDelta)
	}
}

func TestUpdateAccount_IdiosyncraticGroupHasNoMarketLink(t *testing.T) {
	mem := store.NewMemory()
	ledger := testutil.NewFakeLedger()
	ledger.AddGroup(2, chain.GroupParameters{
		NumMaturities:  1,
		MaturityLength: 100,
		CurrencyID:     0,
		MarketContract: "",
	})
	ledger.SetPortfolio("0xa", chain.PositionData{
		GroupID: 2, Maturity: 1000, TypeByte: entity.WireLongClaim,
		Notional: decimal.NewFromInt(50),
	})
	acc := newReconciler(mem, ledger)

	changes, err := acc.UpdateAccount(context.Background(), "0xa", metaAt(500))
	if err != nil {
		t.Fatalf("update account: %v", err)
	}

	if len(changes.PositionChanges) != 1 {
		t.Fatalf("position changes: got %d, want 1", len(changes.PositionChanges))
	}
	if changes.PositionChanges[0].Market != "" {
		t.Errorf("market: got %q, want empty", changes.PositionChanges[0].Market)
	}

	group, err := store.LoadGroup(context.Background(), mem, "2")
	if err != nil {
		t.Fatalf("load group: %v", err)
	}
	if !group.IsIdiosyncratic {
		t.Error("group should be idiosyncratic")
	}
}

func TestUpdateAccount_UnknownPositionTypeByteFails(t *testing.T) {
	mem := store.NewMemory()
	ledger := testutil.NewFakeLedger()
	tradedGroup(ledger)
	ledger.SetPortfolio("0xa", chain.PositionData{
		GroupID: 1, Maturity: 1000, TypeByte: 0x01,
		Notional: decimal.NewFromInt(10),
	})
	acc := newReconciler(mem, ledger)

	_, err := acc.UpdateAccount(context.Background(), "0xa", metaAt(500))
	if err == nil {
		t.Fatal("expected an error for an unknown type byte")
	}
}

func TestUpdateAccount_MissingListedPositionFails(t *testing.T) {
	mem := store.NewMemory()
	ledger := testutil.NewFakeLedger()
	acc := newReconciler(mem, ledger)
	ctx := context.Background()

	// A stored account referencing a position the store cannot load means
	// the snapshot is corrupt; processing must halt, not self-heal.
	broken := &entity.Account{
		ID:        "0xa",
		Balances:  []string{},
		Portfolio: []string{"0xa:0xdeadbeef"},
	}
	if err := mem.Upsert(ctx, broken); err != nil {
		t.Fatalf("seed account: %v", err)
	}

	_, err := acc.UpdateAccount(ctx, "0xa", metaAt(500))
	if err == nil {
		t.Fatal("expected an error for an unloadable listed position")
	}
	if !strings.Contains(err.Error(), "listed position") {
		t.Errorf("error: got %v", err)
	}
}

func TestGetAccount_CreatesEmptyOnFirstSight(t *testing.T) {
	mem := store.NewMemory()
	ledger := testutil.NewFakeLedger()
	acc := newReconciler(mem, ledger)

	account, err := acc.GetAccount(context.Background(), "0xnew")
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if account.ID != "0xnew" || len(account.Balances) != 0 || len(account.Portfolio) != 0 {
		t.Errorf("got %+v", account)
	}
}

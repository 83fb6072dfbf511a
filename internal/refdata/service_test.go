package refdata_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"CashLedger/internal/chain"
	"CashLedger/internal/entity"
	"CashLedger/internal/event"
	"CashLedger/internal/refdata"
	"CashLedger/internal/store"
	"CashLedger/internal/testutil"
)

func newService(ledger *testutil.FakeLedger) (*refdata.Service, *store.Memory) {
	mem := store.NewMemory()
	return refdata.NewService(mem, ledger, zerolog.Nop()), mem
}

func metaAt(block int64) event.Meta {
	return event.Meta{BlockNumber: block, BlockTimestamp: block * 10, TransactionHash: "0xtx", LogIndex: 1}
}

func TestGetGroup_CreatesFromLedger(t *testing.T) {
	ledger := testutil.NewFakeLedger()
	ledger.AddGroup(1, chain.GroupParameters{
		NumMaturities:  4,
		MaturityLength: 100,
		CurrencyID:     2,
		MarketContract: "0xmarket",
	})
	svc, mem := newService(ledger)
	ctx := context.Background()

	group, err := svc.GetGroup(ctx, 1, metaAt(500))
	if err != nil {
		t.Fatalf("get group: %v", err)
	}
	if group.Currency != "2" || group.MaturityLength != 100 {
		t.Errorf("group: got %+v", group)
	}
	if group.IsIdiosyncratic {
		t.Error("group with a market contract is not idiosyncratic")
	}

	stored, err := store.LoadGroup(ctx, mem, "1")
	if err != nil {
		t.Fatalf("group not persisted: %v", err)
	}
	if stored.MarketContract != "0xmarket" {
		t.Errorf("stored group: got %+v", stored)
	}
}

func TestGetGroup_IdiosyncraticHasNoContract(t *testing.T) {
	ledger := testutil.NewFakeLedger()
	ledger.AddGroup(2, chain.GroupParameters{NumMaturities: 1, MaturityLength: 100})
	svc, _ := newService(ledger)

	group, err := svc.GetGroup(context.Background(), 2, metaAt(500))
	if err != nil {
		t.Fatalf("get group: %v", err)
	}
	if !group.IsIdiosyncratic {
		t.Error("group without a market contract should be idiosyncratic")
	}
}

func TestGetMarket_RegistersOnGroup(t *testing.T) {
	ledger := testutil.NewFakeLedger()
	ledger.AddGroup(1, chain.GroupParameters{
		NumMaturities: 4, MaturityLength: 100, MarketContract: "0xmarket",
	})
	svc, mem := newService(ledger)
	ctx := context.Background()

	market, err := svc.GetMarket(ctx, "0xmarket", 1000, metaAt(500))
	if err != nil {
		t.Fatalf("get market: %v", err)
	}
	if market.ID != "1:1000" || market.Address != "0xmarket" {
		t.Errorf("market: got %+v", market)
	}

	group, err := store.LoadGroup(ctx, mem, "1")
	if err != nil {
		t.Fatalf("load group: %v", err)
	}
	if len(group.Markets) != 1 || group.Markets[0] != "1:1000" {
		t.Errorf("group markets: got %v", group.Markets)
	}

	// A second fetch reuses the stored market and does not re-register it.
	if _, err := svc.GetMarket(ctx, "0xmarket", 1000, metaAt(501)); err != nil {
		t.Fatalf("second get: %v", err)
	}
	group, _ = store.LoadGroup(ctx, mem, "1")
	if len(group.Markets) != 1 {
		t.Errorf("group markets after refetch: got %v", group.Markets)
	}
}

func TestRefreshMarket_PullsLiveTotals(t *testing.T) {
	ledger := testutil.NewFakeLedger()
	ledger.AddGroup(1, chain.GroupParameters{
		NumMaturities: 4, MaturityLength: 100, MarketContract: "0xmarket",
	})
	ledger.SetMarket("0xmarket", 1000, chain.MarketParameters{
		TotalSupply: decimal.NewFromInt(5000),
		TotalCash:   decimal.NewFromInt(4800),
	})
	svc, _ := newService(ledger)

	market, err := svc.RefreshMarket(context.Background(), "0xmarket", 1000, metaAt(500))
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if !market.TotalSupply.Equal(decimal.NewFromInt(5000)) || !market.TotalCash.Equal(decimal.NewFromInt(4800)) {
		t.Errorf("totals: got %+v", market)
	}
}

func TestMutateGroupByMarket_UnregisteredContractSkipped(t *testing.T) {
	ledger := testutil.NewFakeLedger()
	svc, mem := newService(ledger)

	called := false
	err := svc.MutateGroupByMarket(context.Background(), "0xunlisted", metaAt(500), func(g *entity.Group) {
		called = true
	})
	if err != nil {
		t.Fatalf("mutate: %v", err)
	}
	if called {
		t.Error("mutation ran for an unregistered market")
	}
	if n := mem.Len(entity.KindGroup); n != 0 {
		t.Errorf("groups: got %d, want 0", n)
	}
}

func TestSetOracleAnswer_UnboundOracleIgnored(t *testing.T) {
	ledger := testutil.NewFakeLedger()
	svc, mem := newService(ledger)

	err := svc.SetOracleAnswer(context.Background(), "0xunknown", decimal.NewFromInt(1), metaAt(500))
	if err != nil {
		t.Fatalf("unbound answer: %v", err)
	}
	if n := mem.Len(entity.KindRateValue); n != 0 {
		t.Errorf("rate values: got %d, want 0", n)
	}
}

func TestUpdateExchangeRate_BindsOracleAndSeedsAnswer(t *testing.T) {
	ledger := testutil.NewFakeLedger()
	ledger.ExchangeRates["1:0"] = chain.ExchangeRateParameters{
		RateOracle: "0xoracle",
		Buffer:     decimal.RequireFromString("1.05"),
	}
	ledger.Oracles["0xoracle"] = decimal.RequireFromString("1.1")
	svc, mem := newService(ledger)
	ctx := context.Background()

	if err := svc.UpdateExchangeRate(ctx, 1, 0, metaAt(500)); err != nil {
		t.Fatalf("update: %v", err)
	}

	oracle, err := store.LoadPriceOracle(ctx, mem, "0xoracle")
	if err != nil {
		t.Fatalf("oracle not bound: %v", err)
	}
	if oracle.ExchangeRate != "1:0" {
		t.Errorf("oracle binding: got %q", oracle.ExchangeRate)
	}

	value, err := store.LoadRateValue(ctx, mem, "1:0")
	if err != nil {
		t.Fatalf("rate value not seeded: %v", err)
	}
	if !value.Rate.Equal(decimal.RequireFromString("1.1")) {
		t.Errorf("seeded rate: got %s", value.Rate)
	}
}

func TestMutateConfig_PersistsSingleton(t *testing.T) {
	ledger := testutil.NewFakeLedger()
	svc, mem := newService(ledger)
	ctx := context.Background()

	err := svc.MutateConfig(ctx, metaAt(500), func(c *entity.SystemConfig) {
		c.ReserveAccount = "0xreserve"
	})
	if err != nil {
		t.Fatalf("mutate: %v", err)
	}

	cfg, err := store.LoadSystemConfig(ctx, mem)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ReserveAccount != "0xreserve" {
		t.Errorf("reserve account: got %q", cfg.ReserveAccount)
	}
}

package exchange

import (
	"context"
	"errors"
	"testing"

	"github.com/hzein/exchange/kvstore"
)

var (
	teller = Actor{Name: "sara", Role: RoleExchange}
	admin  = Actor{Name: "hadi", Role: RoleAdmin}
)

// setupLedger creates a ledger over a fresh in-memory store.
func setupLedger(t *testing.T) (*Ledger, context.Context) {
	t.Helper()
	return NewLedger(kvstore.New(kvstore.NewMemory())), context.Background()
}

func TestLedger_BuyThenSell_FIFO(t *testing.T) {
	l, ctx := setupLedger(t)

	if _, err := l.RecordBuy(ctx, teller, Entry{Currency: "EUR", Amount: A(10), Rate: R(1.0)}); err != nil {
		t.Fatalf("RecordBuy() failed: %v", err)
	}
	if _, err := l.RecordBuy(ctx, teller, Entry{Currency: "EUR", Amount: A(10), Rate: R(2.0)}); err != nil {
		t.Fatalf("RecordBuy() failed: %v", err)
	}

	tx, shortfall, err := l.RecordSell(ctx, teller, Entry{Currency: "EUR", Amount: A(15), Rate: R(2.5)})
	if err != nil {
		t.Fatalf("RecordSell() failed: %v", err)
	}
	if !shortfall.IsZero() {
		t.Errorf("shortfall = %s, want 0", shortfall)
	}

	// The sell consumes the oldest lot first.
	wantFragments := []Fragment{
		{Amount: A(10), BuyRate: R(1.0)},
		{Amount: A(5), BuyRate: R(2.0)},
	}
	if len(tx.Realized) != len(wantFragments) {
		t.Fatalf("sell recorded %d fragments, want %d", len(tx.Realized), len(wantFragments))
	}
	for i, want := range wantFragments {
		got := tx.Realized[i]
		if !got.Amount.Equal(want.Amount) || !got.BuyRate.Equal(want.BuyRate) {
			t.Errorf("realized[%d] = {%s %s}, want {%s %s}", i, got.Amount, got.BuyRate, want.Amount, want.BuyRate)
		}
	}

	h, err := l.Holding(ctx, "EUR")
	if err != nil {
		t.Fatalf("Holding() failed: %v", err)
	}
	if !h.Total.Equal(A(5)) {
		t.Errorf("holding total = %s, want 5", h.Total)
	}
	if len(h.Lots) != 1 || !h.Lots[0].Rate.Equal(R(2.0)) {
		t.Errorf("remaining lots = %v, want one lot at rate 2", h.Lots)
	}
}

func TestLedger_Sell_InsufficientFunds(t *testing.T) {
	l, ctx := setupLedger(t)

	if _, err := l.RecordBuy(ctx, teller, Entry{Currency: "EUR", Amount: A(10), Rate: R(1.0)}); err != nil {
		t.Fatalf("RecordBuy() failed: %v", err)
	}

	_, _, err := l.RecordSell(ctx, teller, Entry{Currency: "EUR", Amount: A(11), Rate: R(1.0)})
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("RecordSell(11 of 10) error = %v, want ErrInsufficientFunds", err)
	}

	// The rejected sell must leave no trace.
	txs, err := l.Transactions(ctx)
	if err != nil {
		t.Fatalf("Transactions() failed: %v", err)
	}
	if len(txs) != 1 {
		t.Errorf("transaction log has %d records, want 1", len(txs))
	}
}

func TestLedger_Validation(t *testing.T) {
	l, ctx := setupLedger(t)

	testCases := []struct {
		name  string
		entry Entry
	}{
		{name: "missing currency", entry: Entry{Amount: A(1), Rate: R(1)}},
		{name: "zero amount", entry: Entry{Currency: "EUR", Rate: R(1)}},
		{name: "negative amount", entry: Entry{Currency: "EUR", Amount: A(-1), Rate: R(1)}},
		{name: "zero rate", entry: Entry{Currency: "EUR", Amount: A(1)}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := l.RecordBuy(ctx, teller, tc.entry); !errors.Is(err, ErrValidation) {
				t.Errorf("RecordBuy() error = %v, want ErrValidation", err)
			}
			if _, _, err := l.RecordSell(ctx, teller, tc.entry); !errors.Is(err, ErrValidation) {
				t.Errorf("RecordSell() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestLedger_VoidBuy_ExactReversal(t *testing.T) {
	l, ctx := setupLedger(t)

	tx, err := l.RecordBuy(ctx, teller, Entry{Currency: "EUR", Amount: A(10), Rate: R(1.0)})
	if err != nil {
		t.Fatalf("RecordBuy() failed: %v", err)
	}

	res, err := l.Void(ctx, admin, tx.ID, "typo")
	if err != nil {
		t.Fatalf("Void() failed: %v", err)
	}
	if res.Reversal != ReversalExact {
		t.Errorf("reversal = %s, want exact", res.Reversal)
	}

	// Holdings are back to the pre-buy state.
	h, err := l.Holding(ctx, "EUR")
	if err != nil {
		t.Fatalf("Holding() failed: %v", err)
	}
	if !h.Total.IsZero() || len(h.Lots) != 0 {
		t.Errorf("holding after void = %s in %d lots, want empty", h.Total, len(h.Lots))
	}

	// The record is marked, not erased.
	txs, err := l.Transactions(ctx)
	if err != nil {
		t.Fatalf("Transactions() failed: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("transaction log has %d records, want 1", len(txs))
	}
	if txs[0].Status != StatusVoided || txs[0].VoidReason != "typo" || txs[0].VoidedBy != admin.Name {
		t.Errorf("voided record = %+v, want status=voided reason=typo by=%s", txs[0], admin.Name)
	}
}

func TestLedger_VoidBuy_ApproximateReversal(t *testing.T) {
	l, ctx := setupLedger(t)

	buy, err := l.RecordBuy(ctx, teller, Entry{Currency: "EUR", Amount: A(10), Rate: R(1.0)})
	if err != nil {
		t.Fatalf("RecordBuy() failed: %v", err)
	}
	if _, _, err := l.RecordSell(ctx, teller, Entry{Currency: "EUR", Amount: A(4), Rate: R(2.0)}); err != nil {
		t.Fatalf("RecordSell() failed: %v", err)
	}

	// The original lot was partially consumed, so the exact match fails and
	// the removal unwinds the most recent lots.
	res, err := l.Void(ctx, admin, buy.ID, "wrong rate")
	if err != nil {
		t.Fatalf("Void() failed: %v", err)
	}
	if res.Reversal != ReversalApproximate {
		t.Errorf("reversal = %s, want approximate", res.Reversal)
	}
	h, err := l.Holding(ctx, "EUR")
	if err != nil {
		t.Fatalf("Holding() failed: %v", err)
	}
	if !h.Total.IsZero() {
		t.Errorf("holding after void = %s, want 0", h.Total)
	}
}

func TestLedger_VoidSell_RestoresFragments(t *testing.T) {
	l, ctx := setupLedger(t)

	if _, err := l.RecordBuy(ctx, teller, Entry{Currency: "EUR", Amount: A(5), Rate: R(1.0)}); err != nil {
		t.Fatalf("RecordBuy() failed: %v", err)
	}
	if _, err := l.RecordBuy(ctx, teller, Entry{Currency: "EUR", Amount: A(5), Rate: R(2.0)}); err != nil {
		t.Fatalf("RecordBuy() failed: %v", err)
	}
	sell, _, err := l.RecordSell(ctx, teller, Entry{Currency: "EUR", Amount: A(10), Rate: R(3.0)})
	if err != nil {
		t.Fatalf("RecordSell() failed: %v", err)
	}

	res, err := l.Void(ctx, admin, sell.ID, "customer returned")
	if err != nil {
		t.Fatalf("Void() failed: %v", err)
	}
	if res.Reversal != ReversalExact {
		t.Errorf("reversal = %s, want exact", res.Reversal)
	}

	// Both fragments come back as lots; totals and cost match the original.
	h, err := l.Holding(ctx, "EUR")
	if err != nil {
		t.Fatalf("Holding() failed: %v", err)
	}
	if !h.Total.Equal(A(10)) {
		t.Errorf("holding total = %s, want 10", h.Total)
	}
	if !h.AverageRate.Equal(R(1.5)) {
		t.Errorf("average rate = %s, want 1.5", h.AverageRate)
	}
	if len(h.Lots) != 2 {
		t.Errorf("holding has %d lots, want 2", len(h.Lots))
	}
}

func TestLedger_VoidTwice(t *testing.T) {
	l, ctx := setupLedger(t)

	tx, err := l.RecordBuy(ctx, teller, Entry{Currency: "EUR", Amount: A(10), Rate: R(1.0)})
	if err != nil {
		t.Fatalf("RecordBuy() failed: %v", err)
	}
	if _, err := l.Void(ctx, admin, tx.ID, "first"); err != nil {
		t.Fatalf("first Void() failed: %v", err)
	}
	if _, err := l.Void(ctx, admin, tx.ID, "second"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Void() error = %v, want ErrNotFound", err)
	}
}

func TestLedger_VoidUnknown(t *testing.T) {
	l, ctx := setupLedger(t)
	if _, err := l.Void(ctx, admin, 42, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Void(42) error = %v, want ErrNotFound", err)
	}
}

func TestNetHoldings_ExcludesVoided(t *testing.T) {
	txs := []Transaction{
		{Type: TxBuy, Currency: "EUR", Amount: A(10), Status: StatusActive},
		{Type: TxSell, Currency: "EUR", Amount: A(3), Status: StatusActive},
		{Type: TxBuy, Currency: "EUR", Amount: A(100), Status: StatusVoided},
		{Type: TxBuy, Currency: "GBP", Amount: A(50), Status: StatusActive},
		// Legacy record without a status counts as active.
		{Type: TxBuy, Currency: "EUR", Amount: A(2)},
	}
	if got := NetHoldings(txs, "EUR"); !got.Equal(A(9)) {
		t.Errorf("NetHoldings(EUR) = %s, want 9", got)
	}
	if got := NetHoldings(txs, "GBP"); !got.Equal(A(50)) {
		t.Errorf("NetHoldings(GBP) = %s, want 50", got)
	}
}

func TestLedger_Activity(t *testing.T) {
	l, ctx := setupLedger(t)

	tx, err := l.RecordBuy(ctx, teller, Entry{Currency: "EUR", Amount: A(10), Rate: R(1.0)})
	if err != nil {
		t.Fatalf("RecordBuy() failed: %v", err)
	}
	if _, err := l.Void(ctx, admin, tx.ID, "typo"); err != nil {
		t.Fatalf("Void() failed: %v", err)
	}

	entries, err := l.Activity(ctx)
	if err != nil {
		t.Fatalf("Activity() failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("activity log has %d entries, want 2", len(entries))
	}
	if entries[0].Action != "Create" || entries[0].User != teller.Name {
		t.Errorf("entry[0] = %+v, want Create by %s", entries[0], teller.Name)
	}
	if entries[1].Action != "Void" || entries[1].User != admin.Name {
		t.Errorf("entry[1] = %+v, want Void by %s", entries[1], admin.Name)
	}
	if entries[0].Module != "Exchange" {
		t.Errorf("module = %q, want Exchange", entries[0].Module)
	}
}

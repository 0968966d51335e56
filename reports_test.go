package exchange

import (
	"testing"
	"time"
)

func TestRealizedProfit_FIFO(t *testing.T) {
	txs := []Transaction{
		{ID: 1, Type: TxBuy, Currency: "EUR", Amount: A(10), Rate: R(1.0), Date: day(1)},
		{ID: 2, Type: TxBuy, Currency: "EUR", Amount: A(10), Rate: R(2.0), Date: day(2)},
		{ID: 3, Type: TxSell, Currency: "EUR", Amount: A(15), Rate: R(3.0), Date: day(3)},
	}
	// 10*(3-1) + 5*(3-2) = 25
	if got := RealizedProfit(txs); !got.Equal(M(25)) {
		t.Errorf("RealizedProfit() = %s, want $25.00", got)
	}
}

func TestRealizedProfit_IndependentOfInputOrder(t *testing.T) {
	txs := []Transaction{
		{ID: 3, Type: TxSell, Currency: "EUR", Amount: A(15), Rate: R(3.0), Date: day(3)},
		{ID: 2, Type: TxBuy, Currency: "EUR", Amount: A(10), Rate: R(2.0), Date: day(2)},
		{ID: 1, Type: TxBuy, Currency: "EUR", Amount: A(10), Rate: R(1.0), Date: day(1)},
	}
	// The replay sorts ascending by date before consuming.
	if got := RealizedProfit(txs); !got.Equal(M(25)) {
		t.Errorf("RealizedProfit() = %s, want $25.00", got)
	}
}

func TestRealizedProfit_OversoldShortfall(t *testing.T) {
	txs := []Transaction{
		{ID: 1, Type: TxSell, Currency: "EUR", Amount: A(5), Rate: R(2.0), Date: day(1)},
	}
	// No lots: the whole disposal has zero cost basis, full proceeds are profit.
	if got := RealizedProfit(txs); !got.Equal(M(10)) {
		t.Errorf("RealizedProfit() = %s, want $10.00", got)
	}
}

func TestRealizedProfit_PerCurrencyQueues(t *testing.T) {
	txs := []Transaction{
		{ID: 1, Type: TxBuy, Currency: "EUR", Amount: A(10), Rate: R(1.0), Date: day(1)},
		{ID: 2, Type: TxBuy, Currency: "GBP", Amount: A(10), Rate: R(5.0), Date: day(1)},
		{ID: 3, Type: TxSell, Currency: "EUR", Amount: A(10), Rate: R(2.0), Date: day(2)},
	}
	// The GBP lot must not serve the EUR sell.
	if got := RealizedProfit(txs); !got.Equal(M(10)) {
		t.Errorf("RealizedProfit() = %s, want $10.00", got)
	}
}

func TestBuildDashboard(t *testing.T) {
	now := time.Date(2026, time.August, 20, 12, 0, 0, 0, time.UTC) // a Thursday
	txs := []Transaction{
		// Last month, outside both windows.
		{ID: 1, Type: TxBuy, Currency: "EUR", Amount: A(100), Rate: R(1.0), Date: time.Date(2026, time.July, 10, 0, 0, 0, 0, time.UTC)},
		// This month, before this week.
		{ID: 2, Type: TxSell, Currency: "EUR", Amount: A(40), Rate: R(2.0), Date: time.Date(2026, time.August, 3, 0, 0, 0, 0, time.UTC)},
		// This week (week starts Sunday August 16).
		{ID: 3, Type: TxBuy, Currency: "EUR", Amount: A(10), Rate: R(1.5), Date: time.Date(2026, time.August, 18, 0, 0, 0, 0, time.UTC)},
		// Voided, ignored everywhere.
		{ID: 4, Type: TxSell, Currency: "EUR", Amount: A(500), Rate: R(9.0), Date: now, Status: StatusVoided},
	}

	d := BuildDashboard(txs, now)

	// Profit: sell 40 at 2.0 against the 1.0 lot.
	if !d.Profit.Equal(M(40)) {
		t.Errorf("profit = %s, want $40.00", d.Profit)
	}
	if !d.WeekBuy.Equal(M(15)) {
		t.Errorf("week buy volume = %s, want $15.00", d.WeekBuy)
	}
	if !d.WeekSell.IsZero() {
		t.Errorf("week sell volume = %s, want 0", d.WeekSell)
	}
	if !d.MonthSell.Equal(M(80)) {
		t.Errorf("month sell volume = %s, want $80.00", d.MonthSell)
	}
	if !d.BuyVolume["EUR"].Equal(A(110)) {
		t.Errorf("EUR buy volume = %s, want 110", d.BuyVolume["EUR"])
	}
	if !d.SellVolume["EUR"].Equal(A(40)) {
		t.Errorf("EUR sell volume = %s, want 40", d.SellVolume["EUR"])
	}
	// 100*1.0 + 40*2.0 + 10*1.5 = 195
	if !d.LocalVolume["EUR"].Equal(M(195)) {
		t.Errorf("EUR local volume = %s, want $195.00", d.LocalVolume["EUR"])
	}
}

func TestStartOfWeek(t *testing.T) {
	testCases := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "midweek",
			now:  time.Date(2026, time.August, 20, 15, 30, 0, 0, time.UTC), // Thursday
			want: time.Date(2026, time.August, 16, 0, 0, 0, 0, time.UTC),   // Sunday
		},
		{
			name: "on sunday",
			now:  time.Date(2026, time.August, 16, 8, 0, 0, 0, time.UTC),
			want: time.Date(2026, time.August, 16, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "across month boundary",
			now:  time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC), // Tuesday
			want: time.Date(2026, time.August, 30, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := startOfWeek(tc.now); !got.Equal(tc.want) {
				t.Errorf("startOfWeek(%s) = %s, want %s", tc.now, got, tc.want)
			}
		})
	}
}

package exchange

import (
	"sort"
	"time"
)

// RealizedProfit replays FIFO consumption from scratch over the given
// transactions, ascending by date, and returns the realized profit in local
// currency. Voided records are skipped. It is a pure function of its input
// and never reads stored holdings, so it can answer what-if questions over
// any transaction slice.
//
// The replay applies the same policy as the live ledger: a sell consumes
// lots from the head of the simulated queue, and any shortfall counts as
// zero-cost-basis disposal whose full proceeds are profit.
func RealizedProfit(txs []Transaction) Money {
	ordered := sortedByDate(txs)

	queues := make(map[string]lots)
	var profit Money
	for _, tx := range ordered {
		if !tx.Active() {
			continue
		}
		switch tx.Type {
		case TxBuy:
			queues[tx.Currency] = append(queues[tx.Currency], Lot{Amount: tx.Amount, Rate: tx.Rate, Date: tx.Date})
		case TxSell:
			remaining, consumed, shortfall := queues[tx.Currency].consume(tx.Amount)
			queues[tx.Currency] = remaining
			for _, f := range consumed {
				profit = profit.Add(f.Amount.MulRate(tx.Rate.Sub(f.BuyRate)))
			}
			profit = profit.Add(shortfall.MulRate(tx.Rate))
		}
	}
	return profit
}

// Dashboard aggregates the transaction log for the overview screen. All
// figures are over active transactions only.
type Dashboard struct {
	Profit Money `json:"profit"`

	WeekBuy   Money `json:"week_buy"`
	WeekSell  Money `json:"week_sell"`
	MonthBuy  Money `json:"month_buy"`
	MonthSell Money `json:"month_sell"`

	// BuyVolume and SellVolume are traded quantities per currency.
	BuyVolume  map[string]Amount `json:"buy_volume"`
	SellVolume map[string]Amount `json:"sell_volume"`

	// LocalVolume is the total traded local-currency value per currency.
	LocalVolume map[string]Money `json:"local_volume"`
}

// BuildDashboard computes the dashboard as of now. Voided transactions are
// excluded from every figure.
func BuildDashboard(txs []Transaction, now time.Time) Dashboard {
	active := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.Active() {
			active = append(active, tx)
		}
	}

	d := Dashboard{
		Profit:      RealizedProfit(active),
		BuyVolume:   make(map[string]Amount),
		SellVolume:  make(map[string]Amount),
		LocalVolume: make(map[string]Money),
	}
	week := startOfWeek(now)
	month := startOfMonth(now)

	for _, tx := range active {
		val := tx.Total()
		switch tx.Type {
		case TxBuy:
			d.BuyVolume[tx.Currency] = d.BuyVolume[tx.Currency].Add(tx.Amount)
			if !tx.Date.Before(week) {
				d.WeekBuy = d.WeekBuy.Add(val)
			}
			if !tx.Date.Before(month) {
				d.MonthBuy = d.MonthBuy.Add(val)
			}
		case TxSell:
			d.SellVolume[tx.Currency] = d.SellVolume[tx.Currency].Add(tx.Amount)
			if !tx.Date.Before(week) {
				d.WeekSell = d.WeekSell.Add(val)
			}
			if !tx.Date.Before(month) {
				d.MonthSell = d.MonthSell.Add(val)
			}
		}
		d.LocalVolume[tx.Currency] = d.LocalVolume[tx.Currency].Add(val)
	}
	return d
}

// sortedByDate returns a copy ordered ascending by date, ties broken by id.
func sortedByDate(txs []Transaction) []Transaction {
	ordered := append([]Transaction(nil), txs...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Date.Equal(ordered[j].Date) {
			return ordered[i].ID < ordered[j].ID
		}
		return ordered[i].Date.Before(ordered[j].Date)
	})
	return ordered
}

// startOfWeek truncates to the preceding Sunday at midnight.
func startOfWeek(now time.Time) time.Time {
	day := startOfDay(now)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// startOfMonth truncates to the first of the month at midnight.
func startOfMonth(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

func startOfDay(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

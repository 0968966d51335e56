package exchange

import "time"

// Lot is a cost-basis slice of currency still held. A lot belongs to exactly
// one currency's queue; queue order is insertion order and is never reordered.
type Lot struct {
	Amount Amount    `json:"amount"`
	Rate   Rate      `json:"rate"` // acquisition buy rate, immutable
	Date   time.Time `json:"date"`
}

// Fragment is a consumed slice of a lot, recorded on a sell transaction at
// creation time so the disposal can be reversed later.
type Fragment struct {
	Amount  Amount `json:"amount"`
	BuyRate Rate   `json:"buy_rate"`
}

// lots is a single currency's FIFO queue of cost lots.
type lots []Lot

// total sums the remaining amounts of all lots.
func (l lots) total() Amount {
	var sum Amount
	for _, lot := range l {
		sum = sum.Add(lot.Amount)
	}
	return sum
}

// averageRate is the amount-weighted average of the lot rates, zero when the
// queue is empty.
func (l lots) averageRate() Rate {
	total := l.total()
	if total.IsZero() {
		return Rate{}
	}
	var cost Money
	for _, lot := range l {
		cost = cost.Add(lot.Amount.MulRate(lot.Rate))
	}
	return Rate{value: cost.value.Div(total.value)}
}

// consume draws down lots from the head of the queue until amountToSell is
// covered, returning the remaining queue, the consumed fragments, and any
// shortfall left once the queue is exhausted. A lot drawn down to zero is
// evicted immediately.
func (l lots) consume(amountToSell Amount) (remaining lots, consumed []Fragment, shortfall Amount) {
	queue := append(lots(nil), l...)
	for amountToSell.IsPositive() && len(queue) > 0 {
		lot := queue[0]
		take := amountToSell.Min(lot.Amount)
		consumed = append(consumed, Fragment{Amount: take, BuyRate: lot.Rate})
		lot.Amount = lot.Amount.Sub(take)
		amountToSell = amountToSell.Sub(take)
		if lot.Amount.IsPositive() {
			queue[0] = lot
		} else {
			queue = queue[1:]
		}
	}
	return queue, consumed, amountToSell
}

// removeExact removes the first lot matching amount, rate and date, scanning
// head to tail. It reports whether a match was found.
func (l lots) removeExact(amount Amount, rate Rate, date time.Time) (lots, bool) {
	for i, lot := range l {
		if lot.Amount.Equal(amount) && lot.Rate.Equal(rate) && lot.Date.Equal(date) {
			remaining := append(lots(nil), l[:i]...)
			return append(remaining, l[i+1:]...), true
		}
	}
	return l, false
}

// unwindRecent removes amountToRemove worth of currency from the most
// recently added lots first, splitting a lot when the removal is smaller
// than the lot. This is the reversal order for a voided buy whose original
// lot was already partially consumed; it is deliberately the opposite of the
// FIFO consumption order.
func (l lots) unwindRecent(amountToRemove Amount) lots {
	queue := append(lots(nil), l...)
	for amountToRemove.IsPositive() && len(queue) > 0 {
		last := len(queue) - 1
		lot := queue[last]
		take := amountToRemove.Min(lot.Amount)
		lot.Amount = lot.Amount.Sub(take)
		amountToRemove = amountToRemove.Sub(take)
		if lot.Amount.IsPositive() {
			queue[last] = lot
		} else {
			queue = queue[:last]
		}
	}
	return queue
}

// restoreFront pushes consumed fragments back onto the head of the queue as
// fresh lots. Reinserted lots get a new timestamp, not the original
// acquisition date; the next FIFO consumption will pick them up first.
func (l lots) restoreFront(fragments []Fragment, now time.Time) lots {
	restored := make(lots, 0, len(fragments)+len(l))
	for _, f := range fragments {
		restored = append(restored, Lot{Amount: f.Amount, Rate: f.BuyRate, Date: now})
	}
	return append(restored, l...)
}

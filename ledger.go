package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hzein/exchange/kvstore"
)

// Collection keys in the persistent store.
const (
	transactionsKey = "exchange_transactions"
	holdingsKey     = "exchange_holdings"
	ratesKey        = "exchange_rates"
	activityKey     = "activity_logs"
)

// Reversal tags the fidelity of a void's holdings reconstruction.
type Reversal int

const (
	// ReversalExact means the pre-transaction lot state was restored from
	// exact data: the matching lot for a buy, or the realized fragment list
	// for a sell.
	ReversalExact Reversal = iota
	// ReversalApproximate means the exact data was unavailable (lot already
	// partially consumed, or a legacy sell without realized fragments) and
	// the ledger fell back to a best-effort reconstruction.
	ReversalApproximate
)

func (r Reversal) String() string {
	switch r {
	case ReversalExact:
		return "exact"
	case ReversalApproximate:
		return "approximate"
	default:
		return "unknown"
	}
}

// VoidResult reports a voided transaction together with the fidelity of the
// holdings reversal.
type VoidResult struct {
	Transaction Transaction
	Reversal    Reversal
}

// Ledger maintains the per-currency FIFO cost lots and the transaction log.
//
// All state lives in the injected store; every mutating operation is a full
// read-modify-write so no partial state is ever visible to the next call.
type Ledger struct {
	store *kvstore.Store
}

// NewLedger creates a ledger over the given store.
func NewLedger(store *kvstore.Store) *Ledger {
	return &Ledger{store: store}
}

// currencyLots is the persisted holdings entry for one currency.
type currencyLots struct {
	Lots lots `json:"lots"`
}

// RecordBuy validates the entry, appends the buy to the transaction log and
// pushes a new lot to the tail of the currency's queue.
func (l *Ledger) RecordBuy(ctx context.Context, actor Actor, e Entry) (*Transaction, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	tx := newTransaction(TxBuy, e)
	if err := l.store.Add(ctx, transactionsKey, tx); err != nil {
		return nil, fmt.Errorf("could not append buy transaction: %w", err)
	}

	holdings, err := l.loadHoldings(ctx)
	if err != nil {
		return nil, err
	}
	cur := holdings[e.Currency]
	if cur == nil {
		cur = &currencyLots{}
		holdings[e.Currency] = cur
	}
	cur.Lots = append(cur.Lots, Lot{Amount: e.Amount, Rate: e.Rate, Date: tx.Date})
	if err := l.saveHoldings(ctx, holdings); err != nil {
		return nil, err
	}

	if err := l.logActivity(ctx, actor, "Create", fmt.Sprintf("BUY %s %s at rate %s", e.Amount, e.Currency, e.Rate)); err != nil {
		return nil, err
	}
	return tx, nil
}

// RecordSell validates the entry, checks it against the net active holdings
// for the currency, consumes lots FIFO from the head of the queue and
// appends the sell with its realized fragment list. The returned shortfall
// is the portion that could not be matched to any lot; it is booked as
// zero-cost-basis disposal, not an error.
func (l *Ledger) RecordSell(ctx context.Context, actor Actor, e Entry) (*Transaction, Amount, error) {
	if err := e.Validate(); err != nil {
		return nil, Amount{}, err
	}

	// The check is against the net of active transactions, not the FIFO lot
	// total; the two can diverge after approximate void reversals. See the
	// shortfall handling below for what happens when they do.
	txs, err := l.Transactions(ctx)
	if err != nil {
		return nil, Amount{}, err
	}
	net := NetHoldings(txs, e.Currency)
	if e.Amount.GreaterThan(net) {
		return nil, Amount{}, fmt.Errorf("%w: only %s %s in holdings", ErrInsufficientFunds, net, e.Currency)
	}

	holdings, err := l.loadHoldings(ctx)
	if err != nil {
		return nil, Amount{}, err
	}
	cur := holdings[e.Currency]
	if cur == nil {
		cur = &currencyLots{}
		holdings[e.Currency] = cur
	}
	remaining, consumed, shortfall := cur.Lots.consume(e.Amount)
	cur.Lots = remaining

	tx := newTransaction(TxSell, e)
	tx.Realized = consumed
	if err := l.store.Add(ctx, transactionsKey, tx); err != nil {
		return nil, Amount{}, fmt.Errorf("could not append sell transaction: %w", err)
	}
	if err := l.saveHoldings(ctx, holdings); err != nil {
		return nil, Amount{}, err
	}

	if err := l.logActivity(ctx, actor, "Create", fmt.Sprintf("SELL %s %s at rate %s", e.Amount, e.Currency, e.Rate)); err != nil {
		return nil, Amount{}, err
	}
	return tx, shortfall, nil
}

// Void marks the transaction voided in the log and best-effort reverses its
// effect on holdings. The record is retained for audit; voiding an unknown
// or already-voided id returns ErrNotFound.
//
// Reversal is best-effort: lots may have been consumed or split since the
// original transaction, so exact reconstruction of the pre-transaction state
// is not guaranteed. The result reports which path was taken.
func (l *Ledger) Void(ctx context.Context, actor Actor, id int64, reason string) (*VoidResult, error) {
	raw, err := l.store.VoidItem(ctx, transactionsKey, id, reason, actor.Name)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return nil, fmt.Errorf("%w: transaction %d", ErrNotFound, id)
		}
		return nil, err
	}
	var tx Transaction
	if err := json.Unmarshal(raw, &tx); err != nil {
		return nil, fmt.Errorf("could not decode voided transaction %d: %w", id, err)
	}

	holdings, err := l.loadHoldings(ctx)
	if err != nil {
		return nil, err
	}
	cur := holdings[tx.Currency]
	if cur == nil {
		cur = &currencyLots{}
		holdings[tx.Currency] = cur
	}

	var reversal Reversal
	switch tx.Type {
	case TxBuy:
		if remaining, ok := cur.Lots.removeExact(tx.Amount, tx.Rate, tx.Date); ok {
			cur.Lots = remaining
			reversal = ReversalExact
		} else {
			// The original lot was partially consumed by later sells; remove
			// the amount from the most recent lots instead.
			cur.Lots = cur.Lots.unwindRecent(tx.Amount)
			reversal = ReversalApproximate
		}
	case TxSell:
		now := time.Now().UTC()
		if len(tx.Realized) > 0 {
			cur.Lots = cur.Lots.restoreFront(tx.Realized, now)
			reversal = ReversalExact
		} else {
			// Legacy record without a realized breakdown: reinsert a single
			// lot at the sell rate.
			cur.Lots = cur.Lots.restoreFront([]Fragment{{Amount: tx.Amount, BuyRate: tx.Rate}}, now)
			reversal = ReversalApproximate
		}
	default:
		return nil, fmt.Errorf("cannot reverse transaction %d of type %q", id, tx.Type)
	}

	if err := l.saveHoldings(ctx, holdings); err != nil {
		return nil, err
	}
	if err := l.logActivity(ctx, actor, "Void", fmt.Sprintf("Voided %s %s %s id=%d (%s reversal)", tx.Type, tx.Amount, tx.Currency, id, reversal)); err != nil {
		return nil, err
	}
	return &VoidResult{Transaction: tx, Reversal: reversal}, nil
}

// Transactions returns the full transaction log in append order.
func (l *Ledger) Transactions(ctx context.Context) ([]Transaction, error) {
	var txs []Transaction
	if err := l.store.Get(ctx, transactionsKey, &txs); err != nil && !errors.Is(err, kvstore.ErrNoDocument) {
		return nil, err
	}
	return txs, nil
}

// NetHoldings computes the net quantity of a currency over the active
// transactions: bought minus sold, voided records excluded.
func NetHoldings(txs []Transaction, currency string) Amount {
	var net Amount
	for _, tx := range txs {
		if tx.Currency != currency || !tx.Active() {
			continue
		}
		switch tx.Type {
		case TxBuy:
			net = net.Add(tx.Amount)
		case TxSell:
			net = net.Sub(tx.Amount)
		}
	}
	return net
}

func (l *Ledger) loadHoldings(ctx context.Context) (map[string]*currencyLots, error) {
	holdings := make(map[string]*currencyLots)
	if err := l.store.Get(ctx, holdingsKey, &holdings); err != nil && !errors.Is(err, kvstore.ErrNoDocument) {
		return nil, err
	}
	return holdings, nil
}

func (l *Ledger) saveHoldings(ctx context.Context, holdings map[string]*currencyLots) error {
	return l.store.Set(ctx, holdingsKey, holdings)
}

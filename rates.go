package exchange

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hzein/exchange/kvstore"
)

// RateRecord is the configured exchange rate for one currency. A record may
// carry a directional pair, a single reference rate, or both; Resolve picks
// the right one for a transaction.
type RateRecord struct {
	BuyRate  Rate      `json:"buy_rate,omitempty"`
	SellRate Rate      `json:"sell_rate,omitempty"`
	Rate     Rate      `json:"rate,omitempty"`
	Created  time.Time `json:"created,omitempty"`
	Updated  time.Time `json:"updated,omitempty"`
}

// RateTable manages the configured exchange rates, keyed by currency code.
// Rates are an operator-maintained reference: transactions snapshot the rate
// they were entered at, so editing the table never rewrites history.
type RateTable struct {
	store *kvstore.Store
}

// NewRateTable creates a rate table over the given store.
func NewRateTable(store *kvstore.Store) *RateTable {
	return &RateTable{store: store}
}

// Resolve returns the effective rate for a transaction direction: the
// directional rate when configured, otherwise the reference rate. It returns
// ErrNotFound when the currency has no usable rate at all.
func (t *RateTable) Resolve(ctx context.Context, currency string, kind TxType) (Rate, error) {
	rates, err := t.All(ctx)
	if err != nil {
		return Rate{}, err
	}
	rec, ok := rates[currency]
	if !ok {
		return Rate{}, fmt.Errorf("%w: no rate for %s", ErrNotFound, currency)
	}
	var r Rate
	switch kind {
	case TxBuy:
		r = rec.BuyRate
	case TxSell:
		r = rec.SellRate
	}
	if r.IsZero() {
		r = rec.Rate
	}
	if r.IsZero() {
		return Rate{}, fmt.Errorf("%w: no %s rate for %s", ErrNotFound, kind, currency)
	}
	return r, nil
}

// Set creates or updates the record for a currency. Only privileged actors
// may edit the table. An update keeps the original creation time and stamps
// the update time.
func (t *RateTable) Set(ctx context.Context, actor Actor, currency string, rec RateRecord) error {
	if !actor.Privileged() {
		return fmt.Errorf("%w: only admins may edit rates", ErrPermission)
	}
	if currency == "" {
		return fmt.Errorf("%w: currency is missing", ErrValidation)
	}
	if rec.BuyRate.IsZero() && rec.SellRate.IsZero() && rec.Rate.IsZero() {
		return fmt.Errorf("%w: rate record for %s has no rate", ErrValidation, currency)
	}

	rates, err := t.All(ctx)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	if prev, ok := rates[currency]; ok {
		rec.Created = prev.Created
	} else {
		rec.Created = now
	}
	rec.Updated = now
	rates[currency] = rec
	return t.store.Set(ctx, ratesKey, rates)
}

// SetDirection upserts one directional rate for a currency, also refreshing
// the fallback reference rate. Only privileged actors may edit the table.
func (t *RateTable) SetDirection(ctx context.Context, actor Actor, currency string, kind TxType, value Rate) error {
	if !actor.Privileged() {
		return fmt.Errorf("%w: only admins may edit rates", ErrPermission)
	}
	if !value.IsPositive() {
		return fmt.Errorf("%w: rate must be positive, got %s", ErrValidation, value)
	}
	rates, err := t.All(ctx)
	if err != nil {
		return err
	}
	rec := rates[currency]
	switch kind {
	case TxBuy:
		rec.BuyRate = value
	case TxSell:
		rec.SellRate = value
	default:
		return fmt.Errorf("%w: unknown direction %q", ErrValidation, kind)
	}
	rec.Rate = value
	return t.Set(ctx, actor, currency, rec)
}

// Delete removes the record for a currency. Only privileged actors may edit
// the table. Deleting an unknown currency returns ErrNotFound.
func (t *RateTable) Delete(ctx context.Context, actor Actor, currency string) error {
	if !actor.Privileged() {
		return fmt.Errorf("%w: only admins may edit rates", ErrPermission)
	}
	rates, err := t.All(ctx)
	if err != nil {
		return err
	}
	if _, ok := rates[currency]; !ok {
		return fmt.Errorf("%w: no rate for %s", ErrNotFound, currency)
	}
	delete(rates, currency)
	return t.store.Set(ctx, ratesKey, rates)
}

// All returns the whole table. An unwritten table is empty, not an error.
func (t *RateTable) All(ctx context.Context) (map[string]RateRecord, error) {
	rates := make(map[string]RateRecord)
	if err := t.store.Get(ctx, ratesKey, &rates); err != nil && !errors.Is(err, kvstore.ErrNoDocument) {
		return nil, err
	}
	return rates, nil
}

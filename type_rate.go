package exchange

import "github.com/shopspring/decimal"

// Rate is an exchange rate: the local-currency cost of one unit of a
// foreign currency.
type Rate struct {
	value decimal.Decimal
}

func R[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Rate {
	return Rate{value: newDecimal(value)}
}

// ParseRate parses a decimal string into a Rate.
func ParseRate(s string) (Rate, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Rate{}, err
	}
	return Rate{value: d}, nil
}

func (r Rate) Equal(s Rate) bool { return r.value.Equal(s.value) }
func (r Rate) Sub(s Rate) Rate   { return Rate{value: r.value.Sub(s.value)} }
func (r Rate) IsPositive() bool  { return r.value.IsPositive() }
func (r Rate) IsZero() bool      { return r.value.IsZero() }
func (r Rate) String() string    { return r.value.String() }

// StringFixed renders the rate with the conventional four decimal places.
func (r Rate) StringFixed() string { return r.value.StringFixed(4) }

// MulAmount converts an amount of foreign currency into local currency.
// The rate may be negative here: realized profit is computed from the
// spread (sell rate - buy rate).
func (r Rate) MulAmount(a Amount) Money {
	return Money{value: r.value.Mul(a.value)}
}

// MarshalJSON implements the json.Marshaler interface for Rate.
func (r Rate) MarshalJSON() ([]byte, error) {
	return r.value.MarshalJSON()
}

func (r *Rate) UnmarshalJSON(data []byte) error {
	return r.value.UnmarshalJSON(data)
}

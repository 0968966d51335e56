package exchange

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// LocalCurrency is the settlement currency of the exchange desk. All
// transaction totals and profit figures are expressed in it.
const LocalCurrency = "USD"

// Money is a local-currency value.
type Money struct {
	value decimal.Decimal // as major unit value
}

func M[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Money {
	return Money{value: newDecimal(value)}
}

// currency returns the full local currency definition.
func (m Money) currency() money.Currency {
	// to get a never nil currency we call the money constructor
	return *money.New(0, LocalCurrency).Currency()
}

// String returns the formatted local-currency representation, e.g. "$12.50".
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.Round(0).IntPart())
}

func (m Money) Equal(n Money) bool    { return m.value.Equal(n.value) }
func (m Money) IsZero() bool          { return m.value.IsZero() }
func (m Money) IsPositive() bool      { return m.value.IsPositive() }
func (m Money) IsNegative() bool      { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool { return m.value.LessThan(n.value) }
func (m Money) Neg() Money            { return Money{value: m.value.Neg()} }
func (m Money) Add(n Money) Money     { return Money{value: m.value.Add(n.value)} }
func (m Money) Sub(n Money) Money     { return Money{value: m.value.Sub(n.value)} }

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as "-".
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

// MarshalJSON implements the json.Marshaler interface for Money. Values are
// rounded to the local currency's minor unit.
func (m Money) MarshalJSON() ([]byte, error) {
	return m.value.Round(int32(m.currency().Fraction)).MarshalJSON()
}

func (m *Money) UnmarshalJSON(data []byte) error {
	return m.value.UnmarshalJSON(data)
}

package exchange

import (
	"fmt"
	"time"
)

// TxType is a typed string identifying the transaction direction.
type TxType string

const (
	TxBuy  TxType = "buy"
	TxSell TxType = "sell"
)

// ParseTxType parses a string into a TxType.
func ParseTxType(s string) (TxType, error) {
	switch TxType(s) {
	case TxBuy:
		return TxBuy, nil
	case TxSell:
		return TxSell, nil
	default:
		return "", fmt.Errorf("unknown transaction type: %q", s)
	}
}

// TxStatus is the lifecycle state of a transaction. The only transition is
// active -> voided, and it is one-way.
type TxStatus string

const (
	StatusActive TxStatus = "active"
	StatusVoided TxStatus = "voided"
)

// Transaction is one buy or sell event. It is immutable once recorded except
// for the void fields, which are set exactly once and never cleared.
type Transaction struct {
	ID       int64     `json:"id"`
	Type     TxType    `json:"type"`
	Currency string    `json:"currency"`
	Amount   Amount    `json:"amount"`
	Rate     Rate      `json:"rate"`
	Date     time.Time `json:"date"`
	Customer string    `json:"customer,omitempty"`
	IDCard   string    `json:"id_card,omitempty"`
	Status   TxStatus  `json:"status,omitempty"`

	VoidReason string `json:"void_reason,omitempty"`
	VoidedBy   string `json:"voided_by,omitempty"`

	// Realized is the ordered list of consumed-lot fragments recorded when a
	// sell was created. The fragments sum to Amount minus any FIFO shortfall;
	// the shortfall itself has no fragment. Absent on buys.
	Realized []Fragment `json:"realized,omitempty"`
}

// SetCreated stamps the store-assigned identifier and creation time.
// It implements the kvstore item contract.
func (t *Transaction) SetCreated(id int64, date time.Time) {
	t.ID = id
	t.Date = date
}

// Active reports whether the transaction still counts toward holdings.
// Records written before status tracking have an empty status and are active.
func (t Transaction) Active() bool { return t.Status != StatusVoided }

// Total is the local-currency value of the transaction.
func (t Transaction) Total() Money { return t.Amount.MulRate(t.Rate) }

// Entry is the user-supplied part of a transaction, validated before any
// mutation happens.
type Entry struct {
	Currency string
	Amount   Amount
	Rate     Rate
	Customer string
	IDCard   string
}

// Validate checks the entry fields. Any failure aborts the operation before
// the store is touched.
func (e Entry) Validate() error {
	if e.Currency == "" {
		return fmt.Errorf("%w: currency is missing", ErrValidation)
	}
	if !e.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive, got %s", ErrValidation, e.Amount)
	}
	if !e.Rate.IsPositive() {
		return fmt.Errorf("%w: rate must be positive, got %s", ErrValidation, e.Rate)
	}
	return nil
}

// newTransaction builds the record for an entry. The id and date are stamped
// by the store on append.
func newTransaction(kind TxType, e Entry) *Transaction {
	return &Transaction{
		Type:     kind,
		Currency: e.Currency,
		Amount:   e.Amount,
		Rate:     e.Rate,
		Customer: e.Customer,
		IDCard:   e.IDCard,
		Status:   StatusActive,
	}
}

package exchange

import (
	"context"
	"errors"
	"time"

	"github.com/hzein/exchange/kvstore"
)

// ActivityEntry is one audit record. Entries are append-only and never
// voided or deleted.
type ActivityEntry struct {
	ID      int64     `json:"id"`
	User    string    `json:"current_user"`
	Action  string    `json:"action_type"`
	Module  string    `json:"module_name"`
	Details string    `json:"details"`
	Date    time.Time `json:"timestamp"`
}

// SetCreated stamps the store-assigned identifier and creation time.
func (a *ActivityEntry) SetCreated(id int64, date time.Time) {
	a.ID = id
	a.Date = date
}

// logActivity appends an audit record for a ledger mutation.
func (l *Ledger) logActivity(ctx context.Context, actor Actor, action, details string) error {
	entry := &ActivityEntry{
		User:    actor.Name,
		Action:  action,
		Module:  "Exchange",
		Details: details,
	}
	return l.store.Add(ctx, activityKey, entry)
}

// Activity returns the audit log in append order.
func (l *Ledger) Activity(ctx context.Context) ([]ActivityEntry, error) {
	var entries []ActivityEntry
	if err := l.store.Get(ctx, activityKey, &entries); err != nil && !errors.Is(err, kvstore.ErrNoDocument) {
		return nil, err
	}
	return entries, nil
}

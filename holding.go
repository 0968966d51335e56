package exchange

import (
	"context"
	"sort"
)

// HoldingReport is the audit view of one currency's position: the remaining
// quantity, its amount-weighted acquisition rate and the lot history in
// queue order.
type HoldingReport struct {
	Currency    string `json:"currency"`
	Total       Amount `json:"total"`
	AverageRate Rate   `json:"average_rate"`
	CostBasis   Money  `json:"cost_basis"`
	Lots        []Lot  `json:"lots"`
}

// Holding returns the position for one currency. A currency that was never
// traded reports an empty position, not an error.
func (l *Ledger) Holding(ctx context.Context, currency string) (HoldingReport, error) {
	holdings, err := l.loadHoldings(ctx)
	if err != nil {
		return HoldingReport{}, err
	}
	cur := holdings[currency]
	if cur == nil {
		return HoldingReport{Currency: currency}, nil
	}
	return newHoldingReport(currency, cur.Lots), nil
}

// Holdings returns all positions sorted by currency code. Currencies whose
// lots were fully consumed are skipped.
func (l *Ledger) Holdings(ctx context.Context) ([]HoldingReport, error) {
	holdings, err := l.loadHoldings(ctx)
	if err != nil {
		return nil, err
	}
	reports := make([]HoldingReport, 0, len(holdings))
	for currency, cur := range holdings {
		if len(cur.Lots) == 0 {
			continue
		}
		reports = append(reports, newHoldingReport(currency, cur.Lots))
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].Currency < reports[j].Currency })
	return reports, nil
}

func newHoldingReport(currency string, l lots) HoldingReport {
	total := l.total()
	avg := l.averageRate()
	return HoldingReport{
		Currency:    currency,
		Total:       total,
		AverageRate: avg,
		CostBasis:   total.MulRate(avg),
		Lots:        append([]Lot(nil), l...),
	}
}

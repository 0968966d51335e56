// Package renderer turns ledger reports into markdown for terminal display.
package renderer

import (
	"fmt"
	"strings"

	"github.com/hzein/exchange"
)

const dateFormat = "2006-01-02 15:04"

// Holdings renders the positions overview as a markdown table.
func Holdings(reports []exchange.HoldingReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Holdings\n\n")
	if len(reports) == 0 {
		fmt.Fprintln(&b, "No open positions.")
		return b.String()
	}
	fmt.Fprintln(&b, "| Currency | Amount | Avg Rate | Cost Basis | Lots |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|")
	for _, h := range reports {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %d |\n",
			h.Currency,
			h.Total,
			h.AverageRate.StringFixed(),
			h.CostBasis,
			len(h.Lots),
		)
	}
	return b.String()
}

// Lots renders one currency's lot history in queue order, oldest first.
func Lots(h exchange.HoldingReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s lots\n\n", h.Currency)
	if len(h.Lots) == 0 {
		fmt.Fprintln(&b, "No lots held.")
		return b.String()
	}
	fmt.Fprintln(&b, "| # | Date | Amount | Rate |")
	fmt.Fprintln(&b, "|---:|:---|---:|---:|")
	for i, lot := range h.Lots {
		fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", i+1, lot.Date.Format(dateFormat), lot.Amount, lot.Rate.StringFixed())
	}
	fmt.Fprintf(&b, "\nTotal **%s** at average rate **%s** (%s)\n", h.Total, h.AverageRate.StringFixed(), h.CostBasis)
	return b.String()
}

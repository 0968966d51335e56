package renderer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hzein/exchange"
)

// Rates renders the configured rate table as a markdown table, sorted by
// currency code.
func Rates(rates map[string]exchange.RateRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Exchange rates\n\n")
	if len(rates) == 0 {
		fmt.Fprintln(&b, "No rates configured.")
		return b.String()
	}
	codes := make([]string, 0, len(rates))
	for c := range rates {
		codes = append(codes, c)
	}
	sort.Strings(codes)

	fmt.Fprintln(&b, "| Currency | Buy | Sell | Reference | Updated |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|:---|")
	for _, c := range codes {
		rec := rates[c]
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			c,
			rateCell(rec.BuyRate),
			rateCell(rec.SellRate),
			rateCell(rec.Rate),
			rec.Updated.Format(dateFormat),
		)
	}
	return b.String()
}

func rateCell(r exchange.Rate) string {
	if r.IsZero() {
		return "-"
	}
	return r.StringFixed()
}

// Dashboard renders the overview report.
func Dashboard(d exchange.Dashboard) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Dashboard\n\n")
	fmt.Fprintf(&b, "Estimated realized profit: **%s**\n\n", d.Profit)
	fmt.Fprintln(&b, "| Window | Buy | Sell |")
	fmt.Fprintln(&b, "|:---|---:|---:|")
	fmt.Fprintf(&b, "| This week | %s | %s |\n", d.WeekBuy, d.WeekSell)
	fmt.Fprintf(&b, "| This month | %s | %s |\n", d.MonthBuy, d.MonthSell)

	if len(d.LocalVolume) > 0 {
		codes := make([]string, 0, len(d.LocalVolume))
		for c := range d.LocalVolume {
			codes = append(codes, c)
		}
		sort.Strings(codes)
		fmt.Fprintf(&b, "\n## Volume by currency\n\n")
		fmt.Fprintln(&b, "| Currency | Bought | Sold | Local value |")
		fmt.Fprintln(&b, "|:---|---:|---:|---:|")
		for _, c := range codes {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", c, d.BuyVolume[c], d.SellVolume[c], d.LocalVolume[c])
		}
	}
	return b.String()
}

// Activity renders audit entries in the given order.
func Activity(entries []exchange.ActivityEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Activity\n\n")
	if len(entries) == 0 {
		fmt.Fprintln(&b, "No activity recorded.")
		return b.String()
	}
	fmt.Fprintln(&b, "| Date | User | Action | Module | Details |")
	fmt.Fprintln(&b, "|:---|:---|:---|:---|:---|")
	for _, e := range entries {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			e.Date.Format(dateFormat), e.User, e.Action, e.Module, e.Details)
	}
	return b.String()
}

package renderer

import (
	"fmt"
	"strings"

	"github.com/hzein/exchange"
)

// Transactions renders the transaction log as a markdown table.
func Transactions(txs []exchange.Transaction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Transactions\n\n")
	if len(txs) == 0 {
		fmt.Fprintln(&b, "No transactions recorded.")
		return b.String()
	}
	fmt.Fprintln(&b, "| ID | Date | Type | Currency | Amount | Rate | Total | Customer | Status |")
	fmt.Fprintln(&b, "|:---|:---|:---|:---|---:|---:|---:|:---|:---|")
	for _, tx := range txs {
		status := string(tx.Status)
		if status == "" {
			status = string(exchange.StatusActive)
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			tx.ID,
			tx.Date.Format(dateFormat),
			tx.Type,
			tx.Currency,
			tx.Amount,
			tx.Rate.StringFixed(),
			tx.Total(),
			tx.Customer,
			status,
		)
	}
	return b.String()
}

// Transaction renders one record in full, including void details and the
// realized fragments of a sell.
func Transaction(tx exchange.Transaction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Transaction %d\n\n", tx.ID)
	fmt.Fprintf(&b, "- Type: **%s**\n", tx.Type)
	fmt.Fprintf(&b, "- Currency: %s\n", tx.Currency)
	fmt.Fprintf(&b, "- Amount: %s at rate %s (%s)\n", tx.Amount, tx.Rate.StringFixed(), tx.Total())
	fmt.Fprintf(&b, "- Date: %s\n", tx.Date.Format(dateFormat))
	if tx.Customer != "" {
		fmt.Fprintf(&b, "- Customer: %s", tx.Customer)
		if tx.IDCard != "" {
			fmt.Fprintf(&b, " (ID %s)", tx.IDCard)
		}
		fmt.Fprintln(&b)
	}
	if tx.Status == exchange.StatusVoided {
		fmt.Fprintf(&b, "- Voided by %s: %s\n", tx.VoidedBy, tx.VoidReason)
	}
	if len(tx.Realized) > 0 {
		fmt.Fprintf(&b, "\n## Realized against\n\n")
		fmt.Fprintln(&b, "| Amount | Buy Rate |")
		fmt.Fprintln(&b, "|---:|---:|")
		for _, f := range tx.Realized {
			fmt.Fprintf(&b, "| %s | %s |\n", f.Amount, f.BuyRate.StringFixed())
		}
	}
	return b.String()
}

// VoidResult renders the outcome of a void, flagging approximate reversals.
func VoidResult(res *exchange.VoidResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Voided transaction %d (%s %s %s).\n",
		res.Transaction.ID, res.Transaction.Type, res.Transaction.Amount, res.Transaction.Currency)
	if res.Reversal == exchange.ReversalApproximate {
		fmt.Fprintln(&b, "\n**Note**: holdings were reversed approximately; the exact lot state could not be reconstructed.")
	}
	return b.String()
}

package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/hzein/exchange"
	"github.com/hzein/exchange/renderer"
)

type buyCmd struct {
	currency string
	amount   string
	rate     string
	customer string
	idCard   string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record a buy transaction" }
func (*buyCmd) Usage() string {
	return `xc buy -c <currency> -a <amount> [-r <rate>] [-customer <name>] [-id-card <number>]

  Records the purchase of foreign currency and pushes a new cost lot to the
  tail of the currency's queue. Without -r, the configured buy rate for the
  currency is used.
`
}

func (p *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.currency, "c", "", "Currency code, e.g. EUR.")
	f.StringVar(&p.amount, "a", "", "Amount of foreign currency.")
	f.StringVar(&p.rate, "r", "", "Rate in local currency per unit. Defaults to the configured buy rate.")
	f.StringVar(&p.customer, "customer", "", "Customer name.")
	f.StringVar(&p.idCard, "id-card", "", "Customer ID card number.")
}

func (p *buyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return recordTransaction(ctx, exchange.TxBuy, p.currency, p.amount, p.rate, p.customer, p.idCard)
}

// recordTransaction is the shared implementation of the buy and sell commands.
func recordTransaction(ctx context.Context, kind exchange.TxType, currency, amount, rate, customer, idCard string) subcommands.ExitStatus {
	store, closeStore, err := OpenStore(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	a, err := exchange.ParseAmount(amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: bad amount %q: %v\n", amount, err)
		return subcommands.ExitUsageError
	}

	var r exchange.Rate
	if rate != "" {
		r, err = exchange.ParseRate(rate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: bad rate %q: %v\n", rate, err)
			return subcommands.ExitUsageError
		}
	} else {
		r, err = exchange.NewRateTable(store).Resolve(ctx, currency, kind)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v (pass -r to set the rate explicitly)\n", err)
			return subcommands.ExitFailure
		}
	}

	entry := exchange.Entry{
		Currency: currency,
		Amount:   a,
		Rate:     r,
		Customer: customer,
		IDCard:   idCard,
	}
	ledger := exchange.NewLedger(store)

	var tx *exchange.Transaction
	switch kind {
	case exchange.TxBuy:
		tx, err = ledger.RecordBuy(ctx, actor(), entry)
	case exchange.TxSell:
		var shortfall exchange.Amount
		tx, shortfall, err = ledger.RecordSell(ctx, actor(), entry)
		if err == nil && !shortfall.IsZero() {
			fmt.Fprintf(os.Stderr, "Warning: %s %s had no matching lots; sold at zero cost basis.\n", shortfall, currency)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.Transaction(*tx))
	return subcommands.ExitSuccess
}

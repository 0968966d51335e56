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

type holdingsCmd struct {
	currency string
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "show currency holdings and cost lots" }
func (*holdingsCmd) Usage() string {
	return `xc holdings [-c <currency>]

  Shows every open position: remaining amount, amount-weighted average buy
  rate and cost basis. With -c, shows the currency's full lot history in
  queue order.
`
}

func (p *holdingsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.currency, "c", "", "Show the lot history for this currency.")
}

func (p *holdingsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, closeStore, err := OpenStore(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeStore()
	ledger := exchange.NewLedger(store)

	if p.currency != "" {
		h, err := ledger.Holding(ctx, p.currency)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		printMarkdown(renderer.Lots(h))
		return subcommands.ExitSuccess
	}

	reports, err := ledger.Holdings(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.Holdings(reports))
	return subcommands.ExitSuccess
}

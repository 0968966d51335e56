package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/hzein/exchange"
)

type profitCmd struct{}

func (*profitCmd) Name() string     { return "profit" }
func (*profitCmd) Synopsis() string { return "compute realized profit by replaying the transaction log" }
func (*profitCmd) Usage() string {
	return `xc profit

  Replays FIFO consumption over the whole transaction log from scratch and
  reports the realized profit. Voided transactions are excluded; the stored
  lot state is never consulted.
`
}

func (*profitCmd) SetFlags(*flag.FlagSet) {}

func (p *profitCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, closeStore, err := OpenStore(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	txs, err := exchange.NewLedger(store).Transactions(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	profit := exchange.RealizedProfit(txs)
	printMarkdown(fmt.Sprintf("Realized profit: **%s**\n", profit))
	return subcommands.ExitSuccess
}

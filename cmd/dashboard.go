package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/hzein/exchange"
	"github.com/hzein/exchange/renderer"
)

type dashboardCmd struct{}

func (*dashboardCmd) Name() string     { return "dashboard" }
func (*dashboardCmd) Synopsis() string { return "show the desk overview" }
func (*dashboardCmd) Usage() string {
	return `xc dashboard

  Shows realized profit, week-to-date and month-to-date volumes, and traded
  volume per currency.
`
}

func (*dashboardCmd) SetFlags(*flag.FlagSet) {}

func (p *dashboardCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	printMarkdown(renderer.Dashboard(exchange.BuildDashboard(txs, time.Now())))
	return subcommands.ExitSuccess
}

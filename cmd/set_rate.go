package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/hzein/exchange"
)

type setRateCmd struct {
	currency  string
	direction string
	rate      string
}

func (*setRateCmd) Name() string     { return "set-rate" }
func (*setRateCmd) Synopsis() string { return "configure a buy or sell rate (admin only)" }
func (*setRateCmd) Usage() string {
	return `xc -role admin set-rate -c <currency> -d <buy|sell> -r <rate>

  Upserts the directional rate for a currency and refreshes its reference
  rate. Requires the admin role; existing transactions keep the rate they
  were entered at.
`
}

func (p *setRateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.currency, "c", "", "Currency code, e.g. EUR.")
	f.StringVar(&p.direction, "d", "", "Direction: buy or sell.")
	f.StringVar(&p.rate, "r", "", "Rate in local currency per unit.")
}

func (p *setRateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	kind, err := exchange.ParseTxType(p.direction)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	rate, err := exchange.ParseRate(p.rate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: bad rate %q: %v\n", p.rate, err)
		return subcommands.ExitUsageError
	}

	store, closeStore, err := OpenStore(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	if err := exchange.NewRateTable(store).SetDirection(ctx, actor(), p.currency, kind, rate); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Set %s %s rate to %s.\n", p.currency, kind, rate)
	return subcommands.ExitSuccess
}

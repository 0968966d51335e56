package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/hzein/exchange"
)

type deleteRateCmd struct {
	currency string
}

func (*deleteRateCmd) Name() string     { return "delete-rate" }
func (*deleteRateCmd) Synopsis() string { return "remove a configured currency rate (admin only)" }
func (*deleteRateCmd) Usage() string {
	return `xc -role admin delete-rate -c <currency>

  Removes the rate record for a currency. Requires the admin role.
`
}

func (p *deleteRateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.currency, "c", "", "Currency code, e.g. EUR.")
}

func (p *deleteRateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, closeStore, err := OpenStore(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	if err := exchange.NewRateTable(store).Delete(ctx, actor(), p.currency); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Deleted rate for %s.\n", p.currency)
	return subcommands.ExitSuccess
}

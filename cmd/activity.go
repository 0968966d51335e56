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

type activityCmd struct {
	limit int
}

func (*activityCmd) Name() string     { return "activity" }
func (*activityCmd) Synopsis() string { return "show the audit trail" }
func (*activityCmd) Usage() string {
	return `xc activity [-n <count>]

  Shows the most recent audit entries, newest first.
`
}

func (p *activityCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&p.limit, "n", 20, "Number of entries to show.")
}

func (p *activityCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, closeStore, err := OpenStore(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	entries, err := exchange.NewLedger(store).Activity(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	// Newest first.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	if p.limit > 0 && len(entries) > p.limit {
		entries = entries[:p.limit]
	}
	printMarkdown(renderer.Activity(entries))
	return subcommands.ExitSuccess
}

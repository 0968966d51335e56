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

type voidCmd struct {
	id     int64
	reason string
}

func (*voidCmd) Name() string     { return "void" }
func (*voidCmd) Synopsis() string { return "void a transaction and reverse its holdings effect" }
func (*voidCmd) Usage() string {
	return `xc void -id <id> -reason <text>

  Marks a transaction as voided. The record stays in the log for audit and
  stops counting toward holdings and profit. Holdings are reversed
  best-effort; the command reports when the reversal was approximate.
`
}

func (p *voidCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&p.id, "id", 0, "Transaction id to void.")
	f.StringVar(&p.reason, "reason", "", "Reason recorded on the voided transaction.")
}

func (p *voidCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.id == 0 || p.reason == "" {
		fmt.Fprintln(os.Stderr, "Error: -id and -reason are required.")
		return subcommands.ExitUsageError
	}
	store, closeStore, err := OpenStore(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	res, err := exchange.NewLedger(store).Void(ctx, actor(), p.id, p.reason)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.VoidResult(res))
	return subcommands.ExitSuccess
}

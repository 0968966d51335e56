package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/hzein/exchange"
)

type sellCmd struct {
	currency string
	amount   string
	rate     string
	customer string
	idCard   string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "record a sell transaction" }
func (*sellCmd) Usage() string {
	return `xc sell -c <currency> -a <amount> [-r <rate>] [-customer <name>] [-id-card <number>]

  Records the sale of foreign currency. Lots are consumed oldest first and
  the realized spread is recorded on the transaction. The sale is rejected
  when the amount exceeds the net holdings for the currency. Without -r, the
  configured sell rate is used.
`
}

func (p *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.currency, "c", "", "Currency code, e.g. EUR.")
	f.StringVar(&p.amount, "a", "", "Amount of foreign currency.")
	f.StringVar(&p.rate, "r", "", "Rate in local currency per unit. Defaults to the configured sell rate.")
	f.StringVar(&p.customer, "customer", "", "Customer name.")
	f.StringVar(&p.idCard, "id-card", "", "Customer ID card number.")
}

func (p *sellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return recordTransaction(ctx, exchange.TxSell, p.currency, p.amount, p.rate, p.customer, p.idCard)
}

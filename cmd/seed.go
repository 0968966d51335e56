package cmd

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/bxcodec/faker/v3"
	"github.com/google/subcommands"

	"github.com/hzein/exchange"
)

type seedCmd struct {
	transactions int
	password     string
}

func (*seedCmd) Name() string     { return "seed" }
func (*seedCmd) Synopsis() string { return "populate the store with demo accounts, rates and transactions" }
func (*seedCmd) Usage() string {
	return `xc seed [-n <transactions>] [-password <password>]

  Creates the demo accounts (admin and exchange), a default rate table and a
  batch of random transactions with generated customer data. Intended for
  demos and local development, not production stores.
`
}

func (p *seedCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&p.transactions, "n", 20, "Number of random transactions to create.")
	f.StringVar(&p.password, "password", "123", "Password for the demo accounts.")
}

func (p *seedCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, closeStore, err := OpenStore(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	users := exchange.NewUsers(store)
	accounts := []exchange.User{
		{Username: "admin", Name: "Super Admin", Role: exchange.RoleAdmin},
		{Username: "exchange", Name: "Money Exchange Staff", Role: exchange.RoleExchange},
	}
	for _, account := range accounts {
		if err := users.Upsert(ctx, account, p.password); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating user %s: %v\n", account.Username, err)
			return subcommands.ExitFailure
		}
	}
	admin := accounts[0].Actor()
	teller := accounts[1].Actor()

	rates := exchange.NewRateTable(store)
	seedRates := map[string]exchange.RateRecord{
		"EUR": {BuyRate: exchange.R(1.05), SellRate: exchange.R(1.10), Rate: exchange.R(1.08)},
		"GBP": {BuyRate: exchange.R(1.25), SellRate: exchange.R(1.32), Rate: exchange.R(1.28)},
		"CHF": {BuyRate: exchange.R(1.10), SellRate: exchange.R(1.16), Rate: exchange.R(1.13)},
	}
	currencies := make([]string, 0, len(seedRates))
	for currency, rec := range seedRates {
		if err := rates.Set(ctx, admin, currency, rec); err != nil {
			fmt.Fprintf(os.Stderr, "Error setting rate for %s: %v\n", currency, err)
			return subcommands.ExitFailure
		}
		currencies = append(currencies, currency)
	}

	ledger := exchange.NewLedger(store)
	net := make(map[string]int)
	for i := 0; i < p.transactions; i++ {
		currency := currencies[rand.Intn(len(currencies))]
		entry := exchange.Entry{
			Currency: currency,
			Customer: faker.Name(),
			IDCard:   faker.CCNumber(),
		}

		// Sell roughly a third of the time, and only what is held.
		if held := net[currency]; held > 0 && rand.Intn(3) == 0 {
			amount := 1 + rand.Intn(held)
			entry.Amount = exchange.A(amount)
			entry.Rate, _ = rates.Resolve(ctx, currency, exchange.TxSell)
			if _, _, err := ledger.RecordSell(ctx, teller, entry); err != nil {
				fmt.Fprintf(os.Stderr, "Error seeding sell: %v\n", err)
				return subcommands.ExitFailure
			}
			net[currency] -= amount
			continue
		}

		amount := 50 + rand.Intn(450)
		entry.Amount = exchange.A(amount)
		entry.Rate, _ = rates.Resolve(ctx, currency, exchange.TxBuy)
		if _, err := ledger.RecordBuy(ctx, teller, entry); err != nil {
			fmt.Fprintf(os.Stderr, "Error seeding buy: %v\n", err)
			return subcommands.ExitFailure
		}
		net[currency] += amount
	}

	fmt.Printf("Seeded %d accounts, %d rates and %d transactions.\n", len(accounts), len(seedRates), p.transactions)
	return subcommands.ExitSuccess
}

// Package cmd implements the CLI application for the exchange desk.
package cmd

import (
	"context"
	"flag"
	"os"
	"os/user"

	"github.com/google/subcommands"

	"github.com/hzein/exchange"
	"github.com/hzein/exchange/kvstore"
)

// Commands lists every subcommand. A main package registers them all and
// uses the names for shell completion.
var Commands = []subcommands.Command{
	&buyCmd{},
	&sellCmd{},
	&voidCmd{},
	&txCmd{},
	&holdingsCmd{},
	&ratesCmd{},
	&setRateCmd{},
	&deleteRateCmd{},
	&profitCmd{},
	&dashboardCmd{},
	&activityCmd{},
	&seedCmd{},
	&serveCmd{},
	&topicCmd{},
}

// As a CLI application with a short-lived process, global flags are fine.
var (
	storePath = flag.String("store-path", "", "Path to the store directory (defaults to $STORE_PATH or .exchange). Ignored when $DATABASE_URL is set.")
	actorName = flag.String("actor", "", "Acting user recorded in the audit trail (defaults to the OS user).")
	actorRole = flag.String("role", "", "Acting role: admin or exchange_user (defaults to $ACTOR_ROLE or exchange_user).")
)

// OpenStore opens the collection store: postgres when DATABASE_URL is set,
// a JSON document directory otherwise.
func OpenStore(ctx context.Context) (*kvstore.Store, func(), error) {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		backend, err := kvstore.OpenPostgres(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		return kvstore.New(backend), backend.Close, nil
	}
	dir := *storePath
	if dir == "" {
		dir = os.Getenv("STORE_PATH")
	}
	if dir == "" {
		dir = ".exchange"
	}
	return kvstore.New(kvstore.NewDir(dir)), func() {}, nil
}

// actor resolves the acting identity from the global flags and environment.
func actor() exchange.Actor {
	name := *actorName
	if name == "" {
		if u, err := user.Current(); err == nil {
			name = u.Username
		} else {
			name = "unknown"
		}
	}
	role := *actorRole
	if role == "" {
		role = os.Getenv("ACTOR_ROLE")
	}
	if role == "" {
		role = string(exchange.RoleExchange)
	}
	return exchange.Actor{Name: name, Role: exchange.Role(role)}
}

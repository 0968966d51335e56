package cmd

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/subcommands"

	"github.com/hzein/exchange/server"
)

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "run the HTTP API" }
func (*serveCmd) Usage() string {
	return `xc serve [-addr <host:port>]

  Serves the exchange desk over HTTP. Clients authenticate with POST /login
  against the shared user directory and pass the returned bearer token on
  every call. JWT_SECRET must be set; ADDR overrides the default address.
`
}

func (p *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.addr, "addr", "", "Listen address (defaults to $ADDR or :8080).")
}

func (p *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "Error: JWT_SECRET is not set.")
		return subcommands.ExitFailure
	}
	addr := p.addr
	if addr == "" {
		addr = os.Getenv("ADDR")
	}
	if addr == "" {
		addr = ":8080"
	}

	store, closeStore, err := OpenStore(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	srv := server.New(store, []byte(secret), log)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.ListenAndServe(ctx, addr); err != nil && err != http.ErrServerClosed {
		log.Error("server stopped", "error", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

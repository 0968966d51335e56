// Package exchange implements the bookkeeping core of a multi-currency
// exchange desk: holdings tracked as per-currency FIFO cost lots, an
// append-only transaction log, and realized-profit accounting.
//
// The core functionalities include:
//   - Holdings Ledger: every buy pushes a cost lot; every sell consumes lots
//     oldest first and records the realized spread on the transaction
//     itself, so the disposal can be reversed later.
//   - Voiding: a transaction is canceled by marking, never by deletion, and
//     its effect on holdings is reversed best-effort. The reversal reports
//     whether it was exact or approximate.
//   - Rate Table: operator-configured buy/sell rates per currency, with a
//     reference-rate fallback. Editing is restricted to privileged actors
//     and never rewrites recorded transactions.
//   - Reporting: realized profit is recomputed by replaying the transaction
//     log from scratch, independent of the stored lot state.
//   - Audit: every mutation appends an activity-log entry with the acting
//     user; actors are threaded explicitly, never read from ambient state.
//
// All state lives in the injected kvstore collections, so the same ledger
// runs over an in-memory store in tests, a JSON document directory for the
// CLI, or postgres behind the HTTP server. This package is the foundation
// of the `xc` command-line tool and the HTTP API.
package exchange

package exchange

// Role identifies what a user is allowed to do.
type Role string

const (
	// RoleAdmin can configure exchange rates and void transactions in any module.
	RoleAdmin Role = "admin"
	// RoleExchange is the teller role: records buy/sell transactions.
	RoleExchange Role = "exchange_user"
)

// Actor is the user performing an operation. It is threaded explicitly into
// every mutating call so that privilege checks and audit entries never rely
// on ambient session state.
type Actor struct {
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// Privileged reports whether the actor may change rate configuration.
func (a Actor) Privileged() bool { return a.Role == RoleAdmin }

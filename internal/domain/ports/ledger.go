package ports

import "context"

// PlayerLedger is the external player/account currency ledger. The
// cartel engine only consumes its atomic debit/credit contract; the
// ledger itself lives outside this subsystem.
type PlayerLedger interface {
	// Debit removes cash from the player's personal account; fails
	// without side effects when the balance is insufficient.
	Debit(ctx context.Context, playerID int, amount int64, reason string) error
	// Credit adds cash to the player's personal account.
	Credit(ctx context.Context, playerID int, amount int64, reason string) error
}

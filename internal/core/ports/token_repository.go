package ports

import "context"

// TokenRepository is the authoritative token ledger.
type TokenRepository interface {
	// Add increments the balance and returns the new value.
	Add(ctx context.Context, username string, amount int) (int, error)
	// Balance returns the ledger value and whether the user has a ledger entry.
	Balance(ctx context.Context, username string) (int, bool, error)
}

package ports

import "context"

// TokenService applies awards to the ledger and keeps the user cache in sync.
type TokenService interface {
	AddTokens(ctx context.Context, username string, amount int) error
	GetTokens(ctx context.Context, username string) (int, error)
}

package jsonstore

import "context"

const TokensDocument = "user_tokens"

type tokensDoc map[string]int

func newTokensDoc() tokensDoc { return tokensDoc{} }

// TokenRepository implements ports.TokenRepository over the user_tokens document.
type TokenRepository struct {
	store *Store
}

func NewTokenRepository(store *Store) *TokenRepository {
	return &TokenRepository{store: store}
}

func (r *TokenRepository) Add(ctx context.Context, username string, amount int) (int, error) {
	var balance int
	err := Update(ctx, r.store, TokensDocument, newTokensDoc, func(doc *tokensDoc) error {
		balance = (*doc)[username] + amount
		(*doc)[username] = balance
		return nil
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func (r *TokenRepository) Balance(ctx context.Context, username string) (int, bool, error) {
	doc := Load(ctx, r.store, TokensDocument, newTokensDoc)
	balance, ok := doc[username]
	return balance, ok, nil
}

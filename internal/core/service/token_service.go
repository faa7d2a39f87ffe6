package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/swacchmap/civic-reports/internal/core/domain"
	"github.com/swacchmap/civic-reports/internal/core/ports"
)

// TokenService keeps the ledger authoritative and mirrors each new balance into
// the user's cached tokens field.
type TokenService struct {
	ledger ports.TokenRepository
	users  ports.UserRepository
	log    zerolog.Logger

	// mu spans the ledger write and the cache write of one award so the cached
	// field always ends on the latest balance.
	mu sync.Mutex
}

func NewTokenService(ledger ports.TokenRepository, users ports.UserRepository, log zerolog.Logger) *TokenService {
	return &TokenService{ledger: ledger, users: users, log: log}
}

// AddTokens is a no-op for an empty username.
func (s *TokenService) AddTokens(ctx context.Context, username string, amount int) error {
	if username == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	balance, err := s.ledger.Add(ctx, username, amount)
	if err != nil {
		return fmt.Errorf("add tokens: %w", err)
	}

	if err := s.users.SetTokens(ctx, username, balance); err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		s.log.Warn().Err(err).Str("username", username).Int("balance", balance).Msg("failed to sync cached token balance")
	}

	s.log.Debug().Str("username", username).Int("amount", amount).Int("balance", balance).Msg("tokens added")
	return nil
}

// GetTokens prefers the ledger, then the user's cached field, then zero.
func (s *TokenService) GetTokens(ctx context.Context, username string) (int, error) {
	if username == "" {
		return 0, nil
	}

	balance, ok, err := s.ledger.Balance(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("get tokens: %w", err)
	}
	if ok {
		return balance, nil
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("get tokens: %w", err)
	}
	return user.Tokens, nil
}

package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/swacchmap/civic-reports/internal/core/domain"
	"github.com/swacchmap/civic-reports/internal/core/ports"
)

// AuthConfig holds the credential settings.
type AuthConfig struct {
	AdminUsername string
	// AdminPassword empty disables administrator login.
	AdminPassword string
	JWTSecret     string
	TokenTTL      time.Duration
	BcryptCost    int
}

// AuthService implements registration, authentication and login.
type AuthService struct {
	users  ports.UserRepository
	tokens ports.TokenService
	cfg    AuthConfig
	log    zerolog.Logger
}

func NewAuthService(users ports.UserRepository, tokens ports.TokenService, cfg AuthConfig, log zerolog.Logger) *AuthService {
	if cfg.AdminUsername == "" {
		cfg.AdminUsername = domain.DefaultAdminUsername
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{users: users, tokens: tokens, cfg: cfg, log: log}
}

// isAdminName is case-insensitive so "Admin" cannot be registered either.
func (s *AuthService) isAdminName(username string) bool {
	return strings.EqualFold(username, s.cfg.AdminUsername)
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if s.isAdminName(username) || strings.EqualFold(username, domain.AnonymousSubmitter) {
		return nil, domain.ErrReservedUsername
	}

	hash, err := hashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{Username: username, PasswordHash: hash, Role: domain.RoleCitizen}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	// Seed the ledger entry so the balance reads as an explicit zero.
	if err := s.tokens.AddTokens(ctx, username, 0); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("failed to seed token ledger")
	}

	s.log.Info().Str("username", username).Msg("user registered")
	return user, nil
}

// Authenticate returns the user when password matches. Unknown users and wrong
// passwords both yield domain.ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.isAdminName(username) {
		if s.cfg.AdminPassword == "" ||
			subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.AdminPassword)) != 1 {
			return nil, domain.ErrInvalidCredentials
		}
		return &domain.User{Username: s.cfg.AdminUsername, Role: domain.RoleAdmin}, nil
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, legacy := verifyPassword(user.PasswordHash, password)
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	if legacy {
		s.upgradeDigest(ctx, user, password)
	}
	return user, nil
}

func (s *AuthService) upgradeDigest(ctx context.Context, user *domain.User, password string) {
	hash, err := hashPassword(password, s.cfg.BcryptCost)
	if err == nil {
		err = s.users.SetPasswordHash(ctx, user.Username, hash)
	}
	if err != nil {
		s.log.Warn().Err(err).Str("username", user.Username).Msg("failed to upgrade legacy password digest")
		return
	}
	user.PasswordHash = hash
	s.log.Info().Str("username", user.Username).Msg("legacy password digest upgraded")
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", nil, err
	}

	if user.Role != domain.RoleAdmin {
		if tokens, err := s.tokens.GetTokens(ctx, user.Username); err == nil {
			user.Tokens = tokens
		}
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(s.cfg.TokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.cfg.JWTSecret))
}

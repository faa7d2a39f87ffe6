package jsonstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/swacchmap/civic-reports/internal/core/domain"
)

const UsersDocument = "users"

// userRecord is the persisted shape of a user. Older files stored a bare digest
// string per username; UnmarshalJSON normalises that to {password, tokens: 0}.
type userRecord struct {
	Password string `json:"password"`
	Tokens   int    `json:"tokens"`
}

func (u *userRecord) UnmarshalJSON(data []byte) error {
	var digest string
	if err := json.Unmarshal(data, &digest); err == nil {
		*u = userRecord{Password: digest}
		return nil
	}

	var raw struct {
		Password       string `json:"password"`
		PasswordDigest string `json:"password_digest"`
		Tokens         int    `json:"tokens"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	u.Password = raw.Password
	if u.Password == "" {
		u.Password = raw.PasswordDigest
	}
	u.Tokens = raw.Tokens
	return nil
}

type usersDoc map[string]userRecord

func newUsersDoc() usersDoc { return usersDoc{} }

// UserRepository implements ports.UserRepository over the users document.
type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return Update(ctx, r.store, UsersDocument, newUsersDoc, func(doc *usersDoc) error {
		if _, exists := (*doc)[user.Username]; exists {
			return domain.ErrUserExists
		}
		(*doc)[user.Username] = userRecord{Password: user.PasswordHash, Tokens: user.Tokens}
		return nil
	})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	doc := Load(ctx, r.store, UsersDocument, newUsersDoc)
	rec, ok := doc[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &domain.User{
		Username:     username,
		PasswordHash: rec.Password,
		Tokens:       rec.Tokens,
		Role:         domain.RoleCitizen,
	}, nil
}

func (r *UserRepository) SetTokens(ctx context.Context, username string, tokens int) error {
	return r.modify(ctx, username, func(rec *userRecord) { rec.Tokens = tokens })
}

func (r *UserRepository) SetPasswordHash(ctx context.Context, username, hash string) error {
	return r.modify(ctx, username, func(rec *userRecord) { rec.Password = hash })
}

func (r *UserRepository) modify(ctx context.Context, username string, fn func(rec *userRecord)) error {
	err := Update(ctx, r.store, UsersDocument, newUsersDoc, func(doc *usersDoc) error {
		rec, ok := (*doc)[username]
		if !ok {
			return domain.ErrUserNotFound
		}
		fn(&rec)
		(*doc)[username] = rec
		return nil
	})
	if err != nil {
		return fmt.Errorf("update user %q: %w", username, err)
	}
	return nil
}

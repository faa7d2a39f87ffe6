package domain

import "errors"

const (
	RoleAdmin   = "admin"
	RoleCitizen = "citizen"
)

// DefaultAdminUsername is the reserved administrator name.
const DefaultAdminUsername = "admin"

var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrReservedUsername = errors.New("username is reserved")

// User models a registered citizen. Tokens is a cached copy of the token ledger balance.
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Tokens       int    `json:"tokens"`
	Role         string `json:"role"`
}

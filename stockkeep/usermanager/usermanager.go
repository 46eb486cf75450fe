package usermanager

import "errors"

var (
	ErrAuthorizationFailed = errors.New("authorization failed")
	ErrUserExists          = errors.New("user already exists")
)

// CreatedAtLayout is the ISO-8601 layout used for new accounts.
const CreatedAtLayout = "2006-01-02T15:04:05.000000"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleRegular Role = "regular"
)

// Kind maps "admin" to RoleAdmin and every other value to RoleRegular.
// The stored value itself is kept as read so it is written back unchanged.
func (r Role) Kind() Role {
	if r == RoleAdmin {
		return RoleAdmin
	}
	return RoleRegular
}

// User represents an account of the inventory system.
type User struct {
	Username     string   `json:"username"`      // case-sensitive login name, not unique
	PasswordHash string   `json:"password_hash"` // hex SHA-256 or bcrypt digest
	Role         Role     `json:"role"`
	History      []string `json:"history"`    // purchased product names, oldest first
	CreatedAt    string   `json:"created_at"` // ISO-8601, set once
}

// UserManager owns the in-memory account list and mirrors it to storage
// after every mutation.
type UserManager interface {
	// Loads accounts from storage, replacing the in-memory list
	LoadUsers() error

	// Writes every account to storage
	SaveUsers() error

	// Returns a snapshot of all accounts in load order
	ListUsers() []User

	// Returns the first account matching both username and password
	Authorize(username, password string) (*User, error)

	Hash(password string) (string, error)
	VerifyPassword(u *User, password string) bool
	RotatePassword(u *User, newPassword string) error
	AppendHistory(u *User, productName string) error
	History(u *User) []string

	// Creates a new account, refusing a username that already exists
	AddUser(username, password string, role Role) (*User, error)
}

package usermanager

import (
	"sync"
	"time"

	"github.com/steelcutops/stockkeep/logger"
	"github.com/steelcutops/stockkeep/stockkeep/datamanager"
)

const DefaultFile = "users.json"

type JSONUserManager struct {
	DataManager datamanager.DataManager
	File        string
	Hasher      Hasher
	Logger      logger.Logger
	Now         func() time.Time

	mu    sync.RWMutex
	users []*User
}

type Option func(*JSONUserManager)

// WithFile sets the accounts document name.
func WithFile(file string) Option {
	return func(um *JSONUserManager) {
		um.File = file
	}
}

// WithHasher sets the Hasher used for new and rotated passwords.
func WithHasher(h Hasher) Option {
	return func(um *JSONUserManager) {
		um.Hasher = h
	}
}

// WithLogger sets the logger for a JSONUserManager.
func WithLogger(l logger.Logger) Option {
	return func(um *JSONUserManager) {
		um.Logger = l
	}
}

// WithClock sets the time source for account creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(um *JSONUserManager) {
		um.Now = now
	}
}

func NewJSONUserManager(dm datamanager.DataManager, options ...Option) *JSONUserManager {
	um := &JSONUserManager{
		DataManager: dm,
		File:        DefaultFile,
		Hasher:      SHA256Hasher{},
		Logger:      logger.Discard(),
		Now:         time.Now,
	}
	for _, option := range options {
		option(um)
	}
	return um
}

func (um *JSONUserManager) LoadUsers() error {
	var records []User
	if err := um.DataManager.Load(um.File, &records); err != nil {
		return err
	}

	users := make([]*User, 0, len(records))
	for i := range records {
		u := records[i]
		if u.History == nil {
			u.History = []string{}
		}
		users = append(users, &u)
	}

	um.mu.Lock()
	um.users = users
	um.mu.Unlock()

	um.Logger.Info("Loaded users", "file", um.File, "count", len(users))
	return nil
}

func (um *JSONUserManager) SaveUsers() error {
	um.mu.RLock()
	defer um.mu.RUnlock()
	return um.flush()
}

// Records returns the serializable view of every account.
func (um *JSONUserManager) Records() []User {
	um.mu.RLock()
	defer um.mu.RUnlock()
	return um.records()
}

func (um *JSONUserManager) ListUsers() []User {
	return um.Records()
}

func (um *JSONUserManager) Authorize(username, password string) (*User, error) {
	um.mu.RLock()
	defer um.mu.RUnlock()

	for _, u := range um.users {
		if u.Username == username && VerifyPassword(u.PasswordHash, password) {
			um.Logger.Info("User authorized", "username", username, "role", u.Role)
			return u, nil
		}
	}
	um.Logger.Warn("Authorization failed", "username", username)
	return nil, ErrAuthorizationFailed
}

func (um *JSONUserManager) Hash(password string) (string, error) {
	return um.Hasher.Hash(password)
}

func (um *JSONUserManager) VerifyPassword(u *User, password string) bool {
	um.mu.RLock()
	defer um.mu.RUnlock()
	return VerifyPassword(u.PasswordHash, password)
}

func (um *JSONUserManager) RotatePassword(u *User, newPassword string) error {
	digest, err := um.Hash(newPassword)
	if err != nil {
		return err
	}

	um.mu.Lock()
	defer um.mu.Unlock()

	u.PasswordHash = digest
	um.Logger.Info("Password rotated", "username", u.Username)
	return um.flush()
}

func (um *JSONUserManager) AppendHistory(u *User, productName string) error {
	um.mu.Lock()
	defer um.mu.Unlock()

	u.History = append(u.History, productName)
	um.Logger.Info("Purchase recorded", "username", u.Username, "product", productName)
	return um.flush()
}

func (um *JSONUserManager) History(u *User) []string {
	um.mu.RLock()
	defer um.mu.RUnlock()
	return append([]string{}, u.History...)
}

func (um *JSONUserManager) AddUser(username, password string, role Role) (*User, error) {
	digest, err := um.Hash(password)
	if err != nil {
		return nil, err
	}

	um.mu.Lock()
	defer um.mu.Unlock()

	for _, u := range um.users {
		if u.Username == username {
			return nil, ErrUserExists
		}
	}

	u := &User{
		Username:     username,
		PasswordHash: digest,
		Role:         role,
		History:      []string{},
		CreatedAt:    um.Now().Format(CreatedAtLayout),
	}
	um.users = append(um.users, u)
	um.Logger.Info("Added user", "username", username, "role", role)
	return u, um.flush()
}

func (um *JSONUserManager) records() []User {
	records := make([]User, 0, len(um.users))
	for _, u := range um.users {
		r := *u
		r.History = append([]string{}, u.History...)
		records = append(records, r)
	}
	return records
}

// flush expects um.mu to be held.
func (um *JSONUserManager) flush() error {
	records := um.records()
	if err := um.DataManager.Save(um.File, records); err != nil {
		um.Logger.Error("Failed to save users", "file", um.File, "error", err)
		return err
	}
	um.Logger.Debug("Saved users", "file", um.File, "count", len(records))
	return nil
}

package usermanager

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	HashSHA256 = "sha256"
	HashBcrypt = "bcrypt"
)

// Hasher produces password digests for new and rotated passwords.
type Hasher interface {
	Hash(password string) (string, error)
}

// SHA256Hasher produces unsalted hex SHA-256 digests, the format of the accounts document.
type SHA256Hasher struct{}

func (SHA256Hasher) Hash(password string) (string, error) {
	return HashPassword(password), nil
}

type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// NewHasher returns the Hasher registered under name.
func NewHasher(name string) (Hasher, error) {
	switch name {
	case "", HashSHA256:
		return SHA256Hasher{}, nil
	case HashBcrypt:
		return BcryptHasher{}, nil
	default:
		return nil, fmt.Errorf("unsupported password hash: %s", name)
	}
}

// HashPassword returns the hex SHA-256 digest of password.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// VerifyPassword reports whether password matches digest. Bcrypt digests are
// recognised by their prefix, everything else is compared as hex SHA-256.
func VerifyPassword(digest, password string) bool {
	if isBcrypt(digest) {
		return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(digest), []byte(HashPassword(password))) == 1
}

func isBcrypt(digest string) bool {
	return strings.HasPrefix(digest, "$2a$") ||
		strings.HasPrefix(digest, "$2b$") ||
		strings.HasPrefix(digest, "$2y$")
}

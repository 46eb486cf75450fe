package usermanager

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steelcutops/stockkeep/stockkeep/datamanager"
)

const seedUsers = `[
  {"username": "alice", "password_hash": "fcf730b6d95236ecd3c9fc2d92d7b6b2bb061514961aec041d6c7a7192f592e4", "role": "user", "history": ["widget"], "created_at": "2024-05-01T10:00:00.000001"},
  {"username": "root", "password_hash": "8c6976e5b5410415bde908bd4dee15dfb167a9c873fc4bb8a81f6f2ab448a918", "role": "admin", "history": null, "created_at": "2024-05-01T09:00:00"}
]`

func newSeededManager(t *testing.T, seed string, options ...Option) (*JSONUserManager, string) {
	t.Helper()
	dir := t.TempDir()
	if seed != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFile), []byte(seed), 0644))
	}
	um := NewJSONUserManager(datamanager.NewJSONDataManager(dir), options...)
	require.NoError(t, um.LoadUsers())
	return um, dir
}

func TestHashPasswordIsHexSHA256(t *testing.T) {
	assert.Equal(t, "fcf730b6d95236ecd3c9fc2d92d7b6b2bb061514961aec041d6c7a7192f592e4", HashPassword("secret123"))
	assert.Equal(t, HashPassword("x"), HashPassword("x"))
}

func TestLoadUsersTagsRoles(t *testing.T) {
	um, _ := newSeededManager(t, seedUsers)

	users := um.ListUsers()
	require.Len(t, users, 2)
	assert.Equal(t, Role("user"), users[0].Role)
	assert.Equal(t, RoleRegular, users[0].Role.Kind())
	assert.Equal(t, RoleAdmin, users[1].Role.Kind())
	assert.Equal(t, []string{"widget"}, users[0].History)
	assert.Equal(t, []string{}, users[1].History)
	assert.Equal(t, "2024-05-01T09:00:00", users[1].CreatedAt)
}

func TestAuthorize(t *testing.T) {
	um, _ := newSeededManager(t, seedUsers)

	u, err := um.Authorize("alice", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	_, wrongPassword := um.Authorize("alice", "wrong")
	_, unknownUser := um.Authorize("bob", "secret123")
	assert.ErrorIs(t, wrongPassword, ErrAuthorizationFailed)
	assert.ErrorIs(t, unknownUser, ErrAuthorizationFailed)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())

	_, err = um.Authorize("Alice", "secret123")
	assert.ErrorIs(t, err, ErrAuthorizationFailed)
}

func TestAuthorizeFirstMatchWins(t *testing.T) {
	seed := `[
  {"username": "alice", "password_hash": "` + HashPassword("one") + `", "role": "admin", "history": [], "created_at": "a"},
  {"username": "alice", "password_hash": "` + HashPassword("two") + `", "role": "user", "history": [], "created_at": "b"},
  {"username": "alice", "password_hash": "` + HashPassword("two") + `", "role": "admin", "history": [], "created_at": "c"}
]`
	um, _ := newSeededManager(t, seed)

	u, err := um.Authorize("alice", "two")
	require.NoError(t, err)
	assert.Equal(t, "b", u.CreatedAt)
}

func TestRotatePasswordPersists(t *testing.T) {
	um, dir := newSeededManager(t, seedUsers)
	u, err := um.Authorize("alice", "secret123")
	require.NoError(t, err)

	require.NoError(t, um.RotatePassword(u, "hunter2"))
	assert.True(t, um.VerifyPassword(u, "hunter2"))
	assert.False(t, um.VerifyPassword(u, "secret123"))

	reloaded := NewJSONUserManager(datamanager.NewJSONDataManager(dir))
	require.NoError(t, reloaded.LoadUsers())
	_, err = reloaded.Authorize("alice", "hunter2")
	assert.NoError(t, err)
}

func TestAppendHistoryPersists(t *testing.T) {
	um, dir := newSeededManager(t, seedUsers)
	u, err := um.Authorize("alice", "secret123")
	require.NoError(t, err)

	require.NoError(t, um.AppendHistory(u, "gadget"))
	assert.Equal(t, []string{"widget", "gadget"}, um.History(u))

	reloaded := NewJSONUserManager(datamanager.NewJSONDataManager(dir))
	require.NoError(t, reloaded.LoadUsers())
	assert.Equal(t, []string{"widget", "gadget"}, reloaded.ListUsers()[0].History)
}

func TestRecordsRoundTrip(t *testing.T) {
	um, dir := newSeededManager(t, seedUsers)
	before := um.Records()
	require.NoError(t, um.SaveUsers())

	reloaded := NewJSONUserManager(datamanager.NewJSONDataManager(dir))
	require.NoError(t, reloaded.LoadUsers())
	assert.Equal(t, before, reloaded.Records())
}

func TestAddUser(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 30, 0, 123456000, time.UTC)
	um, _ := newSeededManager(t, "", WithClock(func() time.Time { return now }))

	u, err := um.AddUser("carol", "pa55", RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-18T09:30:00.123456", u.CreatedAt)
	assert.Equal(t, HashPassword("pa55"), u.PasswordHash)
	assert.Equal(t, []string{}, u.History)

	_, err = um.AddUser("carol", "other", RoleRegular)
	assert.ErrorIs(t, err, ErrUserExists)
	assert.Len(t, um.ListUsers(), 1)
}

func TestBcryptHasherVerifies(t *testing.T) {
	um, _ := newSeededManager(t, seedUsers, WithHasher(BcryptHasher{Cost: 4}))
	u, err := um.Authorize("alice", "secret123")
	require.NoError(t, err)

	require.NoError(t, um.RotatePassword(u, "hunter2"))
	assert.True(t, isBcrypt(u.PasswordHash))

	_, err = um.Authorize("alice", "hunter2")
	assert.NoError(t, err)
	_, err = um.Authorize("alice", "secret123")
	assert.ErrorIs(t, err, ErrAuthorizationFailed)
}

func TestNewHasher(t *testing.T) {
	h, err := NewHasher("")
	require.NoError(t, err)
	assert.IsType(t, SHA256Hasher{}, h)

	h, err = NewHasher("bcrypt")
	require.NoError(t, err)
	assert.IsType(t, BcryptHasher{}, h)

	_, err = NewHasher("md5")
	assert.Error(t, err)
}

func TestSaveUsersKeepsStoredRole(t *testing.T) {
	seed := `[
  {"username": "alice", "password_hash": "` + HashPassword("secret123") + `", "role": "user", "history": [], "created_at": "a"},
  {"username": "bob", "password_hash": "` + HashPassword("pw") + `", "role": "", "history": [], "created_at": "b"},
  {"username": "root", "password_hash": "` + HashPassword("toor") + `", "role": "admin", "history": [], "created_at": "c"}
]`
	um, dir := newSeededManager(t, seed)
	require.NoError(t, um.SaveUsers())

	content, err := os.ReadFile(filepath.Join(dir, DefaultFile))
	require.NoError(t, err)
	var stored []map[string]interface{}
	require.NoError(t, json.Unmarshal(content, &stored))
	require.Len(t, stored, 3)
	assert.Equal(t, "user", stored[0]["role"])
	assert.Equal(t, "", stored[1]["role"])
	assert.Equal(t, "admin", stored[2]["role"])
}

func TestRoleKind(t *testing.T) {
	assert.Equal(t, RoleAdmin, Role("admin").Kind())
	for _, r := range []Role{"regular", "user", "", "Admin"} {
		assert.Equal(t, RoleRegular, r.Kind(), string(r))
	}
}

package services

import (
	"testing"
	"time"

	"law_desk_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testPassword = "Office-Pass-2026"

func createTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user, err := CreateUser(db, "Maître Bennani", "Office@Example.com ", testPassword)
	require.NoError(t, err)
	return user
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword(testPassword)
	require.NoError(t, err)
	assert.NotEqual(t, testPassword, hash)
	assert.True(t, VerifyPassword(hash, testPassword))
	assert.False(t, VerifyPassword(hash, "WrongPass"))
}

func TestCreateUser(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	assert.Equal(t, "office@example.com", user.Email)
	assert.True(t, user.IsActive)

	_, err := CreateUser(db, "Other", "office@example.com", testPassword)
	requireFieldError(t, err, "email")

	_, err = CreateUser(db, "", "bad", "short")
	requireFieldError(t, err, "name", "email", "password")
}

func TestAuthenticate_Lockout(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	_, err := Authenticate(db, "nobody@example.com", testPassword, now)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	for i := 0; i < MaxFailedLogins; i++ {
		_, err := Authenticate(db, "office@example.com", "wrong-password", now)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}

	_, err = Authenticate(db, "office@example.com", testPassword, now.Add(time.Minute))
	assert.ErrorIs(t, err, ErrAccountLocked, "correct password is refused while locked")

	user, err := Authenticate(db, " OFFICE@example.com", testPassword, now.Add(LockoutDuration+time.Second))
	require.NoError(t, err)
	assert.Nil(t, user.LockoutUntil)
	assert.Zero(t, user.FailedLoginAttempts)
	require.NotNil(t, user.LastLoginAt)
}

func TestAuthenticate_Inactive(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	require.NoError(t, db.Model(user).Update("is_active", false).Error)

	_, err := Authenticate(db, user.Email, testPassword, time.Now())
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestSessionLifecycle(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)

	session, err := CreateSession(db, user.ID, "127.0.0.1", "TestAgent")
	require.NoError(t, err)
	assert.Len(t, session.Token, SessionTokenLength*2)
	assert.WithinDuration(t, time.Now().Add(DefaultSessionDuration), session.ExpiresAt, 10*time.Second)

	valid, err := ValidateSession(db, session.Token)
	require.NoError(t, err)
	assert.Equal(t, user.Email, valid.User.Email)

	_, err = ValidateSession(db, "invalid-token")
	assert.ErrorIs(t, err, ErrSessionInvalid)

	require.NoError(t, DeleteSession(db, session.Token))
	_, err = ValidateSession(db, session.Token)
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestSessionExpiry(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)

	expired := &models.Session{ID: "s-expired", UserID: user.ID, Token: "expired-token", ExpiresAt: time.Now().Add(-time.Hour)}
	live := &models.Session{ID: "s-live", UserID: user.ID, Token: "live-token", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, db.Create(expired).Error)
	require.NoError(t, db.Create(live).Error)

	n, err := CleanupExpiredSessions(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	session, err := ValidateSession(db, "live-token")
	require.NoError(t, err)
	// close to expiry, so it was pushed out a full session length
	assert.WithinDuration(t, time.Now().Add(DefaultSessionDuration), session.ExpiresAt, time.Minute)

	var stored models.Session
	require.NoError(t, db.First(&stored, "id = ?", "s-live").Error)
	assert.WithinDuration(t, session.ExpiresAt, stored.ExpiresAt, time.Second)
}

func TestChangePassword(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	current, err := CreateSession(db, user.ID, "", "")
	require.NoError(t, err)
	other, err := CreateSession(db, user.ID, "", "")
	require.NoError(t, err)

	err = ChangePassword(db, user.ID, "not-it", "short", current.Token)
	requireFieldError(t, err, "current_password", "new_password")

	require.NoError(t, ChangePassword(db, user.ID, testPassword, "New-Office-Pass-1", current.Token))

	_, err = ValidateSession(db, current.Token)
	assert.NoError(t, err, "the session that changed the password stays")
	_, err = ValidateSession(db, other.Token)
	assert.ErrorIs(t, err, ErrSessionInvalid)

	_, err = Authenticate(db, user.Email, "New-Office-Pass-1", time.Now())
	assert.NoError(t, err)

	assert.ErrorIs(t, ChangePassword(db, "missing", "a", "b", ""), ErrNotFound)
}

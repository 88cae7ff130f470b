package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"law_desk_app_go/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing
	BcryptCost = 10
	// SessionTokenLength is the length of the session token in bytes (64 chars hex)
	SessionTokenLength = 32
	// DefaultSessionDuration is the default session duration (7 days)
	DefaultSessionDuration = 7 * 24 * time.Hour
	// MaxFailedLogins locks the account once reached
	MaxFailedLogins = 5
	// LockoutDuration is how long a locked account refuses logins
	LockoutDuration = 15 * time.Minute
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account is locked, try again later")
	ErrAccountInactive    = errors.New("account has been deactivated")
	ErrSessionInvalid     = errors.New("session not found or expired")
)

// dummyHash keeps unknown-email logins as slow as real ones
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy_password_for_timing_mitigation"), BcryptCost)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// VerifyPassword verifies a password against a bcrypt hash
func VerifyPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// GenerateSessionToken generates a cryptographically secure random token
func GenerateSessionToken() (string, error) {
	bytes := make([]byte, SessionTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// CreateUser adds an office account after checking the password policy
func CreateUser(db *gorm.DB, name, email, password string) (*models.User, error) {
	verr := &ValidationError{}
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		verr.Add("name", "الاسم مطلوب")
	}
	if !validEmail(email) {
		verr.Add("email", "البريد الإلكتروني غير صالح")
	}
	if err := ValidatePassword(password); err != nil {
		verr.Add("password", err.Error())
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		verr.Add("email", "البريد الإلكتروني مستخدم بالفعل")
		return nil, verr
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{Name: name, Email: email, Password: hash, IsActive: true}
	if err := db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Authenticate checks credentials and applies the failed-login lockout.
// Unknown emails still pay for a bcrypt comparison.
func Authenticate(db *gorm.DB, email, password string, now time.Time) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if user.IsLocked(now) {
		LogSecurityEvent("LOGIN_LOCKED", user.ID, "login refused while locked")
		return nil, ErrAccountLocked
	}

	if !VerifyPassword(user.Password, password) {
		user.FailedLoginAttempts++
		if user.FailedLoginAttempts >= MaxFailedLogins {
			until := now.Add(LockoutDuration)
			user.LockoutUntil = &until
			user.FailedLoginAttempts = 0
			LogSecurityEvent("ACCOUNT_LOCKED", user.ID, fmt.Sprintf("%d failed logins", MaxFailedLogins))
		}
		if err := db.Save(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to record login failure: %w", err)
		}
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	user.FailedLoginAttempts = 0
	user.LockoutUntil = nil
	user.LastLoginAt = &now
	if err := db.Save(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return &user, nil
}

// ChangePassword replaces the password after verifying the current one and
// drops every other session of the user
func ChangePassword(db *gorm.DB, userID, current, next, keepToken string) error {
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return notFound(err, "user")
	}

	verr := &ValidationError{}
	if !VerifyPassword(user.Password, current) {
		verr.Add("current_password", "كلمة المرور الحالية غير صحيحة")
	}
	if err := ValidatePassword(next); err != nil {
		verr.Add("new_password", err.Error())
	}
	if err := verr.Err(); err != nil {
		return err
	}

	hash, err := HashPassword(next)
	if err != nil {
		return err
	}
	if err := db.Model(&user).Update("password", hash).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	res := db.Where("user_id = ? AND token <> ?", userID, keepToken).Delete(&models.Session{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete user sessions: %w", res.Error)
	}
	LogSecurityEvent("PASSWORD_CHANGED", userID, fmt.Sprintf("%d other sessions closed", res.RowsAffected))
	return nil
}

// CreateSession creates a new session for a user
func CreateSession(db *gorm.DB, userID, ipAddress, userAgent string) (*models.Session, error) {
	token, err := GenerateSessionToken()
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().Add(DefaultSessionDuration),
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}

	if err := db.Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// ValidateSession validates a session token and returns the session if valid
func ValidateSession(db *gorm.DB, token string) (*models.Session, error) {
	var session models.Session

	err := db.Preload("User").Where("token = ?", token).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, fmt.Errorf("failed to validate session: %w", err)
	}

	now := time.Now()
	if session.ExpiredAt(now) {
		db.Delete(&session)
		return nil, ErrSessionInvalid
	}

	// an office working daily stays signed in
	if session.NeedsRenewal(now, DefaultSessionDuration) {
		expires := now.Add(DefaultSessionDuration)
		if err := db.Model(&session).Update("expires_at", expires).Error; err != nil {
			log.Printf("[WARNING] Failed to renew session %s: %v", session.ID, err)
		} else {
			session.ExpiresAt = expires
		}
	}

	return &session, nil
}

// DeleteSession deletes a session (logout)
func DeleteSession(db *gorm.DB, token string) error {
	result := db.Where("token = ?", token).Delete(&models.Session{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete session: %w", result.Error)
	}
	return nil
}

// CleanupExpiredSessions removes all expired sessions from the database
func CleanupExpiredSessions(db *gorm.DB) (int64, error) {
	result := db.Where("expires_at < ?", time.Now()).Delete(&models.Session{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to cleanup expired sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// LogSecurityEvent logs security-related events
func LogSecurityEvent(eventType, userID, details string) {
	log.Printf("[SECURITY] %s | User: %s | Details: %s", eventType, userID, details)
}

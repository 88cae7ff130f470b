package models

import "time"

// Session is one signed-in browser of the office account
type Session struct {
	ID        string    `gorm:"primarykey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID    string    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Token     string    `gorm:"uniqueIndex;not null;type:varchar(128)" json:"-"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	IPAddress string    `gorm:"type:varchar(45)" json:"ip_address"`
	UserAgent string    `gorm:"type:text" json:"user_agent"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Session) TableName() string {
	return "sessions"
}

// ExpiredAt reports whether the session is no longer valid at now
func (s *Session) ExpiredAt(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

func (s *Session) IsExpired() bool {
	return s.ExpiredAt(time.Now())
}

// NeedsRenewal is true once less than half of ttl remains
func (s *Session) NeedsRenewal(now time.Time, ttl time.Duration) bool {
	return !s.ExpiredAt(now) && s.ExpiresAt.Sub(now) < ttl/2
}

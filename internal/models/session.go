package models

import "time"

// Session stores admin login sessions (for logout and invalidation).
type Session struct {
	ID        string    `gorm:"primaryKey;size:64"` // UUID, also the token's jti
	ExpiresAt time.Time `gorm:"index;not null"`
	Revoked   bool      `gorm:"index;not null"`
	ClientIP  string    `gorm:"size:64"`
	CreatedAt time.Time
}

// Active reports whether the session can still authorize requests.
func (s *Session) Active(now time.Time) bool {
	return !s.Revoked && now.Before(s.ExpiresAt)
}

package domain

import "time"

// Session is a server-side login session. The browser only ever holds a
// signed token naming the session ID; revoking the row kills the login.
type Session struct {
	ID        string    `gorm:"column:id;primaryKey"`
	UserID    int64     `gorm:"column:user_id;index"`
	CSRFToken string    `gorm:"column:csrf_token"`
	ExpiresAt time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (Session) TableName() string { return "sessions" }

func (s Session) Expired(now time.Time) bool { return now.After(s.ExpiresAt) }

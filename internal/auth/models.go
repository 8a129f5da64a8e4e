package auth

import (
	"time"

	"github.com/lib/pq"
)

// Session is the server-side copy of a platform login. The bearer token
// issued by the platform is the durable credential; everything else is
// derived from its claims at login time.
type Session struct {
	SessionID string         `gorm:"primaryKey" json:"-"`
	UserID    int            `gorm:"not null;uniqueIndex" json:"user_id"`
	EventID   int            `gorm:"not null" json:"event_id"`
	Login     string         `json:"login"`
	Roles     pq.StringArray `gorm:"type:text[]" json:"-"`
	Token     string         `gorm:"not null" json:"-"`
	ExpiresAt time.Time      `gorm:"not null" json:"-"`
	CreatedAt time.Time      `json:"-"`
}

func (Session) TableName() string { return "app_auth.sessions" }

// LoginRequest is the credential pair posted to /auth/login.
// Remember controls the remembered-username cookie.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

// LoginResponse mirrors the original dashboard's auth route shape.
type LoginResponse struct {
	Token   string `json:"token,omitempty"`
	Message string `json:"message"`
}

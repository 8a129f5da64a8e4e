package auth

import (
	"fmt"
	"time"

	"github.com/RebootDash/RD-Backend/internal/db"
	"github.com/RebootDash/RD-Backend/internal/utils"
)

// SessionInfo implements middleware.SessionStore against the database.
type SessionInfo struct{}

// FindSessionByID loads a stored session and re-validates its persisted
// token. A session whose token no longer decodes is destroyed on the
// spot and reported as an error; it must never count as authenticated.
func (si SessionInfo) FindSessionByID(id string) (utils.SessionData, error) {
	var session Session

	err := db.DB.First(&session, "session_id = ?", id).Error
	if err != nil {
		return utils.SessionData{}, err
	}

	if _, err := DecodeToken(session.Token); err != nil {
		_ = db.DB.Delete(&Session{}, "session_id = ?", id).Error
		return utils.SessionData{}, fmt.Errorf("stored session %s: %w", id, err)
	}

	return utils.SessionData{
		SessionID: session.SessionID,
		UserID:    session.UserID,
		EventID:   session.EventID,
		Login:     session.Login,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// DestroySession deletes the stored session, and with it the persisted
// token. Deleting an already-deleted session is not an error.
func (si SessionInfo) DestroySession(id string) error {
	return db.DB.Delete(&Session{}, "session_id = ?", id).Error
}

// ActiveSessions returns every session that has not yet expired. The
// profile poller refreshes snapshots for exactly this set.
func ActiveSessions() ([]Session, error) {
	var sessions []Session
	err := db.DB.Where("expires_at > ?", time.Now()).Find(&sessions).Error
	return sessions, err
}

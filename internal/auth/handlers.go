package auth

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/RebootDash/RD-Backend/internal/db"
	"github.com/RebootDash/RD-Backend/internal/middleware"
	"github.com/RebootDash/RD-Backend/internal/utils"
	"github.com/google/uuid"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// LoginHandler exchanges posted credentials for a platform bearer token,
// decodes the token's claims, and persists the session. The response
// body carries the token so browser clients can keep their own copy.
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, LoginResponse{Message: "Invalid request format"})
		return
	}
	if req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, LoginResponse{Message: "Username and password are required"})
		return
	}

	token, err := exchanger.Exchange(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrAuthFailed) {
			writeJSON(w, http.StatusUnauthorized, LoginResponse{Message: "Authentication failed"})
			return
		}
		log.Printf("[auth] signin exchange: %v", err)
		writeJSON(w, http.StatusInternalServerError, LoginResponse{Message: "Internal server error"})
		return
	}

	claims, err := DecodeToken(token)
	if err != nil {
		// The platform answered 200 with a token we cannot read. That is
		// a service anomaly, not a credential problem. Nothing persists.
		log.Printf("[auth] undecodable token from platform: %v", err)
		writeJSON(w, http.StatusInternalServerError, LoginResponse{Message: "Internal server error"})
		return
	}

	session := Session{
		SessionID: uuid.New().String(),
		UserID:    claims.UserID,
		EventID:   claims.EventID,
		Login:     claims.Login,
		Roles:     claims.AllowedRoles,
		Token:     token,
		ExpiresAt: time.Unix(claims.ExpiresAt, 0),
	}

	// One session per user: replace any previous login wholesale.
	var existing Session
	if err := db.DB.First(&existing, "user_id = ?", claims.UserID).Error; err == nil {
		err = db.DB.Model(&existing).Updates(map[string]any{
			"session_id": session.SessionID,
			"event_id":   session.EventID,
			"login":      session.Login,
			"roles":      session.Roles,
			"token":      session.Token,
			"expires_at": session.ExpiresAt,
		}).Error
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, LoginResponse{Message: "Internal server error"})
			return
		}
	} else if err := db.DB.Create(&session).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, LoginResponse{Message: "Internal server error"})
		return
	}

	setSessionCookies(w, session)

	if req.Remember {
		http.SetCookie(w, &http.Cookie{
			Name:     middleware.RememberCookie,
			Value:    url.QueryEscape(req.Username),
			Path:     "/",
			MaxAge:   int((30 * 24 * time.Hour).Seconds()),
			SameSite: http.SameSiteLaxMode,
			Secure:   secureCookies,
		})
	} else {
		http.SetCookie(w, &http.Cookie{
			Name:   middleware.RememberCookie,
			Value:  "",
			Path:   "/",
			MaxAge: -1,
		})
	}

	writeJSON(w, http.StatusOK, LoginResponse{Token: token, Message: "Authentication successful"})
}

// setSessionCookies sets the session id plus an auth_token mirror of the
// bearer token for same-site consumers, matching the original dashboard.
func setSessionCookies(w http.ResponseWriter, session Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session.SessionID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secureCookies,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		SameSite: http.SameSiteStrictMode,
		Secure:   secureCookies,
	})
}

// LogoutHandler deletes the stored session and expires the cookies.
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := utils.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, "Not signed in", http.StatusUnauthorized)
		return
	}

	if err := (SessionInfo{}).DestroySession(session.SessionID); err != nil {
		writeJSON(w, http.StatusInternalServerError, LoginResponse{Message: "Internal server error"})
		return
	}

	middleware.ClearSessionCookies(w)
	writeJSON(w, http.StatusOK, LoginResponse{Message: "Logout successful"})
}

// MeResponse is the session introspection shape.
type MeResponse struct {
	UserID    int       `json:"user_id"`
	EventID   int       `json:"event_id"`
	Login     string    `json:"login"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MeHandler reports who the current session belongs to.
func MeHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := utils.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, "Not signed in", http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, MeResponse{
		UserID:    session.UserID,
		EventID:   session.EventID,
		Login:     session.Login,
		ExpiresAt: session.ExpiresAt,
	})
}

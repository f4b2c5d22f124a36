package auth

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"Aging43B/internal/logger"
	"Aging43B/internal/serviceiface"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserSession struct {
	SessionID     string `json:"session_id"`
	Username      string `json:"username"`
	LastLoginTime string `json:"last_login_time"`
	ClientIP      string `json:"client_ip"`
	IsLoggedIn    bool   `json:"is_logged_in"`

	lastSeen time.Time
}

type AuthService struct {
	store      UserStore
	maxUsers   int
	idleExpiry time.Duration
	users      map[string]*UserSession
	mu         sync.Mutex
	stopCh     chan struct{}
}

func NewAuthService(store UserStore, maxUsers int, idleMinutes int) serviceiface.Service {
	if maxUsers <= 0 {
		maxUsers = 100
	}
	if idleMinutes <= 0 {
		idleMinutes = 120
	}
	return &AuthService{
		store:      store,
		maxUsers:   maxUsers,
		idleExpiry: time.Duration(idleMinutes) * time.Minute,
		users:      make(map[string]*UserSession),
		stopCh:     make(chan struct{}),
	}
}

func (a *AuthService) Name() string { return "auth" }

func (a *AuthService) Start() error {
	go a.sessionCleaner()
	return nil
}

func (a *AuthService) Stop() error {
	close(a.stopCh)
	return nil
}

// VerifyCredentials checks a username/password pair against the user
// store. A stored hash with the bcrypt "$2" prefix is compared with
// bcrypt, anything else as plaintext. An expiry date in the past fails
// the check even when the password matches.
func (a *AuthService) VerifyCredentials(username, password string) (bool, string) {
	cred, found, err := a.store.Lookup(username)
	if err != nil {
		return false, "Auth error: " + err.Error()
	}
	if !found {
		return false, "Invalid username or password"
	}
	if cred.Password == "" {
		return false, "No password set for this user"
	}
	if strings.HasPrefix(cred.Password, "$2") {
		if bcrypt.CompareHashAndPassword([]byte(cred.Password), []byte(password)) != nil {
			return false, "Invalid username or password"
		}
	} else if password != cred.Password {
		return false, "Invalid username or password"
	}
	if cred.Expiry != "" {
		expDate, err := time.Parse("2006-01-02", cred.Expiry)
		if err != nil {
			return false, "Auth error: bad expiry date for user"
		}
		today := time.Now().Truncate(24 * time.Hour)
		if expDate.Before(today) {
			return false, "Subscription expired"
		}
	}
	return true, ""
}

func (a *AuthService) Login(username, password, clientIP string) (*UserSession, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, session := range a.users {
		if session.Username == username && session.IsLoggedIn {
			session.LastLoginTime = time.Now().Format(time.RFC3339)
			session.ClientIP = clientIP
			session.lastSeen = time.Now()
			if logger.GlobalLogger != nil {
				logger.GlobalLogger.LogAudit(fmt.Sprintf("User %s re-logged in, returning existing session", username))
			}
			return session, nil
		}
	}

	if len(a.users) >= a.maxUsers {
		return nil, errors.New("maximum concurrent users reached")
	}

	ok, reason := a.VerifyCredentials(username, password)
	if !ok {
		return nil, errors.New(reason)
	}

	session := &UserSession{
		SessionID:     uuid.New().String(),
		Username:      username,
		LastLoginTime: time.Now().Format(time.RFC3339),
		ClientIP:      clientIP,
		IsLoggedIn:    true,
		lastSeen:      time.Now(),
	}
	a.users[session.SessionID] = session

	if logger.GlobalLogger != nil {
		logger.GlobalLogger.LogAudit("User logged in: " + username)
	}
	return session, nil
}

func (a *AuthService) Logout(sessionID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	session, exists := a.users[sessionID]
	if !exists {
		return errors.New("session not found")
	}
	delete(a.users, sessionID)

	if logger.GlobalLogger != nil {
		logger.GlobalLogger.LogAudit("User logged out: " + session.Username)
	}
	return nil
}

func (a *AuthService) GetActiveSessions() []*UserSession {
	a.mu.Lock()
	defer a.mu.Unlock()
	sessions := make([]*UserSession, 0, len(a.users))
	for _, s := range a.users {
		sessions = append(sessions, s)
	}
	return sessions
}

// Touch refreshes a session's idle clock. Handlers call it when a
// request arrives carrying the session's username.
func (a *AuthService) Touch(username string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, s := range a.users {
		if s.Username == username {
			s.lastSeen = time.Now()
		}
	}
}

// PurgeIdle drops sessions idle for longer than the configured window.
func (a *AuthService) PurgeIdle() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	cutoff := time.Now().Add(-a.idleExpiry)
	removed := 0
	for id, s := range a.users {
		if s.lastSeen.Before(cutoff) {
			delete(a.users, id)
			removed++
		}
	}
	return removed
}

func (a *AuthService) sessionCleaner() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-a.stopCh:
			return
		case <-ticker.C:
			if n := a.PurgeIdle(); n > 0 && logger.GlobalLogger != nil {
				logger.GlobalLogger.LogAudit(fmt.Sprintf("Session cleaner removed %d idle sessions", n))
			}
		}
	}
}

var globalAuthService *AuthService

// SetGlobalAuthService sets the global AuthService instance
func SetGlobalAuthService(svc *AuthService) {
	globalAuthService = svc
}

// GetActiveSessions returns active sessions from the global AuthService
func GetActiveSessions() []*UserSession {
	if globalAuthService == nil {
		return nil
	}
	return globalAuthService.GetActiveSessions()
}

// PurgeIdleSessions runs idle cleanup on the global AuthService.
func PurgeIdleSessions() int {
	if globalAuthService == nil {
		return 0
	}
	return globalAuthService.PurgeIdle()
}

package aging

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Workspace holds one user's in-flight data between upload and export.
// Nothing here outlives the retention window; the cron service purges
// stale entries.
type Workspace struct {
	ID        string
	UserID    string
	Ledger    []Transaction
	Parties   []string
	Msme      []MsmeRow
	Cutoff    time.Time
	Result    *Result
	UpdatedAt time.Time
}

// WorkspaceStore is the in-memory replacement for the UI session state
// of the surrounding application: one workspace per user, guarded by a
// mutex, with TTL-based purging.
type WorkspaceStore struct {
	mu     sync.Mutex
	byUser map[string]*Workspace
}

func NewWorkspaceStore() *WorkspaceStore {
	return &WorkspaceStore{byUser: make(map[string]*Workspace)}
}

func (s *WorkspaceStore) ensure(userID string) *Workspace {
	ws, ok := s.byUser[userID]
	if !ok {
		ws = &Workspace{ID: uuid.New().String(), UserID: userID}
		s.byUser[userID] = ws
	}
	return ws
}

func (s *WorkspaceStore) SetLedger(userID string, txns []Transaction) *Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws := s.ensure(userID)
	ws.Ledger = txns
	ws.Parties = Parties(txns)
	ws.Result = nil
	ws.UpdatedAt = time.Now()
	return ws
}

func (s *WorkspaceStore) SetMsme(userID string, rows []MsmeRow) *Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws := s.ensure(userID)
	ws.Msme = rows
	ws.Result = nil
	ws.UpdatedAt = time.Now()
	return ws
}

func (s *WorkspaceStore) SetResult(userID string, cutoff time.Time, res *Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws := s.ensure(userID)
	ws.Cutoff = cutoff
	ws.Result = res
	ws.UpdatedAt = time.Now()
}

// Get returns the user's workspace, or nil when none exists.
func (s *WorkspaceStore) Get(userID string) *Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byUser[userID]
}

// PurgeExpired drops workspaces untouched for longer than maxAge and
// returns how many were removed.
func (s *WorkspaceStore) PurgeExpired(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for user, ws := range s.byUser {
		if ws.UpdatedAt.Before(cutoff) {
			delete(s.byUser, user)
			removed++
		}
	}
	return removed
}

// DefaultStore backs the HTTP handlers and the purge job.
var DefaultStore = NewWorkspaceStore()

package auth

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
)

// Credential is one user's stored secret. Password is either a bcrypt
// hash (prefix "$2") or plaintext; Expiry, when set, is a YYYY-MM-DD
// subscription end date.
type Credential struct {
	Password string `json:"password"`
	Expiry   string `json:"expiry,omitempty"`
}

// UserStore resolves a username to its stored credential.
type UserStore interface {
	Lookup(username string) (Credential, bool, error)
}

// FileUserStore reads users from a JSON file. Two shapes are accepted
// per user: a bare password string, or {"password":..., "expiry":...}.
type FileUserStore struct {
	path string
}

func NewFileUserStore(path string) *FileUserStore {
	return &FileUserStore{path: path}
}

func (s *FileUserStore) Lookup(username string) (Credential, bool, error) {
	users, err := s.load()
	if err != nil {
		return Credential{}, false, err
	}
	cred, ok := users[username]
	return cred, ok, nil
}

func (s *FileUserStore) load() (map[string]Credential, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Credential{}, nil
		}
		return nil, fmt.Errorf("read users file: %w", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse users file: %w", err)
	}
	users := make(map[string]Credential, len(raw))
	for name, entry := range raw {
		var pw string
		if err := json.Unmarshal(entry, &pw); err == nil {
			users[name] = Credential{Password: pw}
			continue
		}
		var cred Credential
		if err := json.Unmarshal(entry, &cred); err != nil {
			return nil, fmt.Errorf("user %s: unsupported entry shape", name)
		}
		users[name] = cred
	}
	return users, nil
}

// DBUserStore reads credentials from a Postgres users table.
type DBUserStore struct {
	db *sql.DB
}

func NewDBUserStore(db *sql.DB) *DBUserStore {
	return &DBUserStore{db: db}
}

func (s *DBUserStore) Lookup(username string) (Credential, bool, error) {
	var password string
	var expiry sql.NullString
	err := s.db.QueryRow(
		`SELECT password, expiry FROM users WHERE username = $1`,
		username,
	).Scan(&password, &expiry)
	if err == sql.ErrNoRows {
		return Credential{}, false, nil
	}
	if err != nil {
		return Credential{}, false, err
	}
	return Credential{Password: password, Expiry: expiry.String}, true, nil
}

package session

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/civicai/civic-client/internal/domain"
	"github.com/civicai/civic-client/pkg/logger"
)

// Schema holds at most one row: the active identity. Safe to apply multiple
// times - uses IF NOT EXISTS.
const schema = `
CREATE TABLE IF NOT EXISTS session (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    role TEXT NOT NULL CHECK (role IN ('citizen', 'admin'))
);
`

// Store caches the authenticated identity for the session lifetime and
// persists it so it survives process restarts. It performs no network calls;
// it only stores what the login collaborator returned.
type Store struct {
	mu       sync.RWMutex
	db       *sql.DB
	identity *domain.Identity
	log      *logger.Logger
}

// Open opens (or creates) the session store at path and restores any
// previously persisted identity.
func Open(path string, log *logger.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create session schema: %w", err)
	}

	s := &Store{db: db, log: log.WithComponent("session")}

	row := db.QueryRow(`SELECT name, email, role FROM session WHERE id = 1`)
	var ident domain.Identity
	switch err := row.Scan(&ident.Name, &ident.Email, &ident.Role); err {
	case nil:
		s.identity = &ident
		s.log.Debug().Str("email", ident.Email).Msg("restored persisted session")
	case sql.ErrNoRows:
		// no active session
	default:
		db.Close()
		return nil, fmt.Errorf("restore session: %w", err)
	}

	return s, nil
}

// Login persists the identity for the session lifetime. Idempotent: a second
// login replaces the first (last write wins).
func (s *Store) Login(ident domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO session (id, name, email, role) VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, email = excluded.email, role = excluded.role`,
		ident.Name, ident.Email, string(ident.Role))
	if err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	s.identity = &ident
	s.log.Info().Str("email", ident.Email).Str("role", string(ident.Role)).Msg("session started")
	return nil
}

// Current returns the active identity, or false when unauthenticated.
// Synchronous: reads the in-memory cache, never the disk.
func (s *Store) Current() (domain.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return domain.Identity{}, false
	}
	return *s.identity, true
}

// Logout clears the identity unconditionally. The caller is expected to
// navigate back to the unauthenticated entry screen afterwards.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM session WHERE id = 1`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.identity = nil
	s.log.Info().Msg("session cleared")
	return nil
}

// Close releases the underlying store. The persisted identity is kept.
func (s *Store) Close() error {
	return s.db.Close()
}

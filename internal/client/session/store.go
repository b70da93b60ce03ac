package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/repowatch/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/repowatch/internal/dbx"
	"github.com/dmitrijs2005/repowatch/internal/logging"
)

// Persisted keys. They are always written and removed together.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Session is a point-in-time copy of the store's state.
type Session struct {
	Token             string
	Identity          *Identity
	FirstLoginPending bool
}

// Present reports whether the snapshot holds an authenticated session.
func (s Session) Present() bool {
	return s.Token != "" && s.Identity != nil
}

// Store holds the current session in memory and writes it through to the
// metadata table.
type Store struct {
	db  *sql.DB
	log logging.Logger

	mu                sync.RWMutex
	token             string
	identity          *Identity
	firstLoginPending bool
}

// NewStore returns an empty store. Call Load before reading from it.
func NewStore(db *sql.DB, log logging.Logger) *Store {
	return &Store{db: db, log: log.With("component", "session")}
}

// Load restores the persisted session. Missing, partial or corrupt data
// leaves the store empty; leftover keys are removed so storage agrees with
// memory. Load never fails: an unreadable session is just no session.
func (s *Store) Load(ctx context.Context) {
	repo := metadata.NewSQLiteRepository(s.db)

	values, err := repo.GetMany(ctx, KeyToken, KeyUser)
	if err != nil {
		s.log.Warn(ctx, "cannot read persisted session", "error", err)
		s.reset()
		return
	}

	rawToken, hasToken := values[KeyToken]
	rawUser, hasUser := values[KeyUser]
	if !hasToken && !hasUser {
		s.reset()
		return
	}

	token := string(rawToken)
	identity, err := ParseIdentity(rawUser)
	if token == "" || err != nil {
		s.log.Warn(ctx, "discarding malformed persisted session",
			"has_token", token != "", "has_user", hasUser, "error", err)
		s.reset()
		if derr := repo.Delete(ctx, KeyToken, KeyUser); derr != nil {
			s.log.Warn(ctx, "cannot remove malformed session", "error", derr)
		}
		return
	}

	s.mu.Lock()
	s.token = token
	s.identity = identity
	s.firstLoginPending = false
	s.mu.Unlock()

	s.log.Info(ctx, "session restored", "user", identity.Username)
}

// Set stores token and identity in one transaction and only then swaps the
// in-memory pair. On error nothing changes. The first-login flag is reset.
func (s *Store) Set(ctx context.Context, token string, identity *Identity) error {
	if token == "" {
		return ErrEmptyToken
	}
	if identity == nil {
		return ErrNilIdentity
	}

	user, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, KeyToken, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, KeyUser, user)
	})
	if err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	s.mu.Lock()
	s.token = token
	s.identity = identity.Clone()
	s.firstLoginPending = false
	s.mu.Unlock()
	return nil
}

// Clear drops the in-memory session, then deletes both persisted keys.
// Clearing an empty store succeeds. A storage error is returned, but memory
// is empty either way.
func (s *Store) Clear(ctx context.Context) error {
	s.reset()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return metadata.NewSQLiteRepository(tx).Delete(ctx, KeyToken, KeyUser)
	})
	if err != nil {
		return fmt.Errorf("remove persisted session: %w", err)
	}
	return nil
}

func (s *Store) reset() {
	s.mu.Lock()
	s.token = ""
	s.identity = nil
	s.firstLoginPending = false
	s.mu.Unlock()
}

func (s *Store) IsPresent() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Identity returns a copy of the current identity, or nil.
func (s *Store) Identity() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity.Clone()
}

func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Session{
		Token:             s.token,
		Identity:          s.identity.Clone(),
		FirstLoginPending: s.firstLoginPending,
	}
}

func (s *Store) FirstLoginPending() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.firstLoginPending
}

// SetFirstLoginPending changes the onboarding flag of the current session.
// It fails with ErrNoSession when nobody is logged in.
func (s *Store) SetFirstLoginPending(pending bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return ErrNoSession
	}
	s.firstLoginPending = pending
	return nil
}

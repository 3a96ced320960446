// Package identity is the process-wide session cache. It replaces the ad hoc
// per-screen reads of the platform key-value storage with one store that owns
// the {user, role, accessToken} triple: screens read it through Current and
// react to login/logout through the event bus instead of refetching.
package identity

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	_ "modernc.org/sqlite"

	"github.com/TalelKhemiri/GoCodeMobile/internal/domain"
	"github.com/TalelKhemiri/GoCodeMobile/internal/event"
)

// Storage keys, matching the entries the client has always persisted.
const (
	keyUser  = "user"
	keyRole  = "role"
	keyToken = "accessToken"
)

type Config struct {
	// Path of the sqlite file backing the cache.
	Path string
	// EventBus receives signed-in/signed-out events on Save and Clear.
	EventBus *event.Bus
}

type Store struct {
	db *sql.DB
	eb *event.Bus

	mu     sync.RWMutex
	cur    domain.Account
	signed bool
}

// Open opens (or creates) the cache and loads the persisted account, if any.
func Open(c Config) (*Store, error) {
	db, err := sql.Open("sqlite", c.Path)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS kv (key TEXT PRIMARY KEY, value TEXT NOT NULL);`
	if _, err := db.Exec(schema); err != nil {
		return nil, stderrors.Join(fmt.Errorf("init storage: %w", err), db.Close())
	}

	s := &Store{db: db, eb: c.EventBus}
	if err := s.load(); err != nil {
		return nil, stderrors.Join(err, db.Close())
	}

	return s, nil
}

func (s *Store) load() error {
	rows, err := s.db.Query(`SELECT key, value FROM kv WHERE key IN (?, ?, ?)`, keyUser, keyRole, keyToken)
	if err != nil {
		return fmt.Errorf("load account: %w", err)
	}
	defer rows.Close()

	var acc domain.Account
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return fmt.Errorf("load account: %w", err)
		}
		switch k {
		case keyUser:
			acc.User = v
		case keyRole:
			acc.Role = v
		case keyToken:
			acc.AccessToken = v
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load account: %w", err)
	}

	if acc.User != "" {
		s.cur, s.signed = acc, true
	}

	return nil
}

// Current returns the cached account. The second result is false when no one
// is signed in.
func (s *Store) Current() (domain.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cur, s.signed
}

// Token returns the cached bearer token, empty when signed out. Implements
// the API client's token source.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cur.AccessToken
}

// Save persists the account and announces the sign-in. Readers observe either
// the previous account or the new one, never a mix.
func (s *Store) Save(ctx context.Context, acc domain.Account) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save account: %w", err)
	}
	defer func() {
		if err != nil {
			err = stderrors.Join(err, tx.Rollback())
		}
	}()

	const stmt = `INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value;`
	for _, e := range []struct{ k, v string }{
		{keyUser, acc.User},
		{keyRole, acc.Role},
		{keyToken, acc.AccessToken},
	} {
		if _, err = tx.Exec(stmt, e.k, e.v); err != nil {
			return fmt.Errorf("save account: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("save account: %w", err)
	}

	s.mu.Lock()
	s.cur, s.signed = acc, true
	s.mu.Unlock()

	s.eb.Publish(ctx, domain.EventSignedIn{Account: acc})

	return nil
}

// Clear wipes the persisted account and announces the sign-out.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key IN (?, ?, ?)`, keyUser, keyRole, keyToken); err != nil {
		return fmt.Errorf("clear account: %w", err)
	}

	s.mu.Lock()
	s.cur, s.signed = domain.Account{}, false
	s.mu.Unlock()

	s.eb.Publish(ctx, domain.EventSignedOut{})

	return nil
}

// Claims decodes the cached access token without verifying its signature.
// The backend owns verification; the client only needs the expiry to tell a
// stale session apart from a missing one.
func (s *Store) Claims() (*jwt.RegisteredClaims, error) {
	token := s.Token()
	if token == "" {
		return nil, fmt.Errorf("no access token cached")
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("decode access token: %w", err)
	}

	return claims, nil
}

// Expired reports whether the cached token carries an exp claim in the past.
// Tokens without an exp claim never expire client-side.
func (s *Store) Expired(now time.Time) bool {
	claims, err := s.Claims()
	if err != nil || claims.ExpiresAt == nil {
		return false
	}

	return claims.ExpiresAt.Before(now)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Package session keeps the authenticated identity of the current user and
// persists it across restarts under a single storage namespace.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/recipebook/internal/client/repositories/kv"
	"github.com/dmitrijs2005/recipebook/internal/common"
	"github.com/dmitrijs2005/recipebook/internal/logging"
)

// Session is the persisted identity. The JSON shape is the on-disk format.
type Session struct {
	Token    string `json:"token"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// Authenticated reports whether s carries both a token and a user id.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != "" && s.UserID != 0
}

// Repository is the persistence the store needs.
type Repository interface {
	Get(ctx context.Context, namespace string) ([]byte, error)
	Set(ctx context.Context, namespace string, value []byte) error
	Delete(ctx context.Context, namespace string) error
}

// Store is the single source of truth for "who is logged in". It is safe
// for concurrent use.
type Store struct {
	mu        sync.RWMutex
	repo      Repository
	log       logging.Logger
	current   *Session
	listeners []func()
	now       func() time.Time
}

func NewStore(repo Repository, log logging.Logger) *Store {
	return &Store{repo: repo, log: log, now: time.Now}
}

// Restore loads the persisted session, if any. A corrupt record or a JWT
// whose exp has passed is discarded.
func (s *Store) Restore(ctx context.Context) error {
	raw, err := s.repo.Get(ctx, common.SessionNamespace)
	if errors.Is(err, kv.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil || !sess.Authenticated() {
		s.log.Warn(ctx, "discarding unreadable session record")
		return s.drop(ctx)
	}

	if exp, ok := ExpiresAt(sess.Token); ok && !exp.After(s.now()) {
		s.log.Info(ctx, "stored session expired", "user", sess.Username, "expired_at", exp)
		return s.drop(ctx)
	}

	s.mu.Lock()
	s.current = &sess
	s.mu.Unlock()

	s.log.Debug(ctx, "session restored", "user", sess.Username)
	return nil
}

func (s *Store) drop(ctx context.Context) error {
	if err := s.repo.Delete(ctx, common.SessionNamespace); err != nil {
		return fmt.Errorf("drop session: %w", err)
	}
	return nil
}

// Login replaces the current session and persists it.
func (s *Store) Login(ctx context.Context, token string, userID int64, username string) error {
	sess := &Session{Token: token, UserID: userID, Username: username}

	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	defer common.WipeByteArray(raw)

	if err := s.repo.Set(ctx, common.SessionNamespace, raw); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()

	s.log.Info(ctx, "logged in", "user", username, "user_id", userID)
	return nil
}

// Logout clears the session and its record, then notifies listeners. It is
// a no-op when nobody is logged in.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return nil
	}
	user := s.current.Username
	s.current = nil
	listeners := append([]func(){}, s.listeners...)
	s.mu.Unlock()

	err := s.drop(ctx)
	s.log.Info(ctx, "logged out", "user", user)

	for _, fn := range listeners {
		fn()
	}
	return err
}

// OnLogout registers fn to run after every effective Logout.
func (s *Store) OnLogout(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Authenticated()
}

// Token returns the bearer token or "" for guests.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// Current returns a copy of the session, or nil for guests.
func (s *Store) Current() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	cp := *s.current
	return &cp
}

// ExpiresAt reads the exp claim of a JWT without verifying its signature.
// Opaque tokens and tokens without exp report false.
func ExpiresAt(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

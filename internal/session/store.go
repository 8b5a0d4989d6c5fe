package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/lms-console/internal/domain"
	"github.com/spec-kit/lms-console/internal/upstream"
)

// Authenticator is the slice of the upstream gateway the store needs.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*upstream.LoginResult, error)
}

// Store holds the single operator session: token plus resolved user, mirrored
// to a durable vault so a console restart does not log the operator out.
type Store struct {
	mu      sync.RWMutex
	session domain.Session
	vault   Vault
	auth    Authenticator
	logger  *zap.Logger
}

// NewStore builds the store and hydrates it from the vault before returning,
// so the first authorization decision is deterministic. A malformed or
// expired persisted session resolves to anonymous, never to an error.
func NewStore(vault Vault, auth Authenticator, logger *zap.Logger) *Store {
	s := &Store{vault: vault, auth: auth, logger: logger}
	s.hydrate()
	return s
}

func (s *Store) hydrate() {
	data, err := s.vault.Read()
	if err != nil {
		if err != ErrEmptyVault {
			s.logger.Warn("session vault unreadable, starting anonymous", zap.Error(err))
		}
		return
	}

	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		s.logger.Warn("persisted session malformed, starting anonymous", zap.Error(err))
		return
	}
	if !sess.Valid() {
		// Half a session (token without user or vice versa) is discarded whole.
		return
	}
	if tokenExpired(sess.Token) {
		s.logger.Info("persisted token expired, starting anonymous")
		_ = s.vault.Clear()
		return
	}

	sess.User.Role = domain.NormalizeRole(string(sess.User.Role))
	s.session = sess
}

// Login authenticates against the learning service, replaces the session
// wholesale and persists it. The upstream error is returned untouched on
// failure; no credential retries happen here.
func (s *Store) Login(ctx context.Context, email, password string) error {
	result, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}

	user := projectUser(result.User)
	sess := domain.Session{Token: result.Token, User: user}

	s.mu.Lock()
	s.session = sess
	s.mu.Unlock()

	data, err := json.Marshal(sess)
	if err == nil {
		err = s.vault.Write(data)
	}
	if err != nil {
		// The in-memory session stays valid; only durability is degraded.
		s.logger.Warn("failed to persist session", zap.Error(err))
	}
	return nil
}

// Logout clears the vault and the in-memory session. Local-only and
// idempotent: logging out while anonymous is a no-op.
func (s *Store) Logout() {
	s.mu.Lock()
	s.session = domain.Session{}
	s.mu.Unlock()

	if err := s.vault.Clear(); err != nil {
		s.logger.Warn("failed to clear session vault", zap.Error(err))
	}
}

// Current returns the resolved user, if any.
func (s *Store) Current() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.User, s.session.Valid()
}

// Token returns the bearer token for outgoing requests, or "" when anonymous.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token
}

// projectUser maps the upstream user document onto the console's user shape,
// accepting the field spellings seen across deployments.
func projectUser(doc map[string]any) domain.User {
	user := domain.User{}
	if doc == nil {
		return user
	}
	for _, key := range []string{"_id", "id"} {
		if s, ok := doc[key].(string); ok && user.ID == "" {
			user.ID = s
		}
	}
	if s, ok := doc["email"].(string); ok {
		user.Email = s
	}
	for _, key := range []string{"displayName", "name", "fullName"} {
		if s, ok := doc[key].(string); ok && user.DisplayName == "" {
			user.DisplayName = s
		}
	}
	role, _ := doc["role"].(string)
	user.Role = domain.NormalizeRole(role)
	return user
}

// tokenExpired decodes a JWT's exp claim without verifying its signature;
// verification belongs to the backend, the console only needs to know
// whether presenting the token is pointless. Opaque tokens never expire
// from the console's point of view.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

package sessions

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"consultation-registry/internal/ports/auth"
)

var (
	ErrTokenEmpty   = errors.New("token is empty")
	ErrTokenInvalid = errors.New("token invalid or expired")
)

const DefaultTTL = 12 * time.Hour

type session struct {
	claims    auth.Claims
	expiresAt time.Time
}

// Store emite tokens de sesión opacos en el login y los verifica después.
// Implementa auth.AuthVerifier. Estado solo en memoria: reiniciar el
// proceso invalida las sesiones, lo cual está bien para este sistema.
type Store struct {
	mu      sync.RWMutex
	byToken map[string]session
	ttl     time.Duration
	now     func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		byToken: make(map[string]session),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Issue crea una sesión nueva y devuelve su token.
func (s *Store) Issue(c auth.Claims) string {
	token := uuid.NewString()

	s.mu.Lock()
	s.byToken[token] = session{
		claims:    c,
		expiresAt: s.now().Add(s.ttl),
	}
	s.mu.Unlock()

	return token
}

// Verify implementa auth.AuthVerifier.
func (s *Store) Verify(ctx context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	s.mu.RLock()
	sess, ok := s.byToken[token]
	s.mu.RUnlock()

	if !ok || s.now().After(sess.expiresAt) {
		return auth.Claims{}, ErrTokenInvalid
	}
	return sess.claims, nil
}

// Revoke invalida un token (logout). Token inexistente no es error.
func (s *Store) Revoke(token string) {
	s.mu.Lock()
	delete(s.byToken, token)
	s.mu.Unlock()
}

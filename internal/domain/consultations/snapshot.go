package consultations

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"consultation-registry/internal/platform/logger"
)

var (
	// ErrSnapshotUnavailable: el fetch al backend falló. Recuperable;
	// si había una foto previa, sigue siendo usable.
	ErrSnapshotUnavailable = errors.New("snapshot unavailable")
	// ErrNoSnapshot: falló el fetch y nunca hubo una foto buena.
	ErrNoSnapshot = errors.New("no snapshot loaded")
)

// Snapshot es la foto en memoria sobre la que corren todas las queries.
// Inmutable una vez cargada; un refetch la reemplaza entera, sin merge
// incremental. Las funciones del motor son solo-lectura sobre Records,
// así que varias queries pueden compartir la misma foto sin locks.
type Snapshot struct {
	ID        string
	FetchedAt time.Time
	Records   []Consultation
}

// SnapshotStore guarda la última foto buena conocida.
// Preferimos servir datos stale a no servir nada.
type SnapshotStore struct {
	mu   sync.RWMutex
	repo Repository
	log  logger.Logger
	cur  *Snapshot
	now  func() time.Time
}

func NewSnapshotStore(repo Repository, log logger.Logger) *SnapshotStore {
	if log == nil {
		log = logger.Nop()
	}
	return &SnapshotStore{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// Refresh refetchea el conjunto completo y reemplaza la foto.
// Si el fetch falla, conserva la anterior y devuelve (previa, error);
// stale=true queda en manos del llamador al ver el error junto a una foto.
func (s *SnapshotStore) Refresh(ctx context.Context) (*Snapshot, error) {
	records, err := s.repo.FetchAll(ctx)
	if err != nil {
		prev := s.Current()
		s.log.Warn("snapshot refresh failed", map[string]any{
			"error": err.Error(),
			"stale": prev != nil,
		})
		return prev, fmt.Errorf("%w: %v", ErrSnapshotUnavailable, err)
	}

	snap := &Snapshot{
		ID:        uuid.NewString(),
		FetchedAt: s.now(),
		Records:   records,
	}

	s.mu.Lock()
	s.cur = snap
	s.mu.Unlock()

	s.log.Debug("snapshot refreshed", map[string]any{
		"snapshot_id": snap.ID,
		"records":     len(records),
	})
	return snap, nil
}

// Current devuelve la última foto buena, o nil si nunca se cargó una.
func (s *SnapshotStore) Current() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"consultation-registry/internal/domain/consultations"
)

type consultationsRepo struct {
	mu     sync.RWMutex
	byID   map[int]consultations.Consultation
	nextID int
}

func NewConsultationsRepo() consultations.Repository {
	return &consultationsRepo{
		byID:   make(map[int]consultations.Consultation),
		nextID: 1,
	}
}

func (r *consultationsRepo) FetchAll(ctx context.Context) ([]consultations.Consultation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]consultations.Consultation, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}

	// Orden estable por id asc (solo para consistencia en dev)
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *consultationsRepo) Create(ctx context.Context, c consultations.Consultation) (consultations.Consultation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.Patient.ID <= 0 {
		return consultations.Consultation{}, errors.New("patient id required")
	}

	c.ID = r.nextID
	r.nextID++
	r.byID[c.ID] = c
	return c, nil
}

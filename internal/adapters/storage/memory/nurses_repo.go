package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"consultation-registry/internal/domain/nurses"
)

type nursesRepo struct {
	mu     sync.RWMutex
	byID   map[int]nurses.Nurse
	nextID int
}

func NewNursesRepo() nurses.Repository {
	return &nursesRepo{
		byID:   make(map[int]nurses.Nurse),
		nextID: 1,
	}
}

func (r *nursesRepo) Create(ctx context.Context, n nurses.Nurse) (nurses.Nurse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byID {
		if strings.EqualFold(existing.NomUtilisateur, n.NomUtilisateur) {
			return nurses.Nurse{}, errors.New("username already taken")
		}
	}

	n.ID = r.nextID
	r.nextID++
	r.byID[n.ID] = n
	return n, nil
}

func (r *nursesRepo) Update(ctx context.Context, n nurses.Nurse) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[n.ID]; !ok {
		return nurses.ErrNotFound
	}
	r.byID[n.ID] = n
	return nil
}

func (r *nursesRepo) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return nurses.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *nursesRepo) GetByID(ctx context.Context, id int) (nurses.Nurse, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.byID[id]
	if !ok {
		return nurses.Nurse{}, nurses.ErrNotFound
	}
	return n, nil
}

func (r *nursesRepo) GetByUsername(ctx context.Context, username string) (nurses.Nurse, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, n := range r.byID {
		if strings.EqualFold(n.NomUtilisateur, username) {
			return n, nil
		}
	}
	return nurses.Nurse{}, nurses.ErrNotFound
}

func (r *nursesRepo) List(ctx context.Context, search string) ([]nurses.Nurse, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(search)
	out := make([]nurses.Nurse, 0, len(r.byID))
	for _, n := range r.byID {
		if q != "" &&
			!strings.Contains(strings.ToLower(n.Nom), q) &&
			!strings.Contains(strings.ToLower(n.Email), q) {
			continue
		}
		out = append(out, n)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out, nil
}

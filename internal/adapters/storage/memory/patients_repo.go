package memory

import (
	"context"
	"strings"
	"sync"

	"consultation-registry/internal/domain/patients"
)

type patientsRepo struct {
	mu     sync.RWMutex
	byID   map[int]patients.Patient
	nextID int
}

func NewPatientsRepo() patients.Repository {
	return &patientsRepo{
		byID:   make(map[int]patients.Patient),
		nextID: 1,
	}
}

func (r *patientsRepo) GetByID(ctx context.Context, id int) (patients.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return patients.Patient{}, patients.ErrNotFound
	}
	return p, nil
}

func (r *patientsRepo) Find(ctx context.Context, l patients.Lookup) (patients.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.byID {
		if matchesLookup(p, l) {
			return p, nil
		}
	}
	return patients.Patient{}, patients.ErrNotFound
}

func (r *patientsRepo) GetOrCreate(ctx context.Context, p patients.Patient) (patients.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Identidad = nom + prenom + dateNaissance
	for _, existing := range r.byID {
		if strings.EqualFold(existing.Nom, p.Nom) &&
			strings.EqualFold(existing.Prenom, p.Prenom) &&
			existing.DateNaissance == p.DateNaissance {
			return existing, nil
		}
	}

	p.ID = r.nextID
	r.nextID++
	r.byID[p.ID] = p
	return p, nil
}

func matchesLookup(p patients.Patient, l patients.Lookup) bool {
	if l.Nom != "" && !strings.EqualFold(p.Nom, l.Nom) {
		return false
	}
	if l.Prenom != "" && !strings.EqualFold(p.Prenom, l.Prenom) {
		return false
	}
	if l.DateNaissance != "" && p.DateNaissance != l.DateNaissance {
		return false
	}
	return true
}

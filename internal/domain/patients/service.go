package patients

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound: la búsqueda no matcheó ningún paciente.
	// Distinguible de "cero resultados por filtros" en la vista de lista.
	ErrNotFound = errors.New("patient not found")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Resolve busca un paciente por nombre y/o fecha de nacimiento.
// Lookup vacío => ErrInvalidInput (la UI exige al menos un criterio).
func (s *Service) Resolve(ctx context.Context, l Lookup) (Patient, error) {
	l.Nom = strings.TrimSpace(l.Nom)
	l.Prenom = strings.TrimSpace(l.Prenom)
	l.DateNaissance = strings.TrimSpace(l.DateNaissance)

	if l.Empty() {
		return Patient{}, ErrInvalidInput
	}
	return s.repo.Find(ctx, l)
}

func (s *Service) GetByID(ctx context.Context, id int) (Patient, error) {
	if id <= 0 {
		return Patient{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// GetOrCreate reutiliza el paciente si ya existe uno con el mismo
// nom+prenom+dateNaissance (así una reconsulta no duplica identidades).
func (s *Service) GetOrCreate(ctx context.Context, p Patient) (Patient, error) {
	p.Prenom = strings.TrimSpace(p.Prenom)
	p.Nom = strings.TrimSpace(p.Nom)
	p.Adresse = strings.TrimSpace(p.Adresse)
	p.DateNaissance = strings.TrimSpace(p.DateNaissance)

	if p.Nom == "" || p.Prenom == "" {
		return Patient{}, ErrInvalidInput
	}
	return s.repo.GetOrCreate(ctx, p)
}

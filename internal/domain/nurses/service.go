package nurses

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("nurse not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	Nom            string
	NomUtilisateur string
	Email          string
	MotDePasse     string
	Role           string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Nurse, error) {
	in.Nom = strings.TrimSpace(in.Nom)
	in.NomUtilisateur = strings.TrimSpace(in.NomUtilisateur)
	in.Email = strings.TrimSpace(in.Email)

	if in.Nom == "" || in.NomUtilisateur == "" || in.MotDePasse == "" {
		return Nurse{}, ErrInvalidInput
	}

	role := Role(strings.TrimSpace(in.Role))
	switch role {
	case "":
		role = RoleInfirmier
	case RoleAdmin, RoleInfirmier:
		// ok
	default:
		return Nurse{}, ErrInvalidInput
	}

	return s.repo.Create(ctx, Nurse{
		Nom:            in.Nom,
		NomUtilisateur: in.NomUtilisateur,
		Email:          in.Email,
		MotDePasse:     in.MotDePasse,
		Role:           role,
	})
}

// UpdateInput con punteros para PATCH real: nil = no tocar.
type UpdateInput struct {
	Nom            *string
	NomUtilisateur *string
	Email          *string
	MotDePasse     *string
	Role           *string
}

func (s *Service) Update(ctx context.Context, id int, in UpdateInput) (Nurse, error) {
	if id <= 0 {
		return Nurse{}, ErrInvalidInput
	}

	cur, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Nurse{}, err
	}

	if in.Nom != nil {
		v := strings.TrimSpace(*in.Nom)
		if v == "" {
			return Nurse{}, ErrInvalidInput
		}
		cur.Nom = v
	}
	if in.NomUtilisateur != nil {
		v := strings.TrimSpace(*in.NomUtilisateur)
		if v == "" {
			return Nurse{}, ErrInvalidInput
		}
		cur.NomUtilisateur = v
	}
	if in.Email != nil {
		cur.Email = strings.TrimSpace(*in.Email)
	}
	if in.MotDePasse != nil {
		if *in.MotDePasse == "" {
			return Nurse{}, ErrInvalidInput
		}
		cur.MotDePasse = *in.MotDePasse
	}
	if in.Role != nil {
		role := Role(strings.TrimSpace(*in.Role))
		if role != RoleAdmin && role != RoleInfirmier {
			return Nurse{}, ErrInvalidInput
		}
		cur.Role = role
	}

	if err := s.repo.Update(ctx, cur); err != nil {
		return Nurse{}, err
	}
	return cur, nil
}

func (s *Service) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, search string) ([]Nurse, error) {
	return s.repo.List(ctx, strings.TrimSpace(search))
}

// Authenticate valida credenciales de login. Usuario inexistente y
// contraseña incorrecta devuelven el mismo error, a propósito.
func (s *Service) Authenticate(ctx context.Context, username, password string) (Nurse, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return Nurse{}, ErrInvalidCredentials
	}

	n, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return Nurse{}, ErrInvalidCredentials
	}
	if n.MotDePasse != password {
		return Nurse{}, ErrInvalidCredentials
	}
	return n, nil
}

package patients

import "context"

type Repository interface {
	GetByID(ctx context.Context, id int) (Patient, error)
	// Find resuelve un paciente por los criterios presentes del lookup
	// (nom/prenom sin distinguir mayúsculas, dateNaissance exacta).
	Find(ctx context.Context, l Lookup) (Patient, error)
	// GetOrCreate devuelve el paciente existente con mismo nom+prenom+dateNaissance
	// o lo crea; el store asigna el id.
	GetOrCreate(ctx context.Context, p Patient) (Patient, error)
}

package consultations

import "context"

type Repository interface {
	// FetchAll trae el conjunto completo de consultas (la foto del backend).
	FetchAll(ctx context.Context) ([]Consultation, error)
	// Create persiste una consulta nueva; el store asigna el id.
	Create(ctx context.Context, c Consultation) (Consultation, error)
}

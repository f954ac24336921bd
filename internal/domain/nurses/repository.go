package nurses

import "context"

type Repository interface {
	Create(ctx context.Context, n Nurse) (Nurse, error) // el store asigna el id
	Update(ctx context.Context, n Nurse) error
	Delete(ctx context.Context, id int) error
	GetByID(ctx context.Context, id int) (Nurse, error)
	GetByUsername(ctx context.Context, username string) (Nurse, error)
	// List devuelve todas las cuentas; search filtra por substring de
	// nom o email, sin distinguir mayúsculas.
	List(ctx context.Context, search string) ([]Nurse, error)
}

package nurses

// Role del operador dentro del sistema.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleInfirmier Role = "infirmier"
)

// Nurse es una cuenta de operador (enfermero/a). El motor de queries solo
// consume su identidad como valor opaco adjunto a consultas nuevas; este
// módulo existe para el CRUD de cuentas y el login.
type Nurse struct {
	ID             int    `json:"id"`
	Nom            string `json:"nom"`
	NomUtilisateur string `json:"nomUtilisateur"`
	Email          string `json:"email"`
	MotDePasse     string `json:"-"` // nunca sale en respuestas
	Role           Role   `json:"role"`
}

package patients

// Patient es la entidad de identidad a la que refieren las consultas.
// La crea y posee el backend de persistencia; el motor de consultas
// la trata como solo-lectura.
// Las claves JSON replican el contrato del backend original.
type Patient struct {
	ID            int    `json:"id"`
	Prenom        string `json:"prenom"`
	Nom           string `json:"nom"`
	Adresse       string `json:"adresse"`
	DateNaissance string `json:"dateNaissance"` // YYYY-MM-DD
}

// Lookup son los criterios de resolución de paciente (al menos uno requerido).
type Lookup struct {
	Nom           string
	Prenom        string
	DateNaissance string
}

func (l Lookup) Empty() bool {
	return l.Nom == "" && l.Prenom == "" && l.DateNaissance == ""
}

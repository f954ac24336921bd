package consultations

import (
	"strings"
	"time"

	"consultation-registry/internal/domain/patients"
)

// Nurse referencia al operador que registró la consulta. Solo display;
// el motor no interpreta la identidad.
type Nurse struct {
	ID             int    `json:"id"`
	NomUtilisateur string `json:"nomUtilisateur"`
}

// Consultation es el registro de un encuentro clínico: campos demográficos
// y de síntomas codificados, más la clase de riesgo calculada por el
// servicio externo de predicción. Entrada de solo-lectura para el motor.
// Las claves JSON replican el contrato del backend original.
type Consultation struct {
	ID        int              `json:"id"`
	Patient   patients.Patient `json:"patient"`
	Infirmier Nurse            `json:"infirmier"`

	Age  int `json:"Age"`  // 0 = enfant, >0 = adult
	Sexe int `json:"Sexe"` // 0 = female, 1 = male

	Etat string `json:"Etat"`
	EN   string `json:"EN"`
	T    string `json:"T"`
	F    string `json:"F"`
	AST  string `json:"AST"`
	A    string `json:"A"`
	C    string `json:"C"`
	Dys  string `json:"Dys"`
	SDRA string `json:"SDRA"`
	E    string `json:"E"`
	D    string `json:"D"`
	ANS  string `json:"ANS"`
	AGU  string `json:"AGU"`
	DD   string `json:"DD"`

	// Class la calcula el servicio externo (1 = riesgo alto, 0 = bajo).
	// El motor solo la almacena y la muestra.
	Class       int     `json:"Class"`
	Probability float64 `json:"probability"`

	// DateConsultation tal como la entrega el backend (YYYY-MM-DD).
	// Puede venir malformada; en ese caso ordena antes que toda fecha válida.
	DateConsultation string `json:"dateConsultation"`
}

const dayLayout = "2006-01-02"

// Day devuelve la porción de día calendario de la fecha de consulta.
// ok=false si la fecha viene malformada; el cero de time.Time que se
// devuelve en ese caso compara como anterior a cualquier fecha válida.
func (c Consultation) Day() (time.Time, bool) {
	t, err := time.Parse(dayLayout, strings.TrimSpace(c.DateConsultation))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

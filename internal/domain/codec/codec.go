package codec

import "fmt"

var yesNo = map[string]string{"Y": "Yes", "N": "No"}

// Tabla fija código -> etiqueta legible, por campo.
// Replica exactamente lo que muestra la UI; es data de configuración, no lógica.
var labels = map[string]map[string]string{
	"Sexe": {"0": "Female", "1": "Male"},
	"Etat": {"0": "Not Pregnant", "1": "Pregnant"},
	"EN":   yesNo,
	"T":    {"S": "Dry", "G": "Productive", "P": "None"},
	"F":    {"Y": "High (>38.5°C)", "N": "Low (≤38.5°C)"},
	"AST":  {"Y": "Persistent Fatigue", "N": "No Fatigue"},
	"A":    yesNo,
	"C":    yesNo,
	"Dys":  yesNo,
	"SDRA": yesNo,
	"E":    yesNo,
	"D":    yesNo,
	"ANS":  yesNo,
	"AGU":  yesNo,
	"DD":   yesNo,
}

// SymptomField asocia un código de campo clínico con su nombre de display.
type SymptomField struct {
	Field string
	Label string
}

// SymptomFields en el orden en que se presentan.
var SymptomFields = []SymptomField{
	{"EN", "Nasal Discharge"},
	{"T", "Cough Type"},
	{"F", "Fever"},
	{"AST", "Fatigue"},
	{"A", "Anorexia"},
	{"C", "Myalgia"},
	{"Dys", "Dyspnea"},
	{"SDRA", "ARDS"},
	{"E", "Sputum"},
	{"D", "Diarrhea"},
	{"ANS", "Anosmia"},
	{"AGU", "Ageusia"},
	{"DD", "D-Dimer"},
}

// Decode traduce un valor codificado a su etiqueta legible.
// Campo o código sin entrada => devuelve el valor crudo como texto
// (fallback identidad): un código nuevo nunca debe romper el display.
// Sin estado; seguro para llamadas concurrentes.
func Decode(field string, raw any) string {
	s := fmt.Sprint(raw)
	if m, ok := labels[field]; ok {
		if label, ok := m[s]; ok {
			return label
		}
	}
	return s
}

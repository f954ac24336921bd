package consultations

import (
	"sort"
	"strings"
	"time"
)

// Criteria describe los predicados activos de la vista de lista.
// Campos vacíos / nil no filtran; todos los presentes se combinan con AND.
type Criteria struct {
	NomContains    string     // substring sin distinguir mayúsculas sobre patient.nom
	PrenomContains string     // idem sobre patient.prenom
	OnDate         *time.Time // igualdad de día calendario sobre dateConsultation
	PatientID      *int       // igualdad exacta sobre patient.id (resuelto externamente)
}

func (cr Criteria) matches(c Consultation) bool {
	if cr.NomContains != "" &&
		!strings.Contains(strings.ToLower(c.Patient.Nom), strings.ToLower(cr.NomContains)) {
		return false
	}
	if cr.PrenomContains != "" &&
		!strings.Contains(strings.ToLower(c.Patient.Prenom), strings.ToLower(cr.PrenomContains)) {
		return false
	}
	if cr.OnDate != nil {
		day, ok := c.Day()
		if !ok {
			return false
		}
		y1, m1, d1 := day.Date()
		y2, m2, d2 := cr.OnDate.Date()
		if y1 != y2 || m1 != m2 || d1 != d2 {
			return false
		}
	}
	if cr.PatientID != nil && c.Patient.ID != *cr.PatientID {
		return false
	}
	return true
}

// Filter aplica los criterios sobre una colección sin mutarla.
// Criteria vacío devuelve todos los registros en el mismo orden.
func Filter(records []Consultation, cr Criteria) []Consultation {
	out := make([]Consultation, 0, len(records))
	for _, c := range records {
		if cr.matches(c) {
			out = append(out, c)
		}
	}
	return out
}

// LatestByPatient reduce la lista a una consulta "vigente" por paciente:
// la de fecha más reciente. Fechas malformadas comparan como anteriores a
// toda fecha válida, así que nunca desplazan a una entrada con fecha válida
// pero se conservan si son la única del paciente. Idempotente. El orden de
// salida no está definido; el orquestador ordena antes de mostrar.
func LatestByPatient(records []Consultation) []Consultation {
	kept := make(map[int]Consultation, len(records))
	for _, c := range records {
		cur, ok := kept[c.Patient.ID]
		if !ok || laterThan(c, cur) {
			kept[c.Patient.ID] = c
		}
	}

	out := make([]Consultation, 0, len(kept))
	for _, c := range kept {
		out = append(out, c)
	}
	return out
}

// HistoryFor proyecta la historia completa de un paciente, de la consulta
// más reciente a la más antigua (empates por id descendente). Paciente sin
// consultas => slice vacío, nunca error. Proyección pura: no pasa por
// LatestByPatient, a propósito.
func HistoryFor(records []Consultation, patientID int) []Consultation {
	out := make([]Consultation, 0)
	for _, c := range records {
		if c.Patient.ID == patientID {
			out = append(out, c)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return laterThan(out[i], out[j])
	})
	return out
}

// laterThan define el orden total por (fecha, id): estrictamente posterior
// por día, empate por id mayor. Con esto el resultado es determinista aunque
// dos consultas compartan fecha o la fecha venga malformada.
func laterThan(a, b Consultation) bool {
	da, _ := a.Day()
	db, _ := b.Day()
	if !da.Equal(db) {
		return da.After(db)
	}
	return a.ID > b.ID
}

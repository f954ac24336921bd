package consultations

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"consultation-registry/internal/domain/codec"
	"consultation-registry/internal/domain/patients"
	"consultation-registry/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	// Vista de lista: una fila por paciente (su consulta más reciente).
	r.Get("/consultations", listConsultationsHandler(svc))

	// Alta de consulta (upstream de la foto; el motor no la llama internamente).
	r.Post("/consultations/creer", createConsultationHandler(svc))

	// Vista de detalle: historia completa de un paciente + encabezado.
	r.Get("/patients/{patientID}/consultations", patientHistoryHandler(svc))
}

// consultationRow es una consulta más sus etiquetas decodificadas,
// para que el display no tenga que conocer la tabla de códigos.
type consultationRow struct {
	Consultation
	Labels map[string]string `json:"labels"`
}

type listResponse struct {
	SnapshotID string            `json:"snapshot_id"`
	FetchedAt  time.Time         `json:"fetched_at"`
	Stale      bool              `json:"stale"`
	Count      int               `json:"count"`
	Rows       []consultationRow `json:"rows"`
}

type detailResponse struct {
	SnapshotID string            `json:"snapshot_id"`
	Stale      bool              `json:"stale"`
	Patient    patients.Patient  `json:"patient"`
	Total      int               `json:"total"`
	History    []consultationRow `json:"history"`
}

func listConsultationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		cr := Criteria{
			NomContains:    q.Get("nom"),
			PrenomContains: q.Get("prenom"),
		}
		if d := strings.TrimSpace(q.Get("date")); d != "" {
			t, err := time.Parse(dayLayout, d)
			if err != nil {
				writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
				return
			}
			cr.OnDate = &t
		}

		query := ListQuery{Criteria: cr}

		// Resolución externa: nombre/fecha de nacimiento del paciente => id.
		lookup := patients.Lookup{
			Nom:           q.Get("patient_nom"),
			Prenom:        q.Get("patient_prenom"),
			DateNaissance: q.Get("patient_dateNaissance"),
		}
		if !lookup.Empty() {
			query.PatientLookup = &lookup
		}

		res, err := svc.ListView(r.Context(), query)
		if err != nil {
			writeQueryError(w, err)
			return
		}

		rows := make([]consultationRow, 0, len(res.Rows))
		for _, c := range res.Rows {
			rows = append(rows, toRow(c))
		}

		writeJSON(w, http.StatusOK, listResponse{
			SnapshotID: res.SnapshotID,
			FetchedAt:  res.FetchedAt,
			Stale:      res.Stale,
			Count:      len(rows),
			Rows:       rows,
		})
	}
}

func patientHistoryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID, err := strconv.Atoi(chi.URLParam(r, "patientID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "patientID must be an integer")
			return
		}

		res, err := svc.DetailView(r.Context(), patientID)
		if err != nil {
			writeQueryError(w, err)
			return
		}

		hist := make([]consultationRow, 0, len(res.History))
		for _, c := range res.History {
			hist = append(hist, toRow(c))
		}

		writeJSON(w, http.StatusOK, detailResponse{
			SnapshotID: res.SnapshotID,
			Stale:      res.Stale,
			Patient:    res.Patient,
			Total:      len(hist),
			History:    hist,
		})
	}
}

type createConsultationRequest struct {
	Patient struct {
		Prenom        string `json:"prenom"`
		Nom           string `json:"nom"`
		Adresse       string `json:"adresse"`
		DateNaissance string `json:"dateNaissance"`
	} `json:"patient"`
	Infirmier int `json:"infirmier"`

	Age  int    `json:"Age"`
	Sexe int    `json:"Sexe"`
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

	DateConsultation string `json:"dateConsultation"`
}

func createConsultationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req createConsultationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		// La identidad autenticada manda; el infirmier del payload queda
		// como fallback para clientes legacy.
		nurseID := req.Infirmier
		if id, err := strconv.Atoi(strings.TrimSpace(claims.UserID)); err == nil && id > 0 {
			nurseID = id
		}

		created, err := svc.Create(r.Context(), CreateInput{
			Patient: patients.Patient{
				Prenom:        req.Patient.Prenom,
				Nom:           req.Patient.Nom,
				Adresse:       req.Patient.Adresse,
				DateNaissance: req.Patient.DateNaissance,
			},
			NurseID:       nurseID,
			NurseUsername: claims.Username,

			Age: req.Age, Sexe: req.Sexe,
			Etat: req.Etat, EN: req.EN, T: req.T, F: req.F, AST: req.AST,
			A: req.A, C: req.C, Dys: req.Dys, SDRA: req.SDRA, E: req.E,
			D: req.D, ANS: req.ANS, AGU: req.AGU, DD: req.DD,

			DateConsultation: req.DateConsultation,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput), errors.Is(err, patients.ErrInvalidInput):
				writeError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, ErrPredictionUnavailable):
				writeError(w, http.StatusBadGateway, "prediction service unavailable")
			default:
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		writeJSON(w, http.StatusCreated, toRow(created))
	}
}

func toRow(c Consultation) consultationRow {
	labels := map[string]string{
		"Age":   ageLabel(c.Age),
		"Sexe":  codec.Decode("Sexe", c.Sexe),
		"Etat":  codec.Decode("Etat", c.Etat),
		"Class": riskLabel(c.Class),
	}
	for _, sf := range codec.SymptomFields {
		labels[sf.Field] = codec.Decode(sf.Field, symptomValue(c, sf.Field))
	}
	return consultationRow{Consultation: c, Labels: labels}
}

func symptomValue(c Consultation, field string) string {
	switch field {
	case "EN":
		return c.EN
	case "T":
		return c.T
	case "F":
		return c.F
	case "AST":
		return c.AST
	case "A":
		return c.A
	case "C":
		return c.C
	case "Dys":
		return c.Dys
	case "SDRA":
		return c.SDRA
	case "E":
		return c.E
	case "D":
		return c.D
	case "ANS":
		return c.ANS
	case "AGU":
		return c.AGU
	case "DD":
		return c.DD
	default:
		return ""
	}
}

func ageLabel(age int) string {
	if age > 0 {
		return "adult"
	}
	return "enfant"
}

func riskLabel(class int) string {
	if class == 1 {
		return "High Risk"
	}
	return "Low Risk"
}

func writeQueryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, patients.ErrNotFound):
		// Distinto de una lista vacía por filtros: acá la resolución falló.
		writeError(w, http.StatusNotFound, "patient not found")
	case errors.Is(err, patients.ErrInvalidInput), errors.Is(err, ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid query")
	case errors.Is(err, ErrSnapshotUnavailable), errors.Is(err, ErrNoSnapshot):
		writeError(w, http.StatusServiceUnavailable, "snapshot unavailable")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos
// módulos; todavía no amerita extraerlo a un helper compartido.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

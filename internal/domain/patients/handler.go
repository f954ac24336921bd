package patients

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	// Resolución externa de identidad de paciente (la usa la vista de lista).
	r.Get("/patients/rechercher", searchPatientHandler(svc))
}

func searchPatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		l := Lookup{
			Nom:           q.Get("nom"),
			Prenom:        q.Get("prenom"),
			DateNaissance: q.Get("dateNaissance"),
		}

		p, err := svc.Resolve(r.Context(), l)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				writeError(w, http.StatusBadRequest, "at least one search criterion is required")
			case errors.Is(err, ErrNotFound):
				writeError(w, http.StatusNotFound, "patient not found")
			default:
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		writeJSON(w, http.StatusOK, p)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

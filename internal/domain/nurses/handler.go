package nurses

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"consultation-registry/internal/middleware"
	"consultation-registry/internal/ports/auth"
)

// Sessions emite y revoca tokens de sesión opacos.
type Sessions interface {
	Issue(c auth.Claims) string
	Revoke(token string)
}

func RegisterRoutes(r chi.Router, svc *Service, sessions Sessions) {
	r.Post("/login", loginHandler(svc, sessions))
	r.Post("/logout", logoutHandler(sessions))

	// Gestión de cuentas (solo admin).
	r.Route("/infirmiers", func(nr chi.Router) {
		nr.Get("/", listNursesHandler(svc))
		nr.Post("/", createNurseHandler(svc))
		nr.Patch("/{nurseID}", updateNurseHandler(svc))
		nr.Delete("/{nurseID}", deleteNurseHandler(svc))
	})
}

type loginRequest struct {
	NomUtilisateur string `json:"nomUtilisateur"`
	MotDePasse     string `json:"motDePasse"`
}

type loginResponse struct {
	Success        bool   `json:"success"`
	ID             int    `json:"id,omitempty"`
	NomUtilisateur string `json:"nomUtilisateur,omitempty"`
	Role           string `json:"role,omitempty"`
	Token          string `json:"token,omitempty"`
}

func loginHandler(svc *Service, sessions Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, loginResponse{Success: false})
			return
		}

		n, err := svc.Authenticate(r.Context(), req.NomUtilisateur, req.MotDePasse)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, loginResponse{Success: false})
			return
		}

		var token string
		if sessions != nil {
			token = sessions.Issue(auth.Claims{
				UserID:   strconv.Itoa(n.ID),
				Username: n.NomUtilisateur,
				Role:     string(n.Role),
			})
		}

		writeJSON(w, http.StatusOK, loginResponse{
			Success:        true,
			ID:             n.ID,
			NomUtilisateur: n.NomUtilisateur,
			Role:           string(n.Role),
			Token:          token,
		})
	}
}

// logoutHandler revoca el token de la sesión actual. Idempotente: sin
// token, o con uno ya revocado, igual responde 204.
func logoutHandler(sessions Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sessions != nil {
			if token := middleware.BearerToken(r.Header.Get("Authorization")); token != "" {
				sessions.Revoke(token)
			}
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type createNurseRequest struct {
	Nom            string `json:"nom"`
	NomUtilisateur string `json:"nomUtilisateur"`
	Email          string `json:"email"`
	MotDePasse     string `json:"motDePasse"`
	Role           string `json:"role"`
}

type updateNurseRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Nom            *string `json:"nom"`
	NomUtilisateur *string `json:"nomUtilisateur"`
	Email          *string `json:"email"`
	MotDePasse     *string `json:"motDePasse"`
	Role           *string `json:"role"`
}

func listNursesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		items, err := svc.List(r.Context(), r.URL.Query().Get("search"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func createNurseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		var req createNurseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		n, err := svc.Create(r.Context(), CreateInput{
			Nom:            req.Nom,
			NomUtilisateur: req.NomUtilisateur,
			Email:          req.Email,
			MotDePasse:     req.MotDePasse,
			Role:           req.Role,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				writeError(w, http.StatusBadRequest, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		writeJSON(w, http.StatusCreated, n)
	}
}

func updateNurseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		id, err := strconv.Atoi(chi.URLParam(r, "nurseID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "nurseID must be an integer")
			return
		}

		var req updateNurseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		n, err := svc.Update(r.Context(), id, UpdateInput{
			Nom:            req.Nom,
			NomUtilisateur: req.NomUtilisateur,
			Email:          req.Email,
			MotDePasse:     req.MotDePasse,
			Role:           req.Role,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				writeError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, ErrNotFound):
				writeError(w, http.StatusNotFound, "nurse not found")
			default:
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		writeJSON(w, http.StatusOK, n)
	}
}

func deleteNurseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		id, err := strconv.Atoi(chi.URLParam(r, "nurseID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "nurseID must be an integer")
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				writeError(w, http.StatusNotFound, "nurse not found")
			default:
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return false
	}
	if claims.Role != string(RoleAdmin) {
		writeError(w, http.StatusForbidden, "forbidden")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

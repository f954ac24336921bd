package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"consultation-registry/internal/ports/prediction"
	"consultation-registry/internal/router"
)

type stubPredictor struct {
	assessment prediction.Assessment
}

func (p *stubPredictor) Predict(ctx context.Context, in prediction.Sample) (prediction.Assessment, error) {
	return p.assessment, nil
}

func newTestServer(t *testing.T, opts router.Options) *httptest.Server {
	t.Helper()

	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD", "admin-secret")

	ts := httptest.NewServer(router.NewRouter(opts))
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_EndToEnd_ConsultationFlow(t *testing.T) {
	ts := newTestServer(t, router.Options{
		Predictor: &stubPredictor{assessment: prediction.Assessment{Class: 1, Probability: 0.87}},
	})

	// 1) Health
	{
		st, _ := doReq(t, ts.URL, "GET", "/health", nil, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 health, got %d", st)
		}
	}

	// 2) Login de la cuenta admin de bootstrap
	adminToken := login(t, ts.URL, "admin", "admin-secret")
	adminBearer := map[string]string{"Authorization": "Bearer " + adminToken}

	// 3) Admin crea la cuenta de la infirmière
	{
		st, body := doReq(t, ts.URL, "POST", "/infirmiers", adminBearer, map[string]any{
			"nom":            "Samia Ben Ali",
			"nomUtilisateur": "sbenali",
			"email":          "sbenali@hopital.test",
			"motDePasse":     "secret",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create nurse, got %d body=%s", st, string(body))
		}
	}

	// 4) Login de la infirmière
	token := login(t, ts.URL, "sbenali", "secret")
	bearer := map[string]string{"Authorization": "Bearer " + token}

	// 5) La sesión de infirmière no alcanza para gestionar cuentas
	{
		st, _ := doReq(t, ts.URL, "GET", "/infirmiers/", bearer, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 for non-admin, got %d", st)
		}
	}

	// 6) Alta de consulta con la sesión
	patientID := 0
	{
		st, body := doReq(t, ts.URL, "POST", "/consultations/creer", bearer, map[string]any{
			"patient": map[string]any{
				"prenom":        "Karim",
				"nom":           "Haddad",
				"dateNaissance": "1985-02-10",
			},
			"Age": 39, "Sexe": 1,
			"F": "Y", "T": "S",
			"dateConsultation": "2024-01-01",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create consultation, got %d body=%s", st, string(body))
		}

		var resp struct {
			ID      int `json:"id"`
			Patient struct {
				ID int `json:"id"`
			} `json:"patient"`
			Class  int               `json:"Class"`
			Labels map[string]string `json:"labels"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			t.Fatalf("unmarshal create response: %v", err)
		}
		if resp.Class != 1 {
			t.Fatalf("expected predicted class 1, got %d body=%s", resp.Class, string(body))
		}
		if resp.Labels["F"] != "High (>38.5°C)" || resp.Labels["T"] != "Dry" {
			t.Fatalf("expected decoded labels, got %#v", resp.Labels)
		}
		if resp.Labels["Class"] != "High Risk" || resp.Labels["Age"] != "adult" {
			t.Fatalf("expected display labels, got %#v", resp.Labels)
		}
		patientID = resp.Patient.ID
		if patientID == 0 {
			t.Fatalf("expected store-assigned patient id")
		}
	}

	// 7) Segunda consulta del mismo paciente, más reciente
	{
		st, body := doReq(t, ts.URL, "POST", "/consultations/creer", bearer, map[string]any{
			"patient": map[string]any{
				"prenom":        "Karim",
				"nom":           "Haddad",
				"dateNaissance": "1985-02-10",
			},
			"Age": 39, "Sexe": 1,
			"F": "N",
			"dateConsultation": "2024-03-15",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 second consultation, got %d body=%s", st, string(body))
		}
	}

	// 8) Vista de lista: una fila por paciente, la más reciente
	{
		st, body := doReq(t, ts.URL, "GET", "/consultations", nil, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list, got %d body=%s", st, string(body))
		}

		var resp struct {
			SnapshotID string `json:"snapshot_id"`
			Stale      bool   `json:"stale"`
			Count      int    `json:"count"`
			Rows       []struct {
				DateConsultation string `json:"dateConsultation"`
			} `json:"rows"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			t.Fatalf("unmarshal list response: %v", err)
		}
		if resp.SnapshotID == "" || resp.Stale {
			t.Fatalf("expected fresh snapshot, got %s stale=%v", resp.SnapshotID, resp.Stale)
		}
		if resp.Count != 1 {
			t.Fatalf("expected 1 row (one per patient), got %d body=%s", resp.Count, string(body))
		}
		if resp.Rows[0].DateConsultation != "2024-03-15" {
			t.Fatalf("expected latest consultation shown, got %s", resp.Rows[0].DateConsultation)
		}
	}

	// 9) Filtros: nom sin match => 200 con lista vacía, no error
	{
		st, body := doReq(t, ts.URL, "GET", "/consultations?nom=zzz", nil, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 on zero matches, got %d body=%s", st, string(body))
		}
		var resp struct {
			Count int `json:"count"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Count != 0 {
			t.Fatalf("expected 0 rows, got %d", resp.Count)
		}
	}

	// 10) Lookup de paciente sin match => 404, distinto de lista vacía
	{
		st, _ := doReq(t, ts.URL, "GET", "/consultations?patient_nom=Nadie", nil, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 for unresolved patient, got %d", st)
		}
	}

	// 11) Fecha malformada en el filtro => 400
	{
		st, _ := doReq(t, ts.URL, "GET", "/consultations?date=15-03-2024", nil, nil)
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for bad date filter, got %d", st)
		}
	}

	// 12) Vista de detalle: historia completa ordenada
	{
		st, body := doReq(t, ts.URL, "GET", "/patients/"+strconv.Itoa(patientID)+"/consultations", nil, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 detail, got %d body=%s", st, string(body))
		}

		var resp struct {
			Patient struct {
				Nom string `json:"nom"`
			} `json:"patient"`
			Total   int `json:"total"`
			History []struct {
				DateConsultation string `json:"dateConsultation"`
			} `json:"history"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			t.Fatalf("unmarshal detail response: %v", err)
		}
		if resp.Patient.Nom != "Haddad" {
			t.Fatalf("expected patient header, got %#v", resp.Patient)
		}
		if resp.Total != 2 ||
			resp.History[0].DateConsultation != "2024-03-15" ||
			resp.History[1].DateConsultation != "2024-01-01" {
			t.Fatalf("expected full history most-recent-first, got %s", string(body))
		}
	}

	// 13) Detalle de paciente desconocido => 404
	{
		st, _ := doReq(t, ts.URL, "GET", "/patients/9999/consultations", nil, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 unknown patient, got %d", st)
		}
	}

	// 14) Resolución directa de identidad
	{
		st, body := doReq(t, ts.URL, "GET", "/patients/rechercher?nom=Haddad", nil, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 rechercher, got %d body=%s", st, string(body))
		}
	}

	// 15) Logout revoca la sesión
	{
		st, _ := doReq(t, ts.URL, "POST", "/logout", bearer, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 logout, got %d", st)
		}

		st, _ = doReq(t, ts.URL, "POST", "/consultations/creer", bearer, map[string]any{
			"patient": map[string]any{"prenom": "Karim", "nom": "Haddad"},
		})
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 after logout, got %d", st)
		}
	}
}

func TestHTTP_CreateConsultation_RequiresSession(t *testing.T) {
	ts := newTestServer(t, router.Options{
		Predictor: &stubPredictor{},
	})

	st, _ := doReq(t, ts.URL, "POST", "/consultations/creer", nil, map[string]any{
		"patient": map[string]any{"prenom": "Karim", "nom": "Haddad"},
	})
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", st)
	}
}

func TestHTTP_DebugHeadersCannotForgeIdentity(t *testing.T) {
	ts := newTestServer(t, router.Options{
		Predictor: &stubPredictor{},
	})

	forged := map[string]string{
		"X-Debug-User-ID": "999",
		"X-Debug-Role":    "admin",
	}

	// Los headers X-Debug-* no valen contra un router con verifier: un
	// caller sin sesión no puede fabricarse una identidad admin.
	{
		st, _ := doReq(t, ts.URL, "GET", "/infirmiers/", forged, nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 for forged admin headers, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "POST", "/consultations/creer", forged, map[string]any{
			"patient": map[string]any{"prenom": "Karim", "nom": "Haddad"},
		})
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 for forged identity on create, got %d", st)
		}
	}
}

func TestHTTP_NurseAdmin_RequiresIdentity(t *testing.T) {
	ts := newTestServer(t, router.Options{})

	st, _ := doReq(t, ts.URL, "GET", "/infirmiers/", nil, nil)
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", st)
	}
}

func TestHTTP_Login_BadCredentialsRejected(t *testing.T) {
	ts := newTestServer(t, router.Options{})

	st, body := doReq(t, ts.URL, "POST", "/login", nil, map[string]any{
		"nomUtilisateur": "nadie",
		"motDePasse":     "whatever",
	})
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 bad credentials, got %d body=%s", st, string(body))
	}

	var resp struct {
		Success bool `json:"success"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.Success {
		t.Fatalf("expected success=false")
	}
}

func login(t *testing.T, baseURL, username, password string) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/login", nil, map[string]any{
		"nomUtilisateur": username,
		"motDePasse":     password,
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 login, got %d body=%s", st, string(body))
	}

	var resp struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}
	_ = json.Unmarshal(body, &resp)
	if !resp.Success || resp.Token == "" {
		t.Fatalf("login: missing token body=%s", string(body))
	}
	return resp.Token
}

func doReq(t *testing.T, baseURL, method, path string, headers map[string]string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}

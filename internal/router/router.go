package router

import (
	"context"
	"database/sql"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"consultation-registry/internal/adapters/auth/sessions"
	"consultation-registry/internal/adapters/prediction/riskmodel"
	mem "consultation-registry/internal/adapters/storage/memory"
	pg "consultation-registry/internal/adapters/storage/postgres"
	"consultation-registry/internal/domain/consultations"
	"consultation-registry/internal/domain/nurses"
	"consultation-registry/internal/domain/patients"
	"consultation-registry/internal/middleware"
	"consultation-registry/internal/platform/logger"
	"consultation-registry/internal/ports/auth"
	"consultation-registry/internal/ports/prediction"
)

type Options struct {
	// Verifier de sesión. nil => se usa el store de sesiones propio.
	AuthVerifier auth.AuthVerifier

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: clasificador de riesgo. nil => cliente HTTP desde env.
	Predictor prediction.Predictor

	Log logger.Logger
}

func NewRouter(opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	// Sesiones propias: el login emite tokens opacos contra este store.
	sess := sessions.NewStore(0)
	verifier := opts.AuthVerifier
	if verifier == nil {
		verifier = sess
	}
	r.Use(middleware.AuthContext(verifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var (
		consultationsRepo consultations.Repository
		patientsRepo      patients.Repository
		nursesRepo        nurses.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warn("db open failed, falling back to in-memory", map[string]any{
					"error": err.Error(),
				})
			}
		}
	}

	if db != nil {
		consultationsRepo = pg.NewConsultationsRepo(db)
		patientsRepo = pg.NewPatientsRepo(db)
		nursesRepo = pg.NewNursesRepo(db)
	} else {
		consultationsRepo = mem.NewConsultationsRepo()
		patientsRepo = mem.NewPatientsRepo()
		nursesRepo = mem.NewNursesRepo()
	}

	predictor := opts.Predictor
	if predictor == nil {
		predictor = riskmodel.NewClientFromEnv()
	}

	// Services por módulo
	patientsSvc := patients.NewService(patientsRepo)
	nursesSvc := nurses.NewService(nursesRepo)

	// Cuenta admin inicial por env, para poder dar de alta al resto de las
	// cuentas (imprescindible con storage in-memory, que arranca vacío).
	if u, p := os.Getenv("ADMIN_USERNAME"), os.Getenv("ADMIN_PASSWORD"); u != "" && p != "" {
		if _, err := nursesSvc.Create(context.Background(), nurses.CreateInput{
			Nom:            u,
			NomUtilisateur: u,
			MotDePasse:     p,
			Role:           string(nurses.RoleAdmin),
		}); err != nil {
			// Con postgres la cuenta puede existir de corridas anteriores.
			log.Warn("admin bootstrap skipped", map[string]any{"error": err.Error()})
		}
	}

	snaps := consultations.NewSnapshotStore(consultationsRepo, log)
	consultationsSvc := consultations.NewService(snaps, consultationsRepo, patientsSvc, predictor, log)

	// Rutas por módulo
	consultations.RegisterRoutes(r, consultationsSvc)
	patients.RegisterRoutes(r, patientsSvc)
	nurses.RegisterRoutes(r, nursesSvc, sess)

	return r
}

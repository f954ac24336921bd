package consultations

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"consultation-registry/internal/domain/patients"
	"consultation-registry/internal/platform/logger"
	"consultation-registry/internal/ports/prediction"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	// ErrPredictionUnavailable: no hay clasificador configurado o falló.
	// El alta de consultas no puede inventar una clase de riesgo.
	ErrPredictionUnavailable = errors.New("prediction unavailable")
)

// Service es el orquestador de queries: compone la reducción "última
// consulta por paciente", el filtrado y la proyección de historia sobre
// la foto vigente, y posee la identidad de paciente resuelta externamente.
type Service struct {
	snaps     *SnapshotStore
	repo      Repository
	patients  *patients.Service
	predictor prediction.Predictor
	log       logger.Logger
	now       func() time.Time
}

func NewService(
	snaps *SnapshotStore,
	repo Repository,
	patientsSvc *patients.Service,
	predictor prediction.Predictor,
	log logger.Logger,
) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		snaps:     snaps,
		repo:      repo,
		patients:  patientsSvc,
		predictor: predictor,
		log:       log,
		now:       time.Now,
	}
}

type ListQuery struct {
	Criteria Criteria
	// PatientLookup, si viene, se resuelve contra el backend y su id pasa
	// a ser un criterio más. Resolución sin match => patients.ErrNotFound,
	// nunca una lista vacía silenciosa.
	PatientLookup *patients.Lookup
}

type ListResult struct {
	SnapshotID string
	FetchedAt  time.Time
	Stale      bool
	Rows       []Consultation
}

// ListView devuelve una fila por paciente (su consulta más reciente),
// filtrada por los criterios y ordenada por nom, prenom para display
// determinista.
func (s *Service) ListView(ctx context.Context, q ListQuery) (ListResult, error) {
	snap, stale, err := s.snapshot(ctx)
	if err != nil {
		return ListResult{}, err
	}

	cr := q.Criteria
	if q.PatientLookup != nil {
		p, err := s.patients.Resolve(ctx, *q.PatientLookup)
		if err != nil {
			return ListResult{}, err
		}
		id := p.ID
		cr.PatientID = &id
	}

	rows := Filter(LatestByPatient(snap.Records), cr)
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Patient, rows[j].Patient
		an, bn := strings.ToLower(a.Nom), strings.ToLower(b.Nom)
		if an != bn {
			return an < bn
		}
		return strings.ToLower(a.Prenom) < strings.ToLower(b.Prenom)
	})

	return ListResult{
		SnapshotID: snap.ID,
		FetchedAt:  snap.FetchedAt,
		Stale:      stale,
		Rows:       rows,
	}, nil
}

type DetailResult struct {
	SnapshotID string
	Stale      bool
	Patient    patients.Patient
	History    []Consultation
}

// DetailView devuelve la historia completa y ordenada de un paciente,
// junto con la entidad Patient para el encabezado.
func (s *Service) DetailView(ctx context.Context, patientID int) (DetailResult, error) {
	if patientID <= 0 {
		return DetailResult{}, ErrInvalidInput
	}

	snap, stale, err := s.snapshot(ctx)
	if err != nil {
		return DetailResult{}, err
	}

	p, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return DetailResult{}, err
	}

	return DetailResult{
		SnapshotID: snap.ID,
		Stale:      stale,
		Patient:    p,
		History:    HistoryFor(snap.Records, patientID),
	}, nil
}

// snapshot refetchea la foto; si el refetch falla pero hay una previa,
// la sirve marcada como stale en vez de devolver error. Sin foto previa
// no hay nada que servir: ErrNoSnapshot.
func (s *Service) snapshot(ctx context.Context) (*Snapshot, bool, error) {
	snap, err := s.snaps.Refresh(ctx)
	if err != nil {
		if snap != nil {
			return snap, true, nil
		}
		return nil, false, fmt.Errorf("%w: %v", ErrNoSnapshot, err)
	}
	return snap, false, nil
}

type CreateInput struct {
	Patient       patients.Patient // identidad inline del formulario, sin id
	NurseID       int
	NurseUsername string

	Age  int
	Sexe int
	Etat string
	EN   string
	T    string
	F    string
	AST  string
	A    string
	C    string
	Dys  string
	SDRA string
	E    string
	D    string
	ANS  string
	AGU  string
	DD   string

	DateConsultation string // vacío = hoy
}

// Create registra una consulta nueva: resuelve (o crea) la identidad del
// paciente, pide la clase de riesgo al clasificador externo y persiste.
// El motor de queries verá el registro en el próximo refetch.
func (s *Service) Create(ctx context.Context, in CreateInput) (Consultation, error) {
	if in.NurseID <= 0 {
		return Consultation{}, ErrInvalidInput
	}
	if s.predictor == nil {
		return Consultation{}, ErrPredictionUnavailable
	}

	date := strings.TrimSpace(in.DateConsultation)
	if date == "" {
		date = s.now().Format(dayLayout)
	}

	p, err := s.patients.GetOrCreate(ctx, in.Patient)
	if err != nil {
		return Consultation{}, err
	}

	assessment, err := s.predictor.Predict(ctx, prediction.Sample{
		Age: in.Age, Sexe: in.Sexe,
		Etat: in.Etat, EN: in.EN, T: in.T, F: in.F, AST: in.AST,
		A: in.A, C: in.C, Dys: in.Dys, SDRA: in.SDRA, E: in.E,
		D: in.D, ANS: in.ANS, AGU: in.AGU, DD: in.DD,
	})
	if err != nil {
		return Consultation{}, fmt.Errorf("%w: %v", ErrPredictionUnavailable, err)
	}

	c := Consultation{
		Patient:   p,
		Infirmier: Nurse{ID: in.NurseID, NomUtilisateur: in.NurseUsername},

		Age: in.Age, Sexe: in.Sexe,
		Etat: in.Etat, EN: in.EN, T: in.T, F: in.F, AST: in.AST,
		A: in.A, C: in.C, Dys: in.Dys, SDRA: in.SDRA, E: in.E,
		D: in.D, ANS: in.ANS, AGU: in.AGU, DD: in.DD,

		Class:            assessment.Class,
		Probability:      assessment.Probability,
		DateConsultation: date,
	}

	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return Consultation{}, err
	}

	s.log.Info("consultation created", map[string]any{
		"consultation_id": created.ID,
		"patient_id":      created.Patient.ID,
		"class":           created.Class,
	})
	return created, nil
}

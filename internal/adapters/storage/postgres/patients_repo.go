package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"consultation-registry/internal/domain/patients"
)

type PatientsRepo struct {
	db *sql.DB
}

func NewPatientsRepo(db *sql.DB) *PatientsRepo {
	return &PatientsRepo{db: db}
}

func (r *PatientsRepo) GetByID(ctx context.Context, id int) (patients.Patient, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, prenom, nom, adresse, date_naissance
		FROM patients
		WHERE id = $1
	`, id)

	p, err := scanPatient(row)
	if err == sql.ErrNoRows {
		return patients.Patient{}, patients.ErrNotFound
	}
	return p, err
}

func (r *PatientsRepo) Find(ctx context.Context, l patients.Lookup) (patients.Patient, error) {
	// Query dinámica: solo los criterios presentes filtran.
	sb := strings.Builder{}
	sb.WriteString(`
		SELECT id, prenom, nom, adresse, date_naissance
		FROM patients
		WHERE 1=1
	`)

	args := []any{}
	argN := 1

	if l.Nom != "" {
		sb.WriteString(fmt.Sprintf(" AND lower(nom) = lower($%d)", argN))
		args = append(args, l.Nom)
		argN++
	}
	if l.Prenom != "" {
		sb.WriteString(fmt.Sprintf(" AND lower(prenom) = lower($%d)", argN))
		args = append(args, l.Prenom)
		argN++
	}
	if l.DateNaissance != "" {
		sb.WriteString(fmt.Sprintf(" AND date_naissance = $%d", argN))
		args = append(args, l.DateNaissance)
		argN++
	}

	sb.WriteString(" ORDER BY id ASC LIMIT 1")

	row := r.db.QueryRowContext(ctx, sb.String(), args...)
	p, err := scanPatient(row)
	if err == sql.ErrNoRows {
		return patients.Patient{}, patients.ErrNotFound
	}
	return p, err
}

func (r *PatientsRepo) GetOrCreate(ctx context.Context, p patients.Patient) (patients.Patient, error) {
	// Identidad = nom + prenom + dateNaissance
	row := r.db.QueryRowContext(ctx, `
		SELECT id, prenom, nom, adresse, date_naissance
		FROM patients
		WHERE lower(nom) = lower($1)
		  AND lower(prenom) = lower($2)
		  AND date_naissance = $3
		ORDER BY id ASC
		LIMIT 1
	`, p.Nom, p.Prenom, p.DateNaissance)

	existing, err := scanPatient(row)
	if err == nil {
		return existing, nil
	}
	if err != sql.ErrNoRows {
		return patients.Patient{}, err
	}

	err = r.db.QueryRowContext(ctx, `
		INSERT INTO patients (prenom, nom, adresse, date_naissance)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, p.Prenom, p.Nom, p.Adresse, p.DateNaissance).Scan(&p.ID)
	if err != nil {
		return patients.Patient{}, err
	}
	return p, nil
}

func scanPatient(row *sql.Row) (patients.Patient, error) {
	var p patients.Patient
	err := row.Scan(&p.ID, &p.Prenom, &p.Nom, &p.Adresse, &p.DateNaissance)
	return p, err
}

package postgres

import (
	"context"
	"database/sql"

	"consultation-registry/internal/domain/consultations"
)

type ConsultationsRepo struct {
	db *sql.DB
}

func NewConsultationsRepo(db *sql.DB) *ConsultationsRepo {
	return &ConsultationsRepo{db: db}
}

const consultationColumns = `
	c.id,
	c.age, c.sexe,
	c.etat, c.en, c.t, c.f, c.ast, c.a, c.c, c.dys, c.sdra,
	c.e, c.d, c.ans, c.agu, c.dd,
	c.class, c.probability, c.date_consultation,
	p.id, p.prenom, p.nom, p.adresse, p.date_naissance,
	i.id, i.nom_utilisateur
`

// FetchAll trae la foto completa: todas las consultas con su paciente y
// el operador que las registró. El motor de queries trabaja en memoria
// sobre este resultado, no con WHEREs incrementales.
func (r *ConsultationsRepo) FetchAll(ctx context.Context) ([]consultations.Consultation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+consultationColumns+`
		FROM consultations c
		JOIN patients p ON p.id = c.patient_id
		JOIN infirmiers i ON i.id = c.infirmier_id
		ORDER BY c.id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]consultations.Consultation, 0)
	for rows.Next() {
		c, err := scanConsultation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ConsultationsRepo) Create(ctx context.Context, c consultations.Consultation) (consultations.Consultation, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO consultations (
			patient_id, infirmier_id,
			age, sexe,
			etat, en, t, f, ast, a, c, dys, sdra, e, d, ans, agu, dd,
			class, probability, date_consultation
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
		RETURNING id
	`,
		c.Patient.ID,
		c.Infirmier.ID,
		c.Age,
		c.Sexe,
		c.Etat, c.EN, c.T, c.F, c.AST, c.A, c.C, c.Dys, c.SDRA,
		c.E, c.D, c.ANS, c.AGU, c.DD,
		c.Class,
		c.Probability,
		c.DateConsultation,
	).Scan(&c.ID)
	if err != nil {
		return consultations.Consultation{}, err
	}
	return c, nil
}

func scanConsultation(rows *sql.Rows) (consultations.Consultation, error) {
	var c consultations.Consultation
	err := rows.Scan(
		&c.ID,
		&c.Age, &c.Sexe,
		&c.Etat, &c.EN, &c.T, &c.F, &c.AST, &c.A, &c.C, &c.Dys, &c.SDRA,
		&c.E, &c.D, &c.ANS, &c.AGU, &c.DD,
		&c.Class, &c.Probability, &c.DateConsultation,
		&c.Patient.ID, &c.Patient.Prenom, &c.Patient.Nom,
		&c.Patient.Adresse, &c.Patient.DateNaissance,
		&c.Infirmier.ID, &c.Infirmier.NomUtilisateur,
	)
	if err != nil {
		return consultations.Consultation{}, err
	}
	return c, nil
}

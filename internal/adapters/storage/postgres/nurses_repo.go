package postgres

import (
	"context"
	"database/sql"

	"consultation-registry/internal/domain/nurses"
)

type NursesRepo struct {
	db *sql.DB
}

func NewNursesRepo(db *sql.DB) *NursesRepo {
	return &NursesRepo{db: db}
}

func (r *NursesRepo) Create(ctx context.Context, n nurses.Nurse) (nurses.Nurse, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO infirmiers (nom, nom_utilisateur, email, mot_de_passe, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`,
		n.Nom,
		n.NomUtilisateur,
		n.Email,
		n.MotDePasse,
		string(n.Role),
	).Scan(&n.ID)
	if err != nil {
		return nurses.Nurse{}, err
	}
	return n, nil
}

func (r *NursesRepo) Update(ctx context.Context, n nurses.Nurse) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE infirmiers
		SET
			nom = $2,
			nom_utilisateur = $3,
			email = $4,
			mot_de_passe = $5,
			role = $6
		WHERE id = $1
	`,
		n.ID,
		n.Nom,
		n.NomUtilisateur,
		n.Email,
		n.MotDePasse,
		string(n.Role),
	)
	if err != nil {
		return err
	}
	cnt, _ := res.RowsAffected()
	if cnt == 0 {
		return nurses.ErrNotFound
	}
	return nil
}

func (r *NursesRepo) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM infirmiers WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	cnt, _ := res.RowsAffected()
	if cnt == 0 {
		return nurses.ErrNotFound
	}
	return nil
}

func (r *NursesRepo) GetByID(ctx context.Context, id int) (nurses.Nurse, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, nom, nom_utilisateur, email, mot_de_passe, role
		FROM infirmiers
		WHERE id = $1
	`, id)
	return scanNurse(row)
}

func (r *NursesRepo) GetByUsername(ctx context.Context, username string) (nurses.Nurse, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, nom, nom_utilisateur, email, mot_de_passe, role
		FROM infirmiers
		WHERE lower(nom_utilisateur) = lower($1)
	`, username)
	return scanNurse(row)
}

func (r *NursesRepo) List(ctx context.Context, search string) ([]nurses.Nurse, error) {
	query := `
		SELECT id, nom, nom_utilisateur, email, mot_de_passe, role
		FROM infirmiers
	`
	args := []any{}
	if search != "" {
		query += ` WHERE nom ILIKE $1 OR email ILIKE $1`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]nurses.Nurse, 0)
	for rows.Next() {
		var n nurses.Nurse
		var role string
		if err := rows.Scan(&n.ID, &n.Nom, &n.NomUtilisateur, &n.Email, &n.MotDePasse, &role); err != nil {
			return nil, err
		}
		n.Role = nurses.Role(role)
		out = append(out, n)
	}
	return out, rows.Err()
}

func scanNurse(row *sql.Row) (nurses.Nurse, error) {
	var n nurses.Nurse
	var role string
	if err := row.Scan(&n.ID, &n.Nom, &n.NomUtilisateur, &n.Email, &n.MotDePasse, &role); err != nil {
		if err == sql.ErrNoRows {
			return nurses.Nurse{}, nurses.ErrNotFound
		}
		return nurses.Nurse{}, err
	}
	n.Role = nurses.Role(role)
	return n, nil
}

package immunization

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicore/emr/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const immunizationCols = `id, patient_id, vaccine, date_administered::text,
	provider, lot_number, created_at, updated_at`

func scanImmunization(row pgx.Row) (*Immunization, error) {
	var im Immunization
	err := row.Scan(&im.ID, &im.PatientID, &im.Vaccine, &im.DateAdministered,
		&im.Provider, &im.LotNumber, &im.CreatedAt, &im.UpdatedAt)
	return &im, err
}

func (r *repoPG) Create(ctx context.Context, im *Immunization) error {
	im.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO immunizations (id, patient_id, vaccine, date_administered, provider, lot_number)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		im.ID, im.PatientID, im.Vaccine, im.DateAdministered, im.Provider, im.LotNumber)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Immunization, error) {
	return scanImmunization(r.conn(ctx).QueryRow(ctx, `SELECT `+immunizationCols+` FROM immunizations WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, im *Immunization) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE immunizations SET vaccine=$2, date_administered=$3, provider=$4,
			lot_number=$5, updated_at=NOW()
		WHERE id = $1`,
		im.ID, im.Vaccine, im.DateAdministered, im.Provider, im.LotNumber)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM immunizations WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Immunization, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM immunizations WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+immunizationCols+` FROM immunizations WHERE patient_id = $1
		 ORDER BY date_administered DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Immunization
	for rows.Next() {
		im, err := scanImmunization(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, im)
	}
	return items, total, nil
}

package administration

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medchart/medchart/internal/platform/db"
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
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const uniqueViolation = "23505"

func (r *repoPG) Create(ctx context.Context, a *Administration) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO administrations (id, patient_id, medicine_id, administered_at, status, message)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.PatientID, a.MedicineID, a.AdministeredAt, a.Status, a.Message)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateSuccess
	}
	return err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID string) ([]*Administration, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, patient_id, medicine_id, administered_at, status, message
		FROM administrations
		WHERE patient_id = $1
		ORDER BY administered_at DESC, id`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Administration
	for rows.Next() {
		var a Administration
		if err := rows.Scan(&a.ID, &a.PatientID, &a.MedicineID,
			&a.AdministeredAt, &a.Status, &a.Message); err != nil {
			return nil, err
		}
		items = append(items, &a)
	}
	return items, rows.Err()
}

func (r *repoPG) GetSuccess(ctx context.Context, patientID, medicineID string) (*Administration, error) {
	var a Administration
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, patient_id, medicine_id, administered_at, status, message
		FROM administrations
		WHERE patient_id = $1 AND medicine_id = $2 AND status = 'success'`,
		patientID, medicineID).
		Scan(&a.ID, &a.PatientID, &a.MedicineID, &a.AdministeredAt, &a.Status, &a.Message)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repoPG) DeleteByPatient(ctx context.Context, patientID string) error {
	_, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM administrations WHERE patient_id = $1`, patientID)
	return err
}

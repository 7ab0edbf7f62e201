package lab

import (
	"context"

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

func (r *repoPG) Create(ctx context.Context, res *Result) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO lab_results (id, patient_id, test_name, test_code, value, unit,
			reference_range, status, taken_at, resulted_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		res.ID, res.PatientID, res.TestName, res.TestCode, res.Value, res.Unit,
		res.ReferenceRange, res.Status, res.TakenAt, res.ResultedAt, res.Notes)
	return err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID string) ([]*Result, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, patient_id, test_name, test_code, value, unit,
			reference_range, status, taken_at, resulted_at, notes
		FROM lab_results
		WHERE patient_id = $1
		ORDER BY taken_at DESC, test_name`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Result
	for rows.Next() {
		var res Result
		if err := rows.Scan(&res.ID, &res.PatientID, &res.TestName, &res.TestCode,
			&res.Value, &res.Unit, &res.ReferenceRange, &res.Status,
			&res.TakenAt, &res.ResultedAt, &res.Notes); err != nil {
			return nil, err
		}
		items = append(items, &res)
	}
	return items, rows.Err()
}

func (r *repoPG) DeleteByPatient(ctx context.Context, patientID string) error {
	_, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM lab_results WHERE patient_id = $1`, patientID)
	return err
}

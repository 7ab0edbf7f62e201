package prescription

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

const prescriptionColumns = `id, patient_id, medicine_id, dosage, periodicity,
	duration, start_date, end_date`

func (r *repoPG) Create(ctx context.Context, p *Prescription) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO prescriptions (`+prescriptionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.PatientID, p.MedicineID, p.Dosage, p.Periodicity,
		p.Duration, p.StartDate, p.EndDate)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Prescription, error) {
	row := r.conn(ctx).QueryRow(ctx,
		`SELECT `+prescriptionColumns+` FROM prescriptions WHERE id = $1`, id)
	return scanPrescription(row)
}

func (r *repoPG) GetByPair(ctx context.Context, patientID, medicineID string) (*Prescription, error) {
	row := r.conn(ctx).QueryRow(ctx, `
		SELECT `+prescriptionColumns+` FROM prescriptions
		WHERE patient_id = $1 AND medicine_id = $2`, patientID, medicineID)
	return scanPrescription(row)
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID string) ([]*Prescription, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+prescriptionColumns+` FROM prescriptions
		WHERE patient_id = $1 ORDER BY id`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Prescription
	for rows.Next() {
		p, err := scanPrescription(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, p *Prescription) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE prescriptions SET
			dosage = $2, periodicity = $3, duration = $4, start_date = $5, end_date = $6
		WHERE id = $1`,
		p.ID, p.Dosage, p.Periodicity, p.Duration, p.StartDate, p.EndDate)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM prescriptions WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repoPG) DeleteByPatient(ctx context.Context, patientID string) error {
	_, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM prescriptions WHERE patient_id = $1`, patientID)
	return err
}

func scanPrescription(row pgx.Row) (*Prescription, error) {
	var p Prescription
	err := row.Scan(&p.ID, &p.PatientID, &p.MedicineID, &p.Dosage,
		&p.Periodicity, &p.Duration, &p.StartDate, &p.EndDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

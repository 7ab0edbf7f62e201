package patient

import (
	"context"
	"encoding/json"
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

const patientColumns = `id, name, dob, age, dose_weight, sex, mrn, fin, admitted,
	code_status, isolation, bed, allergies, status, provider, notes, department,
	chart_data, created_at`

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	chart, err := marshalChart(p.ChartData)
	if err != nil {
		return err
	}
	_, err = r.conn(ctx).Exec(ctx, `
		INSERT INTO patients (`+patientColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		p.ID, p.Name, p.DOB, p.Age, p.DoseWeight, p.Sex, p.MRN, p.FIN, p.Admitted,
		p.CodeStatus, p.Isolation, p.Bed, p.Allergies, p.Status, p.Provider,
		p.Notes, p.Department, chart, p.CreatedAt)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Patient, error) {
	row := r.conn(ctx).QueryRow(ctx,
		`SELECT `+patientColumns+` FROM patients WHERE id = $1`, id)
	return scanPatient(row)
}

func (r *repoPG) List(ctx context.Context) ([]*Patient, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+patientColumns+` FROM patients ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	chart, err := marshalChart(p.ChartData)
	if err != nil {
		return err
	}
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE patients SET
			name = $2, dob = $3, age = $4, dose_weight = $5, sex = $6, mrn = $7,
			fin = $8, admitted = $9, code_status = $10, isolation = $11, bed = $12,
			allergies = $13, status = $14, provider = $15, notes = $16,
			department = $17, chart_data = $18
		WHERE id = $1`,
		p.ID, p.Name, p.DOB, p.Age, p.DoseWeight, p.Sex, p.MRN, p.FIN, p.Admitted,
		p.CodeStatus, p.Isolation, p.Bed, p.Allergies, p.Status, p.Provider,
		p.Notes, p.Department, chart)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func marshalChart(cd *ChartData) ([]byte, error) {
	if cd == nil {
		return nil, nil
	}
	return json.Marshal(cd)
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	var chart []byte
	err := row.Scan(&p.ID, &p.Name, &p.DOB, &p.Age, &p.DoseWeight, &p.Sex,
		&p.MRN, &p.FIN, &p.Admitted, &p.CodeStatus, &p.Isolation, &p.Bed,
		&p.Allergies, &p.Status, &p.Provider, &p.Notes, &p.Department,
		&chart, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(chart) > 0 {
		p.ChartData = &ChartData{}
		if err := json.Unmarshal(chart, p.ChartData); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

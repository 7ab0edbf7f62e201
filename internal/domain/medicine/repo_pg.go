package medicine

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

func (r *repoPG) Create(ctx context.Context, m *Medicine) error {
	_, err := r.conn(ctx).Exec(ctx,
		`INSERT INTO medicines (id, name) VALUES ($1, $2)`, m.ID, m.Name)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Medicine, error) {
	var m Medicine
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT id, name FROM medicines WHERE id = $1`, id).Scan(&m.ID, &m.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repoPG) List(ctx context.Context) ([]*Medicine, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT id, name FROM medicines ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Medicine
	for rows.Next() {
		var m Medicine
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, err
		}
		items = append(items, &m)
	}
	return items, rows.Err()
}

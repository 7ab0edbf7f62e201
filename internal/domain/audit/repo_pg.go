package audit

import (
	"context"
	"encoding/json"
	"fmt"

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

const logCols = `id, entity_type, entity_id, action, changes, timestamp, user_id`

func scanLog(row pgx.Row) (*Log, error) {
	var l Log
	var changes []byte
	err := row.Scan(&l.ID, &l.EntityType, &l.EntityID, &l.Action, &changes, &l.Timestamp, &l.UserID)
	if err != nil {
		return nil, err
	}
	if len(changes) > 0 {
		if err := json.Unmarshal(changes, &l.Changes); err != nil {
			return nil, fmt.Errorf("decode changes: %w", err)
		}
	}
	return &l, nil
}

func (r *repoPG) Create(ctx context.Context, l *Log) error {
	changes, err := json.Marshal(l.Changes)
	if err != nil {
		return fmt.Errorf("encode changes: %w", err)
	}
	_, err = r.conn(ctx).Exec(ctx, `
		INSERT INTO audit_logs (id, entity_type, entity_id, action, changes, timestamp, user_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		l.ID, l.EntityType, l.EntityID, l.Action, changes, l.Timestamp, l.UserID)
	return err
}

func (r *repoPG) ListByEntity(ctx context.Context, entityType, entityID string) ([]*Log, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+logCols+` FROM audit_logs
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY timestamp DESC, id DESC`,
		entityType, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*Log
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

package audit

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, l *Log) error
	// ListByEntity returns entries for one entity, newest first.
	ListByEntity(ctx context.Context, entityType, entityID string) ([]*Log, error)
}

package medicine

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no medicine matches the requested ID.
var ErrNotFound = errors.New("medicine not found")

type Repository interface {
	Create(ctx context.Context, m *Medicine) error
	GetByID(ctx context.Context, id string) (*Medicine, error)
	List(ctx context.Context) ([]*Medicine, error)
}

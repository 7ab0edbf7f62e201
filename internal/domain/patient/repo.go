package patient

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no patient matches the requested ID.
var ErrNotFound = errors.New("patient not found")

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id string) (*Patient, error)
	List(ctx context.Context) ([]*Patient, error)
	Update(ctx context.Context, p *Patient) error
	// Delete reports whether a record existed and was removed.
	Delete(ctx context.Context, id string) (bool, error)
}

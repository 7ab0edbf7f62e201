package administration

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no administration matches the query.
var ErrNotFound = errors.New("administration not found")

// ErrDuplicateSuccess is returned by Create when a success record already
// exists for the (patient, medicine) pair. Backed by a partial unique index
// in postgres and the store mutex in memory, so concurrent scans cannot
// both record a success.
var ErrDuplicateSuccess = errors.New("success already recorded for this patient and medicine")

type Repository interface {
	Create(ctx context.Context, a *Administration) error
	ListByPatient(ctx context.Context, patientID string) ([]*Administration, error)
	// GetSuccess returns the success record for one (patient, medicine)
	// pair, or ErrNotFound.
	GetSuccess(ctx context.Context, patientID, medicineID string) (*Administration, error)
	DeleteByPatient(ctx context.Context, patientID string) error
}

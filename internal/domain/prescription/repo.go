package prescription

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no prescription matches the requested ID.
var ErrNotFound = errors.New("prescription not found")

type Repository interface {
	Create(ctx context.Context, p *Prescription) error
	GetByID(ctx context.Context, id string) (*Prescription, error)
	ListByPatient(ctx context.Context, patientID string) ([]*Prescription, error)
	// GetByPair returns the prescription for one (patient, medicine) pair,
	// or ErrNotFound.
	GetByPair(ctx context.Context, patientID, medicineID string) (*Prescription, error)
	Update(ctx context.Context, p *Prescription) error
	// Delete reports whether a record existed and was removed.
	Delete(ctx context.Context, id string) (bool, error)
	DeleteByPatient(ctx context.Context, patientID string) error
}

package lab

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, r *Result) error
	// ListByPatient returns results newest-collection-first.
	ListByPatient(ctx context.Context, patientID string) ([]*Result, error)
	DeleteByPatient(ctx context.Context, patientID string) error
}

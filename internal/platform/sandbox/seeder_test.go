package sandbox

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/medchart/medchart/internal/domain/medicine"
	"github.com/medchart/medchart/internal/domain/patient"
	"github.com/medchart/medchart/internal/domain/prescription"
)

func newSeeder() (*Seeder, patient.Repository, medicine.Repository, prescription.Repository) {
	patients := patient.NewRepoMem()
	medicines := medicine.NewRepoMem()
	prescriptions := prescription.NewRepoMem()
	return NewSeeder(patients, medicines, prescriptions, zerolog.Nop()),
		patients, medicines, prescriptions
}

func TestSeed_PopulatesDemoData(t *testing.T) {
	seeder, patients, medicines, prescriptions := newSeeder()
	ctx := context.Background()

	if err := seeder.Seed(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ps, err := patients.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ps) != 5 {
		t.Errorf("expected 5 demo patients, got %d", len(ps))
	}

	ms, err := medicines.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ms) != 11 {
		t.Errorf("expected 11 demo medicines, got %d", len(ms))
	}

	for _, patientID := range []string{"112233445566", "223344556677"} {
		items, err := prescriptions.ListByPatient(ctx, patientID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(items) != 3 {
			t.Errorf("expected 3 prescriptions for %s, got %d", patientID, len(items))
		}
	}
}

func TestSeed_IsIdempotent(t *testing.T) {
	seeder, patients, _, prescriptions := newSeeder()
	ctx := context.Background()

	if err := seeder.Seed(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A local edit must survive a re-seed.
	p, err := patients.GetByID(ctx, "112233445566")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p.Bed = "LD-999"
	if err := patients.Update(ctx, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := seeder.Seed(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, err = patients.GetByID(ctx, "112233445566")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Bed != "LD-999" {
		t.Errorf("re-seed overwrote an existing record: bed = %s", p.Bed)
	}

	items, err := prescriptions.ListByPatient(ctx, "112233445566")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 3 {
		t.Errorf("re-seed duplicated prescriptions: %d", len(items))
	}
}

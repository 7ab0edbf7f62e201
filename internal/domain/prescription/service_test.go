package prescription

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/medchart/medchart/internal/domain/audit"
	"github.com/medchart/medchart/internal/domain/medicine"
	"github.com/medchart/medchart/internal/domain/patient"
)

func newTestService(t *testing.T) (*Service, *audit.Recorder) {
	t.Helper()
	ctx := context.Background()
	rec := audit.NewRecorder(audit.NewRepoMem(), zerolog.Nop())

	patients := patient.NewService(patient.NewRepoMem(), rec)
	if err := patients.Create(ctx, &patient.Patient{
		ID: "112233445566", Name: "Olivia Chen", DOB: "1987-04-12",
	}); err != nil {
		t.Fatalf("seed patient: %v", err)
	}

	medicines := medicine.NewService(medicine.NewRepoMem())
	if err := medicines.Create(ctx, &medicine.Medicine{ID: "319084", Name: "Acetaminophen"}); err != nil {
		t.Fatalf("seed medicine: %v", err)
	}
	if err := medicines.Create(ctx, &medicine.Medicine{ID: "859672", Name: "Fentanyl"}); err != nil {
		t.Fatalf("seed medicine: %v", err)
	}

	return NewService(NewRepoMem(), patients, medicines, rec), rec
}

func TestCreate_AssignsIDAndAudits(t *testing.T) {
	svc, rec := newTestService(t)
	ctx := context.Background()

	p := &Prescription{
		PatientID:   "112233445566",
		MedicineID:  "319084",
		Dosage:      "650mg",
		Periodicity: "Every 6 hours",
	}
	if err := svc.Create(ctx, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == "" {
		t.Fatal("expected a generated id")
	}

	trail, err := rec.Query(ctx, audit.EntityPrescription, p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trail) != 1 || trail[0].Action != audit.ActionCreate {
		t.Fatalf("expected one create audit entry, got %v", trail)
	}
	if trail[0].Changes["dosage"] != "650mg" {
		t.Errorf("create audit should carry the record, got %v", trail[0].Changes)
	}
}

func TestCreate_ValidatesReferences(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	err := svc.Create(ctx, &Prescription{
		PatientID: "000000000000", MedicineID: "319084",
		Dosage: "650mg", Periodicity: "Every 6 hours",
	})
	if err == nil {
		t.Error("expected error for unknown patient")
	}

	err = svc.Create(ctx, &Prescription{
		PatientID: "112233445566", MedicineID: "999999",
		Dosage: "650mg", Periodicity: "Every 6 hours",
	})
	if err == nil {
		t.Error("expected error for unknown medicine")
	}

	err = svc.Create(ctx, &Prescription{
		PatientID: "112233445566", MedicineID: "319084", Periodicity: "Every 6 hours",
	})
	if err == nil {
		t.Error("expected error for missing dosage")
	}
}

func TestCreate_RejectsDuplicatePair(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first := &Prescription{
		PatientID: "112233445566", MedicineID: "319084",
		Dosage: "650mg", Periodicity: "Every 6 hours",
	}
	if err := svc.Create(ctx, first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := svc.Create(ctx, &Prescription{
		PatientID: "112233445566", MedicineID: "319084",
		Dosage: "325mg", Periodicity: "Every 4 hours",
	})
	if err == nil {
		t.Fatal("expected error for a second prescription of the same medicine")
	}

	// A different medicine for the same patient is fine.
	err = svc.Create(ctx, &Prescription{
		PatientID: "112233445566", MedicineID: "859672",
		Dosage: "25mcg", Periodicity: "As needed",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdate_AuditsDiff(t *testing.T) {
	svc, rec := newTestService(t)
	ctx := context.Background()

	p := &Prescription{
		PatientID: "112233445566", MedicineID: "319084",
		Dosage: "650mg", Periodicity: "Every 6 hours",
	}
	if err := svc.Create(ctx, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dosage := "325mg"
	updated, err := svc.Update(ctx, p.ID, &Update{Dosage: &dosage})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Dosage != "325mg" || updated.Periodicity != "Every 6 hours" {
		t.Errorf("wrong update result: %+v", updated)
	}

	trail, _ := rec.Query(ctx, audit.EntityPrescription, p.ID)
	if len(trail) != 2 || trail[0].Action != audit.ActionUpdate {
		t.Fatalf("expected update entry newest, got %v", trail)
	}
	change, ok := trail[0].Changes["dosage"].(audit.Change)
	if !ok || change.From != "650mg" || change.To != "325mg" {
		t.Errorf("wrong dosage diff: %v", trail[0].Changes)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _ := newTestService(t)
	dosage := "10mg"
	_, err := svc.Update(context.Background(), "missing", &Update{Dosage: &dosage})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete_AuditsSummary(t *testing.T) {
	svc, rec := newTestService(t)
	ctx := context.Background()

	p := &Prescription{
		PatientID: "112233445566", MedicineID: "319084",
		Dosage: "650mg", Periodicity: "Every 6 hours",
	}
	if err := svc.Create(ctx, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	deleted, err := svc.Delete(ctx, p.ID)
	if err != nil || !deleted {
		t.Fatalf("expected delete true, got %v %v", deleted, err)
	}
	if _, err := svc.Get(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected prescription gone, got %v", err)
	}

	trail, _ := rec.Query(ctx, audit.EntityPrescription, p.ID)
	if len(trail) != 2 || trail[0].Action != audit.ActionDelete {
		t.Fatalf("expected delete entry newest, got %v", trail)
	}

	deleted, err = svc.Delete(ctx, p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted {
		t.Error("second delete should report false")
	}
}

func TestDeleteByPatient(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, medID := range []string{"319084", "859672"} {
		p := &Prescription{
			PatientID: "112233445566", MedicineID: medID,
			Dosage: "1 dose", Periodicity: "Daily",
		}
		if err := svc.Create(ctx, p); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if err := svc.DeleteByPatient(ctx, "112233445566"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	items, err := svc.ListByPatient(ctx, "112233445566")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected no prescriptions left, got %d", len(items))
	}
}

package patient

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/medchart/medchart/internal/domain/audit"
)

func newTestService(purgers ...DependentPurger) (*Service, *audit.Recorder) {
	rec := audit.NewRecorder(audit.NewRepoMem(), zerolog.Nop())
	return NewService(NewRepoMem(), rec, purgers...), rec
}

func demoPatient(id string) *Patient {
	return &Patient{
		ID:   id,
		Name: "Olivia Chen",
		DOB:  "1987-04-12",
		Age:  38,
		Sex:  "F",
		MRN:  "MRN-48213",
		Bed:  "ICU-4",
	}
}

func TestCreate_GeneratesTwelveDigitID(t *testing.T) {
	svc, rec := newTestService()
	ctx := context.Background()

	p := demoPatient("")
	if err := svc.Create(ctx, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !validID(p.ID) {
		t.Errorf("expected a 12-digit id, got %q", p.ID)
	}
	if p.CreatedAt.IsZero() {
		t.Error("expected createdAt to be set")
	}

	// Registration leaves the audit trail empty; it begins with the first
	// update.
	trail, err := rec.Query(ctx, audit.EntityPatient, p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trail) != 0 {
		t.Fatalf("expected no audit entries after create, got %v", trail)
	}
}

func TestCreate_ValidatesSuppliedID(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p := demoPatient("12345")
	if err := svc.Create(ctx, p); err == nil {
		t.Error("expected error for a short id")
	}
	p = demoPatient("12345678901X")
	if err := svc.Create(ctx, p); err == nil {
		t.Error("expected error for a non-numeric id")
	}

	p = demoPatient("112233445566")
	if err := svc.Create(ctx, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Create(ctx, demoPatient("112233445566")); err == nil {
		t.Error("expected error for a duplicate id")
	}
}

func TestCreate_RequiresNameAndDOB(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p := demoPatient("")
	p.Name = "  "
	if err := svc.Create(ctx, p); err == nil {
		t.Error("expected error for missing name")
	}
	p = demoPatient("")
	p.DOB = ""
	if err := svc.Create(ctx, p); err == nil {
		t.Error("expected error for missing dob")
	}
}

func TestUpdate_AuditsOnlySuppliedFields(t *testing.T) {
	svc, rec := newTestService()
	ctx := context.Background()

	p := demoPatient("112233445566")
	if err := svc.Create(ctx, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bed := "ICU-7"
	notes := "transferred from ED"
	updated, err := svc.Update(ctx, p.ID, &Update{Bed: &bed, Notes: &notes})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Bed != "ICU-7" || updated.Notes != "transferred from ED" {
		t.Errorf("update not applied: %+v", updated)
	}
	if updated.Name != "Olivia Chen" {
		t.Errorf("unsupplied field changed: %+v", updated)
	}

	trail, err := rec.Query(ctx, audit.EntityPatient, p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trail) != 1 || trail[0].Action != audit.ActionUpdate {
		t.Fatalf("expected exactly the update entry, got %v", trail)
	}
	changes := trail[0].Changes
	if len(changes) != 2 {
		t.Fatalf("expected exactly the supplied fields in the diff, got %v", changes)
	}
	bedChange, ok := changes["bed"].(audit.Change)
	if !ok {
		t.Fatalf("expected bed diff, got %v", changes)
	}
	if bedChange.From != "ICU-4" || bedChange.To != "ICU-7" {
		t.Errorf("wrong bed diff: %+v", bedChange)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _ := newTestService()
	bed := "ICU-1"
	_, err := svc.Update(context.Background(), "000000000000", &Update{Bed: &bed})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

type recordingPurger struct {
	name  string
	order *[]string
	fail  bool
}

func (p *recordingPurger) DeleteByPatient(context.Context, string) error {
	if p.fail {
		return fmt.Errorf("%s purge failed", p.name)
	}
	*p.order = append(*p.order, p.name)
	return nil
}

func TestDelete_CascadesInOrder(t *testing.T) {
	var order []string
	svc, rec := newTestService(
		&recordingPurger{name: "labs", order: &order},
		&recordingPurger{name: "administrations", order: &order},
		&recordingPurger{name: "prescriptions", order: &order},
	)
	ctx := context.Background()

	p := demoPatient("112233445566")
	if err := svc.Create(ctx, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	deleted, err := svc.Delete(ctx, p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted {
		t.Fatal("expected delete to report true")
	}
	want := []string{"labs", "administrations", "prescriptions"}
	for i, name := range want {
		if i >= len(order) || order[i] != name {
			t.Fatalf("wrong purge order: %v", order)
		}
	}

	if _, err := svc.Get(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected patient gone, got %v", err)
	}

	trail, err := rec.Query(ctx, audit.EntityPatient, p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trail) != 1 || trail[0].Action != audit.ActionDelete {
		t.Fatalf("expected exactly the delete entry, got %v", trail)
	}
	if trail[0].Changes["name"] != "Olivia Chen" {
		t.Errorf("delete summary should name the patient, got %v", trail[0].Changes)
	}
}

func TestDelete_PurgeFailureAborts(t *testing.T) {
	var order []string
	svc, _ := newTestService(
		&recordingPurger{name: "labs", order: &order, fail: true},
		&recordingPurger{name: "administrations", order: &order},
	)
	ctx := context.Background()

	p := demoPatient("112233445566")
	if err := svc.Create(ctx, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Delete(ctx, p.ID); err == nil {
		t.Fatal("expected cascade failure to surface")
	}
	if len(order) != 0 {
		t.Errorf("later purgers should not run after a failure: %v", order)
	}
	if _, err := svc.Get(ctx, p.ID); err != nil {
		t.Errorf("patient should survive an aborted cascade: %v", err)
	}
}

func TestDelete_UsesTxRunnerWhenSet(t *testing.T) {
	var order []string
	svc, _ := newTestService(&recordingPurger{name: "prescriptions", order: &order})

	var wrapped bool
	svc.UseTx(func(ctx context.Context, fn func(context.Context) error) error {
		wrapped = true
		return fn(ctx)
	})

	ctx := context.Background()
	p := demoPatient("112233445566")
	if err := svc.Create(ctx, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	deleted, err := svc.Delete(ctx, p.ID)
	if err != nil || !deleted {
		t.Fatalf("expected delete true, got %v %v", deleted, err)
	}
	if !wrapped {
		t.Error("expected the cascade to run inside the tx runner")
	}
	if len(order) != 1 {
		t.Errorf("expected the purger to run, got %v", order)
	}
}

func TestDelete_UnknownPatient(t *testing.T) {
	svc, _ := newTestService()
	deleted, err := svc.Delete(context.Background(), "000000000000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted {
		t.Error("expected false for an unknown patient")
	}
}

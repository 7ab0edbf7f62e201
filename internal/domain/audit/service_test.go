package audit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func testRecorder() *Recorder {
	return NewRecorder(NewRepoMem(), zerolog.New(os.Stderr).Level(zerolog.Disabled))
}

func TestRecord_AssignsIDAndTimestamp(t *testing.T) {
	rec := testRecorder()
	ctx := context.Background()

	before := time.Now().UTC()
	l, err := rec.Record(ctx, EntityPatient, "112233445566", ActionCreate, map[string]any{"name": "Olivia Chen"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.ID == "" {
		t.Error("expected generated ID")
	}
	if l.Timestamp.Before(before) {
		t.Error("expected server-side timestamp")
	}
}

func TestRecord_RejectsUnknownEntityType(t *testing.T) {
	rec := testRecorder()
	if _, err := rec.Record(context.Background(), "medicine", "1", ActionCreate, nil); err == nil {
		t.Fatal("expected error for untracked entity type")
	}
}

func TestRecord_RejectsUnknownAction(t *testing.T) {
	rec := testRecorder()
	if _, err := rec.Record(context.Background(), EntityPatient, "1", "merge", nil); err == nil {
		t.Fatal("expected error for unknown action")
	}
}

func TestQuery_NewestFirst(t *testing.T) {
	rec := testRecorder()
	ctx := context.Background()

	const n = 5
	for i := 0; i < n; i++ {
		changes := map[string]any{
			"notes": Change{From: fmt.Sprintf("v%d", i), To: fmt.Sprintf("v%d", i+1)},
		}
		if _, err := rec.Record(ctx, EntityPatient, "112233445566", ActionUpdate, changes); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	logs, err := rec.Query(ctx, EntityPatient, "112233445566")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(logs) != n {
		t.Fatalf("expected %d entries, got %d", n, len(logs))
	}
	for i := 1; i < len(logs); i++ {
		if logs[i].Timestamp.After(logs[i-1].Timestamp) {
			t.Errorf("entry %d is newer than entry %d", i, i-1)
		}
	}
	// Newest entry carries the last diff written.
	ch, ok := logs[0].Changes["notes"].(Change)
	if !ok {
		t.Fatalf("expected notes change in newest entry, got %v", logs[0].Changes)
	}
	if ch.To != fmt.Sprintf("v%d", n) {
		t.Errorf("expected newest diff to be v%d, got %v", n, ch.To)
	}
}

func TestQuery_FiltersByEntity(t *testing.T) {
	rec := testRecorder()
	ctx := context.Background()

	rec.Record(ctx, EntityPatient, "p1", ActionCreate, nil)
	rec.Record(ctx, EntityPrescription, "rx1", ActionCreate, nil)
	rec.Record(ctx, EntityPatient, "p2", ActionCreate, nil)

	logs, err := rec.Query(ctx, EntityPatient, "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected 1 entry for p1, got %d", len(logs))
	}
	if logs[0].EntityID != "p1" {
		t.Errorf("expected p1, got %s", logs[0].EntityID)
	}
}

type failingRepo struct{}

func (failingRepo) Create(context.Context, *Log) error { return errors.New("disk full") }
func (failingRepo) ListByEntity(context.Context, string, string) ([]*Log, error) {
	return nil, nil
}

func TestRecord_SurfacesRepoFailure(t *testing.T) {
	rec := NewRecorder(failingRepo{}, zerolog.New(os.Stderr).Level(zerolog.Disabled))
	if _, err := rec.Record(context.Background(), EntityPatient, "p1", ActionCreate, nil); err == nil {
		t.Fatal("expected error when repository write fails")
	}
}

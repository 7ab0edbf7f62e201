package administration

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medchart/medchart/internal/domain/audit"
	"github.com/medchart/medchart/internal/domain/medicine"
	"github.com/medchart/medchart/internal/domain/prescription"
)

// ErrNoPriorSuccess is returned by ConfirmDuplicate when the pair has no
// success record to be a duplicate of.
var ErrNoPriorSuccess = errors.New("no prior successful administration for this patient and medicine")

// Service classifies medication scans against a patient's prescriptions and
// administration history, and durably records every attempt. Classification
// outcomes are never returned as Go errors; only storage failures are.
type Service struct {
	repo          Repository
	medicines     *medicine.Service
	prescriptions *prescription.Service
	rec           *audit.Recorder
}

func NewService(repo Repository, medicines *medicine.Service, prescriptions *prescription.Service, rec *audit.Recorder) *Service {
	return &Service{repo: repo, medicines: medicines, prescriptions: prescriptions, rec: rec}
}

// RecordScan classifies one scanned barcode and writes exactly one
// Administration record. The checks run in strict order: unknown medicine,
// then not-prescribed, then prior success. A blank scan is a no-op.
//
// This is the auto-logging variant: a duplicate scan records its warning
// immediately. Callers that want user confirmation first use
// DetectDuplicate and ConfirmDuplicate instead.
func (s *Service) RecordScan(ctx context.Context, patientID, scanned string) (*Administration, error) {
	scanned = strings.TrimSpace(scanned)
	if scanned == "" {
		return nil, nil
	}

	med, err := s.medicines.Get(ctx, scanned)
	if errors.Is(err, medicine.ErrNotFound) {
		return s.record(ctx, patientID, scanned, StatusError,
			fmt.Sprintf("ERROR: Scanned barcode %s is not a known medicine.", scanned))
	}
	if err != nil {
		return nil, err
	}

	prescribed, err := s.isPrescribed(ctx, patientID, med.ID)
	if err != nil {
		return nil, err
	}
	if !prescribed {
		return s.record(ctx, patientID, med.ID, StatusError,
			fmt.Sprintf("DANGER: Scanned medicine '%s' is NOT prescribed for this patient.", med.Name))
	}

	if _, err := s.repo.GetSuccess(ctx, patientID, med.ID); err == nil {
		return s.recordDuplicate(ctx, patientID, med)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	a, err := s.record(ctx, patientID, med.ID, StatusSuccess,
		fmt.Sprintf("SUCCESS: Administered '%s'.", med.Name))
	if errors.Is(err, ErrDuplicateSuccess) {
		// Lost the race against a concurrent scan of the same medicine.
		return s.recordDuplicate(ctx, patientID, med)
	}
	return a, err
}

// DetectDuplicate returns the prior success record for the pair, or nil.
// It never writes; pair it with ConfirmDuplicate after user confirmation.
func (s *Service) DetectDuplicate(ctx context.Context, patientID, medicineID string) (*Administration, error) {
	a, err := s.repo.GetSuccess(ctx, patientID, medicineID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return a, err
}

// ConfirmDuplicate records the warning entry for a duplicate the caller has
// acknowledged. It refuses when no prior success exists for the pair, so a
// confirmation cannot fabricate a duplicate.
func (s *Service) ConfirmDuplicate(ctx context.Context, patientID, medicineID string) (*Administration, error) {
	med, err := s.medicines.Get(ctx, medicineID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetSuccess(ctx, patientID, med.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNoPriorSuccess
		}
		return nil, err
	}
	return s.recordDuplicate(ctx, patientID, med)
}

func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]*Administration, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

// Progress reports distinct successfully administered medicines over the
// patient's current prescriptions. Zero prescriptions means 0%.
func (s *Service) Progress(ctx context.Context, patientID string) (*Progress, error) {
	prescriptions, err := s.prescriptions.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	admins, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	succeeded := make(map[string]bool)
	for _, a := range admins {
		if a.Status == StatusSuccess {
			succeeded[a.MedicineID] = true
		}
	}

	p := &Progress{Total: len(prescriptions)}
	for _, presc := range prescriptions {
		if succeeded[presc.MedicineID] {
			p.Administered++
		}
	}
	if p.Total > 0 {
		p.Percentage = int(math.Round(float64(p.Administered) / float64(p.Total) * 100))
	}
	return p, nil
}

// DeleteByPatient clears a patient's administration history during a
// cascade delete.
func (s *Service) DeleteByPatient(ctx context.Context, patientID string) error {
	return s.repo.DeleteByPatient(ctx, patientID)
}

func (s *Service) isPrescribed(ctx context.Context, patientID, medicineID string) (bool, error) {
	items, err := s.prescriptions.ListByPatient(ctx, patientID)
	if err != nil {
		return false, err
	}
	for _, p := range items {
		if p.MedicineID == medicineID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) recordDuplicate(ctx context.Context, patientID string, med *medicine.Medicine) (*Administration, error) {
	return s.record(ctx, patientID, med.ID, StatusWarning,
		fmt.Sprintf("WARNING: '%s' has already been administered.", med.Name))
}

func (s *Service) record(ctx context.Context, patientID, medicineID, status, message string) (*Administration, error) {
	a := &Administration{
		ID:             uuid.NewString(),
		PatientID:      patientID,
		MedicineID:     medicineID,
		AdministeredAt: time.Now().UTC(),
		Status:         status,
		Message:        message,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	_, _ = s.rec.Record(ctx, audit.EntityAdministration, a.ID, audit.ActionAdminister, map[string]any{
		"patientId":      a.PatientID,
		"medicineId":     a.MedicineID,
		"administeredAt": a.AdministeredAt,
		"status":         a.Status,
		"message":        a.Message,
	})
	return a, nil
}

package prescription

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/medchart/medchart/internal/domain/audit"
	"github.com/medchart/medchart/internal/domain/medicine"
	"github.com/medchart/medchart/internal/domain/patient"
)

type Service struct {
	repo      Repository
	patients  *patient.Service
	medicines *medicine.Service
	rec       *audit.Recorder
}

func NewService(repo Repository, patients *patient.Service, medicines *medicine.Service, rec *audit.Recorder) *Service {
	return &Service{repo: repo, patients: patients, medicines: medicines, rec: rec}
}

// Create validates both references and the pair uniqueness before writing.
func (s *Service) Create(ctx context.Context, p *Prescription) error {
	p.PatientID = strings.TrimSpace(p.PatientID)
	p.MedicineID = strings.TrimSpace(p.MedicineID)
	if p.PatientID == "" || p.MedicineID == "" {
		return fmt.Errorf("patientId and medicineId are required")
	}
	if strings.TrimSpace(p.Dosage) == "" {
		return fmt.Errorf("dosage is required")
	}
	if strings.TrimSpace(p.Periodicity) == "" {
		return fmt.Errorf("periodicity is required")
	}

	if _, err := s.patients.Get(ctx, p.PatientID); err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			return fmt.Errorf("patient %s does not exist", p.PatientID)
		}
		return err
	}
	m, err := s.medicines.Get(ctx, p.MedicineID)
	if err != nil {
		if errors.Is(err, medicine.ErrNotFound) {
			return fmt.Errorf("medicine %s does not exist", p.MedicineID)
		}
		return err
	}
	if _, err := s.repo.GetByPair(ctx, p.PatientID, p.MedicineID); err == nil {
		return fmt.Errorf("%s is already prescribed for this patient", m.Name)
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	p.ID = uuid.NewString()
	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}
	_, _ = s.rec.Record(ctx, audit.EntityPrescription, p.ID, audit.ActionCreate, recordMap(p))
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*Prescription, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]*Prescription, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

// Update applies a partial update and audits a {from, to} diff of the
// supplied fields only.
func (s *Service) Update(ctx context.Context, id string, u *Update) (*Prescription, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	diff := u.Apply(p)
	if len(diff) == 0 {
		return p, nil
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	changes := make(map[string]any, len(diff))
	for field, c := range diff {
		changes[field] = c
	}
	_, _ = s.rec.Record(ctx, audit.EntityPrescription, id, audit.ActionUpdate, changes)
	return p, nil
}

// Delete removes a prescription and reports whether one existed.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	p, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil || !deleted {
		return deleted, err
	}
	_, _ = s.rec.Record(ctx, audit.EntityPrescription, id, audit.ActionDelete, map[string]any{
		"patientId":  p.PatientID,
		"medicineId": p.MedicineID,
		"dosage":     p.Dosage,
	})
	return true, nil
}

// DeleteByPatient clears a patient's prescriptions during a cascade delete.
func (s *Service) DeleteByPatient(ctx context.Context, patientID string) error {
	return s.repo.DeleteByPatient(ctx, patientID)
}

func recordMap(p *Prescription) map[string]any {
	m := map[string]any{
		"id":          p.ID,
		"patientId":   p.PatientID,
		"medicineId":  p.MedicineID,
		"dosage":      p.Dosage,
		"periodicity": p.Periodicity,
	}
	if p.Duration != nil {
		m["duration"] = *p.Duration
	}
	if p.StartDate != nil {
		m["startDate"] = *p.StartDate
	}
	if p.EndDate != nil {
		m["endDate"] = *p.EndDate
	}
	return m
}

package prescription

import (
	"time"

	"github.com/medchart/medchart/internal/domain/audit"
)

// Prescription ties one catalog medicine to one patient. At most one
// prescription exists per (patient, medicine) pair.
type Prescription struct {
	ID          string     `db:"id" json:"id"`
	PatientID   string     `db:"patient_id" json:"patientId"`
	MedicineID  string     `db:"medicine_id" json:"medicineId"`
	Dosage      string     `db:"dosage" json:"dosage"`
	Periodicity string     `db:"periodicity" json:"periodicity"`
	Duration    *string    `db:"duration" json:"duration,omitempty"`
	StartDate   *time.Time `db:"start_date" json:"startDate,omitempty"`
	EndDate     *time.Time `db:"end_date" json:"endDate,omitempty"`
}

// Update carries a partial prescription update. Nil fields are left
// untouched; patient and medicine references cannot be changed.
type Update struct {
	Dosage      *string    `json:"dosage,omitempty"`
	Periodicity *string    `json:"periodicity,omitempty"`
	Duration    *string    `json:"duration,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
}

// Apply writes the supplied fields onto p and returns the audit diff,
// one {from, to} entry per supplied field.
func (u *Update) Apply(p *Prescription) map[string]audit.Change {
	diff := make(map[string]audit.Change)
	if u.Dosage != nil {
		diff["dosage"] = audit.Change{From: p.Dosage, To: *u.Dosage}
		p.Dosage = *u.Dosage
	}
	if u.Periodicity != nil {
		diff["periodicity"] = audit.Change{From: p.Periodicity, To: *u.Periodicity}
		p.Periodicity = *u.Periodicity
	}
	if u.Duration != nil {
		diff["duration"] = audit.Change{From: deref(p.Duration), To: *u.Duration}
		d := *u.Duration
		p.Duration = &d
	}
	if u.StartDate != nil {
		diff["startDate"] = audit.Change{From: p.StartDate, To: *u.StartDate}
		t := *u.StartDate
		p.StartDate = &t
	}
	if u.EndDate != nil {
		diff["endDate"] = audit.Change{From: p.EndDate, To: *u.EndDate}
		t := *u.EndDate
		p.EndDate = &t
	}
	return diff
}

func deref(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

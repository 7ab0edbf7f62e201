package lab

import (
	"time"
)

// Result statuses.
const (
	StatusNormal   = "normal"
	StatusAbnormal = "abnormal"
	StatusCritical = "critical"
	StatusPending  = "pending"
)

// Result is one synthesized lab value. Results are created in bulk by an
// order and never updated.
type Result struct {
	ID             string    `db:"id" json:"id"`
	PatientID      string    `db:"patient_id" json:"patientId"`
	TestName       string    `db:"test_name" json:"testName"`
	TestCode       string    `db:"test_code" json:"testCode"`
	Value          string    `db:"value" json:"value"`
	Unit           string    `db:"unit" json:"unit"`
	ReferenceRange string    `db:"reference_range" json:"referenceRange"`
	Status         string    `db:"status" json:"status"`
	TakenAt        time.Time `db:"taken_at" json:"takenAt"`
	ResultedAt     time.Time `db:"resulted_at" json:"resultedAt"`
	Notes          string    `db:"notes" json:"notes"`
}

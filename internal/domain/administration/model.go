package administration

import (
	"time"
)

// Scan classification outcomes. These are domain results, not failures; a
// scan that resolves to an error status still completes successfully.
const (
	StatusSuccess = "success"
	StatusWarning = "warning"
	StatusError   = "error"
)

// Administration is one recorded scan attempt. Append-only.
type Administration struct {
	ID             string    `db:"id" json:"id"`
	PatientID      string    `db:"patient_id" json:"patientId"`
	MedicineID     string    `db:"medicine_id" json:"medicineId"`
	AdministeredAt time.Time `db:"administered_at" json:"administeredAt"`
	Status         string    `db:"status" json:"status"`
	Message        string    `db:"message" json:"message"`
}

// Progress is the derived completion metric for one patient's medication
// round: distinct successfully administered medicines over prescribed ones.
type Progress struct {
	Administered int `json:"administered"`
	Total        int `json:"total"`
	Percentage   int `json:"percentage"`
}

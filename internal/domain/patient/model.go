package patient

import (
	"time"

	"github.com/medchart/medchart/internal/domain/audit"
)

// ChartData is the free-text narrative block of a patient chart.
type ChartData struct {
	Background string `json:"background"`
	Summary    string `json:"summary"`
	Discharge  string `json:"discharge"`
	Handoff    string `json:"handoff"`
}

// Patient is one admitted patient. The ID is a 12-digit numeric string that
// doubles as the wristband barcode payload.
type Patient struct {
	ID         string     `db:"id" json:"id"`
	Name       string     `db:"name" json:"name"`
	DOB        string     `db:"dob" json:"dob"`
	Age        int        `db:"age" json:"age"`
	DoseWeight string     `db:"dose_weight" json:"doseWeight"`
	Sex        string     `db:"sex" json:"sex"`
	MRN        string     `db:"mrn" json:"mrn"`
	FIN        string     `db:"fin" json:"fin"`
	Admitted   string     `db:"admitted" json:"admitted"`
	CodeStatus string     `db:"code_status" json:"codeStatus"`
	Isolation  string     `db:"isolation" json:"isolation"`
	Bed        string     `db:"bed" json:"bed"`
	Allergies  string     `db:"allergies" json:"allergies"`
	Status     string     `db:"status" json:"status"`
	Provider   string     `db:"provider" json:"provider"`
	Notes      string     `db:"notes" json:"notes"`
	Department string     `db:"department" json:"department"`
	ChartData  *ChartData `db:"chart_data" json:"chartData,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"createdAt"`
}

// Update carries a partial patient update. Nil fields are left untouched.
type Update struct {
	Name       *string    `json:"name,omitempty"`
	DOB        *string    `json:"dob,omitempty"`
	Age        *int       `json:"age,omitempty"`
	DoseWeight *string    `json:"doseWeight,omitempty"`
	Sex        *string    `json:"sex,omitempty"`
	MRN        *string    `json:"mrn,omitempty"`
	FIN        *string    `json:"fin,omitempty"`
	Admitted   *string    `json:"admitted,omitempty"`
	CodeStatus *string    `json:"codeStatus,omitempty"`
	Isolation  *string    `json:"isolation,omitempty"`
	Bed        *string    `json:"bed,omitempty"`
	Allergies  *string    `json:"allergies,omitempty"`
	Status     *string    `json:"status,omitempty"`
	Provider   *string    `json:"provider,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
	Department *string    `json:"department,omitempty"`
	ChartData  *ChartData `json:"chartData,omitempty"`
}

// Apply writes the supplied fields onto p and returns the audit diff,
// one {from, to} entry per field present in the update. Fields the caller
// did not supply are never reported, changed or not.
func (u *Update) Apply(p *Patient) map[string]audit.Change {
	diff := make(map[string]audit.Change)

	setStr := func(field string, dst *string, src *string) {
		if src == nil {
			return
		}
		diff[field] = audit.Change{From: *dst, To: *src}
		*dst = *src
	}

	setStr("name", &p.Name, u.Name)
	setStr("dob", &p.DOB, u.DOB)
	if u.Age != nil {
		diff["age"] = audit.Change{From: p.Age, To: *u.Age}
		p.Age = *u.Age
	}
	setStr("doseWeight", &p.DoseWeight, u.DoseWeight)
	setStr("sex", &p.Sex, u.Sex)
	setStr("mrn", &p.MRN, u.MRN)
	setStr("fin", &p.FIN, u.FIN)
	setStr("admitted", &p.Admitted, u.Admitted)
	setStr("codeStatus", &p.CodeStatus, u.CodeStatus)
	setStr("isolation", &p.Isolation, u.Isolation)
	setStr("bed", &p.Bed, u.Bed)
	setStr("allergies", &p.Allergies, u.Allergies)
	setStr("status", &p.Status, u.Status)
	setStr("provider", &p.Provider, u.Provider)
	setStr("notes", &p.Notes, u.Notes)
	setStr("department", &p.Department, u.Department)
	if u.ChartData != nil {
		diff["chartData"] = audit.Change{From: p.ChartData, To: u.ChartData}
		cd := *u.ChartData
		p.ChartData = &cd
	}
	return diff
}

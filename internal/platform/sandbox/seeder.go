// Package sandbox seeds the demo dataset used for developer on-boarding and
// UI walkthroughs: a small ward of patients, the medication barcode catalog,
// and prescription sets for the first two patients.
package sandbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/medchart/medchart/internal/domain/medicine"
	"github.com/medchart/medchart/internal/domain/patient"
	"github.com/medchart/medchart/internal/domain/prescription"
)

// Seeder writes the demo dataset through the repositories directly, so
// seeding leaves no audit trail. Existing records are left untouched.
type Seeder struct {
	patients      patient.Repository
	medicines     medicine.Repository
	prescriptions prescription.Repository
	log           zerolog.Logger
}

func NewSeeder(patients patient.Repository, medicines medicine.Repository, prescriptions prescription.Repository, log zerolog.Logger) *Seeder {
	return &Seeder{patients: patients, medicines: medicines, prescriptions: prescriptions, log: log}
}

// Seed inserts every demo record that is not already present.
func (s *Seeder) Seed(ctx context.Context) error {
	var patients, medicines, prescriptions int

	for _, p := range demoPatients() {
		if _, err := s.patients.GetByID(ctx, p.ID); err == nil {
			continue
		} else if !errors.Is(err, patient.ErrNotFound) {
			return fmt.Errorf("seed patient %s: %w", p.ID, err)
		}
		if err := s.patients.Create(ctx, p); err != nil {
			return fmt.Errorf("seed patient %s: %w", p.ID, err)
		}
		patients++
	}

	for _, m := range demoMedicines() {
		if _, err := s.medicines.GetByID(ctx, m.ID); err == nil {
			continue
		} else if !errors.Is(err, medicine.ErrNotFound) {
			return fmt.Errorf("seed medicine %s: %w", m.ID, err)
		}
		if err := s.medicines.Create(ctx, m); err != nil {
			return fmt.Errorf("seed medicine %s: %w", m.ID, err)
		}
		medicines++
	}

	for _, p := range demoPrescriptions() {
		if _, err := s.prescriptions.GetByPair(ctx, p.PatientID, p.MedicineID); err == nil {
			continue
		} else if !errors.Is(err, prescription.ErrNotFound) {
			return fmt.Errorf("seed prescription %s: %w", p.ID, err)
		}
		if err := s.prescriptions.Create(ctx, p); err != nil {
			return fmt.Errorf("seed prescription %s: %w", p.ID, err)
		}
		prescriptions++
	}

	s.log.Info().
		Int("patients", patients).
		Int("medicines", medicines).
		Int("prescriptions", prescriptions).
		Msg("demo data seeded")
	return nil
}

func demoPatients() []*patient.Patient {
	return []*patient.Patient{
		{
			ID: "112233445566", Name: "Olivia Chen", DOB: "1988-05-21", Age: 37,
			DoseWeight: "68 kg", Sex: "Female", MRN: "MRN7384920", FIN: "FIN5839201",
			Admitted: "2025-08-22", CodeStatus: "Full Code", Isolation: "None",
			Bed: "LD-102", Allergies: "None", Status: "Stable",
			Provider:   "Dr. Sarah Johnson",
			Notes:      "Responding well to treatment. Ready for discharge planning.",
			Department: "Labor & Delivery",
			ChartData: &patient.ChartData{
				Background: "<h3>Patient History</h3><p>Patient is a 37-year-old female with a history of hypertension and moderate persistent asthma, diagnosed 10 years ago. Well-managed on daily inhaled corticosteroids. No history of smoking. No known drug allergies.</p>",
				Summary:    "<h3>Admission Summary</h3><p>Admitted on 2025-08-22 for acute exacerbation of asthma, likely triggered by recent environmental allergens. Presented with shortness of breath, wheezing, and chest tightness. Currently stable on continuous nebulizer treatments and IV steroids.</p>",
				Discharge:  "<h3>Discharge Plan</h3><p>Plan for discharge in 2-3 days pending continued stability and successful wean from continuous nebulizers to PRN inhaler. Patient will need follow-up with PCP within 1 week of discharge. Education on inhaler technique and allergen avoidance to be reinforced.</p>",
				Handoff:    "<h3>SBAR Handoff</h3><p><strong>Situation:</strong> Olivia Chen is a 37 y/o female admitted for an asthma exacerbation, now stable.<br><strong>Background:</strong> History of HTN and asthma. No allergies.<br><strong>Assessment:</strong> Vitals stable, responding well to treatment, breath sounds improving.<br><strong>Recommendation:</strong> Continue current plan of care. Monitor for any signs of respiratory distress. Wean nebulizer treatments as tolerated.</p>",
			},
			CreatedAt: time.Date(2025, 8, 22, 0, 0, 0, 0, time.UTC),
		},
		{
			ID: "223344556677", Name: "Benjamin Carter", DOB: "1954-11-10", Age: 70,
			DoseWeight: "85 kg", Sex: "Male", MRN: "MRN2947561", FIN: "FIN8472019",
			Admitted: "2025-08-20", CodeStatus: "DNR/DNI",
			Isolation: "Contact Precautions (MRSA)",
			Bed:       "ICU-205", Allergies: "Penicillin", Status: "Improving",
			Provider:   "Dr. Michael Torres",
			Notes:      "Antibiotics showing good response. Monitor renal function.",
			Department: "Medical",
			ChartData: &patient.ChartData{
				Background: "<h3>Patient History</h3><p>70-year-old male with a significant history of Type 2 Diabetes, coronary artery disease (s/p CABG x3 in 2018), and chronic kidney disease stage 3. History of MRSA colonization.</p>",
				Summary:    "<h3>Admission Summary</h3><p>Admitted for community-acquired pneumonia. Presented with fever, productive cough, and hypoxia. Started on broad-spectrum antibiotics. Showing slow but steady improvement.</p>",
				Discharge:  "<h3>Discharge Plan</h3><p>Requires at least 5 more days of IV antibiotics. Plan for transition to oral antibiotics once clinically stable. Physical therapy consult initiated for deconditioning.</p>",
				Handoff:    "<h3>SBAR Handoff</h3><p><strong>Situation:</strong> Benjamin Carter, 70 y/o male with pneumonia.<br><strong>Background:</strong> Complicated PMH including CAD, DM2, CKD. Contact isolation for MRSA.<br><strong>Assessment:</strong> Responding to antibiotics, afebrile, O2 sats improving on 2L NC.<br><strong>Recommendation:</strong> Continue antibiotics, monitor renal function, encourage mobility.</p>",
			},
			CreatedAt: time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC),
		},
		{
			ID: "334455667788", Name: "Maria Rodriguez", DOB: "1995-03-15", Age: 29,
			DoseWeight: "62 kg", Sex: "Female", MRN: "MRN8392745", FIN: "FIN6472831",
			Admitted: "2025-08-23", CodeStatus: "Full Code", Isolation: "None",
			Bed: "PP-108", Allergies: "Latex, Shellfish", Status: "Good",
			Provider:   "Dr. Jennifer Kim",
			Notes:      "C-section recovery progressing well. Breastfeeding established.",
			Department: "Postpartum",
			ChartData: &patient.ChartData{
				Background: "<h3>Patient History</h3><p>29-year-old G2P2 female with history of gestational diabetes during first pregnancy. No other significant medical history.</p>",
				Summary:    "<h3>Admission Summary</h3><p>Admitted for elective repeat C-section at 39 weeks gestation. Surgery uncomplicated, healthy baby girl delivered.</p>",
				Discharge:  "<h3>Discharge Plan</h3><p>Plan for discharge POD#2 if meeting milestones. Staple removal scheduled for POD#7.</p>",
				Handoff:    "<h3>SBAR Handoff</h3><p><strong>Situation:</strong> Maria Rodriguez, 29 y/o s/p repeat C-section.<br><strong>Background:</strong> G2P2, previous GDM history.<br><strong>Assessment:</strong> Post-op recovery normal, breastfeeding established.<br><strong>Recommendation:</strong> Continue routine post-op care, encourage ambulation.</p>",
			},
			CreatedAt: time.Date(2025, 8, 23, 0, 0, 0, 0, time.UTC),
		},
		{
			ID: "445566778899", Name: "Baby Rodriguez", DOB: "2025-08-23", Age: 0,
			DoseWeight: "3.2 kg", Sex: "Female", MRN: "MRN8392746", FIN: "FIN6472832",
			Admitted: "2025-08-23", CodeStatus: "Full Code", Isolation: "None",
			Bed: "NBN-201", Allergies: "None", Status: "Healthy",
			Provider:   "Dr. Robert Chen",
			Notes:      "Term newborn, feeding well, normal newborn exam.",
			Department: "Newborn",
			ChartData: &patient.ChartData{
				Background: "<h3>Birth History</h3><p>Term female infant born via repeat C-section at 39 weeks to 29-year-old G2P2 mother. Birth weight 3.2 kg.</p>",
				Summary:    "<h3>Newborn Summary</h3><p>Vigorous newborn with Apgars 8/9. No resuscitation required. Normal transition to extrauterine life.</p>",
				Discharge:  "<h3>Discharge Plan</h3><p>Routine newborn care. Discharge with mother when ready.</p>",
				Handoff:    "<h3>SBAR Handoff</h3><p><strong>Situation:</strong> Healthy term newborn.<br><strong>Background:</strong> Born via repeat C-section, uncomplicated delivery.<br><strong>Assessment:</strong> Feeding well, vital signs stable.<br><strong>Recommendation:</strong> Continue routine newborn care.</p>",
			},
			CreatedAt: time.Date(2025, 8, 23, 0, 0, 0, 0, time.UTC),
		},
		{
			ID: "556677889900", Name: "Ashley Thompson", DOB: "1992-07-08", Age: 32,
			DoseWeight: "75 kg", Sex: "Female", MRN: "MRN5472839", FIN: "FIN9384720",
			Admitted: "2025-08-24", CodeStatus: "Full Code", Isolation: "None",
			Bed: "LD-105", Allergies: "Codeine", Status: "Active Labor",
			Provider:   "Dr. Sarah Johnson",
			Notes:      "G1P0, 40 weeks, active labor. Epidural placed.",
			Department: "Labor & Delivery",
			ChartData: &patient.ChartData{
				Background: "<h3>Patient History</h3><p>32-year-old G1P0 at 40 weeks gestation. Prenatal course uncomplicated. No significant medical history.</p>",
				Summary:    "<h3>Admission Summary</h3><p>Admitted in active labor with regular contractions every 3-4 minutes. Cervix 6cm dilated.</p>",
				Discharge:  "<h3>Discharge Plan</h3><p>Awaiting delivery and postpartum recovery.</p>",
				Handoff:    "<h3>SBAR Handoff</h3><p><strong>Situation:</strong> Ashley Thompson, 32 y/o G1P0 in active labor.<br><strong>Background:</strong> Term pregnancy, uncomplicated course.<br><strong>Assessment:</strong> Active labor progressing normally, epidural in place.<br><strong>Recommendation:</strong> Continue labor support, monitor fetal heart rate.</p>",
			},
			CreatedAt: time.Date(2025, 8, 24, 0, 0, 0, 0, time.UTC),
		},
	}
}

func demoMedicines() []*medicine.Medicine {
	return []*medicine.Medicine{
		{ID: "319084", Name: "Acetaminophen"},
		{ID: "369402", Name: "Colace/Docusate Sodium"},
		{ID: "6843902", Name: "Dermoplast Spray"},
		{ID: "0613444", Name: "Dulcolax"},
		{ID: "195673", Name: "Energix/Hepatitis (for mom)"},
		{ID: "95283134", Name: "Ephedrine"},
		{ID: "859672", Name: "Fentanyl"},
		{ID: "3576934", Name: "Ibuprofen/Motrin"},
		{ID: "6032924", Name: "Toradol"},
		{ID: "09509828942", Name: "Morphine"},
		{ID: "2094434849303", Name: "Labetalol"},
	}
}

func demoPrescriptions() []*prescription.Prescription {
	return []*prescription.Prescription{
		{ID: "1", PatientID: "112233445566", MedicineID: "3576934", Dosage: "600mg", Periodicity: "Every 6 hours"},
		{ID: "2", PatientID: "112233445566", MedicineID: "95283134", Dosage: "25mg", Periodicity: "As needed"},
		{ID: "3", PatientID: "112233445566", MedicineID: "6032924", Dosage: "30mg", Periodicity: "Every 8 hours"},
		{ID: "4", PatientID: "223344556677", MedicineID: "09509828942", Dosage: "2mg", Periodicity: "Every 4 hours as needed"},
		{ID: "5", PatientID: "223344556677", MedicineID: "319084", Dosage: "1000mg", Periodicity: "Every 6 hours"},
		{ID: "6", PatientID: "223344556677", MedicineID: "2094434849303", Dosage: "200mg", Periodicity: "Twice daily"},
	}
}

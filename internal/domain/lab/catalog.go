package lab

// TestType is one orderable test with its normal range. The catalog is
// fixed; unknown codes in an order are skipped, not rejected.
type TestType struct {
	Code           string  `json:"code"`
	Name           string  `json:"name"`
	Unit           string  `json:"unit"`
	ReferenceRange string  `json:"referenceRange"`
	Min            float64 `json:"-"`
	Max            float64 `json:"-"`
	Precision      int     `json:"-"`
}

var catalog = []TestType{
	{Code: "WBC", Name: "White Blood Cell Count", Unit: "10^3/uL", ReferenceRange: "4.5-11.0", Min: 4.5, Max: 11.0, Precision: 1},
	{Code: "HGB", Name: "Hemoglobin", Unit: "g/dL", ReferenceRange: "12.0-16.0", Min: 12.0, Max: 16.0, Precision: 1},
	{Code: "PLT", Name: "Platelet Count", Unit: "10^3/uL", ReferenceRange: "150-400", Min: 150, Max: 400, Precision: 0},
	{Code: "NA", Name: "Sodium", Unit: "mmol/L", ReferenceRange: "135-145", Min: 135, Max: 145, Precision: 0},
	{Code: "K", Name: "Potassium", Unit: "mmol/L", ReferenceRange: "3.5-5.0", Min: 3.5, Max: 5.0, Precision: 1},
	{Code: "CR", Name: "Creatinine", Unit: "mg/dL", ReferenceRange: "0.6-1.2", Min: 0.6, Max: 1.2, Precision: 2},
	{Code: "BUN", Name: "Blood Urea Nitrogen", Unit: "mg/dL", ReferenceRange: "7-20", Min: 7, Max: 20, Precision: 0},
	{Code: "GLU", Name: "Glucose", Unit: "mg/dL", ReferenceRange: "70-100", Min: 70, Max: 100, Precision: 0},
	{Code: "CA", Name: "Calcium", Unit: "mg/dL", ReferenceRange: "8.5-10.5", Min: 8.5, Max: 10.5, Precision: 1},
	{Code: "HBA1C", Name: "Hemoglobin A1c", Unit: "%", ReferenceRange: "4.0-5.6", Min: 4.0, Max: 5.6, Precision: 1},
	{Code: "TSH", Name: "Thyroid Stimulating Hormone", Unit: "mIU/L", ReferenceRange: "0.4-4.0", Min: 0.4, Max: 4.0, Precision: 2},
}

var catalogByCode = func() map[string]TestType {
	m := make(map[string]TestType, len(catalog))
	for _, tt := range catalog {
		m[tt.Code] = tt
	}
	return m
}()

// TestTypes returns the orderable catalog in its display order.
func TestTypes() []TestType {
	out := make([]TestType, len(catalog))
	copy(out, catalog)
	return out
}

package medicine

// Medicine is one catalog entry. The ID is the barcode payload printed on
// the medication package. Entries are immutable once created.
type Medicine struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

package administration

import (
	"context"
	"sort"
	"sync"
)

type memEntry struct {
	admin *Administration
	seq   int
}

type repoMem struct {
	mu     sync.Mutex
	admins map[string]*memEntry
	seq    int
}

// NewRepoMem returns an in-memory Repository. State is lost on restart.
func NewRepoMem() Repository {
	return &repoMem{admins: make(map[string]*memEntry)}
}

// Create mirrors the partial unique index the postgres store relies on:
// the duplicate check and the insert happen under one mutex hold.
func (r *repoMem) Create(_ context.Context, a *Administration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.Status == StatusSuccess {
		for _, e := range r.admins {
			if e.admin.PatientID == a.PatientID &&
				e.admin.MedicineID == a.MedicineID &&
				e.admin.Status == StatusSuccess {
				return ErrDuplicateSuccess
			}
		}
	}
	clone := *a
	r.seq++
	r.admins[a.ID] = &memEntry{admin: &clone, seq: r.seq}
	return nil
}

func (r *repoMem) ListByPatient(_ context.Context, patientID string) ([]*Administration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var entries []*memEntry
	for _, e := range r.admins {
		if e.admin.PatientID == patientID {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.admin.AdministeredAt.Equal(b.admin.AdministeredAt) {
			return a.admin.AdministeredAt.After(b.admin.AdministeredAt)
		}
		return a.seq > b.seq
	})
	items := make([]*Administration, len(entries))
	for i, e := range entries {
		clone := *e.admin
		items[i] = &clone
	}
	return items, nil
}

func (r *repoMem) GetSuccess(_ context.Context, patientID, medicineID string) (*Administration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.admins {
		if e.admin.PatientID == patientID &&
			e.admin.MedicineID == medicineID &&
			e.admin.Status == StatusSuccess {
			clone := *e.admin
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (r *repoMem) DeleteByPatient(_ context.Context, patientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, e := range r.admins {
		if e.admin.PatientID == patientID {
			delete(r.admins, id)
		}
	}
	return nil
}

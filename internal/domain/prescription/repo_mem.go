package prescription

import (
	"context"
	"sort"
	"sync"
)

type repoMem struct {
	mu    sync.RWMutex
	presc map[string]*Prescription
}

// NewRepoMem returns an in-memory Repository. State is lost on restart.
func NewRepoMem() Repository {
	return &repoMem{presc: make(map[string]*Prescription)}
}

func clonePrescription(p *Prescription) *Prescription {
	c := *p
	if p.Duration != nil {
		d := *p.Duration
		c.Duration = &d
	}
	if p.StartDate != nil {
		t := *p.StartDate
		c.StartDate = &t
	}
	if p.EndDate != nil {
		t := *p.EndDate
		c.EndDate = &t
	}
	return &c
}

func (r *repoMem) Create(_ context.Context, p *Prescription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.presc[p.ID] = clonePrescription(p)
	return nil
}

func (r *repoMem) GetByID(_ context.Context, id string) (*Prescription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.presc[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clonePrescription(p), nil
}

func (r *repoMem) GetByPair(_ context.Context, patientID, medicineID string) (*Prescription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.presc {
		if p.PatientID == patientID && p.MedicineID == medicineID {
			return clonePrescription(p), nil
		}
	}
	return nil, ErrNotFound
}

func (r *repoMem) ListByPatient(_ context.Context, patientID string) ([]*Prescription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var items []*Prescription
	for _, p := range r.presc {
		if p.PatientID == patientID {
			items = append(items, clonePrescription(p))
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *repoMem) Update(_ context.Context, p *Prescription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.presc[p.ID]; !ok {
		return ErrNotFound
	}
	r.presc[p.ID] = clonePrescription(p)
	return nil
}

func (r *repoMem) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.presc[id]; !ok {
		return false, nil
	}
	delete(r.presc, id)
	return true, nil
}

func (r *repoMem) DeleteByPatient(_ context.Context, patientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, p := range r.presc {
		if p.PatientID == patientID {
			delete(r.presc, id)
		}
	}
	return nil
}

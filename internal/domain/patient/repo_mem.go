package patient

import (
	"context"
	"sort"
	"sync"
)

type repoMem struct {
	mu       sync.RWMutex
	patients map[string]*Patient
}

// NewRepoMem returns an in-memory Repository. State is lost on restart.
func NewRepoMem() Repository {
	return &repoMem{patients: make(map[string]*Patient)}
}

func clonePatient(p *Patient) *Patient {
	c := *p
	if p.ChartData != nil {
		cd := *p.ChartData
		c.ChartData = &cd
	}
	return &c
}

func (r *repoMem) Create(_ context.Context, p *Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patients[p.ID] = clonePatient(p)
	return nil
}

func (r *repoMem) GetByID(_ context.Context, id string) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.patients[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clonePatient(p), nil
}

func (r *repoMem) List(_ context.Context) ([]*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]*Patient, 0, len(r.patients))
	for _, p := range r.patients {
		items = append(items, clonePatient(p))
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (r *repoMem) Update(_ context.Context, p *Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.patients[p.ID]; !ok {
		return ErrNotFound
	}
	r.patients[p.ID] = clonePatient(p)
	return nil
}

func (r *repoMem) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.patients[id]; !ok {
		return false, nil
	}
	delete(r.patients, id)
	return true, nil
}

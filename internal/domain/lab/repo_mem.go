package lab

import (
	"context"
	"sort"
	"sync"
)

type repoMem struct {
	mu      sync.RWMutex
	results map[string]*Result
}

// NewRepoMem returns an in-memory Repository. State is lost on restart.
func NewRepoMem() Repository {
	return &repoMem{results: make(map[string]*Result)}
}

func (r *repoMem) Create(_ context.Context, res *Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *res
	r.results[res.ID] = &clone
	return nil
}

func (r *repoMem) ListByPatient(_ context.Context, patientID string) ([]*Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var items []*Result
	for _, res := range r.results {
		if res.PatientID == patientID {
			clone := *res
			items = append(items, &clone)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].TakenAt.Equal(items[j].TakenAt) {
			return items[i].TakenAt.After(items[j].TakenAt)
		}
		return items[i].TestName < items[j].TestName
	})
	return items, nil
}

func (r *repoMem) DeleteByPatient(_ context.Context, patientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, res := range r.results {
		if res.PatientID == patientID {
			delete(r.results, id)
		}
	}
	return nil
}

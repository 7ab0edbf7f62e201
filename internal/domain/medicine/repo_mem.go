package medicine

import (
	"context"
	"sort"
	"sync"
)

type repoMem struct {
	mu   sync.RWMutex
	meds map[string]*Medicine
}

// NewRepoMem returns an in-memory Repository. State is lost on restart.
func NewRepoMem() Repository {
	return &repoMem{meds: make(map[string]*Medicine)}
}

func (r *repoMem) Create(_ context.Context, m *Medicine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *m
	r.meds[m.ID] = &clone
	return nil
}

func (r *repoMem) GetByID(_ context.Context, id string) (*Medicine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.meds[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *m
	return &clone, nil
}

func (r *repoMem) List(_ context.Context) ([]*Medicine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]*Medicine, 0, len(r.meds))
	for _, m := range r.meds {
		clone := *m
		items = append(items, &clone)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

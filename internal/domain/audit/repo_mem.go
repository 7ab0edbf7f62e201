package audit

import (
	"context"
	"sort"
	"sync"
)

type memEntry struct {
	log *Log
	seq uint64
}

type repoMem struct {
	mu      sync.RWMutex
	entries []memEntry
	seq     uint64
}

// NewRepoMem returns an in-memory Repository. State is lost on restart.
func NewRepoMem() Repository {
	return &repoMem{}
}

func (r *repoMem) Create(_ context.Context, l *Log) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *l
	r.seq++
	r.entries = append(r.entries, memEntry{log: &clone, seq: r.seq})
	return nil
}

func (r *repoMem) ListByEntity(_ context.Context, entityType, entityID string) ([]*Log, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []memEntry
	for _, e := range r.entries {
		if e.log.EntityType == entityType && e.log.EntityID == entityID {
			matched = append(matched, e)
		}
	}

	// Newest first; insertion order breaks timestamp ties.
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].log.Timestamp.Equal(matched[j].log.Timestamp) {
			return matched[i].log.Timestamp.After(matched[j].log.Timestamp)
		}
		return matched[i].seq > matched[j].seq
	})

	logs := make([]*Log, len(matched))
	for i, e := range matched {
		clone := *e.log
		logs[i] = &clone
	}
	return logs, nil
}

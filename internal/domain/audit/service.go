package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Recorder appends audit trail entries. Mutating services call Record after
// their primary write succeeds; a failed audit write is logged here and
// reported to the caller, but the primary write is never rolled back.
type Recorder struct {
	repo Repository
	log  zerolog.Logger
}

func NewRecorder(repo Repository, log zerolog.Logger) *Recorder {
	return &Recorder{repo: repo, log: log}
}

// Record appends one entry with a server-side timestamp.
func (r *Recorder) Record(ctx context.Context, entityType, entityID, action string, changes map[string]any) (*Log, error) {
	if !validEntityTypes[entityType] {
		return nil, fmt.Errorf("unknown audit entity type: %s", entityType)
	}
	if !validActions[action] {
		return nil, fmt.Errorf("unknown audit action: %s", action)
	}

	l := &Log{
		ID:         uuid.NewString(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Changes:    changes,
		Timestamp:  time.Now().UTC(),
	}
	if err := r.repo.Create(ctx, l); err != nil {
		r.log.Error().Err(err).
			Str("entity_type", entityType).
			Str("entity_id", entityID).
			Str("action", action).
			Msg("audit write failed; primary write not rolled back")
		return nil, fmt.Errorf("record audit entry: %w", err)
	}
	return l, nil
}

// Query returns an entity's trail, newest first.
func (r *Recorder) Query(ctx context.Context, entityType, entityID string) ([]*Log, error) {
	if !validEntityTypes[entityType] {
		return nil, fmt.Errorf("unknown audit entity type: %s", entityType)
	}
	return r.repo.ListByEntity(ctx, entityType, entityID)
}

package audit

import (
	"time"
)

// Tracked entity kinds.
const (
	EntityPatient        = "patient"
	EntityPrescription   = "prescription"
	EntityAdministration = "administration"
)

// Recorded actions.
const (
	ActionCreate     = "create"
	ActionUpdate     = "update"
	ActionDelete     = "delete"
	ActionAdminister = "administer"
)

// Log is one append-only audit trail entry. Changes is free-form JSON: a
// full record snapshot for creates, a per-field diff for updates, a summary
// for deletes, and the administration fields for administer actions.
type Log struct {
	ID         string         `db:"id" json:"id"`
	EntityType string         `db:"entity_type" json:"entityType"`
	EntityID   string         `db:"entity_id" json:"entityId"`
	Action     string         `db:"action" json:"action"`
	Changes    map[string]any `db:"changes" json:"changes"`
	Timestamp  time.Time      `db:"timestamp" json:"timestamp"`
	UserID     *string        `db:"user_id" json:"userId,omitempty"`
}

// Change is a single field transition inside an update diff.
type Change struct {
	From any `json:"from"`
	To   any `json:"to"`
}

var validEntityTypes = map[string]bool{
	EntityPatient:        true,
	EntityPrescription:   true,
	EntityAdministration: true,
}

var validActions = map[string]bool{
	ActionCreate:     true,
	ActionUpdate:     true,
	ActionDelete:     true,
	ActionAdminister: true,
}

// ValidEntityType reports whether t names a tracked entity kind.
func ValidEntityType(t string) bool {
	return validEntityTypes[t]
}

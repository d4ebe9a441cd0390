package models

import "time"

// Event types published after a property mutation.
const (
	PropertyCreated = "property.created"
	PropertyUpdated = "property.updated"
	PropertyDeleted = "property.deleted"
)

// PropertyEvent is the envelope sent to the message broker.
type PropertyEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	PropertyID uint      `json:"propertyId"`
	Property   *Property `json:"property,omitempty"` // nil for deletions
	OccurredAt time.Time `json:"occurredAt"`
}

package domain

import "time"

// Event types
const (
	EventTypeEntryCreated       = "entry.created"
	EventTypeEntryUpdated       = "entry.updated"
	EventTypeEntryStatusChanged = "entry.status_changed"
	EventTypeEntryDeleted       = "entry.deleted"
	EventTypeUserRegistered     = "user.registered"
)

// EventTypes lists every event type the ledger emits.
func EventTypes() []string {
	return []string{
		EventTypeEntryCreated,
		EventTypeEntryUpdated,
		EventTypeEntryStatusChanged,
		EventTypeEntryDeleted,
		EventTypeUserRegistered,
	}
}

// Aggregate types
const (
	AggregateTypeEntry = "entry"
	AggregateTypeUser  = "user"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// EntryEventPayload is the payload of every entry.* event.
func EntryEventPayload(e *Entry) map[string]any {
	return map[string]any{
		"entry_id":      e.ID,
		"user_id":       e.OwnerID(),
		"description":   e.Description,
		"month":         e.Month,
		"year":          e.Year,
		"amount":        e.Amount.String(),
		"kind":          e.Kind.String(),
		"status":        e.Status.String(),
		"registered_on": e.RegisteredOn.Format(time.DateOnly),
	}
}

// UserRegisteredPayload is the payload of a user.registered event.
func UserRegisteredPayload(u *User) map[string]any {
	return map[string]any{
		"user_id": u.ID,
		"name":    u.Name,
		"email":   u.Email,
	}
}

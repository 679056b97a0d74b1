package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry is a single income or expense record owned by a user.
type Entry struct {
	ID           string
	Description  string
	Month        int
	Year         int
	Owner        *User
	Amount       decimal.Decimal
	RegisteredOn time.Time
	Kind         EntryKind
	Status       EntryStatus
}

// OwnerID returns the owner's id, or "" when the entry has no owner.
func (e *Entry) OwnerID() string {
	if e.Owner == nil {
		return ""
	}
	return e.Owner.ID
}

// IsPersisted reports whether the store has assigned an id.
func (e *Entry) IsPersisted() bool {
	return e.ID != ""
}

// EntryFilter selects entries for search. Nil fields are ignored; text
// fields match case-insensitively by prefix, all others by equality.
type EntryFilter struct {
	Description *string
	Month       *int
	Year        *int
	OwnerID     *string
	Amount      *decimal.Decimal
	Kind        *EntryKind
	Status      *EntryStatus
}

// FilterFromEntry builds a filter from the populated fields of e.
func FilterFromEntry(e *Entry) EntryFilter {
	var f EntryFilter
	if e == nil {
		return f
	}

	if e.Description != "" {
		f.Description = &e.Description
	}
	if e.Month != 0 {
		f.Month = &e.Month
	}
	if e.Year != 0 {
		f.Year = &e.Year
	}
	if id := e.OwnerID(); id != "" {
		f.OwnerID = &id
	}
	if !e.Amount.IsZero() {
		f.Amount = &e.Amount
	}
	if e.Kind != "" {
		f.Kind = &e.Kind
	}
	if e.Status != "" {
		f.Status = &e.Status
	}

	return f
}

// IsEmpty reports whether the filter has no criteria.
func (f EntryFilter) IsEmpty() bool {
	return f.Description == nil && f.Month == nil && f.Year == nil &&
		f.OwnerID == nil && f.Amount == nil && f.Kind == nil && f.Status == nil
}

package domain

import "fmt"

// EntryKind classifies an entry as money coming in or going out.
type EntryKind string

const (
	EntryKindIncome  EntryKind = "INCOME"
	EntryKindExpense EntryKind = "EXPENSE"
)

// EntryStatus is the workflow state of an entry.
type EntryStatus string

const (
	EntryStatusPending   EntryStatus = "PENDING"
	EntryStatusConfirmed EntryStatus = "CONFIRMED"
	EntryStatusCancelled EntryStatus = "CANCELLED"
)

var entryKinds = map[string]EntryKind{
	string(EntryKindIncome):  EntryKindIncome,
	string(EntryKindExpense): EntryKindExpense,
}

var entryStatuses = map[string]EntryStatus{
	string(EntryStatusPending):   EntryStatusPending,
	string(EntryStatusConfirmed): EntryStatusConfirmed,
	string(EntryStatusCancelled): EntryStatusCancelled,
}

// ParseEntryKind maps stored text back to an EntryKind.
func ParseEntryKind(s string) (EntryKind, error) {
	k, ok := entryKinds[s]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownEntryKind, s)
	}
	return k, nil
}

// ParseEntryStatus maps stored text back to an EntryStatus.
func ParseEntryStatus(s string) (EntryStatus, error) {
	st, ok := entryStatuses[s]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownEntryStatus, s)
	}
	return st, nil
}

func (k EntryKind) String() string { return string(k) }

func (s EntryStatus) String() string { return string(s) }

// IsValid checks if the kind is a known value.
func (k EntryKind) IsValid() bool {
	_, ok := entryKinds[string(k)]
	return ok
}

// IsValid checks if the status is a known value.
func (s EntryStatus) IsValid() bool {
	_, ok := entryStatuses[string(s)]
	return ok
}

package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

// EntryRequest is the body of entry create and update requests. Omitted
// fields are treated as unset and rejected by validation.
type EntryRequest struct {
	Description string           `json:"description"`
	Month       int              `json:"month"`
	Year        int              `json:"year"`
	UserID      string           `json:"user_id"`
	Amount      *decimal.Decimal `json:"amount"`
	Kind        string           `json:"kind"`
	// Status is honoured on update only; new entries always start pending.
	Status string `json:"status,omitempty"`
}

// ToDomain builds a new entry from the request.
func (r *EntryRequest) ToDomain() (*domain.Entry, error) {
	entry := &domain.Entry{}
	if err := r.ApplyTo(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// ApplyTo overwrites the caller-editable fields of entry. The id and the
// registration date are never touched; status only when given.
func (r *EntryRequest) ApplyTo(entry *domain.Entry) error {
	var kind domain.EntryKind
	if r.Kind != "" {
		k, err := domain.ParseEntryKind(r.Kind)
		if err != nil {
			return err
		}
		kind = k
	}

	if r.Status != "" {
		status, err := domain.ParseEntryStatus(r.Status)
		if err != nil {
			return err
		}
		entry.Status = status
	}

	entry.Description = r.Description
	entry.Month = r.Month
	entry.Year = r.Year
	entry.Kind = kind
	entry.Amount = decimal.Zero
	if r.Amount != nil {
		entry.Amount = *r.Amount
	}
	entry.Owner = nil
	if r.UserID != "" {
		entry.Owner = &domain.User{ID: r.UserID}
	}

	return nil
}

// ChangeStatusRequest is the body of a status change.
type ChangeStatusRequest struct {
	Status string `json:"status"`
}

// RegisterUserRequest represents a request to register a user.
type RegisterUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterUserRequest) ToUseCaseInput() usecase.RegisterUserInput {
	return usecase.RegisterUserInput{
		Name:  r.Name,
		Email: r.Email,
	}
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
)

// EntryResponse represents an entry in API responses.
type EntryResponse struct {
	ID           string          `json:"id"`
	Description  string          `json:"description"`
	Month        int             `json:"month"`
	Year         int             `json:"year"`
	UserID       string          `json:"user_id"`
	Amount       decimal.Decimal `json:"amount"`
	RegisteredOn string          `json:"registered_on,omitempty"`
	Kind         string          `json:"kind"`
	Status       string          `json:"status"`
}

// EntryFromDomain converts domain entry to response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	resp := &EntryResponse{
		ID:          e.ID,
		Description: e.Description,
		Month:       e.Month,
		Year:        e.Year,
		UserID:      e.OwnerID(),
		Amount:      e.Amount,
		Kind:        e.Kind.String(),
		Status:      e.Status.String(),
	}
	if !e.RegisteredOn.IsZero() {
		resp.RegisteredOn = e.RegisteredOn.Format(time.DateOnly)
	}
	return resp
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// ListEntriesResponse represents a search result.
type ListEntriesResponse struct {
	Entries []*EntryResponse `json:"entries"`
	Total   int              `json:"total"`
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// UserFromDomain converts domain user to response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// BalanceResponse is confirmed income minus confirmed expenses.
type BalanceResponse struct {
	UserID    string          `json:"user_id"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	Formatted string          `json:"formatted"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

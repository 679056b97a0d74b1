package dto

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

func TestEntryRequest_ToDomain(t *testing.T) {
	var req EntryRequest
	body := `{"description":"Rent","month":3,"year":2024,"user_id":"u-1","amount":"1200.50","kind":"EXPENSE"}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	entry, err := req.ToDomain()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if entry.Description != "Rent" || entry.Month != 3 || entry.Year != 2024 {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if entry.OwnerID() != "u-1" || entry.Kind != domain.EntryKindExpense {
		t.Fatalf("unexpected owner/kind %s/%s", entry.OwnerID(), entry.Kind)
	}
	if !entry.Amount.Equal(decimal.RequireFromString("1200.50")) {
		t.Fatalf("unexpected amount %s", entry.Amount)
	}
	if entry.Status != "" || entry.ID != "" {
		t.Fatalf("expected system fields to be unset, got %+v", entry)
	}
}

func TestEntryRequest_ToDomainMissingFieldsFailValidation(t *testing.T) {
	req := &EntryRequest{Description: "Rent", Month: 3, Year: 2024, Kind: "EXPENSE"}

	entry, err := req.ToDomain()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := domain.ValidateEntry(entry); !errors.Is(err, domain.ErrMissingUser) {
		t.Fatalf("expected missing user, got %v", err)
	}
}

func TestEntryRequest_UnknownEnumText(t *testing.T) {
	tests := []struct {
		name    string
		req     EntryRequest
		wantErr error
	}{
		{"kind", EntryRequest{Kind: "TRANSFER"}, domain.ErrUnknownEntryKind},
		{"status", EntryRequest{Kind: "INCOME", Status: "DONE"}, domain.ErrUnknownEntryStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.req.ToDomain(); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestEntryRequest_ApplyToKeepsSystemFields(t *testing.T) {
	registered := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)
	amount := decimal.NewFromInt(90)
	entry := &domain.Entry{
		ID:           "e-1",
		Description:  "Old",
		Status:       domain.EntryStatusConfirmed,
		RegisteredOn: registered,
	}

	req := &EntryRequest{Description: "New", Month: 1, Year: 2024, UserID: "u-1", Amount: &amount, Kind: "INCOME"}
	if err := req.ApplyTo(entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if entry.ID != "e-1" || !entry.RegisteredOn.Equal(registered) {
		t.Fatalf("expected id and date to be kept, got %+v", entry)
	}
	if entry.Status != domain.EntryStatusConfirmed {
		t.Fatalf("expected status to be kept when omitted, got %s", entry.Status)
	}
	if entry.Description != "New" || !entry.Amount.Equal(amount) {
		t.Fatalf("expected editable fields to be replaced, got %+v", entry)
	}

	req.Status = "CANCELLED"
	if err := req.ApplyTo(entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Status != domain.EntryStatusCancelled {
		t.Fatalf("expected explicit status to apply, got %s", entry.Status)
	}
}

func TestRegisterUserRequest_ToUseCaseInput(t *testing.T) {
	req := &RegisterUserRequest{Name: "Ana", Email: "ana@example.com"}

	want := usecase.RegisterUserInput{Name: "Ana", Email: "ana@example.com"}
	if got := req.ToUseCaseInput(); got != want {
		t.Fatalf("ToUseCaseInput() = %+v, want %+v", got, want)
	}
}

package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
)

func TestEntryFromDomain(t *testing.T) {
	entry := &domain.Entry{
		ID:           "e-1",
		Description:  "Salary",
		Month:        5,
		Year:         2020,
		Owner:        &domain.User{ID: "u-1"},
		Amount:       decimal.RequireFromString("2500.00"),
		RegisteredOn: time.Date(2020, time.May, 10, 0, 0, 0, 0, time.UTC),
		Kind:         domain.EntryKindIncome,
		Status:       domain.EntryStatusPending,
	}

	resp := EntryFromDomain(entry)
	if resp.UserID != "u-1" || resp.RegisteredOn != "2020-05-10" || resp.Kind != "INCOME" || resp.Status != "PENDING" {
		t.Fatalf("unexpected entry response: %+v", resp)
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded["amount"] != "2500" {
		t.Fatalf("expected amount as decimal string, got %v", decoded["amount"])
	}

	list := EntriesFromDomain([]*domain.Entry{entry})
	if len(list) != 1 || list[0].ID != "e-1" {
		t.Fatalf("EntriesFromDomain returned %+v", list)
	}
}

func TestEntryFromDomainWithoutDateOrOwner(t *testing.T) {
	resp := EntryFromDomain(&domain.Entry{ID: "e-2"})

	if resp.RegisteredOn != "" || resp.UserID != "" {
		t.Fatalf("expected empty optional fields, got %+v", resp)
	}
}

func TestUserFromDomain(t *testing.T) {
	now := time.Now()
	resp := UserFromDomain(&domain.User{ID: "u-1", Name: "Ana", Email: "ana@example.com", CreatedAt: now})

	if resp.ID != "u-1" || resp.Email != "ana@example.com" || !resp.CreatedAt.Equal(now) {
		t.Fatalf("unexpected user response: %+v", resp)
	}
}

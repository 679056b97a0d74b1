package postgres

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
)

func TestBuildEntrySearchEmptyFilter(t *testing.T) {
	query, args := buildEntrySearch(domain.EntryFilter{})

	if strings.Contains(query, "WHERE") {
		t.Fatalf("expected no WHERE clause, got %s", query)
	}
	if len(args) != 0 {
		t.Fatalf("expected no args, got %v", args)
	}
	if !strings.HasSuffix(query, "ORDER BY e.year, e.month, e.registered_on, e.id") {
		t.Fatalf("expected deterministic ordering, got %s", query)
	}
}

func TestBuildEntrySearchAllFields(t *testing.T) {
	desc := "Sal"
	month, year := 5, 2020
	owner := "user-1"
	amount := decimal.NewFromInt(2500)
	kind := domain.EntryKindIncome
	status := domain.EntryStatusConfirmed

	query, args := buildEntrySearch(domain.EntryFilter{
		Description: &desc,
		Month:       &month,
		Year:        &year,
		OwnerID:     &owner,
		Amount:      &amount,
		Kind:        &kind,
		Status:      &status,
	})

	wantConds := []string{
		`e.description ILIKE $1 ESCAPE '\'`,
		"e.month = $2",
		"e.year = $3",
		"e.user_id = $4",
		"e.amount = $5",
		"e.kind = $6",
		"e.status = $7",
	}
	if !strings.Contains(query, strings.Join(wantConds, " AND ")) {
		t.Fatalf("unexpected query:\n%s", query)
	}

	if len(args) != 7 {
		t.Fatalf("expected 7 args, got %d", len(args))
	}
	if args[0] != "Sal%" {
		t.Fatalf("expected prefix pattern, got %v", args[0])
	}
	if args[1] != int32(5) || args[2] != int32(2020) {
		t.Fatalf("expected int32 month/year, got %v %v", args[1], args[2])
	}
	if args[5] != "INCOME" || args[6] != "CONFIRMED" {
		t.Fatalf("expected enum text, got %v %v", args[5], args[6])
	}
}

func TestBuildEntrySearchPartialFilterNumbersPlaceholders(t *testing.T) {
	owner := "user-1"
	status := domain.EntryStatusPending

	query, args := buildEntrySearch(domain.EntryFilter{OwnerID: &owner, Status: &status})

	if !strings.Contains(query, "WHERE e.user_id = $1 AND e.status = $2") {
		t.Fatalf("unexpected query:\n%s", query)
	}
	if len(args) != 2 {
		t.Fatalf("expected 2 args, got %v", args)
	}
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"rent", "rent"},
		{"100%", `100\%`},
		{"a_b", `a\_b`},
		{`c:\tmp`, `c:\\tmp`},
	}

	for _, tt := range tests {
		if got := escapeLike(tt.in); got != tt.want {
			t.Fatalf("escapeLike(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildEntrySearchOutOfRangePeriod(t *testing.T) {
	month, year := 4294967301, 2020

	query, args := buildEntrySearch(domain.EntryFilter{Month: &month, Year: &year})

	if !strings.Contains(query, "WHERE FALSE AND e.year = $1") {
		t.Fatalf("expected out-of-range month to match nothing, got %s", query)
	}
	if len(args) != 1 || args[0] != int32(2020) {
		t.Fatalf("unexpected args %v", args)
	}
}

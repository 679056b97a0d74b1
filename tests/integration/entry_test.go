package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/adapter/repository/postgres"
	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
	"github.com/iho/fintrack/tests/testutil"
)

func newEntryUseCase(db *testutil.TestDB) *usecase.EntryUseCase {
	idGen := postgres.NewULIDGenerator()
	return usecase.NewEntryUseCase(
		postgres.NewTxManager(db.Pool),
		postgres.NewEntryRepository(db.Pool, idGen),
		postgres.NewOutboxRepository(db.Pool),
		idGen,
	)
}

func newEntry(owner *domain.User, description string, amount int64, kind domain.EntryKind) *domain.Entry {
	return &domain.Entry{
		Description: description,
		Month:       5,
		Year:        2020,
		Owner:       &domain.User{ID: owner.ID},
		Amount:      decimal.NewFromInt(amount),
		Kind:        kind,
	}
}

func TestEntryLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	user := testDB.CreateTestUser(ctx, "Ana")
	entryUC := newEntryUseCase(testDB)

	saved, err := entryUC.SaveEntry(ctx, newEntry(user, "Salary", 2500, domain.EntryKindIncome))
	if err != nil {
		t.Fatalf("failed to save entry: %v", err)
	}
	if saved.ID == "" || saved.Status != domain.EntryStatusPending {
		t.Fatalf("expected id and PENDING status, got %+v", saved)
	}

	found, err := entryUC.FindEntry(ctx, saved.ID)
	if err != nil {
		t.Fatalf("failed to find entry: %v", err)
	}
	if found == nil || found.Owner.Email != user.Email {
		t.Fatalf("expected entry with owner loaded, got %+v", found)
	}

	found.Description = "Salary May"
	if _, err := entryUC.UpdateEntry(ctx, found); err != nil {
		t.Fatalf("failed to update entry: %v", err)
	}

	if err := entryUC.ChangeStatus(ctx, found, domain.EntryStatusConfirmed); err != nil {
		t.Fatalf("failed to change status: %v", err)
	}

	reloaded, err := entryUC.FindEntry(ctx, saved.ID)
	if err != nil {
		t.Fatalf("failed to reload entry: %v", err)
	}
	if reloaded.Description != "Salary May" || reloaded.Status != domain.EntryStatusConfirmed {
		t.Fatalf("expected updated entry, got %+v", reloaded)
	}
	if !reloaded.RegisteredOn.Equal(saved.RegisteredOn) {
		t.Fatalf("registration date changed: %s -> %s", saved.RegisteredOn, reloaded.RegisteredOn)
	}

	if err := entryUC.DeleteEntry(ctx, reloaded); err != nil {
		t.Fatalf("failed to delete entry: %v", err)
	}

	gone, err := entryUC.FindEntry(ctx, saved.ID)
	if err != nil {
		t.Fatalf("unexpected error after delete: %v", err)
	}
	if gone != nil {
		t.Fatalf("expected entry to be gone, got %+v", gone)
	}

	if err := entryUC.DeleteEntry(ctx, reloaded); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound on second delete, got %v", err)
	}
}

func TestEntrySaveUnknownOwner(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	ghost := &domain.User{ID: testutil.GenerateID()}
	_, err := newEntryUseCase(testDB).SaveEntry(ctx, newEntry(ghost, "Rent", 900, domain.EntryKindExpense))
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestBalanceForUser(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	user := testDB.CreateTestUser(ctx, "Ana")
	other := testDB.CreateTestUser(ctx, "Bia")
	entryUC := newEntryUseCase(testDB)

	balance, err := entryUC.BalanceForUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("failed to compute balance: %v", err)
	}
	if !balance.IsZero() {
		t.Fatalf("expected zero balance without entries, got %s", balance)
	}

	confirm := func(e *domain.Entry) {
		saved, err := entryUC.SaveEntry(ctx, e)
		if err != nil {
			t.Fatalf("failed to save entry: %v", err)
		}
		if err := entryUC.ChangeStatus(ctx, saved, domain.EntryStatusConfirmed); err != nil {
			t.Fatalf("failed to confirm entry: %v", err)
		}
	}

	confirm(newEntry(user, "Salary", 300, domain.EntryKindIncome))
	confirm(newEntry(user, "Groceries", 120, domain.EntryKindExpense))
	confirm(newEntry(other, "Salary", 1000, domain.EntryKindIncome))

	if _, err := entryUC.SaveEntry(ctx, newEntry(user, "Bonus", 50, domain.EntryKindIncome)); err != nil {
		t.Fatalf("failed to save pending entry: %v", err)
	}

	balance, err = entryUC.BalanceForUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("failed to compute balance: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(180)) {
		t.Fatalf("expected balance 180, got %s", balance)
	}
}

func TestSearchEntries(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	user := testDB.CreateTestUser(ctx, "Ana")
	entryUC := newEntryUseCase(testDB)

	for _, e := range []*domain.Entry{
		newEntry(user, "Salary", 2500, domain.EntryKindIncome),
		newEntry(user, "salary bonus", 300, domain.EntryKindIncome),
		newEntry(user, "Rent", 900, domain.EntryKindExpense),
		newEntry(user, "100%_off", 10, domain.EntryKindExpense),
	} {
		if _, err := entryUC.SaveEntry(ctx, e); err != nil {
			t.Fatalf("failed to save entry: %v", err)
		}
	}

	prefix := "SAL"
	entries, err := entryUC.SearchEntries(ctx, domain.EntryFilter{Description: &prefix, OwnerID: &user.ID})
	if err != nil {
		t.Fatalf("failed to search: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 case-insensitive prefix matches, got %d", len(entries))
	}

	wildcard := "100%"
	entries, err = entryUC.SearchEntries(ctx, domain.EntryFilter{Description: &wildcard})
	if err != nil {
		t.Fatalf("failed to search: %v", err)
	}
	if len(entries) != 1 || entries[0].Description != "100%_off" {
		t.Fatalf("expected literal %% match only, got %+v", entries)
	}

	kind := domain.EntryKindExpense
	entries, err = entryUC.SearchEntries(ctx, domain.EntryFilter{Kind: &kind})
	if err != nil {
		t.Fatalf("failed to search: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(entries))
	}
}

func TestEntryAmountKeepsScale(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	user := testDB.CreateTestUser(ctx, "Ana")
	entryUC := newEntryUseCase(testDB)

	for _, raw := range []string{"1.23456", "0.00001"} {
		entry := newEntry(user, "Interest", 1, domain.EntryKindIncome)
		entry.Amount = decimal.RequireFromString(raw)

		saved, err := entryUC.SaveEntry(ctx, entry)
		if err != nil {
			t.Fatalf("failed to save %s: %v", raw, err)
		}

		found, err := entryUC.FindEntry(ctx, saved.ID)
		if err != nil {
			t.Fatalf("failed to find entry: %v", err)
		}
		if !found.Amount.Equal(saved.Amount) {
			t.Fatalf("stored %s, read back %s", saved.Amount, found.Amount)
		}
	}
}

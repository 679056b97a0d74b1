package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
)

// EntryUseCase handles entry business logic: validation, defaulting,
// persistence and the per-user balance.
type EntryUseCase struct {
	txManager  TransactionManager
	entryRepo  EntryRepository
	outboxRepo OutboxRepository
	idGen      IDGenerator
	recorder   Recorder
	now        func() time.Time
}

// EntryUseCaseOption configures an EntryUseCase.
type EntryUseCaseOption func(*EntryUseCase)

// WithRecorder reports operation outcomes to r.
func WithRecorder(r Recorder) EntryUseCaseOption {
	return func(uc *EntryUseCase) {
		uc.recorder = r
	}
}

// WithClock overrides the time source used for registration dates.
func WithClock(now func() time.Time) EntryUseCaseOption {
	return func(uc *EntryUseCase) {
		uc.now = now
	}
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(
	txManager TransactionManager,
	entryRepo EntryRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	opts ...EntryUseCaseOption,
) *EntryUseCase {
	uc := &EntryUseCase{
		txManager:  txManager,
		entryRepo:  entryRepo,
		outboxRepo: outboxRepo,
		idGen:      idGen,
		recorder:   nopRecorder{},
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// Validate checks entry against the ledger rules.
func (uc *EntryUseCase) Validate(entry *domain.Entry) error {
	if err := domain.ValidateEntry(entry); err != nil {
		uc.recorder.ValidationFailed(err.Error())
		return err
	}
	return nil
}

// SaveEntry validates and persists a new entry. Status is always reset to
// pending and the registration date to today.
func (uc *EntryUseCase) SaveEntry(ctx context.Context, entry *domain.Entry) (*domain.Entry, error) {
	if err := uc.Validate(entry); err != nil {
		return nil, err
	}

	entry.Status = domain.EntryStatusPending
	entry.RegisteredOn = today(uc.now())

	var saved *domain.Entry
	err := uc.inTx(ctx, func(tx Transaction) error {
		var err error
		saved, err = uc.entryRepo.Create(ctx, tx, entry)
		if err != nil {
			return err
		}
		return uc.publish(ctx, tx, domain.EventTypeEntryCreated, saved)
	})
	if err != nil {
		return nil, err
	}

	uc.recorder.EntryOperation(OpSave)
	return saved, nil
}

// UpdateEntry re-validates and persists an existing entry.
func (uc *EntryUseCase) UpdateEntry(ctx context.Context, entry *domain.Entry) (*domain.Entry, error) {
	return uc.update(ctx, entry, OpUpdate, domain.EventTypeEntryUpdated)
}

// ChangeStatus moves entry to status and persists it through the update path.
func (uc *EntryUseCase) ChangeStatus(ctx context.Context, entry *domain.Entry, status domain.EntryStatus) error {
	if entry == nil {
		return &domain.PreconditionError{Op: OpChangeStatus}
	}

	if !status.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownEntryStatus, status)
	}

	entry.Status = status
	_, err := uc.update(ctx, entry, OpChangeStatus, domain.EventTypeEntryStatusChanged)
	return err
}

func (uc *EntryUseCase) update(ctx context.Context, entry *domain.Entry, op, eventType string) (*domain.Entry, error) {
	if entry == nil || !entry.IsPersisted() {
		return nil, &domain.PreconditionError{Op: op}
	}

	if err := uc.Validate(entry); err != nil {
		return nil, err
	}
	if !entry.Status.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownEntryStatus, entry.Status)
	}

	var updated *domain.Entry
	err := uc.inTx(ctx, func(tx Transaction) error {
		var err error
		updated, err = uc.entryRepo.Update(ctx, tx, entry)
		if err != nil {
			return err
		}
		return uc.publish(ctx, tx, eventType, updated)
	})
	if err != nil {
		return nil, err
	}

	uc.recorder.EntryOperation(op)
	return updated, nil
}

// DeleteEntry removes a persisted entry.
func (uc *EntryUseCase) DeleteEntry(ctx context.Context, entry *domain.Entry) error {
	if entry == nil || !entry.IsPersisted() {
		return &domain.PreconditionError{Op: OpDelete}
	}

	err := uc.inTx(ctx, func(tx Transaction) error {
		if err := uc.entryRepo.Delete(ctx, tx, entry.ID); err != nil {
			return err
		}
		return uc.publish(ctx, tx, domain.EventTypeEntryDeleted, entry)
	})
	if err != nil {
		return err
	}

	uc.recorder.EntryOperation(OpDelete)
	return nil
}

// SearchEntries returns the entries matching every criterion of filter.
func (uc *EntryUseCase) SearchEntries(ctx context.Context, filter domain.EntryFilter) ([]*domain.Entry, error) {
	return uc.entryRepo.Find(ctx, filter)
}

// SearchByExample matches entries against every populated field of
// example. Zero values are treated as unset.
func (uc *EntryUseCase) SearchByExample(ctx context.Context, example *domain.Entry) ([]*domain.Entry, error) {
	return uc.SearchEntries(ctx, domain.FilterFromEntry(example))
}

// FindEntry returns the entry with id, or nil when there is none.
func (uc *EntryUseCase) FindEntry(ctx context.Context, id string) (*domain.Entry, error) {
	return uc.entryRepo.GetByID(ctx, id)
}

// BalanceForUser returns confirmed income minus confirmed expenses.
func (uc *EntryUseCase) BalanceForUser(ctx context.Context, userID string) (decimal.Decimal, error) {
	income, err := uc.entryRepo.SumAmount(ctx, userID, domain.EntryKindIncome, domain.EntryStatusConfirmed)
	if err != nil {
		return decimal.Zero, err
	}

	expenses, err := uc.entryRepo.SumAmount(ctx, userID, domain.EntryKindExpense, domain.EntryStatusConfirmed)
	if err != nil {
		return decimal.Zero, err
	}

	uc.recorder.BalanceComputed()
	return orZero(income).Sub(orZero(expenses)), nil
}

func (uc *EntryUseCase) inTx(ctx context.Context, fn func(tx Transaction) error) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (uc *EntryUseCase) publish(ctx context.Context, tx Transaction, eventType string, entry *domain.Entry) error {
	return uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   entry.ID,
		AggregateType: domain.AggregateTypeEntry,
		EventType:     eventType,
		Payload:       domain.EntryEventPayload(entry),
		CreatedAt:     uc.now().UTC(),
	})
}

func orZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

func today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
)

// EntryRepository defines data access for entries.
type EntryRepository interface {
	// Create persists a new entry and returns it with its store-assigned id.
	Create(ctx context.Context, tx Transaction, entry *domain.Entry) (*domain.Entry, error)
	Update(ctx context.Context, tx Transaction, entry *domain.Entry) (*domain.Entry, error)
	Delete(ctx context.Context, tx Transaction, id string) error
	// GetByID returns nil, nil when no entry has the id.
	GetByID(ctx context.Context, id string) (*domain.Entry, error)
	Find(ctx context.Context, filter domain.EntryFilter) ([]*domain.Entry, error)
	// SumAmount is invalid (not zero) when no entry matches.
	SumAmount(ctx context.Context, userID string, kind domain.EntryKind, status domain.EntryStatus) (decimal.NullDecimal, error)
}

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, tx Transaction, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Recorder receives ledger operation outcomes for metrics.
type Recorder interface {
	EntryOperation(op string)
	ValidationFailed(reason string)
	BalanceComputed()
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops the key so a failed request can be retried.
	Release(ctx context.Context, key string) error
}

type nopRecorder struct{}

func (nopRecorder) EntryOperation(string)   {}
func (nopRecorder) ValidationFailed(string) {}
func (nopRecorder) BalanceComputed()        {}

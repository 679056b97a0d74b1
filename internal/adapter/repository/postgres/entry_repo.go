package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	db    dbtx
	idGen usecase.IDGenerator
}

// NewEntryRepository creates a new EntryRepository. New entries get their
// id from idGen.
func NewEntryRepository(pool *pgxpool.Pool, idGen usecase.IDGenerator) *EntryRepository {
	return newEntryRepository(pool, idGen)
}

func newEntryRepository(db dbtx, idGen usecase.IDGenerator) *EntryRepository {
	return &EntryRepository{db: db, idGen: idGen}
}

// Create inserts entry and returns a copy carrying the assigned id.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) (*domain.Entry, error) {
	pgxTx, err := unwrapTx(tx)
	if err != nil {
		return nil, err
	}

	if err := checkEntryEnums(entry); err != nil {
		return nil, err
	}

	stored := *entry
	stored.ID = r.idGen.Generate()

	query := `
		INSERT INTO entries (id, description, month, year, user_id, amount, registered_on, kind, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = pgxTx.Exec(ctx, query,
		stored.ID,
		stored.Description,
		int32(stored.Month),
		int32(stored.Year),
		stored.OwnerID(),
		decimalToNumeric(stored.Amount),
		timeToPgDate(stored.RegisteredOn),
		stored.Kind.String(),
		stored.Status.String(),
	)
	if err != nil {
		return nil, mapEntryWriteError(err)
	}

	return &stored, nil
}

// Update overwrites the mutable columns of an existing entry. The
// registration date is kept as stored and returned on the result.
func (r *EntryRepository) Update(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) (*domain.Entry, error) {
	pgxTx, err := unwrapTx(tx)
	if err != nil {
		return nil, err
	}

	if err := checkEntryEnums(entry); err != nil {
		return nil, err
	}

	query := `
		UPDATE entries
		SET description = $2, month = $3, year = $4, user_id = $5, amount = $6, kind = $7, status = $8
		WHERE id = $1
		RETURNING registered_on
	`

	var registeredOn pgtype.Date
	err = pgxTx.QueryRow(ctx, query,
		entry.ID,
		entry.Description,
		int32(entry.Month),
		int32(entry.Year),
		entry.OwnerID(),
		decimalToNumeric(entry.Amount),
		entry.Kind.String(),
		entry.Status.String(),
	).Scan(&registeredOn)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrEntryNotFound
	}
	if err != nil {
		return nil, mapEntryWriteError(err)
	}

	updated := *entry
	updated.RegisteredOn = pgDateToTime(registeredOn)
	return &updated, nil
}

// Delete removes the entry with id.
func (r *EntryRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	pgxTx, err := unwrapTx(tx)
	if err != nil {
		return err
	}

	tag, err := pgxTx.Exec(ctx, `DELETE FROM entries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// GetByID retrieves an entry by ID. A missing entry is not an error.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	query := `SELECT ` + entryColumns + `
		FROM ` + entryFrom + `
		WHERE e.id = $1`

	entry, err := scanEntry(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// Find returns entries matching every set field of filter.
func (r *EntryRepository) Find(ctx context.Context, filter domain.EntryFilter) ([]*domain.Entry, error) {
	query, args := buildEntrySearch(filter)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*domain.Entry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// SumAmount totals the amounts of a user's entries with the given kind and
// status. The result is invalid when no entry matches.
func (r *EntryRepository) SumAmount(ctx context.Context, userID string, kind domain.EntryKind, status domain.EntryStatus) (decimal.NullDecimal, error) {
	query := `
		SELECT SUM(amount)
		FROM entries
		WHERE user_id = $1 AND kind = $2 AND status = $3
	`

	var sum pgtype.Numeric
	if err := r.db.QueryRow(ctx, query, userID, kind.String(), status.String()).Scan(&sum); err != nil {
		return decimal.NullDecimal{}, err
	}

	return numericToNullDecimal(sum), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*domain.Entry, error) {
	var (
		entry        domain.Entry
		owner        domain.User
		month, year  int32
		amount       pgtype.Numeric
		registeredOn pgtype.Date
		kind, status string
	)

	err := row.Scan(
		&entry.ID,
		&entry.Description,
		&month,
		&year,
		&owner.ID,
		&owner.Name,
		&owner.Email,
		&amount,
		&registeredOn,
		&kind,
		&status,
	)
	if err != nil {
		return nil, err
	}

	entry.Kind, err = domain.ParseEntryKind(kind)
	if err != nil {
		return nil, fmt.Errorf("entry %s: %w", entry.ID, err)
	}
	entry.Status, err = domain.ParseEntryStatus(status)
	if err != nil {
		return nil, fmt.Errorf("entry %s: %w", entry.ID, err)
	}

	entry.Month = int(month)
	entry.Year = int(year)
	entry.Amount = numericToDecimal(amount)
	entry.RegisteredOn = pgDateToTime(registeredOn)
	entry.Owner = &owner

	return &entry, nil
}

// checkEntryEnums refuses text that scanEntry could not read back.
func checkEntryEnums(entry *domain.Entry) error {
	if !entry.Kind.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownEntryKind, entry.Kind)
	}
	if !entry.Status.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownEntryStatus, entry.Status)
	}
	return nil
}

func mapEntryWriteError(err error) error {
	if pgErrorCode(err) == pgErrForeignKeyViolation {
		return domain.ErrUserNotFound
	}
	return err
}

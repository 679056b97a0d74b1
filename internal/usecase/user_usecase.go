package usecase

import (
	"context"
	"time"

	"github.com/iho/fintrack/internal/domain"
)

// UserUseCase handles user registration and lookup
type UserUseCase struct {
	txManager  TransactionManager
	userRepo   UserRepository
	outboxRepo OutboxRepository
	idGen      IDGenerator
}

// NewUserUseCase creates a new user use case
func NewUserUseCase(txManager TransactionManager, userRepo UserRepository, outboxRepo OutboxRepository, idGen IDGenerator) *UserUseCase {
	return &UserUseCase{
		txManager:  txManager,
		userRepo:   userRepo,
		outboxRepo: outboxRepo,
		idGen:      idGen,
	}
}

// RegisterUserInput represents input for registering a user
type RegisterUserInput struct {
	Name  string
	Email string
}

// RegisterUser creates a user with a unique email
func (uc *UserUseCase) RegisterUser(ctx context.Context, input RegisterUserInput) (*domain.User, error) {
	if err := domain.ValidateUserName(input.Name); err != nil {
		return nil, err
	}

	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, err
	}

	email := domain.NormalizeEmail(input.Email)

	exists, err := uc.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrEmailAlreadyRegistered
	}

	user := &domain.User{
		ID:        uc.idGen.Generate(),
		Name:      input.Name,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.userRepo.Create(ctx, tx, user); err != nil {
		return nil, err
	}

	err = uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   user.ID,
		AggregateType: domain.AggregateTypeUser,
		EventType:     domain.EventTypeUserRegistered,
		Payload:       domain.UserRegisteredPayload(user),
		CreatedAt:     user.CreatedAt,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return user, nil
}

// GetUser retrieves a user by ID
func (uc *UserUseCase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

// EmailExists reports whether an address is already registered
func (uc *UserUseCase) EmailExists(ctx context.Context, email string) (bool, error) {
	return uc.userRepo.ExistsByEmail(ctx, domain.NormalizeEmail(email))
}

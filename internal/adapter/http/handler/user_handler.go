package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Rhymond/go-money"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/adapter/http/dto"
	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

// UserService defines the behavior needed by UserHandler.
type UserService interface {
	RegisterUser(ctx context.Context, input usecase.RegisterUserInput) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

// BalanceService computes a user's balance.
type BalanceService interface {
	BalanceForUser(ctx context.Context, userID string) (decimal.Decimal, error)
}

// UserHandler handles user registration, lookup and balance requests.
type UserHandler struct {
	userUC   UserService
	balances BalanceService
	currency string
}

// NewUserHandler creates a new UserHandler. Balances are formatted in
// currency, an ISO 4217 code.
func NewUserHandler(userUC UserService, balances BalanceService, currency string) *UserHandler {
	return &UserHandler{userUC: userUC, balances: balances, currency: currency}
}

// Register creates a new user.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := h.userUC.RegisterUser(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to register user", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.UserFromDomain(user))
}

// Get retrieves a user by ID.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.userUC.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get user", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UserFromDomain(user))
}

// Balance returns confirmed income minus confirmed expenses for a user.
func (h *UserHandler) Balance(w http.ResponseWriter, r *http.Request) {
	user, err := h.userUC.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get user", err)
		return
	}

	balance, err := h.balances.BalanceForUser(r.Context(), user.ID)
	if err != nil {
		writeDomainError(w, "failed to compute balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{
		UserID:    user.ID,
		Balance:   balance,
		Currency:  h.currency,
		Formatted: formatAmount(balance, h.currency),
	})
}

// formatAmount renders d in the currency's display format. Unknown codes
// fall back to the plain decimal with the code appended.
func formatAmount(d decimal.Decimal, code string) string {
	currency := money.GetCurrency(code)
	if currency == nil {
		return d.StringFixed(2) + " " + code
	}

	minor := d.Shift(int32(currency.Fraction)).Round(0).IntPart()
	return money.New(minor, currency.Code).Display()
}

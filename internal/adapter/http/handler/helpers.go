package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/adapter/http/dto"
	"github.com/iho/fintrack/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError maps err to a status and writes it. Validation errors
// carry the failed rule as the message.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	status := mapDomainError(err)
	if status == http.StatusBadRequest && domain.IsValidationError(err) {
		message = "validation failed"
	}
	writeError(w, status, message, err.Error())
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case domain.IsValidationError(err):
		return http.StatusBadRequest
	case domain.IsPreconditionError(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEmailAlreadyRegistered):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnknownEntryKind):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownEntryStatus):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidEmail):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidUserName):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseEntryFilter reads search criteria from query parameters. Absent or
// empty parameters leave the criterion unset.
func parseEntryFilter(q url.Values) (domain.EntryFilter, error) {
	var f domain.EntryFilter

	if v := q.Get("description"); v != "" {
		f.Description = &v
	}
	if v := q.Get("user_id"); v != "" {
		f.OwnerID = &v
	}

	var err error
	if f.Month, err = parseIntParam(q, "month"); err != nil {
		return f, err
	}
	if f.Year, err = parseIntParam(q, "year"); err != nil {
		return f, err
	}

	if v := q.Get("amount"); v != "" {
		amount, err := decimal.NewFromString(v)
		if err != nil {
			return f, fmt.Errorf("invalid amount %q", v)
		}
		f.Amount = &amount
	}

	if v := q.Get("kind"); v != "" {
		kind, err := domain.ParseEntryKind(v)
		if err != nil {
			return f, err
		}
		f.Kind = &kind
	}

	if v := q.Get("status"); v != "" {
		status, err := domain.ParseEntryStatus(v)
		if err != nil {
			return f, err
		}
		f.Status = &status
	}

	return f, nil
}

func parseIntParam(q url.Values, key string) (*int, error) {
	v := q.Get(key)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", key, v)
	}
	i := int(n)
	return &i, nil
}

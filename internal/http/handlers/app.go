package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"fundingme/internal/domain"
	"fundingme/internal/funding"
	"fundingme/internal/middleware"
)

// App bundles the funding services behind the HTTP handlers.
type App struct {
	Registry   *funding.Registry
	Ledger     *funding.Ledger
	Resolution *funding.Resolution
	Accounts   domain.AccountStore
	Stats      domain.StatsStore
	Logger     zerolog.Logger
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]string{"error": code, "message": message})
}

// callerID returns the pre-authenticated caller identity, rejecting the
// request when none was supplied.
func (a *App) callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	caller := middleware.AccountIDFromContext(r.Context())
	if caller == "" {
		a.error(w, http.StatusUnauthorized, "unauthenticated", "X-Account-ID header is required")
		return "", false
	}
	return caller, true
}

// domainError maps service errors onto stable HTTP error codes.
func (a *App) domainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidTarget),
		errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidIdentity):
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "project not found")
	case errors.Is(err, domain.ErrDuplicateProject):
		a.error(w, http.StatusConflict, "duplicate_project", err.Error())
	case errors.Is(err, domain.ErrInvalidProjectStatus):
		a.error(w, http.StatusConflict, "invalid_project_status", err.Error())
	case errors.Is(err, domain.ErrCapacityExceeded):
		a.error(w, http.StatusUnprocessableEntity, "capacity_exceeded", err.Error())
	case errors.Is(err, domain.ErrArithmeticOverflow):
		a.error(w, http.StatusUnprocessableEntity, "overflow", err.Error())
	case errors.Is(err, domain.ErrRefundFailed):
		a.error(w, http.StatusBadGateway, "refund_failed", err.Error())
	case errors.Is(err, domain.ErrPayoutFailed):
		a.error(w, http.StatusBadGateway, "payout_failed", err.Error())
	case errors.Is(err, domain.ErrTransferFailed):
		a.error(w, http.StatusBadGateway, "transfer_failed", err.Error())
	default:
		a.Logger.Error().Err(err).Msg("unhandled service error")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

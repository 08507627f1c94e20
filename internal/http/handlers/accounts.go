package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type depositRequest struct {
	Amount uint64 `json:"amount"`
}

func (a *App) AccountsDeposit(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.callerID(w, r); !ok {
		return
	}
	var req depositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Amount == 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "amount must be positive")
		return
	}

	balance, err := a.Accounts.Deposit(r.Context(), chi.URLParam(r, "accountID"), req.Amount)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"balance": balance})
}

func (a *App) AccountsGet(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")
	balance, err := a.Accounts.Balance(r.Context(), accountID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"account_id": accountID, "balance": balance})
}

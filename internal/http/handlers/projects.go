package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"fundingme/internal/domain"
)

type createProjectRequest struct {
	Name            string `json:"name"`
	FinancialTarget uint64 `json:"financial_target"`
}

type projectResponse struct {
	ProjectID       string    `json:"project_id"`
	OwnerID         string    `json:"owner_id"`
	Name            string    `json:"name"`
	FinancialTarget uint64    `json:"financial_target"`
	Balance         uint64    `json:"balance"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

func toProjectResponse(p *domain.Project) projectResponse {
	return projectResponse{
		ProjectID:       p.ID,
		OwnerID:         p.OwnerID,
		Name:            p.Name,
		FinancialTarget: p.FinancialTarget,
		Balance:         p.Balance,
		Status:          string(p.Status),
		CreatedAt:       p.CreatedAt,
	}
}

func (a *App) ProjectsCreate(w http.ResponseWriter, r *http.Request) {
	owner, ok := a.callerID(w, r)
	if !ok {
		return
	}
	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	project, err := a.Registry.Create(r.Context(), owner, req.Name, req.FinancialTarget)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, toProjectResponse(project))
}

func (a *App) ProjectsGet(w http.ResponseWriter, r *http.Request) {
	project, err := a.Registry.Lookup(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toProjectResponse(project))
}

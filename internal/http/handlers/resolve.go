package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (a *App) ProjectsResolve(w http.ResponseWriter, r *http.Request) {
	caller, ok := a.callerID(w, r)
	if !ok {
		return
	}
	status, err := a.Resolution.Resolve(r.Context(), caller, chi.URLParam(r, "projectID"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": string(status)})
}

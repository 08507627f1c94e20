package handlers

import "net/http"

func (a *App) StatsSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := a.Stats.FundingSummary(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("failed to load funding summary")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load stats")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"projects_total":   summary.ProjectsTotal,
		"projects_active":  summary.ProjectsActive,
		"projects_success": summary.ProjectsSuccess,
		"projects_failed":  summary.ProjectsFailed,
		"custody_total":    summary.CustodyTotal,
		"donations_total":  summary.DonationsTotal,
		"donations_24h":    summary.Donations24h,
	})
}

package handlers

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"fundingme/internal/domain"
	"fundingme/internal/funding"
	"fundingme/internal/middleware"
	"fundingme/pkg/archive"
)

type donationRequest struct {
	Amount uint64 `json:"amount"`
}

type donationResponse struct {
	Sequence     uint64    `json:"sequence"`
	DonorID      string    `json:"donor_id"`
	Amount       uint64    `json:"amount"`
	DonorCountry string    `json:"donor_country,omitempty"`
	Settled      bool      `json:"settled"`
	CreatedAt    time.Time `json:"created_at"`
}

func (a *App) DonationsCreate(w http.ResponseWriter, r *http.Request) {
	donor, ok := a.callerID(w, r)
	if !ok {
		return
	}
	var req donationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	donation, project, err := a.Ledger.Record(r.Context(), funding.RecordDonationInput{
		ProjectID:    chi.URLParam(r, "projectID"),
		DonorID:      donor,
		Amount:       req.Amount,
		DonorCountry: middleware.CountryFromContext(r.Context()),
	})
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{
		"sequence":    donation.Sequence,
		"new_balance": project.Balance,
		"status":      string(project.Status),
	})
}

func (a *App) DonationsList(w http.ResponseWriter, r *http.Request) {
	donations, err := a.Ledger.Donations(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	items := make([]donationResponse, 0, len(donations))
	for _, d := range donations {
		items = append(items, donationResponse{
			Sequence:     d.Sequence,
			DonorID:      d.DonorID,
			Amount:       d.Amount,
			DonorCountry: d.DonorCountry,
			Settled:      d.Settled,
			CreatedAt:    d.CreatedAt,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// DonationsExport serves the project's full audit trail as a zip archive
// containing a donations.csv.
func (a *App) DonationsExport(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	donations, err := a.Ledger.Donations(r.Context(), projectID)
	if err != nil {
		a.domainError(w, err)
		return
	}

	payload, err := archive.Build([]archive.File{{
		Name: "donations.csv",
		Data: donationsCSV(donations),
	}})
	if err != nil {
		a.Logger.Error().Err(err).Msg("failed to build donations export")
		a.error(w, http.StatusInternalServerError, "internal", "failed to build export")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="donations-`+projectID+`.zip"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func donationsCSV(donations []domain.Donation) []byte {
	buf := &bytes.Buffer{}
	cw := csv.NewWriter(buf)
	_ = cw.Write([]string{"sequence", "donor_id", "amount", "donor_country", "settled", "created_at"})
	for _, d := range donations {
		_ = cw.Write([]string{
			strconv.FormatUint(d.Sequence, 10),
			d.DonorID,
			strconv.FormatUint(d.Amount, 10),
			d.DonorCountry,
			strconv.FormatBool(d.Settled),
			d.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	cw.Flush()
	return buf.Bytes()
}

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/gyeh/claimline/internal/claims"
	"github.com/gyeh/claimline/internal/model"
)

const (
	msgSaved       = "Data successfully saved"
	msgUpdated     = "Data successfully updated"
	msgDeleted     = "Data successfully deleted"
	msgNotFound    = "Procedure not found"
	msgRateLimited = "Rate limit exceeded"
	msgInternal    = "Internal server error"
	msgBadBody     = "Invalid request body"
	msgBadID       = "Invalid procedure id"

	maxBodyBytes = 10 << 20
)

// ProceduresHandler serves the procedure line-item endpoints.
type ProceduresHandler struct {
	svc *claims.Service
	log zerolog.Logger
}

// NewProceduresHandler creates a new procedures handler.
func NewProceduresHandler(svc *claims.Service, log zerolog.Logger) *ProceduresHandler {
	return &ProceduresHandler{svc: svc, log: log}
}

// procedureResponse is the wire form of a stored record. Amounts are emitted
// as JSON numbers carrying the exact decimal text.
type procedureResponse struct {
	ID                 int64       `json:"id"`
	ClaimID            string      `json:"claim_id"`
	ServiceDate        string      `json:"service_date"`
	SubmittedProcedure string      `json:"submitted_procedure"`
	Quadrant           *string     `json:"quadrant"`
	PlanGroup          string      `json:"plan_group"`
	Subscriber         string      `json:"subscriber"`
	ProviderNPI        string      `json:"provider_npi"`
	ProviderFees       json.Number `json:"provider_fees"`
	AllowedFees        json.Number `json:"allowed_fees"`
	MemberCoinsurance  json.Number `json:"member_coinsurance"`
	MemberCopay        json.Number `json:"member_copay"`
	NetFee             json.Number `json:"net_fee"`
}

func toResponse(r *model.ProcedureRecord) procedureResponse {
	return procedureResponse{
		ID:                 r.ID,
		ClaimID:            r.BatchID,
		ServiceDate:        r.ServiceDate,
		SubmittedProcedure: r.SubmittedProcedure,
		Quadrant:           r.Quadrant,
		PlanGroup:          r.PlanGroup,
		Subscriber:         r.Subscriber,
		ProviderNPI:        r.ProviderNPI,
		ProviderFees:       json.Number(r.ProviderFees.String()),
		AllowedFees:        json.Number(r.AllowedFees.String()),
		MemberCoinsurance:  json.Number(r.MemberCoinsurance.String()),
		MemberCopay:        json.Number(r.MemberCopay.String()),
		NetFee:             json.Number(r.NetFee.String()),
	}
}

// SubmitData handles POST /submit-data
func (h *ProceduresHandler) SubmitData(w http.ResponseWriter, r *http.Request) {
	var items []model.LineItem
	if !h.decode(w, r, &items) {
		return
	}

	if _, err := h.svc.Submit(r.Context(), items); err != nil {
		h.writeServiceError(w, err)
		return
	}
	WriteMessage(w, http.StatusOK, msgSaved)
}

// GetData handles GET /get-data
func (h *ProceduresHandler) GetData(w http.ResponseWriter, r *http.Request) {
	recs, err := h.svc.List(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	out := make([]procedureResponse, len(recs))
	for i := range recs {
		out[i] = toResponse(&recs[i])
	}
	WriteJSON(w, http.StatusOK, out)
}

// UpdateData handles PUT /update-data/{id}
func (h *ProceduresHandler) UpdateData(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var item model.LineItem
	if !h.decode(w, r, &item) {
		return
	}

	if _, err := h.svc.Update(r.Context(), id, &item); err != nil {
		h.writeServiceError(w, err)
		return
	}
	WriteMessage(w, http.StatusOK, msgUpdated)
}

// DeleteData handles DELETE /delete-data/{id}
func (h *ProceduresHandler) DeleteData(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, err)
		return
	}
	WriteMessage(w, http.StatusOK, msgDeleted)
}

// TopProviders handles GET /top-providers
func (h *ProceduresHandler) TopProviders(w http.ResponseWriter, r *http.Request) {
	totals, err := h.svc.TopProviders(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	npis := make([]string, len(totals))
	for i, t := range totals {
		npis[i] = t.ProviderNPI
	}
	WriteJSON(w, http.StatusOK, npis)
}

func (h *ProceduresHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.log.Debug().Err(err).Str("path", r.URL.Path).Msg("request body rejected")
		WriteError(w, http.StatusUnprocessableEntity, msgBadBody)
		return false
	}
	return true
}

// writeServiceError maps service errors onto status codes. Only validation
// messages reach the client verbatim.
func (h *ProceduresHandler) writeServiceError(w http.ResponseWriter, err error) {
	var ve *claims.ValidationError
	switch {
	case errors.As(err, &ve):
		WriteError(w, http.StatusUnprocessableEntity, ve.Error())
	case errors.Is(err, model.ErrNotFound):
		WriteError(w, http.StatusNotFound, msgNotFound)
	default:
		h.log.Error().Err(err).Msg("request failed")
		WriteError(w, http.StatusInternalServerError, msgInternal)
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, msgBadID)
		return 0, false
	}
	return id, true
}

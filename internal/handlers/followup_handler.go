package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/summitops/conference-api/internal/domain"
	"github.com/summitops/conference-api/internal/service"
)

func (h *Handlers) ListFollowUpCandidates(w http.ResponseWriter, r *http.Request) {
	days := 0
	if v := r.URL.Query().Get("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			days = n
		}
	}

	orders, err := h.followUpService.ListCandidates(r.Context(), days)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list follow-up candidates")
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}

	writeSuccess(w, http.StatusOK, "Follow-up candidates", orders)
}

func (h *Handlers) SendFollowUps(w http.ResponseWriter, r *http.Request) {
	var req service.FollowUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !req.SendToAll && len(req.TicketIDs) == 0 {
		writeError(w, http.StatusBadRequest, "Either ticketIds or sendToAll is required")
		return
	}

	result, err := h.followUpService.SendRetryEmails(r.Context(), &req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to send follow-up emails")
		return
	}

	writeSuccess(w, http.StatusOK, "Follow-up campaign completed", result)
}

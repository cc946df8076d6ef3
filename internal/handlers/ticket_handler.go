package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/summitops/conference-api/internal/domain"
)

func (h *Handlers) CreateScholarshipTicket(w http.ResponseWriter, r *http.Request) {
	var req domain.ScholarshipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ticket, err := h.ticketService.IssueScholarship(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateEmail):
			writeError(w, http.StatusConflict, "A scholarship ticket already exists for this email")
		case errors.Is(err, domain.ErrValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "Failed to issue scholarship ticket")
		}
		return
	}

	writeSuccess(w, http.StatusCreated, "Scholarship ticket issued", ticket)
}

func (h *Handlers) ListScholarshipTickets(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	tickets, err := h.ticketService.ListScholarships(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list scholarship tickets")
		return
	}
	if tickets == nil {
		tickets = []domain.ScholarshipTicket{}
	}

	writeSuccess(w, http.StatusOK, "Scholarship tickets", tickets)
}

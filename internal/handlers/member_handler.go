package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/summitops/conference-api/internal/domain"
)

func (h *Handlers) SubscribeMember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	member, err := h.memberService.Subscribe(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to subscribe")
		return
	}

	writeSuccess(w, http.StatusOK, "Subscribed to newsletter", member)
}

func (h *Handlers) UnsubscribeMember(w http.ResponseWriter, r *http.Request) {
	ok, err := h.memberService.Unsubscribe(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to unsubscribe")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "No active subscription for this email")
		return
	}

	writeSuccess(w, http.StatusOK, "Unsubscribed from newsletter", nil)
}

func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	members, err := h.memberService.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list members")
		return
	}
	if members == nil {
		members = []domain.Member{}
	}

	writeSuccess(w, http.StatusOK, "Newsletter members", members)
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/summitops/conference-api/internal/domain"
	"github.com/summitops/conference-api/internal/service"
)

// credentialData shapes the create/reset responses. The plaintext
// password appears only when delivery failed; the payload is then
// admin-eyes-only.
type credentialData struct {
	Staff        *domain.Staff `json:"staff"`
	TempPassword string        `json:"tempPassword,omitempty"`
}

func credentialResponse(w http.ResponseWriter, statusCode int, message string, result *service.CredentialResult) {
	data := credentialData{Staff: result.Staff}
	if result.EmailFailed {
		data.TempPassword = result.TempPassword
		writeWarning(w, statusCode, message, "EMAIL_FAILED", data)
		return
	}
	writeSuccess(w, statusCode, message, data)
}

func (h *Handlers) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.staffService.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateEmail):
			writeError(w, http.StatusConflict, "A staff member with this email already exists")
		case errors.Is(err, domain.ErrValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "Failed to create staff member")
		}
		return
	}

	credentialResponse(w, http.StatusCreated, "Staff member created", result)
}

func (h *Handlers) ListStaff(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	var isActive *bool
	if v := r.URL.Query().Get("isActive"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			isActive = &b
		}
	}

	members, err := h.staffService.List(r.Context(), isActive, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list staff")
		return
	}
	if members == nil {
		members = []domain.Staff{}
	}

	writeSuccess(w, http.StatusOK, "Staff members", members)
}

func (h *Handlers) GetStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := h.staffService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrStaffNotFound) {
			writeError(w, http.StatusNotFound, "Staff member not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get staff member")
		return
	}

	writeSuccess(w, http.StatusOK, "Staff member", staff)
}

func (h *Handlers) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	staff, err := h.staffService.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrStaffNotFound):
			writeError(w, http.StatusNotFound, "Staff member not found")
		case errors.Is(err, domain.ErrValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "Failed to update staff member")
		}
		return
	}

	writeSuccess(w, http.StatusOK, "Staff member updated", staff)
}

func (h *Handlers) DeactivateStaff(w http.ResponseWriter, r *http.Request) {
	if err := h.staffService.Deactivate(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, domain.ErrStaffNotFound) {
			writeError(w, http.StatusNotFound, "Staff member not found or already inactive")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to deactivate staff member")
		return
	}

	writeSuccess(w, http.StatusOK, "Staff member deactivated", nil)
}

func (h *Handlers) ResetStaffPassword(w http.ResponseWriter, r *http.Request) {
	result, err := h.staffService.ResetPassword(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrStaffNotFound) {
			writeError(w, http.StatusNotFound, "Staff member not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to reset password")
		return
	}

	credentialResponse(w, http.StatusOK, "Password reset", result)
}

func (h *Handlers) StaffLogin(w http.ResponseWriter, r *http.Request) {
	var req domain.StaffLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.staffService.Login(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidLogin):
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
		case errors.Is(err, domain.ErrStaffInactive):
			writeError(w, http.StatusForbidden, "Account is deactivated")
		default:
			writeError(w, http.StatusInternalServerError, "Login failed")
		}
		return
	}

	writeSuccess(w, http.StatusOK, "Logged in", result)
}

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/summitops/conference-api/internal/domain"
)

func (h *Handlers) ListOrders(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	var status *domain.OrderStatus
	if v := r.URL.Query().Get("status"); v != "" {
		parsed, ok := domain.ParseOrderStatus(v)
		if !ok {
			writeError(w, http.StatusBadRequest, "Invalid status filter")
			return
		}
		status = &parsed
	}

	orders, err := h.orderService.ListOrders(r.Context(), limit, offset, status)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list orders")
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}

	writeSuccess(w, http.StatusOK, "Orders", orders)
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderService.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get order")
		return
	}
	if order == nil {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}

	writeSuccess(w, http.StatusOK, "Order", order)
}

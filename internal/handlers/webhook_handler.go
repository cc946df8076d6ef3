package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/summitops/conference-api/internal/webhook"
	"github.com/summitops/conference-api/pkg/logger"
)

// HandleEcommerceWebhook receives ModemPay charge notifications.
// Anything the handler chose to ignore still gets a 200 so the provider
// stops retrying; only parse and processing failures return 500.
func (h *Handlers) HandleEcommerceWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusInternalServerError)
		return
	}

	ev, err := webhook.Parse(body)
	if err != nil {
		var malformed *webhook.MalformedPayloadError
		if errors.As(err, &malformed) {
			logger.ErrorContext(r.Context(), "Webhook payload rejected", "error", err)
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := h.orderService.HandleWebhookEvent(r.Context(), ev); err != nil {
		logger.ErrorContext(r.Context(), "Webhook processing failed", "error", err)
		http.Error(w, fmt.Sprintf("webhook processing failed: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Webhook processed"))
}

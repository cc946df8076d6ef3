package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/summitops/conference-api/internal/service"
	"github.com/summitops/conference-api/pkg/auth"
	"github.com/summitops/conference-api/pkg/config"
	"github.com/summitops/conference-api/pkg/logger"
)

type claimsKey struct{}

type Handlers struct {
	orderService    service.OrderService
	staffService    service.StaffService
	ticketService   service.TicketService
	followUpService service.FollowUpService
	memberService   service.MemberService
	postService     service.PostService
	config          *config.Config
}

func New(
	orderService service.OrderService,
	staffService service.StaffService,
	ticketService service.TicketService,
	followUpService service.FollowUpService,
	memberService service.MemberService,
	postService service.PostService,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		orderService:    orderService,
		staffService:    staffService,
		ticketService:   ticketService,
		followUpService: followUpService,
		memberService:   memberService,
		postService:     postService,
		config:          cfg,
	}
}

// Envelope is the JSON response shape shared by the admin endpoints.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Warning string      `json:"warning,omitempty"`
}

// RequireAdmin guards dashboard routes with a staff JWT carrying the
// ADMIN role.
func (h *Handlers) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "Missing or invalid authorization header")
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := auth.Parse(token, h.config.Auth.JWTSecret)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		if claims.Role != "ADMIN" {
			writeError(w, http.StatusForbidden, "Insufficient permissions")
			return
		}

		ctx := context.WithValue(r.Context(), logger.StaffIDKey, claims.Sub)
		ctx = context.WithValue(ctx, claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// isAdminRequest reports whether the request carries a valid ADMIN
// token, without rejecting the request when it does not.
func (h *Handlers) isAdminRequest(r *http.Request) bool {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return false
	}
	claims, err := auth.Parse(strings.TrimPrefix(authHeader, "Bearer "), h.config.Auth.JWTSecret)
	return err == nil && claims.Role == "ADMIN"
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func writeSuccess(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	writeJSON(w, statusCode, Envelope{Success: true, Message: message, Data: data})
}

func writeWarning(w http.ResponseWriter, statusCode int, message, warning string, data interface{}) {
	writeJSON(w, statusCode, Envelope{Success: true, Message: message, Warning: warning, Data: data})
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, Envelope{Success: false, Message: message, Error: message})
}

func parsePagination(r *http.Request) (limit, offset int) {
	limit = 20
	offset = 0

	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	return limit, offset
}

package admin

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/veloparts/storefront/internal/dataset"
	"github.com/veloparts/storefront/internal/metrics"
	"github.com/veloparts/storefront/internal/server"
)

// Handler serves the back-office API.
type Handler struct {
	auth   *authenticator
	store  *StockStore
	loader *dataset.Loader
	logger *zap.Logger
}

// NewHandler creates the admin handler. store may be nil when no SQLite
// database is configured; write endpoints then respond 503.
func NewHandler(cfg AuthConfig, store *StockStore, loader *dataset.Loader, logger *zap.Logger) *Handler {
	return &Handler{
		auth:   newAuthenticator(cfg),
		store:  store,
		loader: loader,
		logger: logger,
	}
}

// RegisterRoutes implements server.RouteRegistrar.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/admin/login", h.handleLogin)
	mux.HandleFunc("PUT /api/v1/admin/products/{sku}", h.requireAuth(h.handleUpdateProduct))
	mux.HandleFunc("POST /api/v1/admin/stock", h.requireAuth(h.handleStockUpdate))
	mux.HandleFunc("POST /api/v1/admin/refresh", h.requireAuth(h.handleRefresh))
}

// requireAuth rejects requests without a valid session token.
func (h *Handler) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.auth.validate(r); err != nil {
			server.Unauthorized(w, "authentication required", r.URL.Path)
			return
		}
		next(w, r)
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	OTP      string `json:"otp,omitempty"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.BadRequest(w, "invalid JSON body", r.URL.Path)
		return
	}

	token, err := h.auth.login(req.Username, req.Password, req.OTP)
	switch {
	case errors.Is(err, errRateLimited):
		server.RateLimited(w, "too many login attempts", r.URL.Path)
	case errors.Is(err, errLoginDisabled):
		server.ServiceUnavailable(w, "admin login is not configured", r.URL.Path)
	case err != nil:
		h.logger.Warn("admin login rejected", zap.String("username", req.Username))
		server.Unauthorized(w, "invalid credentials", r.URL.Path)
	default:
		writeJSON(w, http.StatusOK, loginResponse{Token: token})
	}
}

func (h *Handler) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		server.ServiceUnavailable(w, "product store not available", r.URL.Path)
		return
	}

	sku := r.PathValue("sku")
	var update ProductUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		server.BadRequest(w, "invalid JSON body", r.URL.Path)
		return
	}

	if err := h.store.UpdateProduct(r.Context(), sku, update); err != nil {
		if errors.Is(err, ErrProductNotFound) {
			server.NotFound(w, "product not found", r.URL.Path)
			return
		}
		h.logger.Error("product update failed", zap.String("sku", sku), zap.Error(err))
		server.InternalError(w, "product update failed", r.URL.Path)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"sku": sku, "status": "updated"})
}

func (h *Handler) handleStockUpdate(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		server.ServiceUnavailable(w, "product store not available", r.URL.Path)
		return
	}

	var req StockUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.BadRequest(w, "invalid JSON body", r.URL.Path)
		return
	}
	if len(req.Lines) == 0 {
		server.BadRequest(w, "at least one stock line is required", r.URL.Path)
		return
	}

	result, err := h.store.ApplyStockUpdate(r.Context(), req)
	if err != nil {
		h.logger.Error("stock update failed", zap.Error(err))
		server.InternalError(w, "stock update failed", r.URL.Path)
		return
	}

	h.logger.Info("stock update applied",
		zap.String("audit_id", result.AuditID),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
	)
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	snap, err := h.loader.Refresh(r.Context())
	if err != nil {
		h.logger.Error("snapshot refresh failed", zap.Error(err))
		server.InternalError(w, "snapshot refresh failed", r.URL.Path)
		return
	}

	metrics.SnapshotRefreshes.Inc()
	writeJSON(w, http.StatusOK, map[string]any{
		"generation": snap.Generation,
		"loadedAt":   snap.LoadedAt,
		"products":   len(snap.Products()),
	})
}

// -- helpers --

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

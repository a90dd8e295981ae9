package related

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/veloparts/storefront/internal/dataset"
	"github.com/veloparts/storefront/internal/metrics"
)

// maxLimit caps how many related parts one request can ask for.
const maxLimit = 24

// Handler serves the related-parts API.
type Handler struct {
	loader *dataset.Loader
	logger *zap.Logger
}

// NewHandler creates a related-parts API handler.
func NewHandler(loader *dataset.Loader, logger *zap.Logger) *Handler {
	return &Handler{loader: loader, logger: logger}
}

// RegisterRoutes implements server.RouteRegistrar.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/related-parts", h.handleRelatedParts)
}

// relatedResponse wraps the recommended parts list.
type relatedResponse struct {
	RelatedParts []Part `json:"relatedParts"`
}

func (h *Handler) handleRelatedParts(w http.ResponseWriter, r *http.Request) {
	sku := r.URL.Query().Get("sku")
	if sku == "" {
		writeError(w, http.StatusBadRequest, "sku is required")
		return
	}

	limit := DefaultLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= maxLimit {
			limit = n
		}
	}

	metrics.RelatedRequests.Inc()

	parts := NewRecommender(h.loader.Current()).RelatedParts(sku, limit)
	writeJSON(w, http.StatusOK, relatedResponse{RelatedParts: parts})
}

// -- helpers --

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"type":   "https://veloparts.io/problems/" + http.StatusText(status),
		"title":  http.StatusText(status),
		"status": status,
		"detail": detail,
	})
}

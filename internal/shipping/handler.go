package shipping

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/veloparts/storefront/internal/dataset"
)

// Handler serves the shipping quote API.
type Handler struct {
	loader *dataset.Loader
	logger *zap.Logger
}

// NewHandler creates a shipping API handler.
func NewHandler(loader *dataset.Loader, logger *zap.Logger) *Handler {
	return &Handler{loader: loader, logger: logger}
}

// RegisterRoutes implements server.RouteRegistrar.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/shipping/quote", h.handleQuote)
}

type quoteItem struct {
	Sku      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

type quoteRequest struct {
	Items []quoteItem `json:"items"`
}

func (h *Handler) handleQuote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "at least one item is required")
		return
	}

	snap := h.loader.Current()
	var totalKg float64
	var unknown []string
	for _, item := range req.Items {
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}
		p, ok := snap.ProductBySKU(item.Sku)
		if !ok {
			unknown = append(unknown, item.Sku)
			continue
		}
		totalKg += p.Weight * float64(qty)
	}

	quote := QuoteUS(totalKg)
	quote.UnknownSkus = unknown

	h.logger.Debug("shipping quote",
		zap.Float64("weight_kg", totalKg),
		zap.Bool("needs_quote", quote.NeedsQuote),
		zap.Int("unknown_skus", len(unknown)))

	writeJSON(w, http.StatusOK, quote)
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

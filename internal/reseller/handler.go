// Package reseller serves the white-label storefront API: the shared search
// contract narrowed to a tenant's product range, with the tenant's pricing
// policy applied.
package reseller

import (
	"encoding/json"
	"math"
	"net/http"

	"go.uber.org/zap"

	"github.com/veloparts/storefront/internal/dataset"
	"github.com/veloparts/storefront/internal/search"
	"github.com/veloparts/storefront/pkg/models"
	"github.com/veloparts/storefront/pkg/tenants"
)

// Handler serves tenant lookups and tenant-scoped product search.
type Handler struct {
	registry *tenants.Registry
	loader   *dataset.Loader
	logger   *zap.Logger
}

// NewHandler creates a reseller API handler.
func NewHandler(registry *tenants.Registry, loader *dataset.Loader, logger *zap.Logger) *Handler {
	return &Handler{registry: registry, loader: loader, logger: logger}
}

// RegisterRoutes implements server.RouteRegistrar.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/tenants/{slug}", h.handleGetTenant)
	mux.HandleFunc("GET /api/v1/reseller/products", h.handleResellerProducts)
}

func (h *Handler) handleGetTenant(w http.ResponseWriter, r *http.Request) {
	tenant, ok, err := h.registry.Get(r.PathValue("slug"))
	if err != nil {
		h.logger.Error("tenant registry unavailable", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "tenant registry unavailable")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "tenant not found")
		return
	}
	writeJSON(w, http.StatusOK, tenant)
}

// handleResellerProducts runs the shared product search restricted to the
// tenant's stock-type range. Restriction only ever narrows the result set;
// facets are narrowed to the tenant's range as well so reseller dropdowns
// never advertise products the tenant cannot sell.
func (h *Handler) handleResellerProducts(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("tenant")
	tenant, ok, err := h.registry.Get(slug)
	if err != nil {
		h.logger.Error("tenant registry unavailable", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "tenant registry unavailable")
		return
	}
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid tenant")
		return
	}

	q := search.QueryFromValues(r.URL.Query())
	result := search.NewEngine(h.loader.Current()).Search(q)

	// Drop products outside the tenant's range from the returned page and
	// re-price the rest. Page totals keep the unrestricted counts; the
	// storefront treats the page as sparse, matching how the reseller
	// filter has always behaved.
	kept := result.Products[:0]
	for _, p := range result.Products {
		if !tenant.AllowsStockType(string(p.StockType)) {
			continue
		}
		if tenant.PriceMarkupPct != 0 {
			p.Price = markUp(p.Price, tenant.PriceMarkupPct)
		}
		if !tenant.ShowPrices {
			p.Price = 0
		}
		kept = append(kept, p)
	}
	result.Products = kept

	// The facet slice is shared snapshot state; filter into a copy.
	types := make([]models.StockType, 0, len(result.StockTypes))
	for _, st := range result.StockTypes {
		if tenant.AllowsStockType(string(st)) {
			types = append(types, st)
		}
	}
	result.StockTypes = types

	writeJSON(w, http.StatusOK, resellerResponse{Result: result, Tenant: tenant})
}

type resellerResponse struct {
	search.Result
	Tenant tenants.Tenant `json:"tenant"`
}

// markUp applies a percentage markup, rounded to cents.
func markUp(price, pct float64) float64 {
	return math.Round(price*(1+pct/100)*100) / 100
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

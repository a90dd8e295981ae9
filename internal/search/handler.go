package search

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/veloparts/storefront/internal/dataset"
	"github.com/veloparts/storefront/internal/metrics"
	"github.com/veloparts/storefront/pkg/models"
)

// maxLimit caps the requested page size.
const maxLimit = 200

// Handler serves the product search API.
type Handler struct {
	loader *dataset.Loader
	logger *zap.Logger
}

// NewHandler creates a search API handler.
func NewHandler(loader *dataset.Loader, logger *zap.Logger) *Handler {
	return &Handler{loader: loader, logger: logger}
}

// RegisterRoutes implements server.RouteRegistrar.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/products", h.handleProducts)
	mux.HandleFunc("GET /api/v1/products/{sku}", h.handleProductBySKU)
}

// handleProducts runs a catalog search. Malformed filter values are dropped
// rather than rejected, so the endpoint always returns a well-formed result.
func (h *Handler) handleProducts(w http.ResponseWriter, r *http.Request) {
	q := QueryFromValues(r.URL.Query())

	snap := h.loader.Current()
	start := time.Now()
	result := NewEngine(snap).Search(q)
	metrics.SearchDuration.Observe(time.Since(start).Seconds())

	searchType := result.SearchType
	if searchType == "" {
		searchType = "browse"
	}
	metrics.SearchRequests.WithLabelValues(searchType).Inc()

	h.logger.Debug("product search",
		zap.String("text", q.Text),
		zap.String("search_type", searchType),
		zap.Int("total", result.Pagination.Total),
		zap.String("generation", snap.Generation),
	)

	writeJSON(w, http.StatusOK, searchResponse{
		Result:      result,
		VehicleData: snap.VehicleData(),
	})
}

// handleProductBySKU returns a single product with its fitment records and
// popularity score.
func (h *Handler) handleProductBySKU(w http.ResponseWriter, r *http.Request) {
	sku := r.PathValue("sku")
	snap := h.loader.Current()

	p, ok := snap.ProductBySKU(sku)
	if !ok {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}

	writeJSON(w, http.StatusOK, productDetail{
		Product:         p,
		Fitment:         recordsOrEmpty(snap.FitmentForParent(p.FitmentKey())),
		PopularityScore: snap.PopularityScore(p.Sku),
	})
}

// searchResponse adds the vehicle picker data to the engine result.
type searchResponse struct {
	Result
	VehicleData map[string][]string `json:"vehicleData"`
}

// productDetail is the single-product response shape.
type productDetail struct {
	models.Product
	Fitment         []models.FitmentRecord `json:"fitment"`
	PopularityScore float64                `json:"popularityScore"`
}

// QueryFromValues builds an engine query from URL parameters, silently
// ignoring anything unparseable.
func QueryFromValues(params url.Values) Query {
	q := Query{
		Text:        params.Get("search"),
		Category:    params.Get("category"),
		StockType:   params.Get("stockType"),
		NLAOnly:     params.Get("nlaOnly") == "true",
		InStockOnly: params.Get("inStockOnly") == "true",
		Sort:        params.Get("sort"),
		Page:        parsePositiveInt(params.Get("page"), 1),
		Limit:       parsePositiveInt(params.Get("limit"), DefaultLimit),
	}
	if q.Limit > maxLimit {
		q.Limit = maxLimit
	}

	q.Vehicle = models.Vehicle{
		Make:  params.Get("make"),
		Model: params.Get("model"),
	}
	if y, err := strconv.Atoi(params.Get("year")); err == nil && y > 0 {
		q.Vehicle.Year = y
	}
	if c, err := strconv.ParseInt(params.Get("chassis"), 10, 64); err == nil && c >= 0 {
		q.Vehicle.Chassis = &c
	}
	return q
}

// parsePositiveInt parses s as a positive integer, falling back to def.
func parsePositiveInt(s string, def int) int {
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return def
}

func recordsOrEmpty(recs []models.FitmentRecord) []models.FitmentRecord {
	if recs == nil {
		return []models.FitmentRecord{}
	}
	return recs
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

package fitment

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/veloparts/storefront/internal/dataset"
	"github.com/veloparts/storefront/pkg/models"
)

// Handler serves chassis-year lookups and vehicle picker data.
type Handler struct {
	loader *dataset.Loader
	logger *zap.Logger
}

// NewHandler creates a fitment API handler.
func NewHandler(loader *dataset.Loader, logger *zap.Logger) *Handler {
	return &Handler{loader: loader, logger: logger}
}

// RegisterRoutes implements server.RouteRegistrar.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/chassis", h.handleChassis)
	mux.HandleFunc("GET /api/v1/vehicles", h.handleVehicles)
}

// modelSummary lists one model's production span for dropdowns.
type modelSummary struct {
	Model     string `json:"model"`
	YearStart int    `json:"yearStart"`
	YearEnd   int    `json:"yearEnd"`
}

// chassisRangeResponse is the resolved chassis range for a model year.
type chassisRangeResponse struct {
	Make    string              `json:"make"`
	Model   string              `json:"model"`
	Year    int                 `json:"year"`
	Chassis models.ChassisRange `json:"chassis"`
}

// handleChassis has three modes, narrowing with the parameters given:
// no params -> make/model summary; make+model -> that model's year entry;
// make+model+year -> the chassis range for that year.
func (h *Handler) handleChassis(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	mk := params.Get("make")
	model := params.Get("model")
	yearStr := params.Get("year")

	snap := h.loader.Current()
	matcher := NewMatcher(snap)

	if mk == "" {
		writeJSON(w, http.StatusOK, chassisSummary(snap))
		return
	}

	if model == "" {
		writeError(w, http.StatusBadRequest, "model is required when make is given")
		return
	}

	if yearStr == "" {
		entry, ok := matcher.ModelYears(mk, model)
		if !ok {
			writeError(w, http.StatusNotFound, "model not found")
			return
		}
		writeJSON(w, http.StatusOK, entry)
		return
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "year must be an integer")
		return
	}
	rng, ok := matcher.RangeForYear(mk, model, year)
	if !ok {
		writeError(w, http.StatusNotFound, "year not found for this model")
		return
	}
	writeJSON(w, http.StatusOK, chassisRangeResponse{
		Make:    mk,
		Model:   model,
		Year:    year,
		Chassis: rng,
	})
}

// handleVehicles returns make -> sorted models from the fitment dataset.
func (h *Handler) handleVehicles(w http.ResponseWriter, _ *http.Request) {
	data := h.loader.Current().VehicleData()
	if data == nil {
		data = map[string][]string{}
	}
	writeJSON(w, http.StatusOK, data)
}

// chassisSummary flattens the chassis-year table into sorted make -> model
// production spans.
func chassisSummary(snap *dataset.Snapshot) map[string][]modelSummary {
	out := make(map[string][]modelSummary)
	for mk, byModel := range snap.ChassisYears() {
		list := make([]modelSummary, 0, len(byModel))
		for model, entry := range byModel {
			list = append(list, modelSummary{
				Model:     model,
				YearStart: entry.YearStart,
				YearEnd:   entry.YearEnd,
			})
		}
		sort.Slice(list, func(a, b int) bool { return list[a].Model < list[b].Model })
		out[mk] = list
	}
	return out
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

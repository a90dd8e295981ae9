package fitment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/veloparts/storefront/internal/dataset"
	"github.com/veloparts/storefront/pkg/models"
)

type staticSource struct {
	c dataset.Collections
}

func (s staticSource) Load(context.Context) (dataset.Collections, error) {
	return s.c, nil
}

func newFitmentMux(t *testing.T) *http.ServeMux {
	t.Helper()
	l := dataset.NewLoader(staticSource{c: dataset.Collections{
		ChassisYears: models.ChassisYears{
			"Bentley": {
				"Continental GT": {YearStart: 2003, YearEnd: 2011, ChassisByYear: map[int]models.ChassisRange{
					2005: {Start: i64(30001), End: i64(40000)},
				}},
				"Arnage": {YearStart: 1998, YearEnd: 2009},
			},
		},
		Fitment: []models.FitmentRecord{
			{ParentSku: "UE40893", Make: "Bentley", Model: "Continental GT"},
		},
	}}, zap.NewNop())
	if _, err := l.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	mux := http.NewServeMux()
	NewHandler(l, zap.NewNop()).RegisterRoutes(mux)
	return mux
}

func getURL(t *testing.T, mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHandleChassisSummary(t *testing.T) {
	mux := newFitmentMux(t)

	rec := getURL(t, mux, "/api/v1/chassis")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var summary map[string][]modelSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatal(err)
	}
	list := summary["Bentley"]
	if len(list) != 2 {
		t.Fatalf("expected 2 Bentley models, got %v", list)
	}
	// Models come sorted.
	if list[0].Model != "Arnage" || list[1].Model != "Continental GT" {
		t.Errorf("models should be sorted, got %v", list)
	}
}

func TestHandleChassisModelYears(t *testing.T) {
	mux := newFitmentMux(t)

	rec := getURL(t, mux, "/api/v1/chassis?make=Bentley&model=Continental+GT")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var entry models.ModelChassisYears
	if err := json.Unmarshal(rec.Body.Bytes(), &entry); err != nil {
		t.Fatal(err)
	}
	if entry.YearStart != 2003 || entry.YearEnd != 2011 {
		t.Errorf("unexpected entry: %+v", entry)
	}
}

func TestHandleChassisYearRange(t *testing.T) {
	mux := newFitmentMux(t)

	rec := getURL(t, mux, "/api/v1/chassis?make=Bentley&model=Continental+GT&year=2005")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp chassisRangeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Chassis.Start == nil || *resp.Chassis.Start != 30001 {
		t.Errorf("unexpected chassis range: %+v", resp.Chassis)
	}
}

func TestHandleChassisErrors(t *testing.T) {
	mux := newFitmentMux(t)

	if rec := getURL(t, mux, "/api/v1/chassis?make=Bentley"); rec.Code != http.StatusBadRequest {
		t.Errorf("make without model: status = %d, want 400", rec.Code)
	}
	if rec := getURL(t, mux, "/api/v1/chassis?make=Bentley&model=Mulsanne"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown model: status = %d, want 404", rec.Code)
	}
	if rec := getURL(t, mux, "/api/v1/chassis?make=Bentley&model=Continental+GT&year=1999"); rec.Code != http.StatusNotFound {
		t.Errorf("year outside span: status = %d, want 404", rec.Code)
	}
	if rec := getURL(t, mux, "/api/v1/chassis?make=Bentley&model=Continental+GT&year=abc"); rec.Code != http.StatusBadRequest {
		t.Errorf("non-numeric year: status = %d, want 400", rec.Code)
	}
}

func TestHandleVehicles(t *testing.T) {
	mux := newFitmentMux(t)

	rec := getURL(t, mux, "/api/v1/vehicles")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var data map[string][]string
	if err := json.Unmarshal(rec.Body.Bytes(), &data); err != nil {
		t.Fatal(err)
	}
	if len(data["Bentley"]) != 1 || data["Bentley"][0] != "Continental GT" {
		t.Errorf("unexpected vehicle data: %v", data)
	}
}

package related

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/veloparts/storefront/internal/dataset"
)

type staticSource struct {
	c dataset.Collections
}

func (s staticSource) Load(context.Context) (dataset.Collections, error) {
	return s.c, nil
}

func newRelatedMux(t *testing.T) *http.ServeMux {
	t.Helper()
	l := dataset.NewLoader(staticSource{c: relatedCollections()}, zap.NewNop())
	if _, err := l.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	mux := http.NewServeMux()
	NewHandler(l, zap.NewNop()).RegisterRoutes(mux)
	return mux
}

func TestHandleRelatedParts(t *testing.T) {
	mux := newRelatedMux(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/related-parts?sku=UE40893&limit=2", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp relatedResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if len(resp.RelatedParts) != 2 {
		t.Errorf("expected 2 parts, got %d", len(resp.RelatedParts))
	}
}

func TestHandleRelatedPartsRequiresSKU(t *testing.T) {
	mux := newRelatedMux(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/related-parts", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleRelatedPartsClampsLimit(t *testing.T) {
	mux := newRelatedMux(t)

	// An oversized limit falls back to the default rather than erroring.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/related-parts?sku=UE40893&limit=9999", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp relatedResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.RelatedParts) > DefaultLimit {
		t.Errorf("oversized limit should fall back to the default, got %d parts", len(resp.RelatedParts))
	}
}

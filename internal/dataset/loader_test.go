package dataset

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/veloparts/storefront/pkg/models"
)

// countingSource counts Load calls and can be told to fail.
type countingSource struct {
	calls int
	fail  bool
}

func (s *countingSource) Load(context.Context) (Collections, error) {
	s.calls++
	if s.fail {
		return Collections{}, errors.New("source down")
	}
	return Collections{Products: []models.Product{{Sku: "UR73145"}}}, nil
}

func TestLoaderLoadIsIdempotent(t *testing.T) {
	src := &countingSource{}
	l := NewLoader(src, zap.NewNop())

	first, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	second, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if src.calls != 1 {
		t.Errorf("Load should hit the source once, got %d calls", src.calls)
	}
	if first.Generation != second.Generation {
		t.Error("repeated Load should return the same snapshot generation")
	}
}

func TestLoaderRefreshSwapsGeneration(t *testing.T) {
	src := &countingSource{}
	l := NewLoader(src, zap.NewNop())

	first, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	refreshed, err := l.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if first.Generation == refreshed.Generation {
		t.Error("Refresh should publish a new generation")
	}
	if l.Current().Generation != refreshed.Generation {
		t.Error("Current should see the refreshed snapshot")
	}
}

func TestLoaderKeepsSnapshotOnRefreshFailure(t *testing.T) {
	src := &countingSource{}
	l := NewLoader(src, zap.NewNop())

	loaded, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	src.fail = true
	if _, err := l.Refresh(context.Background()); err == nil {
		t.Fatal("Refresh should surface the source error")
	}
	if l.Current().Generation != loaded.Generation {
		t.Error("failed refresh should leave the current snapshot in place")
	}
}

func TestLoaderCurrentBeforeLoad(t *testing.T) {
	l := NewLoader(&countingSource{}, zap.NewNop())
	snap := l.Current()
	if snap == nil {
		t.Fatal("Current must never return nil")
	}
	if len(snap.Products()) != 0 {
		t.Error("pre-load snapshot should be empty")
	}
}

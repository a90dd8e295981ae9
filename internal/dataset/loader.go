package dataset

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Loader owns the current snapshot. Load is idempotent within a process
// lifetime; Refresh builds a replacement snapshot off to the side and
// publishes it with a single pointer swap, so in-flight readers keep the
// generation they started with.
type Loader struct {
	source  Source
	logger  *zap.Logger
	current atomic.Pointer[Snapshot]

	mu     sync.Mutex // Serialize Load/Refresh
	loaded bool
}

// NewLoader creates a loader over the given source. Current returns an empty
// snapshot until the first successful Load.
func NewLoader(source Source, logger *zap.Logger) *Loader {
	l := &Loader{source: source, logger: logger}
	l.current.Store(NewSnapshot(Collections{}))
	return l
}

// Load populates the snapshot on first call and is a no-op afterwards.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.loaded {
		return l.current.Load(), nil
	}
	snap, err := l.refreshLocked(ctx)
	if err != nil {
		return nil, err
	}
	l.loaded = true
	return snap, nil
}

// Refresh rebuilds the snapshot from the source and swaps it in atomically.
func (l *Loader) Refresh(ctx context.Context) (*Snapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap, err := l.refreshLocked(ctx)
	if err != nil {
		return nil, err
	}
	l.loaded = true
	return snap, nil
}

// Current returns the live snapshot. Never nil and never torn.
func (l *Loader) Current() *Snapshot {
	return l.current.Load()
}

func (l *Loader) refreshLocked(ctx context.Context) (*Snapshot, error) {
	collections, err := l.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load datasets: %w", err)
	}

	snap := NewSnapshot(collections)
	l.current.Store(snap)

	l.logger.Info("dataset snapshot published",
		zap.String("generation", snap.Generation),
		zap.Int("products", len(snap.products)),
		zap.Int("fitment_parents", len(snap.fitment)),
		zap.Int("supersessions", len(snap.supersessions)),
		zap.Int("makes", len(snap.chassis)),
	)
	return snap, nil
}

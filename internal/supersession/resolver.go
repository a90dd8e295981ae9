// Package supersession resolves superseded part numbers to their current
// replacement by walking manufacturer-declared replacement chains.
package supersession

import (
	"github.com/veloparts/storefront/internal/dataset"
	"github.com/veloparts/storefront/pkg/models"
)

// maxChainHops bounds chain walking independently of cycle detection, so a
// pathological lookup table can never stall a request.
const maxChainHops = 50

// Resolution is the outcome of following a supersession chain.
type Resolution struct {
	// FinalSKU is the current replacement, or the last good SKU before a
	// cycle was detected in corrupt data.
	FinalSKU string `json:"finalSku"`
	// Chain lists every SKU visited, starting with the input.
	Chain []string `json:"chain"`
	// WasSuperseded is true when at least one replacement hop was taken.
	WasSuperseded bool `json:"wasSuperseded"`
}

// Resolver walks supersession chains over a dataset snapshot.
type Resolver struct {
	snap *dataset.Snapshot
}

// NewResolver creates a resolver over the given snapshot.
func NewResolver(snap *dataset.Snapshot) *Resolver {
	return &Resolver{snap: snap}
}

// Resolve follows the supersession chain from sku until no further
// replacement exists. SKU comparison is case-insensitive. A cycle in the
// lookup data is broken defensively: the walk stops and the last SKU before
// the repeat is reported as final, still flagged as superseded.
func (r *Resolver) Resolve(sku string) Resolution {
	current := models.CanonicalSKU(sku)
	res := Resolution{
		FinalSKU: current,
		Chain:    []string{current},
	}
	if current == "" {
		return res
	}

	visited := map[string]bool{current: true}
	for hop := 0; hop < maxChainHops; hop++ {
		targets := r.snap.SupersessionTargets(current)
		if len(targets) == 0 {
			return res
		}

		// The lookup maps an old part number to its current replacement;
		// when several targets exist the first is the chain successor.
		next := targets[0]
		res.WasSuperseded = true
		if visited[next] {
			// Cycle: keep the last good SKU before the repeat.
			return res
		}
		visited[next] = true
		res.Chain = append(res.Chain, next)
		res.FinalSKU = next
		current = next
	}
	return res
}

// Targets returns the direct replacement SKUs recorded for sku, without
// walking the chain. Nil when the SKU has not been superseded.
func (r *Resolver) Targets(sku string) []string {
	return r.snap.SupersessionTargets(sku)
}

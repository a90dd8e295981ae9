// Package fitment determines which parent SKUs are compatible with a vehicle
// by cross-referencing the fitment and chassis-year datasets.
package fitment

import (
	"github.com/veloparts/storefront/internal/dataset"
	"github.com/veloparts/storefront/pkg/models"
)

// Matcher answers vehicle-compatibility queries over a dataset snapshot.
type Matcher struct {
	snap *dataset.Snapshot
}

// NewMatcher creates a matcher over the given snapshot.
func NewMatcher(snap *dataset.Snapshot) *Matcher {
	return &Matcher{snap: snap}
}

// MatchingParentSkus returns the set of parent SKUs with at least one fitment
// record compatible with the vehicle. The set is unordered; ranking is the
// caller's concern.
//
// Narrowing rules:
//   - make only: any record for that make.
//   - make+model: records for that exact pair.
//   - make+model+year: the year is resolved to the model's chassis range for
//     that year; records whose chassis range overlaps it match. A year outside
//     the model's production span yields no matches, not an error.
//   - make+model+chassis: records whose range contains the chassis number,
//     treating a missing bound as open on that side.
func (m *Matcher) MatchingParentSkus(v models.Vehicle) map[string]bool {
	out := make(map[string]bool)
	if v.Make == "" {
		return out
	}

	var yearRange models.ChassisRange
	useYearRange := false
	if v.Model != "" && v.Chassis == nil && v.Year != 0 {
		r, ok := m.RangeForYear(v.Make, v.Model, v.Year)
		if !ok {
			return out
		}
		yearRange = r
		useYearRange = true
	}

	m.snap.FitmentParents(func(parentSku string, records []models.FitmentRecord) {
		for _, f := range records {
			if f.Make != v.Make {
				continue
			}
			if v.Model != "" && f.Model != v.Model {
				continue
			}
			if v.Chassis != nil {
				if !f.Range().Contains(*v.Chassis) {
					continue
				}
			} else if useYearRange {
				if !f.Range().Overlaps(yearRange) {
					continue
				}
			}
			out[parentSku] = true
			return
		}
	})
	return out
}

// RangeForYear resolves a model year to its chassis range via the
// chassis-year table. The second return is false when the make, model or
// year is unknown.
func (m *Matcher) RangeForYear(mk, model string, year int) (models.ChassisRange, bool) {
	byModel, ok := m.snap.ChassisYears()[mk]
	if !ok {
		return models.ChassisRange{}, false
	}
	entry, ok := byModel[model]
	if !ok {
		return models.ChassisRange{}, false
	}
	return entry.RangeForYear(year)
}

// ModelYears returns the chassis-year entry for a make/model pair.
func (m *Matcher) ModelYears(mk, model string) (models.ModelChassisYears, bool) {
	byModel, ok := m.snap.ChassisYears()[mk]
	if !ok {
		return models.ModelChassisYears{}, false
	}
	entry, ok := byModel[model]
	return entry, ok
}

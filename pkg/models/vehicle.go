package models

// Vehicle describes the vehicle a customer is shopping for. Make is required
// for any fitment filtering; Model, Year and Chassis progressively narrow the
// match. Chassis is an explicit serial number and takes precedence over Year.
type Vehicle struct {
	Make    string `json:"make"`
	Model   string `json:"model,omitempty"`
	Year    int    `json:"year,omitempty"`
	Chassis *int64 `json:"chassis,omitempty"`
}

// IsZero reports whether no vehicle attribute is set.
func (v Vehicle) IsZero() bool {
	return v.Make == "" && v.Model == "" && v.Year == 0 && v.Chassis == nil
}

// ChassisRange is a manufacturer-assigned serial-number interval. A nil bound
// means the range is open on that side.
type ChassisRange struct {
	Start *int64 `json:"start"`
	End   *int64 `json:"end"`
}

// Contains reports whether the chassis number falls within the range,
// treating a nil bound as unbounded on that side.
func (r ChassisRange) Contains(chassis int64) bool {
	if r.Start != nil && chassis < *r.Start {
		return false
	}
	if r.End != nil && chassis > *r.End {
		return false
	}
	return true
}

// Overlaps reports whether two ranges share at least one chassis number.
// Fitment ranges represent production runs that may only partially overlap a
// model year's chassis span, so overlap (not containment) is the match rule.
func (r ChassisRange) Overlaps(other ChassisRange) bool {
	if r.Start != nil && other.End != nil && *other.End < *r.Start {
		return false
	}
	if r.End != nil && other.Start != nil && *other.Start > *r.End {
		return false
	}
	return true
}

// FitmentRecord states that the parent SKU fits vehicles of the given make
// and model within the chassis interval. A parent SKU may carry many records,
// one per applicable make/model/chassis-range combination.
type FitmentRecord struct {
	ParentSku      string `json:"parentSku"`
	Make           string `json:"make"`
	Model          string `json:"model"`
	ChassisStart   *int64 `json:"chassisStart"`
	ChassisEnd     *int64 `json:"chassisEnd"`
	AdditionalInfo string `json:"additionalInfo,omitempty"`
}

// Range returns the record's chassis interval.
func (f FitmentRecord) Range() ChassisRange {
	return ChassisRange{Start: f.ChassisStart, End: f.ChassisEnd}
}

// ModelChassisYears holds the production years of one model and the chassis
// interval assigned to each year. Year ranges per model are non-overlapping;
// a chassis range is only meaningful within its parent year.
type ModelChassisYears struct {
	YearStart     int                  `json:"yearStart"`
	YearEnd       int                  `json:"yearEnd"`
	ChassisByYear map[int]ChassisRange `json:"chassisRangesByYear"`
}

// RangeForYear returns the chassis range for a production year. The second
// return is false when the year falls outside the model's production span.
// A year inside the span with no recorded range resolves to an open range,
// degrading to model-level matching rather than excluding everything.
func (m ModelChassisYears) RangeForYear(year int) (ChassisRange, bool) {
	if year < m.YearStart || year > m.YearEnd {
		return ChassisRange{}, false
	}
	return m.ChassisByYear[year], true
}

// ChassisYears is the full make -> model -> chassis-year table.
type ChassisYears map[string]map[string]ModelChassisYears

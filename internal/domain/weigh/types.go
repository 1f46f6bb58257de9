package weigh

// Package weigh holds the weigh-session accumulator and the compliance
// arithmetic. Everything in this package is pure and synchronous; all
// persistence and lookups live in services and clients.

type TargetType string

const (
	TargetVehicleOnly           TargetType = "vehicle_only"
	TargetTowVehicleAndCaravan  TargetType = "tow_vehicle_and_caravan"
	TargetCaravanOnlyRegistered TargetType = "caravan_only_registered"
)

func (t TargetType) Valid() bool {
	switch t {
	case TargetVehicleOnly, TargetTowVehicleAndCaravan, TargetCaravanOnlyRegistered:
		return true
	}
	return false
}

type Method string

const (
	MethodPortableTyres          Method = "portable_tyres"
	MethodWeighbridgeInGround    Method = "weighbridge_in_ground"
	MethodWeighbridgeGoWeigh     Method = "weighbridge_go_weigh"
	MethodWeighbridgeAboveGround Method = "weighbridge_above_ground"
)

func (m Method) Valid() bool {
	switch m {
	case MethodPortableTyres, MethodWeighbridgeInGround, MethodWeighbridgeGoWeigh, MethodWeighbridgeAboveGround:
		return true
	}
	return false
}

type Leg string

const (
	LegVehicle Leg = "vehicle"
	LegCaravan Leg = "caravan"
)

type EntityKind string

const (
	KindVehicle EntityKind = "vehicle"
	KindCaravan EntityKind = "caravan"
)

// CapacitySource records where a rated capacity came from, so the
// report can disclose provenance. A manual entry is advisory-only
// quality versus a registry match.
type CapacitySource string

const (
	SourceInternalRegistry CapacitySource = "internal_registry"
	SourceExternalLookup   CapacitySource = "external_lookup"
	SourceManualEntry      CapacitySource = "manual_entry"
)

type Status string

const (
	StatusOK         Status = "ok"
	StatusOverloaded Status = "overloaded"
	StatusUnknown    Status = "unknown"
)

// Compliance metric names. Rated capacities and measured masses pair up
// on these names; the evaluator never matches on anything else.
const (
	MetricGVM       = "GVM"
	MetricGCM       = "GCM"
	MetricATM       = "ATM"
	MetricGTM       = "GTM"
	MetricTBM       = "TBM"
	MetricBTC       = "BTC"
	MetricFrontAxle = "FrontAxle"
	MetricRearAxle  = "RearAxle"
	MetricAxleGroup = "AxleGroup"
)

// MeasuredMass is a single derived mass in kilograms. It is always
// produced by the normalizer, never entered directly by a user.
type MeasuredMass struct {
	Metric string  `json:"metric"`
	Value  float64 `json:"value"`
	Unit   string  `json:"unit"`
}

// RatedCapacity is a single manufacturer limit in kilograms.
type RatedCapacity struct {
	Metric string         `json:"metric"`
	Value  float64        `json:"value"`
	Unit   string         `json:"unit"`
	Source CapacitySource `json:"source"`
}

// ComplianceResult is one verdict for one metric. Rated and Margin are
// nil when no rated capacity was available for the metric, in which
// case Status is StatusUnknown.
type ComplianceResult struct {
	Metric   string   `json:"metric"`
	Measured float64  `json:"measured"`
	Rated    *float64 `json:"rated,omitempty"`
	Margin   *float64 `json:"margin,omitempty"`
	Status   Status   `json:"status"`
}

// Entity is a resolved or manually entered vehicle/caravan identity
// with its rated capacities.
type Entity struct {
	Kind       EntityKind      `json:"kind"`
	Make       string          `json:"make"`
	Model      string          `json:"model"`
	Year       int             `json:"year"`
	Plate      string          `json:"plate"`
	State      string          `json:"state"`
	VIN        string          `json:"vin,omitempty"`
	Capacities []RatedCapacity `json:"capacities"`
	Source     CapacitySource  `json:"source"`
}

// Capacity returns the rated capacity for a metric, if the entity
// carries one.
func (e *Entity) Capacity(metric string) (RatedCapacity, bool) {
	if e == nil {
		return RatedCapacity{}, false
	}
	for _, c := range e.Capacities {
		if c.Metric == metric {
			return c, true
		}
	}
	return RatedCapacity{}, false
}

// PreWeigh is free-form context captured before measurement. It is
// never validated against capacities.
type PreWeigh struct {
	FuelLevelPct    *int   `json:"fuel_level_pct,omitempty"`
	Passengers      *int   `json:"passengers,omitempty"`
	WaterTanksFull  *bool  `json:"water_tanks_full,omitempty"`
	TowBallHeightMM *int   `json:"tow_ball_height_mm,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// TyreRow is one axle row of portable tyre scale readings. Axle names
// "front", "middle" and "rear" group rows of dual/triple axle sets.
// Nil readings are blanks; the normalizer coerces them to 0.
type TyreRow struct {
	Axle  string   `json:"axle"`
	Left  *float64 `json:"left,omitempty"`
	Right *float64 `json:"right,omitempty"`
}

// RawReadings is the method-specific bag of raw scale or weighbridge
// entries for one leg. Only the fields that the chosen method uses are
// ever populated; all numeric fields are optional so that "not
// entered" stays distinguishable from an explicit zero until the
// normalizer applies its coercion policy.
type RawReadings struct {
	// Portable tyre scales.
	TyreRows []TyreRow `json:"tyre_rows,omitempty"`
	// Coupling/jockey-wheel scale reading for a caravan on tyre scales.
	Coupling *float64 `json:"coupling,omitempty"`

	// In-ground weighbridge axle readings.
	FrontAxle        *float64 `json:"front_axle,omitempty"`
	RearAxle         *float64 `json:"rear_axle,omitempty"`
	FrontAxleHitched *float64 `json:"front_axle_hitched,omitempty"`
	RearAxleHitched  *float64 `json:"rear_axle_hitched,omitempty"`

	// Single-platform totals (above-ground, or a trailer alone on an
	// in-ground bridge). Hitched and unhitched stay separate fields and
	// are never combined.
	Single        *float64 `json:"single,omitempty"`
	SingleHitched *float64 `json:"single_hitched,omitempty"`

	// Go-weigh two-pass protocol. First weigh is unhitched, second is
	// hitched; vehicle and trailer sit on separate platforms.
	FirstVehicle  *float64 `json:"first_vehicle,omitempty"`
	FirstTrailer  *float64 `json:"first_trailer,omitempty"`
	SecondVehicle *float64 `json:"second_vehicle,omitempty"`
	SecondTrailer *float64 `json:"second_trailer,omitempty"`
	// Operator-entered summary values; go-weigh hardware reports these
	// natively and the entry is trusted over derivation.
	GCM *float64 `json:"gcm,omitempty"`
	TBM *float64 `json:"tbm,omitempty"`

	// Optional re-measurement with the weight distribution hitch
	// released, for the tow flow. Advisory only.
	WDHFrontAxle *float64 `json:"wdh_front_axle,omitempty"`
	WDHRearAxle  *float64 `json:"wdh_rear_axle,omitempty"`
}

func (r *RawReadings) clone() *RawReadings {
	if r == nil {
		return nil
	}
	out := *r
	if r.TyreRows != nil {
		out.TyreRows = make([]TyreRow, len(r.TyreRows))
		copy(out.TyreRows, r.TyreRows)
	}
	return &out
}

// merged overlays the non-nil fields of other onto a copy of r. Used to
// join the hitched and unhitched passes of a tow-vehicle leg before
// normalization.
func (r *RawReadings) merged(other *RawReadings) *RawReadings {
	out := r.clone()
	if out == nil {
		return other.clone()
	}
	if other == nil {
		return out
	}
	if len(other.TyreRows) > 0 {
		out.TyreRows = append(out.TyreRows, other.TyreRows...)
	}
	overlay := func(dst **float64, src *float64) {
		if src != nil {
			*dst = src
		}
	}
	overlay(&out.Coupling, other.Coupling)
	overlay(&out.FrontAxle, other.FrontAxle)
	overlay(&out.RearAxle, other.RearAxle)
	overlay(&out.FrontAxleHitched, other.FrontAxleHitched)
	overlay(&out.RearAxleHitched, other.RearAxleHitched)
	overlay(&out.Single, other.Single)
	overlay(&out.SingleHitched, other.SingleHitched)
	overlay(&out.FirstVehicle, other.FirstVehicle)
	overlay(&out.FirstTrailer, other.FirstTrailer)
	overlay(&out.SecondVehicle, other.SecondVehicle)
	overlay(&out.SecondTrailer, other.SecondTrailer)
	overlay(&out.GCM, other.GCM)
	overlay(&out.TBM, other.TBM)
	overlay(&out.WDHFrontAxle, other.WDHFrontAxle)
	overlay(&out.WDHRearAxle, other.WDHRearAxle)
	return out
}

// AxleWeigh is the canonical output of the normalizer for one leg:
// only the masses the method can produce, in a stable order.
// Incomplete lists metrics whose raw inputs contained blanks that were
// coerced to 0, so the report can caveat the verdict.
type AxleWeigh struct {
	Masses     []MeasuredMass `json:"masses"`
	Incomplete []string       `json:"incomplete,omitempty"`

	// Derived go-weigh cross-check values, kept alongside the trusted
	// operator entries. Not fed to the evaluator.
	DerivedGCM *float64 `json:"derived_gcm,omitempty"`
	DerivedTBM *float64 `json:"derived_tbm,omitempty"`
}

// Get returns the measured value for a metric, if this leg produced it.
func (aw *AxleWeigh) Get(metric string) (float64, bool) {
	if aw == nil {
		return 0, false
	}
	for _, m := range aw.Masses {
		if m.Metric == metric {
			return m.Value, true
		}
	}
	return 0, false
}

func (aw *AxleWeigh) clone() *AxleWeigh {
	if aw == nil {
		return nil
	}
	out := *aw
	if aw.Masses != nil {
		out.Masses = make([]MeasuredMass, len(aw.Masses))
		copy(out.Masses, aw.Masses)
	}
	if aw.Incomplete != nil {
		out.Incomplete = make([]string, len(aw.Incomplete))
		copy(out.Incomplete, aw.Incomplete)
	}
	return &out
}

func (e *Entity) clone() *Entity {
	if e == nil {
		return nil
	}
	out := *e
	if e.Capacities != nil {
		out.Capacities = make([]RatedCapacity, len(e.Capacities))
		copy(out.Capacities, e.Capacities)
	}
	return &out
}

func (p *PreWeigh) clone() *PreWeigh {
	if p == nil {
		return nil
	}
	out := *p
	return &out
}

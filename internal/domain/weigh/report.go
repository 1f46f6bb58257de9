package weigh

import (
	"time"

	"github.com/google/uuid"
)

// EntitySummary is the identity slice of an entity as it appears on a
// report, with the provenance of its capacities.
type EntitySummary struct {
	Kind   EntityKind     `json:"kind"`
	Make   string         `json:"make"`
	Model  string         `json:"model"`
	Year   int            `json:"year"`
	Plate  string         `json:"plate"`
	State  string         `json:"state"`
	VIN    string         `json:"vin,omitempty"`
	Source CapacitySource `json:"source"`
}

// WDHShift is the axle-load change observed when the weight
// distribution hitch is released. Advisory only.
type WDHShift struct {
	FrontAxleDelta float64 `json:"front_axle_delta"`
	RearAxleDelta  float64 `json:"rear_axle_delta"`
}

// ReportModel is the structure the rendering collaborator consumes.
// Purely structural; the assembler computes nothing.
type ReportModel struct {
	SessionID   uuid.UUID  `json:"session_id"`
	GeneratedAt time.Time  `json:"generated_at"`
	TargetType  TargetType `json:"target_type"`

	VehicleMethod Method `json:"vehicle_method,omitempty"`
	CaravanMethod Method `json:"caravan_method,omitempty"`

	Vehicle *EntitySummary `json:"vehicle,omitempty"`
	Caravan *EntitySummary `json:"caravan,omitempty"`

	PreWeigh *PreWeigh `json:"pre_weigh,omitempty"`

	VehicleMasses []MeasuredMass     `json:"vehicle_masses,omitempty"`
	CaravanMasses []MeasuredMass     `json:"caravan_masses,omitempty"`
	Results       []ComplianceResult `json:"results"`

	// Sources discloses, per compliance metric, where the rated value
	// came from. A manual entry is advisory-only quality.
	Sources map[string]CapacitySource `json:"sources,omitempty"`

	// Incomplete lists canonical masses whose raw inputs had blanks
	// coerced to 0; the renderer caveats the verdict with these.
	Incomplete []string `json:"incomplete,omitempty"`

	WDHShift *WDHShift `json:"wdh_shift,omitempty"`
}

// Assemble packages the finalized session and its compliance results
// into the report shape. It must be called at most once per session,
// after the evaluator has run.
func Assemble(s Session, results []ComplianceResult, at time.Time) ReportModel {
	rm := ReportModel{
		SessionID:     s.ID,
		GeneratedAt:   at,
		TargetType:    s.TargetType,
		VehicleMethod: s.VehicleMethod,
		CaravanMethod: s.CaravanMethod,
		PreWeigh:      s.PreWeigh.clone(),
		Results:       append([]ComplianceResult(nil), results...),
	}
	if s.Vehicle != nil {
		rm.Vehicle = summarize(s.Vehicle)
	}
	if s.Caravan != nil {
		rm.Caravan = summarize(s.Caravan)
	}
	if s.VehicleAxle != nil {
		rm.VehicleMasses = append([]MeasuredMass(nil), s.VehicleAxle.Masses...)
		rm.Incomplete = append(rm.Incomplete, s.VehicleAxle.Incomplete...)
	}
	if s.CaravanAxle != nil {
		rm.CaravanMasses = append([]MeasuredMass(nil), s.CaravanAxle.Masses...)
		rm.Incomplete = append(rm.Incomplete, s.CaravanAxle.Incomplete...)
	}

	sources := map[string]CapacitySource{}
	for _, r := range results {
		if r.Rated == nil {
			continue
		}
		if c, ok := s.Vehicle.Capacity(r.Metric); ok {
			sources[r.Metric] = c.Source
			continue
		}
		if c, ok := s.Caravan.Capacity(r.Metric); ok {
			sources[r.Metric] = c.Source
		}
	}
	if len(sources) > 0 {
		rm.Sources = sources
	}

	rm.WDHShift = wdhShift(s)
	return rm
}

func summarize(e *Entity) *EntitySummary {
	return &EntitySummary{
		Kind:   e.Kind,
		Make:   e.Make,
		Model:  e.Model,
		Year:   e.Year,
		Plate:  e.Plate,
		State:  e.State,
		VIN:    e.VIN,
		Source: e.Source,
	}
}

// wdhShift compares the hitched axle readings with the WDH-released
// re-measurement when the operator captured one.
func wdhShift(s Session) *WDHShift {
	raw := s.VehicleHitchedRaw
	if raw == nil || raw.WDHFrontAxle == nil || raw.WDHRearAxle == nil {
		return nil
	}
	front, frontOK := val(raw.FrontAxle)
	rear, rearOK := val(raw.RearAxle)
	if !frontOK || !rearOK {
		return nil
	}
	return &WDHShift{
		FrontAxleDelta: *raw.WDHFrontAxle - front,
		RearAxleDelta:  *raw.WDHRearAxle - rear,
	}
}

package weigh

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidTransition reports an attempt to rewrite a canonical field
// that an earlier step already finalized, or to patch a finalized
// session. It is a contract violation, not user-recoverable.
var ErrInvalidTransition = errors.New("invalid session transition")

// Session is the accumulating record for one weigh-in attempt. It is
// advanced exclusively through Apply, which returns a new snapshot and
// never mutates the receiver: every step reads a prior snapshot and
// produces the next one.
type Session struct {
	ID         uuid.UUID  `json:"id"`
	TargetType TargetType `json:"target_type"`

	// Method per leg. CaravanMethod may stay empty, in which case the
	// caravan leg uses VehicleMethod (see MethodFor).
	VehicleMethod Method `json:"vehicle_method,omitempty"`
	CaravanMethod Method `json:"caravan_method,omitempty"`

	PreWeigh *PreWeigh `json:"pre_weigh,omitempty"`

	// Raw entries per pass. The tow flow captures the vehicle hitched
	// and unhitched in separate bags which are merged at normalization.
	VehicleHitchedRaw *RawReadings `json:"vehicle_hitched_raw,omitempty"`
	VehicleRaw        *RawReadings `json:"vehicle_raw,omitempty"`
	CaravanRaw        *RawReadings `json:"caravan_raw,omitempty"`

	// Canonical normalizer output, populated exactly once per leg.
	VehicleAxle *AxleWeigh `json:"vehicle_axle,omitempty"`
	CaravanAxle *AxleWeigh `json:"caravan_axle,omitempty"`

	Vehicle *Entity `json:"vehicle,omitempty"`
	Caravan *Entity `json:"caravan,omitempty"`

	Confirmed  bool               `json:"confirmed"`
	Compliance []ComplianceResult `json:"compliance,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	FinalizedAt *time.Time `json:"finalized_at,omitempty"`
}

// NewSession creates the empty initial session for a chosen target.
func NewSession(target TargetType, now time.Time) (Session, error) {
	if !target.Valid() {
		return Session{}, fmt.Errorf("%w: unknown target type %q", ErrInvalidTransition, target)
	}
	return Session{
		ID:         uuid.New(),
		TargetType: target,
		CreatedAt:  now,
	}, nil
}

// MethodFor returns the measurement method in effect for a leg.
func (s *Session) MethodFor(leg Leg) Method {
	if leg == LegCaravan && s.CaravanMethod != "" {
		return s.CaravanMethod
	}
	return s.VehicleMethod
}

// Finalized reports whether the report has been produced and the
// session is immutable.
func (s *Session) Finalized() bool { return s.FinalizedAt != nil }

// Patch carries only the fields the current step is authorized to
// write. Nil fields are left untouched by Apply.
type Patch struct {
	VehicleMethod     *Method            `json:"vehicle_method,omitempty"`
	CaravanMethod     *Method            `json:"caravan_method,omitempty"`
	PreWeigh          *PreWeigh          `json:"pre_weigh,omitempty"`
	VehicleHitchedRaw *RawReadings       `json:"vehicle_hitched_raw,omitempty"`
	VehicleRaw        *RawReadings       `json:"vehicle_raw,omitempty"`
	CaravanRaw        *RawReadings       `json:"caravan_raw,omitempty"`
	VehicleAxle       *AxleWeigh         `json:"vehicle_axle,omitempty"`
	CaravanAxle       *AxleWeigh         `json:"caravan_axle,omitempty"`
	Vehicle           *Entity            `json:"vehicle,omitempty"`
	Caravan           *Entity            `json:"caravan,omitempty"`
	Confirm           bool               `json:"confirm,omitempty"`
	Compliance        []ComplianceResult `json:"compliance,omitempty"`
}

// Apply merges a patch into a snapshot and returns the new snapshot.
// Canonical fields are write-once: a patch that touches a field an
// earlier step already set fails with ErrInvalidTransition. PreWeigh is
// the one exception, it is free-form context and may be amended until
// the session is finalized. The empty patch returns an equal snapshot.
func Apply(s Session, p Patch) (Session, error) {
	if s.Finalized() {
		return Session{}, fmt.Errorf("%w: session %s is finalized", ErrInvalidTransition, s.ID)
	}
	out := s.snapshot()

	if p.VehicleMethod != nil {
		if s.VehicleMethod != "" {
			return Session{}, rewriteErr(s.ID, "vehicle_method")
		}
		if !p.VehicleMethod.Valid() {
			return Session{}, fmt.Errorf("%w: unknown method %q", ErrInvalidTransition, *p.VehicleMethod)
		}
		out.VehicleMethod = *p.VehicleMethod
	}
	if p.CaravanMethod != nil {
		if s.CaravanMethod != "" {
			return Session{}, rewriteErr(s.ID, "caravan_method")
		}
		if !p.CaravanMethod.Valid() {
			return Session{}, fmt.Errorf("%w: unknown method %q", ErrInvalidTransition, *p.CaravanMethod)
		}
		out.CaravanMethod = *p.CaravanMethod
	}
	if p.PreWeigh != nil {
		out.PreWeigh = p.PreWeigh.clone()
	}
	if p.VehicleHitchedRaw != nil {
		if s.VehicleHitchedRaw != nil {
			return Session{}, rewriteErr(s.ID, "vehicle_hitched_raw")
		}
		out.VehicleHitchedRaw = p.VehicleHitchedRaw.clone()
	}
	if p.VehicleRaw != nil {
		if s.VehicleRaw != nil {
			return Session{}, rewriteErr(s.ID, "vehicle_raw")
		}
		out.VehicleRaw = p.VehicleRaw.clone()
	}
	if p.CaravanRaw != nil {
		if s.CaravanRaw != nil {
			return Session{}, rewriteErr(s.ID, "caravan_raw")
		}
		out.CaravanRaw = p.CaravanRaw.clone()
	}
	if p.VehicleAxle != nil {
		if s.VehicleAxle != nil {
			return Session{}, rewriteErr(s.ID, "vehicle_axle")
		}
		out.VehicleAxle = p.VehicleAxle.clone()
	}
	if p.CaravanAxle != nil {
		if s.CaravanAxle != nil {
			return Session{}, rewriteErr(s.ID, "caravan_axle")
		}
		out.CaravanAxle = p.CaravanAxle.clone()
	}
	if p.Vehicle != nil {
		if s.Vehicle != nil {
			return Session{}, rewriteErr(s.ID, "vehicle")
		}
		out.Vehicle = p.Vehicle.clone()
	}
	if p.Caravan != nil {
		if s.Caravan != nil {
			return Session{}, rewriteErr(s.ID, "caravan")
		}
		out.Caravan = p.Caravan.clone()
	}
	if p.Confirm {
		out.Confirmed = true
	}
	if p.Compliance != nil {
		if s.Compliance != nil {
			return Session{}, rewriteErr(s.ID, "compliance")
		}
		out.Compliance = make([]ComplianceResult, len(p.Compliance))
		copy(out.Compliance, p.Compliance)
	}
	return out, nil
}

// Finalize stamps the session immutable. It requires compliance to be
// populated, since the report assembler is the only caller.
func Finalize(s Session, now time.Time) (Session, error) {
	if s.Finalized() {
		return Session{}, fmt.Errorf("%w: session %s already finalized", ErrInvalidTransition, s.ID)
	}
	if s.Compliance == nil {
		return Session{}, fmt.Errorf("%w: session %s has no compliance results", ErrInvalidTransition, s.ID)
	}
	out := s.snapshot()
	t := now
	out.FinalizedAt = &t
	return out, nil
}

func rewriteErr(id uuid.UUID, field string) error {
	return fmt.Errorf("%w: field %q already set on session %s", ErrInvalidTransition, field, id)
}

// snapshot deep-copies the session so later steps never alias the
// value objects of earlier snapshots.
func (s Session) snapshot() Session {
	out := s
	out.PreWeigh = s.PreWeigh.clone()
	out.VehicleHitchedRaw = s.VehicleHitchedRaw.clone()
	out.VehicleRaw = s.VehicleRaw.clone()
	out.CaravanRaw = s.CaravanRaw.clone()
	out.VehicleAxle = s.VehicleAxle.clone()
	out.CaravanAxle = s.CaravanAxle.clone()
	out.Vehicle = s.Vehicle.clone()
	out.Caravan = s.Caravan.clone()
	if s.Compliance != nil {
		out.Compliance = make([]ComplianceResult, len(s.Compliance))
		copy(out.Compliance, s.Compliance)
	}
	if s.FinalizedAt != nil {
		t := *s.FinalizedAt
		out.FinalizedAt = &t
	}
	return out
}

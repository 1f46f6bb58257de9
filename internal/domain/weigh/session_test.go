package weigh

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestApplyEmptyPatchIsIdentity(t *testing.T) {
	s, err := NewSession(TargetVehicleOnly, time.Now())
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	m := MethodPortableTyres
	s, err = Apply(s, Patch{VehicleMethod: &m, PreWeigh: &PreWeigh{Notes: "full tanks"}})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	out, err := Apply(s, Patch{})
	if err != nil {
		t.Fatalf("Apply empty patch: %v", err)
	}
	if !reflect.DeepEqual(s, out) {
		t.Fatalf("empty patch must return an equal session:\n%+v\n%+v", s, out)
	}
}

func TestApplyRejectsCanonicalRewrite(t *testing.T) {
	s, _ := NewSession(TargetVehicleOnly, time.Now())
	aw := Normalize(MethodWeighbridgeAboveGround, LegVehicle, &RawReadings{Single: fp(2400)}, nil)
	s, err := Apply(s, Patch{VehicleAxle: &aw})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	other := Normalize(MethodWeighbridgeAboveGround, LegVehicle, &RawReadings{Single: fp(9000)}, nil)
	if _, err := Apply(s, Patch{VehicleAxle: &other}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("rewriting a normalized leg must fail with ErrInvalidTransition, got %v", err)
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	s, _ := NewSession(TargetVehicleOnly, time.Now())
	m := MethodPortableTyres
	s, _ = Apply(s, Patch{VehicleMethod: &m})
	before := s.snapshot()

	raw := &RawReadings{TyreRows: []TyreRow{{Axle: "front", Left: fp(600), Right: fp(610)}}}
	if _, err := Apply(s, Patch{VehicleRaw: raw}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !reflect.DeepEqual(before, s) {
		t.Fatalf("Apply mutated its input snapshot")
	}
}

func TestApplyAllowsPreWeighAmendment(t *testing.T) {
	s, _ := NewSession(TargetVehicleOnly, time.Now())
	s, err := Apply(s, Patch{PreWeigh: &PreWeigh{Notes: "draft"}})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	s, err = Apply(s, Patch{PreWeigh: &PreWeigh{Notes: "two passengers, half fuel"}})
	if err != nil {
		t.Fatalf("pre-weigh context must stay amendable: %v", err)
	}
	if s.PreWeigh.Notes != "two passengers, half fuel" {
		t.Fatalf("pre-weigh not updated: %+v", s.PreWeigh)
	}
}

func TestFinalizedSessionIsImmutable(t *testing.T) {
	s, _ := NewSession(TargetVehicleOnly, time.Now())
	s, err := Apply(s, Patch{Compliance: []ComplianceResult{}})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	s, err = Finalize(s, time.Now())
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if !s.Finalized() {
		t.Fatalf("session should report finalized")
	}
	if _, err := Apply(s, Patch{Confirm: true}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("patching a finalized session must fail, got %v", err)
	}
	if _, err := Finalize(s, time.Now()); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("double finalize must fail, got %v", err)
	}
}

func TestFinalizeRequiresCompliance(t *testing.T) {
	s, _ := NewSession(TargetVehicleOnly, time.Now())
	if _, err := Finalize(s, time.Now()); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("finalize without compliance must fail, got %v", err)
	}
}

func TestNewSessionRejectsUnknownTarget(t *testing.T) {
	if _, err := NewSession(TargetType("motorbike"), time.Now()); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("unknown target must fail, got %v", err)
	}
}

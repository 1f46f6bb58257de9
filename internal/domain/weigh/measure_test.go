package weigh

import (
	"testing"
	"time"
)

func TestMeasurementPatchRequiresReadings(t *testing.T) {
	s, _ := NewSession(TargetVehicleOnly, time.Now())
	m := MethodPortableTyres
	s, _ = Apply(s, Patch{VehicleMethod: &m})
	if _, err := MeasurementPatch(s, stepMeasureVehicle(m), nil); err == nil {
		t.Fatalf("nil readings must be rejected")
	}
	if _, err := MeasurementPatch(s, StepConfirm, &RawReadings{}); err == nil {
		t.Fatalf("non-measurement step must be rejected")
	}
}

func TestMeasurementPatchHitchedStoresRawOnly(t *testing.T) {
	s, _ := NewSession(TargetTowVehicleAndCaravan, time.Now())
	m := MethodWeighbridgeInGround
	s, _ = Apply(s, Patch{VehicleMethod: &m})

	readings := &RawReadings{FrontAxle: fp(1400), RearAxle: fp(1620)}
	p, err := MeasurementPatch(s, stepMeasureVehicleHitched(m), readings)
	if err != nil {
		t.Fatalf("MeasurementPatch: %v", err)
	}
	if p.VehicleHitchedRaw != readings {
		t.Fatalf("hitched pass must store the raw bag, got %+v", p)
	}
	if p.VehicleAxle != nil {
		t.Fatalf("hitched pass alone must not normalize; the unhitched pass does")
	}

	// The unhitched pass picks up the stashed hitched readings.
	s, _ = Apply(s, p)
	p, err = MeasurementPatch(s, stepMeasureVehicleUnhitched(m), &RawReadings{FrontAxle: fp(1450), RearAxle: fp(1380)})
	if err != nil {
		t.Fatalf("MeasurementPatch unhitched: %v", err)
	}
	if p.VehicleAxle == nil {
		t.Fatalf("unhitched pass must normalize the leg")
	}
	if v, ok := p.VehicleAxle.Get(MassGVMHitched); !ok || v != 3020 {
		t.Fatalf("hitched GVM = %v (%v), want 3020", v, ok)
	}
	if v, ok := p.VehicleAxle.Get(MassGVMUnhitched); !ok || v != 2830 {
		t.Fatalf("unhitched GVM = %v (%v), want 2830", v, ok)
	}
}

func TestMeasurementPatchGoWeighSecondPassCompletesBothLegs(t *testing.T) {
	s, _ := NewSession(TargetTowVehicleAndCaravan, time.Now())
	m := MethodWeighbridgeGoWeigh
	s, _ = Apply(s, Patch{VehicleMethod: &m})

	first := &RawReadings{FirstVehicle: fp(2405), FirstTrailer: fp(2740)}
	p, err := MeasurementPatch(s, StepMeasureFirstWeigh, first)
	if err != nil {
		t.Fatalf("MeasurementPatch first weigh: %v", err)
	}
	s, _ = Apply(s, p)

	second := &RawReadings{SecondVehicle: fp(2620), SecondTrailer: fp(2500), GCM: fp(5120), TBM: fp(240)}
	p, err = MeasurementPatch(s, StepMeasureSecondWeigh, second)
	if err != nil {
		t.Fatalf("MeasurementPatch second weigh: %v", err)
	}
	if p.VehicleAxle == nil || p.CaravanAxle == nil {
		t.Fatalf("second weigh must normalize both legs, got %+v", p)
	}
	if v, ok := p.VehicleAxle.Get(MassGCM); !ok || v != 5120 {
		t.Fatalf("operator GCM = %v (%v), want 5120", v, ok)
	}
	if v, ok := p.CaravanAxle.Get(MassTrailerATM); !ok || v != 2740 {
		t.Fatalf("trailer ATM = %v (%v), want 2740", v, ok)
	}
	if v, ok := p.CaravanAxle.Get(MassTrailerGTM); !ok || v != 2500 {
		t.Fatalf("trailer GTM = %v (%v), want 2500", v, ok)
	}
	if p.VehicleAxle.DerivedGCM == nil || *p.VehicleAxle.DerivedGCM != 5120 {
		t.Fatalf("derived GCM should ride along, got %v", p.VehicleAxle.DerivedGCM)
	}
}

package weigh

import "fmt"

// MeasurementPatch turns raw scale readings captured at a measurement
// step into the patch for that step, running the normalizer for every
// leg the step completes. The go-weigh second pass finishes both legs
// at once: the trailer figures ride along with the hitched pass.
func MeasurementPatch(s Session, step StepID, readings *RawReadings) (Patch, error) {
	if readings == nil {
		return Patch{}, fmt.Errorf("step %q requires readings", step)
	}

	switch MeasureKind(step) {
	case PassVehicle:
		aw := Normalize(s.MethodFor(LegVehicle), LegVehicle, readings, nil)
		return Patch{VehicleRaw: readings, VehicleAxle: &aw}, nil
	case PassVehicleHitched:
		return Patch{VehicleHitchedRaw: readings}, nil
	case PassVehicleUnhitched:
		aw := Normalize(s.MethodFor(LegVehicle), LegVehicle, readings, s.VehicleHitchedRaw)
		return Patch{VehicleRaw: readings, VehicleAxle: &aw}, nil
	case PassCaravan:
		aw := Normalize(s.MethodFor(LegCaravan), LegCaravan, readings, nil)
		return Patch{CaravanRaw: readings, CaravanAxle: &aw}, nil
	}

	switch step {
	case StepMeasureFirstWeigh:
		return Patch{VehicleRaw: readings}, nil
	case StepMeasureSecondWeigh:
		m := s.MethodFor(LegVehicle)
		va := Normalize(m, LegVehicle, s.VehicleRaw, readings)
		merged := s.VehicleRaw.merged(readings)
		ca := Normalize(m, LegCaravan, merged, nil)
		return Patch{VehicleHitchedRaw: readings, VehicleAxle: &va, CaravanRaw: merged, CaravanAxle: &ca}, nil
	}
	return Patch{}, fmt.Errorf("step %q does not take measurements", step)
}

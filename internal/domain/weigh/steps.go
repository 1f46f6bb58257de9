package weigh

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoApplicableStep means the session's populated fields do not match
// any node of the workflow graph. That is an upstream bug, fatal to the
// session; callers log the full snapshot and abort.
var ErrNoApplicableStep = errors.New("no applicable step")

// StepID addresses one screen of the workflow. The surface routes on
// these, the core never knows a URL or view name.
type StepID string

const (
	StepSelectMethod  StepID = "select_method"
	StepPreWeigh      StepID = "pre_weigh"
	StepLookupVehicle StepID = "lookup_vehicle"
	StepLookupCaravan StepID = "lookup_caravan"
	StepConfirm       StepID = "confirm"
	StepCompliance    StepID = "compliance"
	StepReportReady   StepID = "report_ready"
)

// Measurement steps carry the method so the surface knows which entry
// form to show.
func stepMeasureVehicle(m Method) StepID { return StepID("measure_vehicle_" + string(m)) }
func stepMeasureVehicleHitched(m Method) StepID {
	return StepID("measure_vehicle_hitched_" + string(m))
}
func stepMeasureVehicleUnhitched(m Method) StepID {
	return StepID("measure_vehicle_unhitched_" + string(m))
}
func stepMeasureCaravan(m Method) StepID { return StepID("measure_caravan_" + string(m)) }

const (
	StepMeasureFirstWeigh  StepID = "measure_first_weigh"
	StepMeasureSecondWeigh StepID = "measure_second_weigh"
)

// MeasurePass identifies which pass a measurement step captures, so
// callers can route readings without parsing step names themselves.
type MeasurePass int

const (
	PassNone MeasurePass = iota
	PassVehicle
	PassVehicleHitched
	PassVehicleUnhitched
	PassCaravan
)

func MeasureKind(id StepID) MeasurePass {
	s := string(id)
	switch {
	case strings.HasPrefix(s, "measure_vehicle_hitched_"):
		return PassVehicleHitched
	case strings.HasPrefix(s, "measure_vehicle_unhitched_"):
		return PassVehicleUnhitched
	case strings.HasPrefix(s, "measure_caravan_"):
		return PassCaravan
	case strings.HasPrefix(s, "measure_vehicle_"):
		return PassVehicle
	}
	return PassNone
}

// Canonical field groups. A step completes one or more groups; a group
// completed by no step of a flow must never gate that flow.
type group string

const (
	groupMethod            group = "method"
	groupPreWeigh          group = "pre_weigh"
	groupVehicleHitchedRaw group = "vehicle_hitched_raw"
	groupVehicleRaw        group = "vehicle_raw"
	groupVehicleAxle       group = "vehicle_axle"
	groupCaravanRaw        group = "caravan_raw"
	groupCaravanAxle       group = "caravan_axle"
	groupVehicleEntity     group = "vehicle_entity"
	groupCaravanEntity     group = "caravan_entity"
	groupConfirmed         group = "confirmed"
	groupCompliance        group = "compliance"
)

func groupDone(s *Session, g group) bool {
	switch g {
	case groupMethod:
		if s.TargetType == TargetCaravanOnlyRegistered {
			return s.MethodFor(LegCaravan) != ""
		}
		return s.VehicleMethod != ""
	case groupPreWeigh:
		return s.PreWeigh != nil
	case groupVehicleHitchedRaw:
		return s.VehicleHitchedRaw != nil
	case groupVehicleRaw:
		return s.VehicleRaw != nil
	case groupVehicleAxle:
		return s.VehicleAxle != nil
	case groupCaravanRaw:
		return s.CaravanRaw != nil
	case groupCaravanAxle:
		return s.CaravanAxle != nil
	case groupVehicleEntity:
		return s.Vehicle != nil
	case groupCaravanEntity:
		return s.Caravan != nil
	case groupConfirmed:
		return s.Confirmed
	case groupCompliance:
		return s.Compliance != nil
	}
	return false
}

type flowNode struct {
	step      StepID
	completes []group
}

// flowFor lays out the directed path of steps for a target type and
// its chosen methods. Each node has exactly one outgoing edge, taken
// when all its groups are complete; ReportReady terminates the path.
func flowFor(target TargetType, vehicleMethod, caravanMethod Method) ([]flowNode, error) {
	switch target {
	case TargetVehicleOnly:
		return []flowNode{
			{StepSelectMethod, []group{groupMethod}},
			{StepPreWeigh, []group{groupPreWeigh}},
			{stepMeasureVehicle(vehicleMethod), []group{groupVehicleRaw, groupVehicleAxle}},
			{StepLookupVehicle, []group{groupVehicleEntity}},
			{StepConfirm, []group{groupConfirmed}},
			{StepCompliance, []group{groupCompliance}},
		}, nil
	case TargetTowVehicleAndCaravan:
		if vehicleMethod == MethodWeighbridgeGoWeigh {
			// The two go-weigh passes capture vehicle and trailer
			// together; the second pass completes both legs.
			return []flowNode{
				{StepSelectMethod, []group{groupMethod}},
				{StepPreWeigh, []group{groupPreWeigh}},
				{StepMeasureFirstWeigh, []group{groupVehicleRaw}},
				{StepMeasureSecondWeigh, []group{groupVehicleHitchedRaw, groupVehicleAxle, groupCaravanRaw, groupCaravanAxle}},
				{StepLookupVehicle, []group{groupVehicleEntity}},
				{StepLookupCaravan, []group{groupCaravanEntity}},
				{StepConfirm, []group{groupConfirmed}},
				{StepCompliance, []group{groupCompliance}},
			}, nil
		}
		return []flowNode{
			{StepSelectMethod, []group{groupMethod}},
			{StepPreWeigh, []group{groupPreWeigh}},
			{stepMeasureVehicleHitched(vehicleMethod), []group{groupVehicleHitchedRaw}},
			{stepMeasureVehicleUnhitched(vehicleMethod), []group{groupVehicleRaw, groupVehicleAxle}},
			{stepMeasureCaravan(caravanMethod), []group{groupCaravanRaw, groupCaravanAxle}},
			{StepLookupVehicle, []group{groupVehicleEntity}},
			{StepLookupCaravan, []group{groupCaravanEntity}},
			{StepConfirm, []group{groupConfirmed}},
			{StepCompliance, []group{groupCompliance}},
		}, nil
	case TargetCaravanOnlyRegistered:
		return []flowNode{
			{StepSelectMethod, []group{groupMethod}},
			{StepPreWeigh, []group{groupPreWeigh}},
			{stepMeasureCaravan(caravanMethod), []group{groupCaravanRaw, groupCaravanAxle}},
			{StepLookupCaravan, []group{groupCaravanEntity}},
			{StepConfirm, []group{groupConfirmed}},
			{StepCompliance, []group{groupCompliance}},
		}, nil
	}
	return nil, fmt.Errorf("%w: unknown target type %q", ErrNoApplicableStep, target)
}

// NextStep is a pure function of the session: the first node whose
// groups are not all complete is the next step; when every node is
// complete the session is at StepReportReady. A completed group
// appearing after the first incomplete node means the session and the
// graph disagree, which is fatal.
func NextStep(s Session) (StepID, error) {
	if !s.TargetType.Valid() {
		return "", fmt.Errorf("%w: target type unset", ErrNoApplicableStep)
	}
	if !groupDone(&s, groupMethod) {
		return StepSelectMethod, nil
	}
	nodes, err := flowFor(s.TargetType, s.VehicleMethod, s.MethodFor(LegCaravan))
	if err != nil {
		return "", err
	}
	next := StepReportReady
	found := false
	for _, n := range nodes {
		done := true
		for _, g := range n.completes {
			if !groupDone(&s, g) {
				done = false
				break
			}
		}
		if !done && !found {
			next = n.step
			found = true
			continue
		}
		if done && found {
			return "", fmt.Errorf("%w: session %s completed %q out of order", ErrNoApplicableStep, s.ID, n.step)
		}
	}
	return next, nil
}

// Walk lists the full step path for a target and method choice, ending
// at the terminal node. Used by the surface to show the road ahead.
func Walk(target TargetType, vehicleMethod, caravanMethod Method) ([]StepID, error) {
	nodes, err := flowFor(target, vehicleMethod, caravanMethod)
	if err != nil {
		return nil, err
	}
	out := make([]StepID, 0, len(nodes)+1)
	for _, n := range nodes {
		out = append(out, n.step)
	}
	out = append(out, StepReportReady)
	return out, nil
}

func init() {
	// The graph is a static table; a malformed flow is a programming
	// defect, caught here rather than mid-session.
	for _, target := range []TargetType{TargetVehicleOnly, TargetTowVehicleAndCaravan, TargetCaravanOnlyRegistered} {
		for _, m := range []Method{MethodPortableTyres, MethodWeighbridgeInGround, MethodWeighbridgeGoWeigh, MethodWeighbridgeAboveGround} {
			nodes, err := flowFor(target, m, m)
			if err != nil {
				panic(err)
			}
			seenSteps := map[StepID]bool{}
			seenGroups := map[group]bool{}
			for _, n := range nodes {
				if seenSteps[n.step] {
					panic(fmt.Sprintf("weigh: duplicate step %q in %s/%s flow", n.step, target, m))
				}
				seenSteps[n.step] = true
				if len(n.completes) == 0 {
					panic(fmt.Sprintf("weigh: step %q completes nothing in %s/%s flow", n.step, target, m))
				}
				for _, g := range n.completes {
					if seenGroups[g] {
						panic(fmt.Sprintf("weigh: group %q completed twice in %s/%s flow", g, target, m))
					}
					seenGroups[g] = true
				}
			}
			if !seenGroups[groupCompliance] {
				panic(fmt.Sprintf("weigh: %s/%s flow never reaches compliance", target, m))
			}
		}
	}
}

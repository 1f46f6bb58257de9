package services

import (
	"context"
	"errors"
	"testing"

	"github.com/weighbuddy/weighbuddy-backend/internal/clients/redis"
	"github.com/weighbuddy/weighbuddy-backend/internal/data/repos"
	"github.com/weighbuddy/weighbuddy-backend/internal/data/repos/testutil"
	"github.com/weighbuddy/weighbuddy-backend/internal/domain/weigh"
)

type stubResolver struct {
	vehicles map[string]*weigh.Entity
	caravans map[string]*weigh.Entity
}

func (r *stubResolver) ResolveVehicle(ctx context.Context, plate, state, vin string) (*weigh.Entity, error) {
	if e, ok := r.vehicles[plate]; ok {
		return e, nil
	}
	return nil, ErrNoMatch
}

func (r *stubResolver) ResolveCaravan(ctx context.Context, plate, state, vin string) (*weigh.Entity, error) {
	if e, ok := r.caravans[plate]; ok {
		return e, nil
	}
	return nil, ErrNoMatch
}

func fp(v float64) *float64 { return &v }

func newTestService(t *testing.T) WeighSessionService {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)

	resolver := &stubResolver{
		vehicles: map[string]*weigh.Entity{
			"ABC123": {
				Kind: weigh.KindVehicle, Make: "Ford", Model: "Ranger",
				Plate: "ABC123", State: "NSW", Source: weigh.SourceInternalRegistry,
				Capacities: []weigh.RatedCapacity{
					{Metric: weigh.MetricGVM, Value: 3150, Unit: "kg", Source: weigh.SourceInternalRegistry},
					{Metric: weigh.MetricGCM, Value: 6350, Unit: "kg", Source: weigh.SourceInternalRegistry},
					{Metric: weigh.MetricBTC, Value: 3500, Unit: "kg", Source: weigh.SourceInternalRegistry},
				},
			},
		},
		caravans: map[string]*weigh.Entity{
			"T12345": {
				Kind: weigh.KindCaravan, Make: "Jayco", Model: "Starcraft",
				Plate: "T12345", State: "NSW", Source: weigh.SourceInternalRegistry,
				Capacities: []weigh.RatedCapacity{
					{Metric: weigh.MetricATM, Value: 3200, Unit: "kg", Source: weigh.SourceInternalRegistry},
					{Metric: weigh.MetricTBM, Value: 350, Unit: "kg", Source: weigh.SourceInternalRegistry},
				},
			},
		},
	}

	return NewWeighSessionService(
		db,
		log,
		redis.NewMemorySessionStore(),
		resolver,
		repos.NewSubmissionRepo(db, log),
	)
}

func TestWeighSessionTowFlowEndToEnd(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	v, err := svc.Create(ctx, weigh.TargetTowVehicleAndCaravan)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := v.Session.ID
	if v.NextStep != weigh.StepSelectMethod {
		t.Fatalf("fresh session next step: %q", v.NextStep)
	}

	m := weigh.MethodPortableTyres
	if v, err = svc.Patch(ctx, id, PatchRequest{VehicleMethod: &m}); err != nil {
		t.Fatalf("select method: %v", err)
	}
	if len(v.Steps) == 0 {
		t.Fatalf("method chosen, expected the full step path")
	}

	if v, err = svc.Patch(ctx, id, PatchRequest{PreWeigh: &weigh.PreWeigh{Notes: "two adults, full water"}}); err != nil {
		t.Fatalf("pre-weigh: %v", err)
	}

	// Hitched pass, then unhitched, then the caravan by itself.
	hitched := &weigh.RawReadings{TyreRows: []weigh.TyreRow{
		{Axle: "front", Left: fp(700), Right: fp(710)},
		{Axle: "rear", Left: fp(800), Right: fp(810)},
	}}
	if v, err = svc.Patch(ctx, id, PatchRequest{Readings: hitched}); err != nil {
		t.Fatalf("hitched pass: %v", err)
	}
	unhitched := &weigh.RawReadings{TyreRows: []weigh.TyreRow{
		{Axle: "front", Left: fp(740), Right: fp(750)},
		{Axle: "rear", Left: fp(730), Right: fp(740)},
	}}
	if v, err = svc.Patch(ctx, id, PatchRequest{Readings: unhitched}); err != nil {
		t.Fatalf("unhitched pass: %v", err)
	}
	caravanPass := &weigh.RawReadings{
		TyreRows: []weigh.TyreRow{{Axle: "front", Left: fp(1200), Right: fp(1250)}},
		Coupling: fp(290),
	}
	if v, err = svc.Patch(ctx, id, PatchRequest{Readings: caravanPass}); err != nil {
		t.Fatalf("caravan pass: %v", err)
	}

	if v.NextStep != weigh.StepLookupVehicle {
		t.Fatalf("after measurements next step: %q", v.NextStep)
	}
	if v, err = svc.Resolve(ctx, id, ResolveRequest{Leg: weigh.LegVehicle, Plate: "ABC123", State: "NSW"}); err != nil {
		t.Fatalf("resolve vehicle: %v", err)
	}
	if v, err = svc.Resolve(ctx, id, ResolveRequest{Leg: weigh.LegCaravan, Plate: "T12345", State: "NSW"}); err != nil {
		t.Fatalf("resolve caravan: %v", err)
	}

	// Confirm also auto-computes compliance.
	if v, err = svc.Patch(ctx, id, PatchRequest{Confirm: true}); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if v.NextStep != weigh.StepReportReady {
		t.Fatalf("after confirm next step: %q", v.NextStep)
	}
	if len(v.Session.Compliance) == 0 {
		t.Fatalf("confirm must leave compliance populated")
	}

	report, err := svc.Finalize(ctx, id)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if report.SessionID != id || len(report.Results) == 0 {
		t.Fatalf("report: %+v", report)
	}
	if report.Vehicle == nil || report.Vehicle.Plate != "ABC123" {
		t.Fatalf("report vehicle summary: %+v", report.Vehicle)
	}

	// The archived report round-trips.
	stored, err := svc.Report(ctx, id)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if stored.SessionID != id || len(stored.Results) != len(report.Results) {
		t.Fatalf("stored report diverges: %+v", stored)
	}

	// A finalized session takes no further input.
	if _, err := svc.Patch(ctx, id, PatchRequest{Confirm: true}); !errors.Is(err, weigh.ErrInvalidTransition) {
		t.Fatalf("patch after finalize: %v", err)
	}
}

func TestWeighSessionResolveNoMatch(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	v, err := svc.Create(ctx, weigh.TargetVehicleOnly)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := v.Session.ID

	m := weigh.MethodWeighbridgeAboveGround
	if _, err = svc.Patch(ctx, id, PatchRequest{VehicleMethod: &m}); err != nil {
		t.Fatalf("select method: %v", err)
	}
	if _, err = svc.Patch(ctx, id, PatchRequest{PreWeigh: &weigh.PreWeigh{}}); err != nil {
		t.Fatalf("pre-weigh: %v", err)
	}
	if _, err = svc.Patch(ctx, id, PatchRequest{Readings: &weigh.RawReadings{Single: fp(2987)}}); err != nil {
		t.Fatalf("measure: %v", err)
	}

	if _, err := svc.Resolve(ctx, id, ResolveRequest{Leg: weigh.LegVehicle, Plate: "NOPE99", State: "NSW"}); !errors.Is(err, ErrNoMatch) {
		t.Fatalf("unknown plate: %v", err)
	}

	// Manual entry is the fallback, and is stamped as such.
	v, err = svc.Resolve(ctx, id, ResolveRequest{
		Leg: weigh.LegVehicle,
		Manual: &weigh.Entity{
			Make: "Mazda", Model: "BT-50", Plate: "NOPE99", State: "NSW",
			Capacities: []weigh.RatedCapacity{{Metric: weigh.MetricGVM, Value: 3100}},
		},
	})
	if err != nil {
		t.Fatalf("manual resolve: %v", err)
	}
	if v.Session.Vehicle.Source != weigh.SourceManualEntry {
		t.Fatalf("manual entity source: %q", v.Session.Vehicle.Source)
	}
	if v.Session.Vehicle.Capacities[0].Source != weigh.SourceManualEntry {
		t.Fatalf("manual capacity source: %q", v.Session.Vehicle.Capacities[0].Source)
	}
}

func TestWeighSessionReportBeforeFinalize(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	v, err := svc.Create(ctx, weigh.TargetVehicleOnly)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Report(ctx, v.Session.ID); !errors.Is(err, ErrNotFinalized) {
		t.Fatalf("report before finalize: %v", err)
	}
}

func TestWeighSessionGoWeighFlow(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	v, err := svc.Create(ctx, weigh.TargetTowVehicleAndCaravan)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := v.Session.ID

	m := weigh.MethodWeighbridgeGoWeigh
	mustPatch := func(req PatchRequest) SessionView {
		t.Helper()
		out, err := svc.Patch(ctx, id, req)
		if err != nil {
			t.Fatalf("patch at %q: %v", v.NextStep, err)
		}
		v = out
		return out
	}

	mustPatch(PatchRequest{VehicleMethod: &m})
	mustPatch(PatchRequest{PreWeigh: &weigh.PreWeigh{}})
	mustPatch(PatchRequest{Readings: &weigh.RawReadings{FirstVehicle: fp(2405), FirstTrailer: fp(2740)}})
	out := mustPatch(PatchRequest{Readings: &weigh.RawReadings{
		SecondVehicle: fp(2620), SecondTrailer: fp(2500),
		GCM: fp(5120), TBM: fp(240),
	}})

	// The second pass must have completed both legs.
	if out.Session.VehicleAxle == nil || out.Session.CaravanAxle == nil {
		t.Fatalf("second weigh must normalize both legs: %+v", out.Session)
	}
	if out.NextStep != weigh.StepLookupVehicle {
		t.Fatalf("after second weigh next step: %q", out.NextStep)
	}
	if got, ok := out.Session.VehicleAxle.Get(weigh.MassGCM); !ok || got != 5120 {
		t.Fatalf("gcm: got %v ok=%v", got, ok)
	}
}

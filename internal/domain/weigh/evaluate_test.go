package weigh

import "testing"

func TestEvaluateMargins(t *testing.T) {
	cases := []struct {
		name     string
		measured float64
		rated    float64
		margin   float64
		status   Status
	}{
		{"under capacity", 2987, 3150, 163, StatusOK},
		{"well under", 2740, 3200, 460, StatusOK},
		{"exactly at capacity", 3150, 3150, 0, StatusOK},
		{"over capacity", 1300, 1200, -100, StatusOverloaded},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			results := Evaluate(
				[]MeasuredMass{{Metric: MetricGVM, Value: tc.measured, Unit: "kg"}},
				[]RatedCapacity{{Metric: MetricGVM, Value: tc.rated, Unit: "kg", Source: SourceInternalRegistry}},
			)
			if len(results) != 1 {
				t.Fatalf("expected 1 result, got %d", len(results))
			}
			r := results[0]
			if r.Status != tc.status {
				t.Fatalf("status: got %s want %s", r.Status, tc.status)
			}
			if r.Margin == nil || *r.Margin != tc.margin {
				t.Fatalf("margin: got %v want %v", r.Margin, tc.margin)
			}
		})
	}
}

func TestEvaluateUnknownWhenRatedMissing(t *testing.T) {
	results := Evaluate(
		[]MeasuredMass{{Metric: MetricGTM, Value: 2500, Unit: "kg"}},
		nil,
	)
	if len(results) != 1 {
		t.Fatalf("unrated metric must not be dropped")
	}
	r := results[0]
	if r.Status != StatusUnknown {
		t.Fatalf("status: got %s want %s", r.Status, StatusUnknown)
	}
	if r.Rated != nil || r.Margin != nil {
		t.Fatalf("unknown result must not guess a rated value: %+v", r)
	}
	if r.Measured != 2500 {
		t.Fatalf("measured: got %v want 2500", r.Measured)
	}
}

func TestEvaluateSessionTowMix(t *testing.T) {
	s := Session{
		TargetType: TargetTowVehicleAndCaravan,
		VehicleAxle: &AxleWeigh{Masses: []MeasuredMass{
			{Metric: MassGVMUnhitched, Value: 2987, Unit: "kg"},
		}},
		CaravanAxle: &AxleWeigh{Masses: []MeasuredMass{
			{Metric: MassTrailerATM, Value: 2740, Unit: "kg"},
			{Metric: MassTrailerGTM, Value: 2500, Unit: "kg"},
		}},
		Vehicle: &Entity{
			Kind:   KindVehicle,
			Source: SourceInternalRegistry,
			Capacities: []RatedCapacity{
				{Metric: MetricGVM, Value: 3150, Unit: "kg", Source: SourceInternalRegistry},
				{Metric: MetricBTC, Value: 3500, Unit: "kg", Source: SourceInternalRegistry},
			},
		},
		Caravan: &Entity{
			Kind:   KindCaravan,
			Source: SourceInternalRegistry,
			Capacities: []RatedCapacity{
				{Metric: MetricATM, Value: 3200, Unit: "kg", Source: SourceInternalRegistry},
				{Metric: MetricTBM, Value: 350, Unit: "kg", Source: SourceInternalRegistry},
			},
		},
	}

	results := EvaluateSession(s)
	byMetric := map[string]ComplianceResult{}
	for _, r := range results {
		byMetric[r.Metric] = r
	}

	gvm := byMetric[MetricGVM]
	if gvm.Status != StatusOK || *gvm.Margin != 163 {
		t.Fatalf("GVM: %+v", gvm)
	}
	atm := byMetric[MetricATM]
	if atm.Status != StatusOK || *atm.Margin != 460 {
		t.Fatalf("ATM: %+v", atm)
	}
	// No native TBM figure: derived from ATM - GTM = 240 against 350.
	tbm := byMetric[MetricTBM]
	if tbm.Status != StatusOK || tbm.Measured != 240 || *tbm.Margin != 110 {
		t.Fatalf("TBM: %+v", tbm)
	}
	// GTM was measured but the caravan record has no GTM rating.
	gtm := byMetric[MetricGTM]
	if gtm.Status != StatusUnknown || gtm.Measured != 2500 {
		t.Fatalf("GTM: %+v", gtm)
	}
	// Towing capacity checked against the full trailer mass.
	btc := byMetric[MetricBTC]
	if btc.Status != StatusOK || btc.Measured != 2740 {
		t.Fatalf("BTC: %+v", btc)
	}
}

func TestEvaluateSessionPrefersHitchedFigures(t *testing.T) {
	s := Session{
		TargetType: TargetTowVehicleAndCaravan,
		VehicleAxle: &AxleWeigh{Masses: []MeasuredMass{
			{Metric: MassGVMUnhitched, Value: 2830, Unit: "kg"},
			{Metric: MassGVMHitched, Value: 3020, Unit: "kg"},
		}},
		CaravanAxle: &AxleWeigh{Masses: []MeasuredMass{
			{Metric: MassTrailerGTM, Value: 2500, Unit: "kg"},
		}},
		Vehicle: &Entity{Capacities: []RatedCapacity{
			{Metric: MetricGVM, Value: 3000, Unit: "kg", Source: SourceInternalRegistry},
			{Metric: MetricGCM, Value: 6000, Unit: "kg", Source: SourceInternalRegistry},
		}},
	}
	results := EvaluateSession(s)
	byMetric := map[string]ComplianceResult{}
	for _, r := range results {
		byMetric[r.Metric] = r
	}

	gvm := byMetric[MetricGVM]
	if gvm.Measured != 3020 || gvm.Status != StatusOverloaded {
		t.Fatalf("GVM must use the hitched figure: %+v", gvm)
	}
	// GCM falls back to hitched GVM + GTM.
	gcm := byMetric[MetricGCM]
	if gcm.Measured != 5520 || gcm.Status != StatusOK {
		t.Fatalf("GCM: %+v", gcm)
	}
}

package weigh

// Evaluate pairs measured masses with rated capacities by metric name.
// margin = rated - measured; OK iff margin >= 0, so a load exactly at
// the rated capacity passes. A measured metric with no rated capacity
// is emitted as Unknown, never guessed and never dropped. Deterministic
// and side-effect free; result order follows the measured order.
func Evaluate(measures []MeasuredMass, rated []RatedCapacity) []ComplianceResult {
	byMetric := make(map[string]RatedCapacity, len(rated))
	for _, r := range rated {
		if _, dup := byMetric[r.Metric]; !dup {
			byMetric[r.Metric] = r
		}
	}
	out := make([]ComplianceResult, 0, len(measures))
	for _, m := range measures {
		res := ComplianceResult{Metric: m.Metric, Measured: m.Value, Status: StatusUnknown}
		if r, ok := byMetric[m.Metric]; ok {
			ratedVal := r.Value
			margin := ratedVal - m.Value
			res.Rated = &ratedVal
			res.Margin = &margin
			if margin >= 0 {
				res.Status = StatusOK
			} else {
				res.Status = StatusOverloaded
			}
		}
		out = append(out, res)
	}
	return out
}

// EvaluateSession lifts the per-leg canonical masses onto compliance
// metric names and runs them against the session's resolved (or
// manually entered) capacities.
//
// The hitched figures are the laden worst case, so where a leg carries
// both hitched and unhitched passes the hitched one is checked. GCM
// falls back to hitched GVM + GTM when the method produced no native
// GCM figure, and TBM to ATM - GTM likewise.
func EvaluateSession(s Session) []ComplianceResult {
	var measures []MeasuredMass
	add := func(metric string, value float64) {
		measures = append(measures, MeasuredMass{Metric: metric, Value: value, Unit: unitKg})
	}
	pick := func(aw *AxleWeigh, hitched, unhitched string) (float64, bool) {
		if v, ok := aw.Get(hitched); ok {
			return v, true
		}
		return aw.Get(unhitched)
	}

	va, ca := s.VehicleAxle, s.CaravanAxle

	if va != nil {
		if v, ok := pick(va, MassGVMHitched, MassGVMUnhitched); ok {
			add(MetricGVM, v)
		}
		if v, ok := pick(va, MassFrontAxleHitched, MassFrontAxleUnhitched); ok {
			add(MetricFrontAxle, v)
		}
		if v, ok := pick(va, MassRearAxleHitched, MassRearAxleUnhitched); ok {
			add(MetricRearAxle, v)
		}
	}

	if gcm, ok := va.Get(MassGCM); ok {
		add(MetricGCM, gcm)
	} else if gvmH, ok := va.Get(MassGVMHitched); ok {
		if gtm, ok := ca.Get(MassTrailerGTM); ok {
			add(MetricGCM, gvmH+gtm)
		}
	}

	if ca != nil {
		if atm, ok := ca.Get(MassTrailerATM); ok {
			add(MetricATM, atm)
			if s.TargetType == TargetTowVehicleAndCaravan {
				// Towing capacity is checked against the full trailer mass.
				add(MetricBTC, atm)
			}
		}
		if gtm, ok := ca.Get(MassTrailerGTM); ok {
			add(MetricGTM, gtm)
		}
		if ag, ok := ca.Get(MassAxleGroup); ok {
			add(MetricAxleGroup, ag)
		}
	}

	if tbm, ok := va.Get(MassTBM); ok {
		add(MetricTBM, tbm)
	} else if tbm, ok := ca.Get(MassTBM); ok {
		add(MetricTBM, tbm)
	} else if atm, ok := ca.Get(MassTrailerATM); ok {
		if gtm, ok := ca.Get(MassTrailerGTM); ok {
			add(MetricTBM, atm-gtm)
		}
	}

	var rated []RatedCapacity
	if s.Vehicle != nil {
		rated = append(rated, s.Vehicle.Capacities...)
	}
	if s.Caravan != nil {
		rated = append(rated, s.Caravan.Capacities...)
	}
	return Evaluate(measures, rated)
}

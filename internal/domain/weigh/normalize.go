package weigh

// Canonical axle-weigh field names, as they appear on reports and in
// archived submissions. The evaluator maps these onto compliance
// metric names (GVM, ATM, ...) per leg.
const (
	MassFrontAxleUnhitched  = "frontAxleUnhitched"
	MassMiddleAxleUnhitched = "middleAxleUnhitched"
	MassRearAxleUnhitched   = "rearAxleUnhitched"
	MassFrontAxleHitched    = "frontAxleHitched"
	MassMiddleAxleHitched   = "middleAxleHitched"
	MassRearAxleHitched     = "rearAxleHitched"
	MassGVMUnhitched        = "gvmUnhitched"
	MassGVMHitched          = "gvmHitched"
	MassAxleGroup           = "axleGroup"
	MassTrailerGTM          = "trailerGtm"
	MassTrailerATM          = "trailerAtm"
	MassTBM                 = "tbm"
	MassGCM                 = "gcm"
)

const unitKg = "kg"

// builder accumulates masses and tracks which of them were derived
// from blank inputs.
type builder struct {
	aw AxleWeigh
}

func (b *builder) add(field string, value float64, complete bool) {
	b.aw.Masses = append(b.aw.Masses, MeasuredMass{Metric: field, Value: value, Unit: unitKg})
	if !complete {
		b.aw.Incomplete = append(b.aw.Incomplete, field)
	}
}

// val coerces a blank reading to 0 and reports whether it was present.
// Treating "not entered" as 0 kg is the system's documented policy; it
// can understate a load, so callers surface the Incomplete list on the
// report rather than failing.
func val(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

// Normalize converts the raw entries of one leg into canonical masses.
// The hitched bag holds the hitched-pass readings of a tow-vehicle leg
// and is nil everywhere else. Normalization is total: it never fails,
// blanks coerce to 0, unknown methods yield an empty AxleWeigh.
func Normalize(method Method, leg Leg, unhitched, hitched *RawReadings) AxleWeigh {
	var b builder
	switch method {
	case MethodPortableTyres:
		normalizeTyres(&b, leg, unhitched, hitched)
	case MethodWeighbridgeInGround:
		normalizeInGround(&b, leg, unhitched, hitched)
	case MethodWeighbridgeGoWeigh:
		normalizeGoWeigh(&b, leg, unhitched.merged(hitched))
	case MethodWeighbridgeAboveGround:
		normalizeAboveGround(&b, leg, unhitched, hitched)
	}
	return b.aw
}

// axleTotals sums left+right per axle row, grouping dual/triple rows
// under their axle name.
func axleTotals(rows []TyreRow) (front, middle, rear float64, hasMiddle, complete bool) {
	complete = len(rows) > 0
	for _, row := range rows {
		l, lok := val(row.Left)
		r, rok := val(row.Right)
		if !lok || !rok {
			complete = false
		}
		switch row.Axle {
		case "middle":
			hasMiddle = true
			middle += l + r
		case "rear":
			rear += l + r
		default:
			front += l + r
		}
	}
	return front, middle, rear, hasMiddle, complete
}

func normalizeTyres(b *builder, leg Leg, unhitched, hitched *RawReadings) {
	if leg == LegCaravan {
		var rows []TyreRow
		var coupling *float64
		if unhitched != nil {
			rows = unhitched.TyreRows
			coupling = unhitched.Coupling
		}
		front, middle, rear, _, complete := axleTotals(rows)
		group := front + middle + rear
		b.add(MassAxleGroup, group, complete)
		// On tyre scales the axle group is the hitched trailer mass.
		// With a coupling scale reading the unhitched picture follows.
		b.add(MassTrailerGTM, group, complete)
		if c, ok := val(coupling); ok {
			b.add(MassTBM, c, true)
			b.add(MassTrailerATM, group+c, complete)
		}
		return
	}

	var rows []TyreRow
	if unhitched != nil {
		rows = unhitched.TyreRows
	}
	front, middle, rear, hasMiddle, complete := axleTotals(rows)
	b.add(MassFrontAxleUnhitched, front, complete)
	if hasMiddle {
		b.add(MassMiddleAxleUnhitched, middle, complete)
	}
	b.add(MassRearAxleUnhitched, rear, complete)
	b.add(MassGVMUnhitched, front+middle+rear, complete)

	if hitched != nil {
		hf, hm, hr, hHasMiddle, hComplete := axleTotals(hitched.TyreRows)
		b.add(MassFrontAxleHitched, hf, hComplete)
		if hHasMiddle {
			b.add(MassMiddleAxleHitched, hm, hComplete)
		}
		b.add(MassRearAxleHitched, hr, hComplete)
		b.add(MassGVMHitched, hf+hm+hr, hComplete)
	}
}

func normalizeInGround(b *builder, leg Leg, unhitched, hitched *RawReadings) {
	if unhitched == nil {
		unhitched = &RawReadings{}
	}
	if leg == LegCaravan {
		atm, atmOK := val(unhitched.Single)
		b.add(MassTrailerATM, atm, atmOK)
		if gtm, ok := val(unhitched.SingleHitched); ok {
			b.add(MassTrailerGTM, gtm, true)
			if atmOK {
				b.add(MassTBM, atm-gtm, true)
			}
		}
		return
	}

	front, fOK := val(unhitched.FrontAxle)
	rear, rOK := val(unhitched.RearAxle)
	b.add(MassFrontAxleUnhitched, front, fOK)
	b.add(MassRearAxleUnhitched, rear, rOK)
	b.add(MassGVMUnhitched, front+rear, fOK && rOK)

	if hitched != nil {
		hf, hfOK := val(hitched.FrontAxle)
		hr, hrOK := val(hitched.RearAxle)
		b.add(MassFrontAxleHitched, hf, hfOK)
		b.add(MassRearAxleHitched, hr, hrOK)
		b.add(MassGVMHitched, hf+hr, hfOK && hrOK)
	}
}

func normalizeGoWeigh(b *builder, leg Leg, r *RawReadings) {
	if r == nil {
		r = &RawReadings{}
	}
	if leg == LegCaravan {
		atm, atmOK := val(r.FirstTrailer)
		gtm, gtmOK := val(r.SecondTrailer)
		b.add(MassTrailerATM, atm, atmOK)
		b.add(MassTrailerGTM, gtm, gtmOK)
		return
	}

	first, firstOK := val(r.FirstVehicle)
	second, secondOK := val(r.SecondVehicle)
	b.add(MassGVMUnhitched, first, firstOK)
	if secondOK || r.SecondTrailer != nil {
		b.add(MassGVMHitched, second, secondOK)
	}
	// GCM and TBM are operator-entered; go-weigh hardware reports them
	// natively and the entry is trusted over derivation. The derived
	// values ride along for a future cross-check.
	if g, ok := val(r.GCM); ok {
		b.add(MassGCM, g, true)
	}
	if t, ok := val(r.TBM); ok {
		b.add(MassTBM, t, true)
	}
	if secondOK && r.SecondTrailer != nil {
		d := second + *r.SecondTrailer
		b.aw.DerivedGCM = &d
	}
	if r.FirstTrailer != nil && r.SecondTrailer != nil {
		d := *r.FirstTrailer - *r.SecondTrailer
		b.aw.DerivedTBM = &d
	}
}

func normalizeAboveGround(b *builder, leg Leg, unhitched, hitched *RawReadings) {
	if unhitched == nil {
		unhitched = &RawReadings{}
	}
	if leg == LegCaravan {
		// Single aggregate reading, no per-axle breakdown possible.
		atm, ok := val(unhitched.Single)
		b.add(MassTrailerATM, atm, ok)
		return
	}
	gvm, ok := val(unhitched.Single)
	b.add(MassGVMUnhitched, gvm, ok)
	if hitched != nil {
		h, hok := val(hitched.Single)
		b.add(MassGVMHitched, h, hok)
	}
}

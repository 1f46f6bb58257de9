package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	redisclient "github.com/weighbuddy/weighbuddy-backend/internal/clients/redis"
	"github.com/weighbuddy/weighbuddy-backend/internal/data/repos"
	registrytypes "github.com/weighbuddy/weighbuddy-backend/internal/domain/registry"
	"github.com/weighbuddy/weighbuddy-backend/internal/domain/weigh"
	"github.com/weighbuddy/weighbuddy-backend/internal/platform/logger"
)

// ErrNotFinalized means a report was requested for a session that has
// not been finalized yet.
var ErrNotFinalized = errors.New("session not finalized")

// SessionView is what every session endpoint returns: the snapshot,
// the step the client should render next, and the full road ahead once
// a method has been chosen.
type SessionView struct {
	Session  weigh.Session  `json:"session"`
	NextStep weigh.StepID   `json:"next_step"`
	Steps    []weigh.StepID `json:"steps,omitempty"`
}

// PatchRequest carries the client input for the current step. Only the
// fields that step consumes are read; the rest are ignored.
type PatchRequest struct {
	VehicleMethod *weigh.Method      `json:"vehicle_method,omitempty"`
	CaravanMethod *weigh.Method      `json:"caravan_method,omitempty"`
	PreWeigh      *weigh.PreWeigh    `json:"pre_weigh,omitempty"`
	Readings      *weigh.RawReadings `json:"readings,omitempty"`
	Confirm       bool               `json:"confirm,omitempty"`
}

// ResolveRequest identifies the unit for a lookup step: by plate, by
// VIN, or as a fully manual entry.
type ResolveRequest struct {
	Leg    weigh.Leg     `json:"leg"`
	Plate  string        `json:"plate,omitempty"`
	State  string        `json:"state,omitempty"`
	VIN    string        `json:"vin,omitempty"`
	Manual *weigh.Entity `json:"manual,omitempty"`
}

type WeighSessionService interface {
	Create(ctx context.Context, target weigh.TargetType) (SessionView, error)
	Get(ctx context.Context, id uuid.UUID) (SessionView, error)
	Patch(ctx context.Context, id uuid.UUID, req PatchRequest) (SessionView, error)
	Resolve(ctx context.Context, id uuid.UUID, req ResolveRequest) (SessionView, error)
	Finalize(ctx context.Context, id uuid.UUID) (weigh.ReportModel, error)
	Report(ctx context.Context, id uuid.UUID) (weigh.ReportModel, error)
}

type weighSessionService struct {
	db             *gorm.DB
	log            *logger.Logger
	store          redisclient.SessionStore
	resolver       ResolverService
	submissionRepo repos.SubmissionRepo
}

func NewWeighSessionService(
	db *gorm.DB,
	log *logger.Logger,
	store redisclient.SessionStore,
	resolver ResolverService,
	submissionRepo repos.SubmissionRepo,
) WeighSessionService {
	serviceLog := log.With("service", "WeighSessionService")
	return &weighSessionService{
		db:             db,
		log:            serviceLog,
		store:          store,
		resolver:       resolver,
		submissionRepo: submissionRepo,
	}
}

func (ws *weighSessionService) Create(ctx context.Context, target weigh.TargetType) (SessionView, error) {
	s, err := weigh.NewSession(target, time.Now().UTC())
	if err != nil {
		return SessionView{}, err
	}
	if err := ws.store.Put(ctx, s); err != nil {
		return SessionView{}, fmt.Errorf("store session: %w", err)
	}
	ws.log.Info("session created", "session_id", s.ID, "target_type", target)
	return view(s)
}

func (ws *weighSessionService) Get(ctx context.Context, id uuid.UUID) (SessionView, error) {
	s, err := ws.store.Get(ctx, id)
	if err != nil {
		return SessionView{}, err
	}
	return view(s)
}

func (ws *weighSessionService) Patch(ctx context.Context, id uuid.UUID, req PatchRequest) (SessionView, error) {
	s, err := ws.store.Get(ctx, id)
	if err != nil {
		return SessionView{}, err
	}
	step, err := weigh.NextStep(s)
	if err != nil {
		return SessionView{}, err
	}

	var p weigh.Patch
	switch step {
	case weigh.StepSelectMethod:
		if req.VehicleMethod == nil && req.CaravanMethod == nil {
			return SessionView{}, fmt.Errorf("method selection required")
		}
		p = weigh.Patch{VehicleMethod: req.VehicleMethod, CaravanMethod: req.CaravanMethod}
	case weigh.StepPreWeigh:
		pw := req.PreWeigh
		if pw == nil {
			pw = &weigh.PreWeigh{}
		}
		p = weigh.Patch{PreWeigh: pw}
	case weigh.StepLookupVehicle, weigh.StepLookupCaravan:
		return SessionView{}, fmt.Errorf("step %q takes a resolve request, not a patch", step)
	case weigh.StepConfirm:
		if !req.Confirm {
			return SessionView{}, fmt.Errorf("confirmation required")
		}
		p = weigh.Patch{Confirm: true}
	case weigh.StepCompliance:
		p = weigh.Patch{Compliance: weigh.EvaluateSession(s)}
	case weigh.StepReportReady:
		return SessionView{}, fmt.Errorf("%w: session %s has no further input steps", weigh.ErrInvalidTransition, id)
	default:
		p, err = weigh.MeasurementPatch(s, step, req.Readings)
		if err != nil {
			return SessionView{}, err
		}
	}

	return ws.advance(ctx, s, p)
}

func (ws *weighSessionService) Resolve(ctx context.Context, id uuid.UUID, req ResolveRequest) (SessionView, error) {
	s, err := ws.store.Get(ctx, id)
	if err != nil {
		return SessionView{}, err
	}
	step, err := weigh.NextStep(s)
	if err != nil {
		return SessionView{}, err
	}

	var p weigh.Patch
	switch {
	case step == weigh.StepLookupVehicle && req.Leg == weigh.LegVehicle:
		ent, err := ws.resolveEntity(ctx, weigh.KindVehicle, req)
		if err != nil {
			return SessionView{}, err
		}
		p = weigh.Patch{Vehicle: ent}
	case step == weigh.StepLookupCaravan && req.Leg == weigh.LegCaravan:
		ent, err := ws.resolveEntity(ctx, weigh.KindCaravan, req)
		if err != nil {
			return SessionView{}, err
		}
		p = weigh.Patch{Caravan: ent}
	default:
		return SessionView{}, fmt.Errorf("%w: session %s is at step %q, not a %s lookup",
			weigh.ErrInvalidTransition, id, step, req.Leg)
	}

	return ws.advance(ctx, s, p)
}

func (ws *weighSessionService) resolveEntity(ctx context.Context, kind weigh.EntityKind, req ResolveRequest) (*weigh.Entity, error) {
	if req.Manual != nil {
		ent := *req.Manual
		ent.Kind = kind
		ent.Source = weigh.SourceManualEntry
		for i := range ent.Capacities {
			ent.Capacities[i].Source = weigh.SourceManualEntry
			if ent.Capacities[i].Unit == "" {
				ent.Capacities[i].Unit = "kg"
			}
		}
		return &ent, nil
	}
	if kind == weigh.KindVehicle {
		return ws.resolver.ResolveVehicle(ctx, req.Plate, req.State, req.VIN)
	}
	return ws.resolver.ResolveCaravan(ctx, req.Plate, req.State, req.VIN)
}

// advance applies the patch and then runs any steps that need no user
// input, so a confirm immediately yields the compliance verdict.
func (ws *weighSessionService) advance(ctx context.Context, s weigh.Session, p weigh.Patch) (SessionView, error) {
	out, err := weigh.Apply(s, p)
	if err != nil {
		return SessionView{}, err
	}
	next, err := weigh.NextStep(out)
	if err != nil {
		return SessionView{}, err
	}
	if next == weigh.StepCompliance {
		out, err = weigh.Apply(out, weigh.Patch{Compliance: weigh.EvaluateSession(out)})
		if err != nil {
			return SessionView{}, err
		}
	}
	if err := ws.store.Put(ctx, out); err != nil {
		return SessionView{}, fmt.Errorf("store session: %w", err)
	}
	return view(out)
}

func (ws *weighSessionService) Finalize(ctx context.Context, id uuid.UUID) (weigh.ReportModel, error) {
	s, err := ws.store.Get(ctx, id)
	if err != nil {
		return weigh.ReportModel{}, err
	}
	step, err := weigh.NextStep(s)
	if err != nil {
		return weigh.ReportModel{}, err
	}
	if step != weigh.StepReportReady {
		return weigh.ReportModel{}, fmt.Errorf("%w: session %s still needs step %q",
			weigh.ErrInvalidTransition, id, step)
	}

	now := time.Now().UTC()
	final, err := weigh.Finalize(s, now)
	if err != nil {
		return weigh.ReportModel{}, err
	}
	report := weigh.Assemble(final, final.Compliance, now)

	sub, err := buildSubmission(final, report)
	if err != nil {
		return weigh.ReportModel{}, fmt.Errorf("encode submission: %w", err)
	}
	if err := ws.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := ws.submissionRepo.Create(ctx, tx, sub)
		return err
	}); err != nil {
		return weigh.ReportModel{}, fmt.Errorf("archive submission: %w", err)
	}

	if err := ws.store.Put(ctx, final); err != nil {
		ws.log.Warn("failed to store finalized snapshot", "session_id", id, "error", err)
	}
	ws.log.Info("session finalized", "session_id", id, "overloaded", sub.Overloaded)
	return report, nil
}

func (ws *weighSessionService) Report(ctx context.Context, id uuid.UUID) (weigh.ReportModel, error) {
	sub, err := ws.submissionRepo.GetBySessionID(ctx, nil, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return weigh.ReportModel{}, ErrNotFinalized
	}
	if err != nil {
		return weigh.ReportModel{}, err
	}
	var report weigh.ReportModel
	if err := json.Unmarshal(sub.Report, &report); err != nil {
		return weigh.ReportModel{}, fmt.Errorf("decode archived report: %w", err)
	}
	return report, nil
}

func view(s weigh.Session) (SessionView, error) {
	next, err := weigh.NextStep(s)
	if err != nil {
		return SessionView{}, err
	}
	v := SessionView{Session: s, NextStep: next}
	if s.VehicleMethod != "" || s.CaravanMethod != "" {
		if steps, err := weigh.Walk(s.TargetType, s.VehicleMethod, s.MethodFor(weigh.LegCaravan)); err == nil {
			v.Steps = steps
		}
	}
	return v, nil
}

type rawBundle struct {
	Vehicle        *weigh.RawReadings `json:"vehicle,omitempty"`
	VehicleHitched *weigh.RawReadings `json:"vehicle_hitched,omitempty"`
	Caravan        *weigh.RawReadings `json:"caravan,omitempty"`
}

type axleBundle struct {
	Vehicle *weigh.AxleWeigh `json:"vehicle,omitempty"`
	Caravan *weigh.AxleWeigh `json:"caravan,omitempty"`
}

func buildSubmission(s weigh.Session, report weigh.ReportModel) (*registrytypes.Submission, error) {
	sub := &registrytypes.Submission{
		SessionID:     s.ID,
		TargetType:    string(s.TargetType),
		VehicleMethod: string(s.VehicleMethod),
		CaravanMethod: string(s.CaravanMethod),
	}
	if s.Vehicle != nil {
		sub.VehiclePlate = s.Vehicle.Plate
	}
	if s.Caravan != nil {
		sub.CaravanPlate = s.Caravan.Plate
	}
	for _, r := range s.Compliance {
		if r.Status == weigh.StatusOverloaded {
			sub.Overloaded = true
			break
		}
	}

	var err error
	if sub.PreWeigh, err = marshalJSON(s.PreWeigh); err != nil {
		return nil, err
	}
	raw := rawBundle{Vehicle: s.VehicleRaw, VehicleHitched: s.VehicleHitchedRaw, Caravan: s.CaravanRaw}
	if sub.RawReadings, err = marshalJSON(raw); err != nil {
		return nil, err
	}
	axle := axleBundle{Vehicle: s.VehicleAxle, Caravan: s.CaravanAxle}
	if sub.AxleWeigh, err = marshalJSON(axle); err != nil {
		return nil, err
	}
	if sub.Compliance, err = marshalJSON(s.Compliance); err != nil {
		return nil, err
	}
	if sub.Report, err = marshalJSON(report); err != nil {
		return nil, err
	}
	return sub, nil
}

func marshalJSON(v any) (datatypes.JSON, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

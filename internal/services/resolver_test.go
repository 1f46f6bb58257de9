package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/weighbuddy/weighbuddy-backend/internal/clients/regcheck"
	"github.com/weighbuddy/weighbuddy-backend/internal/data/repos"
	"github.com/weighbuddy/weighbuddy-backend/internal/data/repos/testutil"
	registrytypes "github.com/weighbuddy/weighbuddy-backend/internal/domain/registry"
	"github.com/weighbuddy/weighbuddy-backend/internal/domain/weigh"
)

type stubFeed struct {
	calls  int
	entity *weigh.Entity
	err    error
}

func (f *stubFeed) LookupVehicle(ctx context.Context, plate, state string) (*weigh.Entity, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.entity != nil {
		return f.entity, nil
	}
	return nil, regcheck.ErrNotFound
}

func newTestResolver(t *testing.T, feed regcheck.Client) (ResolverService, repos.VehicleRepo, repos.CaravanRepo) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	vehicleRepo := repos.NewVehicleRepo(db, log)
	caravanRepo := repos.NewCaravanRepo(db, log)
	return NewResolverService(db, log, vehicleRepo, caravanRepo, feed), vehicleRepo, caravanRepo
}

func TestResolverRegistryBeforeFeed(t *testing.T) {
	feed := &stubFeed{entity: &weigh.Entity{
		Kind: weigh.KindVehicle, Make: "Wrong", Model: "Record",
		Source: weigh.SourceExternalLookup,
	}}
	svc, vehicleRepo, _ := newTestResolver(t, feed)
	ctx := context.Background()

	if _, err := vehicleRepo.Create(ctx, nil, []*registrytypes.Vehicle{{
		Make: "Ford", Model: "Ranger", Plate: "RSLV01", State: "NSW",
		VIN: "MNAUMFF50JW000001", GVM: 3150, BTC: 3500,
	}}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	ent, err := svc.ResolveVehicle(ctx, "RSLV01", "NSW", "")
	if err != nil {
		t.Fatalf("ResolveVehicle: %v", err)
	}
	if ent.Source != weigh.SourceInternalRegistry || ent.Make != "Ford" {
		t.Fatalf("registry hit must win: %+v", ent)
	}
	if feed.calls != 0 {
		t.Fatalf("feed consulted despite a registry hit")
	}

	// VIN lookups hit the registry too, and never the feed.
	ent, err = svc.ResolveVehicle(ctx, "", "", "MNAUMFF50JW000001")
	if err != nil {
		t.Fatalf("ResolveVehicle by VIN: %v", err)
	}
	if ent.Plate != "RSLV01" || feed.calls != 0 {
		t.Fatalf("VIN lookup: %+v (feed calls %d)", ent, feed.calls)
	}
}

func TestResolverFeedFallback(t *testing.T) {
	feed := &stubFeed{entity: &weigh.Entity{
		Kind: weigh.KindVehicle, Make: "Mazda", Model: "BT-50",
		Plate: "RSLV02", State: "QLD", Source: weigh.SourceExternalLookup,
	}}
	svc, _, _ := newTestResolver(t, feed)

	ent, err := svc.ResolveVehicle(context.Background(), "RSLV02", "QLD", "")
	if err != nil {
		t.Fatalf("ResolveVehicle: %v", err)
	}
	if ent.Source != weigh.SourceExternalLookup || feed.calls != 1 {
		t.Fatalf("registry miss must fall back to the feed: %+v (calls %d)", ent, feed.calls)
	}
}

func TestResolverMissMissReturnsNoMatch(t *testing.T) {
	svc, _, _ := newTestResolver(t, &stubFeed{})

	if _, err := svc.ResolveVehicle(context.Background(), "RSLV03", "NSW", ""); !errors.Is(err, ErrNoMatch) {
		t.Fatalf("both sources missing must be ErrNoMatch, got %v", err)
	}
	if _, err := svc.ResolveVehicle(context.Background(), "", "", "NOSUCHVIN0000001"); !errors.Is(err, ErrNoMatch) {
		t.Fatalf("unknown VIN must be ErrNoMatch, got %v", err)
	}
}

func TestResolverFeedOutageFailsOpen(t *testing.T) {
	feed := &stubFeed{err: errors.New("dial tcp: connection refused")}
	svc, _, _ := newTestResolver(t, feed)

	if _, err := svc.ResolveVehicle(context.Background(), "RSLV04", "NSW", ""); !errors.Is(err, ErrNoMatch) {
		t.Fatalf("feed outage must fail open as ErrNoMatch, got %v", err)
	}
}

func TestResolverCaravansHaveNoFeed(t *testing.T) {
	feed := &stubFeed{entity: &weigh.Entity{Kind: weigh.KindVehicle}}
	svc, _, caravanRepo := newTestResolver(t, feed)
	ctx := context.Background()

	if _, err := caravanRepo.Create(ctx, nil, []*registrytypes.Caravan{{
		Make: "Jayco", Model: "Starcraft", Plate: "RSLV05", State: "VIC",
		VIN: "CARAVANVIN000001", ATM: 3200,
	}}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	ent, err := svc.ResolveCaravan(ctx, "RSLV05", "VIC", "")
	if err != nil {
		t.Fatalf("ResolveCaravan: %v", err)
	}
	if ent.Source != weigh.SourceInternalRegistry {
		t.Fatalf("caravan registry hit: %+v", ent)
	}

	if _, err := svc.ResolveCaravan(ctx, "RSLV06", "VIC", ""); !errors.Is(err, ErrNoMatch) {
		t.Fatalf("caravan miss must be ErrNoMatch, got %v", err)
	}
	if feed.calls != 0 {
		t.Fatalf("the feed covers vehicles only, but was called %d times", feed.calls)
	}
}

func TestResolverStorageOutageFailsOpen(t *testing.T) {
	// An unmigrated database: every registry query errors out, which
	// must read as a miss, never as a hard error to the operator.
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	log := testutil.Logger(t)
	svc := NewResolverService(db, log,
		repos.NewVehicleRepo(db, log), repos.NewCaravanRepo(db, log), &stubFeed{})
	ctx := context.Background()

	if _, err := svc.ResolveVehicle(ctx, "ABC123", "NSW", ""); !errors.Is(err, ErrNoMatch) {
		t.Fatalf("vehicle plate lookup on broken storage: got %v", err)
	}
	if _, err := svc.ResolveVehicle(ctx, "", "", "MNAUMFF50JW000002"); !errors.Is(err, ErrNoMatch) {
		t.Fatalf("vehicle VIN lookup on broken storage: got %v", err)
	}
	if _, err := svc.ResolveCaravan(ctx, "T12345", "VIC", ""); !errors.Is(err, ErrNoMatch) {
		t.Fatalf("caravan plate lookup on broken storage: got %v", err)
	}
	if _, err := svc.ResolveCaravan(ctx, "", "", "CARAVANVIN000002"); !errors.Is(err, ErrNoMatch) {
		t.Fatalf("caravan VIN lookup on broken storage: got %v", err)
	}
}

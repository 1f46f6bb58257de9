package seed

import (
	"context"
	"testing"

	"github.com/weighbuddy/weighbuddy-backend/internal/data/repos"
	"github.com/weighbuddy/weighbuddy-backend/internal/data/repos/testutil"
)

const sample = `
vehicles:
  - make: Ford
    model: Ranger
    year: 2021
    plate: SEED01
    state: NSW
    gvm: 3150
    btc: 3500
caravans:
  - make: Jayco
    model: Starcraft
    plate: SEED02
    state: NSW
    atm: 3200
    tbm: 350
`

func TestParseRejectsIncompleteRecords(t *testing.T) {
	if _, err := Parse([]byte("vehicles:\n  - make: Ford\n")); err == nil {
		t.Fatalf("vehicle without plate must be rejected")
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	ctx := context.Background()

	f, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	vehicleRepo := repos.NewVehicleRepo(db, log)
	caravanRepo := repos.NewCaravanRepo(db, log)

	if err := Apply(ctx, log, f, vehicleRepo, caravanRepo); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	// Second run must not trip the unique plate index.
	if err := Apply(ctx, log, f, vehicleRepo, caravanRepo); err != nil {
		t.Fatalf("Apply twice: %v", err)
	}

	v, err := vehicleRepo.GetByPlate(ctx, nil, "SEED01", "NSW")
	if err != nil {
		t.Fatalf("GetByPlate: %v", err)
	}
	if v.GVM != 3150 {
		t.Fatalf("seeded gvm: %v", v.GVM)
	}
	c, err := caravanRepo.GetByPlate(ctx, nil, "SEED02", "NSW")
	if err != nil {
		t.Fatalf("GetByPlate caravan: %v", err)
	}
	if c.ATM != 3200 {
		t.Fatalf("seeded atm: %v", c.ATM)
	}
}

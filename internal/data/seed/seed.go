package seed

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gorm.io/gorm"
	"gopkg.in/yaml.v3"

	"github.com/weighbuddy/weighbuddy-backend/internal/data/repos"
	registrytypes "github.com/weighbuddy/weighbuddy-backend/internal/domain/registry"
	"github.com/weighbuddy/weighbuddy-backend/internal/platform/logger"
)

// File is the on-disk shape of a registry seed. Capacities are plate
// ratings in kilograms; zero means the rating is not published.
type File struct {
	Vehicles []VehicleSeed `yaml:"vehicles"`
	Caravans []CaravanSeed `yaml:"caravans"`
}

type VehicleSeed struct {
	Make  string  `yaml:"make"`
	Model string  `yaml:"model"`
	Year  int     `yaml:"year"`
	Plate string  `yaml:"plate"`
	State string  `yaml:"state"`
	VIN   string  `yaml:"vin"`
	GVM   float64 `yaml:"gvm"`
	GCM   float64 `yaml:"gcm"`
	FAWR  float64 `yaml:"fawr"`
	RAWR  float64 `yaml:"rawr"`
	BTC   float64 `yaml:"btc"`
}

type CaravanSeed struct {
	Make          string  `yaml:"make"`
	Model         string  `yaml:"model"`
	Year          int     `yaml:"year"`
	Plate         string  `yaml:"plate"`
	State         string  `yaml:"state"`
	VIN           string  `yaml:"vin"`
	ATM           float64 `yaml:"atm"`
	GTM           float64 `yaml:"gtm"`
	AxleGroupLoad float64 `yaml:"axle_group_load"`
	TBM           float64 `yaml:"tbm"`
}

func Parse(raw []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse seed yaml: %w", err)
	}
	for i, v := range f.Vehicles {
		if v.Make == "" || v.Model == "" || v.Plate == "" || v.State == "" {
			return nil, fmt.Errorf("vehicle seed %d: make, model, plate, state required", i)
		}
	}
	for i, c := range f.Caravans {
		if c.Make == "" || c.Model == "" || c.Plate == "" || c.State == "" {
			return nil, fmt.Errorf("caravan seed %d: make, model, plate, state required", i)
		}
	}
	return &f, nil
}

func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(raw)
}

// Apply inserts seed records that are not in the registry yet. Rows
// whose plate already exists are left untouched, so re-running the
// seeder is safe.
func Apply(
	ctx context.Context,
	log *logger.Logger,
	f *File,
	vehicleRepo repos.VehicleRepo,
	caravanRepo repos.CaravanRepo,
) error {
	seedLog := log.With("service", "RegistrySeeder")

	var vehicles []*registrytypes.Vehicle
	for _, s := range f.Vehicles {
		_, err := vehicleRepo.GetByPlate(ctx, nil, s.Plate, s.State)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("seed vehicle %s/%s: %w", s.State, s.Plate, err)
		}
		vehicles = append(vehicles, &registrytypes.Vehicle{
			Make: s.Make, Model: s.Model, Year: s.Year,
			Plate: s.Plate, State: s.State, VIN: s.VIN,
			GVM: s.GVM, GCM: s.GCM, FAWR: s.FAWR, RAWR: s.RAWR, BTC: s.BTC,
		})
	}
	if _, err := vehicleRepo.Create(ctx, nil, vehicles); err != nil {
		return fmt.Errorf("seed vehicles: %w", err)
	}

	var caravans []*registrytypes.Caravan
	for _, s := range f.Caravans {
		_, err := caravanRepo.GetByPlate(ctx, nil, s.Plate, s.State)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("seed caravan %s/%s: %w", s.State, s.Plate, err)
		}
		caravans = append(caravans, &registrytypes.Caravan{
			Make: s.Make, Model: s.Model, Year: s.Year,
			Plate: s.Plate, State: s.State, VIN: s.VIN,
			ATM: s.ATM, GTM: s.GTM, AxleGroupLoad: s.AxleGroupLoad, TBM: s.TBM,
		})
	}
	if _, err := caravanRepo.Create(ctx, nil, caravans); err != nil {
		return fmt.Errorf("seed caravans: %w", err)
	}

	seedLog.Info("registry seeded", "vehicles", len(vehicles), "caravans", len(caravans))
	return nil
}

package registry

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/weighbuddy/weighbuddy-backend/internal/domain/weigh"
)

// Vehicle is a tow-vehicle master record in the reference registry.
// Capacities are manufacturer plate ratings in kilograms.
type Vehicle struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Make  string    `gorm:"not null;column:make;index:idx_vehicle_make_model" json:"make"`
	Model string    `gorm:"not null;column:model;index:idx_vehicle_make_model" json:"model"`
	Year  int       `gorm:"column:year" json:"year"`

	Plate string `gorm:"column:plate;uniqueIndex:idx_vehicle_plate_state" json:"plate"`
	State string `gorm:"column:state;uniqueIndex:idx_vehicle_plate_state" json:"state"`
	VIN   string `gorm:"column:vin;index" json:"vin,omitempty"`

	GVM  float64 `gorm:"column:gvm" json:"gvm"`
	GCM  float64 `gorm:"column:gcm" json:"gcm"`
	FAWR float64 `gorm:"column:fawr" json:"fawr"`
	RAWR float64 `gorm:"column:rawr" json:"rawr"`
	BTC  float64 `gorm:"column:btc" json:"btc"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Vehicle) TableName() string { return "vehicle" }

// Caravan is a caravan/trailer master record. Trailers have no
// external registry feed, so every row is either seeded reference data
// or an admin-approved submission.
type Caravan struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Make  string    `gorm:"not null;column:make;index:idx_caravan_make_model" json:"make"`
	Model string    `gorm:"not null;column:model;index:idx_caravan_make_model" json:"model"`
	Year  int       `gorm:"column:year" json:"year"`

	Plate string `gorm:"column:plate;uniqueIndex:idx_caravan_plate_state" json:"plate"`
	State string `gorm:"column:state;uniqueIndex:idx_caravan_plate_state" json:"state"`
	VIN   string `gorm:"column:vin;index" json:"vin,omitempty"`

	ATM           float64 `gorm:"column:atm" json:"atm"`
	GTM           float64 `gorm:"column:gtm" json:"gtm"`
	AxleGroupLoad float64 `gorm:"column:axle_group_load" json:"axle_group_load"`
	TBM           float64 `gorm:"column:tbm" json:"tbm"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Caravan) TableName() string { return "caravan" }

// Submission is a finalized weigh session archived for history views.
// The JSON bags hold the session's value objects verbatim; a finalized
// session is never updated in place.
type Submission struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID  uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;column:session_id" json:"session_id"`
	TargetType string    `gorm:"not null;column:target_type" json:"target_type"`

	VehicleMethod string `gorm:"column:vehicle_method" json:"vehicle_method,omitempty"`
	CaravanMethod string `gorm:"column:caravan_method" json:"caravan_method,omitempty"`

	VehiclePlate string `gorm:"column:vehicle_plate;index" json:"vehicle_plate,omitempty"`
	CaravanPlate string `gorm:"column:caravan_plate;index" json:"caravan_plate,omitempty"`

	PreWeigh    datatypes.JSON `gorm:"column:pre_weigh" json:"pre_weigh,omitempty"`
	RawReadings datatypes.JSON `gorm:"column:raw_readings" json:"raw_readings,omitempty"`
	AxleWeigh   datatypes.JSON `gorm:"column:axle_weigh" json:"axle_weigh,omitempty"`
	Compliance  datatypes.JSON `gorm:"column:compliance" json:"compliance"`
	Report      datatypes.JSON `gorm:"column:report" json:"report"`

	Overloaded bool `gorm:"column:overloaded;index" json:"overloaded"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Submission) TableName() string { return "submission" }

// Capacities maps a vehicle row onto the evaluator's rated-capacity
// value objects. Zero-valued ratings are absent, not zero limits.
func (v *Vehicle) Capacities(source weigh.CapacitySource) []weigh.RatedCapacity {
	out := make([]weigh.RatedCapacity, 0, 5)
	add := func(metric string, value float64) {
		if value > 0 {
			out = append(out, weigh.RatedCapacity{Metric: metric, Value: value, Unit: "kg", Source: source})
		}
	}
	add(weigh.MetricGVM, v.GVM)
	add(weigh.MetricGCM, v.GCM)
	add(weigh.MetricFrontAxle, v.FAWR)
	add(weigh.MetricRearAxle, v.RAWR)
	add(weigh.MetricBTC, v.BTC)
	return out
}

// Entity converts a vehicle row into the session's entity value object.
func (v *Vehicle) Entity(source weigh.CapacitySource) *weigh.Entity {
	return &weigh.Entity{
		Kind:       weigh.KindVehicle,
		Make:       v.Make,
		Model:      v.Model,
		Year:       v.Year,
		Plate:      v.Plate,
		State:      v.State,
		VIN:        v.VIN,
		Capacities: v.Capacities(source),
		Source:     source,
	}
}

func (c *Caravan) Capacities(source weigh.CapacitySource) []weigh.RatedCapacity {
	out := make([]weigh.RatedCapacity, 0, 4)
	add := func(metric string, value float64) {
		if value > 0 {
			out = append(out, weigh.RatedCapacity{Metric: metric, Value: value, Unit: "kg", Source: source})
		}
	}
	add(weigh.MetricATM, c.ATM)
	add(weigh.MetricGTM, c.GTM)
	add(weigh.MetricAxleGroup, c.AxleGroupLoad)
	add(weigh.MetricTBM, c.TBM)
	return out
}

func (c *Caravan) Entity(source weigh.CapacitySource) *weigh.Entity {
	return &weigh.Entity{
		Kind:       weigh.KindCaravan,
		Make:       c.Make,
		Model:      c.Model,
		Year:       c.Year,
		Plate:      c.Plate,
		State:      c.State,
		VIN:        c.VIN,
		Capacities: c.Capacities(source),
		Source:     source,
	}
}

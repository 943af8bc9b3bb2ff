package entity

import (
	"time"

	"github.com/google/uuid"
)

// Service types offered by the intake flow.
const (
	ServiceInstall    = "install"
	ServiceRental     = "rental"
	ServiceMembership = "membership"
)

// EquipmentSpec describes one requested LED unit.
type EquipmentSpec struct {
	WidthMM            int  `json:"width_mm" bson:"width_mm"`
	HeightMM           int  `json:"height_mm" bson:"height_mm"`
	StageHeightMM      int  `json:"stage_height_mm" bson:"stage_height_mm"`
	NeedOperator       bool `json:"need_operator" bson:"need_operator"`
	OperatorDays       int  `json:"operator_days" bson:"operator_days"`
	PrompterConnection bool `json:"prompter_connection" bson:"prompter_connection"`
	RelayConnection    bool `json:"relay_connection" bson:"relay_connection"`
}

// IntakeData is the record of answers collected during one conversation.
type IntakeData struct {
	Venue        string          `json:"venue" bson:"venue"`
	Environment  string          `json:"environment" bson:"environment"`
	Region       string          `json:"region" bson:"region"`
	SpaceType    string          `json:"space_type" bson:"space_type"`
	Purpose      string          `json:"purpose" bson:"purpose"`
	Budget       string          `json:"budget" bson:"budget"`
	Schedule     string          `json:"schedule" bson:"schedule"`
	EventStart   string          `json:"event_start" bson:"event_start"`
	EventEnd     string          `json:"event_end" bson:"event_end"`
	RentalDays   int             `json:"rental_days" bson:"rental_days"`
	Notes        string          `json:"notes" bson:"notes"`
	Company      string          `json:"company" bson:"company"`
	ContactName  string          `json:"contact_name" bson:"contact_name"`
	ContactTitle string          `json:"contact_title" bson:"contact_title"`
	Phone        string          `json:"phone" bson:"phone"`
	LedSpecs     []EquipmentSpec `json:"led_specs" bson:"led_specs"`
}

// Clone returns a deep copy. LedSpecs is the only reference field, so a
// copied slice is enough to keep history snapshots independent.
func (d IntakeData) Clone() IntakeData {
	c := d
	if d.LedSpecs != nil {
		c.LedSpecs = make([]EquipmentSpec, len(d.LedSpecs))
		copy(c.LedSpecs, d.LedSpecs)
	}
	return c
}

// QuoteBreakdown is the itemized price calculation for an equipment list.
// Every category figure is kept because downstream messages display them.
type QuoteBreakdown struct {
	TotalUnits          int     `json:"total_units" bson:"total_units"`
	EquipmentCost       int64   `json:"equipment_cost" bson:"equipment_cost"`
	StructureAreaSqm    float64 `json:"structure_area_sqm" bson:"structure_area_sqm"`
	MaxStageHeightMM    int     `json:"max_stage_height_mm" bson:"max_stage_height_mm"`
	StructureCost       int64   `json:"structure_cost" bson:"structure_cost"`
	ControllerCost      int64   `json:"controller_cost" bson:"controller_cost"`
	PowerCost           int64   `json:"power_cost" bson:"power_cost"`
	InstallationWorkers int     `json:"installation_workers" bson:"installation_workers"`
	InstallationCost    int64   `json:"installation_cost" bson:"installation_cost"`
	OperatorCost        int64   `json:"operator_cost" bson:"operator_cost"`
	TransportCost       int64   `json:"transport_cost" bson:"transport_cost"`
	TruckType           string  `json:"truck_type" bson:"truck_type"`
	TruckCount          int     `json:"truck_count" bson:"truck_count"`
	PackingBoxes        int     `json:"packing_boxes" bson:"packing_boxes"`
	PeriodSurchargeRate float64 `json:"period_surcharge_rate" bson:"period_surcharge_rate"`
	PeriodSurcharge     int64   `json:"period_surcharge" bson:"period_surcharge"`
	Subtotal            int64   `json:"subtotal" bson:"subtotal"`
	Tax                 int64   `json:"tax" bson:"tax"`
	Total               int64   `json:"total" bson:"total"`
}

// Project is a completed intake handed off for persistence and notification.
type Project struct {
	UUID      string          `json:"uuid" bson:"uuid"`
	Service   string          `json:"service" bson:"service"`
	Data      IntakeData      `json:"data" bson:"data"`
	Quote     *QuoteBreakdown `json:"quote,omitempty" bson:"quote,omitempty"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at"`
}

func NewProject(service string, data IntakeData, quote *QuoteBreakdown) *Project {
	return &Project{
		UUID:      uuid.NewString(),
		Service:   service,
		Data:      data,
		Quote:     quote,
		CreatedAt: time.Now(),
	}
}

package config

import (
	"fmt"
	"log"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env      string `yaml:"env" env-default:"local"`
	Telegram struct {
		ApiKey  string `yaml:"api_key" env-default:""`
		AdminId int64  `yaml:"admin_id" env-default:"0"`
		BotName string `yaml:"bot_name" env-default:"LedRentalBot"`
		Enabled bool   `yaml:"enabled" env-default:"false"`
	} `yaml:"telegram"`
	Mongo struct {
		Enabled  bool   `yaml:"enabled" env-default:"false"`
		Host     string `yaml:"host" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env-default:"27017"`
		User     string `yaml:"user" env-default:"admin"`
		Password string `yaml:"password" env-default:"pass"`
		Database string `yaml:"database" env-default:""`
	} `yaml:"mongo"`
	Session struct {
		MaxAgeMinutes int `yaml:"max_age_minutes" env-default:"30"`
		SweepMinutes  int `yaml:"sweep_minutes" env-default:"10"`
	} `yaml:"session"`
	Pricing Pricing `yaml:"pricing"`
	Listen  struct {
		BindIP         string `yaml:"bind_ip" env-default:"127.0.0.1"`
		Port           string `yaml:"port" env-default:"9200"`
		DashboardToken string `yaml:"dashboard_token" env-default:""`
	} `yaml:"listen"`
}

// Pricing holds every constant the quote engine consumes, so price list
// changes never touch the calculation code. Amounts are KRW.
type Pricing struct {
	ModuleSizeMM      int   `yaml:"module_size_mm" env-default:"500"`
	UnitPrice         int64 `yaml:"unit_price" env-default:"50000"`
	FreeUnitThreshold int   `yaml:"free_unit_threshold" env-default:"500"`

	ControllerDiagonalIn float64 `yaml:"controller_diagonal_in" env-default:"250"`
	ControllerBasicPrice int64   `yaml:"controller_basic_price" env-default:"200000"`
	ControllerLargePrice int64   `yaml:"controller_large_price" env-default:"500000"`
	PowerSurcharge       int64   `yaml:"power_surcharge" env-default:"300000"`

	StructureStageThresholdMM int   `yaml:"structure_stage_threshold_mm" env-default:"4000"`
	StructureLowPerSqm        int64 `yaml:"structure_low_per_sqm" env-default:"20000"`
	StructureHighPerSqm       int64 `yaml:"structure_high_per_sqm" env-default:"25000"`

	WorkerThresholds []int `yaml:"worker_thresholds" env-default:"50,100,150,200"`
	WorkerCounts     []int `yaml:"worker_counts" env-default:"3,5,7,9,12"`
	WorkerPrice      int64 `yaml:"worker_price" env-default:"160000"`
	OperatorDayRate  int64 `yaml:"operator_day_rate" env-default:"280000"`

	TransportThresholds []int    `yaml:"transport_thresholds" env-default:"80,208"`
	TransportPrices     []int64  `yaml:"transport_prices" env-default:"300000,500000,700000"`
	TruckTypes          []string `yaml:"truck_types" env-default:"1톤 트럭,2.5톤 트럭,5톤 트럭"`
	TruckCounts         []int    `yaml:"truck_counts" env-default:"1,1,2"`
	UnitsPerBox         int      `yaml:"units_per_box" env-default:"8"`

	SurchargeDayThresholds []int     `yaml:"surcharge_day_thresholds" env-default:"3,7"`
	SurchargeRates         []float64 `yaml:"surcharge_rates" env-default:"0,0.1,0.2"`
	TaxRate                float64   `yaml:"tax_rate" env-default:"0.1"`
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("%s; %s", err, desc)
			instance = nil
			log.Fatal(err)
		}
	})
	return instance
}

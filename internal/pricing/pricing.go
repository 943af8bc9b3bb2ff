// Package pricing computes tiered quotes for LED equipment lists.
// Every constant comes from configuration; the functions here are pure.
package pricing

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/holica49/led-rental-chatbot-sub000/entity"
	"github.com/holica49/led-rental-chatbot-sub000/internal/config"
	"github.com/holica49/led-rental-chatbot-sub000/internal/validate"
)

var (
	ErrNoEquipment = errors.New("pricing: no equipment specs")
	ErrInvalidSpec = errors.New("pricing: invalid equipment spec")
)

const mmPerInch = 25.4

type Engine struct {
	conf config.Pricing
}

func New(conf config.Pricing) *Engine {
	return &Engine{conf: conf}
}

// Quote computes the itemized breakdown for the given equipment list.
// rentalDays of zero means a non-rental quote with no period surcharge.
func (e *Engine) Quote(specs []entity.EquipmentSpec, rentalDays int) (*entity.QuoteBreakdown, error) {
	if len(specs) == 0 {
		return nil, ErrNoEquipment
	}

	grid := e.conf.ModuleSizeMM
	q := &entity.QuoteBreakdown{}

	for i, s := range specs {
		if s.WidthMM < grid || s.HeightMM < grid ||
			s.WidthMM%grid != 0 || s.HeightMM%grid != 0 {
			return nil, fmt.Errorf("%w: item %d size %dx%d", ErrInvalidSpec, i+1, s.WidthMM, s.HeightMM)
		}
		if s.StageHeightMM < validate.MinStageHeightMM || s.StageHeightMM > validate.MaxStageHeightMM {
			return nil, fmt.Errorf("%w: item %d stage height %d", ErrInvalidSpec, i+1, s.StageHeightMM)
		}

		units := (s.WidthMM / grid) * (s.HeightMM / grid)
		q.TotalUnits += units
		q.StructureAreaSqm += float64(s.WidthMM) * float64(s.HeightMM) / 1e6

		if s.StageHeightMM > q.MaxStageHeightMM {
			q.MaxStageHeightMM = s.StageHeightMM
		}

		diag := diagonalInches(s.WidthMM, s.HeightMM)
		if diag > e.conf.ControllerDiagonalIn {
			q.ControllerCost += e.conf.ControllerLargePrice
			q.PowerCost += e.conf.PowerSurcharge
		} else {
			q.ControllerCost += e.conf.ControllerBasicPrice
		}

		if s.NeedOperator {
			q.OperatorCost += int64(s.OperatorDays) * e.conf.OperatorDayRate
		}
	}

	if q.TotalUnits > e.conf.FreeUnitThreshold {
		q.EquipmentCost = int64(q.TotalUnits) * e.conf.UnitPrice
	}

	perSqm := e.conf.StructureLowPerSqm
	if q.MaxStageHeightMM > e.conf.StructureStageThresholdMM {
		perSqm = e.conf.StructureHighPerSqm
	}
	q.StructureCost = round(q.StructureAreaSqm * float64(perSqm))

	q.InstallationWorkers = e.conf.WorkerCounts[bracket(q.TotalUnits, e.conf.WorkerThresholds)]
	q.InstallationCost = int64(q.InstallationWorkers) * e.conf.WorkerPrice

	tb := bracket(q.TotalUnits, e.conf.TransportThresholds)
	q.TransportCost = e.conf.TransportPrices[tb]
	q.TruckType = e.conf.TruckTypes[tb]
	q.TruckCount = e.conf.TruckCounts[tb]

	pretax := q.EquipmentCost + q.StructureCost + q.ControllerCost + q.PowerCost +
		q.InstallationCost + q.OperatorCost + q.TransportCost

	if rentalDays > 0 {
		q.PackingBoxes = (q.TotalUnits + e.conf.UnitsPerBox - 1) / e.conf.UnitsPerBox
		q.PeriodSurchargeRate = e.conf.SurchargeRates[bracket(rentalDays, e.conf.SurchargeDayThresholds)]
		q.PeriodSurcharge = round(float64(pretax) * q.PeriodSurchargeRate)
	}

	q.Subtotal = pretax + q.PeriodSurcharge
	q.Tax = round(float64(q.Subtotal) * e.conf.TaxRate)
	q.Total = q.Subtotal + q.Tax

	return q, nil
}

func diagonalInches(wMM, hMM int) float64 {
	w, h := float64(wMM), float64(hMM)
	return math.Sqrt(w*w+h*h) / mmPerInch
}

// bracket returns the index of the first threshold v does not exceed,
// or len(thresholds) when v is above them all.
func bracket(v int, thresholds []int) int {
	for i, t := range thresholds {
		if v <= t {
			return i
		}
	}
	return len(thresholds)
}

func round(v float64) int64 {
	return int64(math.Round(v))
}

// FormatWon renders a KRW amount with thousand separators, e.g. "1,234,000원".
func FormatWon(v int64) string {
	s := strconv.FormatInt(v, 10)
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	if neg {
		return "-" + string(out) + "원"
	}
	return string(out) + "원"
}

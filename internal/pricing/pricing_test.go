package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holica49/led-rental-chatbot-sub000/entity"
	"github.com/holica49/led-rental-chatbot-sub000/internal/config"
)

func testPricing() config.Pricing {
	return config.Pricing{
		ModuleSizeMM:      500,
		UnitPrice:         50000,
		FreeUnitThreshold: 500,

		ControllerDiagonalIn: 250,
		ControllerBasicPrice: 200000,
		ControllerLargePrice: 500000,
		PowerSurcharge:       300000,

		StructureStageThresholdMM: 4000,
		StructureLowPerSqm:        20000,
		StructureHighPerSqm:       25000,

		WorkerThresholds: []int{50, 100, 150, 200},
		WorkerCounts:     []int{3, 5, 7, 9, 12},
		WorkerPrice:      160000,
		OperatorDayRate:  280000,

		TransportThresholds: []int{80, 208},
		TransportPrices:     []int64{300000, 500000, 700000},
		TruckTypes:          []string{"1톤 트럭", "2.5톤 트럭", "5톤 트럭"},
		TruckCounts:         []int{1, 1, 2},
		UnitsPerBox:         8,

		SurchargeDayThresholds: []int{3, 7},
		SurchargeRates:         []float64{0, 0.1, 0.2},
		TaxRate:                0.1,
	}
}

func spec(w, h, stage int) entity.EquipmentSpec {
	return entity.EquipmentSpec{WidthMM: w, HeightMM: h, StageHeightMM: stage}
}

func TestQuoteSingleRentalUnit(t *testing.T) {
	e := New(testPricing())

	q, err := e.Quote([]entity.EquipmentSpec{spec(6000, 3000, 0)}, 3)
	require.NoError(t, err)

	assert.Equal(t, 72, q.TotalUnits)                 // 12 x 6 modules
	assert.InDelta(t, 18.0, q.StructureAreaSqm, 1e-9) // 6m x 3m
	assert.Equal(t, float64(0), q.PeriodSurchargeRate)
	assert.Equal(t, int64(0), q.PeriodSurcharge)
	assert.Equal(t, int64(0), q.EquipmentCost) // below free threshold

	// diagonal ≈ 264in — large controller tier plus power surcharge
	assert.Equal(t, int64(500000), q.ControllerCost)
	assert.Equal(t, int64(300000), q.PowerCost)

	// 72 units fall in the 51–100 headcount bracket
	assert.Equal(t, 5, q.InstallationWorkers)
	assert.Equal(t, int64(800000), q.InstallationCost)

	assert.Equal(t, "1톤 트럭", q.TruckType)
	assert.Equal(t, 1, q.TruckCount)
	assert.Equal(t, 9, q.PackingBoxes) // ceil(72/8)

	assert.Equal(t, int64(360000), q.StructureCost) // 18 sqm at low tier
	assert.Equal(t, q.EquipmentCost+q.StructureCost+q.ControllerCost+q.PowerCost+
		q.InstallationCost+q.OperatorCost+q.TransportCost+q.PeriodSurcharge, q.Subtotal)
	assert.Equal(t, q.Subtotal+q.Tax, q.Total)
}

func TestQuoteInstallationHeadcountBrackets(t *testing.T) {
	e := New(testPricing())

	// 5 units of 3000x2000 = 5 x 24 = 120 modules → 101–150 bracket
	specs := make([]entity.EquipmentSpec, 5)
	for i := range specs {
		specs[i] = spec(3000, 2000, 0)
	}

	q, err := e.Quote(specs, 0)
	require.NoError(t, err)
	assert.Equal(t, 120, q.TotalUnits)
	assert.Equal(t, 7, q.InstallationWorkers)
	assert.Equal(t, 0, q.PackingBoxes) // not a rental
}

func TestQuoteStructureTierOnMaxStageHeight(t *testing.T) {
	e := New(testPricing())

	low, err := e.Quote([]entity.EquipmentSpec{spec(2000, 2000, 4000)}, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(80000), low.StructureCost) // 4 sqm x 20,000

	high, err := e.Quote([]entity.EquipmentSpec{
		spec(2000, 2000, 1000),
		spec(2000, 2000, 4500), // max stage height drives the tier globally
	}, 0)
	require.NoError(t, err)
	assert.Equal(t, 4500, high.MaxStageHeightMM)
	assert.Equal(t, int64(200000), high.StructureCost) // 8 sqm x 25,000
}

func TestQuoteOperatorCost(t *testing.T) {
	e := New(testPricing())

	withOp := spec(2000, 1500, 0)
	withOp.NeedOperator = true
	withOp.OperatorDays = 3

	q, err := e.Quote([]entity.EquipmentSpec{withOp, spec(2000, 1500, 0)}, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(840000), q.OperatorCost) // 3 days, one unit only
}

func TestQuotePeriodSurchargeBrackets(t *testing.T) {
	e := New(testPricing())
	specs := []entity.EquipmentSpec{spec(2000, 1500, 0)}

	cases := []struct {
		days int
		rate float64
	}{
		{1, 0}, {3, 0}, {4, 0.1}, {7, 0.1}, {8, 0.2}, {30, 0.2},
	}
	for _, tc := range cases {
		q, err := e.Quote(specs, tc.days)
		require.NoError(t, err)
		assert.Equal(t, tc.rate, q.PeriodSurchargeRate, "days=%d", tc.days)

		pretax := q.Subtotal - q.PeriodSurcharge
		assert.Equal(t, int64(float64(pretax)*tc.rate), q.PeriodSurcharge, "days=%d", tc.days)
	}
}

func TestQuoteEquipmentCostAboveFreeThreshold(t *testing.T) {
	conf := testPricing()
	conf.FreeUnitThreshold = 50
	e := New(conf)

	q, err := e.Quote([]entity.EquipmentSpec{spec(6000, 3000, 0)}, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(72*50000), q.EquipmentCost)
}

func TestQuoteIsPureAndIdempotent(t *testing.T) {
	e := New(testPricing())
	specs := []entity.EquipmentSpec{spec(6000, 3000, 600), spec(3000, 2000, 0)}

	first, err := e.Quote(specs, 5)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := e.Quote(specs, 5)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestQuoteRejectsMalformedSpecs(t *testing.T) {
	e := New(testPricing())

	_, err := e.Quote(nil, 0)
	assert.ErrorIs(t, err, ErrNoEquipment)

	_, err = e.Quote([]entity.EquipmentSpec{spec(5900, 3000, 0)}, 0)
	assert.ErrorIs(t, err, ErrInvalidSpec)

	_, err = e.Quote([]entity.EquipmentSpec{spec(2000, 2000, 99999)}, 0)
	assert.ErrorIs(t, err, ErrInvalidSpec)
}

func TestFormatWon(t *testing.T) {
	assert.Equal(t, "0원", FormatWon(0))
	assert.Equal(t, "480,000원", FormatWon(480000))
	assert.Equal(t, "1,234,567원", FormatWon(1234567))
}

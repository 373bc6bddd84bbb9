package power

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/littleRiceZhou/auto-aspen/internal/catalog"
)

func TestSplitLevels(t *testing.T) {
	t.Run("dual level above threshold", func(t *testing.T) {
		s := SplitLevels(1200, 1300)
		assert.True(t, s.IsDualLevel)
		assert.Equal(t, 1000.0, s.FirstLevelPower)
		assert.Equal(t, 200.0, s.SecondLevelPower)
		assert.Equal(t, 1200.0, s.FirstLevelPower+s.SecondLevelPower)
		assert.Equal(t, 1000.0, s.MaxPower)
	})

	t.Run("single level below threshold", func(t *testing.T) {
		s := SplitLevels(800, 850)
		assert.False(t, s.IsDualLevel)
		assert.Zero(t, s.FirstLevelPower)
		assert.Zero(t, s.SecondLevelPower)
		assert.Equal(t, 850.0, s.MaxPower)
	})

	t.Run("threshold itself is single level", func(t *testing.T) {
		assert.False(t, SplitLevels(1000, 1020).IsDualLevel)
	})

	t.Run("large second level drives sizing", func(t *testing.T) {
		s := SplitLevels(2600, 2650)
		assert.Equal(t, 1600.0, s.SecondLevelPower)
		assert.Equal(t, 1600.0, s.MaxPower)
	})
}

func TestPipelineSingleLevel(t *testing.T) {
	r := NewPipeline().Run(66.53419)

	assert.InDelta(t, 57.61173156612159, r.MainEngine.TotalPowerGeneration, eps)
	assert.InDelta(t, 51.86173156612159, r.Utility.NetPowerOutput, eps)
	assert.InDelta(t, 24.89363115173836, r.Economics.AnnualPowerIncome, eps)

	assert.False(t, r.IsDualLevel)
	assert.Nil(t, r.FirstLevelPower)
	assert.Nil(t, r.SecondLevelPower)
	assert.Equal(t, r.MainEngine.TotalPowerGeneration, r.MaxPower)

	assert.Equal(t, 100.0, r.UnitSelection.UnitSelection)
	assert.Equal(t, catalog.Dimensions{3, 2.5, 2.5}, r.UnitSelection.UnitDimensions)
	assert.Equal(t, "15t/5t", r.UnitSelection.UnitWeight)

	assert.Equal(t, 100.0, r.InvestmentCost)
	assert.Equal(t, 4.0, r.PaybackPeriod)
	assert.True(t, r.Validation.Passed)
	assert.Empty(t, r.Validation.Warnings)
}

func TestPipelineDualLevel(t *testing.T) {
	tests := []struct {
		name      string
		mainPower float64
		net       float64
		second    float64
		maxPower  float64
		dims      catalog.Dimensions
		weight    string
		invest    float64
		payback   float64
	}{
		{"second level below first", 1500, 1278.84496, 278.84496, 1000, catalog.Dimensions{6.5, 3, 2.5}, "26t/12t", 1000, 1.6},
		{"second level near first", 2000, 1705.79328, 705.79328, 1000, catalog.Dimensions{6.5, 3, 2.5}, "26t/12t", 1000, 1.2},
		{"second level above first", 3000, 2561.18992, 1561.18992, 1561.18992, catalog.Dimensions{7.5, 3, 2.5}, "29t/14t", 1561, 1.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewPipeline().Run(tt.mainPower)

			require.True(t, r.IsDualLevel)
			require.NotNil(t, r.FirstLevelPower)
			require.NotNil(t, r.SecondLevelPower)
			assert.Equal(t, 1000.0, *r.FirstLevelPower)
			assert.InDelta(t, tt.second, *r.SecondLevelPower, 1e-6)
			assert.InDelta(t, r.Utility.NetPowerOutput, *r.FirstLevelPower+*r.SecondLevelPower, eps)
			assert.InDelta(t, tt.net, r.Utility.NetPowerOutput, 1e-6)
			assert.InDelta(t, tt.maxPower, r.MaxPower, 1e-6)

			// unit selection is overwritten by the level rating
			assert.Equal(t, r.MaxPower, r.UnitSelection.UnitSelection)
			assert.Equal(t, tt.dims, r.UnitSelection.UnitDimensions)
			assert.Equal(t, tt.weight, r.UnitSelection.UnitWeight)

			assert.Equal(t, tt.invest, r.InvestmentCost)
			assert.Equal(t, tt.payback, r.PaybackPeriod)
		})
	}
}

func TestPipelineDualLevelKeepsEconomics(t *testing.T) {
	r := NewPipeline().Run(1500)
	want := CalculateEconomics(r.Utility.NetPowerOutput, DefaultEconomicParams())
	assert.Equal(t, want, r.Economics)
	assert.InDelta(t, 613.8455808, r.Economics.AnnualPowerIncome, 1e-6)
}

func TestPipelineInfeasibleDesign(t *testing.T) {
	r := NewPipeline().Run(2)

	assert.Less(t, r.Utility.NetPowerOutput, 0.0)
	assert.Less(t, r.Economics.AnnualPowerIncome, 0.0)
	assert.Equal(t, 0.0, r.PaybackPeriod)
	assert.False(t, r.IsDualLevel)

	assert.False(t, r.Validation.Passed)
	assert.False(t, r.Validation.NetPowerPositive)
	assert.False(t, r.Validation.IncomePositive)
	assert.False(t, r.Validation.EfficiencyInRange)
	assert.Len(t, r.Validation.Warnings, 3)
}

func TestPipelineIsDeterministic(t *testing.T) {
	p := NewPipeline()
	assert.Equal(t, p.Run(2345.6), p.Run(2345.6))
}

func TestPipelineOptions(t *testing.T) {
	eco := DefaultEconomicParams()
	eco.ElectricityPrice = 1.2

	base := NewPipeline().Run(66.53419)
	r := NewPipeline(WithEconomicParams(eco)).Run(66.53419)

	assert.InDelta(t, 2*base.Economics.AnnualPowerIncome, r.Economics.AnnualPowerIncome, eps)
	assert.Equal(t, 2.0, r.PaybackPeriod)
}

func TestPaybackPeriod(t *testing.T) {
	assert.Equal(t, 0.0, PaybackPeriod(100, 0))
	assert.Equal(t, 0.0, PaybackPeriod(100, -3))
	assert.Equal(t, 4.0, PaybackPeriod(100, 24.89363115173836))
	assert.Equal(t, 0.5, PaybackPeriod(9, 20))
	assert.Equal(t, 0.3, PaybackPeriod(7, 20))
}

func TestValidate(t *testing.T) {
	v := Validate(100, 80, 10)
	assert.True(t, v.Passed)
	assert.InDelta(t, 0.8, v.SystemEfficiency, eps)

	v = Validate(100, 120, 10)
	assert.False(t, v.Passed)
	assert.True(t, v.NetPowerPositive)
	assert.False(t, v.EfficiencyInRange)
	assert.Len(t, v.Warnings, 1)

	v = Validate(0, 0, 0)
	assert.False(t, v.Passed)
	assert.Len(t, v.Warnings, 3)
}

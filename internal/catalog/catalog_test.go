package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOilPumpPower(t *testing.T) {
	tests := []struct {
		flow float64
		want float64
	}{
		{0, 1.5},
		{28.0, 1.5},
		{28.4, 1.5},
		{60, 2.2},
		{79.578716, 3},
		{80.1, 4},
		{298.97, 11},
		{1035, 30},
		{2000, 30},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OilPumpPower(tt.flow), "flow %v", tt.flow)
	}
}

func TestOilPumpPowerIsMonotone(t *testing.T) {
	prev := 0.0
	for flow := 0.0; flow <= 1200; flow += 0.5 {
		p := OilPumpPower(flow)
		assert.GreaterOrEqual(t, p, prev, "flow %v", flow)
		prev = p
	}
}

func TestTablesAreAscending(t *testing.T) {
	pumps := OilPumpRatings()
	for i := 1; i < len(pumps); i++ {
		assert.Greater(t, pumps[i].MaxFlow, pumps[i-1].MaxFlow)
	}
	units := UnitRatings()
	for i := 1; i < len(units); i++ {
		assert.Greater(t, units[i].MaxPower, units[i-1].MaxPower)
	}
}

func TestRatingsAreCopies(t *testing.T) {
	pumps := OilPumpRatings()
	pumps[0].Power = 99
	assert.Equal(t, 1.5, OilPumpPower(0))

	units := UnitRatings()
	units[0].Weight = "changed"
	_, w := UnitDimensionsWeight(0)
	assert.Equal(t, "14t/5t", w)
}

func TestUnitDimensionsWeight(t *testing.T) {
	tests := []struct {
		power  float64
		dims   Dimensions
		weight string
	}{
		{0, Dimensions{3, 2.5, 2.5}, "14t/5t"},
		{100, Dimensions{3, 2.5, 2.5}, "15t/5t"},
		{450, Dimensions{4, 2.5, 2.5}, "17t/5t"},
		{1000, Dimensions{6.5, 3, 2.5}, "26t/12t"},
		{1400, Dimensions{7, 3, 2.5}, "28t/13t"},
		{1561.18992, Dimensions{7.5, 3, 2.5}, "29t/14t"},
		{7000, Dimensions{12, 6, 4}, "50t/20t"},
		{9000, Dimensions{12, 6, 4}, "50t/20t"},
	}
	for _, tt := range tests {
		dims, weight := UnitDimensionsWeight(tt.power)
		assert.Equal(t, tt.dims, dims, "power %v", tt.power)
		assert.Equal(t, tt.weight, weight, "power %v", tt.power)
	}
}

func TestDimensionsString(t *testing.T) {
	assert.Equal(t, "3×2.5×2.5", Dimensions{3, 2.5, 2.5}.String())
	assert.Equal(t, "10.5×4×2.5", Dimensions{10.5, 4, 2.5}.String())
	assert.True(t, Dimensions{}.IsZero())
	assert.False(t, Dimensions{3, 2.5, 2.5}.IsZero())
}

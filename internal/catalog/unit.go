package catalog

import (
	"strconv"
	"strings"
)

// Dimensions is a unit footprint as length, width and height in meters.
type Dimensions [3]float64

func (d Dimensions) Length() float64 { return d[0] }
func (d Dimensions) Width() float64  { return d[1] }
func (d Dimensions) Height() float64 { return d[2] }

// IsZero reports whether no dimension has been set.
func (d Dimensions) IsZero() bool {
	return d == Dimensions{}
}

// String renders the dimensions as "3×2.5×2.5".
func (d Dimensions) String() string {
	parts := make([]string, len(d))
	for i, v := range d {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, "×")
}

// UnitRating is one row of the generator unit table. Weight is the
// "unit/skid" label used on quotations and is kept verbatim.
type UnitRating struct {
	MaxPower   float64 // kW
	Dimensions Dimensions
	Weight     string
}

var unitRatings = [...]UnitRating{
	{0, Dimensions{3, 2.5, 2.5}, "14t/5t"},
	{250, Dimensions{3, 2.5, 2.5}, "15t/5t"},
	{400, Dimensions{3.5, 2.5, 2.5}, "16t/5t"},
	{450, Dimensions{4, 2.5, 2.5}, "17t/5t"},
	{500, Dimensions{4.5, 2.5, 2.5}, "17t/6t"},
	{560, Dimensions{4.5, 3, 2.5}, "18t/8t"},
	{630, Dimensions{5, 3, 2.5}, "20t/9t"},
	{710, Dimensions{5.5, 3, 2.5}, "22t/10t"},
	{800, Dimensions{6, 3, 2.5}, "24t/11t"},
	{900, Dimensions{6.5, 3, 2.5}, "25t/12t"},
	{1120, Dimensions{6.5, 3, 2.5}, "26t/12t"},
	{1250, Dimensions{6.5, 3, 2.5}, "27t/13t"},
	{1400, Dimensions{7, 3, 2.5}, "28t/13t"},
	{1600, Dimensions{7.5, 3, 2.5}, "29t/14t"},
	{1800, Dimensions{8, 3.5, 2.5}, "30t/15t"},
	{2000, Dimensions{8.5, 3.5, 2.5}, "31t/16t"},
	{2240, Dimensions{9, 3.5, 2.5}, "32t/16t"},
	{2500, Dimensions{9.5, 4, 2.5}, "33t/16t"},
	{2800, Dimensions{9.5, 4, 2.5}, "34t/17t"},
	{3150, Dimensions{10.5, 4, 2.5}, "35t/17t"},
	{3550, Dimensions{11, 4, 2.5}, "38t/18t"},
	{4000, Dimensions{12, 4, 2.5}, "40t/18t"},
	{7000, Dimensions{12, 6, 4}, "50t/20t"},
}

// UnitRatings returns a copy of the unit table in ascending power order.
func UnitRatings() []UnitRating {
	out := make([]UnitRating, len(unitRatings))
	copy(out, unitRatings[:])
	return out
}

// LookupUnit returns the first unit rating whose power threshold is >= power,
// clamping to the largest unit.
func LookupUnit(power float64) UnitRating {
	for _, r := range unitRatings {
		if power <= r.MaxPower {
			return r
		}
	}
	return unitRatings[len(unitRatings)-1]
}

// UnitDimensionsWeight is LookupUnit split into its dimensions and weight label.
func UnitDimensionsWeight(power float64) (Dimensions, string) {
	r := LookupUnit(power)
	return r.Dimensions, r.Weight
}

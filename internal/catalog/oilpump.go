package catalog

// Lubrication oil pump ratings

// OilPumpRating is one row of the oil pump table: pumps rated for flows up to
// MaxFlow (L/min) draw Power (kW).
type OilPumpRating struct {
	MaxFlow float64 // L/min
	Power   float64 // kW
}

var oilPumpRatings = [...]OilPumpRating{
	{28.4, 1.5},
	{37.9, 1.5},
	{60, 2.2},
	{80, 3},
	{108, 4},
	{157, 5.5},
	{189, 7.5},
	{225, 7.5},
	{277, 11},
	{319, 11},
	{401, 15},
	{471, 15},
	{536, 15},
	{596, 18.5},
	{662, 22},
	{846, 30},
	{1035, 30},
}

// OilPumpRatings returns a copy of the oil pump table in ascending flow order.
func OilPumpRatings() []OilPumpRating {
	out := make([]OilPumpRating, len(oilPumpRatings))
	copy(out, oilPumpRatings[:])
	return out
}

// OilPumpPower returns the pump power for the first rating whose flow
// threshold is >= flow. Flows beyond the table use the largest pump.
func OilPumpPower(flow float64) float64 {
	for _, r := range oilPumpRatings {
		if flow <= r.MaxFlow {
			return r.Power
		}
	}
	return oilPumpRatings[len(oilPumpRatings)-1].Power
}

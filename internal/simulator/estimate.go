package simulator

import "math"

// MinEstimatedPower is the floor (kW) of EstimatePower.
const MinEstimatedPower = 10.0

// EstimatePower is a rough shaft power (kW) used when the simulator returns
// no power: flow × pressure drop × efficiency, floored at MinEstimatedPower.
func EstimatePower(p Parameters) float64 {
	estimate := p.GasFlowRate * (p.InletPressure - p.OutletPressure) * p.Efficiency / 100 * 0.001
	return math.Max(estimate, MinEstimatedPower)
}

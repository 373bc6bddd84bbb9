package power

import (
	"math"
	"strconv"

	"github.com/littleRiceZhou/auto-aspen/internal/catalog"
)

// Fixed allowances used in the self-consumption sum (kW).
const (
	HeaterPumpRatio      = 0.5 // lubrication heater draws half the pump power
	GeneratorHeaterPower = 1.0
	ValvePower           = 0.5
	PLCPower             = 2.0

	// Safety margin applied to total generation when sizing the unit.
	SelectionMargin = 1.1
	// Unit selections are rounded to this step (kW).
	SelectionStep = 100.0
)

// MainEngineResult is the output of the main engine stage (kW).
type MainEngineResult struct {
	InputPower           float64 `json:"input_power"`
	MainLossPower        float64 `json:"main_loss_power"`
	MainOutputPower      float64 `json:"main_output_power"`
	TotalPowerGeneration float64 `json:"total_power_generation"`
}

// CalculateMainEngine applies the loss chain to the shaft power.
func CalculateMainEngine(p MainEngineParams) MainEngineResult {
	// Isentropic loss is reported separately and does not reduce the output.
	loss := p.MainPower * p.IsentropicEfficiency * p.GapLeakageFactor * p.VoluteLossFactor * p.WheelResistanceFactor
	out := p.MainPower * p.GapLeakageFactor * p.VoluteLossFactor * p.WheelResistanceFactor
	total := out * p.GearboxLossFactor * p.GeneratorEfficiency

	return MainEngineResult{
		InputPower:           p.MainPower,
		MainLossPower:        loss,
		MainOutputPower:      out,
		TotalPowerGeneration: total,
	}
}

// ComponentPowers is the self-consumption breakdown (kW).
type ComponentPowers struct {
	LubricationPump   float64 `json:"lubrication_pump"`
	LubricationHeater float64 `json:"lubrication_heater"`
	GeneratorHeater   float64 `json:"generator_heater"`
	Valve             float64 `json:"valve"`
	PLC               float64 `json:"plc"`
}

// Sum adds the components in a fixed order.
func (c ComponentPowers) Sum() float64 {
	return c.LubricationPump + c.LubricationHeater + c.GeneratorHeater + c.Valve + c.PLC
}

// UtilityResult is the output of the utility stage.
type UtilityResult struct {
	LubricationOilAmount      float64         `json:"lubrication_oil_amount"`       // L/min
	OilCoolerCirculationWater float64         `json:"oil_cooler_circulation_water"` // m³/h
	OilPumpPower              float64         `json:"oil_pump_power"`               // kW
	UtilitySelfConsumption    float64         `json:"utility_self_consumption"`     // kW
	NetPowerOutput            float64         `json:"net_power_output"`             // kW, may be negative
	AirDemandNm3              float64         `json:"air_demand_nm3"`
	AirDemandNm3PerH          float64         `json:"air_demand_nm3_per_h"`
	ComponentPowers           ComponentPowers `json:"component_powers"`
}

// CalculateUtility sizes the lubrication system from the heat rejected by
// mechanical losses and subtracts the auxiliary load from total generation.
func CalculateUtility(me MainEngineResult, p UtilityParams) UtilityResult {
	// Heat rejected to oil, with a 1.2 allowance.
	heat := 1.2 * me.MainOutputPower * p.MechanicalLossRatio

	// kW -> L/min
	oil := heat / (p.LubricationOilDensity * p.LubricationOilHeatCapacity * p.OilCoolerTempRise) * 60 * 1000
	// kW -> m³/h; the water side uses the oil cooler temperature rise.
	water := heat / p.CoolingWaterHeatCapacity / p.OilCoolerTempRise * 3.6

	pump := catalog.OilPumpPower(oil)
	components := ComponentPowers{
		LubricationPump:   pump,
		LubricationHeater: pump * HeaterPumpRatio,
		GeneratorHeater:   GeneratorHeaterPower,
		Valve:             ValvePower,
		PLC:               PLCPower,
	}
	self := components.Sum()

	return UtilityResult{
		LubricationOilAmount:      oil,
		OilCoolerCirculationWater: water,
		OilPumpPower:              pump,
		UtilitySelfConsumption:    self,
		NetPowerOutput:            me.TotalPowerGeneration - self,
		AirDemandNm3:              p.AirDemandNm3,
		AirDemandNm3PerH:          p.AirDemandNm3PerH,
		ComponentPowers:           components,
	}
}

// EconomicResult is the annual outcome of running the unit.
type EconomicResult struct {
	AnnualPowerGeneration float64 `json:"annual_power_generation"`  // 10⁴ kWh
	AnnualPowerIncome     float64 `json:"annual_power_income"`      // 10⁴ yuan
	AnnualCoalSavings     float64 `json:"annual_coal_savings"`      // t
	AnnualCoalCostSavings float64 `json:"annual_coal_cost_savings"` // 10⁴ yuan
	AnnualCO2Reduction    float64 `json:"annual_co2_reduction"`     // t
}

// CalculateEconomics derives annual generation, income and emissions savings
// from the net power output.
func CalculateEconomics(netPowerOutput float64, p EconomicParams) EconomicResult {
	apg := netPowerOutput * p.AnnualOperatingHours / 10000
	coal := apg * p.StandardCoalCoefficient * 10

	return EconomicResult{
		AnnualPowerGeneration: apg,
		AnnualPowerIncome:     apg * p.ElectricityPrice,
		AnnualCoalSavings:     coal,
		AnnualCoalCostSavings: coal * p.StandardCoalPrice / 10000,
		AnnualCO2Reduction:    apg * p.CO2EmissionFactor * 10,
	}
}

// UnitSelectionResult is the selected generator unit.
type UnitSelectionResult struct {
	UnitSelection  float64            `json:"unit_selection"` // kW
	UnitDimensions catalog.Dimensions `json:"unit_dimensions"`
	UnitWeight     string             `json:"unit_weight"`
	LookupPower    float64            `json:"lookup_power"` // kW used against the catalog
}

// CalculateUnitSelection rounds total generation plus margin to the nearest
// 100 kW and looks the result up in the unit catalog.
func CalculateUnitSelection(totalPowerGeneration float64, p UnitSelectionParams) UnitSelectionResult {
	selection := RoundHalfEven(totalPowerGeneration*SelectionMargin/SelectionStep, 0) * SelectionStep

	dims, weight := catalog.UnitDimensionsWeight(selection)
	if dims.IsZero() || weight == "" {
		dims = p.Dimensions
		weight = strconv.FormatFloat(p.WeightPerUnit, 'f', -1, 64) + "t"
	}

	return UnitSelectionResult{
		UnitSelection:  selection,
		UnitDimensions: dims,
		UnitWeight:     weight,
		LookupPower:    selection,
	}
}

// RoundHalfEven rounds x to the given number of decimals, ties to even.
// Rounding works on the exact binary value of x, so 0.45 (stored just above
// 0.45) rounds to 0.5 and 0.35 (just below) to 0.3.
func RoundHalfEven(x float64, decimals int) float64 {
	if decimals == 0 {
		return math.RoundToEven(x)
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', decimals, 64), 64)
	if err != nil {
		return x
	}
	return r
}

package power

import "github.com/littleRiceZhou/auto-aspen/internal/catalog"

// MainEngineParams holds the expander shaft power and the loss chain applied
// to it. All factors are fractions in (0, 1]; a gearbox factor of 1.0 means
// no gearbox loss.
type MainEngineParams struct {
	MainPower float64 `json:"main_power" validate:"gte=0"` // kW, expander shaft power

	IsentropicEfficiency  float64 `json:"isentropic_efficiency" validate:"gt=0,lte=1"`
	GapLeakageFactor      float64 `json:"gap_leakage_factor" validate:"gt=0,lte=1"`
	VoluteLossFactor      float64 `json:"volute_loss_factor" validate:"gt=0,lte=1"`
	WheelResistanceFactor float64 `json:"wheel_resistance_factor" validate:"gt=0,lte=1"`
	GearboxLossFactor     float64 `json:"gearbox_loss_factor" validate:"gt=0,lte=1"`
	GeneratorEfficiency   float64 `json:"generator_efficiency" validate:"gt=0,lte=1"`
}

// DefaultMainEngineParams returns the standard loss chain for mainPower.
func DefaultMainEngineParams(mainPower float64) MainEngineParams {
	return MainEngineParams{
		MainPower:             mainPower,
		IsentropicEfficiency:  0.85,
		GapLeakageFactor:      0.98,
		VoluteLossFactor:      0.98,
		WheelResistanceFactor: 0.98,
		GearboxLossFactor:     1.0,
		GeneratorEfficiency:   0.92,
	}
}

// WithMainPower returns a copy of p driving mainPower through the same losses.
func (p MainEngineParams) WithMainPower(mainPower float64) MainEngineParams {
	p.MainPower = mainPower
	return p
}

// UtilityParams describes the lubrication and cooling system. The nominal
// component powers are informational; the self-consumption sum uses the
// computed pump power and fixed allowances.
type UtilityParams struct {
	// Lubrication and cooling
	LubricationOilFlowRate     float64 `json:"lubrication_oil_flow_rate" validate:"gte=0"`    // L/min
	OilCoolerTempRise          float64 `json:"oil_cooler_temp_rise" validate:"gt=0"`          // °C
	CoolingWaterHeatCapacity   float64 `json:"cooling_water_heat_capacity" validate:"gt=0"`   // kJ/(kg·°C)
	MechanicalLossRatio        float64 `json:"mechanical_loss_ratio" validate:"gte=0,lt=1"`   // fraction of output power lost as heat
	LubricationOilDensity      float64 `json:"lubrication_oil_density" validate:"gt=0"`       // kg/m³
	LubricationOilHeatCapacity float64 `json:"lubrication_oil_heat_capacity" validate:"gt=0"` // kJ/(kg·°C)

	// Nominal component powers (kW)
	LubricationPumpPower   float64 `json:"lubrication_pump_power" validate:"gte=0"`
	LubricationHeaterPower float64 `json:"lubrication_heater_power" validate:"gte=0"`
	GeneratorHeaterPower   float64 `json:"generator_heater_power" validate:"gte=0"`
	ValvePower             float64 `json:"valve_power" validate:"gte=0"`
	PLCPower               float64 `json:"plc_power" validate:"gte=0"`
	BearingPower           float64 `json:"bearing_power" validate:"gte=0"`

	// Auxiliary demands
	AirDemandNm3             float64 `json:"air_demand_nm3" validate:"gte=0"`               // compressed air, Nm³
	AirDemandNm3PerH         float64 `json:"air_demand_nm3_per_h" validate:"gte=0"`         // nitrogen seal gas, Nm³/h
	OilCoolerFlowTempRise    float64 `json:"oil_cooler_flow_temp_rise" validate:"gte=0"`    // °C
	CoolingWaterFlowTempRise float64 `json:"cooling_water_flow_temp_rise" validate:"gte=0"` // °C
}

// DefaultUtilityParams returns the standard lubrication and cooling setup.
func DefaultUtilityParams() UtilityParams {
	return UtilityParams{
		LubricationOilFlowRate:     79.578716,
		OilCoolerTempRise:          8,
		CoolingWaterHeatCapacity:   4.2,
		MechanicalLossRatio:        0.04,
		LubricationOilDensity:      850,
		LubricationOilHeatCapacity: 2,

		LubricationPumpPower:   3,
		LubricationHeaterPower: 0.6,
		GeneratorHeaterPower:   0.2,
		ValvePower:             0.5,
		PLCPower:               0.3,
		BearingPower:           0,

		AirDemandNm3:             4,
		AirDemandNm3PerH:         40,
		OilCoolerFlowTempRise:    8,
		CoolingWaterFlowTempRise: 0.32205315,
	}
}

// EconomicParams holds the operating schedule and tariffs.
type EconomicParams struct {
	AnnualOperatingHours    float64 `json:"annual_operating_hours" validate:"gte=0,lte=8784"` // h
	ElectricityPrice        float64 `json:"electricity_price" validate:"gte=0"`               // yuan/kWh
	StandardCoalCoefficient float64 `json:"standard_coal_coefficient" validate:"gte=0"`       // kg/kWh
	StandardCoalPrice       float64 `json:"standard_coal_price" validate:"gte=0"`             // yuan/t
	CO2EmissionFactor       float64 `json:"co2_emission_factor" validate:"gte=0"`             // kg/kWh
}

func DefaultEconomicParams() EconomicParams {
	return EconomicParams{
		AnnualOperatingHours:    8000,
		ElectricityPrice:        0.6,
		StandardCoalCoefficient: 0.35,
		StandardCoalPrice:       500,
		CO2EmissionFactor:       0.96,
	}
}

// UnitSelectionParams are used only when the unit catalog yields nothing.
type UnitSelectionParams struct {
	Dimensions    catalog.Dimensions `json:"unit_dimensions"`                  // m
	WeightPerUnit float64            `json:"weight_per_unit" validate:"gte=0"` // t
}

func DefaultUnitSelectionParams() UnitSelectionParams {
	return UnitSelectionParams{
		Dimensions:    catalog.Dimensions{3, 2.5, 2.5},
		WeightPerUnit: 15,
	}
}

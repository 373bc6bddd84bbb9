package report

import (
	"fmt"
	"math"
	"strconv"

	"github.com/littleRiceZhou/auto-aspen/internal/power"
	"github.com/littleRiceZhou/auto-aspen/internal/simulator"
)

const (
	DesignSingleLevel = "single level unit"
	DesignDualLevel   = "dual level unit"

	notAvailable = "N/A"
)

// Input is everything known about one design.
type Input struct {
	Parameters simulator.Parameters
	// Simulation is nil when the main power did not come from a simulator run.
	Simulation *simulator.Result
	Design     *power.Result
}

// MainPower is the shaft power the design was calculated from.
func (in Input) MainPower() float64 {
	return in.Design.MainEngine.InputPower
}

func (in Input) designType() string {
	if in.Design.IsDualLevel {
		return DesignDualLevel
	}
	return DesignSingleLevel
}

// UnitParams identify the selected unit.
type UnitParams struct {
	Model      string `json:"model"`
	Quote      int    `json:"quote"` // 10⁴ yuan
	Dimensions string `json:"dimensions"`
	Weight     string `json:"weight"`
}

// TechnicalParams are the process conditions quoted with the unit.
type TechnicalParams struct {
	Pressures    string `json:"inlet_outlet_pressure_mpa"`
	Temperatures string `json:"inlet_outlet_temperature_c"`
	FlowRate     string `json:"flow_rate_scmh"`
	Efficiency   string `json:"efficiency"`
	PowerOutput  string `json:"power_output_kw"`
}

// PowerSplit is the level breakdown of a dual level unit.
type PowerSplit struct {
	FirstLevel     string `json:"first_level"`
	SecondLevel    string `json:"second_level"`
	TotalNet       string `json:"total_net"`
	SelectionPower string `json:"selection_power"`
}

// Selection is the unit offered to the customer.
type Selection struct {
	Unit          UnitParams      `json:"unit"`
	Technical     TechnicalParams `json:"technical_parameters"`
	DesignType    string          `json:"design_type"`
	NetPower      string          `json:"net_power"`
	AnnualIncome  string          `json:"annual_income"`
	PaybackPeriod string          `json:"payback_period"`
	PowerSplit    *PowerSplit     `json:"power_split,omitempty"`
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func optional(v *float64, format string) string {
	if v == nil {
		return notAvailable
	}
	return fmt.Sprintf(format, *v)
}

// Model is the catalog name of a unit selection.
func Model(unitSelection float64) string {
	return fmt.Sprintf("TP%d", int(unitSelection))
}

// NewSelection builds the selection summary.
func NewSelection(in Input) Selection {
	d := in.Design
	p := in.Parameters

	shaft := notAvailable
	outletTemp := notAvailable
	if in.Simulation != nil {
		shaft = num(in.Simulation.PowerOutput)
		outletTemp = optional(in.Simulation.OutletTemperature, "%.2f")
	}
	efficiency := notAvailable
	if p.Efficiency != 0 {
		efficiency = num(p.Efficiency) + "%"
	}

	s := Selection{
		Unit: UnitParams{
			Model:      Model(d.UnitSelection.UnitSelection),
			Quote:      int(d.UnitSelection.UnitSelection),
			Dimensions: d.UnitSelection.UnitDimensions.String(),
			Weight:     d.UnitSelection.UnitWeight,
		},
		Technical: TechnicalParams{
			Pressures:    num(p.InletPressure) + "/" + num(p.OutletPressure),
			Temperatures: num(p.InletTemperature) + "/" + outletTemp,
			FlowRate:     num(p.GasFlowRate),
			Efficiency:   efficiency,
			PowerOutput:  shaft,
		},
		DesignType:    in.designType(),
		NetPower:      fmt.Sprintf("%.0fkW", d.Utility.NetPowerOutput),
		AnnualIncome:  fmt.Sprintf("%.1f", d.Economics.AnnualPowerIncome),
		PaybackPeriod: fmt.Sprintf("%.1f years", d.PaybackPeriod),
	}

	if d.IsDualLevel {
		first, second := *d.FirstLevelPower, *d.SecondLevelPower
		s.PowerSplit = &PowerSplit{
			FirstLevel:     fmt.Sprintf("%.0fkW", first),
			SecondLevel:    fmt.Sprintf("%.0fkW", second),
			TotalNet:       fmt.Sprintf("%.0fkW", first+second),
			SelectionPower: fmt.Sprintf("%.0fkW", d.MaxPower),
		}
	}
	return s
}

// Row is one labelled value of a calculation step.
type Row struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Section is one step of the calculation trace.
type Section struct {
	Title string `json:"title"`
	Rows  []Row  `json:"rows"`
}

// Section titles of the calculation trace.
const (
	SectionMainEngine    = "main engine"
	SectionUtility       = "utility consumption"
	SectionEconomics     = "economic analysis"
	SectionUnitSelection = "unit selection"
	SectionPowerSplit    = "power split"
	SectionPayback       = "payback"
)

// Details traces every stage with its intermediate values.
func Details(in Input) []Section {
	d := in.Design
	me, u, e := d.MainEngine, d.Utility, d.Economics
	net, total := u.NetPowerOutput, me.TotalPowerGeneration

	selection := Section{Title: SectionUnitSelection, Rows: []Row{
		{"total generation", fmt.Sprintf("%.2f kW", total)},
		{"design type", in.designType()},
	}}
	split := Section{Title: SectionPowerSplit}
	if d.IsDualLevel {
		first, second := *d.FirstLevelPower, *d.SecondLevelPower
		selection.Rows = append(selection.Rows,
			Row{"rule", fmt.Sprintf("net power %.2fkW > %gkW, dual level design", net, power.DualLevelThreshold)},
			Row{"selection power", fmt.Sprintf("max(%.2f - %g, %g) = %.2f", net, power.FirstLevelPower, power.FirstLevelPower, d.MaxPower)},
		)
		split.Rows = []Row{
			{"first level", fmt.Sprintf("%.0f kW", first)},
			{"second level", fmt.Sprintf("%.0f kW", second)},
			{"check", fmt.Sprintf("%.0f + %.0f = %.0f kW", first, second, first+second)},
			{"total net power", fmt.Sprintf("%.0f kW", first+second)},
			{"selection power", fmt.Sprintf("%.2f kW", d.MaxPower)},
		}
	} else {
		selection.Rows = append(selection.Rows,
			Row{"rule", fmt.Sprintf("net power %.2fkW <= %gkW, single level design", net, power.DualLevelThreshold)},
			Row{"selection power", fmt.Sprintf("max_power = %.2f", d.MaxPower)},
		)
		split.Rows = []Row{
			{"single level", fmt.Sprintf("%.2f kW", total)},
			{"net power", fmt.Sprintf("%.2f kW", net)},
		}
	}
	selection.Rows = append(selection.Rows,
		Row{"unit", fmt.Sprintf("%.0f kW", d.UnitSelection.UnitSelection)},
		Row{"dimensions", d.UnitSelection.UnitDimensions.String()},
		Row{"weight", d.UnitSelection.UnitWeight},
	)

	return []Section{
		{Title: SectionMainEngine, Rows: []Row{
			{"input power", fmt.Sprintf("%.2f kW", me.InputPower)},
			{"main loss power", fmt.Sprintf("%.2f kW", me.MainLossPower)},
			{"main output power", fmt.Sprintf("%.2f kW", me.MainOutputPower)},
			{"total generation", fmt.Sprintf("%.2f kW", total)},
		}},
		{Title: SectionUtility, Rows: []Row{
			{"lubrication oil", fmt.Sprintf("%.2f L/min", u.LubricationOilAmount)},
			{"oil cooler water", fmt.Sprintf("%.2f m³/h", u.OilCoolerCirculationWater)},
			{"oil pump power", fmt.Sprintf("%.2f kW", u.OilPumpPower)},
			{"self consumption", fmt.Sprintf("%.2f kW", u.UtilitySelfConsumption)},
			{"net power", fmt.Sprintf("%.2f kW", net)},
		}},
		{Title: SectionEconomics, Rows: EconomicRows(e)},
		selection,
		split,
		{Title: SectionPayback, Rows: []Row{
			{"investment", fmt.Sprintf("%.1f 10⁴ yuan", d.InvestmentCost)},
			{"annual income", fmt.Sprintf("%.4f 10⁴ yuan", e.AnnualPowerIncome)},
			{"formula", fmt.Sprintf("ROUND(%.1f / %.4f, 1)", d.InvestmentCost, e.AnnualPowerIncome)},
			{"payback period", fmt.Sprintf("%.1f years", d.PaybackPeriod)},
		}},
	}
}

// EconomicRows formats the economic analysis.
func EconomicRows(e power.EconomicResult) []Row {
	return []Row{
		{"annual generation", fmt.Sprintf("%.4f 10⁴ kWh", e.AnnualPowerGeneration)},
		{"annual income", fmt.Sprintf("%.4f 10⁴ yuan", e.AnnualPowerIncome)},
		{"coal savings", fmt.Sprintf("%.4f t", e.AnnualCoalSavings)},
		{"coal cost savings", fmt.Sprintf("%.4f 10⁴ yuan", e.AnnualCoalCostSavings)},
		{"CO2 reduction", fmt.Sprintf("%.4f t", e.AnnualCO2Reduction)},
	}
}

// MaxDailyGas converts the hourly flow rate to the daily figure quoted in
// documents (m³/d).
func MaxDailyGas(flowRate float64) float64 {
	return math.Round(flowRate * 24)
}

package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// PlaceholderPrefix starts every token in the report template, where tokens
// are written in braces: {auto_aspen_5}.
const PlaceholderPrefix = "auto_aspen_"

// Placeholder returns the template token with index n.
func Placeholder(n int) string {
	return PlaceholderPrefix + strconv.Itoa(n)
}

// Placeholders maps the report template tokens to design values:
//
//	1-4    site conditions (daily gas, inlet pressure and temperature, outlet pressure)
//	5      net power
//	6-9    turbine heads, model, stages, exhaust temperature
//	10-12  model, dimensions, weight
//	13-16  annual generation, income, coal and CO2 savings
//	17-21  oil pump, oil heater, valve, generator heater and PLC power
//	22-25  cooling water, lube oil, nitrogen and compressed air flows
func Placeholders(in Input) map[string]string {
	d := in.Design
	p := in.Parameters
	u := d.Utility
	c := u.ComponentPowers

	levels := "1"
	if d.IsDualLevel {
		levels = "2"
	}
	exhaust := notAvailable
	if in.Simulation != nil {
		exhaust = optional(in.Simulation.OutletTemperature, "%.1f")
	}
	model := Model(d.UnitSelection.UnitSelection)

	values := []string{
		fmt.Sprintf("%.0f", MaxDailyGas(p.GasFlowRate)),
		num(p.InletPressure),
		num(p.InletTemperature),
		num(p.OutletPressure),
		fmt.Sprintf("%.0f", u.NetPowerOutput),
		levels,
		model,
		levels,
		exhaust,
		model,
		d.UnitSelection.UnitDimensions.String(),
		d.UnitSelection.UnitWeight,
		fmt.Sprintf("%.2f", d.Economics.AnnualPowerGeneration),
		fmt.Sprintf("%.2f", d.Economics.AnnualPowerIncome),
		fmt.Sprintf("%.1f", d.Economics.AnnualCoalSavings),
		fmt.Sprintf("%.1f", d.Economics.AnnualCO2Reduction),
		num(c.LubricationPump),
		num(c.LubricationHeater),
		num(c.Valve),
		num(c.GeneratorHeater),
		num(c.PLC),
		fmt.Sprintf("%.2f", u.OilCoolerCirculationWater),
		fmt.Sprintf("%.2f", u.LubricationOilAmount),
		num(u.AirDemandNm3PerH),
		num(u.AirDemandNm3),
	}

	tokens := make(map[string]string, len(values))
	for i, v := range values {
		tokens[Placeholder(i+1)] = v
	}
	return tokens
}

// SortedKeys orders tokens so that no key is replaced before a longer key it
// prefixes: auto_aspen_N by descending N, then every other key by descending
// length.
func SortedKeys(tokens map[string]string) []string {
	keys := make([]string, 0, len(tokens))
	for k := range tokens {
		keys = append(keys, k)
	}
	index := func(k string) int {
		n, err := strconv.Atoi(strings.TrimPrefix(k, PlaceholderPrefix))
		if err != nil || !strings.HasPrefix(k, PlaceholderPrefix) {
			return -1
		}
		return n
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := index(keys[i]), index(keys[j])
		if a != b {
			return a > b
		}
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}

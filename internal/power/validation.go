package power

import "fmt"

// Validation flags designs that complete but are not viable. A failed check
// never aborts the pipeline.
type Validation struct {
	NetPowerPositive  bool     `json:"net_power_positive"`
	IncomePositive    bool     `json:"income_positive"`
	EfficiencyInRange bool     `json:"efficiency_in_range"`
	SystemEfficiency  float64  `json:"system_efficiency"` // net / main power
	Passed            bool     `json:"passed"`
	Warnings          []string `json:"warnings,omitempty"`
}

// Validate checks a pipeline outcome for viability.
func Validate(mainPower, netPowerOutput, annualIncome float64) Validation {
	v := Validation{
		NetPowerPositive: netPowerOutput > 0,
		IncomePositive:   annualIncome > 0,
	}
	if mainPower > 0 {
		v.SystemEfficiency = netPowerOutput / mainPower
		v.EfficiencyInRange = v.SystemEfficiency > 0 && v.SystemEfficiency < 1
	}

	if !v.NetPowerPositive {
		v.Warnings = append(v.Warnings, fmt.Sprintf("net power output %.2f kW is not positive: auxiliary load exceeds generation", netPowerOutput))
	}
	if !v.IncomePositive {
		v.Warnings = append(v.Warnings, fmt.Sprintf("annual income %.2f is not positive", annualIncome))
	}
	if !v.EfficiencyInRange {
		v.Warnings = append(v.Warnings, fmt.Sprintf("system efficiency %.4f is outside (0, 1)", v.SystemEfficiency))
	}
	v.Passed = v.NetPowerPositive && v.IncomePositive && v.EfficiencyInRange
	return v
}

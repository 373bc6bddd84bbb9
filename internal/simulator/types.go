package simulator

import (
	"fmt"
	"time"
)

// GasComposition is the feed composition in mole percent.
type GasComposition struct {
	CH4   float64 `json:"CH4" validate:"gte=0,lte=100"`
	C2H6  float64 `json:"C2H6" validate:"gte=0,lte=100"`
	C3H8  float64 `json:"C3H8" validate:"gte=0,lte=100"`
	C4H10 float64 `json:"C4H10" validate:"gte=0,lte=100"`
	N2    float64 `json:"N2" validate:"gte=0,lte=100"`
	CO2   float64 `json:"CO2" validate:"gte=0,lte=100"`
	H2S   float64 `json:"H2S" validate:"gte=0,lte=100"`
}

// Total is the sum of all components.
func (g GasComposition) Total() float64 {
	return g.CH4 + g.C2H6 + g.C3H8 + g.C4H10 + g.N2 + g.CO2 + g.H2S
}

// Components returns the composition keyed by the component ids used in the
// simulator model, in a fixed order.
func (g GasComposition) Components() []Component {
	return []Component{
		{"CH4", g.CH4},
		{"C2H6", g.C2H6},
		{"C3H8", g.C3H8},
		{"C4H10", g.C4H10},
		{"N2", g.N2},
		{"CO2", g.CO2},
		{"H2S", g.H2S},
	}
}

type Component struct {
	ID      string
	Percent float64
}

// Parameters are the process conditions of one simulation.
type Parameters struct {
	GasFlowRate      float64        `json:"gas_flow_rate" validate:"gt=0"`            // Nm³/h
	InletPressure    float64        `json:"inlet_pressure" validate:"gt=0"`           // MPa(a)
	InletTemperature float64        `json:"inlet_temperature" validate:"gte=-273.15"` // °C
	OutletPressure   float64        `json:"outlet_pressure" validate:"gt=0"`          // MPa(a)
	Efficiency       float64        `json:"efficiency" validate:"gte=0,lte=100"`      // %
	GasComposition   GasComposition `json:"gas_composition"`
}

// DefaultParameters is a pure methane letdown from 0.8 to 0.3 MPa(a).
func DefaultParameters() Parameters {
	return Parameters{
		GasFlowRate:      33333.333333,
		InletPressure:    0.80,
		InletTemperature: 20,
		OutletPressure:   0.30,
		Efficiency:       85,
		GasComposition:   GasComposition{CH4: 100},
	}
}

// Check validates relations between fields that struct tags cannot express.
func (p Parameters) Check() error {
	if p.OutletPressure >= p.InletPressure {
		return fmt.Errorf("outlet pressure %.3f MPa must be below inlet pressure %.3f MPa", p.OutletPressure, p.InletPressure)
	}
	if total := p.GasComposition.Total(); total <= 0 {
		return fmt.Errorf("gas composition is empty")
	}
	return nil
}

// Result is the outcome of one simulation. Telemetry fields are nil when the
// model does not provide them.
type Result struct {
	Success     bool          `json:"success"`
	PowerOutput float64       `json:"power_output"` // kW, shaft power
	Message     string        `json:"message,omitempty"`
	Duration    time.Duration `json:"duration"`

	InletPressure     *float64 `json:"inlet_pressure,omitempty"`     // MPa(a)
	OutletPressure    *float64 `json:"outlet_pressure,omitempty"`    // MPa(a)
	OutletTemperature *float64 `json:"outlet_temperature,omitempty"` // °C
	PressureRatio     *float64 `json:"pressure_ratio,omitempty"`
	Efficiency        *float64 `json:"efficiency,omitempty"` // %
}

package service

import (
	"encoding/json"

	"github.com/littleRiceZhou/auto-aspen/internal/power"
	"github.com/littleRiceZhou/auto-aspen/internal/report"
	"github.com/littleRiceZhou/auto-aspen/internal/simulator"
)

// SimulationRequest carries the process conditions of one design request.
type SimulationRequest struct {
	simulator.Parameters
}

// DefaultSimulationRequest is the request used for fields the client omits.
func DefaultSimulationRequest() SimulationRequest {
	return SimulationRequest{Parameters: simulator.DefaultParameters()}
}

// PowerRequest asks for the sizing calculation alone.
type PowerRequest struct {
	MainPower float64 `json:"main_power" validate:"gt=0"` // kW
	// Parameters only feed the technical parameters of the selection.
	Parameters    *simulator.Parameters      `json:"parameters,omitempty"`
	MainEngine    *power.MainEngineParams    `json:"main_engine_params,omitempty"`
	Utility       *power.UtilityParams       `json:"utility_params,omitempty"`
	Economic      *power.EconomicParams      `json:"economic_params,omitempty"`
	UnitSelection *power.UnitSelectionParams `json:"unit_selection_params,omitempty"`
}

// UnmarshalJSON decodes each override block on top of its defaults, so a
// block only needs the fields it changes.
func (r *PowerRequest) UnmarshalJSON(data []byte) error {
	var blocks map[string]json.RawMessage
	if err := json.Unmarshal(data, &blocks); err != nil {
		return err
	}

	type plain PowerRequest
	req := plain{}
	if _, ok := blocks["parameters"]; ok {
		v := simulator.DefaultParameters()
		req.Parameters = &v
	}
	if _, ok := blocks["main_engine_params"]; ok {
		v := power.DefaultMainEngineParams(0)
		req.MainEngine = &v
	}
	if _, ok := blocks["utility_params"]; ok {
		v := power.DefaultUtilityParams()
		req.Utility = &v
	}
	if _, ok := blocks["economic_params"]; ok {
		v := power.DefaultEconomicParams()
		req.Economic = &v
	}
	if _, ok := blocks["unit_selection_params"]; ok {
		v := power.DefaultUnitSelectionParams()
		req.UnitSelection = &v
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return err
	}
	*r = PowerRequest(req)
	return nil
}

// PowerResults is the sizing outcome.
type PowerResults struct {
	Success    bool             `json:"success"`
	Selection  report.Selection `json:"selection_output"`
	Details    []report.Section `json:"calculation_details"`
	Validation power.Validation `json:"validation_results"`
	Design     *power.Result    `json:"design"`
}

// Overview summarises the state of a request.
type Overview struct {
	SimulationTime    string `json:"simulation_time"`
	SimulatorStatus   string `json:"simulator_status"`
	CalculationStatus string `json:"calculation_status"`
	OverallStatus     string `json:"overall_status"`
}

// CombinedResults gathers inputs, simulator output and the selection.
type CombinedResults struct {
	Overview   Overview             `json:"overview"`
	Inputs     simulator.Parameters `json:"inputs"`
	Simulation *simulator.Result    `json:"simulation_results"`
	Selection  report.Selection     `json:"selection"`
	Economics  []report.Row         `json:"economic_analysis"`
	Validation power.Validation     `json:"validation"`
}

// SimulationResponse is the outcome of a design request. Success is false
// when the simulator failed, in which case ErrorMessage is set.
type SimulationResponse struct {
	Success      bool    `json:"success"`
	Message      string  `json:"message"`
	ErrorMessage string  `json:"error_message,omitempty"`
	Duration     float64 `json:"duration_seconds"`

	SimulationResults *simulator.Result `json:"simulation_results,omitempty"`
	PowerResults      *PowerResults     `json:"power_results,omitempty"`
	CombinedResults   *CombinedResults  `json:"combined_results,omitempty"`

	DiagramURL  string `json:"diagram_url,omitempty"`
	DocumentURL string `json:"document_url,omitempty"`
	PDFURL      string `json:"pdf_url,omitempty"`
	WorkbookURL string `json:"workbook_url,omitempty"`

	Warnings []string `json:"warnings,omitempty"`
}

package power

import (
	"math"

	"go.uber.org/zap"
)

const (
	// DualLevelThreshold is the net output (kW) above which a second
	// expansion level is added.
	DualLevelThreshold = 1000.0
	// FirstLevelPower is the fixed rating (kW) of the first level in a dual
	// level design.
	FirstLevelPower = 1000.0
)

// LevelSplit describes how net output is divided between expansion levels.
type LevelSplit struct {
	IsDualLevel      bool
	FirstLevelPower  float64 // kW, zero for single level
	SecondLevelPower float64 // kW, zero for single level
	// MaxPower is the rating the unit is sized for.
	MaxPower float64
}

// SplitLevels decides between a single and a dual level design. A single
// level unit is sized on total generation; a dual level unit is sized on the
// larger of its two levels.
func SplitLevels(netPowerOutput, totalPowerGeneration float64) LevelSplit {
	if netPowerOutput <= DualLevelThreshold {
		return LevelSplit{MaxPower: totalPowerGeneration}
	}
	second := netPowerOutput - FirstLevelPower
	return LevelSplit{
		IsDualLevel:      true,
		FirstLevelPower:  FirstLevelPower,
		SecondLevelPower: second,
		MaxPower:         math.Max(second, FirstLevelPower),
	}
}

// Result is the outcome of one pipeline run.
type Result struct {
	MainEngine    MainEngineResult    `json:"main_engine"`
	Utility       UtilityResult       `json:"utility_power"`
	Economics     EconomicResult      `json:"economic_analysis"`
	UnitSelection UnitSelectionResult `json:"unit_selection"`

	IsDualLevel      bool     `json:"is_dual_level"`
	FirstLevelPower  *float64 `json:"first_level_power"`
	SecondLevelPower *float64 `json:"second_level_power"`
	MaxPower         float64  `json:"max_power"`

	InvestmentCost float64 `json:"investment_cost"`
	PaybackPeriod  float64 `json:"payback_period"` // years, one decimal

	Validation Validation `json:"validation"`
}

// Pipeline runs the four calculation stages in order. It holds no per-run
// state and is safe for concurrent use.
type Pipeline struct {
	engine        MainEngineParams
	utility       UtilityParams
	economic      EconomicParams
	unitSelection UnitSelectionParams
	logger        *zap.SugaredLogger
}

type Option func(p *Pipeline)

// WithMainEngineParams sets the loss chain; MainPower is ignored.
func WithMainEngineParams(params MainEngineParams) Option {
	return func(p *Pipeline) { p.engine = params }
}

func WithUtilityParams(params UtilityParams) Option {
	return func(p *Pipeline) { p.utility = params }
}

func WithEconomicParams(params EconomicParams) Option {
	return func(p *Pipeline) { p.economic = params }
}

func WithUnitSelectionParams(params UnitSelectionParams) Option {
	return func(p *Pipeline) { p.unitSelection = params }
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// NewPipeline creates a pipeline with the standard parameters unless
// overridden by opts.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		engine:        DefaultMainEngineParams(0),
		utility:       DefaultUtilityParams(),
		economic:      DefaultEconomicParams(),
		unitSelection: DefaultUnitSelectionParams(),
		logger:        zap.S().Named("power"),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Run computes the full design for an expander shaft power of mainPower kW.
func (p *Pipeline) Run(mainPower float64) *Result {
	me := CalculateMainEngine(p.engine.WithMainPower(mainPower))
	p.logger.Debugw("main engine calculated", "main_power", mainPower, "total_power_generation", me.TotalPowerGeneration)

	ut := CalculateUtility(me, p.utility)
	p.logger.Debugw("utility calculated", "oil_pump_power", ut.OilPumpPower, "net_power_output", ut.NetPowerOutput)

	eco := CalculateEconomics(ut.NetPowerOutput, p.economic)
	p.logger.Debugw("economics calculated", "annual_power_income", eco.AnnualPowerIncome)

	sel := CalculateUnitSelection(me.TotalPowerGeneration, p.unitSelection)
	p.logger.Debugw("unit selected", "unit_selection", sel.UnitSelection, "dimensions", sel.UnitDimensions.String())

	result := &Result{
		MainEngine:    me,
		Utility:       ut,
		Economics:     eco,
		UnitSelection: sel,
	}

	split := SplitLevels(ut.NetPowerOutput, me.TotalPowerGeneration)
	result.IsDualLevel = split.IsDualLevel
	result.MaxPower = split.MaxPower
	if split.IsDualLevel {
		first, second := split.FirstLevelPower, split.SecondLevelPower
		result.FirstLevelPower = &first
		result.SecondLevelPower = &second

		reselected := p.reselectUnit(split.MaxPower)
		result.UnitSelection.UnitDimensions = reselected.UnitDimensions
		result.UnitSelection.UnitWeight = reselected.UnitWeight
		result.UnitSelection.UnitSelection = split.MaxPower
		p.logger.Debugw("dual level design", "second_level_power", second, "max_power", split.MaxPower)
	}

	result.InvestmentCost = math.Trunc(result.UnitSelection.UnitSelection) * 1.0
	result.PaybackPeriod = PaybackPeriod(result.InvestmentCost, eco.AnnualPowerIncome)
	result.Validation = Validate(mainPower, ut.NetPowerOutput, eco.AnnualPowerIncome)

	return result
}

// reselectUnit sizes a unit for a synthetic shaft power. Economics are not
// recomputed.
func (p *Pipeline) reselectUnit(power float64) UnitSelectionResult {
	me := CalculateMainEngine(p.engine.WithMainPower(power))
	ut := CalculateUtility(me, p.utility)
	p.logger.Debugw("reselecting unit", "power", power, "net_power_output", ut.NetPowerOutput)
	return CalculateUnitSelection(me.TotalPowerGeneration, p.unitSelection)
}

// PaybackPeriod returns investment/income in years rounded to one decimal,
// or 0 when there is no income.
func PaybackPeriod(investment, annualIncome float64) float64 {
	if annualIncome <= 0 {
		return 0
	}
	return RoundHalfEven(investment/annualIncome, 1)
}

package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "auto_aspen"

	simulationsTotal          = "simulations_total"
	simulationDurationSeconds = "simulation_duration_seconds"
	designsTotal              = "designs_total"
	netPowerKilowatts         = "net_power_kilowatts"

	statusLabel = "status"
	levelLabel  = "level"
)

const (
	StatusSuccess  = "success"
	StatusFailed   = "failed"
	StatusFallback = "fallback"

	LevelSingle = "single"
	LevelDual   = "dual"
)

var simulationsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      simulationsTotal,
		Help:      "Simulator runs partitioned by outcome.",
	},
	[]string{statusLabel},
)

var simulationDurationMetric = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      simulationDurationSeconds,
		Help:      "Wall time of simulator runs, including waiting for exclusive access.",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300},
	},
)

var designsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      designsTotal,
		Help:      "Pipeline runs partitioned by expansion level design.",
	},
	[]string{levelLabel},
)

var netPowerMetric = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      netPowerKilowatts,
		Help:      "Net power output of computed designs.",
		Buckets:   []float64{0, 50, 100, 250, 500, 1000, 2000, 4000},
	},
)

func init() {
	prometheus.MustRegister(simulationsTotalMetric, simulationDurationMetric, designsTotalMetric, netPowerMetric)
}

func IncreaseSimulationsTotal(status string) {
	simulationsTotalMetric.With(prometheus.Labels{statusLabel: status}).Inc()
}

func ObserveSimulationDuration(seconds float64) {
	simulationDurationMetric.Observe(seconds)
}

// ObserveDesign records one pipeline outcome.
func ObserveDesign(dualLevel bool, netPower float64) {
	level := LevelSingle
	if dualLevel {
		level = LevelDual
	}
	designsTotalMetric.With(prometheus.Labels{levelLabel: level}).Inc()
	netPowerMetric.Observe(netPower)
}

// register registers c with the default registry and returns the collector
// actually registered, so several servers in one process share collectors.
func register[T prometheus.Collector](c T) T {
	if err := prometheus.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/littleRiceZhou/auto-aspen/internal/config"
	"github.com/littleRiceZhou/auto-aspen/internal/log"
	"github.com/littleRiceZhou/auto-aspen/internal/power"
	"github.com/littleRiceZhou/auto-aspen/internal/report"
	"github.com/littleRiceZhou/auto-aspen/internal/simulator"
	"github.com/spf13/cobra"
)

var (
	simulateParams    = simulator.DefaultParameters()
	simulateModel     string
	simulateVisible   bool
	simulateLogLevel  string
	simulateArtifacts artifactFlags
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the Aspen expander model and size the unit",
	Long: `Load the Aspen Plus model, set the feed conditions, run it and read the
expander brake power, then size the generator unit from that power.

Pressures are absolute in MPa; the gas composition is in mole percent.
Requires Windows with Aspen Plus installed. When the model solves but
reports no power, a flow x pressure drop estimate is used instead.

Examples:
  auto-aspen simulate
  auto-aspen simulate --flow 50000 --inlet-pressure 1.6 --outlet-pressure 0.4
  auto-aspen simulate --model C:\models\RE-Expander.apwz --ch4 95 --c2h6 5 --diagram`,
	Run: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	f := simulateCmd.Flags()
	f.Float64Var(&simulateParams.GasFlowRate, "flow", simulateParams.GasFlowRate, "Gas flow rate (Nm³/h)")
	f.Float64Var(&simulateParams.InletPressure, "inlet-pressure", simulateParams.InletPressure, "Inlet pressure (MPaA)")
	f.Float64Var(&simulateParams.InletTemperature, "inlet-temperature", simulateParams.InletTemperature, "Inlet temperature (°C)")
	f.Float64Var(&simulateParams.OutletPressure, "outlet-pressure", simulateParams.OutletPressure, "Outlet pressure (MPaA)")
	f.Float64Var(&simulateParams.Efficiency, "efficiency", simulateParams.Efficiency, "Isentropic efficiency (%)")

	g := &simulateParams.GasComposition
	f.Float64Var(&g.CH4, "ch4", g.CH4, "Methane (mol%)")
	f.Float64Var(&g.C2H6, "c2h6", g.C2H6, "Ethane (mol%)")
	f.Float64Var(&g.C3H8, "c3h8", g.C3H8, "Propane (mol%)")
	f.Float64Var(&g.C4H10, "c4h10", g.C4H10, "Butane (mol%)")
	f.Float64Var(&g.N2, "n2", g.N2, "Nitrogen (mol%)")
	f.Float64Var(&g.CO2, "co2", g.CO2, "Carbon dioxide (mol%)")
	f.Float64Var(&g.H2S, "h2s", g.H2S, "Hydrogen sulfide (mol%)")

	f.StringVar(&simulateModel, "model", "", "Aspen model (.apwz), defaults to ASPEN_APWZ_FILE_PATH")
	f.BoolVar(&simulateVisible, "visible", false, "Show the Aspen Plus window")
	f.StringVar(&simulateLogLevel, "log-level", "warn", "Log level")

	simulateArtifacts.register(simulateCmd)
}

func newSession(cfg *config.Config) *simulator.Session {
	sc := simulator.DefaultConfig(cfg.Simulator.ModelPath)
	sc.Paths = simulator.NodePaths{FeedStream: cfg.Simulator.FeedStream, ExpanderBlock: cfg.Simulator.ExpanderBlock}
	sc.Timeout = cfg.Simulator.Timeout
	sc.AcquireTimeout = cfg.Simulator.AcquireTimeout
	sc.MaxFailures = cfg.Simulator.BreakerMaxFailures
	sc.ResetTimeout = cfg.Simulator.BreakerResetTimeout
	return simulator.NewSession(sc, simulator.NewAspenFactory(cfg.Simulator.ProgIDs, cfg.Simulator.Visible))
}

func runSimulate(cmd *cobra.Command, args []string) {
	_, undo, err := log.Setup(simulateLogLevel)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer undo()

	cfg, err := config.New()
	if err != nil {
		fmt.Printf("Error reading configuration: %v\n", err)
		return
	}
	if simulateModel != "" {
		cfg.Simulator.ModelPath = simulateModel
	}
	if simulateVisible {
		cfg.Simulator.Visible = true
	}

	if err := simulateParams.Check(); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	printHeading(os.Stdout, "ASPEN EXPANDER SIMULATION")
	fmt.Println()
	fmt.Println("FEED CONDITIONS:")
	fmt.Println(rule)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Model:\t%s\n", cfg.Simulator.ModelPath)
	fmt.Fprintf(w, "  Flow rate:\t%g Nm³/h\n", simulateParams.GasFlowRate)
	fmt.Fprintf(w, "  Pressure in/out:\t%g / %g MPaA\n", simulateParams.InletPressure, simulateParams.OutletPressure)
	fmt.Fprintf(w, "  Inlet temperature:\t%g °C\n", simulateParams.InletTemperature)
	fmt.Fprintf(w, "  Efficiency:\t%g %%\n", simulateParams.Efficiency)
	for _, c := range simulateParams.GasComposition.Components() {
		if c.Percent > 0 {
			fmt.Fprintf(w, "  %s:\t%g mol%%\n", c.ID, c.Percent)
		}
	}
	w.Flush()

	result, err := newSession(cfg).Run(cmd.Context(), simulateParams)
	if err != nil {
		fmt.Println()
		fmt.Printf("  Simulation failed: %v\n", err)
		fmt.Println()
		return
	}

	fmt.Println()
	fmt.Println("SIMULATION RESULT:")
	fmt.Println(rule)
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Brake power:\t%.2f kW\n", result.PowerOutput)
	printOptional(w, "Outlet pressure", result.OutletPressure, "MPaA")
	printOptional(w, "Outlet temperature", result.OutletTemperature, "°C")
	printOptional(w, "Pressure ratio", result.PressureRatio, "")
	printOptional(w, "Efficiency", result.Efficiency, "%")
	fmt.Fprintf(w, "  Duration:\t%s\n", result.Duration)
	w.Flush()

	mainPower := result.PowerOutput
	if mainPower <= 0 {
		mainPower = simulator.EstimatePower(simulateParams)
		fmt.Println()
		fmt.Printf("  ⚠ %s; using estimated %.2f kW\n", result.Message, mainPower)
	}

	in := report.Input{
		Parameters: simulateParams,
		Simulation: result,
		Design:     power.NewPipeline().Run(mainPower),
	}
	printDesign(os.Stdout, in)
	writeArtifacts(cmd, in, simulateArtifacts)
}

func printOptional(w *tabwriter.Writer, label string, v *float64, unit string) {
	if v == nil {
		return
	}
	fmt.Fprintf(w, "  %s:\t%.3f %s\n", label, *v, unit)
}

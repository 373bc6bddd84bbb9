package cmd

import (
	"fmt"
	"os"

	"github.com/littleRiceZhou/auto-aspen/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "auto-aspen",
	Short: "Turboexpander power generation sizing tool",
	Long: `auto-aspen - pressure energy generator set sizing

Drives an Aspen Plus expander model to obtain the shaft power of a
natural gas letdown station, then sizes the generator unit:

  - Main engine loss chain and total generation
  - Lubrication, cooling water and auxiliary self-consumption
  - Annual generation, income, coal and CO2 savings
  - Unit selection, single or dual level, and payback period

Results are delivered as a layout drawing, a Word report and an Excel
workbook, from the command line or over HTTP.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println()
		fmt.Println("  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Println("  ║                                                           ║")
		fmt.Printf("  ║   auto-aspen v%-44s║\n", version.Version)
		fmt.Println("  ║   Pressure Energy Generator Set Sizing                    ║")
		fmt.Printf("  ║   %-56s║\n", version.Author+" ©  "+version.Year)
		fmt.Println("  ║                                                           ║")
		fmt.Println("  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Println()
		fmt.Println("  Sizes turboexpander generator units for natural gas")
		fmt.Println("  pressure letdown stations.")
		fmt.Println()
		fmt.Println("  Commands:")
		fmt.Println("    • calc      size a unit from a known shaft power")
		fmt.Println("    • simulate  run the Aspen model and size the unit")
		fmt.Println("    • serve     start the HTTP API")
		fmt.Println()
		fmt.Println("  Use 'auto-aspen --help' to see available commands.")
		fmt.Println()
		fmt.Println("  ─────────────────────────────────────────────────────────────")
		fmt.Printf("  Copyright © %s %s. All rights reserved.\n", version.Year, version.Author)
		fmt.Println()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

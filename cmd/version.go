package cmd

import (
	"fmt"

	"github.com/littleRiceZhou/auto-aspen/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of auto-aspen",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("auto-aspen v%s\n", version.Version)
		fmt.Println("Turboexpander Power Generation Sizing Tool")
		fmt.Printf("Built %s from commit %s\n", version.BuildTime, version.GitCommit)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

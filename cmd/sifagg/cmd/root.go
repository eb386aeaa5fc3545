package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sifagg",
	Short: "Run aggregate functions over JSON lines",
	Long: `Aggregate a column of JSON lines data with one of the built-in aggregate functions,
in parallel partitions whose partial states are merged by a single combiner.`,
	SilenceUsage: true,
}

var configFile string

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./sifagg.yaml)")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(functionsCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

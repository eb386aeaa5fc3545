package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-sif/aggregate/internal/config"
	"github.com/go-sif/aggregate/internal/input"
	"github.com/go-sif/aggregate/internal/runner"
	"github.com/go-sif/aggregate/logging"
	"github.com/go-sif/aggregate/partial"
)

var runFlags struct {
	function    string
	columns     []string
	params      []float64
	input       string
	partitions  int
	compression string
	logLevel    string
	logFile     string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Aggregate columns of a JSON lines file",
	Example: `  sifagg run -f avg -c price:Float64 -i orders.jsonl
  sifagg run -f quantile -p 0.99 -c latency:Nullable(Float64) --partitions 8 --compression zstd
  sifagg run -f "composed(count, uniq)" -c user.id:String`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("partitions") {
			cfg.Partitions = runFlags.partitions
		}
		if flags.Changed("compression") {
			cfg.Compression = runFlags.compression
		}
		if flags.Changed("log-level") {
			cfg.Log.Level = runFlags.logLevel
		}
		if flags.Changed("log-file") {
			cfg.Log.File = runFlags.logFile
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger, closer, err := logging.New(cfg.LogLevel(), cfg.Log.File)
		if err != nil {
			return err
		}
		defer closer.Close()

		factory, params, err := lookup(runFlags.function)
		if err != nil {
			return err
		}
		cols, err := input.ParseColumns(runFlags.columns)
		if err != nil {
			return err
		}
		if len(runFlags.params) > 0 {
			if params != nil {
				return fmt.Errorf("parameters of %s are given both inline and with --param", runFlags.function)
			}
			if params, err = paramsRow(runFlags.params); err != nil {
				return err
			}
		}

		var src io.Reader = cmd.InOrStdin()
		if runFlags.input != "" && runFlags.input != "-" {
			f, err := os.Open(runFlags.input)
			if err != nil {
				return err
			}
			defer f.Close()
			src = f
		}

		logger.Debug("Starting aggregation",
			slog.String("function", runFlags.function),
			slog.Int("partitions", cfg.Partitions),
			slog.String("compression", cfg.Compression))
		res, err := runner.Run(cmd.Context(), input.NewReader(src, cols, 0), runner.Options{
			Template:    factory(),
			Args:        input.Types(cols),
			Params:      params,
			Partitions:  cfg.Partitions,
			Compression: cfg.CompressionAlgorithm(),
			Logger:      logger,
		})
		if err != nil {
			logger.Error("Aggregation failed", slog.Any("error", err))
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", res.Function, res.ReturnType.Name(), res.ReturnType.ToString(res.Value))
		return nil
	},
}

func init() {
	flags := runCmd.Flags()
	flags.StringVarP(&runFlags.function, "function", "f", "", "aggregate function, e.g. sum or composed(count, avg)")
	flags.StringArrayVarP(&runFlags.columns, "column", "c", nil, "argument column as path:Type, repeatable")
	flags.Float64SliceVarP(&runFlags.params, "param", "p", nil, "parameters of a parametric function")
	flags.StringVarP(&runFlags.input, "input", "i", "-", "JSON lines file, or - for stdin")
	flags.IntVar(&runFlags.partitions, "partitions", 0, "number of parallel partitions (overrides config)")
	flags.StringVar(&runFlags.compression, "compression", partial.None.String(), "envelope compression: none, lz4 or zstd (overrides config)")
	flags.StringVar(&runFlags.logLevel, "log-level", "", "log level (overrides config)")
	flags.StringVar(&runFlags.logFile, "log-file", "", "also write JSON logs to this file (overrides config)")
	_ = runCmd.MarkFlagRequired("function")
}

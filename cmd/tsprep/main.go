// Command tsprep prepares forecasting datasets: it windows raw series,
// splits and standardizes them, writes .npz archives and normalizes sensor
// graphs.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sartorproj/tsprep/config"
)

var (
	// Global flags
	cfgFile string
	dataDir string
	verbose bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tsprep",
	Short: "tsprep prepares time series datasets for forecasting models",
	Long: `tsprep turns raw multivariate series into training-ready splits.

Offline mode slides history/forecast windows over the whole series, splits
them 60/20/20 and standardizes everything with training statistics. Online
mode splits the series first and pairs each step with the step history_len
later, for models that learn one step at a time.

Archives are written next to the raw data as <pred_len>_data.npz or
<pred_len>_online_data.npz and can be published to S3.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		if dataDir != "" {
			cfg.DataDir = dataDir
		}

		logger, err = buildLogger(cfg.Logging, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func buildLogger(c config.LoggingConfig, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if c.Development {
		zc = zap.NewDevelopmentConfig()
	}
	if c.Level != "" {
		level, err := zap.ParseAtomicLevel(c.Level)
		if err != nil {
			return nil, err
		}
		zc.Level = level
	}
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zc.Build()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "tsprep.yaml", "Config file")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "", "Data directory (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	loadCmd.Flags().StringVar(&loadMode, "mode", config.ModeOffline, "Archive to load: offline, online or online_train")
	adjCmd.Flags().StringVarP(&adjType, "type", "t", "", "Normalization (default: adjacency.type from config)")
	adjCmd.Flags().StringVarP(&adjOut, "out", "o", "", "Output directory (default: next to the input)")
	describeCmd.Flags().IntVar(&describeLag, "lag", 0, "Autocorrelation lag (default: history_len)")

	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(prepareCmd, onlineCmd, loadCmd, adjCmd, describeCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sartorproj/tsprep/dataset"
	"github.com/sartorproj/tsprep/stats"
)

var describeLag int

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Print per-variable statistics of the configured dataset",
	RunE:  runDescribe,
}

func runDescribe(cmd *cobra.Command, args []string) error {
	p, err := dataset.Read(cfg)
	if err != nil {
		return err
	}
	lag := describeLag
	if lag <= 0 {
		lag = cfg.HistoryLen
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s: %d steps, %d variables, %.2f%% zeros\n", cfg.Dataset, p.Len(), p.Width(), 100*p.ZeroRatio())
	if sc, err := stats.FitPanel(p); err == nil {
		fmt.Fprintf(w, "overall: mean %.4f, std %.4f\n", sc.Mean, sc.Std)
	} else {
		logger.Debug("No overall scaler", zap.Error(err))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "NAME\tMEAN\tSTD\tMIN\tMAX\tZEROS\tACF(%d)\tSTATIONARY\n", lag)
	for _, s := range stats.Describe(p, lag) {
		stationary := "-"
		if s.KPSS != nil {
			stationary = fmt.Sprintf("%v (p=%.2f)", s.KPSS.IsStationary, s.KPSS.PValue)
		}
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%.4f\t%.2f%%\t%.3f\t%s\n",
			s.Name, s.Mean, s.Std, s.Min, s.Max, 100*s.ZeroRatio, s.ACF, stationary)
	}
	return w.Flush()
}

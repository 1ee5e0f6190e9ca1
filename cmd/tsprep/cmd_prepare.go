package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sartorproj/tsprep/artifact"
	"github.com/sartorproj/tsprep/config"
	"github.com/sartorproj/tsprep/dataset"
)

var loadMode string

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Window, split and standardize a dataset for offline training",
	Long: `Builds every history/forecast window of the series, splits the windows
into train, validation and test sets and writes <pred_len>_data.npz.

Example:
  tsprep prepare -d ./data --config etth1.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd, config.ModeOffline)
	},
}

var onlineCmd = &cobra.Command{
	Use:   "online",
	Short: "Split a dataset by time and build one-step pairs for online training",
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := cfg.Mode
		if mode == config.ModeOffline {
			mode = config.ModeOnline
		}
		return runPipeline(cmd, mode)
	},
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Rebuild loaders from a previously written archive",
	RunE:  runLoad,
}

func runPipeline(cmd *cobra.Command, mode string) error {
	ctx, cancel := signalContext()
	defer cancel()

	cfg.Mode = mode
	p, err := newPipeline(ctx, mode)
	if err != nil {
		return err
	}

	out, err := p.Run(ctx)
	if err != nil {
		return err
	}
	printLoaders(cmd.OutOrStdout(), out)
	fmt.Fprintf(cmd.OutOrStdout(), "archive:  %s\n", out.Manifest.Archive)
	fmt.Fprintf(cmd.OutOrStdout(), "run id:   %s\n", out.Manifest.RunID)
	return nil
}

func runLoad(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	p, err := newPipeline(ctx, loadMode)
	if err != nil {
		return err
	}
	out, err := p.FromArchive(ctx, loadMode)
	if err != nil {
		return err
	}
	printLoaders(cmd.OutOrStdout(), out)
	return nil
}

func newPipeline(ctx context.Context, mode string) (*dataset.Pipeline, error) {
	opts := []dataset.Option{dataset.WithLogger(logger)}

	if s3cfg := cfg.Artifacts.S3; s3cfg.Bucket != "" {
		pub, err := artifact.NewS3(ctx, artifact.S3Config{
			Bucket:          s3cfg.Bucket,
			Prefix:          s3cfg.Prefix,
			Region:          s3cfg.Region,
			Endpoint:        s3cfg.Endpoint,
			AccessKeyID:     s3cfg.AccessKeyID,
			SecretAccessKey: s3cfg.SecretAccessKey,
		}, map[string]string{"dataset": cfg.Dataset, "mode": mode})
		if err != nil {
			return nil, err
		}
		logger.Info("Publishing to S3", zap.String("bucket", s3cfg.Bucket), zap.String("prefix", s3cfg.Prefix))
		opts = append(opts, dataset.WithPublisher(pub))
	}

	return dataset.New(cfg, opts...)
}

func printLoaders(w io.Writer, out *dataset.Loaders) {
	fmt.Fprintf(w, "scaler:   mean=%.6f std=%.6f\n", out.Scaler.Mean, out.Scaler.Std)
	fmt.Fprintf(w, "train:    %d samples, %d batches\n", out.Train.Dataset().Len(), out.Train.Len())
	fmt.Fprintf(w, "val:      %d samples, %d batches\n", out.Val.Dataset().Len(), out.Val.Len())
	if out.Test != nil {
		fmt.Fprintf(w, "test:     %d samples, %d batches\n", out.Test.Dataset().Len(), out.Test.Len())
	}
	if len(out.Supports) > 0 {
		fmt.Fprintf(w, "supports: %d\n", len(out.Supports))
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Info("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}

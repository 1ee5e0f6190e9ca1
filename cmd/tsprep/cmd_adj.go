package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sartorproj/tsprep/graph"
)

var (
	adjType string
	adjOut  string
)

var adjCmd = &cobra.Command{
	Use:   "adj [adjacency file]",
	Short: "Normalize a sensor adjacency matrix into graph supports",
	Long: `Loads an adjacency matrix (.pkl, .npy, .csv) and writes one
adj_<type>_<i>.npy file per support.

Types: scalap, normlap, symnadj, transition, doubletransition, identity, original

Example:
  tsprep adj data/METR-LA/adj_mx.pkl --type doubletransition`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAdj,
}

func runAdj(cmd *cobra.Command, args []string) error {
	path := cfg.Adjacency.Path
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return fmt.Errorf("no adjacency file given and adjacency.path is not set")
	}
	typ := adjType
	if typ == "" {
		typ = cfg.Adjacency.Type
	}
	kind, err := graph.ParseKind(typ)
	if err != nil {
		return err
	}

	supports, raw, err := graph.Load(path, kind)
	if err != nil {
		return err
	}
	n, _ := raw.Dims()
	logger.Info("Adjacency loaded", zap.String("path", path), zap.Int("nodes", n))

	out := adjOut
	if out == "" {
		out = filepath.Dir(path)
	}
	for i, s := range supports {
		dst := filepath.Join(out, fmt.Sprintf("adj_%s_%d.npy", kind, i))
		if err := graph.Save(dst, s); err != nil {
			return err
		}
		r, c := s.Dims()
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %dx%d\n", dst, r, c)
	}
	return nil
}

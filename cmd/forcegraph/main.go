package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/forcegraph/internal/viz"
)

var (
	dataDir string
	verbose bool

	configFile string
	preset     string

	kind      string
	nodes     int
	degree    int
	spread    float64
	seed      int64
	steps     int
	untilStab bool

	theta     float64
	charge    float64
	damping   float64
	stiffness float64
	length    float64
	workers   int
	solver    string
	audit     bool

	metricsAddr string
	format      string
	outFile     string
	benchSizes  []int
	benchSteps  int
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "forcegraph",
		Short:        "3d force-directed graph layout",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunMenu(loggerFromContext(cmd.Context()))
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".forcegraph", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "lay out a generated graph and store the run",
		Args:  cobra.NoArgs,
		RunE:  runLayout,
	}
	addLayoutFlags(runCmd)
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address while running")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energy and octree size of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export the final layout of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&format, "format", "json", "output format (json, csv, svg)")
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "compare barnes-hut and pairwise step times",
		Args:  cobra.NoArgs,
		RunE:  benchLayout,
	}
	benchCmd.Flags().IntSliceVar(&benchSizes, "sizes", []int{100, 500, 2000}, "graph sizes")
	benchCmd.Flags().IntVar(&benchSteps, "steps", 20, "steps per measurement")
	benchCmd.Flags().IntVar(&workers, "workers", 1, "parallel traversal workers")
	benchCmd.Flags().Float64Var(&theta, "theta", 1.2, "barnes-hut opening threshold")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "watch a layout settle in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addLayoutFlags(liveCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, benchCmd, liveCmd, presetsCmd)
	return rootCmd
}

func addLayoutFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "preset as kind/name")

	f.StringVar(&kind, "kind", "random", "graph generator")
	f.IntVar(&nodes, "nodes", 200, "number of nodes")
	f.IntVar(&degree, "degree", 2, "mean degree (random) or branching factor (tree)")
	f.Float64Var(&spread, "spread", 100, "half-width of the initial cube")
	f.Int64Var(&seed, "seed", 42, "random seed")
	f.IntVar(&steps, "steps", 300, "maximum steps")
	f.BoolVar(&untilStab, "until-stable", true, "stop once kinetic energy drops below the threshold")

	f.Float64Var(&theta, "theta", 1.2, "barnes-hut opening threshold")
	f.Float64Var(&charge, "charge", -1200, "repulsion charge")
	f.Float64Var(&damping, "damping", 0.9, "velocity damping")
	f.Float64Var(&stiffness, "stiffness", 0.008, "spring stiffness")
	f.Float64Var(&length, "length", 30, "spring rest length")
	f.IntVar(&workers, "workers", 1, "parallel traversal workers")
	f.StringVar(&solver, "solver", "barnes-hut", "repulsion solver (barnes-hut, pairwise)")
	f.BoolVar(&audit, "audit", false, "recompute octree aggregates every step and report drift")
}

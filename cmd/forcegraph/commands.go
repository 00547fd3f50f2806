package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/forcegraph/internal/config"
	"github.com/san-kum/forcegraph/internal/graph"
	"github.com/san-kum/forcegraph/internal/layout"
	"github.com/san-kum/forcegraph/internal/metrics"
	"github.com/san-kum/forcegraph/internal/storage"
	"github.com/san-kum/forcegraph/internal/viz"
)

// resolveConfig layers defaults, then the preset, then the config file,
// then any flag set explicitly on the command line.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		k, name, _ := strings.Cut(preset, "/")
		p := config.GetPreset(k, name)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available for %s: %v)", preset, k, config.ListPresets(k))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	fl := cmd.Flags()
	if fl.Changed("kind") {
		cfg.Graph.Kind = kind
	}
	if fl.Changed("nodes") {
		cfg.Graph.Nodes = nodes
	}
	if fl.Changed("degree") {
		cfg.Graph.Degree = degree
	}
	if fl.Changed("spread") {
		cfg.Graph.Spread = spread
	}
	if fl.Changed("seed") {
		cfg.Graph.Seed = seed
	}
	if fl.Changed("steps") {
		cfg.Run.Steps = steps
	}
	if fl.Changed("until-stable") {
		cfg.Run.StopWhenStable = untilStab
	}
	if fl.Changed("theta") {
		cfg.Params.Theta = theta
	}
	if fl.Changed("charge") {
		cfg.Params.Charge = charge
	}
	if fl.Changed("damping") {
		cfg.Params.Damping = damping
	}
	if fl.Changed("stiffness") {
		cfg.Params.EdgeStiffness = stiffness
	}
	if fl.Changed("length") {
		cfg.Params.EdgeLength = length
	}
	if fl.Changed("workers") {
		cfg.Params.Workers = workers
	}
	if fl.Changed("solver") {
		cfg.Params.Solver = layout.Solver(solver)
	}
	if fl.Changed("audit") {
		cfg.Params.AuditTree = audit
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildLayout(cmd *cobra.Command, cfg *config.Config) (*graph.Graph, *layout.Engine, error) {
	logger := loggerFromContext(cmd.Context())

	g, err := graph.NewRegistry().Generate(cfg.Graph)
	if err != nil {
		return nil, nil, err
	}
	e, err := layout.New(cfg.Params, layout.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("generated graph", "kind", cfg.Graph.Kind, "nodes", g.Len(), "edges", g.EdgeCount(), "seed", cfg.Graph.Seed)
	return g, e, nil
}

func runLayout(cmd *cobra.Command, args []string) error {
	logger := loggerFromContext(cmd.Context())

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	g, e, err := buildLayout(cmd, cfg)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	observers := make([]layout.Observer, 0, 6)
	for _, m := range metrics.Default() {
		observers = append(observers, m)
	}
	if metricsAddr != "" {
		exp := metrics.NewExporter()
		observers = append(observers, exp)
		srv := &http.Server{Addr: metricsAddr, Handler: exp.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "addr", metricsAddr, "err", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		logger.Info("serving metrics", "addr", metricsAddr)
	}

	logger.Info("running layout", "kind", cfg.Graph.Kind, "nodes", g.Len(), "edges", g.EdgeCount(), "solver", cfg.Params.Solver)
	prog := newProgress(logger)

	result, err := layout.Run(ctx, e, g, cfg.Run, observers...)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if err != nil {
		logger.Warn("interrupted, saving partial run", "steps", result.StepsTaken)
	}
	prog.done("layout finished", "steps", result.StepsTaken, "converged", result.Converged)

	runID, err := st.Save(cfg.Graph, cfg.Params, result, g)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run id: %s\n", runID)
	fmt.Fprintf(out, "steps: %d\n", result.StepsTaken)
	fmt.Fprintf(out, "converged: %t\n", result.Converged)
	fmt.Fprintf(out, "final energy: %.6f\n", result.Final.TotalKineticEnergy)
	fmt.Fprintln(out, "\nmetrics:")
	for _, m := range metrics.Default() {
		fmt.Fprintf(out, "  %s: %.6f\n", m.Name(), result.Metrics[m.Name()])
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tNODES\tTIME\tSTEPS\tENERGY\tSTABLE\tSOLVER")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%d\t%.4f\t%t\t%s\n",
			run.ID,
			run.Graph.Kind,
			run.Graph.Nodes,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Energy,
			run.Converged,
			run.Params.Solver,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	stats, err := st.LoadStats(runID)
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		return fmt.Errorf("no data to plot")
	}

	energy := make([]float64, len(stats))
	treeNodes := make([]float64, len(stats))
	for i, s := range stats {
		energy[i] = s.TotalKineticEnergy
		treeNodes[i] = float64(s.TreeNodes)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "graph: %s, %d nodes\n", meta.Graph.Kind, meta.Graph.Nodes)
	fmt.Fprintf(out, "steps: %d\n\n", len(stats))

	fmt.Fprintln(out, asciigraph.Plot(energy,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("kinetic energy"),
	))
	fmt.Fprintln(out)
	fmt.Fprintln(out, asciigraph.Plot(treeNodes,
		asciigraph.Height(6),
		asciigraph.Width(80),
		asciigraph.Caption("octree nodes"),
	))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	snap, err := storage.New(dataDir).LoadSnapshot(args[0])
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if err := storage.Export(w, format, *snap); err != nil {
		return err
	}
	if outFile != "" {
		loggerFromContext(cmd.Context()).Info("exported layout", "run", args[0], "file", outFile, "format", format, "nodes", len(snap.Nodes))
	}
	return nil
}

type benchRow struct {
	solver  layout.Solver
	nodes   int
	perStep time.Duration
	energy  float64
}

func benchLayout(cmd *cobra.Command, args []string) error {
	logger := loggerFromContext(cmd.Context())
	registry := graph.NewRegistry()

	var rows []benchRow
	for _, n := range benchSizes {
		for _, s := range []layout.Solver{layout.SolverBarnesHut, layout.SolverPairwise} {
			g, err := registry.Generate(graph.Spec{Kind: "random", Nodes: n, Degree: 2, Spread: 100, Seed: 1})
			if err != nil {
				return err
			}
			p := layout.DefaultParams()
			p.Solver = s
			p.Theta = theta
			p.Workers = workers
			e, err := layout.New(p, layout.WithLogger(logger))
			if err != nil {
				return err
			}

			var last layout.Stats
			start := time.Now()
			for i := 0; i < benchSteps; i++ {
				last = e.StepGraph(g)
			}
			per := time.Since(start) / time.Duration(max(benchSteps, 1))
			rows = append(rows, benchRow{solver: s, nodes: n, perStep: per, energy: last.TotalKineticEnergy})
			logger.Debug("bench", "solver", s, "nodes", n, "per_step", per)
		}
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SOLVER\tNODES\tSTEP\tSTEPS/S\tENERGY")
	for _, r := range rows {
		rate := 0.0
		if r.perStep > 0 {
			rate = float64(time.Second) / float64(r.perStep)
		}
		fmt.Fprintf(w, "%s\t%d\t%v\t%.1f\t%.3f\n", r.solver, r.nodes, r.perStep.Round(time.Microsecond), rate, r.energy)
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	g, e, err := buildLayout(cmd, cfg)
	if err != nil {
		return err
	}
	title := cfg.Graph.Kind
	if preset != "" {
		title = preset
	}
	return viz.RunLive(title, e, g)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tNODES\tDEGREE\tTHETA\tCHARGE\tSOLVER\tWORKERS")
	for _, k := range config.ListKinds() {
		for _, name := range config.ListPresets(k) {
			c := config.GetPreset(k, name)
			fmt.Fprintf(w, "%s/%s\t%d\t%d\t%.2f\t%.0f\t%s\t%d\n",
				k, name, c.Graph.Nodes, c.Graph.Degree, c.Params.Theta, c.Params.Charge, c.Params.Solver, c.Params.Workers)
		}
	}
	return w.Flush()
}

package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/san-kum/forcegraph/internal/layout"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func subcommand(t *testing.T, name string, flags ...string) *cobra.Command {
	t.Helper()
	cmd, _, err := newRootCmd().Find([]string{name})
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.ParseFlags(flags); err != nil {
		t.Fatal(err)
	}
	return cmd
}

func TestResolveConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := resolveConfig(subcommand(t, "run"))
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Params != layout.DefaultParams() {
			t.Errorf("params = %+v", cfg.Params)
		}
	})

	t.Run("preset with flag override", func(t *testing.T) {
		cfg, err := resolveConfig(subcommand(t, "run", "--preset", "tree/bushy", "--theta", "0.4"))
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Graph.Kind != "tree" || cfg.Params.Damping != 0.8 || cfg.Params.Theta != 0.4 {
			t.Errorf("cfg = %+v", cfg)
		}
	})

	t.Run("config file with flag override", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cfg.yaml")
		data := "params:\n  theta: 0.7\ngraph:\n  kind: grid\n  nodes: 10\n"
		if err := os.WriteFile(path, []byte(data), 0644); err != nil {
			t.Fatal(err)
		}
		cfg, err := resolveConfig(subcommand(t, "run", "--config", path, "--nodes", "5", "--solver", "pairwise"))
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Params.Theta != 0.7 || cfg.Graph.Kind != "grid" || cfg.Graph.Nodes != 5 || cfg.Params.Solver != layout.SolverPairwise {
			t.Errorf("cfg = %+v", cfg)
		}
	})

	t.Run("errors", func(t *testing.T) {
		tests := [][]string{
			{"--preset", "tree/nonexistent"},
			{"--solver", "fmm"},
			{"--damping", "2"},
			{"--config", filepath.Join(t.TempDir(), "missing.yaml")},
		}
		for _, flags := range tests {
			if _, err := resolveConfig(subcommand(t, "run", flags...)); err == nil {
				t.Errorf("%v: expected error", flags)
			}
		}
	})
}

func TestRunListPlotExport(t *testing.T) {
	data := t.TempDir()

	out, err := execute(t, "run", "--data", data, "--kind", "ring", "--nodes", "20", "--steps", "30", "--until-stable=false")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "steps: 30") {
		t.Errorf("run output:\n%s", out)
	}
	var runID string
	for _, line := range strings.Split(out, "\n") {
		if id, ok := strings.CutPrefix(line, "run id: "); ok {
			runID = id
		}
	}
	if runID == "" {
		t.Fatalf("no run id in output:\n%s", out)
	}

	out, err = execute(t, "list", "--data", data)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, runID) || !strings.Contains(out, "ring") {
		t.Errorf("list output:\n%s", out)
	}

	out, err = execute(t, "plot", runID, "--data", data)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "kinetic energy") || !strings.Contains(out, "steps: 30") {
		t.Errorf("plot output:\n%s", out)
	}

	out, err = execute(t, "export", runID, "--data", data, "--format", "csv")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if lines[0] != "id,x,y,z" || len(lines) != 21 {
		t.Errorf("export has %d lines, header %q", len(lines), lines[0])
	}

	out, err = execute(t, "export", runID, "--data", data, "--format", "svg")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(out, "<circle") != 20 || strings.Count(out, "<line") != 20 {
		t.Errorf("svg export has %d circles and %d lines", strings.Count(out, "<circle"), strings.Count(out, "<line"))
	}

	path := filepath.Join(t.TempDir(), "pos.json")
	if _, err := execute(t, "export", runID, "--data", data, "-o", path); err != nil {
		t.Fatal(err)
	}
	if b, err := os.ReadFile(path); err != nil || !strings.Contains(string(b), `"id": "n0"`) {
		t.Errorf("json export: %v\n%s", err, b)
	}

	if _, err := execute(t, "plot", "missing", "--data", data); err == nil {
		t.Error("plot of a missing run should fail")
	}
}

func TestListEmpty(t *testing.T) {
	out, err := execute(t, "list", "--data", t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "no runs found") {
		t.Errorf("output: %q", out)
	}
}

func TestBench(t *testing.T) {
	out, err := execute(t, "bench", "--sizes", "30", "--steps", "2")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"SOLVER", "barnes-hut", "pairwise"} {
		if !strings.Contains(out, want) {
			t.Errorf("bench output is missing %q:\n%s", want, out)
		}
	}
}

func TestPresets(t *testing.T) {
	out, err := execute(t, "presets")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"tree/binary", "random/exact", "pairwise"} {
		if !strings.Contains(out, want) {
			t.Errorf("presets output is missing %q", want)
		}
	}
}

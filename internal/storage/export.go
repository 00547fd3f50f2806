package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/forcegraph/internal/physics"
)

// Position is the exported placement of one node.
type Position struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	Z  float64 `json:"z"`
}

type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Snapshot is the final layout of a run. It is output only: it carries no
// velocities and cannot resume a layout.
type Snapshot struct {
	Nodes []Position `json:"nodes"`
	Edges []Edge     `json:"edges"`
}

func SnapshotOf(bodies []*physics.Body, springs []physics.Spring) Snapshot {
	snap := Snapshot{
		Nodes: make([]Position, 0, len(bodies)),
		Edges: make([]Edge, 0, len(springs)),
	}
	for _, b := range bodies {
		if b == nil {
			continue
		}
		snap.Nodes = append(snap.Nodes, Position{ID: b.ID, X: b.Position[0], Y: b.Position[1], Z: b.Position[2]})
	}
	for _, s := range springs {
		if s.From == nil || s.To == nil {
			continue
		}
		snap.Edges = append(snap.Edges, Edge{From: s.From.ID, To: s.To.ID})
	}
	return snap
}

func ExportJSON(w io.Writer, snap Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// ExportCSV writes one row per node; edges are not included.
func ExportCSV(w io.Writer, snap Snapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "x", "y", "z"}); err != nil {
		return err
	}
	for _, p := range snap.Nodes {
		row := []string{
			p.ID,
			strconv.FormatFloat(p.X, 'f', 6, 64),
			strconv.FormatFloat(p.Y, 'f', 6, 64),
			strconv.FormatFloat(p.Z, 'f', 6, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func Export(w io.Writer, format string, snap Snapshot) error {
	switch format {
	case "json":
		return ExportJSON(w, snap)
	case "csv":
		return ExportCSV(w, snap)
	case "svg":
		_, err := io.WriteString(w, SnapshotToSVG(snap, svgSize, svgSize))
		return err
	default:
		return fmt.Errorf("storage: unknown export format %q", format)
	}
}

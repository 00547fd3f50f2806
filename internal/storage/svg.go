package storage

import (
	"fmt"
	"strings"
)

const (
	svgSize    = 800
	svgPadding = 0.1
	nodeRadius = 3.0
)

// SnapshotToSVG draws the snapshot projected onto the XY plane, scaled to
// fit width x height with a margin. Edges are drawn beneath nodes.
func SnapshotToSVG(snap Snapshot, width, height int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	if len(snap.Nodes) == 0 {
		sb.WriteString("</svg>\n")
		return sb.String()
	}

	minX, maxX := snap.Nodes[0].X, snap.Nodes[0].X
	minY, maxY := snap.Nodes[0].Y, snap.Nodes[0].Y
	for _, p := range snap.Nodes {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * svgPadding
	minY -= rangeY * svgPadding
	rangeX *= 1 + 2*svgPadding
	rangeY *= 1 + 2*svgPadding

	project := func(p Position) (float64, float64) {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)
		return x, y
	}

	index := make(map[string]Position, len(snap.Nodes))
	for _, p := range snap.Nodes {
		index[p.ID] = p
	}

	sb.WriteString(`<g stroke="#00a8cc" stroke-width="1" stroke-opacity="0.6">` + "\n")
	for _, e := range snap.Edges {
		a, okA := index[e.From]
		b, okB := index[e.To]
		if !okA || !okB {
			continue
		}
		x1, y1 := project(a)
		x2, y2 := project(b)
		fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n", x1, y1, x2, y2)
	}
	sb.WriteString("</g>\n")

	sb.WriteString(`<g fill="#00ff88">` + "\n")
	for _, p := range snap.Nodes {
		x, y := project(p)
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"><title>%s</title></circle>`+"\n", x, y, nodeRadius, p.ID)
	}
	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}

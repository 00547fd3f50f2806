package layout

import (
	"fmt"
	"time"
)

// Stats describes one frame. TotalKineticEnergy is the sum of
// mass * |velocity|^2; Stable reports whether it fell below the configured
// threshold, which is advisory only.
type Stats struct {
	TotalKineticEnergy float64
	Bounds             Bounds
	Bodies             int
	Springs            int

	TreeNodes      int
	TreeDepth      uint32
	AggregateDrift float64

	// recovered conditions
	Merged      int
	Degenerate  int
	InvalidMass int

	Stable  bool
	Elapsed time.Duration
}

func (s Stats) String() string {
	return fmt.Sprintf("energy=%.4f bodies=%d springs=%d nodes=%d depth=%d stable=%t (%s)",
		s.TotalKineticEnergy, s.Bodies, s.Springs, s.TreeNodes, s.TreeDepth, s.Stable, s.Elapsed)
}

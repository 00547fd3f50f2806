// Package octree implements the Barnes-Hut spatial index used to
// approximate node repulsion in O(N log N).
//
// A [Tree] is built from scratch each frame with [Build] and discarded at the
// end of the frame. Nodes live in a flat arena; children are addressed by a
// 3-bit octant code (bit 0 = x, bit 1 = y, bit 2 = z, set when the coordinate
// is >= the node center).
//
// Aggregates (total mass and mass-weighted position sum) are accumulated
// incrementally along each insertion path. [Tree.Audit] recomputes them
// bottom-up and reports the largest disagreement.
//
// Coincident or near-coincident bodies stop subdividing at the depth cap
// (see [WithMaxDepth]); extra bodies are merged into the capped leaf, which
// then behaves as one pseudo-body.
//
// # Forces
//
// A [Walker] computes the approximate force on one body. Walkers carry their
// own worklist, so one walker per goroutine may share a tree:
//
//	tree := octree.Build(bodies, vecmath.Zero, 500)
//	w := octree.NewWalker(tree, 1.2, -1200, 0.01)
//	f := w.Force(i)
package octree

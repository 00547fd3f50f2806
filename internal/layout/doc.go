// Package layout runs the force-directed simulation that places graph nodes
// in 3D space.
//
// Each call to [Engine.Step] executes one frame synchronously:
//
//  1. zero force accumulators and apply every spring (Hooke's law)
//  2. build an octree sized from the previous frame's bounds
//  3. accumulate Barnes-Hut repulsion per body, acceleration = force / mass
//  4. velocity = (velocity + acceleration) * damping; position += velocity
//  5. update bounds and total kinetic energy
//
// The engine keeps no state between calls other than those bounds. Pausing
// is the caller's business: stop calling Step. [Run] is a convenience loop
// for callers that want a fixed number of frames.
//
// # Example
//
//	eng, _ := layout.New(layout.DefaultParams())
//	for {
//	    stats := eng.StepGraph(g)
//	    if stats.Stable {
//	        break
//	    }
//	}
//
// # Thread Safety
//
// An Engine must not be stepped concurrently. With Params.Workers > 1 the
// repulsion pass fans out internally; each worker reads the frame's octree
// and writes only the force of its own bodies.
package layout

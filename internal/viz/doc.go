// Package viz renders a running layout in the terminal.
//
// The package implements a Bubble Tea interface:
//
//   - [Menu]: preset picker that opens a live view
//   - [Model]: live view stepping a [layout.Engine] once per frame
//   - [Canvas]: braille pixel canvas
//   - [Camera]: orbiting perspective projection
//
// # Key Bindings
//
//	Space   - Pause/Resume stepping
//	N       - Single step while paused
//	R       - Restore the initial positions
//	Arrows  - Orbit the camera
//	+/-     - Zoom
//	F       - Toggle auto-fit
//	T       - Cycle color themes
//	?       - Show help
package viz

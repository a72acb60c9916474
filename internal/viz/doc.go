// Package viz provides terminal views of a flight.
//
// [Model] is a Bubble Tea program that flies a craft live: the attitude is
// drawn as a wireframe on a Braille [Canvas] and altitude history is
// plotted with asciigraph. [Plot] renders a recorded series for the CLI.
//
// # Key Bindings
//
//	Space   - Pause/Resume
//	R       - Reset to the initial state
//	Up/K    - Throttle +5% (manual control)
//	Down/J  - Throttle -5% (manual control)
//	0-9     - Set throttle in 10% steps (9 = full)
//	[/]     - Lower/raise the altitude hold target by 5 m
//	g/G     - Raise/lower gravity by 0.5 m/s²
//	x/y/z   - Rotate camera (shift reverses)
//	+/-     - Zoom
//	T       - Cycle color themes
//	?       - Show help overlay
package viz

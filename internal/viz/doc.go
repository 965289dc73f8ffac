// Package viz renders strand runs in the terminal.
//
// [Model] is a Bubble Tea program that drives a simulator at a fixed
// frame rate and draws a side view of the strands next to the step
// accumulator state. [PlotFrames] draws a recorded run as ASCII charts and
// [StrandsToSVG] writes a strand pose as a standalone SVG image.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	H     - Inject a 0.5s frame hitch
//	+/-   - Change the frame time
//	R     - Clear the step accumulator
//	Q     - Quit
package viz

package viz

import (
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/hairsim/internal/sim"
)

// PlotFrames charts a recorded run: steps per frame with the smoothed
// count, and the accumulated remainder.
func PlotFrames(frames []sim.FrameStats, width, height int) string {
	if len(frames) < 2 {
		return "not enough frames to plot\n"
	}

	steps := make([]float64, len(frames))
	smoothed := make([]float64, len(frames))
	acc := make([]float64, len(frames))
	for i, f := range frames {
		steps[i] = float64(f.Steps)
		smoothed[i] = f.Smoothed
		acc[i] = f.Accumulated
	}

	out := asciigraph.PlotMany([][]float64{steps, smoothed},
		asciigraph.Height(height), asciigraph.Width(width),
		asciigraph.SeriesColors(asciigraph.Green, asciigraph.Cyan),
		asciigraph.Caption("steps per frame (green) and smoothed (cyan)"))
	out += "\n\n"
	out += asciigraph.Plot(acc,
		asciigraph.Height(height/2+1), asciigraph.Width(width),
		asciigraph.Caption("accumulated time (s)"))
	return out + "\n"
}

package render

import (
	"fmt"
	"math"
)

const significanceCutoff = 0.05

// colorBySignificance maps an adjusted p-value to a color between #00ff00 (p ~ 0)
// and #ff0000 (p at the cutoff), on a -log10 scale.
func colorBySignificance(p float64) string {

	// Not significant
	if math.IsNaN(p) || p >= significanceCutoff {
		return "#8B8989"
	}

	// Anything below 1e-10 is full green
	const floor = 10.0
	score := -math.Log10(math.Max(p, 1e-300))
	t := (score - (-math.Log10(significanceCutoff))) / (floor - (-math.Log10(significanceCutoff)))
	t = math.Min(math.Max(t, 0), 1)

	var r, g int
	if t <= 0.5 {
		r = 255
		g = int(math.Round(lerp(0, 255, t*2)))
	} else {
		r = int(math.Round(lerp(255, 0, (t-0.5)*2)))
		g = 255
	}

	return fmt.Sprintf("#%02X%02X00", r, g)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

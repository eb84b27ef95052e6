package ui

import "strings"

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders price samples as a row of block characters, scaled to
// the min/max of the window. A flat series renders at mid height.
func Sparkline(samples []float64) string {
	if len(samples) == 0 {
		return ""
	}
	lo, hi := samples[0], samples[0]
	for _, s := range samples[1:] {
		if s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
	}

	var b strings.Builder
	if hi == lo {
		for range samples {
			b.WriteRune(sparkRunes[len(sparkRunes)/2])
		}
		return b.String()
	}
	span := hi - lo
	for _, s := range samples {
		idx := int((s - lo) / span * float64(len(sparkRunes)-1))
		b.WriteRune(sparkRunes[idx])
	}
	return b.String()
}

package game

import (
	"fmt"
	"image/color"
	"math"
	"strings"
	"time"

	"github.com/crazy3lf/colorconv"

	"github.com/iburimskiy/particle-editor/internal/particle"
)

// meterColor runs from green at silence to red at full level.
func meterColor(level float64) color.RGBA {
	r, g, b, err := colorconv.HSVToRGB(120*(1-clamp01(level)), 0.8, 0.9)
	if err != nil {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// formatDuration formats a duration as MM:SS.t
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	tenths := int64(d / (100 * time.Millisecond))
	minutes := tenths / 600
	seconds := (tenths / 10) % 60
	return fmt.Sprintf("%02d:%02d.%d", minutes, seconds, tenths%10)
}

func formatAffectors(kinds []particle.AffectorKind) string {
	if len(kinds) == 0 {
		return "none"
	}
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return strings.Join(names, ", ")
}

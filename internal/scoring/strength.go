package scoring

import (
	"math"

	"github.com/yourusername/resumeiq-api/internal/model"
)

// CalculateStrength blends the ATS and quality scores 60/40 into one
// user-facing metric. Inputs are clamped to 0-100.
func CalculateStrength(atsScore, qualityScore int) model.Strength {
	ats := clamp(atsScore, 0, 100)
	quality := clamp(qualityScore, 0, 100)

	score := clamp(int(math.Round(0.6*float64(ats)+0.4*float64(quality))), 0, 100)

	s := model.Strength{Score: score}
	switch {
	case score < 40:
		s.Label, s.Color = "Weak", "red"
	case score < 60:
		s.Label, s.Color = "Average", "orange"
	case score < 80:
		s.Label, s.Color = "Good", "yellow"
	default:
		s.Label, s.Color = "Strong", "green"
	}
	return s
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

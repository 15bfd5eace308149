package scoring

import (
	"math"
	"strings"

	"github.com/yourusername/resumeiq-api/internal/model"
)

// PredictRole picks the role whose required skills overlap most with the
// skills, experience and projects sections. Ties keep the earlier role in
// the table; no overlap at all yields "Unknown". Confidence is ten points
// per overlapping skill, capped at 100.
func (s *Scorer) PredictRole(doc *model.ResumeDocument) model.RolePrediction {
	combined := strings.Join([]string{
		doc.Content(model.SectionSkills),
		doc.Content(model.SectionExperience),
		doc.Content(model.SectionProjects),
	}, "\n")

	found := s.vocab.ExtractSkills(combined)
	have := make(map[string]bool, len(found))
	for _, skill := range found {
		have[skill] = true
	}

	best, bestScore := "Unknown", 0
	for _, role := range s.roles.Roles() {
		required, _ := s.roles.RequiredSkills(role)
		n := 0
		for _, skill := range required {
			if have[skill] {
				n++
			}
		}
		if n > bestScore {
			best, bestScore = role, n
		}
	}

	return model.RolePrediction{
		Role:          best,
		Confidence:    math.Min(100, float64(bestScore*10)),
		MatchedSkills: found,
	}
}

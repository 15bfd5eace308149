package scoring

import (
	"fmt"
	"sort"

	"github.com/yourusername/resumeiq-api/internal/model"
)

const (
	maxJDMatched     = 20
	maxJDMissing     = 10
	maxJDSuggestions = 3
)

// MatchJobDescription compares the skills in a résumé with those a job
// description asks for. It is the rule-based answer used whenever the
// assistant is unavailable, so the result is always flagged FallbackUsed.
func (s *Scorer) MatchJobDescription(resumeText, jdText, role string) model.JDMatchResult {
	result := model.JDMatchResult{
		RoleFit:       "Poor",
		Role:          "Not specified",
		MatchedSkills: []string{},
		MissingSkills: []string{},
		Suggestions:   []string{},
		FallbackUsed:  true,
	}

	roleSkills := map[string]bool{}
	if role != "" {
		result.Role = s.roles.NormalizeRole(role)
		if required, source := s.roles.RequiredSkills(result.Role); source == result.Role {
			for _, skill := range required {
				roleSkills[skill] = true
			}
		}
	}

	have := make(map[string]bool)
	for _, skill := range s.vocab.ExtractSkills(resumeText) {
		have[skill] = true
	}
	wanted := s.vocab.ExtractSkills(jdText)

	var matched, missing []string
	for _, skill := range wanted {
		if have[skill] {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}

	// Role skills first so they survive truncation and lead the suggestions
	rolesFirst := func(list []string) {
		sort.SliceStable(list, func(i, j int) bool {
			ri, rj := roleSkills[list[i]], roleSkills[list[j]]
			if ri != rj {
				return ri
			}
			return list[i] < list[j]
		})
	}
	rolesFirst(matched)
	rolesFirst(missing)

	if len(wanted) > 0 {
		result.ATSMatchScore = min(100, len(matched)*100/len(wanted))
	}

	switch {
	case result.ATSMatchScore >= 75:
		result.RoleFit = "Strong"
	case result.ATSMatchScore >= 50:
		result.RoleFit = "Moderate"
	case result.ATSMatchScore >= 25:
		result.RoleFit = "Weak"
	}

	for _, skill := range missing[:min(len(missing), maxJDSuggestions)] {
		result.Suggestions = append(result.Suggestions,
			fmt.Sprintf("Gain experience with %s through projects or courses.", skill))
	}

	result.MatchedSkills = append(result.MatchedSkills, matched[:min(len(matched), maxJDMatched)]...)
	result.MissingSkills = append(result.MissingSkills, missing[:min(len(missing), maxJDMissing)]...)
	sort.Strings(result.MatchedSkills)
	sort.Strings(result.MissingSkills)

	return result
}

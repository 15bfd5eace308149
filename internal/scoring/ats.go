package scoring

import (
	"math"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/yourusername/resumeiq-api/internal/model"
	"github.com/yourusername/resumeiq-api/internal/skills"
)

// Scorer runs the role-aware scorers over shared read-only tables
type Scorer struct {
	vocab *skills.Vocabulary
	roles *RoleTable
}

// New builds a Scorer. Nil tables fall back to the embedded defaults.
func New(vocab *skills.Vocabulary, roles *RoleTable) *Scorer {
	if vocab == nil {
		vocab = skills.Default()
	}
	if roles == nil {
		roles = DefaultRoles()
	}
	return &Scorer{vocab: vocab, roles: roles}
}

func (s *Scorer) Roles() *RoleTable { return s.roles }

// ATS scores résumé text against the skills a role requires. The role is
// normalized first. Empty text scores 0 with no matched or missing skills.
func (s *Scorer) ATS(text, role string) model.ATSResult {
	normalized := s.roles.NormalizeRole(role)
	required, source := s.roles.RequiredSkills(normalized)

	switch {
	case source == "":
		log.Debug().Str("role", normalized).Msg("No skill table for role, using default set")
	case source != normalized:
		log.Debug().Str("role", normalized).Str("similar", source).Msg("Using skills from similar role")
	}

	result := model.ATSResult{
		Role:          normalized,
		OriginalRole:  role,
		MatchedSkills: []string{},
		MissingSkills: []string{},
		RoleSkills:    sortBySpecificity(required),
	}
	if strings.TrimSpace(text) == "" || len(result.RoleSkills) == 0 {
		return result
	}

	have := make(map[string]bool)
	for _, skill := range s.vocab.ExtractSkills(text) {
		have[skill] = true
	}

	for _, skill := range result.RoleSkills {
		if have[skill] {
			result.MatchedSkills = append(result.MatchedSkills, skill)
		} else {
			result.MissingSkills = append(result.MissingSkills, skill)
		}
	}

	result.Score = int(math.Round(100 * float64(len(result.MatchedSkills)) / float64(len(result.RoleSkills))))
	return result
}

// sortBySpecificity orders skills by descending word count, then
// alphabetically, so multi-word skills surface first. Duplicates are removed.
func sortBySpecificity(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		wi, wj := len(strings.Fields(out[i])), len(strings.Fields(out[j]))
		if wi != wj {
			return wi > wj
		}
		return out[i] < out[j]
	})
	return out
}

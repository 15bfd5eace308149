package improve

import (
	"strings"

	"github.com/yourusername/resumeiq-api/internal/model"
)

// List caps applied before anything is presented
const (
	maxListItems      = 6
	maxSkillPhrases   = 8
	maxBullets        = 5
	maxActionItems    = 5
	maxProjects       = 2
	maxTechStack      = 5
	maxImpactBullets  = 4
	maxRewriteBullets = 10
	maxSkillGroup     = 15
	maxJDMatched      = 20
	maxJDMissing      = 10
	maxJDSuggestions  = 5
)

// Final verdicts
const (
	FinalStrong = "Strong resume – ready to apply"
	FinalGood   = "Good resume – minor improvements needed"
	FinalWeak   = "Resume needs improvement"
)

// FinalVerdict summarises the ATS and quality scores in one sentence
func FinalVerdict(atsScore, qualityScore int) string {
	switch {
	case atsScore >= 80 && qualityScore >= 70:
		return FinalStrong
	case atsScore >= 60:
		return FinalGood
	default:
		return FinalWeak
	}
}

// Sanitize trims every string, drops empty entries and enforces the list
// caps. Every list in the result is non-nil.
func Sanitize(in model.Improvements) model.Improvements {
	return model.Improvements{
		Summary:           strings.TrimSpace(in.Summary),
		Strengths:         safeList(in.Strengths, maxListItems),
		Weaknesses:        safeList(in.Weaknesses, maxListItems),
		SkillsToAdd:       safeList(in.SkillsToAdd, maxListItems),
		SkillPhrases:      safeList(in.SkillPhrases, maxSkillPhrases),
		ExperienceBullets: safeList(in.ExperienceBullets, maxBullets),
		Projects:          safeProjects(in.Projects),
		FormattingTips:    safeList(in.FormattingTips, maxListItems),
		ActionItems:       safeList(in.ActionItems, maxActionItems),
		FallbackUsed:      in.FallbackUsed,
	}
}

// FromLoose reads improvements out of decoded assistant JSON. Values of the
// wrong type are dropped. ok is false when the payload carries no summary,
// which callers treat as malformed.
func FromLoose(raw map[string]any) (imp model.Improvements, ok bool) {
	imp = Sanitize(model.Improvements{
		Summary:           looseString(pick(raw, "summary")),
		Strengths:         looseList(pick(raw, "strengths")),
		Weaknesses:        looseList(pick(raw, "weaknesses")),
		SkillsToAdd:       looseList(pick(raw, "skills_to_add", "skillsToAdd")),
		SkillPhrases:      looseList(pick(raw, "skill_phrases", "skillPhrases")),
		ExperienceBullets: looseList(pick(raw, "experience_bullets", "experienceBullets")),
		Projects:          looseProjects(pick(raw, "projects")),
		FormattingTips:    looseList(pick(raw, "formatting_tips", "formattingTips")),
		ActionItems:       looseList(pick(raw, "action_items", "actionItems")),
	})
	return imp, imp.Summary != ""
}

// RewriteFromLoose reads a rewrite out of decoded assistant JSON. The caller
// fills in the role fields.
func RewriteFromLoose(raw map[string]any) (model.RewriteResult, bool) {
	res := model.RewriteResult{
		Summary:          strings.TrimSpace(looseString(pick(raw, "rewritten_summary", "rewrittenSummary"))),
		Experience:       safeList(looseList(pick(raw, "rewritten_experience", "rewrittenExperience")), maxRewriteBullets),
		Projects:         safeProjects(looseProjects(pick(raw, "rewritten_projects", "rewrittenProjects"))),
		Skills:           map[string][]string{},
		ATSKeywordsAdded: safeList(looseList(pick(raw, "ats_keywords_added", "atsKeywordsAdded")), maxSkillGroup),
	}
	if groups, ok := pick(raw, "rewritten_skills", "rewrittenSkills").(map[string]any); ok {
		for name, v := range groups {
			name = strings.TrimSpace(name)
			if list := safeList(looseList(v), maxSkillGroup); name != "" && len(list) > 0 {
				res.Skills[name] = list
			}
		}
	}
	return res, res.Summary != ""
}

// JDMatchFromLoose reads a job-description match out of decoded assistant
// JSON. ok is false unless the payload carries a numeric score.
func JDMatchFromLoose(raw map[string]any) (model.JDMatchResult, bool) {
	score, ok := pick(raw, "ats_match_score", "atsMatchScore").(float64)
	res := model.JDMatchResult{
		ATSMatchScore: max(0, min(100, int(score))),
		RoleFit:       strings.TrimSpace(looseString(pick(raw, "role_fit", "roleFit"))),
		MatchedSkills: safeList(looseList(pick(raw, "matched_skills", "matchedSkills")), maxJDMatched),
		MissingSkills: safeList(looseList(pick(raw, "missing_skills", "missingSkills")), maxJDMissing),
		Suggestions:   safeList(looseList(pick(raw, "ats_improvement_suggestions", "suggestions")), maxJDSuggestions),
	}
	if res.RoleFit == "" {
		res.RoleFit = "Unknown"
	}
	return res, ok
}

func safeList(in []string, limit int) []string {
	out := make([]string, 0, min(len(in), limit))
	for _, s := range in {
		if len(out) == limit {
			break
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func safeProjects(in []model.ProjectSuggestion) []model.ProjectSuggestion {
	out := make([]model.ProjectSuggestion, 0, maxProjects)
	for _, p := range in {
		if len(out) == maxProjects {
			break
		}
		title := strings.TrimSpace(p.Title)
		if title == "" {
			continue
		}
		out = append(out, model.ProjectSuggestion{
			Title:         title,
			Description:   strings.TrimSpace(p.Description),
			TechStack:     safeList(p.TechStack, maxTechStack),
			ImpactBullets: safeList(p.ImpactBullets, maxImpactBullets),
		})
	}
	return out
}

// ── Loose JSON helpers ────────────────────────────────

func pick(raw map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			return v
		}
	}
	return nil
}

func looseString(v any) string {
	s, _ := v.(string)
	return s
}

func looseList(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func looseProjects(v any) []model.ProjectSuggestion {
	list, _ := v.([]any)
	var out []model.ProjectSuggestion
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, model.ProjectSuggestion{
			Title:         looseString(m["title"]),
			Description:   looseString(m["description"]),
			TechStack:     looseList(pick(m, "tech_stack", "techStack")),
			ImpactBullets: looseList(pick(m, "impact_bullets", "impactBullets", "impact")),
		})
	}
	return out
}

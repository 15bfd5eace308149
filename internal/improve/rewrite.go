package improve

import (
	"fmt"
	"strings"

	"github.com/yourusername/resumeiq-api/internal/model"
	"github.com/yourusername/resumeiq-api/internal/scoring"
	"github.com/yourusername/resumeiq-api/internal/skills"
)

const (
	maxRewriteProjects = 2
	maxTextSkills      = 15
)

var bulletTemplates = []string{
	"Applied {skill} to develop and maintain {role}-focused solutions.",
	"Leveraged {skill} to implement features and fix bugs in production systems.",
	"Utilized {skill} to optimize performance and improve system reliability.",
	"Collaborated with team members using {skill} to deliver high-quality software.",
	"Designed and implemented {role}-related features using {skill}.",
	"Worked with {skill} to build scalable and maintainable applications.",
	"Used {skill} to solve complex {role} challenges.",
	"Developed and maintained applications using {skill} following best practices.",
}

var seniorBulletTemplates = []string{
	"Led the architecture and implementation of {skill} solutions for {role}.",
	"Mentored junior developers on {skill} best practices and patterns.",
	"Architected and implemented {skill} solutions for large-scale {role} applications.",
}

var projectTemplates = []struct {
	title, description string
	impact             []string
}{
	{
		"{role} Project using {skill}",
		"Developed a {role} application demonstrating {skill} proficiency.",
		[]string{"Gained hands-on experience with {skill}", "Implemented core {role} functionality"},
	},
	{
		"{skill} Implementation",
		"Built a project showcasing {skill} in a {role} context.",
		[]string{"Successfully applied {skill} to solve real-world problems"},
	},
	{
		"{role} {skill} Demo",
		"Created a demonstration of {skill} for {role} applications.",
		[]string{"Demonstrated proficiency in {skill}", "Applied {skill} to {role} use cases"},
	},
}

// Rewriter produces a role-targeted rewrite from ATS output. Template
// choice depends only on the inputs, so equal inputs give equal rewrites.
type Rewriter struct {
	vocab *skills.Vocabulary
	roles *scoring.RoleTable
}

// NewRewriter builds a Rewriter; nil arguments select the embedded tables
func NewRewriter(vocab *skills.Vocabulary, roles *scoring.RoleTable) *Rewriter {
	if vocab == nil {
		vocab = skills.Default()
	}
	if roles == nil {
		roles = scoring.DefaultRoles()
	}
	return &Rewriter{vocab: vocab, roles: roles}
}

// Rewrite builds the rule-based rewrite. level is one of Fresher, Junior,
// Mid or Senior and defaults to Mid. When the ATS result carries no skills
// at all, the skills found in the text stand in for the matched list.
func (r *Rewriter) Rewrite(text, role, level string, ats model.ATSResult) model.RewriteResult {
	if level == "" {
		level = "Mid"
	}
	original := role
	if original == "" {
		original = ats.OriginalRole
		role = ats.Role
	}
	normalized := r.roles.NormalizeRole(role)

	matched := ats.MatchedSkills
	missing := ats.MissingSkills
	roleSkills := ats.RoleSkills
	if len(matched) == 0 && len(missing) == 0 && len(roleSkills) == 0 {
		found := r.vocab.ExtractSkills(text)
		matched = found[:min(len(found), maxTextSkills)]
	}

	return model.RewriteResult{
		Summary:          rewriteSummary(normalized, matched, level),
		Experience:       rewriteBullets(matched, normalized, level),
		Projects:         rewriteProjects(missing, normalized),
		Skills:           groupSkills(matched, missing, roleSkills),
		ATSKeywordsAdded: append([]string{}, missing...),
		Role:             normalized,
		OriginalRole:     original,
		FallbackUsed:     true,
	}
}

func rewriteSummary(role string, skillList []string, level string) string {
	var focus string
	switch {
	case len(skillList) > 3:
		focus = strings.Join(skillList[:3], ", ") + ", and more"
	case len(skillList) > 0:
		focus = strings.Join(skillList, ", ")
	default:
		focus = "various technologies"
	}

	switch strings.ToLower(level) {
	case "senior":
		return fmt.Sprintf("%s %s with expertise in %s. Passionate about building scalable applications and solving complex problems. Strong problem-solving skills and attention to detail.", level, role, focus)
	case "fresher", "junior":
		return fmt.Sprintf("Detail-oriented %s with a focus on %s. Experienced in the full software development lifecycle. Committed to delivering high-quality, performant solutions.", role, focus)
	default:
		return fmt.Sprintf("Results-driven %s with experience in %s. Skilled in designing and implementing efficient solutions. Committed to writing clean, maintainable code and following best practices.", role, focus)
	}
}

func rewriteBullets(skillList []string, role, level string) []string {
	templates := bulletTemplates
	if strings.EqualFold(level, "senior") {
		// senior phrasing leads
		templates = append(append([]string{}, seniorBulletTemplates...), bulletTemplates...)
	}

	bullets := make([]string, 0, maxBullets)
	for i, skill := range skillList[:min(len(skillList), maxBullets)] {
		bullets = append(bullets, fill(templates[i%len(templates)], skill, role))
	}
	return bullets
}

func rewriteProjects(missing []string, role string) []model.ProjectSuggestion {
	projects := make([]model.ProjectSuggestion, 0, maxRewriteProjects)
	for i, skill := range missing[:min(len(missing), maxRewriteProjects)] {
		t := projectTemplates[i%len(projectTemplates)]
		impact := make([]string, len(t.impact))
		for j, line := range t.impact {
			impact[j] = fill(line, skill, role)
		}
		projects = append(projects, model.ProjectSuggestion{
			Title:         fill(t.title, skill, role),
			Description:   fill(t.description, skill, role),
			TechStack:     []string{skill},
			ImpactBullets: impact,
		})
	}
	return projects
}

func groupSkills(matched, missing, roleSkills []string) map[string][]string {
	if len(matched) > 5 || len(roleSkills) > 5 {
		return map[string][]string{
			"Core Technical Skills": append([]string{}, matched[:min(len(matched), 8)]...),
			"Additional Skills":     append([]string{}, missing[:min(len(missing), 5)]...),
		}
	}
	return map[string][]string{
		"Technical Skills": append([]string{}, matched[:min(len(matched), 10)]...),
	}
}

func fill(template, skill, role string) string {
	return strings.NewReplacer("{skill}", skill, "{role}", role).Replace(template)
}

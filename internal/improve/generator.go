// Package improve turns scoring output into presentable suggestions. The
// generators here are deterministic and never fail; they are what the
// service falls back to whenever the assistant is unavailable.
package improve

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/yourusername/resumeiq-api/internal/model"
)

const (
	maxCandidates  = 6
	minBulletWords = 6
	summaryRunes   = 280
)

var (
	noise       = regexp.MustCompile(`(?i)(@|\+?\d{10,}|\b(gpa|cgpa|percentage|marks)\b|\b20\d{2}\b|linkedin|github|email|phone|certificat|course|highly motivated|quick learner)`)
	bulletVerbs = regexp.MustCompile(`(?i)\b(built|developed|implemented|designed|created|optimized|worked|led|managed|deployed|integrated|maintained|engineered|collaborated|automated)\b`)
	techContext = regexp.MustCompile(`(?i)\b(api|backend|frontend|service|application|system|database|pipeline|feature|module|platform|tool|react|node|python|java|sql|mongodb|docker)\b`)
	tokenRe     = regexp.MustCompile(`[A-Za-z0-9.\-]+`)
	spaces      = regexp.MustCompile(`\s+`)
)

var stopwords = map[string]bool{
	"and": true, "or": true, "the": true, "a": true, "an": true, "of": true,
	"in": true, "on": true, "for": true, "to": true, "with": true, "as": true,
	"by": true, "at": true, "from": true, "that": true, "this": true, "is": true,
	"are": true, "was": true, "were": true, "be": true, "have": true, "has": true,
	"had": true, "experience": true, "years": true, "year": true,
}

// Lines containing one of these open the experience window; the stop keys
// close it. Start keys are checked first.
var (
	windowStart = []string{"experience", "work experience", "professional experience", "internship", "employment", "projects"}
	windowStop  = []string{"education", "skills", "certifications", "achievements", "summary", "contact"}
)

var formattingTips = []string{
	"Keep contact details concise and professional.",
	"Use strong action verbs and quantify impact where possible.",
	"Group skills logically (Languages, Frameworks, Tools).",
	"Maintain consistent formatting and reverse-chronological order.",
	"Limit resume length to 1–2 pages.",
}

var impactBullets = []string{
	"Designed and implemented RESTful APIs",
	"Optimized performance and reduced response times",
	"Added authentication, validation, and error handling",
}

// Generator produces rule-based improvement suggestions
type Generator struct{}

func NewGenerator() *Generator { return &Generator{} }

// Generate builds improvement suggestions from the résumé text and its ATS
// result. The output is already sanitized and flagged as a fallback.
func (g *Generator) Generate(text, role string, ats model.ATSResult) model.Improvements {
	if role == "" {
		role = ats.Role
	}
	if role == "" {
		role = "Software Engineer"
	}

	lines := nonEmptyLines(text)
	keywords := topKeywords(text)

	strengths := ats.MatchedSkills
	if len(strengths) == 0 {
		strengths = keywords[:min(len(keywords), 5)]
	}
	weaknesses := ats.MissingSkills[:min(len(ats.MissingSkills), 8)]

	out := model.Improvements{
		Summary:           summary(lines, keywords, role),
		Strengths:         strengths[:min(len(strengths), 8)],
		Weaknesses:        weaknesses,
		SkillsToAdd:       weaknesses,
		SkillPhrases:      skillPhrases(ats.MatchedSkills, weaknesses),
		ExperienceBullets: experienceBullets(lines, role),
		Projects:          projectSuggestions(ats.MissingSkills, role),
		FormattingTips:    formattingTips,
		ActionItems:       actionItems(weaknesses),
		FallbackUsed:      true,
	}
	return Sanitize(out)
}

// ── Summary ───────────────────────────────────────────

func summary(lines, keywords []string, role string) string {
	if len(lines) > 0 {
		first := strings.TrimSpace(noise.ReplaceAllString(lines[0], ""))
		if len(strings.Fields(first)) > 6 {
			if r := []rune(first); len(r) > summaryRunes {
				first = string(r[:summaryRunes])
			}
			return first
		}
	}

	focus := "relevant technologies"
	if len(keywords) > 0 {
		focus = strings.Join(keywords[:min(len(keywords), 6)], ", ")
	}
	return fmt.Sprintf("%s with experience in %s. Demonstrates practical knowledge across relevant tools and frameworks.", role, focus)
}

// topKeywords ranks tokens by frequency, ties broken by first appearance
func topKeywords(text string) []string {
	counts := map[string]int{}
	var order []string
	for _, tok := range tokenRe.FindAllString(strings.ToLower(text), -1) {
		if stopwords[tok] {
			continue
		}
		tok = strings.Trim(tok, ".-")
		if tok == "" || stopwords[tok] {
			continue
		}
		if counts[tok] == 0 {
			order = append(order, tok)
		}
		counts[tok]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	return order
}

// ── Experience bullets ────────────────────────────────

func experienceBullets(lines []string, role string) []string {
	var bullets []string
	for _, line := range experienceWindow(lines) {
		if noise.MatchString(line) {
			continue
		}
		if len(strings.Fields(line)) < minBulletWords {
			continue
		}
		if !bulletVerbs.MatchString(line) || !techContext.MatchString(line) {
			continue
		}
		bullets = append(bullets, cleanBullet(line))
		if len(bullets) == maxCandidates {
			break
		}
	}

	if len(bullets) == 0 {
		bullets = []string{
			fmt.Sprintf("Implemented backend and frontend features for %s applications using relevant technologies.", role),
			"Collaborated with team members to deliver scalable and maintainable solutions.",
		}
	}
	return bullets
}

func experienceWindow(lines []string) []string {
	var window []string
	capturing := false
	for _, line := range lines {
		low := strings.ToLower(line)
		if containsAny(low, windowStart) {
			capturing = true
			continue
		}
		if containsAny(low, windowStop) {
			if capturing {
				break
			}
			continue
		}
		if capturing {
			window = append(window, line)
		}
	}
	return window
}

func cleanBullet(line string) string {
	b := strings.TrimLeft(line, "-•*> \t")
	b = strings.TrimSpace(spaces.ReplaceAllString(noise.ReplaceAllString(b, ""), " "))
	if !bulletVerbs.MatchString(b) {
		b = "Implemented " + b
	}
	if !strings.HasSuffix(b, ".") {
		b += "."
	}
	return b
}

// ── Projects, phrases and action items ────────────────

func projectSuggestions(missing []string, role string) []model.ProjectSuggestion {
	stack := missing[:min(len(missing), 5)]
	if len(stack) == 0 {
		stack = []string{"JavaScript", "React", "Node.js"}
	}
	focus := "relevant technologies"
	if len(missing) > 0 {
		focus = strings.Join(missing[:min(len(missing), 3)], ", ")
	}

	projects := make([]model.ProjectSuggestion, 0, 2)
	for i := 1; i <= 2; i++ {
		projects = append(projects, model.ProjectSuggestion{
			Title: fmt.Sprintf("%s - Sample Project #%d", role, i),
			Description: fmt.Sprintf(
				"Build a %s project showcasing %s. Focus on real-world features, scalability, and clean architecture.",
				strings.ToLower(role), focus),
			TechStack:     stack,
			ImpactBullets: impactBullets,
		})
	}
	return projects
}

func skillPhrases(matched, weaknesses []string) []string {
	var phrases []string
	seen := map[string]bool{}
	for _, s := range append(append([]string{}, matched...), weaknesses...) {
		if seen[s] {
			continue
		}
		seen[s] = true
		phrases = append(phrases, "Proficient in "+s, "Hands-on experience with "+s)
		if len(phrases) >= maxSkillPhrases {
			break
		}
	}
	return phrases
}

func actionItems(weaknesses []string) []string {
	var items []string
	for _, s := range weaknesses[:min(len(weaknesses), 5)] {
		items = append(items, fmt.Sprintf("Add hands-on experience with %s.", s))
	}
	return append(items,
		"Add 2–3 real-world projects with measurable outcomes.",
		"Refine the professional summary for the target role.")
}

func nonEmptyLines(text string) []string {
	var out []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

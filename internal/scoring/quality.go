package scoring

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/yourusername/resumeiq-api/internal/extract"
	"github.com/yourusername/resumeiq-api/internal/model"
)

var actionVerbs = regexp.MustCompile(`(?i)\b(developed|implemented|designed|built|created|led|optimized|improved|increased|reduced|achieved)\b`)

// sectionWeights drive the composite quality score. Every weighted section
// always appears in the result, scored 0 when missing.
var sectionWeights = []struct {
	kind   model.SectionKind
	weight float64
}{
	{model.SectionSkills, 0.25},
	{model.SectionProjects, 0.30},
	{model.SectionExperience, 0.30},
	{model.SectionEducation, 0.15},
}

// flooredSections never score below 50 once they have content
var flooredSections = map[model.SectionKind]bool{
	model.SectionSkills:   true,
	model.SectionProjects: true,
}

// Composite verdicts
const (
	VerdictStrong  = "Strong resume"
	VerdictAverage = "Average resume with improvement scope"
	VerdictWeak    = "Weak resume – needs work"
)

// ScoreSection rates one section from its length, quantified detail, action
// verbs and line structure.
func ScoreSection(text string, kind model.SectionKind) model.SectionScore {
	if strings.TrimSpace(text) == "" {
		return model.SectionScore{Score: 0, Status: model.StatusMissing, Feedback: "Section is missing."}
	}

	words := len(strings.Fields(text))
	lines := 0
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) != "" {
			lines++
		}
	}
	hasMetrics := strings.IndexFunc(text, unicode.IsDigit) >= 0
	hasVerbs := actionVerbs.MatchString(text)

	score := 0
	switch {
	case words < 10:
		score += 10
	case words < 30:
		score += 20
	default:
		score += 30
	}
	if hasMetrics {
		score += 20
	}
	if hasVerbs {
		score += 20
	}
	if lines >= 3 {
		score += 10
	}

	score = min(score, 100)
	if flooredSections[kind] {
		score = max(score, 50)
	}

	var status, feedback string
	switch {
	case score >= 80:
		status, feedback = model.StatusExcellent, "This section is well-written and comprehensive."
	case score >= 60:
		status, feedback = model.StatusGood, "This section is good but could be enhanced with more details."
	case score >= 40:
		status, feedback = model.StatusAverage, "This section needs improvement. Consider adding more details and metrics."
	default:
		status, feedback = model.StatusNeedsWork, "This section requires significant improvement. Add more content and specific details."
	}

	if status != model.StatusExcellent {
		if !hasMetrics {
			feedback += " Add quantifiable metrics to strengthen your achievements."
		}
		if !hasVerbs {
			feedback += " Use more action verbs to describe your responsibilities and achievements."
		}
		if words < 20 {
			feedback += " Expand this section with more details about your experience and skills."
		}
	}

	return model.SectionScore{Score: score, Status: status, Feedback: feedback}
}

// EvaluateQuality computes the weighted composite over skills, projects,
// experience and education. A document without an Experience section but
// with Projects gets an experience score inferred from the projects'
// seniority. currentYear resolves "present" in date ranges.
func EvaluateQuality(doc *model.ResumeDocument, currentYear int) model.QualityResult {
	scores := make(map[string]model.SectionScore, len(sectionWeights))

	for _, w := range sectionWeights {
		if w.kind == model.SectionExperience {
			continue
		}
		scores[string(w.kind)] = ScoreSection(doc.Content(w.kind), w.kind)
	}
	scores[string(model.SectionExperience)] = experienceScore(doc, currentYear)

	var sum, total float64
	for _, w := range sectionWeights {
		sum += float64(scores[string(w.kind)].Score) * w.weight
		total += w.weight
	}

	overall := 0
	if total > 0 {
		overall = int(math.Round(sum / total))
	}

	verdict := VerdictWeak
	switch {
	case overall >= 75:
		verdict = VerdictStrong
	case overall >= 55:
		verdict = VerdictAverage
	}

	return model.QualityResult{OverallScore: overall, SectionScores: scores, Verdict: verdict}
}

func experienceScore(doc *model.ResumeDocument, currentYear int) model.SectionScore {
	if content := doc.Content(model.SectionExperience); strings.TrimSpace(content) != "" {
		return ScoreSection(content, model.SectionExperience)
	}

	projects := doc.Content(model.SectionProjects)
	if strings.TrimSpace(projects) == "" {
		return model.SectionScore{Score: 0, Status: model.StatusMissing, Feedback: "Experience section is missing."}
	}

	seniority := extract.InferSeniority(projects, currentYear)
	score := 75
	if seniority.Level == extract.LevelJunior || seniority.Level == extract.LevelMid {
		score = 60
	}

	return model.SectionScore{
		Score:  score,
		Status: model.StatusInferred,
		Feedback: fmt.Sprintf(
			"Experience inferred from projects (%s level, %s yrs approx). Add a formal Experience section.",
			seniority.Level, strconv.FormatFloat(seniority.Years, 'f', -1, 64)),
	}
}

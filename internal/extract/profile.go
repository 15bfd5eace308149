package extract

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/yourusername/resumeiq-api/internal/model"
)

// skillSources are the sections trusted for skill detection, in merge order
var skillSources = []model.SectionKind{
	model.SectionSkills,
	model.SectionExperience,
	model.SectionProjects,
}

// Profile runs every extractor over a segmented document
func (e *Extractor) Profile(doc *model.ResumeDocument) model.ResumeProfile {
	p := model.ResumeProfile{
		Skills:         []model.DetectedSkill{},
		Experience:     e.Experience(doc.Content(model.SectionExperience)),
		Projects:       e.Projects(doc.Content(model.SectionProjects)),
		Education:      e.Education(doc.Content(model.SectionEducation)),
		Certifications: e.Certifications(doc.Content(model.SectionCertifications)),
	}

	for _, kind := range skillSources {
		if content := doc.Content(kind); content != "" {
			p.Skills = e.vocab.MergeSkills(p.Skills, e.vocab.DetectSkills(content, string(kind)))
		}
	}

	p.Insights = insights(p)
	return p
}

var techCategories = map[string]bool{
	"programming_languages": true,
	"frameworks":            true,
	"tools":                 true,
}

func insights(p model.ResumeProfile) model.Insights {
	in := model.Insights{
		Strengths:           []string{},
		AreasForImprovement: []string{},
		RoleSuitability:     map[string]int{},
	}

	var tech []string
	for _, s := range p.Skills {
		if techCategories[s.Category] {
			tech = append(tech, s.Name)
		}
	}
	switch {
	case len(tech) > 3:
		in.Strengths = append(in.Strengths, fmt.Sprintf(
			"Strong technical skills in %s and %d other technologies.",
			strings.Join(tech[:3], ", "), len(tech)-3))
	case len(tech) > 0:
		in.Strengths = append(in.Strengths, fmt.Sprintf(
			"Strong technical skills in %s.", strings.Join(tech, ", ")))
	}

	if n := len(p.Experience); n > 0 {
		in.Strengths = append(in.Strengths, fmt.Sprintf(
			"%d+ years of professional experience.", min(n*2, 15)))
	}

	if best, ok := highestDegree(p.Education); ok {
		if best.Institution != "" {
			in.Strengths = append(in.Strengths, fmt.Sprintf("Holds a %s from %s.", best.Degree, best.Institution))
		} else {
			in.Strengths = append(in.Strengths, fmt.Sprintf("Holds a %s.", best.Degree))
		}
	}

	if !hasQuantifiedProject(p.Projects) {
		in.AreasForImprovement = append(in.AreasForImprovement,
			"Add measurable impact to your project descriptions (e.g., 'Improved performance by X%' or 'Reduced costs by $Y').")
	}

	hasCert := false
	for _, c := range p.Certifications {
		if c.Name != "" {
			hasCert = true
			break
		}
	}
	if !hasCert {
		in.AreasForImprovement = append(in.AreasForImprovement,
			"Consider adding relevant certifications to validate your skills.")
	}

	for _, s := range p.Skills {
		if s.Name == "python" || s.Name == "javascript" || s.Name == "java" {
			in.RoleSuitability["Software Developer"] = 85
			break
		}
	}
	for _, x := range p.Experience {
		title := strings.ToLower(x.Title)
		if strings.Contains(title, "manager") || strings.Contains(title, "lead") || strings.Contains(title, "director") {
			in.RoleSuitability["Engineering Manager"] = 80
			break
		}
	}

	return in
}

func hasQuantifiedProject(projects []model.Project) bool {
	for _, p := range projects {
		if strings.IndexFunc(p.Description, unicode.IsDigit) >= 0 {
			return true
		}
	}
	return false
}

// highestDegree picks the entry with the highest degree level; ties keep the
// first listed
func highestDegree(education []model.Education) (model.Education, bool) {
	best, bestLevel := model.Education{}, -1
	for _, ed := range education {
		if ed.Degree == "" {
			continue
		}
		if lvl := degreeLevel(ed.Degree); lvl > bestLevel {
			best, bestLevel = ed, lvl
		}
	}
	return best, bestLevel >= 0
}

func degreeLevel(degree string) int {
	d := strings.ToLower(degree) + " "
	switch {
	case strings.Contains(d, "phd"), strings.Contains(d, "doctor"):
		return 5
	case strings.Contains(d, "master"), strings.Contains(d, "msc"), strings.Contains(d, "mba"):
		return 4
	case strings.Contains(d, "bachelor"), strings.Contains(d, "bsc"), strings.Contains(d, "ba "),
		strings.Contains(d, "b.tech"), strings.Contains(d, "btech"):
		return 3
	case strings.Contains(d, "associate"), strings.Contains(d, "diploma"):
		return 2
	}
	return 1
}
